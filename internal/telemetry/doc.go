// Package telemetry обеспечивает наблюдаемость системы.
//
// Включает:
//   - logging.go — structured logging через slog
//   - metrics.go — Prometheus метрики построения и сессий
//
// API экспортирует метрики на /metrics endpoint.
package telemetry
