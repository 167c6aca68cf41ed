// Package api содержит HTTP API сервер.
//
// Структура:
//   - handler.go            — Handler с DI (хранилища, менеджер сессий, publisher, logger)
//   - routes.go             — регистрация маршрутов
//   - middleware.go         — middleware (logging, metrics, recovery)
//   - response.go           — унифицированные JSON-ответы и обработка ошибок
//   - dto.go                — Data Transfer Objects (request/response)
//   - preset_handler.go     — обработчики для /presets
//   - automaton_handler.go  — обработчики для /automata
//   - conversion_handler.go — обработчики для /automata/{id}/conversions и /conversions
//   - session_handler.go    — обработчики для /sessions
//
// API позволяет хранить NFA, строить по ним DFA целиком и вести
// пошаговые сессии построения с анимацией.
package api
