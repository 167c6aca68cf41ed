// nfa2dfa API — HTTP сервер построения DFA по NFA.
//
// Сервер:
//   - Хранит NFA и результаты построений в PostgreSQL
//   - Ведёт пошаговые сессии построения с анимацией в памяти
//   - Удаляет простаивающие сессии по расписанию (SESSION_SWEEP, SESSION_IDLE_TTL)
//   - Публикует события сессий и построений в RabbitMQ
//
// Без PostgreSQL работают только /presets и /sessions,
// без RabbitMQ события не публикуются.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/nfa2dfa/internal/api"
	"github.com/shaiso/nfa2dfa/internal/converter"
	"github.com/shaiso/nfa2dfa/internal/mq"
	"github.com/shaiso/nfa2dfa/internal/repo"
	"github.com/shaiso/nfa2dfa/internal/scheduler"
	"github.com/shaiso/nfa2dfa/internal/session"
	"github.com/shaiso/nfa2dfa/internal/telemetry"
)

var startTime = time.Now()

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting nfa2dfa-api")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := api.Config{Logger: logger}

	// Подключаемся к базе данных
	pool, err := repo.NewPool(ctx)
	if err != nil {
		logger.Warn("database not available, stored automata disabled", "error", err)
	} else {
		defer pool.Close()
		if err := repo.Migrate(ctx, pool); err != nil {
			logger.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
		logger.Info("connected to database")

		cfg.Automata = repo.NewAutomatonRepo(pool)
		cfg.Conversions = repo.NewConversionRepo(pool)
	}

	// RabbitMQ
	sessionCfg := session.Config{
		Interval: envDuration("ANIMATION_INTERVAL_MS", 0),
		Labels:   converter.LabelScheme(os.Getenv("DFA_LABELS")),
		Logger:   logger,
	}

	mqURL := os.Getenv("RABBITMQ_URL")
	if mqURL == "" {
		mqURL = mq.DefaultURL()
	}

	mqConn, err := mq.NewConnection(mq.ConnectionConfig{URL: mqURL, Logger: logger})
	if err != nil {
		logger.Warn("RabbitMQ not available, events disabled", "error", err)
	} else {
		defer mqConn.Close()
		logger.Info("RabbitMQ connected")

		// Создаём топологию
		if err := mq.SetupTopology(ctx, mqConn); err != nil {
			logger.Warn("failed to setup topology", "error", err)
		}
		logger.Debug("topology", "info", mq.TopologyInfo())

		publisher := mq.NewPublisher(mqConn, logger)
		sessionCfg.Publisher = publisher
		cfg.Publisher = publisher
	}

	sessions, err := session.NewManager(sessionCfg)
	if err != nil {
		logger.Error("invalid session config", "error", err)
		os.Exit(1)
	}
	cfg.Sessions = sessions

	// Очистка простаивающих сессий
	idleTTL, err := time.ParseDuration(envOr("SESSION_IDLE_TTL", scheduler.DefaultIdleTTL.String()))
	if err != nil {
		logger.Error("invalid SESSION_IDLE_TTL", "error", err)
		os.Exit(1)
	}
	janitor, err := scheduler.New(scheduler.Config{
		Sessions: sessions,
		Schedule: envOr("SESSION_SWEEP", scheduler.DefaultSchedule),
		IdleTTL:  idleTTL,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("invalid SESSION_SWEEP", "error", err)
		os.Exit(1)
	}
	go janitor.Run(ctx)

	// Создаём API handler
	handler := api.NewHandler(cfg)

	mux := http.NewServeMux()

	// Health и metrics
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		broker := "disabled"
		if mqConn != nil {
			broker = "reconnecting"
			if mqConn.IsConnected() {
				broker = "connected"
			}
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s, %d sessions, broker %s", time.Since(startTime).Round(time.Second), sessions.Len(), broker)
	})
	mux.Handle("/metrics", promhttp.Handler())

	// Регистрируем API маршруты
	handler.RegisterRoutes(mux)

	addr := ":8080"
	if v := os.Getenv("API_PORT"); v != "" {
		addr = ":" + v
	}

	// Создаём HTTP сервер с возможностью graceful shutdown
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		logger.Info("listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			cancel()
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()
	logger.Info("shutting down")

	// Graceful shutdown с таймаутом 10 секунд
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	// Сессии останавливаются после HTTP, чтобы последние события успели уйти
	if err := sessions.Close(shutdownCtx); err != nil {
		logger.Error("failed to flush session events", "error", err)
	}

	logger.Info("stopped")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envDuration читает интервал в миллисекундах; def — если переменной нет.
func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms <= 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}
