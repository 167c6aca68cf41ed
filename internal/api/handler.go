package api

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shaiso/nfa2dfa/internal/domain"
	"github.com/shaiso/nfa2dfa/internal/mq"
	"github.com/shaiso/nfa2dfa/internal/repo"
	"github.com/shaiso/nfa2dfa/internal/session"
)

// AutomatonStore — хранилище автоматов. *repo.AutomatonRepo его реализует.
type AutomatonStore interface {
	Create(ctx context.Context, a *domain.Automaton) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Automaton, error)
	List(ctx context.Context) ([]domain.Automaton, error)
	Update(ctx context.Context, a *domain.Automaton) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ConversionStore — хранилище построений. *repo.ConversionRepo его реализует.
type ConversionStore interface {
	Create(ctx context.Context, c *domain.Conversion) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversion, error)
	List(ctx context.Context, filter repo.ConversionFilter) ([]domain.Conversion, error)
}

// ConversionPublisher сообщает о сохранённых построениях. *mq.Publisher его реализует.
type ConversionPublisher interface {
	PublishConversionCompleted(ctx context.Context, payload mq.ConversionCompletedPayload) error
}

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	automata    AutomatonStore
	conversions ConversionStore
	sessions    *session.Manager
	publisher   ConversionPublisher
	logger      *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	// Automata — хранилище автоматов. Без него маршруты /automata не регистрируются.
	Automata AutomatonStore

	// Conversions — хранилище построений (нужно вместе с Automata).
	Conversions ConversionStore

	// Sessions — менеджер сессий. Без него маршруты /sessions не регистрируются.
	Sessions *session.Manager

	// Publisher — получатель событий о построениях (optional).
	Publisher ConversionPublisher

	// Logger (default: slog.Default()).
	Logger *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Handler{
		automata:    cfg.Automata,
		conversions: cfg.Conversions,
		sessions:    cfg.Sessions,
		publisher:   cfg.Publisher,
		logger:      cfg.Logger,
	}
}
