package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/nfa2dfa/internal/fsa"
)

// Automaton — сохранённый NFA вместе с раскладкой узлов.
//
// Automaton — это "исходник" для построения: сессии и сохранённые
// построения (Conversion) ссылаются на него по ID.
type Automaton struct {
	// ID — уникальный идентификатор автомата.
	ID uuid.UUID `json:"id"`

	// Name — уникальное имя (например, "sipser-1.38").
	Name string `json:"name"`

	// Description — произвольное описание.
	Description string `json:"description,omitempty"`

	// Snapshot — узлы редактора и сам NFA (содержимое JSONB поля snapshot).
	Snapshot *fsa.Snapshot `json:"snapshot"`

	// CreatedAt — время создания.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt — время последнего изменения снимка.
	UpdatedAt time.Time `json:"updated_at"`
}

// NFA восстанавливает автомат из снимка с проверкой согласованности.
func (a *Automaton) NFA() (*fsa.FSA, error) {
	if a.Snapshot == nil {
		return nil, fsa.ErrMissingFSA
	}
	return a.Snapshot.Reconstruct()
}
