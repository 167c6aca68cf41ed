package session

import "errors"

var (
	// ErrSessionNotFound — сессии с таким ID нет.
	ErrSessionNotFound = errors.New("session not found")

	// ErrManagerClosed — менеджер закрыт, новые сессии не создаются.
	ErrManagerClosed = errors.New("session manager is closed")

	// ErrSessionFailed — шаг построения завершился ошибкой.
	// Продолжить можно только после Reset.
	ErrSessionFailed = errors.New("session failed, reset required")
)
