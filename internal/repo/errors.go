package repo

import "errors"

// Общие ошибки репозиториев.
var (
	// ErrNotFound — запись не найдена в БД.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists — имя автомата уже занято.
	ErrAlreadyExists = errors.New("already exists")
)
