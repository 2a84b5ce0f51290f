package repository

import (
	"context"
	"errors"
)

var (
	// ErrNoAdapter возвращается компонентами, собранными без хранилища
	ErrNoAdapter = errors.New("storage adapter is not configured")
)

// Adapter минимальный интерфейс к реляционному хранилищу.
// Запросы используют плейсхолдеры `?`; реализация подставляет синтаксис диалекта.
type Adapter interface {
	// GetOne сканирует первую строку результата в dest. found=false, если строк нет.
	GetOne(ctx context.Context, dest any, query string, args ...any) (found bool, err error)
	// GetMany сканирует все строки результата в dest (указатель на слайс).
	GetMany(ctx context.Context, dest any, query string, args ...any) error
	// Exec выполняет изменяющий запрос и возвращает число затронутых строк.
	Exec(ctx context.Context, query string, args ...any) (rowsAffected int64, err error)
}
