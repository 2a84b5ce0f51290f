package http

import "context"

// ContextKey тип для ключей контекста
type ContextKey string

const (
	// VisitorIDKey ключ для ID посетителя, определенного middleware
	VisitorIDKey ContextKey = "visitor_id"
	// SessionIDKey ключ для ID сессии
	SessionIDKey ContextKey = "session_id"
)

// GetVisitorIDFromContext извлекает ID посетителя из контекста
func GetVisitorIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(VisitorIDKey).(string)
	return id, ok && id != ""
}

// GetSessionIDFromContext извлекает ID сессии из контекста
func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(SessionIDKey).(string)
	return id, ok && id != ""
}

func withSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionIDKey, sessionID)
}

func withVisitorID(ctx context.Context, visitorID string) context.Context {
	return context.WithValue(ctx, VisitorIDKey, visitorID)
}
