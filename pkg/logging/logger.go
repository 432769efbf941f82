// Package logging defines the structured logger used by services. Handlers and
// middleware keep using gin's own access log.
package logging

import "context"

// Logger is a context-aware, structured logger. Variadic args are key/value pairs:
//
//	log.Info(ctx, "video created", "video_id", v.ID, "user_id", userID)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) Logger
}
