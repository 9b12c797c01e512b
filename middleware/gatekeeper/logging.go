package gatekeeper

import (
	"context"
	"log/slog"
	"time"

	"bot-gatekeeper/middleware/gatekeeper/domain"
)

// LoggingMiddleware loga todo evento na entrada e o tempo de processamento na
// saída. Puro pass-through: registre por fora da cadeia de proteção para
// enxergar inclusive os eventos negados.
func LoggingMiddleware(logger *slog.Logger) func(next Handler) Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next Handler) Handler {
		return func(ctx context.Context, upd domain.Update) error {
			start := time.Now()

			logger.Info("update received",
				slog.String("type", eventKind(upd)),
				slog.Int64("user_id", upd.UserID),
			)

			err := next(ctx, upd)

			if err != nil {
				logger.Error("update failed",
					slog.String("type", eventKind(upd)),
					slog.Int64("user_id", upd.UserID),
					slog.Duration("took", time.Since(start)),
					slog.Any("err", err),
				)
				return err
			}

			logger.Debug("update processed",
				slog.String("type", eventKind(upd)),
				slog.Duration("took", time.Since(start)),
			)
			return nil
		}
	}
}

func eventKind(upd domain.Update) string {
	switch {
	case upd.Callback:
		return "callback"
	case upd.Command != "":
		return "command " + upd.Command
	case upd.Content != "":
		return "message"
	}
	return "other"
}

// returningAfter é a inatividade mínima para logar o retorno de um usuário.
const returningAfter = time.Hour

// ActivityMiddleware registra a atividade de cada usuário e loga quando
// alguém volta depois de um período longo de inatividade. Pass-through.
func ActivityMiddleware(tracker domain.ActivityTracker, logger *slog.Logger) func(next Handler) Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next Handler) Handler {
		return func(ctx context.Context, upd domain.Update) error {
			if tracker != nil && upd.Identified() {
				if idle, seen := tracker.Touch(upd.UserID); seen && idle > returningAfter {
					logger.Info("user returned after inactivity",
						slog.Int64("user_id", upd.UserID),
						slog.Duration("idle", idle),
					)
				}
			}
			return next(ctx, upd)
		}
	}
}
