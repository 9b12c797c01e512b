package gatekeeper

import (
	"context"
	"log/slog"
	"time"

	"bot-gatekeeper/middleware/gatekeeper/application"
	"bot-gatekeeper/middleware/gatekeeper/domain"
	"bot-gatekeeper/middleware/gatekeeper/infra"
)

type ConcurrencyOptions struct {
	// Max é o número máximo de handlers executando ao mesmo tempo no
	// dispatcher inteiro. Zero ou negativo desabilita o middleware.
	Max int

	// AcquireTimeout limita a espera por uma vaga; zero espera até o ctx
	// do evento cancelar.
	AcquireTimeout time.Duration

	// Sender, quando presente, avisa o usuário que o evento foi descartado
	// por sobrecarga (best-effort).
	Sender domain.Sender

	Logger *slog.Logger
}

// ConcurrencyMiddleware limita quantos eventos podem estar dentro do handler
// protegido simultaneamente. Sem vaga dentro do timeout, o evento é
// descartado com log — shedding explícito em vez de fila sem limite.
func ConcurrencyMiddleware(opts ConcurrencyOptions) func(next Handler) Handler {
	if opts.Max <= 0 {
		return func(next Handler) Handler { return next }
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	svc := application.ConcurrencyService{
		Pool:           infra.NewChanPool(opts.Max),
		AcquireTimeout: opts.AcquireTimeout,
	}

	return func(next Handler) Handler {
		return func(ctx context.Context, upd domain.Update) error {
			release, ok := svc.Acquire(ctx)
			if !ok {
				opts.Logger.Warn("event shed under load",
					slog.Int64("user_id", upd.UserID),
				)
				if opts.Sender != nil && upd.Identified() {
					n := domain.Notice{Kind: domain.NoticeFailure, Alert: upd.Callback}
					_ = opts.Sender.Send(ctx, upd.UserID, n)
				}
				return nil
			}
			defer release()

			return next(ctx, upd)
		}
	}
}
