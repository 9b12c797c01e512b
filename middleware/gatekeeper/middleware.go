package gatekeeper

import (
	"context"
	"log/slog"
	"time"

	"bot-gatekeeper/middleware/gatekeeper/application"
	"bot-gatekeeper/middleware/gatekeeper/domain"
)

// Handler é a continuação protegida: o handler de negócio do bot.
type Handler func(ctx context.Context, upd domain.Update) error

type Options struct {
	Window   domain.WindowLimiter
	Cooldown domain.CooldownTracker
	Spam     domain.RepeatDetector
	Warnings domain.WarningEscalator

	// Sender entrega os avisos de negação ao usuário. Nil desabilita avisos
	// (as negações continuam valendo).
	Sender domain.Sender

	// Stats recebe uma entrada por evento avaliado, best-effort.
	Stats domain.StatsStore

	Logger *slog.Logger
}

// Middleware monta a cadeia de admissão: rate → cooldown → spam → handler.
//
// O primeiro estágio a negar encerra o processamento e emite o próprio aviso
// via Sender. Nenhum lock de estado é retido durante Send nem durante o
// handler — os locks vivem só dentro das seções críticas da infra.
//
// Erros do handler são capturados, logados e convertidos em um aviso
// genérico de falha; nunca propagam (a quebra do handler de um usuário não
// derruba o atendimento dos demais). Falha interna na avaliação nega o
// evento (fail-closed), nunca admite em silêncio.
func Middleware(opts Options) func(next Handler) Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	svc := application.Service{
		Window:   opts.Window,
		Cooldown: opts.Cooldown,
		Spam:     opts.Spam,
		Warnings: opts.Warnings,
	}

	return func(next Handler) Handler {
		return func(ctx context.Context, upd domain.Update) error {
			v := decide(svc, upd, opts.Logger)

			if opts.Stats != nil {
				_ = opts.Stats.Record(ctx, domain.StatsEvent{
					UserID:  upd.UserID,
					Stage:   v.Stage,
					Allowed: v.Allowed,
					At:      time.Now(),
				})
			}

			if !v.Allowed {
				logDenial(opts.Logger, upd, v)
				notify(ctx, opts, upd, noticeFor(v))
				return nil
			}

			if err := next(ctx, upd); err != nil {
				opts.Logger.Error("handler error",
					slog.Int64("user_id", upd.UserID),
					slog.Any("err", err),
				)
				notify(ctx, opts, upd, domain.Notice{Kind: domain.NoticeFailure})
				return nil
			}
			return nil
		}
	}
}

// decide avalia o evento com guarda de pânico: um estágio que quebrar vira
// negação por falha interna, nunca admissão silenciosa.
func decide(svc application.Service, upd domain.Update, logger *slog.Logger) (v domain.Verdict) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("gatekeeper evaluation panicked",
				slog.Int64("user_id", upd.UserID),
				slog.Any("panic", r),
			)
			v = domain.Verdict{
				Allowed: false,
				Reason:  domain.ReasonInternalFault,
				Stage:   domain.StageRate,
			}
		}
	}()
	return svc.Decide(upd)
}

func logDenial(logger *slog.Logger, upd domain.Update, v domain.Verdict) {
	switch v.Reason {
	case domain.ReasonRateLimited:
		logger.Warn("rate limit exceeded",
			slog.Int64("user_id", upd.UserID),
			slog.String("tier", v.Escalation.Tier.String()),
			slog.Int("violations", v.Escalation.Violations),
		)
	case domain.ReasonCooldown:
		logger.Info("command on cooldown",
			slog.Int64("user_id", upd.UserID),
			slog.String("command", upd.Command),
			slog.Duration("remaining", v.RetryAfter),
		)
	case domain.ReasonSpam:
		logger.Warn("spam detected",
			slog.Int64("user_id", upd.UserID),
			slog.String("content", upd.Content),
		)
	case domain.ReasonInternalFault:
		logger.Error("event denied by internal fault",
			slog.Int64("user_id", upd.UserID),
		)
	}
}

// noticeFor traduz o veredito para o payload semântico do aviso. A redação
// final é do transporte.
func noticeFor(v domain.Verdict) domain.Notice {
	switch v.Reason {
	case domain.ReasonRateLimited:
		switch v.Escalation.Tier {
		case domain.TierSoft:
			return domain.Notice{Kind: domain.NoticeSlowDown}
		case domain.TierHard:
			return domain.Notice{Kind: domain.NoticeRestricted}
		default:
			return domain.Notice{Kind: domain.NoticeBlocked, BlockFor: v.Escalation.BlockFor}
		}
	case domain.ReasonCooldown:
		return domain.Notice{Kind: domain.NoticeCooldown, RetryAfter: v.RetryAfter}
	case domain.ReasonSpam:
		return domain.Notice{Kind: domain.NoticeSpam}
	default:
		return domain.Notice{Kind: domain.NoticeFailure}
	}
}

// notify emite o aviso best-effort: erro do Sender é logado e engolido.
func notify(ctx context.Context, opts Options, upd domain.Update, n domain.Notice) {
	if opts.Sender == nil || !upd.Identified() {
		return
	}
	n.Alert = upd.Callback
	if err := opts.Sender.Send(ctx, upd.UserID, n); err != nil {
		opts.Logger.Warn("failed to deliver notice",
			slog.Int64("user_id", upd.UserID),
			slog.String("kind", n.Kind.String()),
			slog.Any("err", err),
		)
	}
}
