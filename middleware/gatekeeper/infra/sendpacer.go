package infra

import (
	"context"
	"sync/atomic"

	"bot-gatekeeper/middleware/gatekeeper/domain"

	"golang.org/x/time/rate"
)

// PacedSender envolve um Sender com um token bucket global: os avisos de
// negação não podem, eles mesmos, inundar o transporte quando muitos
// usuários estouram limites ao mesmo tempo.
//
// Avisos acima do ritmo são descartados (best-effort — o aviso é cortesia,
// a negação em si já aconteceu).
type PacedSender struct {
	inner   domain.Sender
	lim     *rate.Limiter
	dropped atomic.Int64
}

// NewPacedSender cria um sender com no máximo `perSecond` avisos por segundo
// e rajada `burst`.
func NewPacedSender(inner domain.Sender, perSecond float64, burst int) *PacedSender {
	return &PacedSender{
		inner: inner,
		lim:   rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (p *PacedSender) Send(ctx context.Context, userID int64, n domain.Notice) error {
	if !p.lim.Allow() {
		p.dropped.Add(1)
		return nil
	}
	return p.inner.Send(ctx, userID, n)
}

// Dropped retorna quantos avisos foram descartados por falta de budget.
func (p *PacedSender) Dropped() int64 { return p.dropped.Load() }
