package application

import (
	"bot-gatekeeper/middleware/gatekeeper/domain"
)

// Service concentra a regra de aplicação do pipeline de admissão.
//
// Ele não sabe nada sobre o transporte (mensagens, alertas), apenas avalia os
// estágios em ordem fixa e devolve uma decisão. Componentes nil são tratados
// como estágios desabilitados (passam direto), no mesmo espírito do resto
// da lib.
type Service struct {
	Window   domain.WindowLimiter
	Cooldown domain.CooldownTracker
	Spam     domain.RepeatDetector
	Warnings domain.WarningEscalator
}

// Decide percorre os estágios na ordem rate → cooldown → spam. O primeiro a
// negar encerra a avaliação; se todos admitem, o veredito aponta para o
// handler (Stage == StageHandler).
//
// Para um mesmo evento os estágios rodam estritamente em sequência; não há
// fan-out paralelo dentro de uma avaliação.
func (s Service) Decide(upd domain.Update) domain.Verdict {
	// Sem usuário identificável não há throttling possível.
	if !upd.Identified() {
		return domain.Verdict{Allowed: true, Stage: domain.StageHandler}
	}

	if s.Window != nil {
		adm := s.Window.Admit(upd.UserID)
		if !adm.Allowed {
			v := domain.Verdict{
				Allowed: false,
				Reason:  domain.ReasonRateLimited,
				Stage:   domain.StageRate,
			}
			if s.Warnings != nil {
				v.Escalation = s.Warnings.RecordViolation(upd.UserID)
			}
			return v
		}
		if s.Warnings != nil {
			s.Warnings.Relax(upd.UserID, adm.Size, adm.Ceiling)
		}
	}

	// Cooldown só se aplica a eventos com forma de comando; texto comum e
	// callbacks passam direto.
	if upd.Command != "" && !upd.Callback && s.Cooldown != nil {
		allowed, remaining := s.Cooldown.CheckAndRecord(upd.UserID, upd.Command)
		if !allowed {
			return domain.Verdict{
				Allowed:    false,
				Reason:     domain.ReasonCooldown,
				Stage:      domain.StageCooldown,
				RetryAfter: remaining,
			}
		}
	}

	if upd.Content != "" && s.Spam != nil {
		if !s.Spam.Check(upd.UserID, upd.Content) {
			return domain.Verdict{
				Allowed: false,
				Reason:  domain.ReasonSpam,
				Stage:   domain.StageSpam,
			}
		}
	}

	return domain.Verdict{Allowed: true, Stage: domain.StageHandler}
}
