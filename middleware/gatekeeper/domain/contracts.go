package domain

import "time"

// WindowLimiter decide admissão contra uma janela deslizante por usuário.
//
// Implementações devem ser linearizáveis por usuário: duas admissões
// concorrentes do mesmo usuário nunca podem ambas observar a última vaga
// livre. O prune + append condicional é uma seção crítica única.
type WindowLimiter interface {
	Admit(userID int64) Admission
}

// CooldownTracker controla o intervalo mínimo entre usos do mesmo comando
// pelo mesmo usuário.
//
// remaining só é significativo quando allowed == false. A âncora do cooldown
// é o último uso bem-sucedido: tentativas negadas não atualizam a entrada.
type CooldownTracker interface {
	CheckAndRecord(userID int64, command string) (allowed bool, remaining time.Duration)
}

// RepeatDetector acusa conteúdo idêntico repetido demais dentro da janela.
//
// Mensagens negadas não entram no histórico (senão o contador cresceria sem
// limite só com as próprias tentativas de spam).
type RepeatDetector interface {
	Check(userID int64, content string) (allowed bool)
}

// WarningEscalator acumula violações consecutivas do rate limit e mapeia o
// contador para um tier de resposta.
//
// Relax é o sinal de bom comportamento: invocado após toda admissão, zera o
// contador quando o tamanho da janela cai abaixo da metade do teto. Não há
// decaimento por tempo independente desse sinal.
type WarningEscalator interface {
	RecordViolation(userID int64) Escalation
	Relax(userID int64, windowSize, ceiling int)
}

// ActivityTracker registra o último instante de atividade de cada usuário.
type ActivityTracker interface {
	// Touch registra atividade agora e retorna há quanto tempo o usuário
	// estava inativo (zero na primeira vez).
	Touch(userID int64) (idle time.Duration, seen bool)
}
