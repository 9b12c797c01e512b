package infra

import (
	"sync"
	"time"
)

// DefaultCooldowns é a tabela estática de cooldowns por comando.
// Comandos fora da tabela passam sempre e não são rastreados.
func DefaultCooldowns() map[string]time.Duration {
	return map[string]time.Duration{
		"/start": 5 * time.Second,
		"/help":  3 * time.Second,
		"/stats": 10 * time.Second,
	}
}

// Cooldown guarda o último uso bem-sucedido de cada (usuário, comando) e
// nega reutilizações antes do intervalo configurado.
type Cooldown struct {
	mu    sync.Mutex
	users map[int64]*userCooldowns

	table        map[string]time.Duration
	idleTTL      time.Duration
	cleanupEvery time.Duration
	now          func() time.Time
}

type userCooldowns struct {
	mu   sync.Mutex
	last map[string]time.Time
}

type CooldownOption func(*Cooldown)

// WithCooldownTable substitui a tabela padrão de comandos.
func WithCooldownTable(table map[string]time.Duration) CooldownOption {
	return func(c *Cooldown) { c.table = table }
}

func WithCooldownIdleTTL(d time.Duration) CooldownOption {
	return func(c *Cooldown) { c.idleTTL = d }
}

func WithCooldownCleanupEvery(d time.Duration) CooldownOption {
	return func(c *Cooldown) { c.cleanupEvery = d }
}

func WithCooldownNow(now func() time.Time) CooldownOption {
	return func(c *Cooldown) { c.now = now }
}

func NewCooldown(opts ...CooldownOption) *Cooldown {
	c := &Cooldown{
		users:        make(map[int64]*userCooldowns),
		table:        DefaultCooldowns(),
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckAndRecord implementa domain.CooldownTracker.
//
// A âncora do cooldown é o último uso bem-sucedido: a negação não atualiza
// a entrada, então repetir a tentativa não empurra o relógio para frente.
func (c *Cooldown) CheckAndRecord(userID int64, command string) (bool, time.Duration) {
	cooldown, tracked := c.table[command]
	if !tracked {
		return true, 0
	}

	now := c.now()
	uc := c.user(userID)

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if last, ok := uc.last[command]; ok {
		if elapsed := now.Sub(last); elapsed < cooldown {
			return false, cooldown - elapsed
		}
	}

	uc.last[command] = now
	return true, 0
}

func (c *Cooldown) user(userID int64) *userCooldowns {
	c.mu.Lock()
	defer c.mu.Unlock()

	uc, ok := c.users[userID]
	if !ok {
		uc = &userCooldowns{last: make(map[string]time.Time)}
		c.users[userID] = uc
	}
	return uc
}

// Cleanup remove usuários cujo uso mais recente já passou do idleTTL.
func (c *Cooldown) Cleanup() {
	cutoff := c.now().Add(-c.idleTTL)

	c.mu.Lock()
	defer c.mu.Unlock()

	for id, uc := range c.users {
		uc.mu.Lock()
		idle := true
		for _, last := range uc.last {
			if last.After(cutoff) {
				idle = false
				break
			}
		}
		uc.mu.Unlock()
		if idle {
			delete(c.users, id)
		}
	}
}

func (c *Cooldown) StartJanitor(ctx DoneContext) {
	startJanitor(ctx, c.cleanupEvery, c.Cleanup)
}
