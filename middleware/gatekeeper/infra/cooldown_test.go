package infra

import (
	"testing"
	"time"
)

func TestCooldown_FirstUseIsAllowed(t *testing.T) {
	clock := newFakeClock()
	c := NewCooldown(WithCooldownNow(clock.now))

	allowed, remaining := c.CheckAndRecord(1, "/start")
	if !allowed {
		t.Fatalf("expected first use to be allowed")
	}
	if remaining != 0 {
		t.Fatalf("expected remaining=0 when allowed, got %s", remaining)
	}
}

func TestCooldown_DeniesWithinCooldownWithRemaining(t *testing.T) {
	clock := newFakeClock()
	c := NewCooldown(WithCooldownNow(clock.now))

	c.CheckAndRecord(1, "/start")
	clock.advance(2 * time.Second)

	allowed, remaining := c.CheckAndRecord(1, "/start")
	if allowed {
		t.Fatalf("expected reuse within cooldown to be denied")
	}
	// /start tem cooldown de 5s; faltam exatamente 3s
	if remaining != 3*time.Second {
		t.Fatalf("expected remaining=3s, got %s", remaining)
	}
	if remaining <= 0 || remaining > 5*time.Second {
		t.Fatalf("remaining must be in (0, cooldown], got %s", remaining)
	}
}

func TestCooldown_AllowsAtExactBoundary(t *testing.T) {
	clock := newFakeClock()
	c := NewCooldown(WithCooldownNow(clock.now))

	c.CheckAndRecord(1, "/help")
	clock.advance(3 * time.Second) // cooldown exato do /help

	if allowed, _ := c.CheckAndRecord(1, "/help"); !allowed {
		t.Fatalf("expected reuse at exactly the cooldown duration to be allowed")
	}
}

func TestCooldown_DenialDoesNotMoveAnchor(t *testing.T) {
	clock := newFakeClock()
	c := NewCooldown(WithCooldownNow(clock.now))

	c.CheckAndRecord(1, "/start")

	// tentativas negadas não podem empurrar o relógio para frente
	clock.advance(2 * time.Second)
	if allowed, _ := c.CheckAndRecord(1, "/start"); allowed {
		t.Fatalf("expected denial at t=2")
	}
	clock.advance(3 * time.Second)
	if allowed, _ := c.CheckAndRecord(1, "/start"); !allowed {
		t.Fatalf("expected allow at t=5 anchored on the last successful use")
	}
}

func TestCooldown_UnlistedCommandIsNeverTracked(t *testing.T) {
	clock := newFakeClock()
	c := NewCooldown(WithCooldownNow(clock.now))

	for i := 0; i < 5; i++ {
		if allowed, _ := c.CheckAndRecord(1, "/about"); !allowed {
			t.Fatalf("expected unlisted command to always be allowed (attempt %d)", i+1)
		}
	}

	c.mu.Lock()
	_, tracked := c.users[1]
	c.mu.Unlock()
	if tracked {
		t.Fatalf("expected unlisted command to leave no entry behind")
	}
}

func TestCooldown_CommandsAreIndependent(t *testing.T) {
	clock := newFakeClock()
	c := NewCooldown(WithCooldownNow(clock.now))

	c.CheckAndRecord(1, "/start")
	if allowed, _ := c.CheckAndRecord(1, "/help"); !allowed {
		t.Fatalf("expected /help to be independent of /start cooldown")
	}
}

func TestCooldown_UsersAreIndependent(t *testing.T) {
	clock := newFakeClock()
	c := NewCooldown(WithCooldownNow(clock.now))

	c.CheckAndRecord(1, "/stats")
	if allowed, _ := c.CheckAndRecord(2, "/stats"); !allowed {
		t.Fatalf("expected user 2 to have its own cooldown entry")
	}
}

func TestCooldown_CustomTable(t *testing.T) {
	clock := newFakeClock()
	c := NewCooldown(
		WithCooldownNow(clock.now),
		WithCooldownTable(map[string]time.Duration{"/ping": time.Second}),
	)

	c.CheckAndRecord(1, "/ping")
	if allowed, _ := c.CheckAndRecord(1, "/ping"); allowed {
		t.Fatalf("expected /ping to be on cooldown")
	}
	// tabela substituída: /start não é mais rastreado
	c.CheckAndRecord(1, "/start")
	if allowed, _ := c.CheckAndRecord(1, "/start"); !allowed {
		t.Fatalf("expected /start to be untracked with a custom table")
	}
}

func TestCooldown_CleanupRemovesIdleUsers(t *testing.T) {
	clock := newFakeClock()
	c := NewCooldown(WithCooldownNow(clock.now), WithCooldownIdleTTL(time.Minute))

	c.CheckAndRecord(1, "/start")
	clock.advance(2 * time.Minute)

	c.Cleanup()

	c.mu.Lock()
	_, still := c.users[1]
	c.mu.Unlock()
	if still {
		t.Fatalf("expected idle user entry to be evicted")
	}
}
