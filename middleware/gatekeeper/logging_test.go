package gatekeeper

import (
	"context"
	"errors"
	"testing"
	"time"

	"bot-gatekeeper/middleware/gatekeeper/domain"
	"bot-gatekeeper/middleware/gatekeeper/infra"
)

func TestLoggingMiddleware_PassesThroughAndKeepsError(t *testing.T) {
	want := errors.New("boom")

	h := LoggingMiddleware(discardLogger())(func(ctx context.Context, upd domain.Update) error {
		return want
	})

	if err := h(context.Background(), NewUpdate(1, "oi", false, nil)); !errors.Is(err, want) {
		t.Fatalf("expected handler error to pass through, got %v", err)
	}
}

func TestActivityMiddleware_TouchesTracker(t *testing.T) {
	clock := newFakeClock()
	tracker := infra.NewActivity(infra.WithActivityNow(clock.now))

	h := ActivityMiddleware(tracker, discardLogger())(func(ctx context.Context, upd domain.Update) error {
		return nil
	})

	_ = h(context.Background(), NewUpdate(7, "oi", false, nil))

	if _, ok := tracker.LastSeen(7); !ok {
		t.Fatalf("expected activity to be recorded for user 7")
	}

	clock.advance(2 * time.Hour)
	// segundo toque não pode falhar nem alterar o resultado do handler
	if err := h(context.Background(), NewUpdate(7, "oi", false, nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestActivityMiddleware_SkipsUnidentifiedUsers(t *testing.T) {
	tracker := infra.NewActivity()

	h := ActivityMiddleware(tracker, discardLogger())(func(ctx context.Context, upd domain.Update) error {
		return nil
	})

	_ = h(context.Background(), NewUpdate(0, "oi", false, nil))

	if _, ok := tracker.LastSeen(0); ok {
		t.Fatalf("expected no activity entry for unidentified user")
	}
}

func TestEventKind(t *testing.T) {
	cases := []struct {
		upd  domain.Update
		want string
	}{
		{NewUpdate(1, "/start abc", false, nil), "command /start"},
		{NewUpdate(1, "hello", false, nil), "message"},
		{NewUpdate(1, "data", true, nil), "callback"},
		{NewUpdate(1, "", false, nil), "other"},
	}
	for _, c := range cases {
		if got := eventKind(c.upd); got != c.want {
			t.Fatalf("expected kind %q, got %q", c.want, got)
		}
	}
}
