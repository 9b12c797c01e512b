package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"bot-gatekeeper/middleware/gatekeeper"
	"bot-gatekeeper/middleware/gatekeeper/domain"
	"bot-gatekeeper/middleware/gatekeeper/infra"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// Dispatcher de demonstração: lê eventos sintéticos do stdin, um por linha,
// no formato "<userID> [cb] <texto...>", e os empurra pela cadeia de
// admissão antes do handler de eco.
//
// Ex.:
//
//	42 /start
//	42 cb menu:tasks
//	0 texto sem usuário identificável
func main() {
	cfg, err := readConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	window := infra.NewWindow(cfg.ceiling, infra.WithSpan(cfg.span))
	cooldown := infra.NewCooldown()
	spam := infra.NewSpamGuard(cfg.spamThreshold)
	warnings := infra.NewWarnings()
	activity := infra.NewActivity()

	if cfg.evict {
		window.StartJanitor(ctx)
		cooldown.StartJanitor(ctx)
		spam.StartJanitor(ctx)
	}

	var statsStore domain.StatsStore
	if cfg.statsEnabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.statsRedisAddr,
			Password: cfg.statsRedisPassword,
			DB:       cfg.statsRedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancelPing := context.WithTimeout(ctx, 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancelPing()
		if err != nil {
			log.Fatalf("redis stats ping error: %v", err)
		}

		statsStore = infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsTTL(cfg.statsTTL),
			infra.WithStatsTrackUsers(cfg.statsTrackUsers),
		)
	}

	// o sender imprime o payload semântico; em produção seria o cliente do
	// transporte (Telegram etc.), com o texto final renderizado lá
	var sender domain.Sender = domain.SenderFunc(func(_ context.Context, userID int64, n domain.Notice) error {
		log.Printf("notice -> user=%d kind=%s retryAfter=%s blockFor=%s alert=%v",
			userID, n.Kind, n.RetryAfter, n.BlockFor, n.Alert)
		return nil
	})
	if cfg.noticeRPS > 0 {
		sender = infra.NewPacedSender(sender, cfg.noticeRPS, cfg.noticeBurst)
	}

	handler := gatekeeper.Handler(func(_ context.Context, upd domain.Update) error {
		if upd.Command == "/fail" {
			return errors.New("simulated handler failure")
		}
		log.Printf("handled -> user=%d content=%q", upd.UserID, upd.Content)
		return nil
	})

	h := handler
	h = gatekeeper.ConcurrencyMiddleware(gatekeeper.ConcurrencyOptions{
		Max:            cfg.concurrencyMax,
		AcquireTimeout: cfg.concurrencyTimeout,
		Sender:         sender,
	})(h)
	h = gatekeeper.ActivityMiddleware(activity, nil)(h)
	h = gatekeeper.Middleware(gatekeeper.Options{
		Window:   window,
		Cooldown: cooldown,
		Spam:     spam,
		Warnings: warnings,
		Sender:   sender,
		Stats:    statsStore,
	})(h)
	h = gatekeeper.LoggingMiddleware(nil)(h)

	log.Printf("dispatcher ready: ceiling=%d span=%s spamThreshold=%d evict=%v stats=%v",
		cfg.ceiling, cfg.span, cfg.spamThreshold, cfg.evict, cfg.statsEnabled)

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			log.Printf("shutdown signal received")
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			upd, err := parseLine(line)
			if err != nil {
				log.Printf("skipping line: %v", err)
				continue
			}
			_ = h(ctx, upd)
		}
	}
}

func parseLine(line string) (domain.Update, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return domain.Update{}, errors.New("empty line")
	}

	userID, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return domain.Update{}, fmt.Errorf("invalid user id %q", fields[0])
	}

	rest := fields[1:]
	callback := false
	if len(rest) > 0 && rest[0] == "cb" {
		callback = true
		rest = rest[1:]
	}

	return gatekeeper.NewUpdate(userID, strings.Join(rest, " "), callback, line), nil
}

type config struct {
	ceiling       int
	span          time.Duration
	spamThreshold int
	evict         bool

	noticeRPS   float64
	noticeBurst int

	concurrencyMax     int
	concurrencyTimeout time.Duration

	statsEnabled       bool
	statsRedisAddr     string
	statsRedisPassword string
	statsRedisDB       int
	statsTTL           time.Duration
	statsTrackUsers    bool
}

func readConfig() (config, error) {
	_ = godotenv.Load()

	cfg := config{}
	cfg.ceiling = getenvIntDefault("RATE_CEILING", 30)
	cfg.span = getenvDurationDefault("RATE_WINDOW", 60*time.Second)
	cfg.spamThreshold = getenvIntDefault("SPAM_THRESHOLD", 5)
	cfg.evict = getenvBoolDefault("EVICT_IDLE_USERS", false)

	cfg.noticeRPS = getenvFloatDefault("NOTICE_RPS", 0)
	cfg.noticeBurst = getenvIntDefault("NOTICE_BURST", 5)

	cfg.concurrencyMax = getenvIntDefault("CONCURRENCY_MAX", 0)
	cfg.concurrencyTimeout = getenvDurationDefault("CONCURRENCY_TIMEOUT", 0)

	cfg.statsEnabled = getenvBoolDefault("STATS_ENABLED", false)
	cfg.statsRedisAddr = getenvDefault("STATS_REDIS_ADDR", "")
	cfg.statsRedisPassword = os.Getenv("STATS_REDIS_PASSWORD")
	cfg.statsRedisDB = getenvIntDefault("STATS_REDIS_DB", 0)
	cfg.statsTTL = getenvDurationDefault("STATS_TTL", 24*time.Hour)
	cfg.statsTrackUsers = getenvBoolDefault("STATS_TRACK_USERS", false)

	if cfg.statsEnabled && strings.TrimSpace(cfg.statsRedisAddr) == "" {
		return config{}, errors.New("STATS_REDIS_ADDR is required when STATS_ENABLED=true")
	}
	if cfg.ceiling <= 0 {
		return config{}, errors.New("RATE_CEILING must be > 0")
	}
	if cfg.span <= 0 {
		return config{}, errors.New("RATE_WINDOW must be > 0")
	}
	if cfg.spamThreshold <= 1 {
		return config{}, errors.New("SPAM_THRESHOLD must be > 1")
	}
	return cfg, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvFloatDefault(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
