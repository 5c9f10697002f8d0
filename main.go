package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/assistant-console/core/internal/console"
	"github.com/assistant-console/core/internal/console/cache"
	"github.com/assistant-console/core/internal/console/model"
	"github.com/assistant-console/core/internal/console/remote"
	"github.com/assistant-console/core/internal/console/rules"
	"github.com/assistant-console/core/internal/core"
	errx "github.com/assistant-console/core/internal/core/error"
	logx "github.com/assistant-console/core/pkg/logger"
	pkgredis "github.com/assistant-console/core/pkg/redis"
)

// AppConfig defines all configurable parameters of the console core,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL"`

	// Infrastructure
	Redis pkgredis.Config

	// Console configs
	Remote model.RemoteConfig
	Cache  model.CacheConfig
	Chat   model.ChatConfig
	Rules  model.RulesConfig
}

func main() {
	ctx := context.Background()
	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{
		Environment: core.ParseEnvironment(envCfg.Environment),
		Level:       envCfg.LogLevel,
	})

	rulesStore, closeRules := newRulesStore(ctx, envCfg)
	defer closeRules()

	c, err := console.New(ctx, console.Config{Cache: envCfg.Cache, Chat: envCfg.Chat}, console.Deps{
		Repo:  remote.NewMemoryRepository(envCfg.Remote),
		Rules: rulesStore,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to build console")
	}
	defer c.Close()

	if err := run(ctx, c); err != nil {
		logx.Error().Err(err).Msg("Demo flow failed")
		os.Exit(1)
	}
	fmt.Println("Demo flow completed")
}

// newRulesStore uses Redis when REDIS_URL is set and process memory
// otherwise.
func newRulesStore(ctx context.Context, cfg AppConfig) (rules.Store, func()) {
	if !cfg.Redis.Enabled() {
		logx.Info().Msg("REDIS_URL not set, training rules kept in memory")
		return rules.NewMemoryStore(cfg.Rules), func() {}
	}

	rdb, err := cfg.Redis.New(ctx)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to initialise Redis client")
	}
	logx.Info().Msg("Connected to Redis successfully")
	return rules.NewRedisStore(rdb, cfg.Rules), func() { _ = rdb.Close() }
}

// run walks the console through list, create, chat, training rules and
// delete, printing what the presentation layer would render.
func run(ctx context.Context, c *console.Console) error {
	unsubscribe := c.Cache.Subscribe(func(s cache.Snapshot) {
		logx.Debug().
			Str("status", s.Status.String()).
			Bool("refetching", s.IsRefetching).
			Int("count", len(s.Data)).
			Uint64("version", s.Version).
			Msg("collection changed")
	})
	defer unsubscribe()

	if c.Assistants().IsLoading() {
		fmt.Println("Cargando asistentes...")
	}
	snap, err := c.Retry(ctx)
	if err != nil {
		return fmt.Errorf("load assistants: %s", errx.UserMessage(err, errx.FetchErrorMessage))
	}
	printAssistants(snap)

	// ================ Create ================
	form := c.OpenCreate()
	form.Name = "Bot Uno"
	form.Tone = model.Casual
	form.ResponseLength = model.ResponseLength{Short: 30, Medium: 40, Long: 30}

	m, err := c.Save(ctx, form)
	if err != nil {
		return fmt.Errorf("save assistant: %w", err)
	}
	fmt.Printf("Creado (optimista): %d asistentes visibles\n", len(c.Cache.Snapshot().Data))
	if err := m.Wait(ctx); err != nil {
		fmt.Printf("Error al crear: %s\n", errx.UserMessage(err, ""))
	}
	botID := m.ID

	// ================ Chat ================
	if err := c.SaveTrainingRules(ctx, botID, "Responde siempre con un saludo."); err != nil {
		return fmt.Errorf("save training rules: %w", err)
	}
	for _, text := range []string{"Hola, ¿quién eres?", "¿Qué puedes hacer por mí?"} {
		fmt.Printf("user: %s\n", text)
		reply, err := c.SendMessage(ctx, botID, text)
		if err != nil {
			return fmt.Errorf("send message: %w", err)
		}
		fmt.Printf("assistant: %s\n", reply.Message)
	}
	c.ResetChat(botID)

	// ================ Delete ================
	m, err = c.Delete(ctx, botID)
	if err != nil {
		return fmt.Errorf("delete assistant: %w", err)
	}
	if err := m.Wait(ctx); err != nil {
		fmt.Printf("Error al eliminar: %s\n", errx.UserMessage(err, ""))
	} else {
		fmt.Println("Asistente eliminado, visible hasta que termine el aviso")
		select {
		case <-m.Settled():
		case <-time.After(10 * time.Second):
		}
	}

	printAssistants(c.Cache.Snapshot())
	return nil
}

func printAssistants(s cache.Snapshot) {
	fmt.Printf("Asistentes (%d):\n", len(s.Data))
	for _, a := range s.Data {
		fmt.Printf("  - %s [%s · %s] %d/%d/%d\n",
			a.Name, a.Language, a.Tone,
			a.ResponseLength.Short, a.ResponseLength.Medium, a.ResponseLength.Long)
	}
}
