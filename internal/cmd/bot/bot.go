// Package bot parses bot command flags and launches the bot runtime.
package bot

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	entrypoint "github.com/filmgate/filmgate/internal/platform/cmd"
	"github.com/filmgate/filmgate/internal/services/bot/app"
	"github.com/filmgate/filmgate/internal/services/bot/domain"
	"github.com/filmgate/filmgate/internal/services/bot/storage/sqlite"
	"github.com/filmgate/filmgate/internal/services/bot/telegram"
)

// Config holds bot command configuration.
type Config struct {
	Token         string        `env:"FILMGATE_BOT_TOKEN"`
	StagingChatID int64         `env:"FILMGATE_BOT_STAGING_CHAT_ID"`
	PublicChatID  int64         `env:"FILMGATE_BOT_PUBLIC_CHAT_ID"`
	Operators     []int64       `env:"FILMGATE_BOT_OPERATORS"`
	DBPath        string        `env:"FILMGATE_BOT_DB_PATH" envDefault:"data/bot.db"`
	ContentDir    string        `env:"FILMGATE_BOT_CONTENT_DIR" envDefault:"movie_files"`
	CompanionRef  string        `env:"FILMGATE_BOT_STICKER_REF"`
	RevokeAfter   time.Duration `env:"FILMGATE_BOT_REVOKE_AFTER" envDefault:"120s"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Token, "token", cfg.Token, "The Telegram bot API token")
	fs.Int64Var(&cfg.StagingChatID, "staging-chat-id", cfg.StagingChatID, "The private chat that feeds the catalog")
	fs.Int64Var(&cfg.PublicChatID, "public-chat-id", cfg.PublicChatID, "The public chat users must join")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The bot SQLite database path")
	fs.StringVar(&cfg.ContentDir, "content-dir", cfg.ContentDir, "Directory holding payload files")
	fs.StringVar(&cfg.CompanionRef, "sticker-ref", cfg.CompanionRef, "Sticker sent alongside each delivered file")
	fs.DurationVar(&cfg.RevokeAfter, "revoke-after", cfg.RevokeAfter, "Delay before a delivered file is revoked")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the bot runtime and blocks until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceBot, func(ctx context.Context) error {
		if err := os.MkdirAll(cfg.ContentDir, 0o755); err != nil {
			return fmt.Errorf("create content directory: %w", err)
		}

		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open bot database: %w", err)
		}
		defer store.Close()

		client, err := telegram.New(cfg.Token, cfg.PublicChatID)
		if err != nil {
			return fmt.Errorf("connect to telegram: %w", err)
		}

		service, err := domain.NewService(domain.Config{
			Catalog:      store,
			Users:        store,
			Messenger:    client,
			Membership:   client,
			PublicChatID: cfg.PublicChatID,
			Operators:    cfg.Operators,
			ContentDir:   cfg.ContentDir,
			CompanionRef: cfg.CompanionRef,
			RevokeAfter:  cfg.RevokeAfter,
		})
		if err != nil {
			return fmt.Errorf("build bot service: %w", err)
		}

		dispatcher, err := app.NewDispatcher(service, cfg.StagingChatID)
		if err != nil {
			return fmt.Errorf("build dispatcher: %w", err)
		}

		log.Printf("bot listening for updates")
		return dispatcher.Run(ctx, client.Events(ctx))
	})
}
