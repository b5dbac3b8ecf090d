// Command avanctl runs the website generator from a terminal, keeping all data
// in a SQLite file on this device.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/avan-studio/avan-backend/config"
	"github.com/avan-studio/avan-backend/internal/bootstrap"
	"github.com/avan-studio/avan-backend/internal/i18n"
	"github.com/avan-studio/avan-backend/internal/logger"
	projectssvc "github.com/avan-studio/avan-backend/internal/projects/service"
	settingssvc "github.com/avan-studio/avan-backend/internal/settings/service"
	"github.com/avan-studio/avan-backend/internal/storage/kv"
	"github.com/avan-studio/avan-backend/internal/userdata"
)

type app struct {
	cfg      *config.Config
	store    *kv.SQLiteBackend
	chat     *projectssvc.ChatService
	settings *settingssvc.Service
	data     *userdata.Service
	closeGen func() error
}

var (
	a        app
	dbPath   string
	userID   string
	language string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "avanctl",
	Short: "Describe a website, get a single-file HTML page back",
	Long: `avanctl keeps a chat per project with a code generation model. Each
reply may carry a new version of the page, which can be saved and exported as
index.html. Everything is stored locally.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger.Setup(cfg.App.Environment, orDefault(logLevel, cfg.App.LogLevel))
		logger.SetOutput(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: color.NoColor})
		a.cfg = cfg

		if dbPath == "" {
			dbPath = cfg.Local.DBPath
		}
		if userID == "" {
			userID = cfg.Local.UserID
		}
		if language == "" {
			language = cfg.Local.Language
		}

		store, err := kv.OpenSQLite(dbPath)
		if err != nil {
			return err
		}
		a.store = store
		a.settings = settingssvc.New(store)
		a.data = userdata.New(store)

		if !i18n.IsSupported(language) {
			language = a.settings.Language(cmd.Context(), userID)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if a.closeGen != nil {
			_ = a.closeGen()
		}
		if a.store != nil {
			return a.store.Close()
		}
		return nil
	},
}

func orDefault(flag, fallback string) string {
	if flag == "" {
		return fallback
	}
	return flag
}

// withChat lazily builds the generator so that offline commands need no API key.
func withChat(ctx context.Context) (*projectssvc.ChatService, error) {
	if a.chat != nil {
		return a.chat, nil
	}
	gen, closeGen, err := bootstrap.NewGenerator(ctx, a.cfg.Generator)
	if err != nil {
		return nil, err
	}
	a.closeGen = closeGen
	a.chat = projectssvc.NewChatService(a.store, gen, projectssvc.NewMemoryGuard())
	return a.chat, nil
}

// offlineChat serves commands that never generate.
func offlineChat() *projectssvc.ChatService {
	return projectssvc.NewChatService(a.store, nil, projectssvc.NewMemoryGuard())
}

func main() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite file (default $AVAN_LOCAL_DB or ~/.avan/avan.db)")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "", "local profile name (default $AVAN_LOCAL_USER or \"local\")")
	rootCmd.PersistentFlags().StringVar(&language, "lang", "", "reply language, e.g. he, en, fr (default: stored preference)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug,info,warn,error; default $LOG_LEVEL)")

	rootCmd.AddCommand(
		newNewCommand(),
		newChatCommand(),
		newSaveCommand(),
		newListCommand(),
		newCodeCommand(),
		newExportCommand(),
		newImportCommand(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
