package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/reflekt/internal/cli"
	"github.com/julianstephens/reflekt/internal/cli/system"
	"github.com/julianstephens/reflekt/internal/config"
	"github.com/julianstephens/reflekt/internal/constants"
	apperrors "github.com/julianstephens/reflekt/internal/errors"
	"github.com/julianstephens/reflekt/internal/logger"
	"github.com/julianstephens/reflekt/internal/storage"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"SQLite database path or PostgreSQL connection string. PostgreSQL credentials must NOT be embedded; use the OS keyring instead." type:"string"`
	Store    string `help:"Storage backend: sqlite, postgres, surreal or memory."`
	User     string `help:"User whose reflections are recorded."`
	Timezone string `help:"IANA timezone that defines calendar days."`
	Debug    bool   `help:"Log debug output to stderr."`

	Init    system.InitCmd    `cmd:"" help:"Initialize reflekt storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`

	Reflect cli.ReflectCmd `cmd:"" help:"Write today's reflection." default:"withargs"`
	Streak  struct {
		Show  cli.StreakShowCmd  `cmd:"" help:"Show your streak." default:"withargs"`
		Stats cli.StreakStatsCmd `cmd:"" help:"Show streak statistics for the last 30 days."`
		Reset cli.StreakResetCmd `cmd:"" help:"Reset your current streak."`
	} `cmd:"" help:"Show or reset your reflection streak."`
	Milestones cli.MilestonesCmd `cmd:"" help:"Show unlocked and upcoming milestones."`
	Progress   cli.ProgressCmd   `cmd:"" help:"Show progress and habit maturity scores."`
	Stats      cli.StatsCmd      `cmd:"" help:"Show weekly or monthly reflection stats."`
	History    cli.HistoryCmd    `cmd:"" help:"Show your latest reflections."`
	Habits     cli.HabitsCmd     `cmd:"" help:"Find habits mentioned in recent reflections."`

	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups (sqlite only)."`

	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a database credential in the OS keyring."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove a database credential from the OS keyring."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check the OS keyring and stored credentials."`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily reflection companion: streaks, milestones and progress"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load()
	if err != nil {
		apperrors.Fatal(err)
	}
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		apperrors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.ConfigDir, Level: cfg.LogLevel}); err != nil {
		apperrors.Fatal(fmt.Errorf("failed to initialize logger: %w", err))
	}

	store, err := openStore(cfg)
	if err != nil {
		apperrors.Fatal(err)
	}
	defer store.Close()

	loc, err := cfg.Location()
	if err != nil {
		apperrors.Fatal(err)
	}
	appCtx := cli.NewContext(cfg, store, loc)

	// init creates the storage, doctor reports load failures itself and the
	// keyring commands never touch it
	command := ctx.Command()
	if needsStore(command) {
		if err := store.Load(); err != nil {
			store.Close()
			apperrors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		logger.Error("command failed", "command", command, "error", err)
		store.Close()
		fmt.Fprintf(os.Stderr, "%s\n", apperrors.Formatf("%s", userFacing(err)))
		os.Exit(1)
	}
}

func needsStore(command string) bool {
	switch {
	case command == "init", command == "doctor":
		return false
	case strings.HasPrefix(command, "keyring"):
		return false
	default:
		return true
	}
}

// userFacing hides persistence details behind the taxonomy messages.
func userFacing(err error) string {
	if errors.Is(err, apperrors.ErrStoreUnavailable) ||
		errors.Is(err, apperrors.ErrConflict) ||
		errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrInvalidInput) {
		return apperrors.UserMessage(err)
	}
	return err.Error()
}

func applyFlags(cfg *config.Config) {
	if CLI.Store != "" {
		cfg.Store.Kind = CLI.Store
	}
	if CLI.Config != "" {
		if CLI.Store == "" && storage.IsPostgresConnString(CLI.Config) {
			cfg.Store.Kind = constants.StorePostgres
		}
		if cfg.Store.Kind == constants.StorePostgres {
			cfg.Store.Connection = CLI.Config
		} else {
			cfg.Store.Path = CLI.Config
		}
	}
	if CLI.User != "" {
		cfg.UserID = CLI.User
	}
	if CLI.Timezone != "" {
		cfg.Timezone = CLI.Timezone
	}
	if CLI.Debug {
		cfg.Debug = true
	}
}
