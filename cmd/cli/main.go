package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coot-trips/tripsort/cmd/cli/commands"
	"github.com/coot-trips/tripsort/internal/config"
	"github.com/coot-trips/tripsort/pkg/postgres"
	"github.com/coot-trips/tripsort/pkg/redislock"
	"github.com/coot-trips/tripsort/pkg/utils/logging"
)

var (
	env     string
	logsDir string
	verbose bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &commands.AppContext{Ctx: ctx}
	var cleanup []func()

	rootCmd := &cobra.Command{
		Use:   "tripsort",
		Short: "COOT trip sorter - assign incoming students to trips",
		Long:  `A CLI tool for importing student and trip rosters, sorting students onto trips, and publishing the results.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cleanup, err = initApp(app)
			return err
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().StringVar(&logsDir, "logs-dir", logging.DefaultLogsDir, "Directory for log files")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs on the console")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.SortStudentsCmd(app))
	rootCmd.AddCommand(commands.ValidateTripsCmd(app))
	rootCmd.AddCommand(commands.ImportRosterCmd(app))
	rootCmd.AddCommand(commands.PublishRostersCmd(app))
	rootCmd.AddCommand(commands.NotifyStudentsCmd(app))

	err := rootCmd.Execute()

	// Release resources even when the command failed
	for i := len(cleanup) - 1; i >= 0; i-- {
		cleanup[i]()
	}
	if app.Logger != nil {
		if err != nil {
			app.Logger.Error("Command failed", zap.Error(err))
		}
		_ = app.Logger.Sync()
	}

	if err != nil {
		stop()
		os.Exit(1)
	}
}

// initApp sets up logger, config, database and the run lock.
// The returned functions release what was opened, in reverse order.
func initApp(app *commands.AppContext) ([]func(), error) {
	var cleanup []func()
	var err error

	app.Env = env
	app.Logger, err = logging.InitLogger(env, logsDir, verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded", zap.String("cohort", app.Cfg.Cohort))

	app.Logger.Info("Connecting to database")
	database, err := postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL, app.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	cleanup = append(cleanup, database.Close)

	if err := database.RunMigrations(app.Ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	app.Database = database

	if redisCfg := app.Cfg.Redis; redisCfg != nil {
		app.Logger.Info("Connecting to redis", zap.String("addr", redisCfg.Addr))
		client, err := redislock.Connect(app.Ctx, &goredis.Options{
			Addr:     redisCfg.Addr,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		})
		if err != nil {
			database.Close()
			return nil, err
		}
		cleanup = append(cleanup, func() { client.Close() })
		app.Locker = redislock.New(client, redisCfg.LockTTL, app.Logger)
	} else {
		app.Logger.Warn("No redis configured, concurrent sorting runs are not prevented")
	}

	return cleanup, nil
}
