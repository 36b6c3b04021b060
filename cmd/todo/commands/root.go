package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"todo-cli/internal/config"
	"todo-cli/internal/database"
	"todo-cli/internal/logger"
	"todo-cli/internal/repositories"
	"todo-cli/internal/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	dbPath     string
	debug      bool
}

// NewRootCmd creates the todo command tree.
func NewRootCmd(version string) *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "todo",
		Short:         "A simple CLI todo app",
		Long:          "Record tasks with optional due dates, mark them done, and list them as a table, JSON or YAML.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/todo/config.yaml)")
	flags.StringVar(&opts.dbPath, "db", "", "task store file (overrides database.path)")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging on stderr")

	rootCmd.AddCommand(NewAddCmd(opts))
	rootCmd.AddCommand(NewListCmd(opts))
	rootCmd.AddCommand(NewDoneCmd(opts))
	rootCmd.AddCommand(NewRemoveCmd(opts))
	rootCmd.AddCommand(NewCleanCmd(opts))
	rootCmd.AddCommand(NewResetCmd(opts))
	rootCmd.AddCommand(NewServeCmd(opts))
	rootCmd.AddCommand(NewVersionCmd(version))

	return rootCmd
}

// session is one opened task store plus the configuration it was opened
// with. Every command closes it before returning.
type session struct {
	cfg     *config.Config
	log     *zap.Logger
	repo    *repositories.TaskRepository
	service services.TaskService
}

func (o *globalOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if o.dbPath != "" {
		cfg.Database.Path = o.dbPath
	}
	if o.debug {
		cfg.Log.Debug = true
	}
	return cfg, nil
}

// open loads configuration and opens the task store. serverMode selects the
// JSON logger used by serve.
func (o *globalOptions) open(serverMode bool) (*session, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	newLogger := logger.New
	if serverMode {
		newLogger = logger.NewServerLogger
	}
	log, err := newLogger(cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		_ = logger.Sync(log)
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	poolConfig := database.DefaultPoolConfig()
	poolConfig.Path = cfg.Database.Path
	poolConfig.Logger = log
	if cfg.Log.Debug {
		poolConfig.LogLevel = gormlogger.Info
	}

	repo, err := repositories.Open(poolConfig)
	if err != nil {
		_ = logger.Sync(log)
		return nil, fmt.Errorf("failed to open task store %s: %w", cfg.Database.Path, err)
	}
	log.Debug("task_store_opened", zap.String("path", cfg.Database.Path))

	return &session{
		cfg:     cfg,
		log:     log,
		repo:    repo,
		service: services.NewTaskService(repo),
	}, nil
}

func (s *session) close() {
	if err := s.repo.Close(); err != nil {
		s.log.Warn("failed_to_close_task_store", zap.Error(err))
	}
	_ = logger.Sync(s.log)
}

// run opens a session, calls fn, and closes the session on every path.
func (o *globalOptions) run(fn func(s *session) error) error {
	s, err := o.open(false)
	if err != nil {
		return err
	}
	defer s.close()
	return fn(s)
}
