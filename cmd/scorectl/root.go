package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sheikh-saqib/arcade-highscore-ledger/internal/app"
	"github.com/sheikh-saqib/arcade-highscore-ledger/internal/config"
	"github.com/sheikh-saqib/arcade-highscore-ledger/internal/logging"
)

// errMemoryStore rejects the in-memory driver: every scorectl run is its
// own process, so nothing written to it would survive the command.
var errMemoryStore = errors.New("scorectl needs a persistent store: set STORE_DRIVER to sqlite or postgres")

type cli struct {
	envFiles []string
	verbose  bool

	root   *cobra.Command
	arcade *app.App
}

// execute runs the command line and always releases the store, whether
// the command succeeded or not.
func (c *cli) execute() error {
	err := c.root.Execute()
	if closeErr := c.close(); err == nil {
		err = closeErr
	}
	return err
}

func newCLI() *cli {
	c := &cli{}

	root := &cobra.Command{
		Use:           "scorectl",
		Short:         "Manage arcade high scores",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.open(cmd)
		},
	}
	root.PersistentFlags().StringSliceVar(&c.envFiles, "env-file", nil, "load variables from these .env files")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		c.showCmd(),
		c.exportCmd(),
		c.importCmd(),
		c.clearCmd(),
		c.seedCmd(),
		c.submitCmd(),
	)
	c.root = root
	return c
}

func (c *cli) open(cmd *cobra.Command) error {
	if err := config.InitConfig(c.envFiles...); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// the server defaults to memory; the CLI defaults to the sqlite file
	if strings.TrimSpace(os.Getenv("STORE_DRIVER")) == "" {
		cfg.StoreDriver = config.DriverSQLite
	}
	if cfg.StoreDriver == config.DriverMemory {
		return errMemoryStore
	}

	logger, err := logging.NewConsole(c.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	c.arcade, err = app.Build(cmd.Context(), cfg, logger)
	return err
}

func (c *cli) close() error {
	if c.arcade == nil {
		return nil
	}
	_ = c.arcade.Logger.Sync()
	err := c.arcade.Close()
	c.arcade = nil
	return err
}
