package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/metalagman/milli-ai/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "MILLI"

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "milli-ai",
		Short:         "milli-ai sends a prompt to a configured AI endpoint and prints the answer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logging.Init(viper.GetBool("debug"))
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "AI config file (default ~/.milli.config)")
	flags.String("journal-path", "", "call journal database (default ~/.milli/journal.db)")
	flags.Bool("debug", false, "enable debug logging")
	mustBind("config", flags.Lookup("config"))
	mustBind("journal_path", flags.Lookup("journal-path"))
	mustBind("debug", flags.Lookup("debug"))

	cmd.AddCommand(generateCmd())
	cmd.AddCommand(configCmd())
	cmd.AddCommand(historyCmd())
	return cmd
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: load .env: %v\n", err)
	}
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()
}
