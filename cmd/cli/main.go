// Package main provides the interactive stock-agent CLI.
// Uses Cobra for command parsing.
//
// Run with: go run ./cmd/cli chat
//
//	go run ./cmd/cli ask stock price of TSLA
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fleveque/stock-agent/internal/app"
	"github.com/fleveque/stock-agent/internal/config"
	"github.com/fleveque/stock-agent/internal/session"
	"github.com/fleveque/stock-agent/internal/terminal"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	verbose    bool
}

// rootCmd builds the command tree:
// stock-agent ask <query...>
// stock-agent chat
func rootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:          "stock-agent",
		Short:        "AI stock agent: prices, company profiles, trend charts and insights",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", os.Getenv("STOCKAGENT_CONFIG_PATH"), "path to config.yaml")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "show debug logs")

	root.AddCommand(askCmd(flags), chatCmd(flags))
	return root
}

func askCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "ask <query...>",
		Short:   "Answer a single query and exit",
		Example: "  stock-agent ask stock price of TSLA\n  stock-agent ask what is a dividend",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAgent(flags, func(ctx context.Context, a *app.App) error {
				query := strings.Join(args, " ")
				if session.IsBlank(query) {
					fmt.Println(terminal.Warning(session.EmptyQueryMessage))
					return nil
				}
				runQuery(ctx, a, query)
				return nil
			})
		},
	}
}

func chatCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive session with query history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAgent(flags, func(ctx context.Context, a *app.App) error {
				fmt.Println(terminal.Banner(a.Config.LLM.Provider, a.Config.LLM.Configured()))
				return newChat(a).loop(ctx)
			})
		},
	}
}

// withAgent loads config, builds the agent and runs fn with a context that
// is cancelled on Ctrl+C.
func withAgent(flags *globalFlags, fn func(context.Context, *app.App) error) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := app.NewCLILogger(flags.verbose)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	defer func() {
		if err := a.Close(context.Background()); err != nil {
			logger.Error("closing agent", zap.Error(err))
		}
	}()

	return fn(ctx, a)
}

// runQuery answers query with a busy indicator and prints the result.
func runQuery(ctx context.Context, a *app.App, query string) {
	busy := terminal.StartBusy(os.Stderr, "Thinking...")
	_, items := a.Agent.Respond(ctx, query)
	busy.Stop()

	fmt.Println(terminal.Items(items))
	fmt.Println()
}
