package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	host    string
	apiKey  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "tga-audit",
	Short: "Audit TGA league rounds for scoring that needs review",
	Long: `A command-line interface for auditing Golf Genius rounds locally and for
making requests to a running tga-scoring-audit server.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "The host address of the server")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Golf Genius API key (defaults to GOLF_GENIUS_API_KEY)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'\n", err)
		stop()
		os.Exit(1)
	}
}

func main() {
	Execute()
}
