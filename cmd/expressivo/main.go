// cmd/expressivo/main.go — command line front end for expressivo
//
// Expressions are read as JSON trees, from a file argument or stdin:
//
//	{"type":"product","left":{"type":"variable","name":"x"},"right":{"type":"number","value":"2"}}
//
// Usage:
//
//	expressivo render expr.json
//	expressivo diff --var x expr.json
//	expressivo simplify --env x=4 < expr.json
//	expressivo serve --config expressivo.yaml
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/njchilds90/expressivo/internal/config"
	"github.com/njchilds90/expressivo/internal/logging"
)

var (
	// Global flags
	verbose    bool
	configPath string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "expressivo",
	Short: "Differentiate, simplify and render algebraic expression trees",
	Long: `expressivo works on expression trees built from numbers, variables,
sums and products.

Trees are exchanged as JSON objects with a "type" of number, variable,
sum or product. Output is the canonical rendering unless --json is set.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.Logging, verbose)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")

	rootCmd.AddCommand(
		renderCmd,
		diffCmd,
		simplifyCmd,
		equalCmd,
		hashCmd,
		varsCmd,
		dumpCmd,
		schemaCmd,
		serveCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
