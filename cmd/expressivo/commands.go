package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/njchilds90/expressivo"
	"github.com/njchilds90/expressivo/internal/config"
	"github.com/njchilds90/expressivo/internal/server"
)

var (
	jsonOutput bool
	diffVar    string
	diffTimes  int
	envPairs   []string
	envFile    string
)

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Print the canonical rendering of an expression",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := readExpr(cmd, args)
		if err != nil {
			return err
		}
		return printExpr(cmd, e)
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff [file]",
	Short: "Differentiate an expression with respect to a variable",
	Long: `Differentiates without simplifying. Pipe the result through
"simplify" to fold constants.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := expressivo.NewVariable(diffVar); err != nil {
			return fmt.Errorf("--var: %w", err)
		}
		e, err := readExpr(cmd, args)
		if err != nil {
			return err
		}
		logger.Debug("differentiating",
			zap.String("var", diffVar),
			zap.Int("times", diffTimes),
			zap.Stringer("expr", e))
		return printExpr(cmd, expressivo.DiffN(e, diffVar, diffTimes))
	},
}

var simplifyCmd = &cobra.Command{
	Use:   "simplify [file]",
	Short: "Substitute bindings and fold constant sums and products",
	Long: `Bindings come from --env name=value flags and from --env-file, a YAML
or JSON mapping of names to numbers. Flags win over the file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}
		e, err := readExpr(cmd, args)
		if err != nil {
			return err
		}
		logger.Debug("simplifying", zap.Int("bindings", len(env)), zap.Stringer("expr", e))
		return printExpr(cmd, expressivo.Simplify(e, env))
	},
}

var equalCmd = &cobra.Command{
	Use:   "equal <file> <file>",
	Short: "Report whether two expressions are structurally equal",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := readExprFile(args[0])
		if err != nil {
			return err
		}
		b, err := readExprFile(args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), expressivo.Equal(a, b))
		return nil
	},
}

var hashCmd = &cobra.Command{
	Use:   "hash [file]",
	Short: "Print the structural hash of an expression",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := readExpr(cmd, args)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%016x\n", expressivo.Hash(e))
		return nil
	},
}

var varsCmd = &cobra.Command{
	Use:   "vars [file]",
	Short: "List the variables of an expression",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := readExpr(cmd, args)
		if err != nil {
			return err
		}
		for _, name := range expressivo.FreeVariables(e) {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump [file]",
	Short: "Pretty-print the Go structure of an expression tree",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := readExpr(cmd, args)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%# v\n", pretty.Formatter(e))
		return nil
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the tool schema served at GET /schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), expressivo.ToolSpec())
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tool interface over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.New(cfg, logger).Run(ctx)
	},
}

func init() {
	for _, c := range []*cobra.Command{renderCmd, diffCmd, simplifyCmd} {
		c.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as a JSON tree")
	}

	diffCmd.Flags().StringVar(&diffVar, "var", "x", "Variable to differentiate with respect to")
	diffCmd.Flags().IntVarP(&diffTimes, "times", "n", 1, "Number of times to differentiate")

	simplifyCmd.Flags().StringArrayVar(&envPairs, "env", nil, "Variable binding name=value (repeatable)")
	simplifyCmd.Flags().StringVar(&envFile, "env-file", "", "YAML or JSON file of variable bindings")

	serveCmd.Flags().String("addr", "", "Listen address (overrides config)")
}

func readExpr(cmd *cobra.Command, args []string) (expressivo.Expr, error) {
	if len(args) == 1 && args[0] != "-" {
		return readExprFile(args[0])
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return parseExpr("stdin", data)
}

func readExprFile(path string) (expressivo.Expr, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read expression: %w", err)
	}
	return parseExpr(path, data)
}

func parseExpr(source string, data []byte) (expressivo.Expr, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("%s: no expression given", source)
	}
	e, err := expressivo.ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return e, nil
}

func loadEnv() (expressivo.Env, error) {
	env := expressivo.Env{}
	if envFile != "" {
		fromFile, err := config.LoadEnvFile(envFile)
		if err != nil {
			return nil, err
		}
		for k, v := range fromFile {
			env[k] = v
		}
	}
	fromFlags, err := config.ParseBindings(envPairs)
	if err != nil {
		return nil, err
	}
	for k, v := range fromFlags {
		env[k] = v
	}
	return env, nil
}

func printExpr(cmd *cobra.Command, e expressivo.Expr) error {
	if !jsonOutput {
		fmt.Fprintln(cmd.OutOrStdout(), e)
		return nil
	}
	s, err := expressivo.ToJSON(e)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), s)
	return nil
}
