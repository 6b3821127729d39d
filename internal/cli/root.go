// Package cli provides the command-line interface for benchrules.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/leapstack-labs/benchrules/internal/cli/commands"
	"github.com/leapstack-labs/benchrules/internal/cli/config"
	"github.com/leapstack-labs/benchrules/internal/cli/output"
	"github.com/spf13/cobra"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "benchrules",
		Short: "benchrules - " + commands.Description,
		Long: `benchrules turns catalogs of ML models and compile configurations into the
CMake rules that fetch each model, import it into MLIR, and compile it into an
IREE module for every configured target.

Rules are emitted in a deterministic order, and every rule is listed after the
rules it depends on.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			// Load configuration with CLI flags taking precedence
			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger := config.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
			ctx := config.WithConfig(cmd.Context(), cfg)
			ctx = context.WithValue(ctx, config.LoggerKey(), logger)
			cmd.SetContext(ctx)

			if configFile := config.GetConfigFileUsed(); configFile != "" {
				logger.Debug("using config file", "path", configFile)
			}
			logger.Debug("loaded configuration", "config", cfg.ProjectConfig.String(), "format", cfg.Format)

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set version template
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n" + commands.Description + "\n")

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./benchrules.yaml)")
	rootCmd.PersistentFlags().StringSliceP("catalogs", "c", nil, "Catalog files to load, in order")
	rootCmd.PersistentFlags().String("models-dir", "", "Root of fetched models in generated rules")
	rootCmd.PersistentFlags().String("iree-dir", "", "Root of imported MLIR and compiled modules in generated rules")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Generated file ('-' for stdout)")
	rootCmd.PersistentFlags().StringP("format", "f", "", "Report format (auto|text|markdown|json)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	// Register completion for format flag
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return output.Modes(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.MarkPersistentFlagFilename("catalogs", "yaml", "yml")
	_ = rootCmd.MarkPersistentFlagFilename("config", "yaml", "yml")

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewGenerateCommand())
	rootCmd.AddCommand(commands.NewListCommand())
	rootCmd.AddCommand(commands.NewGraphCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for benchrules.

To load completions:

Bash:
  $ source <(benchrules completion bash)

Zsh:
  $ benchrules completion zsh > "${fpath[1]}/_benchrules"

Fish:
  $ benchrules completion fish | source

PowerShell:
  PS> benchrules completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(w)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}
	return cmd
}
