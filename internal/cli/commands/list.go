package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/benchrules/internal/cli/output"
	"github.com/leapstack-labs/benchrules/internal/rules"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List generated rules",
		Long: `List every rule the configured catalogs generate, in emission order.

Imports of models already in the canonical dialect are forwarded: they reuse
the fetch rule's target and emit no CMake of their own.`,
		Example: `  # List all rules
  benchrules list

  # Only compile rules, as JSON
  benchrules list --kind compile --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, kind)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Only list rules of this kind (model, import, compile)")
	_ = cmd.RegisterFlagCompletionFunc("kind", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{string(rules.KindModel), string(rules.KindImport), string(rules.KindCompile)}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runList(cmd *cobra.Command, kind string) error {
	switch rules.Kind(kind) {
	case "", rules.KindModel, rules.KindImport, rules.KindCompile:
	default:
		return fmt.Errorf("unknown rule kind %q", kind)
	}

	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	gen, err := cmdCtx.Generate(cmd.Context())
	if err != nil {
		return err
	}

	infos := make([]output.RuleInfo, 0, len(gen.Result.Rules))
	for _, r := range gen.Result.Rules {
		if kind != "" && string(r.Kind()) != kind {
			continue
		}
		info := output.RuleInfo{
			Kind:      string(r.Kind()),
			Target:    r.Target(),
			Output:    r.OutputPath(),
			DependsOn: r.Dependencies(),
		}
		if ir, ok := r.(rules.ImportRule); ok {
			info.Forwarded = ir.Forwarded()
		}
		infos = append(infos, info)
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(infos)
	case output.ModeMarkdown:
		r.Header(1, "Rules")
		r.Println(rulesTable(infos, r.Styles(), false).RenderMarkdown())
	default:
		r.Header(1, "Rules")
		r.Println(rulesTable(infos, r.Styles(), true).Render())
	}
	r.Println("")
	r.Println(fmt.Sprintf("%d rules for %d benchmarks", len(infos), gen.Pairs))
	return nil
}

// rulesTable builds the rules table; styled adds terminal colors to targets.
func rulesTable(infos []output.RuleInfo, styles *output.Styles, styled bool) table.Writer {
	titleCaser := cases.Title(language.English)

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Kind", "Target", "Output", "Depends On"})

	for _, info := range infos {
		target := info.Target
		deps := strings.Join(info.DependsOn, ", ")
		if info.Forwarded {
			deps = "(forwarded)"
		}
		if styled {
			target = styles.Target.Render(target)
			if info.Forwarded {
				deps = styles.Muted.Render(deps)
			}
		}
		t.AppendRow(table.Row{titleCaser.String(info.Kind), target, info.Output, deps})
	}
	return t
}
