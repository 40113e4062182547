package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GuardianAI1/triaia/internal/evidence"
	"github.com/GuardianAI1/triaia/internal/plan"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <plan file>",
	Short: "Show expected supporting documents for a plan",
	Long: `Infer which document types the plan should carry from its regime and
free text, and report how many of the required ones are already linked.

Example:
  triaia suggest trip.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runSuggest,
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	p, err := plan.LoadFile(args[0])
	if err != nil {
		return err
	}

	contextText := strings.Join(append([]string{p.Title, p.ContextText}, p.Steps...), "\n")
	suggestions := evidence.Suggest(p.Regime, contextText, false)
	readiness := evidence.Derive(p.Documents, suggestions)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Plan: %s (%s regime)\n\n", p.Title, p.Regime)

	if len(suggestions) == 0 {
		fmt.Fprintln(out, "No specific document types expected.")
	} else {
		fmt.Fprintln(out, "Expected documents:")
		linked := linkedTypes(p.Documents)
		for _, s := range suggestions {
			marker := " "
			if linked[s.Type] {
				marker = "x"
			}
			requirement := "optional"
			if s.Required {
				requirement = "required"
			}
			fmt.Fprintf(out, "  [%s] %-22s %s (%s)\n", marker, s.Type, requirement, s.Reason)
		}
	}

	fmt.Fprintf(out, "\nReadiness: %s (%.0f%% coverage)\n", readiness.Label, readiness.Coverage*100)
	return nil
}

func linkedTypes(docs []plan.Document) map[string]bool {
	out := make(map[string]bool)
	for _, d := range docs {
		if d.Linked() {
			out[d.Type] = true
		}
	}
	return out
}
