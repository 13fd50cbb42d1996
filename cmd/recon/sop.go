package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/treasuryops/recon/internal/cli"
	"github.com/treasuryops/recon/internal/model"
	"github.com/treasuryops/recon/internal/sop"
)

func sopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sop <label>",
		Short: "Show the standard operating procedure for a label",
		Long: `Show the labeling rule and reconciliation procedure for a label.

Examples:
  recon sop "Recovery Wire"
  recon sop Risk`,
		Args: cobra.ExactArgs(1),
		RunE: runSOP,
	}
}

func runSOP(_ *cobra.Command, args []string) error {
	resolver, err := buildResolver()
	if err != nil {
		return err
	}

	label := model.Label(args[0])
	entry := resolver.Resolve(label)
	if entry.IsEmpty() {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("No SOP documented for %q yet", label)))
		if !model.Known(label) {
			fmt.Println(cli.SubtleStyle.Render("  (not a known label; run 'recon labels' for the full list)"))
		}
		return nil
	}

	printSOPEntry(label, entry)
	return nil
}

func printSOPEntry(label model.Label, entry sop.Entry) {
	fmt.Println(cli.FormatTitle("SOP: " + string(label)))

	if entry.IsEmpty() {
		fmt.Println(cli.SubtleStyle.Render("  No SOP documented for this label yet."))
		return
	}
	if entry.LabelingText != "" {
		fmt.Println(cli.HeaderStyle.Render("Labeling"))
		fmt.Println("  " + entry.LabelingText)
	}
	if entry.ReconciliationText != "" {
		fmt.Println(cli.HeaderStyle.Render("Reconciliation"))
		fmt.Println("  " + entry.ReconciliationText)
	}
	if entry.Source.URL != "" {
		fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("Source: %s (%s)", entry.Source.Title, entry.Source.URL)))
	}
	for _, ref := range entry.References {
		fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("See also: %s (%s)", ref.Title, ref.URL)))
	}
}
