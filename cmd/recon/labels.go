package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/treasuryops/recon/internal/cli"
	"github.com/treasuryops/recon/internal/model"
)

func labelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "labels",
		Short: "List the known label set",
		RunE:  runLabels,
	}
}

func runLabels(_ *cobra.Command, _ []string) error {
	resolver, err := buildResolver()
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatTitle("Known labels"))
	for _, label := range model.AllLabels() {
		marker := cli.SubtleStyle.Render("  ")
		if !resolver.Resolve(label).IsEmpty() {
			marker = cli.SuccessStyle.Render(cli.SuccessIcon + " ")
		}
		fmt.Printf("  %s%s\n", marker, label)
	}
	fmt.Println()
	fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("%s = SOP documented (%d of %d)",
		cli.SuccessIcon, resolver.Documented(), len(model.AllLabels()))))
	return nil
}
