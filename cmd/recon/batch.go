package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/treasuryops/recon/internal/cli"
	"github.com/treasuryops/recon/internal/common"
	"github.com/treasuryops/recon/internal/engine"
	"github.com/treasuryops/recon/internal/model"
)

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <transactions.json>",
		Short: "Label a daily transaction export",
		Long: `Label every transaction in a daily JSON export and group the results.

The input file is a JSON array of raw transactions. Records sharing a label
and justification are grouped so ops reviews one group per distinct
reasoning. With --store, results are also persisted to the audit database.

Examples:
  recon batch exports/2025-10-01.json
  recon batch exports/2025-10-01.json --store --output results.json`,
		Args: cobra.ExactArgs(1),
		RunE: runBatch,
	}

	cmd.Flags().Bool("store", false, "persist results to the audit database")
	cmd.Flags().StringP("output", "o", "", "write grouped results to a JSON file")

	return cmd
}

// groupOutput is the JSON shape written with --output.
type groupOutput struct {
	Label          string   `json:"label"`
	Justification  string   `json:"justification"`
	Method         string   `json:"method"`
	TransactionIDs []string `json:"transaction_ids"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	txns, err := loadTransactions(args[0])
	if err != nil {
		return err
	}
	if len(txns) == 0 {
		return common.NewUserError("export file contains no transactions", common.ErrNoTransactions)
	}

	orchestrator, err := buildOrchestrator()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), classifyTimeout())
	defer cancel()

	bar := progressbar.NewOptions(len(txns),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Labeling transactions...[reset]"),
	)

	results := orchestrator.ClassifyBatchWithProgress(ctx, txns,
		func(model.Transaction, model.PredictionResult) {
			_ = bar.Add(1)
		})
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)

	groups := engine.GroupResults(txns, results)
	printGroups(groups, len(txns))

	if store, _ := cmd.Flags().GetBool("store"); store {
		if err := storeResults(cmd, txns, results); err != nil {
			return err
		}
		fmt.Println(cli.FormatSuccess("Results saved to audit database"))
	}

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		if err := writeGroups(output, groups); err != nil {
			return err
		}
		fmt.Println(cli.FormatSuccess("Grouped results written to " + output))
	}

	return nil
}

func loadTransactions(path string) ([]model.Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read export file: %w", err)
	}

	var raws []model.RawTransaction
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("failed to parse export file %s: %w", path, err)
	}

	txns := make([]model.Transaction, len(raws))
	for i, raw := range raws {
		txns[i] = model.FromRaw(raw)
	}
	return txns, nil
}

func printGroups(groups []engine.Group, total int) {
	fmt.Println(cli.FormatTitle(fmt.Sprintf("Labeled %d transactions in %d groups", total, len(groups))))

	for _, g := range groups {
		header := fmt.Sprintf("%s (%d)", g.Key.Label, len(g.Transactions))
		fmt.Println(cli.HeaderStyle.Render(header))
		fmt.Println(cli.SubtleStyle.Render("  " + g.Key.Justification))
		for _, txn := range g.Transactions {
			amount := "-"
			if txn.AmountValid {
				amount = "$" + txn.Amount.StringFixed(2)
			}
			fmt.Printf("  %-24s %12s  %s\n", txn.ID, amount, txn.Account)
		}
		fmt.Println()
	}
}

func storeResults(cmd *cobra.Command, txns []model.Transaction, results []model.PredictionResult) error {
	store, err := initStore(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to open audit database: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	return store.SaveResults(cmd.Context(), txns, results)
}

func writeGroups(path string, groups []engine.Group) error {
	out := make([]groupOutput, len(groups))
	for i, g := range groups {
		ids := make([]string, len(g.Transactions))
		for j, txn := range g.Transactions {
			ids[j] = txn.ID
		}
		out[i] = groupOutput{
			Label:          string(g.Key.Label),
			Justification:  g.Key.Justification,
			Method:         string(g.Method),
			TransactionIDs: ids,
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal groups: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
