package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/treasuryops/recon/internal/cli"
	"github.com/treasuryops/recon/internal/model"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Label a single transaction",
		Long: `Label a single bank transaction from its raw fields.

The transaction runs through the full prediction stack: the rule engine
first, then the statistical and generative fallback tiers if no rule fires.

Examples:
  recon classify --account "Chase Recovery" --amount '$1,200.00' --description "INCOMING WIRE"
  recon classify --description "NIUM PAYMENT 4821" --payment-method wire_out --sop`,
		RunE: runClassify,
	}

	cmd.Flags().String("id", "", "transaction identifier")
	cmd.Flags().String("account", "", "origination account name")
	cmd.Flags().String("description", "", "bank narrative")
	cmd.Flags().String("amount", "", "transaction amount, e.g. '$3,998.49'")
	cmd.Flags().String("date", "", "transaction date (YYYY-MM-DD)")
	cmd.Flags().String("payment-method", "", "payment method, e.g. wire_in, ach, check")
	cmd.Flags().Bool("sop", false, "print the SOP entry for the predicted label")

	return cmd
}

func runClassify(cmd *cobra.Command, _ []string) error {
	raw := model.RawTransaction{}
	raw.ID, _ = cmd.Flags().GetString("id")
	raw.Account, _ = cmd.Flags().GetString("account")
	raw.Description, _ = cmd.Flags().GetString("description")
	raw.Amount, _ = cmd.Flags().GetString("amount")
	raw.Date, _ = cmd.Flags().GetString("date")
	raw.PaymentMethod, _ = cmd.Flags().GetString("payment-method")

	if raw.Account == "" && raw.Description == "" {
		return fmt.Errorf("at least one of --account or --description is required")
	}

	orchestrator, err := buildOrchestrator()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), classifyTimeout())
	defer cancel()

	txn := model.FromRaw(raw)
	result := orchestrator.ClassifyTransaction(ctx, txn)

	fmt.Println(cli.FormatTitle("Classification"))
	fmt.Printf("  Label:         %s\n", cli.LabelStyle.Render(string(result.Label)))
	fmt.Printf("  Method:        %s\n", result.Method)
	fmt.Printf("  Confidence:    %.2f\n", result.Confidence)
	fmt.Printf("  Justification: %s\n", result.Justification)

	showSOP, _ := cmd.Flags().GetBool("sop")
	if showSOP {
		resolver, rerr := buildResolver()
		if rerr != nil {
			return rerr
		}
		fmt.Println()
		printSOPEntry(result.Label, resolver.Resolve(result.Label))
	}

	return nil
}
