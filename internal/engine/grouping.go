package engine

import "github.com/treasuryops/recon/internal/model"

// GroupKey identifies one review group: every transaction that received the
// same label for the same reason.
type GroupKey struct {
	Label         model.Label
	Justification string
}

// Group is one review group. Transactions keep their original relative
// order within the group.
type Group struct {
	Key          GroupKey
	Method       model.Method
	Transactions []model.Transaction
}

// GroupResults groups classified transactions by (label, justification) so
// an operator reviews one group per distinct reasoning instead of N
// individual records. Groups appear in first-occurrence order; grouping is
// stable, not sorted. txns and results must be index-aligned.
func GroupResults(txns []model.Transaction, results []model.PredictionResult) []Group {
	var groups []Group
	index := make(map[GroupKey]int)

	for i, txn := range txns {
		if i >= len(results) {
			break
		}
		key := GroupKey{Label: results[i].Label, Justification: results[i].Justification}
		at, ok := index[key]
		if !ok {
			at = len(groups)
			index[key] = at
			groups = append(groups, Group{Key: key, Method: results[i].Method})
		}
		groups[at].Transactions = append(groups[at].Transactions, txn)
	}
	return groups
}
