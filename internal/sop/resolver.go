// Package sop maps labels to their standard operating procedure entries.
package sop

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/treasuryops/recon/internal/common"
	"github.com/treasuryops/recon/internal/model"
)

//go:embed kb.yaml
var embeddedKB []byte

// Reference is a titled link to an authoritative document.
type Reference struct {
	Title string `yaml:"title"`
	URL   string `yaml:"url"`
}

// Entry is the static SOP record for one label. Fields may legitimately be
// empty: many labels have a documented labeling rule but no reconciliation
// procedure, and callers must check before presenting a section.
type Entry struct {
	LabelingText       string      `yaml:"labeling"`
	ReconciliationText string      `yaml:"reconciliation"`
	Source             Reference   `yaml:"source"`
	References         []Reference `yaml:"references"`
}

// IsEmpty reports whether the entry carries no documentation at all.
func (e Entry) IsEmpty() bool {
	return e.LabelingText == "" && e.ReconciliationText == "" &&
		e.Source == (Reference{}) && len(e.References) == 0
}

type knowledgeBase struct {
	Entries map[string]Entry `yaml:"entries"`
}

// Resolver performs pure lookups against an immutable knowledge base loaded
// once at startup. It is safe to share across goroutines.
type Resolver struct {
	entries map[model.Label]Entry
}

// NewResolver loads the embedded knowledge base snapshot.
func NewResolver() (*Resolver, error) {
	return newResolver(embeddedKB)
}

// NewResolverFromFile loads a knowledge base from an external YAML file,
// for deployments that maintain the SOP table out-of-band.
func NewResolverFromFile(path string) (*Resolver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base %s: %w", path, err)
	}
	return newResolver(data)
}

func newResolver(data []byte) (*Resolver, error) {
	var kb knowledgeBase
	if err := yaml.Unmarshal(data, &kb); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCorruptKnowledgeBase, err)
	}
	if len(kb.Entries) == 0 {
		return nil, fmt.Errorf("%w: no entries", common.ErrCorruptKnowledgeBase)
	}

	entries := make(map[model.Label]Entry, len(kb.Entries))
	for label, entry := range kb.Entries {
		entries[model.Label(label)] = entry
	}
	return &Resolver{entries: entries}, nil
}

// Resolve returns the SOP entry for a label. Labels without an entry return
// a zero-value Entry, never an error: a brand-new label emitted by the rule
// engine before the knowledge base catches up is an expected state.
func (r *Resolver) Resolve(label model.Label) Entry {
	return r.entries[label]
}

// Documented returns how many labels the knowledge base covers.
func (r *Resolver) Documented() int {
	return len(r.entries)
}
