package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/treasuryops/recon/internal/config"
	"github.com/treasuryops/recon/internal/engine"
	"github.com/treasuryops/recon/internal/llm"
	"github.com/treasuryops/recon/internal/rules"
	"github.com/treasuryops/recon/internal/sop"
	"github.com/treasuryops/recon/internal/stats"
	"github.com/treasuryops/recon/internal/storage"
)

// buildOrchestrator assembles the prediction tiers from configuration.
// Missing fallback tiers degrade to nil: the orchestrator treats them as
// permanent abstentions, so a box with no API key still classifies
// everything the rules can reach.
func buildOrchestrator() (*engine.Orchestrator, error) {
	ruleEngine := rules.NewEngine(ruleConfig())

	var statsTier engine.StatisticalClassifier
	if viper.GetBool("stats.enabled") || !viper.IsSet("stats.enabled") {
		classifier, err := buildStatsTier()
		if err != nil {
			return nil, err
		}
		statsTier = classifier
	}

	var generativeTier engine.GenerativeClassifier
	if provider := viper.GetString("llm.provider"); provider != "" {
		client, err := llm.NewClient(llm.Config{
			Provider:    provider,
			APIKey:      viper.GetString("llm.api_key"),
			Model:       viper.GetString("llm.model"),
			Temperature: viper.GetFloat64("llm.temperature"),
			MaxTokens:   viper.GetInt("llm.max_tokens"),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create generative client: %w", err)
		}
		generativeTier = client
	} else {
		slog.Info("No generative provider configured, tier disabled")
	}

	return engine.New(ruleEngine, statsTier, generativeTier, engineConfig(), slog.Default()), nil
}

func ruleConfig() rules.Config {
	cfg := rules.DefaultConfig()
	if v := viper.GetString("rules.large_wire_threshold"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			cfg.LargeWireThreshold = d
		}
	}
	if v := viper.GetString("rules.small_wire_threshold"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			cfg.SmallWireThreshold = d
		}
	}
	return cfg
}

func engineConfig() engine.Config {
	cfg := engine.DefaultConfig()
	if viper.IsSet("engine.statistical_threshold") {
		cfg.StatisticalThreshold = viper.GetFloat64("engine.statistical_threshold")
	}
	if viper.IsSet("engine.statistical_timeout") {
		cfg.StatisticalTimeout = viper.GetDuration("engine.statistical_timeout")
	}
	if viper.IsSet("engine.generative_timeout") {
		cfg.GenerativeTimeout = viper.GetDuration("engine.generative_timeout")
	}
	return cfg
}

func buildStatsTier() (*stats.Classifier, error) {
	if corpus := viper.GetString("stats.corpus"); corpus != "" {
		classifier, err := stats.NewFromCorpus(config.ExpandPath(corpus))
		if err != nil {
			return nil, fmt.Errorf("failed to train statistical classifier: %w", err)
		}
		return classifier, nil
	}
	classifier, err := stats.New()
	if err != nil {
		return nil, fmt.Errorf("failed to train statistical classifier: %w", err)
	}
	return classifier, nil
}

// initStore opens and migrates the audit database.
func initStore(ctx context.Context) (*storage.Store, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/recon/recon.db"
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewStore(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// buildResolver loads the SOP knowledge base, embedded or external.
func buildResolver() (*sop.Resolver, error) {
	if kb := viper.GetString("sop.knowledge_base"); kb != "" {
		return sop.NewResolverFromFile(config.ExpandPath(kb))
	}
	return sop.NewResolver()
}

// classifyTimeout bounds a whole classification run.
func classifyTimeout() time.Duration {
	if viper.IsSet("engine.run_timeout") {
		return viper.GetDuration("engine.run_timeout")
	}
	return 10 * time.Minute
}
