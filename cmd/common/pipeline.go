// Package common wires the import and categorization pipelines for the
// command handlers.
package common

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"ledgersort/internal/categorizer"
	"ledgersort/internal/classifier"
	"ledgersort/internal/config"
	"ledgersort/internal/importer"
	"ledgersort/internal/inference"
	"ledgersort/internal/logging"
	"ledgersort/internal/models"
	"ledgersort/internal/normalize"
	"ledgersort/internal/store"
)

// NewSession builds an import session from the configuration: a normalizer
// and inferencer sharing the configured date formats and amount pattern, and
// one adapter per supported extension.
func NewSession(cfg *config.Config, logger logging.Logger) (*importer.Session, error) {
	amountPattern, err := regexp.Compile(cfg.Import.AmountPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid amount pattern %q: %w", cfg.Import.AmountPattern, err)
	}

	normalizer := normalize.New(cfg.Import.DateFormats, cfg.Import.PositiveIsIncome, logger)
	inferencer := inference.New(normalizer, amountPattern, logger)
	builder := importer.NewBuilder(normalizer, inferencer, logger)

	csvAdapter := importer.NewCSVAdapter(cfg.Import.DefaultEncoding, logger)
	adapters := map[string]importer.Adapter{
		".csv": csvAdapter,
		".tsv": csvAdapter,
		".xml": importer.NewXMLAdapter(logger),
	}

	return importer.NewSession(builder, adapters, logger), nil
}

// NewCategorizer assembles the categorization cascade from the configuration.
// The remote stage is attached only when AI is enabled and an API key is set;
// a failure to reach the service degrades to the local stages instead of
// failing. The returned cleanup releases the remote client when one exists.
func NewCategorizer(ctx context.Context, cfg *config.Config, logger logging.Logger) (*categorizer.Categorizer, func()) {
	rules := loadRules(cfg, logger)
	model := loadModel(cfg, logger)

	cleanup := func() {}
	var remote categorizer.RemoteClient
	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		client, err := categorizer.NewGeminiClient(ctx, cfg.AI.APIKey, cfg.AI.Model, categoryNames(rules), logger)
		if err != nil {
			logger.WithError(err).Warn("Remote categorizer unavailable, continuing without it")
		} else {
			remote = client
			cleanup = func() {
				if err := client.Close(); err != nil {
					logger.WithError(err).Warn("Failed to close remote categorizer client")
				}
			}
		}
	}

	opts := categorizer.Options{
		RemoteEnabled:       cfg.AI.Enabled,
		ConfidenceThreshold: cfg.Categorization.ConfidenceThreshold,
		RemoteTimeout:       time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
	}

	return categorizer.New(remote, model, rules, opts, logger), cleanup
}

// Delimiter returns the configured output delimiter as a rune.
func Delimiter(cfg *config.Config) rune {
	if cfg.CSV.Delimiter == "" {
		return ','
	}
	return []rune(cfg.CSV.Delimiter)[0]
}

func loadRules(cfg *config.Config, logger logging.Logger) []models.CategoryConfig {
	rules, err := store.NewRuleStore(cfg.Categories.File, logger).LoadCategories()
	if err != nil {
		logger.WithError(err).Warn("Failed to load category rules, using built-in defaults")
		return store.DefaultCategories()
	}
	return rules
}

func loadModel(cfg *config.Config, logger logging.Logger) *classifier.Model {
	model, err := classifier.Load(cfg.Classifier.ModelPath)
	if err != nil {
		logger.WithField("path", cfg.Classifier.ModelPath).Debug("No trained classifier model available")
		return nil
	}
	logger.WithField("path", cfg.Classifier.ModelPath).Info("Loaded trained classifier model")
	return model
}

func categoryNames(rules []models.CategoryConfig) []string {
	names := make([]string, 0, len(rules))
	for _, rule := range rules {
		names = append(names, rule.Name)
	}
	return names
}
