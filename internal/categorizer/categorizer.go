// Package categorizer assigns spending categories to transactions using an
// ordered fallback cascade: remote categorizer, then locally trained
// classifier, then deterministic keyword rules.
//
// The order is a cost/accuracy tradeoff. The remote stage is the most
// context-aware but costs network latency and money; the local model is free
// but requires prior training data; the rule stage is free and always
// defined, which guarantees every transaction receives a category.
package categorizer

import (
	"context"
	"time"

	"ledgersort/internal/classifier"
	"ledgersort/internal/logging"
	"ledgersort/internal/models"
)

// Options configures the cascade.
type Options struct {
	// RemoteEnabled gates the remote stage in addition to client availability.
	RemoteEnabled bool
	// ConfidenceThreshold is the minimum confidence for accepting a remote
	// answer.
	ConfidenceThreshold float64
	// RemoteTimeout bounds each individual remote call.
	RemoteTimeout time.Duration
}

// Categorizer runs the cascade. The strategy list, the rule set, and the
// local model handle are fixed at construction and treated as read-only for
// the duration of a batch; retraining the model is a separate phase that
// builds a new Categorizer.
type Categorizer struct {
	strategies []Strategy
	logger     logging.Logger
}

// New wires the cascade stages. remote may be nil (capability unavailable)
// and model may be nil (nothing trained yet); the keyword stage is always
// present, so Categorize is total.
func New(remote RemoteClient, model *classifier.Model, rules []models.CategoryConfig, opts Options, logger logging.Logger) *Categorizer {
	if logger == nil {
		logger = logging.GetLogger()
	}

	var strategies []Strategy
	if opts.RemoteEnabled && remote != nil {
		strategies = append(strategies, NewRemoteStrategy(remote, opts.ConfidenceThreshold, opts.RemoteTimeout, logger))
	}
	if model != nil {
		strategies = append(strategies, NewLocalModelStrategy(model, logger))
	}
	strategies = append(strategies, NewKeywordStrategy(rules, logger))

	return &Categorizer{
		strategies: strategies,
		logger:     logger,
	}
}

// Categorize runs the cascade for one transaction and returns exactly one
// decision. It never fails: strategy errors are demoted to "no result" and
// the terminal rule stage always answers.
func (c *Categorizer) Categorize(ctx context.Context, tx models.Transaction) Decision {
	for _, strategy := range c.strategies {
		category, found, err := strategy.Categorize(ctx, tx)
		if err != nil {
			c.logger.WithError(err).WithField("strategy", strategy.Name()).Warn("Categorization strategy failed, falling through")
			continue
		}
		if found {
			return Decision{Category: category, Stage: strategy.Stage()}
		}
	}

	// Unreachable while the keyword stage is terminal; kept so the cascade
	// stays total even if the strategy list is ever rearranged.
	return Decision{Category: models.CategoryMiscellaneous, Stage: StageNone}
}
