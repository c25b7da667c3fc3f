package categorizer

import (
	"context"

	"ledgersort/internal/models"
)

// Stage identifies which cascade stage produced a category.
type Stage string

const (
	StageRemote     Stage = "remote"
	StageLocalModel Stage = "local-model"
	StageRules      Stage = "rules"
	StageNone       Stage = "none"
)

// Decision is the ephemeral result of categorizing one transaction: the
// chosen category and the stage that produced it. It is used for logging and
// tests, not persisted.
type Decision struct {
	Category   string
	Stage      Stage
	Confidence float64
}

// Strategy is one stage of the categorization cascade. Strategies report
// "no result" with found=false; they return an error only for failures worth
// surfacing in logs, and the cascade treats those as "no result" too.
type Strategy interface {
	// Categorize attempts to categorize a transaction using this strategy.
	Categorize(ctx context.Context, tx models.Transaction) (category string, found bool, err error)

	// Name returns the name of this strategy for logging and debugging.
	Name() string

	// Stage returns the cascade stage this strategy implements.
	Stage() Stage
}
