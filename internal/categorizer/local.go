package categorizer

import (
	"context"
	"strings"

	"ledgersort/internal/classifier"
	"ledgersort/internal/logging"
	"ledgersort/internal/models"
)

// LocalModelStrategy categorizes using the locally trained classifier. It is
// only consulted when a model has been trained or loaded; any prediction
// failure falls through to the rule stage rather than propagating.
type LocalModelStrategy struct {
	model  *classifier.Model
	logger logging.Logger
}

// NewLocalModelStrategy creates a LocalModelStrategy. model may be nil when
// no trained model is available; the strategy then never matches.
func NewLocalModelStrategy(model *classifier.Model, logger logging.Logger) *LocalModelStrategy {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &LocalModelStrategy{
		model:  model,
		logger: logger,
	}
}

// Name returns the name of this strategy for logging and debugging.
func (s *LocalModelStrategy) Name() string {
	return "LocalModel"
}

// Stage returns the cascade stage this strategy implements.
func (s *LocalModelStrategy) Stage() Stage {
	return StageLocalModel
}

// Categorize predicts a category from the description text.
func (s *LocalModelStrategy) Categorize(_ context.Context, tx models.Transaction) (string, bool, error) {
	if s.model == nil {
		return "", false, nil
	}
	if strings.TrimSpace(tx.Description) == "" {
		return "", false, nil
	}

	label, err := s.model.Predict(tx.Description)
	if err != nil {
		s.logger.WithError(err).WithFields(
			logging.Field{Key: "strategy", Value: s.Name()},
			logging.Field{Key: "description", Value: tx.Description},
		).Warn("Local model prediction failed")
		return "", false, nil
	}

	s.logger.WithFields(
		logging.Field{Key: "strategy", Value: s.Name()},
		logging.Field{Key: "category", Value: label},
	).Debug("Transaction categorized using local model")

	return label, true, nil
}
