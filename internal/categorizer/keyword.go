package categorizer

import (
	"context"
	"strings"

	"ledgersort/internal/logging"
	"ledgersort/internal/models"
)

// KeywordStrategy is the terminal cascade stage: deterministic keyword rules.
// It always produces a category, falling back to the miscellaneous category
// when no keyword matches, which is what guarantees the cascade terminates.
type KeywordStrategy struct {
	categories []models.CategoryConfig
	logger     logging.Logger
}

// NewKeywordStrategy creates a KeywordStrategy over an ordered rule set.
// Categories are scanned in the given order and, within a category, keywords
// in their configured order; the first match wins.
func NewKeywordStrategy(categories []models.CategoryConfig, logger logging.Logger) *KeywordStrategy {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &KeywordStrategy{
		categories: categories,
		logger:     logger,
	}
}

// Name returns the name of this strategy for logging and debugging.
func (s *KeywordStrategy) Name() string {
	return "Keyword"
}

// Stage returns the cascade stage this strategy implements.
func (s *KeywordStrategy) Stage() Stage {
	return StageRules
}

// Categorize matches the description against the rule set. Matching is a
// case-insensitive substring test.
func (s *KeywordStrategy) Categorize(_ context.Context, tx models.Transaction) (string, bool, error) {
	description := strings.ToLower(tx.Description)

	for _, category := range s.categories {
		for _, keyword := range category.Keywords {
			if keyword == "" {
				continue
			}
			if strings.Contains(description, strings.ToLower(keyword)) {
				s.logger.WithFields(
					logging.Field{Key: "strategy", Value: s.Name()},
					logging.Field{Key: "keyword", Value: keyword},
					logging.Field{Key: "category", Value: category.Name},
				).Debug("Transaction categorized using keyword matching")
				return category.Name, true, nil
			}
		}
	}

	return models.CategoryMiscellaneous, true, nil
}
