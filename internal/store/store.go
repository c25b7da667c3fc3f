// Package store provides loading of the category rule set from YAML.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"ledgersort/internal/logging"
	"ledgersort/internal/models"

	"gopkg.in/yaml.v3"
)

// RuleStore loads the category→keywords rule set. The rule set is static per
// process: it is loaded once and never mutated by the categorization cascade.
type RuleStore struct {
	CategoriesFile string
	logger         logging.Logger
}

// NewRuleStore creates a store reading from the given categories file.
func NewRuleStore(categoriesFile string, logger logging.Logger) *RuleStore {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &RuleStore{
		CategoriesFile: categoriesFile,
		logger:         logger,
	}
}

// FindConfigFile looks for a configuration file in standard locations.
func (s *RuleStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	// Common locations to check for config files
	locations := []string{
		filename,                          // Current directory
		filepath.Join("config", filename), // ./config/ directory
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	// Fall back to the user's home directory under .config/ledgersort/
	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".config", "ledgersort", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadCategories loads the ordered category rule set from the YAML file.
// Order is preserved exactly as written: the keyword stage scans categories
// in this order and stops at the first match.
func (s *RuleStore) LoadCategories() ([]models.CategoryConfig, error) {
	filename := s.CategoriesFile
	if filename == "" {
		filename = "categories.yaml"
	}

	path, err := s.FindConfigFile(filename)
	if err != nil {
		s.logger.WithField("file", filename).Warn("Categories file not found, using default rule set")
		return DefaultCategories(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read categories file %s: %w", path, err)
	}

	var cfg models.CategoriesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("could not parse categories file %s: %w", path, err)
	}

	s.logger.WithFields(
		logging.Field{Key: "file", Value: path},
		logging.Field{Key: "count", Value: len(cfg.Categories)},
	).Debug("Loaded category rule set")

	return cfg.Categories, nil
}

// DefaultCategories returns the built-in rule set used when no categories
// file is present. Matches the category vocabulary of the remote categorizer
// prompt so all three cascade stages speak the same labels.
func DefaultCategories() []models.CategoryConfig {
	return []models.CategoryConfig{
		{Name: "income", Keywords: []string{"payroll", "salary", "deposit", "direct dep"}},
		{Name: "groceries", Keywords: []string{"grocery", "supermarket", "market", "walmart", "aldi", "lidl", "safeway", "kroger"}},
		{Name: "dining", Keywords: []string{"restaurant", "cafe", "coffee", "pizza", "doordash", "grubhub", "mcdonald"}},
		{Name: "transportation", Keywords: []string{"uber", "lyft", "taxi", "transit", "parking", "gas station", "shell", "chevron"}},
		{Name: "utilities", Keywords: []string{"electric", "water", "internet", "phone", "utility", "comcast", "verizon"}},
		{Name: "housing", Keywords: []string{"rent", "mortgage", "hoa"}},
		{Name: "entertainment", Keywords: []string{"netflix", "spotify", "cinema", "theatre", "steam", "hulu"}},
		{Name: "shopping", Keywords: []string{"amazon", "target", "ebay", "store", "shop"}},
		{Name: "healthcare", Keywords: []string{"pharmacy", "doctor", "dental", "clinic", "cvs", "walgreens"}},
		{Name: "travel", Keywords: []string{"airline", "hotel", "airbnb", "flight"}},
		{Name: "fees", Keywords: []string{"fee", "interest", "charge", "penalty"}},
	}
}
