package importer

import (
	"ledgersort/internal/models"
)

// Deduplicate removes transactions whose (date, description, amount) key has
// been seen before, keeping the first occurrence. Input order is preserved;
// the second return value is the number of duplicates removed.
//
// Running it twice over the same data removes nothing the second time.
func Deduplicate(transactions []models.Transaction) ([]models.Transaction, int) {
	seen := make(map[string]struct{}, len(transactions))
	unique := make([]models.Transaction, 0, len(transactions))

	for _, tx := range transactions {
		key := tx.DedupKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, tx)
	}

	return unique, len(transactions) - len(unique)
}
