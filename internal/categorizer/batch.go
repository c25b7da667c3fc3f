package categorizer

import (
	"context"
	"runtime"
	"sync"

	"ledgersort/internal/logging"
	"ledgersort/internal/models"
)

// concurrencyThreshold is the batch size below which the orchestrator stays
// sequential; worker overhead dominates for small batches.
const concurrencyThreshold = 100

// CategorizeAll applies the cascade to every transaction, preserving input
// order in the returned decisions. Individual categorizations are independent:
// the only shared state is the read-only model handle and rule set, so large
// batches are spread across a worker pool and reassembled by index.
func (c *Categorizer) CategorizeAll(ctx context.Context, transactions []models.Transaction) []Decision {
	if len(transactions) < concurrencyThreshold {
		return c.categorizeSequential(ctx, transactions)
	}
	return c.categorizeConcurrent(ctx, transactions)
}

// Apply runs CategorizeAll and writes each decision's category back onto the
// matching transaction.
func (c *Categorizer) Apply(ctx context.Context, transactions []models.Transaction) []Decision {
	decisions := c.CategorizeAll(ctx, transactions)
	for i := range transactions {
		transactions[i].Category = decisions[i].Category
	}
	return decisions
}

func (c *Categorizer) categorizeSequential(ctx context.Context, transactions []models.Transaction) []Decision {
	decisions := make([]Decision, len(transactions))
	for i := range transactions {
		decisions[i] = c.Categorize(ctx, transactions[i])
	}
	return decisions
}

func (c *Categorizer) categorizeConcurrent(ctx context.Context, transactions []models.Transaction) []Decision {
	workerCount := runtime.NumCPU()
	indexes := make(chan int, workerCount)
	decisions := make([]Decision, len(transactions))

	var wg sync.WaitGroup
	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				decisions[i] = c.Categorize(ctx, transactions[i])
			}
		}()
	}

	for i := range transactions {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	c.logger.Debug("Concurrent categorization completed",
		logging.Field{Key: "transactions", Value: len(transactions)},
		logging.Field{Key: "workers", Value: workerCount})

	return decisions
}
