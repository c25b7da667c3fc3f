package categorizer

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"ledgersort/internal/logging"
	"ledgersort/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRemote is a canned RemoteClient for cascade tests.
type fakeRemote struct {
	prediction Prediction
	err        error
	calls      int
}

func (f *fakeRemote) Categorize(_ context.Context, _ models.Transaction) (Prediction, error) {
	f.calls++
	return f.prediction, f.err
}

func cascadeOptions() Options {
	return Options{
		RemoteEnabled:       true,
		ConfidenceThreshold: 0.5,
		RemoteTimeout:       time.Second,
	}
}

func TestCascadeRemoteWins(t *testing.T) {
	remote := &fakeRemote{prediction: Prediction{Category: "dining", Confidence: 0.9}}
	cat := New(remote, nil, testRules, cascadeOptions(), logging.NewMockLogger())

	decision := cat.Categorize(context.Background(), models.Transaction{Description: "WALMART"})
	assert.Equal(t, "dining", decision.Category)
	assert.Equal(t, StageRemote, decision.Stage)
	assert.Equal(t, 1, remote.calls)
}

func TestCascadeConfidenceGate(t *testing.T) {
	// 0.2 < 0.5: the remote answer is discarded and the rules decide.
	remote := &fakeRemote{prediction: Prediction{Category: "dining", Confidence: 0.2}}
	cat := New(remote, nil, testRules, cascadeOptions(), logging.NewMockLogger())

	decision := cat.Categorize(context.Background(), models.Transaction{Description: "WALMART"})
	assert.Equal(t, "groceries", decision.Category)
	assert.Equal(t, StageRules, decision.Stage)
}

func TestCascadeRemoteFailureFallsThrough(t *testing.T) {
	remote := &fakeRemote{err: errors.New("service unavailable")}
	cat := New(remote, nil, testRules, cascadeOptions(), logging.NewMockLogger())

	decision := cat.Categorize(context.Background(), models.Transaction{Description: "UBER TRIP"})
	assert.Equal(t, "transportation", decision.Category)
	assert.Equal(t, StageRules, decision.Stage)
}

func TestCascadeRemoteDisabled(t *testing.T) {
	remote := &fakeRemote{prediction: Prediction{Category: "dining", Confidence: 0.9}}
	opts := cascadeOptions()
	opts.RemoteEnabled = false
	cat := New(remote, nil, testRules, opts, logging.NewMockLogger())

	decision := cat.Categorize(context.Background(), models.Transaction{Description: "WALMART"})
	assert.Equal(t, "groceries", decision.Category)
	assert.Equal(t, 0, remote.calls)
}

func TestCascadeIsTotal(t *testing.T) {
	// No remote, no model, no matching rule: still exactly one category.
	cat := New(nil, nil, nil, Options{}, logging.NewMockLogger())

	decision := cat.Categorize(context.Background(), models.Transaction{Description: "completely unknown"})
	assert.Equal(t, models.CategoryMiscellaneous, decision.Category)
	assert.Equal(t, StageRules, decision.Stage)
}

func TestCategorizeAllPreservesOrder(t *testing.T) {
	// Enough transactions to exercise the concurrent path.
	cat := New(nil, nil, testRules, Options{}, logging.NewMockLogger())

	transactions := make([]models.Transaction, 250)
	for i := range transactions {
		if i%2 == 0 {
			transactions[i].Description = fmt.Sprintf("WALMART %d", i)
		} else {
			transactions[i].Description = fmt.Sprintf("UBER %d", i)
		}
	}

	decisions := cat.CategorizeAll(context.Background(), transactions)
	require.Len(t, decisions, len(transactions))
	for i, decision := range decisions {
		if i%2 == 0 {
			assert.Equal(t, "groceries", decision.Category, "index %d", i)
		} else {
			assert.Equal(t, "transportation", decision.Category, "index %d", i)
		}
	}
}

func TestApplyWritesCategoriesBack(t *testing.T) {
	cat := New(nil, nil, testRules, Options{}, logging.NewMockLogger())

	transactions := []models.Transaction{
		{Description: "WALMART"},
		{Description: "mystery"},
	}
	cat.Apply(context.Background(), transactions)

	assert.Equal(t, "groceries", transactions[0].Category)
	assert.Equal(t, models.CategoryMiscellaneous, transactions[1].Category)
}

func TestLocalModelStrategyWithoutModel(t *testing.T) {
	strategy := NewLocalModelStrategy(nil, logging.NewMockLogger())

	_, found, err := strategy.Categorize(context.Background(), models.Transaction{Description: "anything"})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRemoteStrategyEmptyCategory(t *testing.T) {
	remote := &fakeRemote{prediction: Prediction{Category: "   ", Confidence: 0.9}}
	strategy := NewRemoteStrategy(remote, 0.5, time.Second, logging.NewMockLogger())

	_, found, err := strategy.Categorize(context.Background(), models.Transaction{Description: "x"})
	require.NoError(t, err)
	assert.False(t, found)
}
