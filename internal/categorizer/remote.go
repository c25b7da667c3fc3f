package categorizer

import (
	"context"
	"strings"
	"time"

	"ledgersort/internal/logging"
	"ledgersort/internal/models"
)

// Prediction is the remote categorizer's response contract: a category and a
// confidence in [0,1].
type Prediction struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// RemoteClient is the remote categorizer capability. Implementations talk to
// an external AI service; the cascade depends only on this contract and the
// configured timeout.
type RemoteClient interface {
	Categorize(ctx context.Context, tx models.Transaction) (Prediction, error)
}

// RemoteStrategy is the first cascade stage. Every call is bounded by the
// configured timeout, and any transport or parse failure degrades that one
// transaction to the next stage instead of aborting the batch.
//
// The confidence gate protects against low-confidence remote answers
// overriding the more reliable local signal.
type RemoteStrategy struct {
	client    RemoteClient
	threshold float64
	timeout   time.Duration
	logger    logging.Logger
}

// NewRemoteStrategy creates a RemoteStrategy. client may be nil when the
// remote capability is disabled; the strategy then never matches.
func NewRemoteStrategy(client RemoteClient, threshold float64, timeout time.Duration, logger logging.Logger) *RemoteStrategy {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &RemoteStrategy{
		client:    client,
		threshold: threshold,
		timeout:   timeout,
		logger:    logger,
	}
}

// Name returns the name of this strategy for logging and debugging.
func (s *RemoteStrategy) Name() string {
	return "Remote"
}

// Stage returns the cascade stage this strategy implements.
func (s *RemoteStrategy) Stage() Stage {
	return StageRemote
}

// Categorize asks the remote categorizer and accepts the answer only when its
// confidence meets the threshold.
func (s *RemoteStrategy) Categorize(ctx context.Context, tx models.Transaction) (string, bool, error) {
	if s.client == nil {
		return "", false, nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	pred, err := s.client.Categorize(ctx, tx)
	if err != nil {
		s.logger.WithError(err).WithFields(
			logging.Field{Key: "strategy", Value: s.Name()},
			logging.Field{Key: "description", Value: tx.Description},
		).Warn("Remote categorization failed")
		return "", false, nil
	}

	if strings.TrimSpace(pred.Category) == "" {
		return "", false, nil
	}

	if pred.Confidence < s.threshold {
		s.logger.WithFields(
			logging.Field{Key: "strategy", Value: s.Name()},
			logging.Field{Key: "category", Value: pred.Category},
			logging.Field{Key: "confidence", Value: pred.Confidence},
			logging.Field{Key: "threshold", Value: s.threshold},
		).Debug("Remote answer below confidence threshold, falling through")
		return "", false, nil
	}

	s.logger.WithFields(
		logging.Field{Key: "strategy", Value: s.Name()},
		logging.Field{Key: "category", Value: pred.Category},
		logging.Field{Key: "confidence", Value: pred.Confidence},
	).Debug("Transaction categorized using remote categorizer")

	return pred.Category, true, nil
}
