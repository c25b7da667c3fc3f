package categorizer

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"ledgersort/internal/logging"
	"ledgersort/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// jsonObjectPattern pulls the first JSON object out of a model reply that may
// be wrapped in prose or a code fence.
var jsonObjectPattern = regexp.MustCompile(`\{[\s\S]*\}`)

// GeminiClient implements RemoteClient against the Google Gemini API.
type GeminiClient struct {
	client     *genai.Client
	model      *genai.GenerativeModel
	categories []string
	logger     logging.Logger
}

// NewGeminiClient creates a Gemini-backed remote categorizer. categories is
// the vocabulary the model is asked to choose from; it should match the names
// in the keyword rule set so all cascade stages agree on labels.
func NewGeminiClient(ctx context.Context, apiKey, modelName string, categories []string, logger logging.Logger) (*GeminiClient, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	temperature := float32(0.1)
	model.Temperature = &temperature

	return &GeminiClient{
		client:     client,
		model:      model,
		categories: categories,
		logger:     logger,
	}, nil
}

// Close releases the underlying API client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// Categorize sends one transaction to the model and parses the JSON answer.
func (c *GeminiClient) Categorize(ctx context.Context, tx models.Transaction) (Prediction, error) {
	prompt := c.buildPrompt(tx)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return Prediction{}, fmt.Errorf("gemini request failed: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return Prediction{}, fmt.Errorf("gemini returned an empty response")
	}

	pred, err := parsePrediction(text)
	if err != nil {
		return Prediction{}, err
	}

	c.logger.WithFields(
		logging.Field{Key: "category", Value: pred.Category},
		logging.Field{Key: "confidence", Value: pred.Confidence},
	).Debug("Gemini categorization response")

	return pred, nil
}

func (c *GeminiClient) buildPrompt(tx models.Transaction) string {
	var b strings.Builder
	b.WriteString("Categorize this financial transaction into one spending category.\n\n")
	fmt.Fprintf(&b, "Description: %s\n", tx.Description)
	fmt.Fprintf(&b, "Amount: %s\n", tx.Amount.StringFixed(2))
	if !tx.Date.IsZero() {
		fmt.Fprintf(&b, "Date: %s\n", tx.Date.String())
	}
	if len(c.categories) > 0 {
		fmt.Fprintf(&b, "\nChoose from these categories: %s\n", strings.Join(c.categories, ", "))
	}
	b.WriteString("\nRespond in JSON format with only 'category' and 'confidence' keys.\n")
	b.WriteString(`Example: {"category": "groceries", "confidence": 0.85}`)
	return b.String()
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}

// parsePrediction extracts and validates the JSON answer.
func parsePrediction(text string) (Prediction, error) {
	raw := jsonObjectPattern.FindString(text)
	if raw == "" {
		return Prediction{}, fmt.Errorf("no JSON object in gemini response: %q", text)
	}

	var pred Prediction
	if err := json.Unmarshal([]byte(raw), &pred); err != nil {
		return Prediction{}, fmt.Errorf("could not parse gemini response: %w", err)
	}

	if pred.Confidence < 0 {
		pred.Confidence = 0
	} else if pred.Confidence > 1 {
		pred.Confidence = 1
	}

	return pred, nil
}
