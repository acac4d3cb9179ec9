package grader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/civicsprep/backend/internal/metrics"
)

// ModelGrader grades answers by prompting an OpenAI-compatible chat
// completion endpoint (OpenAI, Ollama, LM Studio, vLLM, etc.).
type ModelGrader struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// Compile-time check: *ModelGrader satisfies the Grader interface.
var _ Grader = (*ModelGrader)(nil)

// ModelConfig points a ModelGrader at an endpoint. An empty BaseURL means
// api.openai.com.
type ModelConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewModelGrader creates a grader that calls the configured model.
func NewModelGrader(cfg ModelConfig, logger *slog.Logger) *ModelGrader {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	clientConfig.HTTPClient = &http.Client{Timeout: timeout}

	return &ModelGrader{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
		logger: logger,
	}
}

// ============================================================================
// Grader interface
// ============================================================================

const maxRetries = 2

// Grade sends all items to the model in one prompt.
//
// It retries once on parse failure (models sometimes wrap the array in prose).
// Transport and API errors are returned straight away.
func (g *ModelGrader) Grade(ctx context.Context, items []Item) ([]Verdict, error) {
	prompt, err := buildPrompt(items)
	if err != nil {
		return nil, &GradeError{Reason: "failed to build prompt", Wrapped: err}
	}

	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		text, err := g.complete(ctx, prompt)
		if err != nil {
			return nil, err
		}

		verdicts, err := ParseVerdicts(text)
		if err != nil {
			metrics.ModelParseFailures.Inc()
			g.logger.Error("failed to parse model response",
				"attempt", attempt+1,
				"error", err,
				"response", text,
			)
			lastErr = err
			continue
		}
		return verdicts, nil
	}

	return nil, &GradeError{
		Reason:  fmt.Sprintf("failed after %d attempts", maxRetries),
		Raw:     rawOf(lastErr),
		Wrapped: lastErr,
	}
}

// ============================================================================
// LLM communication
// ============================================================================

// complete sends a single request to the model and returns the raw text.
func (g *ModelGrader) complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	metrics.ModelLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		return "", &GradeError{Reason: "model request failed", StatusCode: statusOf(err), Wrapped: err}
	}
	if len(resp.Choices) == 0 {
		return "", &GradeError{Reason: "model returned no choices"}
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", &GradeError{Reason: "model returned empty content"}
	}
	return content, nil
}

func statusOf(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

func rawOf(err error) string {
	var gradeErr *GradeError
	if errors.As(err, &gradeErr) {
		return gradeErr.Raw
	}
	return ""
}

// ============================================================================
// Prompt
// ============================================================================

func buildPrompt(items []Item) (string, error) {
	payload, err := json.MarshalIndent(withAnswerLists(items), "", "  ")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`You are an expert evaluator for US Civics test answers.
For each question, evaluate if the user's answer can be considered correct based on the provided correct answers.
Consider variations in phrasing, partial answers, and semantic equivalence.

Here are the answers to evaluate:
%s

Return a JSON array where each object contains:
- question_text: the original question
- user_answer: what the user submitted
- correct_answers: the reference correct answers
- is_correct: boolean indicating if the answer should be considered correct
- explanation: brief explanation of your evaluation

Ensure your response is ONLY the JSON array, with no additional text.`, payload), nil
}
