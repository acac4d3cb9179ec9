package grader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// EvaluatePath is where a grading server accepts batches.
const EvaluatePath = "/api/evaluateQuiz"

// HTTPGrader posts batches to a grading server's EvaluatePath.
type HTTPGrader struct {
	url    string       // e.g. "http://localhost:8080"
	client *http.Client // reused across calls
}

var _ Grader = (*HTTPGrader)(nil)

// NewHTTPGrader creates a grader for the server at baseURL. A nil client
// gets a two minute timeout, enough for the server's own model call.
func NewHTTPGrader(baseURL string, client *http.Client) *HTTPGrader {
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}
	return &HTTPGrader{
		url:    strings.TrimRight(baseURL, "/"),
		client: client,
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// Grade posts items and decodes the verdict array.
func (g *HTTPGrader) Grade(ctx context.Context, items []Item) ([]Verdict, error) {
	jsonData, err := json.Marshal(withAnswerLists(items))
	if err != nil {
		return nil, &GradeError{Reason: "failed to marshal request", Wrapped: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url+EvaluatePath, bytes.NewReader(jsonData))
	if err != nil {
		return nil, &GradeError{Reason: "failed to create request", Wrapped: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &GradeError{Reason: "grading request failed", Wrapped: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &GradeError{Reason: "failed to read response", StatusCode: resp.StatusCode, Wrapped: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reason := fmt.Sprintf("grading server returned %s", http.StatusText(resp.StatusCode))
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil && eb.Error != "" {
			reason = eb.Error
		}
		return nil, &GradeError{Reason: reason, StatusCode: resp.StatusCode}
	}

	var verdicts []Verdict
	if err := json.Unmarshal(body, &verdicts); err != nil {
		return nil, &GradeError{Reason: "invalid JSON from grading server", StatusCode: resp.StatusCode, Raw: string(body), Wrapped: err}
	}
	if verdicts == nil {
		return nil, &GradeError{Reason: "grading server returned null", StatusCode: resp.StatusCode, Raw: string(body)}
	}
	return verdicts, nil
}

// withAnswerLists copies items so that every CorrectAnswers encodes as an
// array, never null.
func withAnswerLists(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	for i := range out {
		if out[i].CorrectAnswers == nil {
			out[i].CorrectAnswers = []string{}
		}
	}
	return out
}
