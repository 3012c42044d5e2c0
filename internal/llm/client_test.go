package llm

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/S2thend/cursor-history-mcp/pkg/wrapped"
	"github.com/S2thend/cursor-history-mcp/pkg/wrapped/stats"
)

type roundTrip func(*http.Request) *http.Response

func (rt roundTrip) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt(req), nil
}

func testSummary() *wrapped.Summary {
	return &wrapped.Summary{
		Meta: wrapped.Meta{
			ReportID:    "01TESTULID0000000000000000",
			GeneratedAt: time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC),
			Year:        2025,
			Language:    "en",
		},
		Stats: stats.Stats{
			TotalQuestions:      120,
			ActiveMonths:        2,
			MonthlyDistribution: map[string]int{"2025-03": 70, "2025-04": 50},
		},
		Notes: []string{},
	}
}

func TestNarrateSuccess(t *testing.T) {
	client := &Client{
		BaseURL: "https://api.test/v1/chat/completions",
		Model:   "gpt-test",
		HTTPClient: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				body, _ := io.ReadAll(req.Body)
				if !strings.Contains(string(body), "total questions: 120") {
					t.Fatalf("expected summary facts in payload, got: %s", body)
				}
				if !strings.Contains(string(body), "ONLY") {
					t.Fatalf("expected grounding instruction in payload")
				}
				return &http.Response{
					StatusCode: 200,
					Body: io.NopCloser(strings.NewReader(`{
						"choices":[{"message":{"role":"assistant","content":"Your year in review"}}]
					}`)),
					Header: make(http.Header),
				}
			}),
		},
	}

	out, err := client.Narrate(context.Background(), testSummary(), "en")
	if err != nil {
		t.Fatalf("Narrate: %v", err)
	}
	if out != "Your year in review" {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestNarrateError(t *testing.T) {
	client := &Client{
		BaseURL: "https://api.test/v1/chat/completions",
		Model:   "gpt-test",
		HTTPClient: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				return &http.Response{
					StatusCode: 200,
					Body:       io.NopCloser(strings.NewReader(`{"error":{"message":"bad"}}`)),
					Header:     make(http.Header),
				}
			}),
		},
	}
	if _, err := client.Narrate(context.Background(), testSummary(), "en"); err == nil {
		t.Fatal("expected error")
	}
}

func TestNarrateRequiresConfig(t *testing.T) {
	client := &Client{}
	if _, err := client.Narrate(context.Background(), testSummary(), "en"); err == nil {
		t.Fatal("expected error for missing base URL and model")
	}
}

func TestChat(t *testing.T) {
	client := &Client{
		BaseURL: "https://api.test/v1/chat/completions",
		Model:   "gpt-test",
		HTTPClient: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				return &http.Response{
					StatusCode: 200,
					Body:       io.NopCloser(strings.NewReader(`{"choices":[{"message":{"role":"assistant","content":"hi"}}]}`)),
					Header:     make(http.Header),
				}
			}),
		},
	}
	out, err := client.Chat(context.Background(), "system", "user prompt")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if out != "hi" {
		t.Fatalf("unexpected chat output %s", out)
	}
}
