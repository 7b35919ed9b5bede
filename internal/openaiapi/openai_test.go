package openaiapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/EdomGit/User-questions/internal/config"
)

func testConfig(baseURL string) *config.OpenAIEnvConfig {
	return &config.OpenAIEnvConfig{
		OpenAIAPIKey:  "test-key",
		OpenAIBaseURL: baseURL,
		OpenAIModel:   "gpt-4o-mini",
		OpenAITimeout: 5 * time.Second,
	}
}

func completionReply(content string) ChatCompletionResponse {
	return ChatCompletionResponse{
		ID:    "chatcmpl-1",
		Model: "gpt-4o-mini",
		Choices: []ChatChoice{
			{Message: ChatMessage{Role: "assistant", Content: content}, FinishReason: "stop"},
		},
	}
}

func TestNewOpenAIAPI_NilConfig(t *testing.T) {
	_, err := NewOpenAIAPI(nil)
	if err == nil {
		t.Fatal("expected error when cfg is nil")
	}
}

func TestGenerateQuestions_EmptyText(t *testing.T) {
	var requests atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer ts.Close()

	o, err := NewOpenAIAPI(testConfig(ts.URL))
	if err != nil {
		t.Fatalf("unexpected new error: %v", err)
	}

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := o.GenerateQuestions(text); !errors.Is(err, ErrEmptyText) {
			t.Fatalf("text %q: expected ErrEmptyText, got %v", text, err)
		}
	}
	if n := requests.Load(); n != 0 {
		t.Fatalf("expected no outbound requests, got %d", n)
	}
}

func TestGenerateQuestions_MissingAPIKey(t *testing.T) {
	var requests atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer ts.Close()

	cfg := testConfig(ts.URL)
	cfg.OpenAIAPIKey = ""
	o, err := NewOpenAIAPI(cfg)
	if err != nil {
		t.Fatalf("unexpected new error: %v", err)
	}

	if _, err := o.GenerateQuestions("some perfectly fine text"); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if n := requests.Load(); n != 0 {
		t.Fatalf("expected no outbound requests, got %d", n)
	}
}

func TestGenerateQuestions_NumberedReply(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chat/completions" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		var req ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Model != "gpt-4o-mini" || len(req.Messages) != 2 {
			t.Errorf("unexpected request: %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(completionReply("1. What is the article about?\n2. Who wrote it?\n3. Why does it matter?")); err != nil {
			panic(err)
		}
	}))
	defer ts.Close()

	o, err := NewOpenAIAPI(testConfig(ts.URL))
	if err != nil {
		t.Fatalf("unexpected new error: %v", err)
	}

	questions, err := o.GenerateQuestions("a long enough article body")
	if err != nil {
		t.Fatalf("GenerateQuestions failed: %v", err)
	}

	want := []string{"What is the article about?", "Who wrote it?", "Why does it matter?"}
	if len(questions) != len(want) {
		t.Fatalf("expected %d questions, got %d: %v", len(want), len(questions), questions)
	}
	for i := range want {
		if questions[i] != want[i] {
			t.Fatalf("question %d: expected %q, got %q", i, want[i], questions[i])
		}
	}
}

func TestGenerateQuestions_Upstream500(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	o, err := NewOpenAIAPI(testConfig(ts.URL))
	if err != nil {
		t.Fatalf("unexpected new error: %v", err)
	}

	if _, err := o.GenerateQuestions("some text"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestGenerateQuestions_NoChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(ChatCompletionResponse{ID: "chatcmpl-2"}); err != nil {
			panic(err)
		}
	}))
	defer ts.Close()

	o, err := NewOpenAIAPI(testConfig(ts.URL))
	if err != nil {
		t.Fatalf("unexpected new error: %v", err)
	}

	if _, err := o.GenerateQuestions("some text"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestGenerateQuestions_EmptyContent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(completionReply("   ")); err != nil {
			panic(err)
		}
	}))
	defer ts.Close()

	o, err := NewOpenAIAPI(testConfig(ts.URL))
	if err != nil {
		t.Fatalf("unexpected new error: %v", err)
	}

	if _, err := o.GenerateQuestions("some text"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestParseQuestions(t *testing.T) {
	t.Run("strips bullets and numbering", func(t *testing.T) {
		content := "- Why is the sky blue?\n* What causes rain?\n• How do clouds form?\n4. Where does wind come from?\n What about storms?"
		got := parseQuestions(content)
		want := []string{
			"Why is the sky blue?",
			"What causes rain?",
			"How do clouds form?",
			"Where does wind come from?",
			"What about storms?",
		}
		if len(got) != len(want) {
			t.Fatalf("expected %d questions, got %d: %v", len(want), len(got), got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("question %d: expected %q, got %q", i, want[i], got[i])
			}
		}
	})

	t.Run("drops short lines and caps at five", func(t *testing.T) {
		content := "ok\nFirst real question?\nSecond real question?\nThird real question?\nFourth real question?\nFifth real question?\nSixth real question?"
		got := parseQuestions(content)
		if len(got) != QuestionCount {
			t.Fatalf("expected %d questions, got %d: %v", QuestionCount, len(got), got)
		}
		if got[0] != "First real question?" || got[QuestionCount-1] != "Fifth real question?" {
			t.Fatalf("unexpected order: %v", got)
		}
	})

	t.Run("empty reply yields nothing", func(t *testing.T) {
		if got := parseQuestions("\n \n"); len(got) != 0 {
			t.Fatalf("expected no questions, got %v", got)
		}
	})
}
