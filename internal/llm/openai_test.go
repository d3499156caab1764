package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/capevent/internal/model"
)

func TestOpenAIClassifier_Classify_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header Bearer test-key, got %s", r.Header.Get("Authorization"))
		}

		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if req.ResponseFormat == nil || req.ResponseFormat.Type != openai.ChatCompletionResponseFormatTypeJSONObject {
			t.Error("Expected JSON object response format")
		}
		if req.Model != "gpt-4o-mini" {
			t.Errorf("Expected model gpt-4o-mini, got %s", req.Model)
		}

		resp := openai.ChatCompletionResponse{
			ID:    "chatcmpl-123",
			Model: "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{
				{
					Message: openai.ChatCompletionMessage{
						Role:    "assistant",
						Content: `{"event_type":"funding","confidence":0.92,"subject":"Zepto","reasoning":"raises a round"}`,
					},
					FinishReason: "stop",
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	classifier, err := NewOpenAIClassifier(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 5,
	})
	if err != nil {
		t.Fatalf("Failed to create classifier: %v", err)
	}

	verdict, err := classifier.Classify(context.Background(), "Zepto raises $350M")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	if verdict.Type != model.EventFunding {
		t.Errorf("Expected FUNDING, got %s", verdict.Type)
	}
	if verdict.Confidence != 0.92 {
		t.Errorf("Expected confidence 0.92, got %v", verdict.Confidence)
	}
	if verdict.Name != "Zepto" {
		t.Errorf("Expected subject Zepto, got %q", verdict.Name)
	}
}

func TestOpenAIClassifier_Classify_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid API key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	classifier, err := NewOpenAIClassifier(Config{APIKey: "bad-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create classifier: %v", err)
	}

	if _, err := classifier.Classify(context.Background(), "Zepto raises $350M"); err == nil {
		t.Error("Expected error for 401 response")
	}
}

func TestOpenAIClassifier_Classify_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{ID: "chatcmpl-empty"})
	}))
	defer server.Close()

	classifier, _ := NewOpenAIClassifier(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if _, err := classifier.Classify(context.Background(), "Zepto raises $350M"); err == nil {
		t.Error("Expected error for empty choices")
	}
}

func TestNewOpenAIClassifier_NoAPIKey(t *testing.T) {
	_, err := NewOpenAIClassifier(Config{})
	if !errors.Is(err, ErrAPIKeyRequired) {
		t.Errorf("Expected ErrAPIKeyRequired, got %v", err)
	}
}
