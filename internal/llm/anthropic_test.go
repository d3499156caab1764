package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ppiankov/capevent/internal/model"
)

func TestAnthropicClassifier_Classify_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			t.Errorf("Expected path /v1/messages, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Expected x-api-key header test-key, got %s", r.Header.Get("x-api-key"))
		}

		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["model"] != "claude-test" {
			t.Errorf("Expected model claude-test, got %v", body["model"])
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_123",
			"type": "message",
			"role": "assistant",
			"model": "claude-test",
			"content": [{"type": "text", "text": "Here you go:\n{\"event_type\": \"ACQUISITION\", \"confidence\": 0.81, \"subject\": \"Flipkart\", \"reasoning\": \"buys a rival\"}"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 50, "output_tokens": 20}
		}`))
	}))
	defer server.Close()

	classifier, err := NewAnthropicClassifier(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "claude-test",
		Timeout: 5,
	})
	if err != nil {
		t.Fatalf("Failed to create classifier: %v", err)
	}

	verdict, err := classifier.Classify(context.Background(), "Flipkart buys Cleartrip")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	if verdict.Type != model.EventAcquisition {
		t.Errorf("Expected ACQUISITION, got %s", verdict.Type)
	}
	if verdict.Name != "Flipkart" {
		t.Errorf("Expected subject Flipkart, got %q", verdict.Name)
	}
	if classifier.Name() != "anthropic" {
		t.Errorf("Expected name anthropic, got %s", classifier.Name())
	}
}

func TestAnthropicClassifier_Classify_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad request"}}`))
	}))
	defer server.Close()

	classifier, err := NewAnthropicClassifier(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create classifier: %v", err)
	}

	if _, err := classifier.Classify(context.Background(), "Flipkart buys Cleartrip"); err == nil {
		t.Error("Expected error for 400 response")
	}
}

func TestNewAnthropicClassifier_NoAPIKey(t *testing.T) {
	_, err := NewAnthropicClassifier(Config{})
	if !errors.Is(err, ErrAPIKeyRequired) {
		t.Errorf("Expected ErrAPIKeyRequired, got %v", err)
	}
}
