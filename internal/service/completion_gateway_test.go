package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"app/internal/config"
	"app/internal/model"
)

func gatewayConfig(baseURL string, timeoutSec int) *config.Config {
	return &config.Config{
		OpenAIAPIKey:          "test-key",
		OpenAIBaseURL:         baseURL,
		CompletionModel:       "gpt-4o",
		CompletionTemperature: 0.7,
		CompletionMaxTokens:   1000,
		CompletionTimeoutSec:  timeoutSec,
	}
}

func TestCompleteReturnsReply(t *testing.T) {
	var gotBody struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "stop making excuses"}, "finish_reason": "stop"}]
		}`))
	}))
	defer srv.Close()

	gw := NewCompletionGateway(gatewayConfig(srv.URL+"/v1", 5))
	reply, err := gw.Complete(context.Background(), "you are a coach", []model.ChatMessage{
		{Role: model.RoleUser, Content: "help me"},
	})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if reply != "stop making excuses" {
		t.Fatalf("unexpected reply: %q", reply)
	}

	if gotBody.Model != "gpt-4o" {
		t.Errorf("unexpected model: %q", gotBody.Model)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" || gotBody.Messages[0].Content != "you are a coach" {
		t.Errorf("system prompt should be the first message, got %+v", gotBody.Messages)
	}
}

func TestCompleteRejectedByProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "invalid api key", "type": "invalid_request_error"}}`))
	}))
	defer srv.Close()

	gw := NewCompletionGateway(gatewayConfig(srv.URL+"/v1", 5))
	_, err := gw.Complete(context.Background(), "prompt", []model.ChatMessage{{Role: model.RoleUser, Content: "hi"}})

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected *UpstreamError, got %v", err)
	}
	if upstream.StatusCode != http.StatusUnauthorized {
		t.Errorf("unexpected status code: %d", upstream.StatusCode)
	}
}

func TestCompleteTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	gw := NewCompletionGateway(gatewayConfig(srv.URL+"/v1", 1))
	_, err := gw.Complete(context.Background(), "prompt", []model.ChatMessage{{Role: model.RoleUser, Content: "hi"}})
	if !errors.Is(err, ErrUpstreamTimeout) {
		t.Fatalf("expected ErrUpstreamTimeout, got %v", err)
	}
}

func TestCompleteProviderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	gw := NewCompletionGateway(gatewayConfig(url+"/v1", 5))
	_, err := gw.Complete(context.Background(), "prompt", []model.ChatMessage{{Role: model.RoleUser, Content: "hi"}})
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "chatcmpl-1", "object": "chat.completion", "choices": []}`))
	}))
	defer srv.Close()

	gw := NewCompletionGateway(gatewayConfig(srv.URL+"/v1", 5))
	_, err := gw.Complete(context.Background(), "prompt", []model.ChatMessage{{Role: model.RoleUser, Content: "hi"}})
	if !errors.Is(err, ErrEmptyCompletion) {
		t.Fatalf("expected ErrEmptyCompletion, got %v", err)
	}
}
