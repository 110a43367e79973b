package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rkipkemboi/portfolio-assistant/internal/api"
	"github.com/rkipkemboi/portfolio-assistant/internal/model"
)

func TestChatRoundTrip(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req model.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Prompt != "hi" || req.System != "persona" {
			t.Errorf("unexpected request: %+v", req)
		}
		json.NewEncoder(w).Encode(model.MessageResponse{Message: "hello"})
	}))
	defer ts.Close()

	client := api.New(ts.URL, "")
	reply, err := client.Chat(context.Background(), "hi", "persona")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if reply != "hello" {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestSpeechRoundTrip(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req model.SpeechRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Text != "read me" || req.VoiceID != "v1" {
			t.Errorf("unexpected request: %+v", req)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("MP3"))
	}))
	defer ts.Close()

	client := api.New("", ts.URL)
	data, err := client.Speech(context.Background(), "read me", "v1")
	if err != nil {
		t.Fatalf("Speech failed: %v", err)
	}
	if string(data) != "MP3" {
		t.Fatalf("unexpected audio: %q", data)
	}
}

func TestNonOKBecomesStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	client := api.New(ts.URL, ts.URL)
	_, err := client.Chat(context.Background(), "hi", "")

	var statusErr *api.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status: %d", statusErr.StatusCode)
	}
}

func TestConfiguredEndpoints(t *testing.T) {
	client := api.New("http://chat", "")
	if !client.HasChat() || client.HasVoice() {
		t.Fatal("unexpected endpoint availability")
	}
}

func TestCancelledRequestReturnsContextError(t *testing.T) {
	gate := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-gate
	}))
	defer ts.Close()
	defer close(gate)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := api.New(ts.URL, "")
	if _, err := client.Chat(ctx, "hi", ""); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
