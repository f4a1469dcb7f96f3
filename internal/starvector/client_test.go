package starvector

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestNewClientValidation(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{}, zaptest.NewLogger(t))
	if err == nil {
		t.Fatalf("expected validation error, got nil")
	}
}

func TestGenerateSuccess(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotReq inferenceRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if err := json.Unmarshal(body, &gotReq); err != nil {
			t.Fatalf("unmarshal request: %v", err)
		}

		// Model replies wrap the svg in extra text.
		io.WriteString(w, `Here is your drawing: <svg width="100" height="100"><rect/></svg> enjoy`)
	}))
	defer srv.Close()

	client, err := NewClient(Config{
		BaseURL:  srv.URL,
		APIToken: "test-token",
	}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	svg, err := client.Generate(context.Background(), "an SVG illustration of resistor")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if gotAuth != "Bearer test-token" {
		t.Fatalf("unexpected Authorization header: %s", gotAuth)
	}
	if gotReq.Inputs != "an SVG illustration of resistor" {
		t.Fatalf("unexpected prompt: %q", gotReq.Inputs)
	}
	if gotReq.Parameters.MaxNewTokens != maxNewTokens {
		t.Fatalf("unexpected max_new_tokens: %d", gotReq.Parameters.MaxNewTokens)
	}
	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("svg block not extracted: %q", svg)
	}
}

func TestGenerateRetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		io.WriteString(w, `<svg><rect/></svg>`)
	}))
	defer srv.Close()

	client, err := NewClient(Config{
		BaseURL:     srv.URL,
		APIToken:    "token",
		MaxRetries:  2,
		BaseBackoff: time.Millisecond,
	}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	svg, err := client.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate after retries: %v", err)
	}
	if svg == "" {
		t.Fatalf("expected svg content")
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestGenerateExhaustsRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewClient(Config{
		BaseURL:     srv.URL,
		APIToken:    "token",
		MaxRetries:  2,
		BaseBackoff: time.Millisecond,
	}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 attempts (initial + 2 retries), got %d", got)
	}
}

func TestGenerateNoRetryOnClientError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, err := NewClient(Config{
		BaseURL:     srv.URL,
		APIToken:    "bad-token",
		MaxRetries:  2,
		BaseBackoff: time.Millisecond,
	}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatalf("expected error for 401")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("client errors must not be retried, got %d attempts", got)
	}
}

func TestGenerateNoSVGInResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"generated_text": "sorry, no picture"}`)
	}))
	defer srv.Close()

	client, err := NewClient(Config{
		BaseURL:  srv.URL,
		APIToken: "token",
	}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.Generate(context.Background(), "prompt")
	if err == nil || !strings.Contains(err.Error(), "no svg block") {
		t.Fatalf("expected no-svg error, got %v", err)
	}
}
