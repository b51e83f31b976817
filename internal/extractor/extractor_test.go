package extractor_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clauseflow/clauseflow/internal/extractor"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newClient(t *testing.T, handler http.HandlerFunc) *extractor.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := extractor.Config{BaseURL: srv.URL, Model: "test-model", TimeoutSeconds: 5}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	return extractor.New(cfg, testLogger())
}

func chatReply(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()

	reply := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	if err := json.NewEncoder(w).Encode(reply); err != nil {
		t.Fatalf("encode reply: %v", err)
	}
}

func TestSegment(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q, want /chat/completions", r.URL.Path)
		}
		chatReply(t, w, `{"sections": [
			{"start_line": 1, "end_line": 40, "section_type": "header", "section_title": "Header"},
			{"start_line": 41, "end_line": 90, "section_type": "terms_and_conditions", "section_title": "Section 1"}
		]}`)
	})

	sections, err := client.Segment(context.Background(), "[001] text", 90)
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}

	if len(sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(sections))
	}
	if sections[1].SectionType != "terms_and_conditions" || sections[1].StartLine != 41 {
		t.Errorf("unexpected second section: %+v", sections[1])
	}
}

func TestExtractClausesStripsFences(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, "```json\n{\"clauses\": [{\"start_line\": 5, \"end_line\": 9, \"chunk_type\": \"clause\", \"clause_code\": \"1.1\"}]}\n```")
	})

	refs, err := client.ExtractClauses(context.Background(), "[005] clause text")
	if err != nil {
		t.Fatalf("ExtractClauses() error = %v", err)
	}

	if len(refs) != 1 || refs[0].ClauseCode != "1.1" {
		t.Errorf("unexpected references: %+v", refs)
	}
}

func TestMalformedResponse(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, "I could not produce JSON for this document.")
	})

	_, err := client.ExtractClauses(context.Background(), "[001] text")
	if !errors.Is(err, extractor.ErrMalformedResponse) {
		t.Errorf("error = %v, want ErrMalformedResponse", err)
	}
}

func TestUpstreamError(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	})

	if _, err := client.Segment(context.Background(), "[001] text", 1); err == nil {
		t.Error("expected error for non-200 upstream status")
	}
}
