package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clauseflow/clauseflow/internal/clauses"
	"github.com/clauseflow/clauseflow/internal/lineitems"
	"github.com/clauseflow/clauseflow/internal/sections"
	"github.com/clauseflow/clauseflow/pkg/handlers"
	"github.com/clauseflow/clauseflow/pkg/pagination"
	"github.com/clauseflow/clauseflow/pkg/routes"
)

// Fakes embed their System interface; only the methods a test path touches
// are implemented.

type fakeSystem struct {
	System
	doc *Document
}

func (f *fakeSystem) Find(_ context.Context, id uuid.UUID) (*Document, error) {
	if f.doc != nil && f.doc.ID == id {
		return f.doc, nil
	}
	return nil, ErrNotFound
}

func (f *fakeSystem) Create(_ context.Context, cmd CreateCommand) (*Document, error) {
	f.doc = &Document{
		ID:          uuid.New(),
		Filename:    cmd.Filename,
		ContentType: cmd.ContentType,
		RawText:     cmd.RawText,
		TotalLines:  cmd.TotalLines,
		Status:      StatusUploaded,
		UploadedAt:  time.Now().UTC(),
	}
	return f.doc, nil
}

type fakeClauses struct {
	clauses.System
	gate clauses.GateStatus
	list []clauses.Clause
}

func (f *fakeClauses) Gate(_ context.Context, _ uuid.UUID) (*clauses.GateStatus, error) {
	g := f.gate
	return &g, nil
}

func (f *fakeClauses) ListByDocument(_ context.Context, _ uuid.UUID, _ clauses.Filters) ([]clauses.Clause, error) {
	return f.list, nil
}

type fakeSections struct{ sections.System }

type fakeItems struct{ lineitems.System }

func (fakeItems) ListByDocument(_ context.Context, _ uuid.UUID) ([]lineitems.LineItem, error) {
	return nil, nil
}

type fakeProcessor struct{ err error }

func (p *fakeProcessor) Launch(_ context.Context, _ uuid.UUID) error {
	return p.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(sys *fakeSystem, cls *fakeClauses, proc Processor) *http.ServeMux {
	h := NewHandler(sys, fakeSections{}, fakeItems{}, cls, proc, testLogger(), pagination.Config{}, 1<<20)

	mux := http.NewServeMux()
	routes.Register(mux, h.Routes())
	return mux
}

func exportDoc() *Document {
	return &Document{
		ID:       uuid.New(),
		Filename: "po-4711.pdf",
		PONumber: "4711",
		Status:   StatusReady,
	}
}

func TestExportBlockedByGate(t *testing.T) {
	doc := exportDoc()
	cls := &fakeClauses{gate: clauses.GateStatus{Unaddressed: 2, Unreviewed: 1, Unscoped: 1}}
	mux := newTestServer(&fakeSystem{doc: doc}, cls, &fakeProcessor{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/documents/"+doc.ID.String()+"/export", nil))

	if rec.Code != http.StatusPreconditionFailed {
		t.Fatalf("status = %d, want 412", rec.Code)
	}

	var body handlers.PreconditionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !strings.Contains(body.Error, "2 clause(s) unaddressed") {
		t.Errorf("error = %q, want unaddressed count", body.Error)
	}

	want := map[string]float64{"unaddressed": 2, "unreviewed": 1, "unscoped": 1}
	for key, count := range want {
		got, ok := body.Detail[key].(float64)
		if !ok || got != count {
			t.Errorf("detail[%q] = %v, want %v", key, body.Detail[key], count)
		}
	}
}

func TestExportOverrideBypassesGate(t *testing.T) {
	doc := exportDoc()
	cls := &fakeClauses{gate: clauses.GateStatus{Unaddressed: 1, Unreviewed: 1}}
	mux := newTestServer(&fakeSystem{doc: doc}, cls, &fakeProcessor{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/documents/"+doc.ID.String()+"/export?override=true", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with override (body: %s)", rec.Code, rec.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["document_id"] != doc.ID.String() {
		t.Errorf("document_id = %v, want %s", body["document_id"], doc.ID)
	}
	for _, key := range []string{"po_wide", "line_specific", "summary"} {
		if _, ok := body[key]; !ok {
			t.Errorf("export body missing %q", key)
		}
	}
}

func TestExportOpenGate(t *testing.T) {
	doc := exportDoc()
	mux := newTestServer(&fakeSystem{doc: doc}, &fakeClauses{}, &fakeProcessor{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/documents/"+doc.ID.String()+"/export", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for open gate (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestExportCSVFormat(t *testing.T) {
	doc := exportDoc()
	mux := newTestServer(&fakeSystem{doc: doc}, &fakeClauses{}, &fakeProcessor{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/documents/"+doc.ID.String()+"/export?format=csv", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	doc := exportDoc()
	mux := newTestServer(&fakeSystem{doc: doc}, &fakeClauses{}, &fakeProcessor{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/documents/"+doc.ID.String()+"/export?format=xml", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for unknown format", rec.Code)
	}
}

func multipartUpload(t *testing.T, content string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "po.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestUploadLaunchesPipeline(t *testing.T) {
	sys := &fakeSystem{}
	mux := newTestServer(sys, &fakeClauses{}, &fakeProcessor{})

	body, contentType := multipartUpload(t, "PO-4711\nLine item 1\nTerms apply.")
	req := httptest.NewRequest("POST", "/documents", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202 (body: %s)", rec.Code, rec.Body.String())
	}
	if sys.doc == nil || sys.doc.TotalLines != 3 {
		t.Errorf("stored document = %+v, want 3 indexed lines", sys.doc)
	}
}

func TestUploadSurfacesLaunchFailure(t *testing.T) {
	sys := &fakeSystem{}
	mux := newTestServer(sys, &fakeClauses{}, &fakeProcessor{err: ErrProcessing})

	body, contentType := multipartUpload(t, "PO-4711\nLine item 1.")
	req := httptest.NewRequest("POST", "/documents", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409 when the pipeline launch fails", rec.Code)
	}

	var resp handlers.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !strings.Contains(resp.Error, "stored but pipeline launch failed") {
		t.Errorf("error = %q, want launch failure surfaced", resp.Error)
	}
}
