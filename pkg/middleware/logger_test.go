package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/clauseflow/clauseflow/pkg/middleware"
)

func TestLoggerRecordsStatus(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			"explicit status",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			"status=404",
		},
		{
			"implicit 200",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("ok"))
			},
			"status=200",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			h := middleware.Logger(logger)(tc.handler)
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/documents", nil))

			if !strings.Contains(buf.String(), tc.want) {
				t.Errorf("log output = %q, want %q", buf.String(), tc.want)
			}
		})
	}
}
