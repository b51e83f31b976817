package documents

import (
	"errors"
	"strings"
	"testing"
)

func TestExtractTextPlain(t *testing.T) {
	text, err := ExtractText([]byte("PO-12345\nLine 1\nLine 2"), "text/plain")
	if err != nil {
		t.Fatalf("ExtractText() error: %v", err)
	}
	if !strings.Contains(text, "Line 2") {
		t.Errorf("ExtractText() = %q, missing content", text)
	}
}

func TestExtractTextInvalidUTF8(t *testing.T) {
	_, err := ExtractText([]byte{0xff, 0xfe, 0xfd}, "text/plain")
	if !errors.Is(err, ErrInvalidFile) {
		t.Errorf("ExtractText() error = %v, want ErrInvalidFile", err)
	}
}

func TestExtractTextUnsupportedType(t *testing.T) {
	_, err := ExtractText([]byte("binary"), "application/zip")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("ExtractText() error = %v, want ErrUnsupportedType", err)
	}
}

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		name   string
		header string
		data   []byte
		want   string
	}{
		{"declared type wins", "application/pdf", []byte("plain"), "application/pdf"},
		{"octet-stream sniffs", "application/octet-stream", []byte("%PDF-1.7 content"), "application/pdf"},
		{"empty header sniffs", "", []byte("plain text here"), "text/plain; charset=utf-8"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectContentType(tc.header, tc.data); got != tc.want {
				t.Errorf("DetectContentType(%q) = %q, want %q", tc.header, got, tc.want)
			}
		})
	}
}
