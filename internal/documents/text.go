package documents

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	ledongpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// ExtractText pulls plain text from an uploaded file. PDFs are read page by
// page; anything else is accepted only when it is valid UTF-8 text.
func ExtractText(data []byte, contentType string) (string, error) {
	switch {
	case contentType == "application/pdf":
		return extractPDFText(data)
	case strings.HasPrefix(contentType, "text/"):
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: text file is not valid UTF-8", ErrInvalidFile)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
}

func extractPDFText(data []byte) (string, error) {
	reader, err := ledongpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract pdf page %d: %w", i, err)
		}

		b.WriteString(text)
		if !strings.HasSuffix(text, "\n") {
			b.WriteByte('\n')
		}
	}

	out := strings.TrimRight(b.String(), "\n")
	if strings.TrimSpace(out) == "" {
		return "", ErrEmptyText
	}
	return out, nil
}

// DetectContentType prefers the client-declared type unless it is missing or
// the generic octet-stream fallback.
func DetectContentType(header string, data []byte) string {
	header = strings.TrimSpace(header)
	if header != "" && header != "application/octet-stream" {
		return header
	}
	return http.DetectContentType(data)
}

// PDFPageCount returns the page count for PDF uploads, nil otherwise.
func PDFPageCount(logger *slog.Logger, data []byte, contentType string) *int {
	if contentType != "application/pdf" {
		return nil
	}

	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		logger.Warn("failed to extract PDF page count", "error", err)
		return nil
	}

	return &count
}
