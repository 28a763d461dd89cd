// Package sections loads a travel expense report PDF and splits its text into
// the header, invoices, and summary sections the extraction stages consume.
package sections

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/mwhitfield/bursar/internal/expense"
	"github.com/mwhitfield/bursar/pkg/formatting"
)

// System extracts the section texts of a report PDF.
type System interface {
	// Extract reads the PDF at path and returns its split section texts.
	// Returns ErrNotFound, ErrTooLarge, or ErrInvalidPDF for unusable files.
	Extract(ctx context.Context, path string) (*expense.Sections, error)
}

type system struct {
	maxBytes int64
	logger   *slog.Logger
}

// New creates a section extraction system. maxBytes caps the accepted file
// size; zero disables the cap.
func New(maxBytes int64, logger *slog.Logger) System {
	return &system{
		maxBytes: maxBytes,
		logger:   logger.With("system", "sections"),
	}
}

func (s *system) Extract(ctx context.Context, path string) (*expense.Sections, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat report: %w", err)
	}
	if s.maxBytes > 0 && info.Size() > s.maxBytes {
		return nil, fmt.Errorf("%w: %s is %s, limit %s",
			ErrTooLarge, path,
			formatting.FormatBytes(info.Size(), 1),
			formatting.FormatBytes(s.maxBytes, 0))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}

	pages, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPDF, path, err)
	}

	text, err := s.plainText(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPDF, path, err)
	}

	result := SplitText(text)
	s.logger.Info("report sections extracted",
		"path", path,
		"pages", pages,
		"size", formatting.FormatBytes(info.Size(), 1),
		"fallback", result.Invoices == "" && result.Summary == "")

	return &result, nil
}

// plainText joins the plain text of every page with newlines. Pages that fail
// text extraction contribute an empty string.
func (s *system) plainText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			s.logger.Debug("page text extraction failed", "page", i, "error", err)
			text = ""
		}
		pages = append(pages, text)
	}

	return strings.Join(pages, "\n"), nil
}
