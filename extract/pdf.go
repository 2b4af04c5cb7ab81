package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrInvalidPDF indicates the buffer could not be parsed as a PDF.
var ErrInvalidPDF = errors.New("invalid PDF document")

// FromPDF parses a PDF byte buffer and returns its text, page by page in
// order. Pages whose extracted text is empty after trimming are skipped;
// the remaining pages are joined with a blank line.
func FromPDF(pdf []byte) (string, error) {
	pages, err := pdfPages(pdf)
	if err != nil {
		return "", err
	}
	return joinPages(pages), nil
}

// joinPages drops blank pages and joins the rest with a blank-line separator.
func joinPages(pages []string) string {
	parts := make([]string, 0, len(pages))
	for _, page := range pages {
		if trimmed := strings.TrimSpace(page); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, "\n\n")
}

// pdfPages extracts per-page content via pdfcpu. pdfcpu works on files, so
// the buffer is staged through a temp directory.
func pdfPages(pdf []byte) ([]string, error) {
	tempDir, err := os.MkdirTemp("", "docpilot-pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	tempFile := filepath.Join(tempDir, "source.pdf")
	if err := os.WriteFile(tempFile, pdf, 0644); err != nil {
		return nil, fmt.Errorf("failed to write temp PDF file: %w", err)
	}

	pdfCtx, err := api.ReadContextFile(tempFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPDF, err)
	}
	pageCount := pdfCtx.PageCount

	outDir := filepath.Join(tempDir, "pages")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, err
	}

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractContentFile(tempFile, outDir, nil, conf); err != nil {
		return nil, fmt.Errorf("failed to extract PDF content: %w", err)
	}

	pageTexts := make(map[int]string)
	files, _ := os.ReadDir(outDir)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(outDir, file.Name()))
		if err != nil {
			continue
		}
		var pageNum int
		if _, err := fmt.Sscanf(file.Name(), "Content_page_%d", &pageNum); err == nil {
			pageTexts[pageNum] = string(content)
		} else if _, err := fmt.Sscanf(file.Name(), "page_%d", &pageNum); err == nil {
			pageTexts[pageNum] = string(content)
		}
	}

	pages := make([]string, 0, pageCount)
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		pages = append(pages, pageTexts[pageNum])
	}
	return pages, nil
}
