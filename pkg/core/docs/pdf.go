package docs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// extractPDFText pulls plain text out of a PDF page by page using pdfcpu.
// A page whose extraction fails contributes an empty string; only a file
// that cannot be opened as a PDF at all is an error.
func extractPDFText(path string) (string, error) {
	pdfCtx, err := api.ReadContextFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF %s: %w", filepath.Base(path), err)
	}
	pageCount := pdfCtx.PageCount

	outDir, err := os.MkdirTemp("", "randomwalk-pdf-")
	if err != nil {
		return "", fmt.Errorf("failed to create PDF scratch dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractContentFile(path, outDir, nil, conf); err != nil {
		// Content extraction failed for the whole file; every page
		// contributes an empty string rather than aborting the document.
		fmt.Printf("[WARNING] PDF content extraction failed for %s: %v\n", filepath.Base(path), err)
		return strings.Repeat("\n", maxInt(pageCount-1, 0)), nil
	}

	// pdfcpu writes one content file per page; map them back by the page
	// number embedded in the filename.
	entries, err := os.ReadDir(outDir)
	if err != nil {
		return "", fmt.Errorf("failed to list extracted PDF pages: %w", err)
	}

	pageTexts := make(map[int]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		pageNum := pageNumberFromFilename(entry.Name())
		if pageNum == 0 {
			continue
		}
		raw, readErr := os.ReadFile(filepath.Join(outDir, entry.Name()))
		if readErr != nil {
			// Treat an unreadable page as empty, same as a failed extraction.
			pageTexts[pageNum] = ""
			continue
		}
		pageTexts[pageNum] = strings.ToValidUTF8(string(raw), "")
	}

	pages := make([]string, 0, pageCount)
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		pages = append(pages, pageTexts[pageNum])
	}
	return strings.Join(pages, "\n"), nil
}

// pageNumberFromFilename parses the trailing page index from pdfcpu output
// names such as "report_Content_page_3.txt". Returns 0 when no page number
// is present.
func pageNumberFromFilename(name string) int {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	idx := strings.LastIndex(base, "page_")
	if idx < 0 {
		return 0
	}
	var pageNum int
	if _, err := fmt.Sscanf(base[idx:], "page_%d", &pageNum); err != nil {
		return 0
	}
	return pageNum
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
