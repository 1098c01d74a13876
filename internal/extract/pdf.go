package extract

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF 逐页抽取纯文本，没有文字的页直接跳过。
func (e *Extractor) extractPDF(path string) (text string, err error) {
	defer recoverParser(&err, "pdf")

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	total := r.NumPage()
	if e.maxPages > 0 && total > e.maxPages {
		e.logger.Warn("pdf page count exceeds limit, truncating",
			slog.Int("pages", total),
			slog.Int("max_pages", e.maxPages),
		)
		total = e.maxPages
	}

	pages := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		pageText, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("read page %d: %w", i, err)
		}
		if strings.TrimSpace(pageText) == "" {
			e.logger.Debug("pdf page has no text", slog.Int("page", i))
			continue
		}
		pages = append(pages, pageText)
	}

	return strings.Join(pages, "\n"), nil
}
