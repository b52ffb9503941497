package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DefaultReferenceLimit caps reference text so the prompt stays within the
// model's context window.
const DefaultReferenceLimit = 12000

// PDFService reads text out of user-supplied reference documents.
type PDFService struct{}

func NewPDFService() *PDFService {
	return &PDFService{}
}

// ExtractText returns up to limit bytes of plain text from the PDF at path,
// with runs of whitespace collapsed.
func (s *PDFService) ExtractText(path string, limit int) (string, error) {
	if limit <= 0 {
		limit = DefaultReferenceLimit
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	if r.NumPage() == 0 {
		return "", fmt.Errorf("pdf has no pages")
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	// Read a margin past the limit so collapsing whitespace does not cut short.
	raw, err := io.ReadAll(io.LimitReader(plain, int64(limit)*2))
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	text := strings.Join(strings.Fields(string(raw)), " ")
	if len(text) > limit {
		text = truncateUTF8(text, limit)
	}
	return text, nil
}

func truncateUTF8(s string, n int) string {
	for n > 0 && n < len(s) && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
