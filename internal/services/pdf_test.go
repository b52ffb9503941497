package services

import (
	"path/filepath"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestPDF(t *testing.T, lines ...string) string {
	t.Helper()
	doc := fpdf.New("P", "pt", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)
	for _, line := range lines {
		doc.Cell(0, 16, line)
		doc.Ln(16)
	}
	path := filepath.Join(t.TempDir(), "ref.pdf")
	require.NoError(t, doc.OutputFileAndClose(path))
	return path
}

func TestExtractText(t *testing.T) {
	path := writeTestPDF(t, "Eulerian paths", "visit every edge once")

	text, err := NewPDFService().ExtractText(path, 0)
	require.NoError(t, err)
	assert.Contains(t, text, "Eulerian")
	assert.Contains(t, text, "edge")
}

func TestExtractTextLimit(t *testing.T) {
	path := writeTestPDF(t, "Eulerian paths visit every edge once")

	text, err := NewPDFService().ExtractText(path, 5)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(text), 5)
}

func TestExtractTextMissingFile(t *testing.T) {
	_, err := NewPDFService().ExtractText(filepath.Join(t.TempDir(), "nope.pdf"), 0)
	assert.Error(t, err)
}

func TestTruncateUTF8(t *testing.T) {
	assert.Equal(t, "K", truncateUTF8("Kö", 2))
	assert.Equal(t, "Kö", truncateUTF8("Köln", 3))
}
