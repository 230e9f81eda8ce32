package document

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTempFile(t *testing.T, content, ext string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docbot-test"+ext)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// buildPDF 使用gofpdf生成单页PDF
func buildPDF(t *testing.T, text string) []byte {
	t.Helper()
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "", 12)
	if text != "" {
		pdf.MultiCell(0, 10, text, "", "", false)
	}

	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

func createTempPDF(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docbot-test.pdf")
	require.NoError(t, os.WriteFile(path, buildPDF(t, text), 0644))
	return path
}

func TestPlainTextParser(t *testing.T) {
	content := "Hello, this is a plain text file.\nSecond line."
	file := createTempFile(t, content, ".txt")

	text, err := NewPlainTextParser().Parse(file)
	require.NoError(t, err)
	assert.Equal(t, content, text)
}

func TestPlainTextParser_Errors(t *testing.T) {
	parser := NewPlainTextParser()

	_, err := parser.ParseReader(strings.NewReader("  \n\t"), "blank.txt")
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = parser.ParseReader(bytes.NewReader([]byte{0xff, 0xfe, 0xfd}), "binary.txt")
	assert.Error(t, err)

	_, err = parser.Parse(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestMarkdownParser(t *testing.T) {
	content := "# Title\n\nThis is a **markdown** file.\n\n- Item 1\n- Item 2"
	file := createTempFile(t, content, ".md")

	text, err := NewMarkdownParser().Parse(file)
	require.NoError(t, err)
	assert.Equal(t, "Title. This is a markdown file. Item 1. Item 2.", text)
}

func TestMarkdownParser_Entities(t *testing.T) {
	text, err := NewMarkdownParser().ParseReader(strings.NewReader("Salt & pepper are *good*!"), "food.md")
	require.NoError(t, err)
	assert.Equal(t, "Salt & pepper are good!", text)
}

func TestMarkdownParser_Empty(t *testing.T) {
	_, err := NewMarkdownParser().ParseReader(strings.NewReader(""), "empty.md")
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestPDFParser(t *testing.T) {
	file := createTempPDF(t, "This is a PDF test.\nSecond line.")

	text, err := NewPDFParser().Parse(file)
	require.NoError(t, err)
	assert.Contains(t, text, "PDF test")
	assert.Equal(t, strings.TrimSpace(text), text)
}

func TestPDFParser_ParseReader(t *testing.T) {
	data := buildPDF(t, "Cloud computing enables remote access.")

	text, err := NewPDFParser().ParseReader(bytes.NewReader(data), "cloud.pdf")
	require.NoError(t, err)
	assert.Contains(t, text, "Cloud computing")
}

func TestPDFParser_InvalidInput(t *testing.T) {
	parser := NewPDFParser()

	_, err := parser.ParseReader(strings.NewReader("definitely not a pdf"), "fake.pdf")
	assert.ErrorIs(t, err, ErrInvalidPDF)

	_, err = parser.ParseReader(strings.NewReader(""), "empty.pdf")
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestPDFParser_NoText(t *testing.T) {
	data := buildPDF(t, "")

	_, err := NewPDFParser().ParseReader(bytes.NewReader(data), "blank.pdf")
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestValidatePDF(t *testing.T) {
	assert.NoError(t, ValidatePDF(bytes.NewReader(buildPDF(t, "valid"))))

	err := ValidatePDF(strings.NewReader("%PDF-1.4\ngarbage"))
	assert.ErrorIs(t, err, ErrInvalidPDF)
}

func TestParserFactory(t *testing.T) {
	tests := []struct {
		file     string
		expected string
	}{
		{createTempFile(t, "plain text", ".txt"), "plain text"},
		{createTempFile(t, "# Markdown", ".md"), "Markdown"},
		{createTempPDF(t, "PDF content"), "PDF content"},
	}

	for _, tt := range tests {
		parser, err := ParserFactory(tt.file)
		require.NoError(t, err, tt.file)

		text, err := parser.Parse(tt.file)
		require.NoError(t, err, tt.file)
		assert.Contains(t, text, tt.expected)
	}

	_, err := ParserFactory("report.docx")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, PDF, DetectContentType("a/b/Report.PDF"))
	assert.Equal(t, Markdown, DetectContentType("notes.markdown"))
	assert.Equal(t, Markdown, DetectContentType("notes.md"))
	assert.Equal(t, PlainText, DetectContentType("notes.txt"))
	assert.Equal(t, Unknown, DetectContentType("notes"))
	assert.Equal(t, Unknown, DetectContentType("image.png"))
}
