package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPDF writes a minimal PDF with one Helvetica text line per page and a correct xref table.
func buildPDF(t *testing.T, pages ...string) []byte {
	t.Helper()
	n := len(pages)
	// objects: 1 catalog, 2 pages, 3 font, then page/content pairs
	objects := make([]string, 0, 3+2*n)
	kids := make([]string, n)
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)
	for i, text := range pages {
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func buildDOCX(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body strings.Builder
	for _, p := range paragraphs {
		fmt.Fprintf(&body, "<w:p><w:r><w:t>%s</w:t></w:r></w:p>", p)
	}
	doc := `<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body.String() + `</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/document.xml":   doc,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractTextPDFReadsEveryPage(t *testing.T) {
	data := buildPDF(t, "Jane Doe Software Engineer", "Experience at Acme")

	text, err := ExtractText(context.Background(), data, "resume.pdf")

	require.NoError(t, err)
	assert.Contains(t, text, "Jane Doe Software Engineer")
	assert.Contains(t, text, "Experience at Acme")
}

func TestExtractTextPDFSignatureBeatsExtension(t *testing.T) {
	data := buildPDF(t, "Sniffed content")

	assert.Equal(t, FormatPDF, DetectFormat(data, "upload.bin"))
	text, err := ExtractText(context.Background(), data, "upload.bin")
	require.NoError(t, err)
	assert.Contains(t, text, "Sniffed content")
}

func TestExtractTextDOCX(t *testing.T) {
	data := buildDOCX(t, "John Smith", "Product Manager")

	assert.Equal(t, FormatDOCX, DetectFormat(data, "cv.docx"))
	text, err := ExtractText(context.Background(), data, "cv.docx")
	require.NoError(t, err)
	assert.Equal(t, "John Smith\nProduct Manager", text)
}

func TestExtractTextPlain(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		file string
		want string
	}{
		{"txt", []byte("Jane\r\nEngineer\r\n"), "resume.txt", "Jane\nEngineer"},
		{"markdown", []byte("# Jane\n\n\n\n- Go"), "resume.md", "# Jane\n\n- Go"},
		{"bom", []byte("\xef\xbb\xbfHello"), "a.txt", "Hello"},
		{"invalid utf8", []byte("caf\xe9 owner"), "a.txt", "caf� owner"},
		{"controls", []byte("a\x00b\x07c\tend  \nnext"), "a.txt", "abc\tend\nnext"},
		{"sniffed without extension", []byte("plain resume text"), "resume", "plain resume text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := ExtractText(context.Background(), tt.data, tt.file)
			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestExtractTextUnsupported(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	tests := []struct {
		data []byte
		file string
	}{
		{png, "photo.png"},
		{png, "photo.txt.png"},
		{[]byte("not really a pdf"), "resume.pdf"},
		{[]byte("plain"), "resume.exe"},
	}
	for _, tt := range tests {
		_, err := ExtractText(context.Background(), tt.data, tt.file)
		assert.ErrorIs(t, err, ErrUnsupportedFormat, "file %s", tt.file)
	}
}

func TestExtractTextRealZipRejected(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = ExtractText(context.Background(), buf.Bytes(), "notes.zip")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtractTextEmpty(t *testing.T) {
	_, err := ExtractText(context.Background(), []byte(" \n\t\n "), "blank.txt")
	assert.ErrorIs(t, err, ErrNoText)
}

func TestExtractTextCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ExtractText(ctx, []byte("x"), "a.txt")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.pdf")
	require.NoError(t, os.WriteFile(path, buildPDF(t, "From disk"), 0o600))

	text, err := ExtractFile(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, text, "From disk")

	_, err = ExtractFile(context.Background(), filepath.Join(dir, "missing.pdf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
