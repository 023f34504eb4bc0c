package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

var (
	// ErrUnsupportedFormat is returned for files that are not PDF, DOCX or plain text.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrNoText is returned when a supported file yields no readable text.
	ErrNoText = errors.New("no text could be extracted")
)

// Format is a supported resume file type.
type Format string

const (
	FormatUnknown Format = ""
	FormatPDF     Format = "pdf"
	FormatDOCX    Format = "docx"
	FormatText    Format = "text"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeText = "text/plain"
)

var textExtensions = map[string]bool{
	".txt":  true,
	".text": true,
	".md":   true,
}

// ExtractFile reads path from disk and extracts its text.
func ExtractFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", filepath.Base(path), err)
	}
	return ExtractText(ctx, data, filepath.Base(path))
}

// ExtractText detects the format of data and returns its sanitized text.
// Libraries used: github.com/gabriel-vasile/mimetype (sniffing) and github.com/ledongthuc/pdf (PDF).
func ExtractText(ctx context.Context, data []byte, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		text string
		err  error
	)
	switch format := DetectFormat(data, fileName); format {
	case FormatPDF:
		text, err = extractPDF(data)
	case FormatDOCX:
		text, err = extractDOCX(data)
	case FormatText:
		text = decodeText(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, describe(data, fileName))
	}
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", fileName, err)
	}

	text = Sanitize(text)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// DetectFormat picks a format from the content signature, then the file extension.
func DetectFormat(data []byte, fileName string) Format {
	mt := mimetype.Detect(data)
	switch {
	case mt.Is(mimePDF):
		return FormatPDF
	case mt.Is(mimeDOCX):
		return FormatDOCX
	case mt.Is("application/zip") && isDOCXArchive(data):
		return FormatDOCX
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if textExtensions[ext] {
		return FormatText
	}
	if ext == "" && isText(mt) {
		return FormatText
	}
	return FormatUnknown
}

func isText(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is(mimeText) {
			return true
		}
	}
	return false
}

func describe(data []byte, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		ext = "no extension"
	}
	return fmt.Sprintf("%s (%s)", mimetype.Detect(data).String(), ext)
}

// extractPDF concatenates the plain text of every readable page.
func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(pageText)
		b.WriteString("\n\n")
	}
	return b.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("docx: %w", err)
	}
	doc := findZipEntry(zr, "word/document.xml")
	if doc == nil {
		return "", errors.New("docx: document.xml not found")
	}
	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("docx: %w", err)
	}
	defer rc.Close()

	return docxText(rc), nil
}

func isDOCXArchive(data []byte) bool {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	return findZipEntry(zr, "word/document.xml") != nil
}

func findZipEntry(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == name {
			return f
		}
	}
	return nil
}

// docxText keeps character data and turns paragraph and break ends into newlines.
func docxText(r io.Reader) string {
	decoder := xml.NewDecoder(r)
	var b strings.Builder
	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				b.WriteByte('\n')
			}
		case xml.StartElement:
			if t.Name.Local == "tab" {
				b.WriteByte('\t')
			}
		}
	}
	return b.String()
}

func decodeText(data []byte) string {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "�")
}

var (
	trailingSpaceRe = regexp.MustCompile(`[ \t]+\n`)
	blankRunRe      = regexp.MustCompile(`\n{3,}`)
)

// Sanitize drops control characters except newlines and tabs, and collapses blank-line runs.
func Sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\t' || (r >= 32 && r != 127) {
			b.WriteRune(r)
		}
	}
	out := trailingSpaceRe.ReplaceAllString(b.String(), "\n")
	out = blankRunRe.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
