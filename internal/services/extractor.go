package services

import (
	"bytes"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"alfredoptarigan/hr-validator/internal/logger"
)

type TextStyle string

const (
	// StylePlain joins page texts with a single newline.
	StylePlain TextStyle = "plain"
	// StyleMarkdown keeps non-empty lines, turns ALL-CAPS lines into
	// headings and separates pages with a blank line.
	StyleMarkdown TextStyle = "markdown"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

type TextExtractor interface {
	ExtractText(data []byte, style TextStyle) string
	ExtractTextWithMetaData(data []byte, style TextStyle) *DocumentContent
	ExtractDocument(data []byte, filename, mimeType string, style TextStyle) (*DocumentContent, error)
}

type DocumentContent struct {
	Text       string
	PageCount  int
	EmptyPages int
	MimeType   string
}

// Degraded reports whether extraction produced no usable text.
func (d *DocumentContent) Degraded() bool {
	return strings.TrimSpace(d.Text) == ""
}

type textExtractor struct{}

func NewTextExtractor() TextExtractor {
	return &textExtractor{}
}

// ExtractText implements TextExtractor. Missing or unreadable documents
// yield an empty string.
func (t *textExtractor) ExtractText(data []byte, style TextStyle) string {
	return t.ExtractTextWithMetaData(data, style).Text
}

// ExtractTextWithMetaData implements TextExtractor.
func (t *textExtractor) ExtractTextWithMetaData(data []byte, style TextStyle) *DocumentContent {
	content := &DocumentContent{MimeType: MimePDF}
	if len(data) == 0 {
		return content
	}

	pages := readPDFPages(data)
	content.PageCount = len(pages)
	for _, page := range pages {
		if strings.TrimSpace(page) == "" {
			content.EmptyPages++
		}
	}
	content.Text = formatPages(pages, style)

	if content.Degraded() {
		logger.Get().Warn("No extractable text in PDF",
			zap.Int("pages", content.PageCount),
			zap.Int("bytes", len(data)))
	}

	return content
}

// ExtractDocument implements TextExtractor. Only an unsupported document
// type is an error; unreadable content degrades to empty text.
func (t *textExtractor) ExtractDocument(data []byte, filename, mimeType string, style TextStyle) (*DocumentContent, error) {
	switch detectMimeType(filename, mimeType) {
	case MimePDF:
		return t.ExtractTextWithMetaData(data, style), nil

	case MimeDOCX:
		content := &DocumentContent{MimeType: MimeDOCX}
		if len(data) == 0 {
			return content, nil
		}
		text := readDocxText(data)
		content.PageCount = 1
		content.Text = formatPages([]string{text}, style)
		if content.Degraded() {
			content.EmptyPages = 1
			logger.Get().Warn("No extractable text in DOCX", zap.String("filename", filename))
		}
		return content, nil

	case MimeText:
		return &DocumentContent{
			Text:      formatPages([]string{string(data)}, style),
			PageCount: 1,
			MimeType:  MimeText,
		}, nil

	default:
		return nil, NewInvalidInputError(fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)))
	}
}

func detectMimeType(filename, mimeType string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return MimePDF
	case ".docx":
		return MimeDOCX
	case ".txt", ".md":
		return MimeText
	}

	mimeType = strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0])
	switch mimeType {
	case MimePDF, MimeDOCX, MimeText:
		return mimeType
	}
	return ""
}

// readPDFPages returns one entry per page, empty for pages without text.
// The PDF library panics on some malformed inputs; those are treated like
// any other unreadable document.
func readPDFPages(data []byte) (pages []string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Get().Warn("PDF reader panicked, treating document as unreadable", zap.Any("panic", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		logger.Get().Warn("Failed to open PDF", zap.Error(err))
		return nil
	}

	total := reader.NumPage()
	for pageIndex := 1; pageIndex <= total; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Get().Debug("Failed to read PDF page", zap.Int("page", pageIndex), zap.Error(err))
			text = ""
		}
		pages = append(pages, text)
	}

	return pages
}

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>|<w:br/>|<w:br />`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
)

func readDocxText(data []byte) string {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		logger.Get().Warn("Failed to open DOCX", zap.Error(err))
		return ""
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = xmlTag.ReplaceAllString(content, "")
	return html.UnescapeString(content)
}

func formatPages(pages []string, style TextStyle) string {
	if style != StyleMarkdown {
		return strings.Join(pages, "\n")
	}

	// Word boundaries follow Unicode segmentation, so an apostrophe does not
	// start a new word: "O'NEIL" becomes "O'neil".
	caser := cases.Title(language.Und)
	var lines []string
	for _, page := range pages {
		for _, line := range strings.Split(page, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if isUpperLine(line) {
				lines = append(lines, "## "+caser.String(line))
				continue
			}
			// "- " and "* " items are already markdown list entries.
			lines = append(lines, line)
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// isUpperLine reports whether line has at least one letter and no lowercase
// letters.
func isUpperLine(line string) bool {
	hasCased := false
	for _, r := range line {
		switch {
		case unicode.IsLower(r), unicode.IsTitle(r):
			return false
		case unicode.IsUpper(r):
			hasCased = true
		}
	}
	return hasCased
}
