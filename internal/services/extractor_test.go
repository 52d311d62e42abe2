package services

import (
	"archive/zip"
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPDF writes a minimal PDF with one Helvetica text line per page. An
// empty string produces a page without text.
func buildPDF(t *testing.T, pages []string) []byte {
	t.Helper()

	var objects []string
	objects = append(objects, "<< /Type /Catalog /Pages 2 0 R >>")

	kids := ""
	for i := range pages {
		kids += fmt.Sprintf("%d 0 R ", 4+i*2)
	}
	objects = append(objects, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, len(pages)))
	objects = append(objects, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	for i, text := range pages {
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			5+i*2))
		stream := ""
		if text != "" {
			stream = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		}
		objects = append(objects, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	files := map[string]string{
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body +
			`</w:body></w:document>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func TestExtractText_EmptyInput(t *testing.T) {
	extractor := NewTextExtractor()

	assert.Equal(t, "", extractor.ExtractText(nil, StylePlain))
	assert.Equal(t, "", extractor.ExtractText([]byte{}, StyleMarkdown))

	content := extractor.ExtractTextWithMetaData(nil, StylePlain)
	assert.True(t, content.Degraded())
	assert.Equal(t, 0, content.PageCount)
}

func TestExtractText_UnreadableBytes(t *testing.T) {
	extractor := NewTextExtractor()

	content := extractor.ExtractTextWithMetaData([]byte("definitely not a pdf"), StylePlain)
	assert.True(t, content.Degraded())
	assert.Equal(t, "", content.Text)
}

func TestExtractText_MultiPagePDF(t *testing.T) {
	data := buildPDF(t, []string{"Jan Novak", "Java developer", "Spring and Kafka"})
	extractor := NewTextExtractor()

	content := extractor.ExtractTextWithMetaData(data, StylePlain)

	assert.Equal(t, 3, content.PageCount)
	assert.Equal(t, 0, content.EmptyPages)
	assert.False(t, content.Degraded())

	first := bytes.Index([]byte(content.Text), []byte("Jan Novak"))
	second := bytes.Index([]byte(content.Text), []byte("Java developer"))
	third := bytes.Index([]byte(content.Text), []byte("Spring and Kafka"))
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	require.NotEqual(t, -1, third)
	assert.Less(t, first, second)
	assert.Less(t, second, third)
}

func TestExtractText_PDFWithEmptyPage(t *testing.T) {
	data := buildPDF(t, []string{"Profile", ""})
	extractor := NewTextExtractor()

	content := extractor.ExtractTextWithMetaData(data, StylePlain)

	assert.Equal(t, 2, content.PageCount)
	assert.Equal(t, 1, content.EmptyPages)
	assert.Contains(t, content.Text, "Profile")
}

func TestExtractDocument_TypeDetection(t *testing.T) {
	extractor := NewTextExtractor()

	t.Run("text by extension", func(t *testing.T) {
		content, err := extractor.ExtractDocument([]byte("SKILLS\nGo"), "cv.txt", "", StylePlain)
		require.NoError(t, err)
		assert.Equal(t, MimeText, content.MimeType)
		assert.Equal(t, "SKILLS\nGo", content.Text)
	})

	t.Run("pdf by content type", func(t *testing.T) {
		content, err := extractor.ExtractDocument(buildPDF(t, []string{"Hello"}), "upload", "application/pdf", StylePlain)
		require.NoError(t, err)
		assert.Equal(t, MimePDF, content.MimeType)
		assert.Contains(t, content.Text, "Hello")
	})

	t.Run("docx", func(t *testing.T) {
		body := `<w:p><w:r><w:t>EXPERIENCE</w:t></w:r></w:p><w:p><w:r><w:t>Backend developer &amp; tester</w:t></w:r></w:p>`
		content, err := extractor.ExtractDocument(buildDocx(t, body), "cv.docx", "", StyleMarkdown)
		require.NoError(t, err)
		assert.Equal(t, MimeDOCX, content.MimeType)
		assert.Contains(t, content.Text, "## Experience")
		assert.Contains(t, content.Text, "Backend developer & tester")
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := extractor.ExtractDocument([]byte("data"), "cv.odt", "application/vnd.oasis.opendocument.text", StylePlain)
		require.Error(t, err)
		assert.Equal(t, CodeInvalidInput, ErrorCodeOf(err))
	})
}

func TestFormatPages(t *testing.T) {
	pages := []string{
		"  WORK EXPERIENCE \n\nSenior engineer at Acme\n- Go\n",
		"EDUCATION\nCTU Prague 2015",
	}

	t.Run("plain joins pages", func(t *testing.T) {
		got := formatPages([]string{"a\nb", "c"}, StylePlain)
		assert.Equal(t, "a\nb\nc", got)
	})

	t.Run("heading words follow unicode word breaks", func(t *testing.T) {
		got := formatPages([]string{"O'NEIL\nIT-SUPPORT\nVYHLÁŠKA_50"}, StyleMarkdown)
		assert.Equal(t, "## O'neil\n## It-Support\n## Vyhláška_50\n", got)
	})

	t.Run("markdown", func(t *testing.T) {
		got := formatPages(pages, StyleMarkdown)
		want := "## Work Experience\nSenior engineer at Acme\n- Go\n\n## Education\nCTU Prague 2015\n"
		assert.Equal(t, want, got)
	})
}

func TestIsUpperLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"SKILLS", true},
		{"PRACOVNÍ ZKUŠENOSTI", true},
		{"C++ / GO", true},
		{"2019 - 2023", false},
		{"Skills", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, isUpperLine(tt.line))
		})
	}
}
