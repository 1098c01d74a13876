package extract

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeATS/internal/errcode"
)

const wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

func writeDOCX(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("[Content_Types].xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Types/>`))
	require.NoError(t, err)

	w, err = zw.Create(docxBodyPart)
	require.NoError(t, err)
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document ` + wordNS + `><w:body>` + body + `</w:body></w:document>`
	_, err = w.Write([]byte(doc))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return path
}

func para(text string) string {
	return `<w:p><w:r><w:t xml:space="preserve">` + text + `</w:t></w:r></w:p>`
}

func cell(text string) string {
	return `<w:tc><w:tcPr/>` + para(text) + `</w:tc>`
}

func TestExtractDOCXParagraphsThenTables(t *testing.T) {
	dir := t.TempDir()
	body := para("Jane Doe") +
		para("") +
		para("Senior   Go Engineer") +
		`<w:tbl><w:tr>` + cell("Skills") + cell("Go, Docker") + `</w:tr>` +
		`<w:tr>` + cell("Education") + cell("") + cell("BSc 2015") + `</w:tr></w:tbl>` +
		para("References on request")
	path := writeDOCX(t, dir, "cv.DOCX", body)

	got, err := New(nil).Extract(path)

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSenior Go Engineer\nReferences on request\nSkills Go, Docker\nEducation BSc 2015", got)
}

func TestExtractDOCXTabsAndBreaks(t *testing.T) {
	dir := t.TempDir()
	body := `<w:p><w:r><w:t>Go</w:t><w:tab/><w:t>Rust</w:t><w:br/><w:t>SQL</w:t></w:r></w:p>`
	path := writeDOCX(t, dir, "cv.docx", body)

	got, err := New(nil).Extract(path)

	require.NoError(t, err)
	assert.Equal(t, "Go Rust\nSQL", got)
}

func TestExtractDOCXWithoutTextIsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := writeDOCX(t, dir, "blank.docx", para("   ")+para(""))

	got, err := New(nil).Extract(path)

	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestExtractFailureKinds(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
		return p
	}

	tests := []struct {
		name string
		path string
		kind errcode.Kind
	}{
		{name: "missing file", path: filepath.Join(dir, "nope.pdf"), kind: errcode.FileNotFound},
		{name: "missing file with unknown extension", path: filepath.Join(dir, "nope.xyz"), kind: errcode.FileNotFound},
		{name: "directory", path: dir, kind: errcode.FileNotFound},
		{name: "legacy doc", path: write("cv.doc", "binary"), kind: errcode.UnsupportedFormat},
		{name: "unknown extension", path: write("cv.xyz", "text"), kind: errcode.InvalidFormat},
		{name: "no extension", path: write("cv", "text"), kind: errcode.InvalidFormat},
		{name: "corrupt docx", path: write("broken.docx", "not a zip"), kind: errcode.ExtractionError},
		{name: "corrupt pdf", path: write("broken.pdf", "not a pdf"), kind: errcode.ExtractionError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(nil).Extract(tt.path)
			require.Error(t, err)
			assert.Equal(t, tt.kind, errcode.KindOf(err))
		})
	}
}

func TestExtractDOCXMissingBodyPart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	_, err = zw.Create("docProps/app.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	_, err = New(nil).Extract(path)

	require.Error(t, err)
	assert.Equal(t, errcode.ExtractionError, errcode.KindOf(err))
	assert.True(t, strings.HasPrefix(errcode.MessageOf(err), "Failed to extract text from docx"))
}

func TestFormatOf(t *testing.T) {
	f, err := FormatOf("/uploads/CV.PDF")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	_, err = FormatOf("/uploads/cv.doc")
	assert.Equal(t, errcode.UnsupportedFormat, errcode.KindOf(err))

	_, err = FormatOf("/uploads/cv.odt")
	assert.Equal(t, errcode.InvalidFormat, errcode.KindOf(err))
}
