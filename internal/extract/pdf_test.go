package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeATS/internal/extract/extracttest"
)

func writePDF(t *testing.T, name string, pages ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, extracttest.PDF(pages...), 0o600))
	return path
}

func TestExtractPDFSkipsBlankPages(t *testing.T) {
	path := writePDF(t, "cv.pdf", "page one", "", "page three")

	got, err := New(nil).Extract(path)

	require.NoError(t, err)
	assert.Equal(t, "page one\npage three", got)
}

func TestExtractPDFCleansPageText(t *testing.T) {
	path := writePDF(t, "CV.PDF", "  Python   developer (Go) ", "Built REST APIs 2018")

	got, err := New(nil).Extract(path)

	require.NoError(t, err)
	assert.Equal(t, "Python developer (Go)\nBuilt REST APIs 2018", got)
}

func TestExtractPDFOnlyBlankPagesIsEmpty(t *testing.T) {
	path := writePDF(t, "blank.pdf", "", "")

	got, err := New(nil).Extract(path)

	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestExtractPDFMaxPages(t *testing.T) {
	path := writePDF(t, "long.pdf", "first", "second", "third")

	got, err := New(nil, WithMaxPages(2)).Extract(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond", got)

	got, err = New(nil, WithMaxPages(0)).Extract(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\nthird", got)
}
