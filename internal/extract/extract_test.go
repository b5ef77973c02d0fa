package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSupported(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"manual.pdf", true},
		{"MANUAL.PDF", true},
		{"readme.md", true},
		{"notes.txt", true},
		{"image.png", false},
		{"archive.zip", false},
		{"noext", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsSupported(tt.path), tt.path)
	}
}

func TestTextFromPlainFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guide.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain contents"), 0644))

	text, err := TextFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "plain contents", text)
}

func TestTextFromMarkdownFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guide.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title\n\nbody"), 0644))

	text, err := TextFromFile(path)
	require.NoError(t, err)
	assert.Contains(t, text, "# Title")
}

func TestTextFromUnsupportedFile(t *testing.T) {
	_, err := TextFromFile("diagram.svg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestTextFromMissingFile(t *testing.T) {
	_, err := TextFromFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestSetLicenseKeyEmpty(t *testing.T) {
	assert.Error(t, SetLicenseKey(""))
}
