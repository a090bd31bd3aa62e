package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/colligo/internal/common"
	"github.com/ternarybob/colligo/internal/models"
)

func TestExportMarkdownWritesDocument(t *testing.T) {
	source := &models.Source{
		URL:         "https://example.com/about",
		Domain:      "example.com",
		Title:       "About Example",
		Authors:     []string{"Jane Doe"},
		PublishDate: "2024-03-01",
		ArticleHTML: "<h2>Our Story</h2><p>We build <strong>widgets</strong> for everyone.</p>",
	}

	dir := t.TempDir()
	service := NewService(common.GetLogger())
	path, err := service.ExportMarkdown(source, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "example.com.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.True(t, strings.HasPrefix(content, "# About Example\n"))
	assert.Contains(t, content, "- Source: https://example.com/about")
	assert.Contains(t, content, "- Authors: Jane Doe")
	assert.Contains(t, content, "## Our Story")
	assert.Contains(t, content, "**widgets**")
}

func TestExportMarkdownRequiresArticle(t *testing.T) {
	source := &models.Source{URL: "https://example.com/", Domain: "example.com"}
	service := NewService(common.GetLogger())
	_, err := service.ExportMarkdown(source, t.TempDir())
	assert.Error(t, err)
}

func TestStripHTMLTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"tags removed", "<p>Hello <b>world</b></p>", "Hello world"},
		{"entities decoded", "Tom &amp; Jerry &lt;3", "Tom & Jerry <3"},
		{"whitespace collapsed", "a\n\n  b\t c", "a b c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripHTMLTags(tt.input))
		})
	}
}
