package html_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/unifiedui/docchat-service/internal/domain/errors"
	"github.com/unifiedui/docchat-service/internal/infrastructure/convert/html"
)

const page = `<html>
<head><title>Ignored</title><style>p { color: red; }</style></head>
<body>
<h1>Title</h1>
<p>Hello <a href="https://example.com">world</a>.</p>
<ul><li>One</li><li>Two</li></ul>
<script>alert(1)</script>
<pre>code  line</pre>
<table><tr><th>A</th><th>B</th></tr><tr><td>1</td><td>2</td></tr></table>
</body>
</html>`

func TestRender_Markdown(t *testing.T) {
	markdown, err := html.Render([]byte(page))
	require.NoError(t, err)

	expected := "# Title\n\n" +
		"Hello [world](https://example.com).\n\n" +
		"- One\n- Two\n\n" +
		"```\ncode  line\n```\n\n" +
		"| A | B |\n| --- | --- |\n| 1 | 2 |"
	assert.Equal(t, expected, markdown)
}

func TestRender_InlineFormatting(t *testing.T) {
	markdown, err := html.Render([]byte(`<p><strong>Bold</strong> and <em>soft</em> with <code>x := 1</code></p><ol><li>first</li><li>second</li></ol>`))
	require.NoError(t, err)

	assert.Equal(t, "**Bold** and *soft* with `x := 1`\n\n1. first\n2. second", markdown)
}

func TestRender_Empty(t *testing.T) {
	markdown, err := html.Render([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, markdown)
}

func TestConverter_Convert(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(page), 0o600))

	markdown, err := html.NewConverter().Convert(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, markdown, "# Title")
	assert.NotContains(t, markdown, "alert")
	assert.NotContains(t, markdown, "Ignored")
}

func TestConverter_MissingFile(t *testing.T) {
	_, err := html.NewConverter().Convert(context.Background(), filepath.Join(t.TempDir(), "missing.html"))
	require.Error(t, err)
	assert.True(t, domainerrors.IsConversionError(err))
}
