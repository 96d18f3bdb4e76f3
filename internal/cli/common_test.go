package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMessages(t *testing.T) {
	text.DisableColors()
	defer text.EnableColors()

	assert.Equal(t, "Error: boom", FormatError(errors.New("boom")))
	assert.Equal(t, "✓ done", FormatSuccess("done"))
	assert.Equal(t, "⚠ careful", FormatWarning("careful"))
}

func TestRenderQueryParams(t *testing.T) {
	text.DisableColors()
	defer text.EnableColors()

	var buf bytes.Buffer
	err := RenderQueryParams(&buf, "https://idp.example.com/authorize?scope=openid+profile&client_id=abc123&response_type=token")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "PARAMETER")
	assert.Contains(t, out, "openid profile")

	clientIdx := strings.Index(out, "client_id")
	responseIdx := strings.Index(out, "response_type")
	scopeIdx := strings.Index(out, "scope")
	assert.True(t, clientIdx < responseIdx && responseIdx < scopeIdx, "rows should be sorted by name")
}

func TestRenderQueryParams_InvalidURL(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, RenderQueryParams(&buf, "http://[::1"))
	assert.Empty(t, buf.String())
}

func TestProgress_Quiet(t *testing.T) {
	var buf bytes.Buffer
	p := StartProgress(&buf, "waiting", true)
	p.Stop()
	p.Stop()
	assert.Empty(t, buf.String())
}
