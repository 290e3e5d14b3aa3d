package storage

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogoKey(t *testing.T) {
	key, contentType, err := LogoKey(42, "Company Logo.PNG")
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	assert.Regexp(t, regexp.MustCompile(`^logos/42/[0-9a-f-]{36}\.png$`), key)

	other, _, err := LogoKey(42, "logo.png")
	require.NoError(t, err)
	assert.NotEqual(t, key, other)

	_, _, err = LogoKey(1, "malware.exe")
	require.ErrorIs(t, err, ErrUnsupportedType)
}
