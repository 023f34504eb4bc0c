package object

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadKey(t *testing.T) {
	key, err := UploadKey("guest:abc", "01HZX", "my/cv.pdf")
	require.NoError(t, err)

	parts := strings.Split(key, "/")
	require.Len(t, parts, 3)
	assert.Equal(t, "uploads", parts[0])
	assert.Len(t, parts[1], 32)
	assert.NotContains(t, parts[1], "guest")
	assert.Equal(t, "01HZX_my_cv.pdf", parts[2])

	again, err := UploadKey("guest:abc", "01HZX", "my/cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, key, again)
}

func TestUploadKeyRejectsUnsafeInput(t *testing.T) {
	for _, tc := range []struct{ resumeID, name string }{
		{"01HZX", "../secret"},
		{"01HZX", "  "},
		{"", "cv.pdf"},
		{"../x", "cv.pdf"},
	} {
		_, err := UploadKey("u", tc.resumeID, tc.name)
		assert.ErrorIs(t, err, ErrInvalidKey, "%q %q", tc.resumeID, tc.name)
	}
}

func TestSniffReplaysHead(t *testing.T) {
	mimeType, r, err := Sniff(strings.NewReader("%PDF-1.4 rest of file"))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", mimeType)

	buf := new(strings.Builder)
	_, err = io.Copy(buf, r)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 rest of file", buf.String())
}
