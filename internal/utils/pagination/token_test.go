package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken_RoundTrip(t *testing.T) {
	entryDate := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2026, 1, 15, 10, 30, 45, 123456789, time.UTC)

	token := EncodeToken(entryDate, createdAt)
	gotDate, gotCreated, err := DecodeToken(token)

	require.NoError(t, err)
	assert.True(t, entryDate.Equal(gotDate))
	assert.True(t, createdAt.Equal(gotCreated))
}

func TestDecodeToken_Invalid(t *testing.T) {
	_, _, err := DecodeToken("not-base64-!!!")
	assert.Error(t, err)

	_, _, err = DecodeToken("") // empty decodes to empty string, fails split
	assert.Error(t, err)
}
