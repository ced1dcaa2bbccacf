package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodePostingCursor(t *testing.T) {
	cursor := domain.PostingCursor{Date: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), ID: 4711}

	token := EncodePostingCursor(cursor)
	assert.NotEmpty(t, token, "Token should not be empty")

	decoded, err := DecodePostingCursor(token)
	require.NoError(t, err)
	assert.Equal(t, cursor, decoded)
}

func TestDecodePostingCursorError(t *testing.T) {
	_, err := DecodePostingCursor("this is not base64!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	_, err = DecodePostingCursor(base64.URLEncoding.EncodeToString([]byte("2025-01-15")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	_, err = DecodePostingCursor(base64.URLEncoding.EncodeToString([]byte("15.01.2025|3")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "date parse")

	_, err = DecodePostingCursor(base64.URLEncoding.EncodeToString([]byte("2025-01-15|abc")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "id parse")
}

func TestNextPostingToken(t *testing.T) {
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	page := []domain.Posting{{ID: 9, Date: day}, {ID: 7, Date: day}}

	assert.Nil(t, NextPostingToken(page, 3), "short page has no successor")

	token := NextPostingToken(page, 2)
	require.NotNil(t, token)
	cursor, err := DecodePostingCursor(*token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cursor.ID)
	assert.True(t, day.Equal(cursor.Date))
}
