package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	date := time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(date, "txn-42")
	assert.NotEmpty(t, token, "Token should not be empty")

	cursor, err := DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, date, cursor.TransactionDate)
	assert.Equal(t, "txn-42", cursor.TransactionID)

	// Non-UTC input is normalised
	loc := time.FixedZone("UTC+3", 3*60*60)
	cursor, err = DecodeToken(EncodeToken(date.In(loc), "txn-42"))
	require.NoError(t, err)
	assert.True(t, date.Equal(cursor.TransactionDate))
}

func TestDecodeTokenError(t *testing.T) {
	_, err := DecodeToken("this is not base64!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	invalidToken := "MjAyMy0wNS0xNVQwMDowMDowMFo=" // "2023-05-15T00:00:00Z", no separator
	_, err = DecodeToken(invalidToken)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	invalidDateToken := "bm90YWRhdGV8dHhuLTE=" // "notadate|txn-1"
	_, err = DecodeToken(invalidDateToken)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "transaction date parse")
}

func TestCursorAfter(t *testing.T) {
	base := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	cursor := Cursor{TransactionDate: base, TransactionID: "m"}

	assert.True(t, cursor.After(base.Add(-time.Second), "z"), "older entry belongs on the next page")
	assert.False(t, cursor.After(base.Add(time.Second), "a"), "newer entry was already returned")
	assert.True(t, cursor.After(base, "a"), "same date, lower id comes later")
	assert.False(t, cursor.After(base, "m"), "the cursor entry itself is excluded")
	assert.False(t, cursor.After(base, "z"))
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-5))
	assert.Equal(t, 7, NormalizeLimit(7))
	assert.Equal(t, MaxLimit, NormalizeLimit(MaxLimit+1))
}
