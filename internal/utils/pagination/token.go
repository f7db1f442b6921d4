package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// DefaultLimit is used when a caller asks for a non-positive page size.
const DefaultLimit = 20

// MaxLimit caps the page size a caller can ask for.
const MaxLimit = 200

// Cursor points at the last ledger entry of a page. Entries are ordered by
// transaction date descending, ties broken by ID descending.
type Cursor struct {
	TransactionDate time.Time
	TransactionID   string
}

// After reports whether an entry with the given date and ID sorts after the cursor,
// i.e. belongs on a later page.
func (c Cursor) After(date time.Time, id string) bool {
	if date.Equal(c.TransactionDate) {
		return id < c.TransactionID
	}
	return date.Before(c.TransactionDate)
}

// NormalizeLimit clamps a requested page size.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// EncodeToken creates a base64 encoded token from a transaction date and ID.
func EncodeToken(transactionDate time.Time, transactionID string) string {
	tokenStr := fmt.Sprintf("%s|%s", transactionDate.UTC().Format(timeFormat), transactionID)
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses the base64 encoded token back into a cursor.
func DecodeToken(token string) (Cursor, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return Cursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	date, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (transaction date parse): %w", err)
	}

	return Cursor{TransactionDate: date, TransactionID: parts[1]}, nil
}
