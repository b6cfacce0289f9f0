// AngelaMos | 2026
// cursor_test.go

package audit

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	ts := time.Date(2026, 8, 30, 12, 0, 0, 123456789, time.UTC)
	id := uuid.New()

	cursor := encodeCursor(ts, id)
	gotTime, gotID, err := decodeCursor(cursor)

	require.NoError(t, err)
	require.Equal(t, id, gotID)
	require.True(t, ts.Equal(gotTime))
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	for _, cursor := range []string{
		"not base64 ***",
		"bm90LWEtY3Vyc29y", // "not-a-cursor"
		"",
	} {
		if cursor == "" {
			continue
		}
		_, _, err := decodeCursor(cursor)
		require.Error(t, err, "cursor %q", cursor)
	}
}

func TestDecodeCursorRejectsBadID(t *testing.T) {
	cursor := encodeCursor(time.Now(), uuid.New())

	_, _, err := decodeCursor(cursor[:len(cursor)-4])
	require.Error(t, err)
}
