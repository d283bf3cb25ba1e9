// Package daily implements the daily challenge: one root word per UTC day,
// shared by every player, and a best-score leaderboard per day.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"time"
)

// DateKey names the UTC calendar day containing t, e.g. "2026-10-18".
// It is both the daily game's Date and the leaderboard key.
func DateKey(t time.Time) string {
	y, m, d := t.UTC().Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
}

// WordIndex picks the position of date's root word in a list of n words.
// Everyone sharing salt gets the same index for the same UTC day, and the
// salt keeps the sequence from being predicted.
func WordIndex(date time.Time, salt string, n int) int {
	if n <= 1 {
		return 0
	}
	return int(keyedHash(salt, DateKey(date)) % uint64(n))
}

// keyedHash is the leading 64 bits, big-endian, of HMAC-SHA256(salt, key).
func keyedHash(salt, key string) uint64 {
	mac := hmac.New(sha256.New, []byte(salt))
	_, _ = io.WriteString(mac, key)
	return binary.BigEndian.Uint64(mac.Sum(nil))
}
