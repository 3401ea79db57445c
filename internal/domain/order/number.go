package order

import (
	"crypto/rand"
	"strings"
	"time"
)

const numberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewNumber returns a human readable order number such as ORD-20240131-7KQ2ZD.
func NewNumber(now time.Time) string {
	buf := make([]byte, 6)
	_, _ = rand.Read(buf)

	var sb strings.Builder
	sb.WriteString("ORD-")
	sb.WriteString(now.UTC().Format("20060102"))
	sb.WriteByte('-')
	for _, b := range buf {
		sb.WriteByte(numberAlphabet[int(b)%len(numberAlphabet)])
	}
	return sb.String()
}
