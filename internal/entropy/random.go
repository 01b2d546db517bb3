// Package entropy sources fresh seeds for runs that do not pin one.
// Falls back to the wall clock when the system source is unavailable.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// Seed returns a non-negative random seed from crypto/rand.
func Seed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return time.Now().UnixNano()
	}
	// Drop the sign bit so seeds read back cleanly from flags and files.
	return int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
}
