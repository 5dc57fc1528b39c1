// Package codes generates the opaque capability tokens the service
// hands out: management codes, private access codes and attendance
// codes. Possession of a code is the only credential there is, so the
// tokens come from crypto/rand rather than a seeded PRNG.
package codes

import (
	"crypto/rand"
	"fmt"
)

const charset = "abcdefghijklmnopqrstuvwxyz0123456789"

const (
	ManagementLength = 12
	PrivateLength    = 8
	AttendanceLength = 8
)

func NewManagementCode() (string, error) {
	return New(ManagementLength)
}

func NewPrivateCode() (string, error) {
	return New(PrivateLength)
}

func NewAttendanceCode() (string, error) {
	return New(AttendanceLength)
}

// New returns a random alphanumeric token of the given length.
func New(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("code length must be positive, got %d", length)
	}

	// Rejection sampling above maxByte keeps the charset distribution
	// uniform (256 is not a multiple of 36).
	maxByte := byte(256 - 256%len(charset))

	out := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= maxByte {
				continue
			}
			out = append(out, charset[int(b)%len(charset)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}
