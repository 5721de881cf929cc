package utils

import (
	"crypto/rand"
	"math/big"
)

const tempPasswordAlphabet = "abcdefghjkmnpqrstuvwxyzABCDEFGHJKMNPQRSTUVWXYZ23456789"

// TempPassword generates a random password for worker invites. The suffix
// guarantees the result passes StrongPassword regardless of the random part.
func TempPassword(n int) string {
	if n < 6 {
		n = 6
	}
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(tempPasswordAlphabet))))
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken
			b[i] = tempPasswordAlphabet[i%len(tempPasswordAlphabet)]
			continue
		}
		b[i] = tempPasswordAlphabet[idx.Int64()]
	}
	return string(b) + "aA1"
}
