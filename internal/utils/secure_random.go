package utils

import (
	"crypto/rand"
	"math/big"
)

const referralAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateReferralCode returns a short random code from an unambiguous
// alphabet (no 0/O, 1/I). Collisions are handled by the caller retrying.
func GenerateReferralCode(length int) (string, error) {
	code := make([]byte, length)
	max := big.NewInt(int64(len(referralAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = referralAlphabet[n.Int64()]
	}
	return string(code), nil
}
