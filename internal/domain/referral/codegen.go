package referral

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// codeAlphabet excludes 0/O and 1/I so codes survive being read over the
// phone or typed from a receipt.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeLength is the number of characters in a generated code string
const CodeLength = 6

// GenerateCodeString returns a random code string drawn from the unambiguous
// alphabet using crypto/rand. Uniqueness is enforced by the caller against
// the code repository.
func GenerateCodeString() (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	buf := make([]byte, CodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate code: %w", err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
