package attendance

import "crypto/rand"

// codeAlphabet is the character set attendance codes are drawn from.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeLength is the fixed length of an attendance code.
const CodeLength = 8

// NewCode returns a cryptographically random uppercase alphanumeric code.
// Rejection sampling keeps the distribution uniform over the alphabet.
func NewCode() (string, error) {
	// Largest multiple of len(codeAlphabet) that fits in a byte.
	const limit = byte(256 / len(codeAlphabet) * len(codeAlphabet))

	out := make([]byte, 0, CodeLength)
	buf := make([]byte, CodeLength)
	for len(out) < CodeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, codeAlphabet[int(b)%len(codeAlphabet)])
			if len(out) == CodeLength {
				break
			}
		}
	}
	return string(out), nil
}
