package model

import "crypto/rand"

const codeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateCode builds a short human-readable identifier like "contract-x7k2m9qp".
// It is a display code, not the primary key.
func GenerateCode(prefix string) string {
	buf := make([]byte, 8)
	// rand.Read never fails on supported platforms
	_, _ = rand.Read(buf)
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return prefix + "-" + string(buf)
}
