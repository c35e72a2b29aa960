// Package uniuri generates random API tokens from crypto/rand.
package uniuri

import (
	"crypto/rand"
	"errors"
	"fmt"
)

// TokenLen is the length of a generated API token, ~190 bits of entropy.
const TokenLen = 32

// TokenChars are the characters a token is drawn from.
var TokenChars = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789") //nolint:gochecknoglobals

// ErrCharset is returned for charsets shorter than 2 or longer than 256 characters.
var ErrCharset = errors.New("uniuri: charset must hold 2 to 256 characters")

const byteRange = 256

// Token returns a new TokenLen long token of TokenChars.
func Token() (string, error) {
	return NewLenChars(TokenLen, TokenChars)
}

// NewLenChars returns a random string of length drawn uniformly from chars.
// Random bytes at or above the largest multiple of len(chars) are rejected
// so every character is equally likely.
func NewLenChars(length int, chars []byte) (string, error) {
	clen := len(chars)
	if clen < 2 || clen > byteRange {
		return "", ErrCharset
	}

	limit := byteRange - byteRange%clen
	out := make([]byte, 0, length)
	buf := make([]byte, length+length/2+1)

	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("uniuri: read random bytes: %w", err)
		}

		for _, b := range buf {
			if int(b) >= limit {
				continue
			}

			out = append(out, chars[int(b)%clen])
			if len(out) == length {
				break
			}
		}
	}

	return string(out), nil
}
