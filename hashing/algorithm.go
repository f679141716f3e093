package hashing

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"hash"
	"unicode/utf8"
)

// Algorithm identifies the hash function used inside the HMAC.
// Using a named string type prevents accidental confusion with plain strings.
type Algorithm string

const (
	// AlgorithmSHA256 selects HMAC-SHA-256 (32-byte digest).
	AlgorithmSHA256 Algorithm = "sha256"
	// AlgorithmSHA512 selects HMAC-SHA-512 (64-byte digest).
	AlgorithmSHA512 Algorithm = "sha512"
)

// Encoding identifies the binary-to-text encoding applied to the digest.
type Encoding string

const (
	// EncodingBase64 is standard, padded base64 (RFC 4648 §4).
	EncodingBase64 Encoding = "base64"
	// EncodingBase64URL is URL-safe base64 without padding (RFC 4648 §5).
	EncodingBase64URL Encoding = "base64url"
	// EncodingHex is lowercase hexadecimal.
	EncodingHex Encoding = "hex"
	// EncodingBinary maps every byte to the code point of the same value
	// (latin1).  The resulting string is UTF-8 encoded like any Go string.
	EncodingBinary Encoding = "binary"
)

// Algorithms returns the supported algorithms in declaration order.
func Algorithms() []Algorithm {
	return []Algorithm{AlgorithmSHA256, AlgorithmSHA512}
}

// Encodings returns the supported digest encodings in declaration order.
func Encodings() []Encoding {
	return []Encoding{EncodingBase64, EncodingBase64URL, EncodingHex, EncodingBinary}
}

// ParseAlgorithm validates s against the supported algorithm set.
func ParseAlgorithm(s string) (Algorithm, error) {
	a := Algorithm(s)
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidAlgorithm, s)
	}
	return a, nil
}

// ParseEncoding validates s against the supported digest encodings.
func ParseEncoding(s string) (Encoding, error) {
	e := Encoding(s)
	if !e.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidEncoding, s)
	}
	return e, nil
}

// Valid reports whether a is one of the supported algorithms.
func (a Algorithm) Valid() bool {
	switch a {
	case AlgorithmSHA256, AlgorithmSHA512:
		return true
	default:
		return false
	}
}

// New returns the hash constructor for a, suitable for [hmac.New].
// It panics for an unsupported algorithm; resolved configurations never hold one.
func (a Algorithm) New() func() hash.Hash {
	switch a {
	case AlgorithmSHA256:
		return sha256.New
	case AlgorithmSHA512:
		return sha512.New
	default:
		panic(fmt.Sprintf("hashing: unresolved algorithm %q", string(a)))
	}
}

// Size returns the digest length of a in bytes, or 0 for an unsupported
// algorithm.
func (a Algorithm) Size() int {
	switch a {
	case AlgorithmSHA256:
		return sha256.Size
	case AlgorithmSHA512:
		return sha512.Size
	default:
		return 0
	}
}

// Valid reports whether e is one of the supported digest encodings.
func (e Encoding) Valid() bool {
	switch e {
	case EncodingBase64, EncodingBase64URL, EncodingHex, EncodingBinary:
		return true
	default:
		return false
	}
}

// EncodeToString renders b using e.
// It panics for an unsupported encoding; resolved configurations never hold one.
func (e Encoding) EncodeToString(b []byte) string {
	switch e {
	case EncodingBase64:
		return base64.StdEncoding.EncodeToString(b)
	case EncodingBase64URL:
		return base64.RawURLEncoding.EncodeToString(b)
	case EncodingHex:
		return hex.EncodeToString(b)
	case EncodingBinary:
		r := make([]rune, len(b))
		for i, c := range b {
			r[i] = rune(c)
		}
		return string(r)
	default:
		panic(fmt.Sprintf("hashing: unresolved encoding %q", string(e)))
	}
}

// DecodeString is the inverse of [Encoding.EncodeToString].
func (e Encoding) DecodeString(s string) ([]byte, error) {
	switch e {
	case EncodingBase64:
		return base64.StdEncoding.DecodeString(s)
	case EncodingBase64URL:
		return base64.RawURLEncoding.DecodeString(s)
	case EncodingHex:
		return hex.DecodeString(s)
	case EncodingBinary:
		out := make([]byte, 0, utf8.RuneCountInString(s))
		for i, r := range s {
			if r > 0xff {
				return nil, fmt.Errorf("code point %U at offset %d is outside latin1", r, i)
			}
			out = append(out, byte(r))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidEncoding, string(e))
	}
}
