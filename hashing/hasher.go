package hashing

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// HashInfo carries the parts of an encoded hash string.
type HashInfo struct {
	// Salt is the text before the first separator.  It was the HMAC key.
	Salt string

	// Digest is the encoded HMAC output that follows the separator.
	Digest string

	// Algorithm, Encoding and Separator describe the configuration the hash
	// was parsed under.
	Algorithm Algorithm
	Encoding  Encoding
	Separator string
}

// Hash computes the encoded hash "<salt><separator><digest>" for password.
//
// The digest is HMAC(key = salt, message = password) under the algorithm of
// the configuration resolved from raw by [Adapt], rendered with its digest
// encoding.  The result is deterministic: identical inputs always produce
// identical output.
//
// A fresh configuration is resolved per call, so concurrent calls with
// different configurations never observe each other.
func Hash(password, salt string, raw *RawConfig) string {
	return computeDigest(password, salt, Adapt(raw))
}

// Verify reports whether encoded was produced by [Hash] for password under
// the configuration resolved from raw.
//
// The salt is the text before the first separator in encoded.  A mismatched
// password, a hash produced under another configuration and a string that
// does not contain the separator all yield false; Verify never fails.  An
// empty password never verifies.
//
// Comparison is performed in constant time.
func Verify(password, encoded string, raw *RawConfig) bool {
	return verify(password, encoded, Adapt(raw))
}

// computeDigest returns salt + separator + encoded HMAC digest.
func computeDigest(password, salt string, cfg Config) string {
	mac := hmac.New(cfg.algorithm.New(), []byte(salt))
	mac.Write([]byte(password))
	return salt + cfg.separator + cfg.digest.EncodeToString(mac.Sum(nil))
}

func verify(password, encoded string, cfg Config) bool {
	salt, _, _ := strings.Cut(encoded, cfg.separator)
	computed := computeDigest(password, salt, cfg)
	if password == "" || computed == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(encoded)) == 1
}

func parseEncoded(encoded string, cfg Config) (HashInfo, error) {
	salt, digest, found := strings.Cut(encoded, cfg.separator)
	if !found {
		return HashInfo{}, fmt.Errorf("%w: separator %q not found", ErrInvalidHash, cfg.separator)
	}
	sum, err := cfg.digest.DecodeString(digest)
	if err != nil {
		return HashInfo{}, fmt.Errorf("%w: digest is not valid %s: %v", ErrInvalidHash, cfg.digest, err)
	}
	if len(sum) != cfg.algorithm.Size() {
		return HashInfo{}, fmt.Errorf("%w: digest is %d bytes, %s produces %d",
			ErrInvalidHash, len(sum), cfg.algorithm, cfg.algorithm.Size())
	}
	return HashInfo{
		Salt:      salt,
		Digest:    digest,
		Algorithm: cfg.algorithm,
		Encoding:  cfg.digest,
		Separator: cfg.separator,
	}, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Hasher
// ──────────────────────────────────────────────────────────────────────────────

// Option configures a [Hasher].
type Option func(*Hasher)

// WithLogger sets the logger that receives configuration and salt
// diagnostics.  The default is [slog.Default] at construction time.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Hasher) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithRandReader sets the random source used by [Hasher.GenerateSalt].
// The default is crypto/rand.Reader; replace it only in tests.
func WithRandReader(r io.Reader) Option {
	return func(h *Hasher) {
		if r != nil {
			h.rand = r
		}
	}
}

// Hasher binds a resolved [Config] so that many hashes can be produced and
// checked without re-resolving the configuration on every call.
//
// # Thread safety
//
// Hasher is immutable after construction and safe for concurrent use.
type Hasher struct {
	cfg    Config
	logger *slog.Logger
	rand   io.Reader
}

// NewHasher resolves raw with the same rules as [Adapt] and returns a Hasher
// bound to the result.  Diagnostics go to the logger given by [WithLogger].
func NewHasher(raw *RawConfig, opts ...Option) *Hasher {
	h := &Hasher{
		logger: slog.Default(),
		rand:   rand.Reader,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.cfg = adapt(raw, h.logger)
	return h
}

// Config returns the resolved configuration.
func (h *Hasher) Config() Config { return h.cfg }

// Make returns the encoded hash of password with the given salt.
func (h *Hasher) Make(password, salt string) string {
	return computeDigest(password, salt, h.cfg)
}

// MakeWithNewSalt generates a salt of rounds characters and returns the
// encoded hash of password with it.
func (h *Hasher) MakeWithNewSalt(password string, rounds int) (string, error) {
	salt, err := h.GenerateSalt(rounds)
	if err != nil {
		return "", err
	}
	return h.Make(password, salt), nil
}

// Check reports whether encoded matches password.  See [Verify].
func (h *Hasher) Check(password, encoded string) bool {
	return verify(password, encoded, h.cfg)
}

// GenerateSalt behaves like the package-level [GenerateSalt] but uses the
// Hasher's logger and random source.
func (h *Hasher) GenerateSalt(rounds int) (string, error) {
	return generateSalt(h.rand, rounds, h.logger)
}

// Info splits encoded into salt and digest without verifying it.
//
// It returns [ErrInvalidHash] when the separator is missing or the digest does
// not decode to a digest of the configured algorithm's size.
func (h *Hasher) Info(encoded string) (HashInfo, error) {
	return parseEncoded(encoded, h.cfg)
}

// NeedsRehash reports whether encoded does not have this Hasher's format,
// typically because it was produced under a different configuration.
// Callers should re-hash the password on the next successful login.
func (h *Hasher) NeedsRehash(encoded string) bool {
	_, err := parseEncoded(encoded, h.cfg)
	return err != nil
}
