package hashing

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"math"
)

const (
	// DefaultSaltRounds is the salt length, in hex characters, used when the
	// caller does not choose one.
	DefaultSaltRounds = 11

	// RecommendedMaxSaltRounds is the largest rounds value that does not
	// trigger a performance advisory.  Larger values are still honoured.
	RecommendedMaxSaltRounds = 13

	// MaxSaltRounds is the largest rounds value GenerateSalt accepts.
	MaxSaltRounds = math.MaxInt32
)

// GenerateSalt returns a random lowercase hexadecimal string of exactly
// rounds characters, drawn from crypto/rand.
//
// rounds must be in [0, MaxSaltRounds], otherwise [ErrInvalidRoundsRange] is
// returned without allocating.  Zero
// yields the empty string.  Values above [RecommendedMaxSaltRounds] log a
// warning through [slog.Default] but still succeed.
//
// GenerateSalt is safe for concurrent use.
func GenerateSalt(rounds int) (string, error) {
	return generateSalt(rand.Reader, rounds, slog.Default())
}

// generateSalt draws ceil(rounds/2) bytes from r, hex-encodes them and
// truncates the result to rounds characters.
func generateSalt(r io.Reader, rounds int, logger *slog.Logger) (string, error) {
	if rounds < 0 || rounds > MaxSaltRounds {
		return "", fmt.Errorf("%w: got %d", ErrInvalidRoundsRange, rounds)
	}
	if rounds > RecommendedMaxSaltRounds {
		logger.Warn("salt rounds above the recommended maximum may cause high CPU usage in production",
			slog.Int("rounds", rounds),
			slog.Int("recommended_max", RecommendedMaxSaltRounds),
		)
	}

	b := make([]byte, rounds/2+rounds%2)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", fmt.Errorf("hashing: failed to generate salt: %w", err)
	}
	return hex.EncodeToString(b)[:rounds], nil
}
