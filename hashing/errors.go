package hashing

import "errors"

// Sentinel errors returned by hashing operations.
//
// Use [errors.Is] for comparisons:
//
//	_, err := hashing.HashValue(password, salt, cfg)
//	if errors.Is(err, hashing.ErrMissingArgument) {
//	    // password or salt was not supplied
//	}
//
// Only structural problems are reported as errors.  Invalid enumeration values
// inside an otherwise well-shaped configuration are replaced by defaults and
// logged, and a password that does not match is a plain false result.
var (
	// ErrMissingArgument is returned when a required argument (password, salt
	// or encoded hash) is absent.
	ErrMissingArgument = errors.New("hashing: required argument is missing")

	// ErrArgumentType is returned when an argument is present but is not a
	// string.
	ErrArgumentType = errors.New("hashing: argument must be a string")

	// ErrConfigurationType is returned when a configuration value is neither
	// absent nor a keyed record (for example a JSON array or a number).
	ErrConfigurationType = errors.New("hashing: configuration must be a valid object or undefined")

	// ErrConfigurationFieldType is returned when hashAlgorithm or hashDigest is
	// present in a configuration record but is not a string.
	ErrConfigurationFieldType = errors.New("hashing: hashAlgorithm and hashDigest must be strings")

	// ErrInvalidRoundsType is returned when the salt rounds argument is not an
	// integer.
	ErrInvalidRoundsType = errors.New("hashing: rounds must be an integer")

	// ErrInvalidRoundsRange is returned when the salt rounds argument is
	// negative or above [MaxSaltRounds].
	ErrInvalidRoundsRange = errors.New("hashing: rounds must be between 0 and 2147483647")

	// ErrInvalidAlgorithm is returned by [ParseAlgorithm] and [NewConfig] for
	// an identifier outside the supported algorithm set.
	ErrInvalidAlgorithm = errors.New("hashing: unsupported hash algorithm")

	// ErrInvalidEncoding is returned by [ParseEncoding] and [NewConfig] for an
	// identifier outside the supported digest encodings.
	ErrInvalidEncoding = errors.New("hashing: unsupported digest encoding")

	// ErrInvalidHash is returned when an encoded hash string cannot be split
	// into salt and digest, or the digest does not decode to the expected size.
	ErrInvalidHash = errors.New("hashing: invalid or unrecognised hash string")

	// ErrProfileNotFound is returned by [Manager.Profile] or indirectly by
	// [Manager.Make] / [Manager.Check] when the requested profile has not been
	// registered.
	ErrProfileNotFound = errors.New("hashing: profile not found")

	// ErrEmptyProfileName is returned by [Manager.RegisterProfile] when the
	// supplied profile name is an empty string.
	ErrEmptyProfileName = errors.New("hashing: profile name must not be empty")

	// ErrNilHasher is returned by [Manager.RegisterProfile] when a nil [Hasher]
	// is supplied.
	ErrNilHasher = errors.New("hashing: hasher must not be nil")
)
