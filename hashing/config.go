package hashing

import (
	"fmt"
	"log/slog"
)

const (
	// DefaultAlgorithm is used when no valid algorithm is configured.
	DefaultAlgorithm = AlgorithmSHA512

	// DefaultEncoding is used when no valid digest encoding is configured.
	DefaultEncoding = EncodingHex

	// DefaultSeparator joins salt and digest when no separator is configured.
	DefaultSeparator = "."
)

// RawConfig is a caller-supplied, partially populated hashing configuration.
//
// Every field is optional.  An empty HashAlgorithm or HashDigest means "not
// set"; a nil InSeparator means "not set", while a non-nil pointer to the
// empty string is an explicit (empty) separator.
//
// Values are not validated here; [Adapt] resolves a RawConfig into a [Config],
// substituting defaults for anything that is unset or invalid.  Decoding a
// RawConfig from JSON goes through [DecodeRawConfig], so malformed documents
// fail with [ErrConfigurationType] or [ErrConfigurationFieldType].
type RawConfig struct {
	HashAlgorithm Algorithm `json:"hashAlgorithm,omitempty" yaml:"hashAlgorithm,omitempty" koanf:"hashAlgorithm" jsonschema:"enum=sha256,enum=sha512,description=HMAC hash function"`
	HashDigest    Encoding  `json:"hashDigest,omitempty" yaml:"hashDigest,omitempty" koanf:"hashDigest" jsonschema:"enum=base64,enum=base64url,enum=hex,enum=binary,description=Digest text encoding"`
	InSeparator   *string   `json:"inSeparator,omitempty" yaml:"inSeparator,omitempty" koanf:"inSeparator" jsonschema:"description=Token placed between salt and digest"`
}

// UnmarshalJSON decodes a configuration record, rejecting documents that are
// not objects and records whose hashAlgorithm or hashDigest are not strings.
// A JSON null leaves r unchanged.
func (r *RawConfig) UnmarshalJSON(data []byte) error {
	decoded, err := ParseRawConfig(data)
	if err != nil {
		return err
	}
	if decoded != nil {
		*r = *decoded
	}
	return nil
}

// Separator returns a pointer to sep, for use as [RawConfig.InSeparator].
func Separator(sep string) *string { return &sep }

// Config is a fully resolved hashing configuration.  Every field is
// guaranteed valid.
//
// Config values are immutable and comparable with ==.  Obtain one from
// [Adapt], [DefaultConfig] or [NewConfig]; the zero value is not usable.
type Config struct {
	algorithm Algorithm
	digest    Encoding
	separator string
}

// DefaultConfig returns the default configuration: sha512, hex and ".".
func DefaultConfig() Config {
	return Config{
		algorithm: DefaultAlgorithm,
		digest:    DefaultEncoding,
		separator: DefaultSeparator,
	}
}

// NewConfig builds a Config from explicit values.  Unlike [Adapt] it does not
// fall back to defaults: an unsupported algorithm or encoding is an error.
func NewConfig(alg Algorithm, enc Encoding, sep string) (Config, error) {
	if !alg.Valid() {
		return Config{}, fmt.Errorf("%w: %q", ErrInvalidAlgorithm, string(alg))
	}
	if !enc.Valid() {
		return Config{}, fmt.Errorf("%w: %q", ErrInvalidEncoding, string(enc))
	}
	return Config{algorithm: alg, digest: enc, separator: sep}, nil
}

// Algorithm returns the HMAC hash function.
func (c Config) Algorithm() Algorithm { return c.algorithm }

// Digest returns the digest encoding.
func (c Config) Digest() Encoding { return c.digest }

// Separator returns the token placed between salt and digest.
func (c Config) Separator() string { return c.separator }

// Raw converts c back into an equivalent, fully populated [RawConfig].
func (c Config) Raw() *RawConfig {
	return &RawConfig{
		HashAlgorithm: c.algorithm,
		HashDigest:    c.digest,
		InSeparator:   Separator(c.separator),
	}
}

// Adapt resolves raw into a valid [Config], logging through [slog.Default].
//
//   - A nil raw yields [DefaultConfig] and an informational notice.
//   - HashAlgorithm and HashDigest are validated independently; each invalid
//     value is replaced by its default and a single warning is logged.
//   - Unset fields take their defaults silently.
//   - A non-nil InSeparator is used as-is, including the empty string.
//
// Adapt never fails.  A fresh Config is returned on every call.
func Adapt(raw *RawConfig) Config {
	return adapt(raw, slog.Default())
}

func adapt(raw *RawConfig, logger *slog.Logger) Config {
	if raw == nil {
		logger.Info("no configuration provided, using defaults")
		return DefaultConfig()
	}

	cfg := DefaultConfig()
	algorithmValid, digestValid := true, true

	if raw.HashAlgorithm != "" {
		if raw.HashAlgorithm.Valid() {
			cfg.algorithm = raw.HashAlgorithm
		} else {
			algorithmValid = false
		}
	}
	if raw.HashDigest != "" {
		if raw.HashDigest.Valid() {
			cfg.digest = raw.HashDigest
		} else {
			digestValid = false
		}
	}
	if raw.InSeparator != nil {
		cfg.separator = *raw.InSeparator
	}

	if !algorithmValid || !digestValid {
		logger.Warn("one or more hash configuration values are invalid, defaults will be used for those fields",
			slog.String("hash_algorithm", string(raw.HashAlgorithm)),
			slog.String("hash_digest", string(raw.HashDigest)),
			slog.String("resolved_algorithm", string(cfg.algorithm)),
			slog.String("resolved_digest", string(cfg.digest)),
		)
	}
	return cfg
}
