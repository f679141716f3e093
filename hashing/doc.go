// Package hashing produces and verifies salted, keyed-hash (HMAC) password
// digests with a small, validated configuration.
//
// # Encoded hash format
//
// Every hash is a single string:
//
//	<salt><separator><digest>
//
// where digest is HMAC(key = salt, message = password) under the configured
// algorithm, rendered with the configured digest encoding.  The defaults are
// sha512, hex and ".", so a default hash looks like
//
//	gothamcity.74feb8fa77b7651d3aca2abc07…
//
// The string carries no algorithm prefix: it must be verified with the same
// configuration that produced it.
//
// # Configuration
//
// Callers pass a [RawConfig] whose fields are all optional.  [Adapt] resolves
// it into an immutable [Config]:
//
//   - nil selects [DefaultConfig] and logs an informational notice;
//   - each invalid algorithm or digest name is replaced by its default and a
//     warning is logged, it is never an error;
//   - a set separator is kept as-is.
//
// Only the shape of untyped input is an error.  [DecodeRawConfig],
// [ParseRawConfig], [HashValue], [VerifyValue] and [GenerateSaltValue] form
// the validation layer for values decoded from JSON or YAML and report
// [ErrConfigurationType], [ErrConfigurationFieldType], [ErrMissingArgument],
// [ErrArgumentType] and [ErrInvalidRoundsType].
//
// # Quick start
//
//	salt, err := hashing.GenerateSalt(hashing.DefaultSaltRounds)
//	if err != nil { log.Fatal(err) }
//
//	cfg := &hashing.RawConfig{HashAlgorithm: hashing.AlgorithmSHA256, HashDigest: hashing.EncodingBase64}
//	stored := hashing.Hash("my-secret-password", salt, cfg)
//	ok := hashing.Verify("my-secret-password", stored, cfg) // true
//
// For repeated use, bind the configuration once with [NewHasher], and keep
// several named configurations side by side with a [Manager].
//
// # Diagnostics
//
// Advisory messages go to log/slog: [slog.Default] for package-level
// functions, or the logger passed with [WithLogger].  They never change a
// result.
//
// # Concurrency
//
// There is no mutable package state.  Every call resolves its own [Config],
// [Hasher] is immutable, and [Manager] guards its registry with a mutex, so
// all functions are safe for concurrent use.
//
// # Security notes
//
// HMAC with a random salt defeats precomputed tables but is fast to compute;
// it is not an adaptive password hash such as bcrypt or Argon2.  Prefer
// [RecommendedMaxSaltRounds] or fewer rounds unless a longer salt is needed.
package hashing
