package hashing

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
)

// This file is the runtime-validation layer for values that arrive untyped,
// e.g. decoded from JSON, YAML or a koanf configuration tree.  Everything
// below it (Adapt, Hash, Verify, GenerateSalt) assumes well-typed input.

// DecodeRawConfig converts a decoded configuration value into a [RawConfig].
//
//   - nil yields (nil, nil): no configuration was provided.
//   - A map with string keys is a configuration record; unknown keys are
//     ignored and null values count as unset.
//   - Anything else (arrays, scalars) fails with [ErrConfigurationType].
//   - hashAlgorithm or hashDigest holding a non-string fails with
//     [ErrConfigurationFieldType].
//   - inSeparator holding a non-string is ignored, so the default applies.
//
// Unsupported algorithm or digest names are not rejected here; [Adapt]
// replaces them with defaults.
func DecodeRawConfig(v any) (*RawConfig, error) {
	var fields map[string]any
	switch val := v.(type) {
	case nil:
		return nil, nil
	case *RawConfig:
		return val, nil
	case RawConfig:
		return &val, nil
	case map[string]any:
		fields = val
	case map[any]any:
		fields = make(map[string]any, len(val))
		for k, fv := range val {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("%w: key %v is %T, not a string", ErrConfigurationType, k, k)
			}
			fields[key] = fv
		}
	default:
		return nil, fmt.Errorf("%w: got %T", ErrConfigurationType, v)
	}

	algorithm, err := stringField(fields, "hashAlgorithm")
	if err != nil {
		return nil, err
	}
	digest, err := stringField(fields, "hashDigest")
	if err != nil {
		return nil, err
	}

	raw := &RawConfig{
		HashAlgorithm: Algorithm(algorithm),
		HashDigest:    Encoding(digest),
	}
	if sep, ok := fields["inSeparator"].(string); ok {
		raw.InSeparator = Separator(sep)
	}
	return raw, nil
}

func stringField(fields map[string]any, key string) (string, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is %T", ErrConfigurationFieldType, key, v)
	}
	return s, nil
}

// ParseRawConfig decodes a JSON configuration document with the rules of
// [DecodeRawConfig].  Empty input and a literal null yield (nil, nil).
// Text that is not a single JSON value fails with [ErrConfigurationType].
func ParseRawConfig(data []byte) (*RawConfig, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigurationType, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after configuration value", ErrConfigurationType)
	}
	return DecodeRawConfig(v)
}

// StringArg checks that the argument called name is present and a string.
// nil fails with [ErrMissingArgument]; any other non-string value fails with
// [ErrArgumentType].
func StringArg(name string, v any) (string, error) {
	if v == nil {
		return "", fmt.Errorf("%w: %s", ErrMissingArgument, name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is %T", ErrArgumentType, name, v)
	}
	return s, nil
}

// RoundsArg converts a decoded salt rounds value to an int.
//
// nil yields [DefaultSaltRounds].  Integer kinds, json.Number and floats
// with no fractional part are accepted; everything else, strings included,
// fails with [ErrInvalidRoundsType].  The sign is not checked here.
func RoundsArg(v any) (int, error) {
	switch n := v.(type) {
	case nil:
		return DefaultSaltRounds, nil
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return intFromInt64(i, v)
		}
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidRoundsType, n.String())
		}
		return intFromFloat(f, v)
	case float64:
		return intFromFloat(n, v)
	case float32:
		return intFromFloat(float64(n), v)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intFromInt64(rv.Int(), v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt {
			return 0, fmt.Errorf("%w: %v overflows int", ErrInvalidRoundsType, v)
		}
		return int(u), nil
	default:
		return 0, fmt.Errorf("%w: got %T", ErrInvalidRoundsType, v)
	}
}

func intFromInt64(i int64, orig any) (int, error) {
	if i > math.MaxInt || i < math.MinInt {
		return 0, fmt.Errorf("%w: %v overflows int", ErrInvalidRoundsType, orig)
	}
	return int(i), nil
}

func intFromFloat(f float64, orig any) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %v is not a whole number", ErrInvalidRoundsType, orig)
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("%w: %v overflows int", ErrInvalidRoundsType, orig)
	}
	return intFromInt64(int64(f), orig)
}

// HashValue is [Hash] for untyped arguments.
//
// password and salt are checked for presence first and for type second, so
// a missing argument is reported as [ErrMissingArgument] even when the other
// one has the wrong type.  config is decoded with [DecodeRawConfig].
func HashValue(password, salt, config any) (string, error) {
	if password == nil || salt == nil {
		return "", fmt.Errorf("%w: password and salt must both be provided", ErrMissingArgument)
	}
	p, err := StringArg("password", password)
	if err != nil {
		return "", err
	}
	s, err := StringArg("salt", salt)
	if err != nil {
		return "", err
	}
	raw, err := DecodeRawConfig(config)
	if err != nil {
		return "", err
	}
	return Hash(p, s, raw), nil
}

// VerifyValue is [Verify] for untyped arguments.
//
// encoded must be present ([ErrMissingArgument]) and a string
// ([ErrArgumentType]); config is decoded with [DecodeRawConfig]; password must
// be a string, and a nil password is an [ErrArgumentType] rather than a
// missing argument.  A password that does not match is (false, nil).
func VerifyValue(password, encoded, config any) (bool, error) {
	if encoded == nil {
		return false, fmt.Errorf("%w: hashed password", ErrMissingArgument)
	}
	raw, err := DecodeRawConfig(config)
	if err != nil {
		return false, err
	}
	e, ok := encoded.(string)
	if !ok {
		return false, fmt.Errorf("%w: hashed password is %T", ErrArgumentType, encoded)
	}
	p, ok := password.(string)
	if !ok {
		return false, fmt.Errorf("%w: password is %T", ErrArgumentType, password)
	}
	return Verify(p, e, raw), nil
}

// GenerateSaltValue is [GenerateSalt] for an untyped rounds argument; nil
// selects [DefaultSaltRounds].
func GenerateSaltValue(rounds any) (string, error) {
	n, err := RoundsArg(rounds)
	if err != nil {
		return "", err
	}
	return GenerateSalt(n)
}
