package hashing_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/hasbyte1/go-password-builder/hashing"
)

const (
	sha256Base64Hash = "spidermanvsbatman.RWbTOAtwP9e55sp0U+3/U7auSjjGAHqK7q0uk77Swbk="
	sha512HexHash    = "gothamcity.74feb8fa77b7651d3aca2abc075c60d55d5d7f8b053d1b06dc5fc725cf4651acf7ce8adcf2fb392deb4554c967af15e54294892926aed5fed6a2ab5bec66419d"
)

// discardLogger keeps expected diagnostics out of the test output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// bufferLogger returns a logger that records every level into buf.
func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func rawConfig(alg hashing.Algorithm, enc hashing.Encoding) *hashing.RawConfig {
	return &hashing.RawConfig{HashAlgorithm: alg, HashDigest: enc}
}

// ──────────────────────────────────────────────────────────────────────────────
// Hash
// ──────────────────────────────────────────────────────────────────────────────

func TestHash_KnownVectors(t *testing.T) {
	cases := []struct {
		name     string
		password string
		salt     string
		cfg      *hashing.RawConfig
		want     string
	}{
		{
			name:     "sha256/base64",
			password: "password_123",
			salt:     "spidermanvsbatman",
			cfg:      rawConfig(hashing.AlgorithmSHA256, hashing.EncodingBase64),
			want:     sha256Base64Hash,
		},
		{
			name:     "sha512/hex",
			password: "password_456",
			salt:     "gothamcity",
			cfg:      rawConfig(hashing.AlgorithmSHA512, hashing.EncodingHex),
			want:     sha512HexHash,
		},
		{
			name:     "defaults",
			password: "password_456",
			salt:     "gothamcity",
			cfg:      &hashing.RawConfig{},
			want:     sha512HexHash,
		},
		{
			name:     "sha256/hex",
			password: "password_123",
			salt:     "spidermanvsbatman",
			cfg:      rawConfig(hashing.AlgorithmSHA256, hashing.EncodingHex),
			want:     "spidermanvsbatman.4566d3380b703fd7b9e6ca7453edff53b6ae4a38c6007a8aeead2e93bed2c1b9",
		},
		{
			name:     "sha256/base64url",
			password: "password_123",
			salt:     "spidermanvsbatman",
			cfg:      rawConfig(hashing.AlgorithmSHA256, hashing.EncodingBase64URL),
			want:     "spidermanvsbatman.RWbTOAtwP9e55sp0U-3_U7auSjjGAHqK7q0uk77Swbk",
		},
		{
			name:     "sha256/binary",
			password: "password_123",
			salt:     "spidermanvsbatman",
			cfg:      rawConfig(hashing.AlgorithmSHA256, hashing.EncodingBinary),
			want: "spidermanvsbatman." +
				"Ef\u00d38\x0bp?\u00d7\u00b9\u00e6\u00catS\u00ed\u00ffS\u00b6\u00aeJ8\u00c6\x00z\u008a\u00ee\u00ad.\u0093\u00be\u00d2\u00c1\u00b9",
		},
		{
			name:     "empty salt",
			password: "password_123",
			salt:     "",
			cfg:      rawConfig(hashing.AlgorithmSHA256, hashing.EncodingHex),
			want:     ".88da206c1120ee82a194d6686aa8385aa434ec644056b6fae85377bc8adc2549",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := hashing.Hash(tc.password, tc.salt, tc.cfg)
			if got != tc.want {
				t.Errorf("Hash = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestHash_CustomSeparator(t *testing.T) {
	cfg := &hashing.RawConfig{
		HashAlgorithm: hashing.AlgorithmSHA256,
		HashDigest:    hashing.EncodingBase64,
		InSeparator:   hashing.Separator("$$"),
	}
	got := hashing.Hash("password_123", "spidermanvsbatman", cfg)
	want := strings.Replace(sha256Base64Hash, ".", "$$", 1)
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestHash_Deterministic(t *testing.T) {
	cfg := rawConfig(hashing.AlgorithmSHA512, hashing.EncodingBase64)
	a := hashing.Hash("hunter2", "NaCl", cfg)
	b := hashing.Hash("hunter2", "NaCl", cfg)
	if a != b {
		t.Errorf("two calls differ: %q vs %q", a, b)
	}
}

func TestHash_NilConfigUsesDefaults(t *testing.T) {
	if got := hashing.Hash("password_456", "gothamcity", nil); got != sha512HexHash {
		t.Errorf("got %q, want %q", got, sha512HexHash)
	}
}

func TestHash_StartsWithSaltAndSeparator(t *testing.T) {
	for _, alg := range hashing.Algorithms() {
		for _, enc := range hashing.Encodings() {
			got := hashing.Hash("pw", "abc123", rawConfig(alg, enc))
			if !strings.HasPrefix(got, "abc123.") {
				t.Errorf("%s/%s: %q lacks salt prefix", alg, enc, got)
			}
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Verify
// ──────────────────────────────────────────────────────────────────────────────

func TestVerify_KnownHash(t *testing.T) {
	cfg := rawConfig(hashing.AlgorithmSHA512, hashing.EncodingHex)
	if !hashing.Verify("password_456", sha512HexHash, cfg) {
		t.Error("expected the stored hash to verify")
	}
}

func TestVerify_InvalidHashValue(t *testing.T) {
	cfg := rawConfig(hashing.AlgorithmSHA512, hashing.EncodingHex)
	if hashing.Verify("password_456", "invalid_hash_value", cfg) {
		t.Error("expected false for a hash without separator")
	}
}

func TestVerify_RoundTrip(t *testing.T) {
	passwords := []string{"a", "password", "pässwörd", "with.dots.inside", strings.Repeat("x", 500)}
	for _, alg := range hashing.Algorithms() {
		for _, enc := range hashing.Encodings() {
			for _, sep := range []string{".", "$", "::", ""} {
				cfg := &hashing.RawConfig{HashAlgorithm: alg, HashDigest: enc, InSeparator: hashing.Separator(sep)}
				for _, pw := range passwords {
					salt := "s4lt"
					if sep == "" {
						// With an empty separator the salt cannot be recovered,
						// only hashes with an empty salt round-trip.
						salt = ""
					}
					stored := hashing.Hash(pw, salt, cfg)
					if !hashing.Verify(pw, stored, cfg) {
						t.Errorf("%s/%s/%q: %q did not verify", alg, enc, sep, pw)
					}
				}
			}
		}
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	for _, alg := range hashing.Algorithms() {
		for _, enc := range hashing.Encodings() {
			cfg := rawConfig(alg, enc)
			stored := hashing.Hash("correct", "salt", cfg)
			if hashing.Verify("incorrect", stored, cfg) {
				t.Errorf("%s/%s: wrong password verified", alg, enc)
			}
		}
	}
}

func TestVerify_EmptyPassword(t *testing.T) {
	stored := hashing.Hash("", "salt", nil)
	if hashing.Verify("", stored, nil) {
		t.Error("empty password must never verify")
	}
}

func TestVerify_ConfigMismatch(t *testing.T) {
	stored := hashing.Hash("pw", "salt", rawConfig(hashing.AlgorithmSHA256, hashing.EncodingHex))
	if hashing.Verify("pw", stored, rawConfig(hashing.AlgorithmSHA512, hashing.EncodingHex)) {
		t.Error("hash must not verify under a different algorithm")
	}
	if hashing.Verify("pw", stored, rawConfig(hashing.AlgorithmSHA256, hashing.EncodingBase64)) {
		t.Error("hash must not verify under a different encoding")
	}
	other := &hashing.RawConfig{HashAlgorithm: hashing.AlgorithmSHA256, HashDigest: hashing.EncodingHex, InSeparator: hashing.Separator("#")}
	if hashing.Verify("pw", stored, other) {
		t.Error("hash must not verify under a different separator")
	}
}

func TestVerify_SaltContainingSeparator(t *testing.T) {
	// Only the text before the first separator is taken as salt.
	stored := hashing.Hash("pw", "a.b", nil)
	if hashing.Verify("pw", stored, nil) {
		t.Error("a salt containing the separator cannot be recovered")
	}
}

func TestVerify_TamperedDigest(t *testing.T) {
	stored := []byte(sha512HexHash)
	stored[len(stored)-1] = 'e'
	if hashing.Verify("password_456", string(stored), nil) {
		t.Error("tampered digest verified")
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Hasher
// ──────────────────────────────────────────────────────────────────────────────

func TestNewHasher_BindsConfig(t *testing.T) {
	h := hashing.NewHasher(rawConfig(hashing.AlgorithmSHA256, hashing.EncodingBase64), hashing.WithLogger(discardLogger()))
	want, _ := hashing.NewConfig(hashing.AlgorithmSHA256, hashing.EncodingBase64, ".")
	if h.Config() != want {
		t.Errorf("Config = %+v, want %+v", h.Config(), want)
	}
	if got := h.Make("password_123", "spidermanvsbatman"); got != sha256Base64Hash {
		t.Errorf("Make = %q", got)
	}
	if !h.Check("password_123", sha256Base64Hash) {
		t.Error("Check = false for known hash")
	}
	if h.Check("password_124", sha256Base64Hash) {
		t.Error("Check = true for wrong password")
	}
}

func TestNewHasher_NilConfigLogsNotice(t *testing.T) {
	var buf bytes.Buffer
	h := hashing.NewHasher(nil, hashing.WithLogger(bufferLogger(&buf)))
	if h.Config() != hashing.DefaultConfig() {
		t.Errorf("Config = %+v, want defaults", h.Config())
	}
	if !strings.Contains(buf.String(), "no configuration provided") {
		t.Errorf("missing notice in log output: %q", buf.String())
	}
}

func TestHasher_MakeWithNewSalt(t *testing.T) {
	h := hashing.NewHasher(&hashing.RawConfig{}, hashing.WithLogger(discardLogger()))
	stored, err := h.MakeWithNewSalt("pw", hashing.DefaultSaltRounds)
	if err != nil {
		t.Fatalf("MakeWithNewSalt: %v", err)
	}
	info, err := h.Info(stored)
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if len(info.Salt) != hashing.DefaultSaltRounds {
		t.Errorf("salt length = %d, want %d", len(info.Salt), hashing.DefaultSaltRounds)
	}
	if !h.Check("pw", stored) {
		t.Error("freshly salted hash did not verify")
	}
}

func TestHasher_MakeWithNewSalt_InvalidRounds(t *testing.T) {
	h := hashing.NewHasher(&hashing.RawConfig{}, hashing.WithLogger(discardLogger()))
	if _, err := h.MakeWithNewSalt("pw", -3); !errors.Is(err, hashing.ErrInvalidRoundsRange) {
		t.Errorf("expected ErrInvalidRoundsRange, got %v", err)
	}
}

func TestHasher_Info(t *testing.T) {
	h := hashing.NewHasher(rawConfig(hashing.AlgorithmSHA256, hashing.EncodingBase64), hashing.WithLogger(discardLogger()))
	info, err := h.Info(sha256Base64Hash)
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	want := hashing.HashInfo{
		Salt:      "spidermanvsbatman",
		Digest:    "RWbTOAtwP9e55sp0U+3/U7auSjjGAHqK7q0uk77Swbk=",
		Algorithm: hashing.AlgorithmSHA256,
		Encoding:  hashing.EncodingBase64,
		Separator: ".",
	}
	if info != want {
		t.Errorf("Info = %+v, want %+v", info, want)
	}
}

func TestHasher_Info_BinaryDigestWithSeparatorByte(t *testing.T) {
	// The latin1 digest of this vector contains a '.', which must not confuse
	// the split because only the first separator delimits the salt.
	h := hashing.NewHasher(rawConfig(hashing.AlgorithmSHA256, hashing.EncodingBinary), hashing.WithLogger(discardLogger()))
	stored := h.Make("password_123", "spidermanvsbatman")
	info, err := h.Info(stored)
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.Salt != "spidermanvsbatman" {
		t.Errorf("salt = %q", info.Salt)
	}
}

func TestHasher_Info_Invalid(t *testing.T) {
	h := hashing.NewHasher(rawConfig(hashing.AlgorithmSHA512, hashing.EncodingHex), hashing.WithLogger(discardLogger()))
	cases := map[string]string{
		"no separator":     "invalid_hash_value",
		"not hex":          "salt.zzzz",
		"wrong length":     "salt.abcd",
		"sha256 not 512":   "salt.4566d3380b703fd7b9e6ca7453edff53b6ae4a38c6007a8aeead2e93bed2c1b9",
		"empty digest":     "salt.",
		"only separator":   ".",
		"base64 not hex":   sha256Base64Hash,
		"trailing garbage": sha512HexHash + "00",
	}
	for name, encoded := range cases {
		if _, err := h.Info(encoded); !errors.Is(err, hashing.ErrInvalidHash) {
			t.Errorf("%s: expected ErrInvalidHash, got %v", name, err)
		}
	}
}

func TestHasher_NeedsRehash(t *testing.T) {
	legacy := hashing.NewHasher(rawConfig(hashing.AlgorithmSHA512, hashing.EncodingHex), hashing.WithLogger(discardLogger()))
	modern := hashing.NewHasher(rawConfig(hashing.AlgorithmSHA256, hashing.EncodingBase64URL), hashing.WithLogger(discardLogger()))

	stored := legacy.Make("pw", "salt")
	if legacy.NeedsRehash(stored) {
		t.Error("legacy hash should not need rehash under legacy profile")
	}
	if !modern.NeedsRehash(stored) {
		t.Error("legacy hash should need rehash under modern profile")
	}
}

func TestHasher_ConcurrentUse(t *testing.T) {
	configs := []*hashing.RawConfig{
		rawConfig(hashing.AlgorithmSHA256, hashing.EncodingBase64),
		rawConfig(hashing.AlgorithmSHA512, hashing.EncodingHex),
		rawConfig(hashing.AlgorithmSHA256, hashing.EncodingBinary),
		{HashAlgorithm: hashing.AlgorithmSHA512, HashDigest: hashing.EncodingBase64URL, InSeparator: hashing.Separator("|")},
	}
	expected := make([]string, len(configs))
	for i, cfg := range configs {
		expected[i] = hashing.Hash("concurrent", "salt", cfg)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 64*len(configs))
	for n := 0; n < 64; n++ {
		for i, cfg := range configs {
			wg.Add(1)
			go func(i int, cfg *hashing.RawConfig) {
				defer wg.Done()
				got := hashing.Hash("concurrent", "salt", cfg)
				if got != expected[i] {
					errs <- fmt.Errorf("config %d: got %q, want %q", i, got, expected[i])
					return
				}
				if !hashing.Verify("concurrent", got, cfg) {
					errs <- fmt.Errorf("config %d: verify failed", i)
				}
			}(i, cfg)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
