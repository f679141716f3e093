package hashing_test

import (
	"testing"

	"github.com/hasbyte1/go-password-builder/hashing"
)

// ──────────────────────────────────────────────────────────────────────────────
// Hash / Verify benchmarks
// ──────────────────────────────────────────────────────────────────────────────
//
// The package-level functions resolve the configuration on every call;
// the Hasher variants measure the digest alone.

func BenchmarkHash_SHA512_Hex(b *testing.B) {
	cfg := rawConfig(hashing.AlgorithmSHA512, hashing.EncodingHex)
	for i := 0; i < b.N; i++ {
		_ = hashing.Hash("bench-password", "benchsalt01", cfg)
	}
}

func BenchmarkHash_SHA256_Base64(b *testing.B) {
	cfg := rawConfig(hashing.AlgorithmSHA256, hashing.EncodingBase64)
	for i := 0; i < b.N; i++ {
		_ = hashing.Hash("bench-password", "benchsalt01", cfg)
	}
}

func BenchmarkVerify_SHA512_Hex(b *testing.B) {
	cfg := rawConfig(hashing.AlgorithmSHA512, hashing.EncodingHex)
	encoded := hashing.Hash("bench-password", "benchsalt01", cfg)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = hashing.Verify("bench-password", encoded, cfg)
	}
}

func BenchmarkHasher_Make(b *testing.B) {
	h := hashing.NewHasher(&hashing.RawConfig{}, hashing.WithLogger(discardLogger()))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = h.Make("bench-password", "benchsalt01")
	}
}

func BenchmarkHasher_Check(b *testing.B) {
	h := hashing.NewHasher(&hashing.RawConfig{}, hashing.WithLogger(discardLogger()))
	encoded := h.Make("bench-password", "benchsalt01")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = h.Check("bench-password", encoded)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Salt and Manager benchmarks
// ──────────────────────────────────────────────────────────────────────────────

func BenchmarkGenerateSalt_Default(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = hashing.GenerateSalt(hashing.DefaultSaltRounds)
	}
}

func BenchmarkManager_CheckWithDetect(b *testing.B) {
	m := newTestManager(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.CheckWithDetect("password_456", sha512HexHash)
	}
}

func BenchmarkManager_Parallel(b *testing.B) {
	m := newTestManager(b)
	encoded, _ := m.Make("bench-password", "benchsalt01")
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = m.Check("bench-password", encoded)
		}
	})
}
