package hashing

import (
	"fmt"
	"slices"
	"sync"
)

// ProfileName identifies a named hashing configuration registered with a
// [Manager].
type ProfileName string

// DefaultProfileName is the profile name used when none is configured.
const DefaultProfileName ProfileName = "default"

// Manager is a thread-safe registry of named [Hasher] profiles.
//
// Stored hashes carry no algorithm prefix, so a hash can only be verified
// under the configuration that produced it.  Register one profile per
// configuration in use, nominate a default for new hashes, and use
// [Manager.CheckWithDetect] where hashes from several profiles coexist.
//
// # Thread safety
//
// All Manager methods are safe for concurrent use by multiple goroutines.
// A [sync.RWMutex] serialises writes (RegisterProfile, SetDefaultProfile)
// while allowing concurrent reads.  The registered Hashers are immutable.
type Manager struct {
	mu       sync.RWMutex
	profiles map[ProfileName]*Hasher
	def      ProfileName
}

// NewManager creates an empty Manager with the given default profile name.
// Profiles must be registered with [Manager.RegisterProfile] before any
// hashing operation is invoked through the Manager.
func NewManager(defaultProfile ProfileName) *Manager {
	return &Manager{
		profiles: make(map[ProfileName]*Hasher),
		def:      defaultProfile,
	}
}

// RegisterProfile adds or replaces a named hasher in the Manager.
func (m *Manager) RegisterProfile(name ProfileName, h *Hasher) error {
	if name == "" {
		return ErrEmptyProfileName
	}
	if h == nil {
		return ErrNilHasher
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[name] = h
	return nil
}

// Profile returns the [Hasher] registered under name, or [ErrProfileNotFound].
func (m *Manager) Profile(name ProfileName) (*Hasher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.profiles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}
	return h, nil
}

// SetDefaultProfile changes the profile used by [Manager.Make],
// [Manager.Check] and [Manager.NeedsRehash].  The named profile must already
// be registered.
func (m *Manager) SetDefaultProfile(name ProfileName) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[name]; !ok {
		return fmt.Errorf("%w: %q is not registered; call RegisterProfile first",
			ErrProfileNotFound, name)
	}
	m.def = name
	return nil
}

// DefaultProfile returns the name of the current default profile.
func (m *Manager) DefaultProfile() ProfileName {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.def
}

// HasProfile reports whether a profile with the given name is registered.
func (m *Manager) HasProfile(name ProfileName) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.profiles[name]
	return ok
}

// Profiles returns the registered profile names in sorted order.
func (m *Manager) Profiles() []ProfileName {
	m.mu.RLock()
	names := make([]ProfileName, 0, len(m.profiles))
	for name := range m.profiles {
		names = append(names, name)
	}
	m.mu.RUnlock()
	slices.Sort(names)
	return names
}

// Make hashes password with salt using the default profile.
func (m *Manager) Make(password, salt string) (string, error) {
	h, err := m.resolveDefault()
	if err != nil {
		return "", err
	}
	return h.Make(password, salt), nil
}

// Check verifies password against encoded using the default profile.
//
// To verify under a specific (non-default) profile, use [Manager.Profile]
// first:
//
//	h, err := m.Profile("legacy")
//	ok := h.Check(password, encoded)
func (m *Manager) Check(password, encoded string) (bool, error) {
	h, err := m.resolveDefault()
	if err != nil {
		return false, err
	}
	return h.Check(password, encoded), nil
}

// CheckWithDetect verifies password against encoded under every registered
// profile whose format accepts encoded, in sorted profile order, and reports
// whether any of them matched.
//
// Returns [ErrInvalidHash] if no profile recognises the format.
func (m *Manager) CheckWithDetect(password, encoded string) (bool, error) {
	candidates := m.detect(encoded)
	if len(candidates) == 0 {
		return false, fmt.Errorf("%w: no registered profile recognises the hash", ErrInvalidHash)
	}
	for _, h := range candidates {
		if h.Check(password, encoded) {
			return true, nil
		}
	}
	return false, nil
}

// Detect returns the names of the profiles whose format accepts encoded,
// in sorted order.
func (m *Manager) Detect(encoded string) []ProfileName {
	var names []ProfileName
	for _, name := range m.Profiles() {
		h, err := m.Profile(name)
		if err != nil {
			continue
		}
		if !h.NeedsRehash(encoded) {
			names = append(names, name)
		}
	}
	return names
}

// NeedsRehash reports whether encoded is not in the default profile's
// format.  On the next successful login, callers should call [Manager.Make]
// and persist the new hash when this returns true.
func (m *Manager) NeedsRehash(encoded string) (bool, error) {
	h, err := m.resolveDefault()
	if err != nil {
		return false, err
	}
	return h.NeedsRehash(encoded), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────────────────────────────────

func (m *Manager) resolveDefault() (*Hasher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.profiles[m.def]
	if !ok {
		return nil, fmt.Errorf("%w: default profile %q has not been registered",
			ErrProfileNotFound, m.def)
	}
	return h, nil
}

func (m *Manager) detect(encoded string) []*Hasher {
	var out []*Hasher
	for _, name := range m.Detect(encoded) {
		if h, err := m.Profile(name); err == nil {
			out = append(out, h)
		}
	}
	return out
}
