package main

import (
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/hasbyte1/go-password-builder/hashing"
	"github.com/hasbyte1/go-password-builder/internal/logging"
)

// configDelim separates the levels of a koanf key.
const configDelim = "."

// errProfileName is returned for a profile name containing configDelim.
// koanf splits such a name into nested maps while loading.
var errProfileName = errors.New(`profile names must not contain "` + configDelim + `"`)

// Config file keys.
const (
	keyProfile    = "profile"
	keyProfiles   = "profiles"
	keyOverride   = "override"
	keySaltRounds = "salt.rounds"
	keyLogFormat  = "log.format"
	keyLogLevel   = "log.level"
)

// flagKeys maps persistent flags onto config keys.  Flags not listed here
// are never loaded into koanf.
var flagKeys = map[string]string{
	"profile":    keyProfile,
	"algorithm":  keyOverride + ".hashAlgorithm",
	"digest":     keyOverride + ".hashDigest",
	"separator":  keyOverride + ".inSeparator",
	"rounds":     keySaltRounds,
	"log-format": keyLogFormat,
	"log-level":  keyLogLevel,
}

// app is the state a subcommand needs once configuration is resolved.
type app struct {
	logger  *slog.Logger
	manager *hashing.Manager
	profile hashing.ProfileName
	hasher  *hashing.Hasher
	rounds  int
	output  outputFormat
}

// loadConfig merges the config file (if any) and the changed flags into a
// koanf instance.  Flags win over the file.
func loadConfig(cmd *cobra.Command, opts *globalOptions) (*koanf.Koanf, error) {
	k := koanf.New(configDelim)

	if opts.configFile != "" {
		if err := k.Load(file.Provider(opts.configFile), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("path", opts.configFile).Wrap(err)
		}
	}

	fs := cmd.Flags()
	provider := posflag.ProviderWithFlag(fs, configDelim, k, func(f *pflag.Flag) (string, any) {
		key, ok := flagKeys[f.Name]
		if !ok || !f.Changed {
			return "", nil
		}
		if key == keySaltRounds {
			return key, scalarValue(f.Value.String())
		}
		return key, f.Value.String()
	})
	if err := k.Load(provider, nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
	}
	return k, nil
}

// scalarValue decodes a flag value as a YAML scalar so "16" becomes an int
// while "abc" stays a string for the rounds validation to reject.
func scalarValue(s string) any {
	var v any
	if err := yamlv3.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}

// loadApp resolves configuration, logging and hashing profiles for a
// subcommand.
func loadApp(cmd *cobra.Command, opts *globalOptions) (*app, error) {
	output, err := parseOutputFormat(opts.output)
	if err != nil {
		return nil, err
	}

	k, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}

	logger, err := logging.Setup(k.String(keyLogFormat), k.String(keyLogLevel), cmd.ErrOrStderr())
	if err != nil {
		return nil, oops.Code("CONFIG_INVALID").With("key", "log").Wrap(err)
	}
	logger = logging.WithContext(cmd.Context(), logger)
	slog.SetDefault(logger)

	rounds, err := hashing.RoundsArg(k.Get(keySaltRounds))
	if err != nil {
		return nil, oops.Code("CONFIG_INVALID").With("key", keySaltRounds).Wrap(err)
	}

	manager, profile, err := buildManager(k, logger)
	if err != nil {
		return nil, err
	}
	hasher, err := manager.Profile(profile)
	if err != nil {
		return nil, oops.Code("CONFIG_INVALID").With("profile", profile).Wrap(err)
	}

	logger.Debug("configuration loaded",
		"profile", profile,
		"profiles", manager.Profiles(),
		"algorithm", hasher.Config().Algorithm(),
		"digest", hasher.Config().Digest(),
	)

	return &app{
		logger:  logger,
		manager: manager,
		profile: profile,
		hasher:  hasher,
		rounds:  rounds,
		output:  output,
	}, nil
}

// buildManager registers one hasher per configured profile and returns the
// name of the selected one.  Flag overrides are applied to the selected
// profile only.
func buildManager(k *koanf.Koanf, logger *slog.Logger) (*hashing.Manager, hashing.ProfileName, error) {
	raws := make(map[hashing.ProfileName]*hashing.RawConfig)
	if k.Exists(keyProfiles) {
		profiles, ok := k.Get(keyProfiles).(map[string]any)
		if !ok {
			return nil, "", oops.Code("CONFIG_INVALID").
				With("key", keyProfiles).
				Wrap(hashing.ErrConfigurationType)
		}
		for name, v := range profiles {
			if err := checkProfileName(name, v); err != nil {
				return nil, "", err
			}
			raw, err := hashing.DecodeRawConfig(v)
			if err != nil {
				return nil, "", oops.Code("CONFIG_INVALID").With("profile", name).Wrap(err)
			}
			raws[hashing.ProfileName(name)] = raw
		}
	}

	selected := hashing.ProfileName(k.String(keyProfile))
	if selected == "" {
		selected = hashing.DefaultProfileName
	}
	if strings.Contains(string(selected), configDelim) {
		return nil, "", oops.Code("CONFIG_INVALID").With("profile", selected).Wrap(errProfileName)
	}
	base, known := raws[selected]
	if !known && selected != hashing.DefaultProfileName {
		return nil, "", oops.Code("CONFIG_INVALID").
			With("profile", selected).
			Wrapf(hashing.ErrProfileNotFound, "profile %q is not defined in the config file", selected)
	}

	override, err := hashing.DecodeRawConfig(k.Get(keyOverride))
	if err != nil {
		return nil, "", oops.Code("ARGUMENT_INVALID").With("key", keyOverride).Wrap(err)
	}
	raws[selected] = mergeRaw(base, override)

	names := make([]hashing.ProfileName, 0, len(raws))
	for name := range raws {
		names = append(names, name)
	}
	slices.Sort(names)

	m := hashing.NewManager(selected)
	for _, name := range names {
		h := hashing.NewHasher(raws[name], hashing.WithLogger(logger.With("profile", string(name))))
		if err := m.RegisterProfile(name, h); err != nil {
			return nil, "", oops.Code("CONFIG_INVALID").With("profile", name).Wrap(err)
		}
	}
	return m, selected, nil
}

// profileFields are the keys a profile record may hold.
var profileFields = map[string]bool{
	"hashAlgorithm": true,
	"hashDigest":    true,
	"inSeparator":   true,
}

// checkProfileName reports a profile whose name koanf split at configDelim.
// Such a profile shows up holding a nested record under a key that is not a
// profile field.
func checkProfileName(name string, v any) error {
	fields, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	for key, fv := range fields {
		if _, nested := fv.(map[string]any); nested && !profileFields[key] {
			return oops.Code("CONFIG_INVALID").
				With("profile", name+configDelim+key).
				Wrap(errProfileName)
		}
	}
	return nil
}

// mergeRaw layers the set fields of override over base.  Both may be nil;
// the result is nil only when both are.
func mergeRaw(base, override *hashing.RawConfig) *hashing.RawConfig {
	if override == nil {
		return base
	}
	merged := hashing.RawConfig{}
	if base != nil {
		merged = *base
	}
	if override.HashAlgorithm != "" {
		merged.HashAlgorithm = override.HashAlgorithm
	}
	if override.HashDigest != "" {
		merged.HashDigest = override.HashDigest
	}
	if override.InSeparator != nil {
		merged.InSeparator = override.InSeparator
	}
	return &merged
}
