package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/hasbyte1/go-password-builder/hashing"
)

// errMismatch is returned when the password does not match the hash, so the
// process exits non-zero.
var errMismatch = oops.Code("VERIFY_MISMATCH").Errorf("password does not match hash")

// verifyConfig holds configuration for the verify command.
type verifyConfig struct {
	password      string
	passwordStdin bool
	hash          string
	detect        bool
}

type verifyResult struct {
	Valid    bool                  `json:"valid" yaml:"valid"`
	Profile  string                `json:"profile,omitempty" yaml:"profile,omitempty"`
	Detected []hashing.ProfileName `json:"detected,omitempty" yaml:"detected,omitempty"`
}

// NewVerifyCmd creates the verify subcommand.
func NewVerifyCmd(opts *globalOptions) *cobra.Command {
	cfg := &verifyConfig{}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a password against a stored hash",
		Long: `Checks a password against a stored hash using the selected profile, or with
--detect every profile whose format accepts the hash.

Prints true or false.  Exits with a non-zero status when the password does not
match.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			return runVerify(cmd, a, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.password, "password", "", "plaintext password")
	cmd.Flags().BoolVar(&cfg.passwordStdin, "password-stdin", false, "read the password from stdin")
	cmd.Flags().StringVar(&cfg.hash, "hash", "", "stored hash to check against")
	cmd.Flags().BoolVar(&cfg.detect, "detect", false, "try every profile that recognises the hash")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")

	return cmd
}

func runVerify(cmd *cobra.Command, a *app, cfg *verifyConfig) error {
	password, err := readPassword(cmd, cfg.password, cfg.passwordStdin)
	if err != nil {
		return err
	}
	var hashArg any
	if cmd.Flags().Changed("hash") {
		hashArg = cfg.hash
	}
	encoded, err := hashing.StringArg("hash", hashArg)
	if err != nil {
		return oops.Code("ARGUMENT_INVALID").Hint("pass --hash").Wrap(err)
	}

	res := verifyResult{}
	if cfg.detect {
		res.Detected = a.manager.Detect(encoded)
		res.Valid, err = a.manager.CheckWithDetect(password, encoded)
		if err != nil {
			return oops.Code("ARGUMENT_INVALID").With("profiles", a.manager.Profiles()).Wrap(err)
		}
	} else {
		res.Profile = string(a.profile)
		res.Valid, err = a.manager.Check(password, encoded)
		if err != nil {
			return oops.Code("HASH_FAILED").With("profile", a.profile).Wrap(err)
		}
	}

	if err := render(cmd.OutOrStdout(), a.output, res, printLine(res.Valid)); err != nil {
		return err
	}
	if !res.Valid {
		return errMismatch
	}
	return nil
}
