package main

import (
	"io"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/hasbyte1/go-password-builder/hashing"
)

// hashConfig holds configuration for the hash command.
type hashConfig struct {
	password      string
	passwordStdin bool
	salt          string
}

type hashResult struct {
	Hash    string `json:"hash" yaml:"hash"`
	Salt    string `json:"salt" yaml:"salt"`
	Profile string `json:"profile" yaml:"profile"`
}

// NewHashCmd creates the hash subcommand.
func NewHashCmd(opts *globalOptions) *cobra.Command {
	cfg := &hashConfig{}

	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Hash a password with the selected profile",
		Long: `Hashes a password with the selected profile.  Without --salt a new salt of
the configured rounds is generated.

  passbuilder hash --password hunter2
  echo hunter2 | passbuilder hash --password-stdin --profile legacy`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			return runHash(cmd, a, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.password, "password", "", "plaintext password")
	cmd.Flags().BoolVar(&cfg.passwordStdin, "password-stdin", false, "read the password from stdin")
	cmd.Flags().StringVar(&cfg.salt, "salt", "", "salt to use instead of a generated one")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")

	return cmd
}

func runHash(cmd *cobra.Command, a *app, cfg *hashConfig) error {
	password, err := readPassword(cmd, cfg.password, cfg.passwordStdin)
	if err != nil {
		return err
	}

	salt := cfg.salt
	if !cmd.Flags().Changed("salt") {
		salt, err = a.hasher.GenerateSalt(a.rounds)
		if err != nil {
			return oops.Code("ARGUMENT_INVALID").With("rounds", a.rounds).Wrap(err)
		}
	}

	encoded, err := a.manager.Make(password, salt)
	if err != nil {
		return oops.Code("HASH_FAILED").With("profile", a.profile).Wrap(err)
	}

	a.logger.Debug("password hashed", "salt_length", len(salt))
	res := hashResult{Hash: encoded, Salt: salt, Profile: string(a.profile)}
	return render(cmd.OutOrStdout(), a.output, res, printLine(encoded))
}

// readPassword returns the password from --password or, with fromStdin, the
// first line of the command's input.  Neither being set is a missing
// argument.
func readPassword(cmd *cobra.Command, flagValue string, fromStdin bool) (string, error) {
	var v any
	switch {
	case fromStdin:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", oops.Code("ARGUMENT_INVALID").With("source", "stdin").Wrap(err)
		}
		line, _, _ := strings.Cut(string(data), "\n")
		v = strings.TrimSuffix(line, "\r")
	case cmd.Flags().Changed("password"):
		v = flagValue
	}

	password, err := hashing.StringArg("password", v)
	if err != nil {
		return "", oops.Code("ARGUMENT_INVALID").
			Hint("pass --password or --password-stdin").
			Wrap(err)
	}
	return password, nil
}
