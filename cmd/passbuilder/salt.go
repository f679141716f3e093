package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

type saltResult struct {
	Salt   string `json:"salt" yaml:"salt"`
	Rounds int    `json:"rounds" yaml:"rounds"`
}

// NewSaltCmd creates the salt subcommand.
func NewSaltCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "salt",
		Short: "Generate a random hexadecimal salt",
		Long: `Generates a random lowercase hexadecimal salt whose length equals the
configured rounds (--rounds or salt.rounds, default 11).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			return runSalt(cmd, a)
		},
	}
}

func runSalt(cmd *cobra.Command, a *app) error {
	salt, err := a.hasher.GenerateSalt(a.rounds)
	if err != nil {
		return oops.Code("ARGUMENT_INVALID").With("rounds", a.rounds).Wrap(err)
	}
	return render(cmd.OutOrStdout(), a.output, saltResult{Salt: salt, Rounds: a.rounds}, printLine(salt))
}
