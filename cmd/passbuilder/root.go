package main

import (
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"
)

// globalOptions holds the persistent flags shared by every subcommand.
// Only flags the user actually set are layered over the config file.
type globalOptions struct {
	configFile string
	profile    string
	algorithm  string
	digest     string
	separator  string
	rounds     string
	logFormat  string
	logLevel   string
	output     string
}

// NewRootCmd creates the root command for the passbuilder CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newTracerProvider())
}

// newRootCmd creates the root command with subcommand spans started from tp.
func newRootCmd(tp trace.TracerProvider) *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "passbuilder",
		Short: "Salted HMAC password hashing",
		Long: `passbuilder produces and verifies salted HMAC password hashes of the form
<salt><separator><digest>.

Hashing profiles are read from a YAML or JSON config file; any profile value
can be overridden with --algorithm, --digest and --separator.`,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "config file path (YAML or JSON)")
	pf.StringVar(&opts.profile, "profile", "", "hashing profile to use (default: the profile named in the config file)")
	pf.StringVar(&opts.algorithm, "algorithm", "", "override the hash algorithm (sha256 or sha512)")
	pf.StringVar(&opts.digest, "digest", "", "override the digest encoding (base64, base64url, hex or binary)")
	pf.StringVar(&opts.separator, "separator", "", "override the salt/digest separator")
	pf.StringVar(&opts.rounds, "rounds", "", "salt length in hex characters (default 11)")
	pf.StringVar(&opts.logFormat, "log-format", "", "log format (json or text)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn or error)")
	pf.StringVarP(&opts.output, "output", "o", string(outputText), "output format (text, json or yaml)")

	cmd.AddCommand(NewSaltCmd(opts))
	cmd.AddCommand(NewHashCmd(opts))
	cmd.AddCommand(NewVerifyCmd(opts))
	cmd.AddCommand(NewInfoCmd(opts))
	cmd.AddCommand(NewRequestCmd(opts))
	cmd.AddCommand(NewSchemaCmd())
	cmd.AddCommand(NewValidateCmd(opts))
	traceCommands(cmd, tp)

	return cmd
}
