package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/hasbyte1/go-password-builder/hashing"
)

// Request operations.
const (
	opSalt   = "salt"
	opHash   = "hash"
	opVerify = "verify"
)

type requestResult struct {
	Op    string `json:"op" yaml:"op"`
	Salt  string `json:"salt,omitempty" yaml:"salt,omitempty"`
	Hash  string `json:"hash,omitempty" yaml:"hash,omitempty"`
	Valid *bool  `json:"valid,omitempty" yaml:"valid,omitempty"`
}

// NewRequestCmd creates the request subcommand.
func NewRequestCmd(opts *globalOptions) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "request",
		Short: "Run a JSON-encoded salt, hash or verify request",
		Long: `Reads a single JSON request from stdin (or --file) and runs it.

  {"op": "salt", "rounds": 16}
  {"op": "hash", "password": "pw", "salt": "s", "config": {"hashAlgorithm": "sha256"}}
  {"op": "verify", "password": "pw", "hash": "s.…", "config": null}

Arguments are validated as untyped values, so missing or mistyped fields are
reported precisely.  Without a "config" key the selected profile is used;
"config": null selects the library defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			data, err := readRequest(cmd, path)
			if err != nil {
				return err
			}
			res, err := runRequest(a, data)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.output, res, func(w io.Writer) error {
				switch {
				case res.Valid != nil:
					return printLine(*res.Valid)(w)
				case res.Hash != "":
					return printLine(res.Hash)(w)
				default:
					return printLine(res.Salt)(w)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "", "read the request from a file instead of stdin")

	return cmd
}

func readRequest(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, oops.Code("REQUEST_INVALID").With("source", "stdin").Wrap(err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the operator
	if err != nil {
		return nil, oops.Code("REQUEST_INVALID").With("path", path).Wrap(err)
	}
	return data, nil
}

// runRequest decodes one request document and dispatches it to the untyped
// hashing entry points.
func runRequest(a *app, data []byte) (requestResult, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var req map[string]any
	if err := dec.Decode(&req); err != nil {
		return requestResult{}, oops.Code("REQUEST_INVALID").Wrapf(err, "request must be a JSON object")
	}
	if req == nil {
		return requestResult{}, oops.Code("REQUEST_INVALID").Errorf("request must be a JSON object")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return requestResult{}, oops.Code("REQUEST_INVALID").Errorf("unexpected data after the request object")
	}

	op, _ := req["op"].(string)
	config, ok := req["config"]
	if !ok {
		config = a.hasher.Config().Raw()
	}

	switch op {
	case opSalt:
		rounds, ok := req["rounds"]
		if !ok {
			rounds = a.rounds
		}
		salt, err := hashing.GenerateSaltValue(rounds)
		if err != nil {
			return requestResult{}, requestError(op, err)
		}
		return requestResult{Op: op, Salt: salt}, nil

	case opHash:
		encoded, err := hashing.HashValue(req["password"], req["salt"], config)
		if err != nil {
			return requestResult{}, requestError(op, err)
		}
		return requestResult{Op: op, Hash: encoded}, nil

	case opVerify:
		valid, err := hashing.VerifyValue(req["password"], req["hash"], config)
		if err != nil {
			return requestResult{}, requestError(op, err)
		}
		return requestResult{Op: op, Valid: &valid}, nil

	default:
		return requestResult{}, oops.Code("REQUEST_INVALID").
			With("op", req["op"]).
			Errorf("op must be %q, %q or %q", opSalt, opHash, opVerify)
	}
}

// requestError keeps the library error reachable with errors.Is and tags the
// kind of failure for the operator.
func requestError(op string, err error) error {
	kind := "argument"
	switch {
	case errors.Is(err, hashing.ErrConfigurationType), errors.Is(err, hashing.ErrConfigurationFieldType):
		kind = "configuration"
	case errors.Is(err, hashing.ErrInvalidRoundsType), errors.Is(err, hashing.ErrInvalidRoundsRange):
		kind = "rounds"
	}
	return oops.Code("REQUEST_INVALID").With("op", op).With("kind", kind).Wrap(err)
}
