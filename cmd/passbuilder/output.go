package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// outputFormat selects how command results are written to stdout.
type outputFormat string

const (
	outputText outputFormat = "text"
	outputJSON outputFormat = "json"
	outputYAML outputFormat = "yaml"
)

func parseOutputFormat(s string) (outputFormat, error) {
	switch f := outputFormat(s); f {
	case outputText, outputJSON, outputYAML:
		return f, nil
	case "":
		return outputText, nil
	default:
		return "", oops.Code("ARGUMENT_INVALID").
			With("flag", "output").
			Errorf("output must be text, json or yaml, got %q", s)
	}
}

// render writes v in the requested format.  text is called for the plain
// text form so each command controls its human-readable layout.
func render(w io.Writer, format outputFormat, v any, text func(io.Writer) error) error {
	var err error
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err = enc.Encode(v)
		if err == nil {
			err = enc.Close()
		}
	default:
		err = text(w)
	}
	if err != nil {
		return oops.Code("OUTPUT_FAILED").With("format", format).Wrap(err)
	}
	return nil
}

// printLine is the text renderer for results that are a single value.
func printLine(v any) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := fmt.Fprintln(w, v)
		return err
	}
}
