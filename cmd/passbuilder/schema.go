package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/samber/oops"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hasbyte1/go-password-builder/hashing"
)

// schemaID is the $id of the generated config file schema.
const schemaID = "https://github.com/hasbyte1/go-password-builder/schemas/passbuilder.schema.json"

// FileConfig is the layout of the passbuilder config file.  It exists to
// generate the JSON Schema; loading goes through koanf.
type FileConfig struct {
	Profile  string                       `json:"profile,omitempty" jsonschema:"description=Profile used when --profile is not given"`
	Profiles map[string]hashing.RawConfig `json:"profiles,omitempty" jsonschema:"description=Named hashing configurations"`
	Salt     SaltFileConfig               `json:"salt,omitempty"`
	Log      LogFileConfig                `json:"log,omitempty"`
}

// SaltFileConfig configures salt generation.
type SaltFileConfig struct {
	Rounds int `json:"rounds,omitempty" jsonschema:"minimum=0,maximum=2147483647,description=Salt length in hex characters"`
}

// LogFileConfig configures diagnostics.
type LogFileConfig struct {
	Format string `json:"format,omitempty" jsonschema:"enum=json,enum=text"`
	Level  string `json:"level,omitempty" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
}

// GenerateSchema generates a JSON Schema from the FileConfig struct.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := r.Reflect(&FileConfig{})

	schema.ID = jsonschema.ID(schemaID)
	schema.Title = "passbuilder configuration"
	schema.Description = "Schema for passbuilder YAML or JSON config files"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}

// compiledSchema compiles the generated schema once per process.
var compiledSchema = sync.OnceValues(func() (*jschema.Schema, error) {
	schemaBytes, err := GenerateSchema()
	if err != nil {
		return nil, err
	}

	var schemaData any
	if err := json.Unmarshal(schemaBytes, &schemaData); err != nil {
		return nil, fmt.Errorf("failed to parse schema JSON: %w", err)
	}

	c := jschema.NewCompiler()
	if err := c.AddResource("schema.json", schemaData); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	sch, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return sch, nil
})

// ValidateConfig validates YAML or JSON config data against the schema.
// Unlike loading, unknown algorithm or encoding names fail here.
func ValidateConfig(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return oops.Code("CONFIG_INVALID").Wrapf(err, "invalid YAML")
	}
	if doc == nil {
		return oops.Code("CONFIG_INVALID").Errorf("config file is empty")
	}

	sch, err := compiledSchema()
	if err != nil {
		return oops.Code("SCHEMA_FAILED").Wrap(err)
	}
	if err := sch.Validate(toJSONTypes(doc)); err != nil {
		return oops.Code("CONFIG_INVALID").Wrapf(err, "schema validation failed")
	}
	return nil
}

// toJSONTypes converts YAML-decoded data to the types a JSON decoder would
// produce.
func toJSONTypes(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, v := range val {
			out[k] = toJSONTypes(v)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, v := range val {
			out[fmt.Sprint(k)] = toJSONTypes(v)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, v := range val {
			out[i] = toJSONTypes(v)
		}
		return out
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case uint64:
		return float64(val)
	default:
		return val
	}
}

// NewSchemaCmd creates the schema subcommand.
func NewSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := GenerateSchema()
			if err != nil {
				return oops.Code("SCHEMA_FAILED").Wrap(err)
			}
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), string(data)); err != nil {
				return oops.Code("OUTPUT_FAILED").Wrap(err)
			}
			return nil
		},
	}
}

// NewValidateCmd creates the validate subcommand.
func NewValidateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate a config file against the schema",
		Long: `Validates the file given with --config against the config file schema.
Does not load profiles or hash anything.  Exits with code 0 on success.

Stricter than loading: an unknown hashAlgorithm or hashDigest is an error here,
while the hashing library would only warn and fall back to the default.

  passbuilder validate --config passbuilder.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.configFile == "" {
				return oops.Code("ARGUMENT_INVALID").Hint("pass --config").Wrap(hashing.ErrMissingArgument)
			}
			data, err := os.ReadFile(opts.configFile)
			if err != nil {
				return oops.Code("CONFIG_LOAD_FAILED").With("path", opts.configFile).Wrap(err)
			}
			if err := ValidateConfig(data); err != nil {
				return oops.With("path", opts.configFile).Wrap(err)
			}
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: valid\n", opts.configFile); err != nil {
				return oops.Code("OUTPUT_FAILED").Wrap(err)
			}
			return nil
		},
	}
}
