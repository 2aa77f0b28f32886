// CUE schema validation code
package config

import (
	"fmt"

	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
)

// Schema constrains the YAML configuration file.
const Schema = `
service_rate?:       number & >0
target_probability?: number & >0 & <1
max_servers?:        int & >=0
closed_hours?: [...int & >=0 & <=23]
hourly_load?: [...number & >=0]
capacity?:        int & >=0
wrap_up_seconds?: number & >=0
weekday?:         string
log?: {
	level?:  "debug" | "info" | "warn" | "error"
	format?: "json" | "text"
}
`

// ValidateWithCue validates YAML configuration bytes against Schema.
// filename is only used in error messages.
func ValidateWithCue(filename string, data []byte) error {
	ctx := cuecontext.New()

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return fmt.Errorf("cannot parse YAML config: %w", err)
	}
	configVal := ctx.BuildFile(file)
	if configVal.Err() != nil {
		return fmt.Errorf("cannot build YAML config: %w", configVal.Err())
	}

	schemaVal := ctx.CompileString(Schema)
	if schemaVal.Err() != nil {
		return fmt.Errorf("cannot compile CUE schema: %w", schemaVal.Err())
	}

	// Merge values with schema
	final := schemaVal.Unify(configVal)
	if final.Err() != nil {
		return fmt.Errorf("schema unify failed: %w", final.Err())
	}

	// Validate final structure
	if err := final.Validate(); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
