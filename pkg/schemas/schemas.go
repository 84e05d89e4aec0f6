package schemas

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed config.json
var configSchemaJSON []byte

// ConfigSchemaJSON returns the embedded parameter-config schema document.
func ConfigSchemaJSON() []byte {
	return configSchemaJSON
}

// Checker evaluates parsed document trees against the launch and
// parameter-config schemas. Both schemas are compiled once at startup; a
// compile failure is fatal to the whole run.
type Checker struct {
	launch *sjsonschema.Schema
	config *sjsonschema.Schema
}

// NewChecker compiles both schemas.
func NewChecker() (*Checker, error) {
	launchJSON, err := GenerateLaunchSchema()
	if err != nil {
		return nil, err
	}

	launch, err := compile("yaml_launch.json", launchJSON)
	if err != nil {
		return nil, fmt.Errorf("launch schema: %w", err)
	}
	config, err := compile("yaml_config.json", configSchemaJSON)
	if err != nil {
		return nil, fmt.Errorf("config schema: %w", err)
	}
	return &Checker{launch: launch, config: config}, nil
}

func compile(name string, data []byte) (*sjsonschema.Schema, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	c := sjsonschema.NewCompiler()
	if err := c.AddResource(name, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	sch, err := c.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return sch, nil
}

// ValidateLaunch checks doc against the launch schema. doc must be a plain
// map/slice/scalar tree. One message per leaf violation, with the failing
// instance location appended.
func (c *Checker) ValidateLaunch(doc any) []string {
	return validate(c.launch, doc, "launch-schema")
}

// ValidateConfig checks doc against the parameter-config schema.
func (c *Checker) ValidateConfig(doc any) []string {
	return validate(c.config, doc, "config-schema")
}

func validate(sch *sjsonschema.Schema, doc any, name string) []string {
	err := sch.Validate(doc)
	if err == nil {
		return nil
	}

	ve, ok := err.(*sjsonschema.ValidationError)
	if !ok {
		return []string{fmt.Sprintf("%s validation error: %v", name, err)}
	}

	var msgs []string
	for _, cause := range flatten(ve) {
		msg := fmt.Sprintf("%s validation error: %v", name, cause.ErrorKind)
		if len(cause.InstanceLocation) > 0 {
			msg += fmt.Sprintf(" (at %s)", strings.Join(cause.InstanceLocation, "/"))
		}
		msgs = append(msgs, msg)
	}
	return msgs
}

// flatten recursively collects all leaf validation errors.
func flatten(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, flatten(cause)...)
	}
	return flat
}
