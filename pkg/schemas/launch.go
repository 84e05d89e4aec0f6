// Package schemas holds the shape contracts for launch and parameter-config
// documents and evaluates parsed trees against them.
package schemas

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// LaunchDocument is the shape contract for ROS 2 YAML launch files:
// a single required launch key holding a list of entries.
type LaunchDocument struct {
	Launch []LaunchEntry `json:"launch" jsonschema:"required,minItems=1"`
}

// LaunchEntry is one element of the launch list. Exactly which member is
// set decides the entry kind; the schema keeps this lenient (an entry with
// no member is tolerated, unknown members are not).
type LaunchEntry struct {
	Arg        *ArgDecl         `json:"arg,omitempty"`
	Let        *LetDecl         `json:"let,omitempty"`
	Node       *NodeEntry       `json:"node,omitempty"`
	Include    *IncludeEntry    `json:"include,omitempty"`
	Executable *ExecutableEntry `json:"executable,omitempty"`
	Group      *GroupEntry      `json:"group,omitempty"`
	SetEnv     *SetEnvDecl      `json:"set_env,omitempty"`
}

// ArgDecl declares a launch argument.
type ArgDecl struct {
	Name        string `json:"name" jsonschema:"required"`
	Default     string `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

// LetDecl binds a value to a name for later $(var ...) references.
type LetDecl struct {
	Name  string `json:"name" jsonschema:"required"`
	Value string `json:"value" jsonschema:"required"`
}

// NodeEntry describes a node to run.
type NodeEntry struct {
	Pkg       string      `json:"pkg" jsonschema:"required"`
	Exec      string      `json:"exec" jsonschema:"required"`
	Name      string      `json:"name,omitempty"`
	Namespace string      `json:"namespace,omitempty"`
	Args      string      `json:"args,omitempty"`
	Output    string      `json:"output,omitempty"`
	Param     []ParamDecl `json:"param,omitempty"`
	Remap     []RemapDecl `json:"remap,omitempty"`
	Env       []EnvDecl   `json:"env,omitempty"`
}

// ParamDecl sets one parameter, either inline (name/value) or from a
// referenced parameter file (from).
type ParamDecl struct {
	Name  string `json:"name,omitempty"`
	Value any    `json:"value,omitempty"`
	From  string `json:"from,omitempty"`
	Sep   string `json:"sep,omitempty"`
}

// RemapDecl remaps a topic or service name.
type RemapDecl struct {
	From string `json:"from" jsonschema:"required"`
	To   string `json:"to" jsonschema:"required"`
}

// EnvDecl sets an environment variable for a node or executable.
type EnvDecl struct {
	Name  string `json:"name" jsonschema:"required"`
	Value string `json:"value" jsonschema:"required"`
}

// IncludeEntry pulls in another launch file.
type IncludeEntry struct {
	File string     `json:"file" jsonschema:"required"`
	Arg  []ArgValue `json:"arg,omitempty"`
}

// ArgValue passes an argument value into an included launch file.
type ArgValue struct {
	Name  string `json:"name" jsonschema:"required"`
	Value string `json:"value" jsonschema:"required"`
}

// ExecutableEntry runs an arbitrary executable.
type ExecutableEntry struct {
	Cmd    string    `json:"cmd" jsonschema:"required"`
	Cwd    string    `json:"cwd,omitempty"`
	Name   string    `json:"name,omitempty"`
	Args   string    `json:"args,omitempty"`
	Output string    `json:"output,omitempty"`
	Env    []EnvDecl `json:"env,omitempty"`
}

// GroupEntry scopes a set of child entries.
type GroupEntry struct {
	Scoped   bool          `json:"scoped,omitempty"`
	Children []LaunchEntry `json:"children,omitempty"`
}

// SetEnvDecl sets an environment variable for everything launched after it.
type SetEnvDecl struct {
	Name  string `json:"name" jsonschema:"required"`
	Value string `json:"value" jsonschema:"required"`
}

// GenerateLaunchSchema produces a JSON Schema Draft 2020-12 document from
// the LaunchDocument struct.
func GenerateLaunchSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false

	s := r.Reflect(&LaunchDocument{})
	s.ID = "https://github.com/ormasoftchile/launchlint/schemas/yaml_launch.json"
	s.Title = "ROS 2 YAML launch file"
	s.Description = "Shape contract for YAML launch documents"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal launch schema: %w", err)
	}
	return data, nil
}
