// ABOUTME: Declared argument schemas for tools, validated before invocation
// ABOUTME: Explicit name/type/required specs; also rendered to JSON Schema for tools/list

package dispatch

import (
	"math"
)

// ArgType is the declared shape of a tool argument.
type ArgType string

const (
	ArgString  ArgType = "string"
	ArgInteger ArgType = "integer"
	ArgNumber  ArgType = "number"
	ArgBoolean ArgType = "boolean"
	// ArgPath is a string that names a filesystem path. The dispatcher
	// resolves it through its PathScope before the handler runs.
	ArgPath ArgType = "path"
)

// ArgSpec declares one argument of a tool.
type ArgSpec struct {
	Name        string
	Type        ArgType
	Description string
	Required    bool
}

// validateArgs checks args against the declared specs. Unknown names, missing
// required arguments, and mistyped values all fail with a validation Failure
// before any side effect.
func validateArgs(specs []ArgSpec, args map[string]any) *Failure {
	byName := make(map[string]ArgSpec, len(specs))
	for _, s := range specs {
		byName[s.Name] = s
	}

	for name := range args {
		if _, ok := byName[name]; !ok {
			return Failf(KindValidation, "unknown argument %q", name)
		}
	}
	for _, s := range specs {
		v, ok := args[s.Name]
		if !ok {
			if s.Required {
				return Failf(KindValidation, "missing required argument %q", s.Name)
			}
			continue
		}
		if fail := checkType(s, v); fail != nil {
			return fail
		}
	}
	return nil
}

func checkType(s ArgSpec, v any) *Failure {
	switch s.Type {
	case ArgString, ArgPath:
		if _, ok := v.(string); !ok {
			return Failf(KindValidation, "argument %q must be a string, got %T", s.Name, v)
		}
	case ArgInteger:
		switch n := v.(type) {
		case int:
		case float64:
			if n != math.Trunc(n) || math.IsInf(n, 0) || math.IsNaN(n) {
				return Failf(KindValidation, "argument %q must be an integer, got %v", s.Name, n)
			}
		default:
			return Failf(KindValidation, "argument %q must be an integer, got %T", s.Name, v)
		}
	case ArgNumber:
		switch v.(type) {
		case int, float64:
		default:
			return Failf(KindValidation, "argument %q must be a number, got %T", s.Name, v)
		}
	case ArgBoolean:
		if _, ok := v.(bool); !ok {
			return Failf(KindValidation, "argument %q must be a boolean, got %T", s.Name, v)
		}
	}
	return nil
}

// InputSchema renders the declared arguments as a JSON Schema object for the
// protocol's tool listing.
func (t *Tool) InputSchema() map[string]any {
	properties := make(map[string]any, len(t.Args))
	required := make([]string, 0, len(t.Args))
	for _, a := range t.Args {
		typ := string(a.Type)
		if a.Type == ArgPath {
			typ = string(ArgString)
		}
		properties[a.Name] = map[string]any{
			"type":        typ,
			"description": a.Description,
		}
		if a.Required {
			required = append(required, a.Name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
