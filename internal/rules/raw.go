package rules

import "fmt"

// RawRule is one attribute map decoded from a build-definition file. The
// core only interprets the "type", "name" and "buck_base_path" keys; every
// other key is owned by the factory for the rule's type.
type RawRule map[string]any

// Attribute keys the core reads. Every raw rule must carry TypeKey, NameKey
// and BasePathKey; DepsKey is optional.
const (
	TypeKey     = "type"
	NameKey     = "name"
	BasePathKey = "buck_base_path"
	DepsKey     = "deps"
)

// TypeName returns the rule-type tag. Missing or non-string is an error.
func (r RawRule) TypeName() (string, error) {
	return r.requiredString(TypeKey)
}

// ShortName returns the rule's name attribute. Missing or empty is an error.
func (r RawRule) ShortName() (string, error) {
	name, err := r.requiredString(NameKey)
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", fmt.Errorf("rule attribute %q must not be empty", NameKey)
	}
	return name, nil
}

// BasePath returns the rule's base path relative to the project root. The
// key must be present but may be empty for rules at the root.
func (r RawRule) BasePath() (string, error) {
	return r.requiredString(BasePathKey)
}

// String returns the string value for key, or "" when absent or not a
// string.
func (r RawRule) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Strings returns the list value for key coerced to strings. Both []string
// and []any (the shape the evaluator produces) are accepted.
func (r RawRule) Strings(key string) []string {
	switch v := r[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func (r RawRule) requiredString(key string) (string, error) {
	v, ok := r[key]
	if !ok {
		return "", fmt.Errorf("rule is missing required attribute %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("rule attribute %q must be a string, got %T", key, v)
	}
	return s, nil
}
