package base

import (
	"fmt"
	"strings"
)

// FQName is the fully-qualified name of a project-scoped Contrail resource
type FQName struct {
	Domain  string
	Project string
	Name    string
}

// Slice returns the fq_name array as sent to the API: [domain, project, name]
func (f FQName) Slice() []string {
	return []string{f.Domain, f.Project, f.Name}
}

// String returns the colon-joined display form used by Contrail (domain:project:name)
func (f FQName) String() string {
	return strings.Join(f.Slice(), ":")
}

// IsZero reports whether no part of the name is set
func (f FQName) IsZero() bool {
	return f.Domain == "" && f.Project == "" && f.Name == ""
}

// ParseFQName parses an fq_name value decoded from JSON.
// Accepts []interface{} (from encoding/json) or []string and requires exactly three elements.
func ParseFQName(v interface{}) (FQName, error) {
	var parts []string
	switch arr := v.(type) {
	case []string:
		parts = arr
	case []interface{}:
		for _, item := range arr {
			s, ok := item.(string)
			if !ok {
				return FQName{}, fmt.Errorf("invalid fq_name element: %v", item)
			}
			parts = append(parts, s)
		}
	default:
		return FQName{}, fmt.Errorf("invalid fq_name: %v", v)
	}

	if len(parts) != 3 {
		return FQName{}, fmt.Errorf("invalid fq_name: expected 3 elements, got %d", len(parts))
	}
	return FQName{Domain: parts[0], Project: parts[1], Name: parts[2]}, nil
}

// ParseFQNameString parses the colon-joined form (domain:project:name)
func ParseFQNameString(s string) (FQName, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return FQName{}, fmt.Errorf("invalid fq_name: %s", s)
	}
	return FQName{Domain: parts[0], Project: parts[1], Name: parts[2]}, nil
}
