package validation

import "strings"

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func IntRange(field string, val, minVal, maxVal int, v Violations) {
	if val < minVal || val > maxVal {
		v[field] = "out_of_range"
	}
}

// OneOf checks enum membership; empty allowed list accepts anything.
func OneOf(field, value string, allowed []string, v Violations) {
	if len(allowed) == 0 {
		return
	}
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v[field] = "unrecognized_value"
}
