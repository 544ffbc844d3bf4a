package validator

import (
	"fmt"
	"regexp"
	"strings"
)

// MatchesRegex validates against custom patterns. Compiles regex on each call - cache externally for performance.
func MatchesRegex(field, value string, pattern string, description string) Rule {
	regex := regexp.MustCompile(pattern)
	return Rule{
		Check: func() bool {
			if strings.TrimSpace(value) == "" {
				return false
			}
			return regex.MatchString(value)
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must match %s pattern", description),
		},
	}
}
