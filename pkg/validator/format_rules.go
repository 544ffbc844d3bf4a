package validator

import (
	"net/url"
	"strings"
)

// ValidURL validates that a string parses as an absolute URL with a host.
func ValidURL(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if strings.TrimSpace(value) == "" {
				return false
			}
			u, err := url.Parse(value)
			if err != nil {
				return false
			}
			return u.Scheme != "" && u.Host != ""
		},
		Error: ValidationError{
			Field:   field,
			Message: "must be a valid URL",
		},
	}
}
