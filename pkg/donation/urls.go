package donation

import "strings"

// DefaultURLs builds the default success and cancel redirect URLs for a host
// application. The base URL is an explicit parameter; this package never
// reads ambient state such as the current page origin.
func DefaultURLs(baseURL string) (successURL, cancelURL string) {
	base := strings.TrimSuffix(baseURL, "/")
	return base + "/donation/success", base + "/donation/cancel"
}

// ResolveURLs picks the configured redirect URLs, falling back to the
// defaults derived from baseURL for any that are unset.
func (c Config) ResolveURLs(baseURL string) (successURL, cancelURL string) {
	successURL, cancelURL = DefaultURLs(baseURL)
	if c.SuccessURL != "" {
		successURL = c.SuccessURL
	}
	if c.CancelURL != "" {
		cancelURL = c.CancelURL
	}
	return successURL, cancelURL
}
