// Package slug derives URL-safe project identifiers from display names.
package slug
