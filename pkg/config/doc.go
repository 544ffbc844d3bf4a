// Package config loads environment-tagged configuration structs, reading an
// optional .env file before the first parse.
package config
