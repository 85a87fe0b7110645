// Package config handles application configuration loading and validation.
//
// Configuration is read from a YAML file and validated using struct tags.
// Missing values fall back to the defaults in Default.
package config
