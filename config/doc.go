// Package config handles loading and parsing of configuration from YAML files
// and environment variables. It defines the application configuration structure
// including server settings, the validation schedule, probe timeout, API rate
// limits and alert delivery.
package config
