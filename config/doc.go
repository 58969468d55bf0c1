// Package config loads the YAML settings that pick crypto algorithms and
// chunk capacity.
package config
