// Package config provides configuration structures and utilities for nrcap.
// It defines the run options for the dimension command and the YAML
// scenario file format, including how scenario entries inherit defaults.
package config
