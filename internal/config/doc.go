// Package config provides configuration loading and validation for the
// voicelink duplex voice transport. It handles YAML-based configuration
// with struct validation; a configuration error is the only fault class
// that may prevent the process from starting.
package config
