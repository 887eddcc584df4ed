// Package config holds the configuration names and defaults shared by the
// CLI, the web UI and the terminal browser.
package config

// Config file names, in lookup order.
const (
	ConfigFileName    = "bomscope.yaml"
	ConfigFileNameAlt = "bomscope.yml"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "BOMSCOPE_"

// Defaults.
const (
	DefaultStateFile = ".bomscope/state.db"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultUIPort    = 8765
	DefaultToastMS   = 3000
	DefaultPageSize  = 20
)
