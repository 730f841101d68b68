package am

import (
	"github.com/spf13/viper"
)

// Inspection extraction defaults, matching the documented CLI defaults.
const (
	DefaultMaxLines     = 160
	DefaultContextLines = 30
)

// DefaultDirPermissions for the ~/.qntx config directory
const DefaultDirPermissions = 0o755

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// GitHub defaults
	v.SetDefault("github.command", "gh")
	v.SetDefault("github.token", "")
	v.SetDefault("github.requests_per_minute", 0) // No limiting unless configured

	// Inspection defaults
	v.SetDefault("inspect.max_lines", DefaultMaxLines)
	v.SetDefault("inspect.context_lines", DefaultContextLines)
}
