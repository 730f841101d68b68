// Package am holds the qntx-github configuration ("I am").
//
// Configuration is read from ~/.qntx/github.toml, a project-local
// github.toml found by walking up from the working directory, and
// QNTX_GITHUB_* environment variables, in increasing precedence.
package am

// Config represents the qntx-github configuration
type Config struct {
	GitHub  GitHubConfig  `mapstructure:"github"`
	Inspect InspectConfig `mapstructure:"inspect"`
}

// GitHubConfig configures how the gh CLI is invoked
type GitHubConfig struct {
	// Command is the base command used to reach the gh CLI. Parsed with
	// shell quoting rules, so wrappers like "ssh buildhost gh" work.
	Command string `mapstructure:"command"`

	// Token is forwarded to gh via GH_TOKEN when set. Normally empty:
	// gh uses its own stored credentials.
	Token string `mapstructure:"token"`

	// RequestsPerMinute bounds gh invocations to stay under the API's
	// secondary rate limits. 0 disables limiting.
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
}

// InspectConfig configures report extraction limits
type InspectConfig struct {
	MaxLines     int `mapstructure:"max_lines"`     // Max lines per CI log excerpt (default: 160)
	ContextLines int `mapstructure:"context_lines"` // Lines around a failure marker (default: 30)
}
