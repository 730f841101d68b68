package display

import (
	"github.com/spf13/cobra"
)

// ShouldOutputJSON determines if a command should output JSON based on flags and LLM detection
func ShouldOutputJSON(cmd *cobra.Command) bool {
	// Handle nil command gracefully (e.g., when called from the MCP server without command context)
	if cmd == nil {
		return IsLLMEnvironment()
	}

	// Check if --json flag was explicitly set
	if cmd.Flags().Changed("json") {
		jsonFlag, _ := cmd.Flags().GetBool("json")
		return jsonFlag
	}

	// If no explicit flag and we're in LLM environment, default to JSON
	return IsLLMEnvironment()
}
