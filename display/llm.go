package display

import "os"

// IsLLMEnvironment returns true if running under a detected AI coding
// assistant. In that case JSON output is the default: assistants parse the
// report rather than read the sectioned text.
func IsLLMEnvironment() bool {
	// Check explicit LLM caller
	if os.Getenv("QNTX_CALLER") == "llm" {
		return true
	}

	return detectKnownLLMTools()
}

// detectKnownLLMTools checks for environment variables set by known LLM tools
func detectKnownLLMTools() bool {
	// Claude Code
	if os.Getenv("CLAUDECODE") != "" || os.Getenv("CLAUDE_CODE_ENTRYPOINT") != "" {
		return true
	}

	// Codex CLI
	if os.Getenv("CODEX_SANDBOX") != "" {
		return true
	}

	// Cursor
	if os.Getenv("CURSOR") != "" {
		return true
	}

	return false
}
