package inspect

import "strings"

// failureMarkers are matched case-insensitively against log lines to
// find the most relevant region of a long CI log
var failureMarkers = []string{
	"error",
	"fail",
	"failed",
	"traceback",
	"exception",
	"assert",
	"panic",
	"fatal",
	"timeout",
	"segmentation fault",
}

// extractFailureSnippet returns an excerpt of at most maxLines lines.
// When a failure marker is found the excerpt is centered on the LAST
// marker hit (later failures are usually the root report, earlier ones
// retries or warnings); otherwise the plain tail is returned and found
// is false.
func extractFailureSnippet(log string, maxLines, contextLines int) (snippet string, found bool) {
	if log == "" {
		return "", false
	}
	lines := strings.Split(strings.TrimRight(log, "\n"), "\n")

	idx := findFailureIndex(lines)
	if idx < 0 {
		return strings.Join(tailLines(lines, maxLines), "\n"), false
	}

	start := idx - contextLines
	if start < 0 {
		start = 0
	}
	end := idx + contextLines
	if end > len(lines) {
		end = len(lines)
	}
	window := lines[start:end]
	return strings.Join(tailLines(window, maxLines), "\n"), true
}

// findFailureIndex scans backward for the last line containing a
// failure marker
func findFailureIndex(lines []string) int {
	for i := len(lines) - 1; i >= 0; i-- {
		lowered := strings.ToLower(lines[i])
		for _, marker := range failureMarkers {
			if strings.Contains(lowered, marker) {
				return i
			}
		}
	}
	return -1
}

func tailLines(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}
