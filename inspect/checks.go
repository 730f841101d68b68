package inspect

import (
	"bytes"
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/teranos/qntx-github/errors"
	"github.com/teranos/qntx-github/logger"
)

// Primary field set for `gh pr checks --json`. Older gh releases
// reject some of these, so retrieval falls back to whatever the
// installed gh advertises.
var primaryCheckFields = []string{
	"name", "state", "conclusion", "detailsUrl", "startedAt", "completedAt",
}

var fallbackCheckFields = []string{
	"name", "state", "bucket", "link", "startedAt", "completedAt", "workflow",
}

var (
	failureConclusions = map[string]bool{
		"failure": true, "cancelled": true, "timed_out": true, "action_required": true,
	}
	failureStates = map[string]bool{
		"failure": true, "error": true, "cancelled": true, "timed_out": true, "action_required": true,
	}
	failureBuckets = map[string]bool{"fail": true}
)

var pendingLogMarkers = []string{
	"still in progress",
	"log will be available when it is complete",
}

var (
	runIDPattern    = regexp.MustCompile(`/actions/runs/(\d+)`)
	bareRunPattern  = regexp.MustCompile(`/runs/(\d+)`)
	jobIDPattern    = regexp.MustCompile(`/actions/runs/\d+/job/(\d+)`)
	bareJobPattern  = regexp.MustCompile(`/job/(\d+)`)
	availablePrefix = "Available fields:"
)

// checkEntry is the union of the primary and fallback field sets
type checkEntry struct {
	Name        string `json:"name"`
	State       string `json:"state"`
	Conclusion  string `json:"conclusion"`
	Bucket      string `json:"bucket"`
	DetailsURL  string `json:"detailsUrl"`
	Link        string `json:"link"`
	Workflow    string `json:"workflow"`
	StartedAt   string `json:"startedAt"`
	CompletedAt string `json:"completedAt"`
}

func (c checkEntry) isFailing() bool {
	if failureConclusions[strings.ToLower(c.Conclusion)] {
		return true
	}
	if failureStates[strings.ToLower(c.State)] {
		return true
	}
	return failureBuckets[strings.ToLower(c.Bucket)]
}

func (c checkEntry) detailsURL() string {
	if c.DetailsURL != "" {
		return c.DetailsURL
	}
	return c.Link
}

// ciFailures fetches the PR's checks and analyzes each failing one
func (i *Inspector) ciFailures(ctx context.Context, pr string, opts Options) ([]CIFailure, error) {
	checks, err := i.fetchChecks(ctx, pr)
	if err != nil {
		return nil, err
	}

	failures := []CIFailure{}
	for _, check := range checks {
		if !check.isFailing() {
			continue
		}
		i.logger.Debugw("Analyzing failed check", logger.FieldCheck, check.Name)
		failures = append(failures, i.analyzeCheck(ctx, check, opts))
	}
	return failures, nil
}

// fetchChecks runs `gh pr checks --json`, negotiating the field list
// down when the installed gh rejects the primary set. gh exits
// non-zero when any check failed, so exit codes are ignored as long
// as the output parses.
func (i *Inspector) fetchChecks(ctx context.Context, pr string) ([]checkEntry, error) {
	result, err := i.runner.Run(ctx, "pr", "checks", pr,
		"--json", strings.Join(primaryCheckFields, ","))
	if err != nil {
		return nil, err
	}

	var checks []checkEntry
	if jsonErr := json.Unmarshal([]byte(result.Stdout), &checks); jsonErr == nil {
		return checks, nil
	}

	available := parseAvailableFields(result.Stderr)
	if len(available) == 0 {
		return nil, errors.WrapGh(nil, result.Message(), "fetching PR checks")
	}

	usable := []string{}
	for _, field := range fallbackCheckFields {
		if available[field] {
			usable = append(usable, field)
		}
	}
	if len(usable) == 0 {
		return nil, errors.Wrap(errors.ErrBadResponse, "gh pr checks supports none of the expected fields")
	}

	i.logger.Debugw("Retrying checks with negotiated fields",
		logger.FieldPR, pr, logger.FieldCount, len(usable))

	result, err = i.runner.Run(ctx, "pr", "checks", pr, "--json", strings.Join(usable, ","))
	if err != nil {
		return nil, err
	}
	if jsonErr := json.Unmarshal([]byte(result.Stdout), &checks); jsonErr != nil {
		return nil, errors.WrapGh(jsonErr, result.Message(), "fetching PR checks")
	}
	return checks, nil
}

// parseAvailableFields extracts the field names gh lists after an
// "Available fields:" error, one per line
func parseAvailableFields(stderr string) map[string]bool {
	idx := strings.Index(stderr, availablePrefix)
	if idx < 0 {
		return nil
	}
	fields := map[string]bool{}
	for _, line := range strings.Split(stderr[idx+len(availablePrefix):], "\n") {
		field := strings.TrimSpace(line)
		if field != "" {
			fields[field] = true
		}
	}
	return fields
}

// analyzeCheck builds the failure record for one failing check:
// identifies the workflow run, fetches its metadata, and pulls a log
// excerpt around the failure
func (i *Inspector) analyzeCheck(ctx context.Context, check checkEntry, opts Options) CIFailure {
	failure := CIFailure{
		Name:       check.Name,
		DetailsURL: check.detailsURL(),
	}
	if failure.Name == "" {
		failure.Name = check.Workflow
	}

	failure.RunID = extractRunID(failure.DetailsURL)
	if failure.RunID == "" {
		failure.Status = CheckStatusExternal
		failure.Note = "External check; inspect via details URL"
		return failure
	}
	failure.JobID = extractJobID(failure.DetailsURL)

	if run, err := i.runInfo(ctx, failure.RunID); err == nil {
		failure.Run = run
	} else {
		i.logger.Warnw("Run metadata fetch failed",
			logger.FieldRunID, failure.RunID, logger.FieldError, err.Error())
	}

	i.attachLog(ctx, &failure, opts)
	return failure
}

func (i *Inspector) runInfo(ctx context.Context, runID string) (*RunInfo, error) {
	result, err := i.runner.Run(ctx, "run", "view", runID,
		"--json", "conclusion,status,workflowName,name,event,headBranch,headSha,url")
	if err != nil {
		return nil, err
	}
	if result.Failed() {
		return nil, errors.WrapGh(nil, result.Message(), "fetching run metadata")
	}
	var info RunInfo
	if err := json.Unmarshal([]byte(result.Stdout), &info); err != nil {
		return nil, errors.Wrap(err, "parsing run metadata")
	}
	return &info, nil
}

// attachLog fetches the check's log and attaches a failure excerpt.
// Job-scoped logs are preferred because run-level logs interleave
// every job; a failed job fetch falls back to the run log.
func (i *Inspector) attachLog(ctx context.Context, failure *CIFailure, opts Options) {
	log, status, note := i.fetchLog(ctx, failure.RunID, failure.JobID)
	if status != CheckStatusOK {
		failure.Status = status
		failure.Note = note
		return
	}

	failure.Status = CheckStatusOK
	// logSnippet always carries the excerpt; logTail marks that no
	// failure marker matched and the excerpt is just the log's end
	snippet, found := extractFailureSnippet(log, opts.MaxLines, opts.ContextLines)
	failure.LogSnippet = snippet
	if !found {
		failure.LogTail = snippet
	}
}

// fetchLog retrieves the log through RunRaw: log endpoints can hand
// back a binary zip archive instead of text, so detection has to
// happen on the bytes before any string conversion.
func (i *Inspector) fetchLog(ctx context.Context, runID, jobID string) (log, status, note string) {
	if jobID != "" {
		code, payload, stderr, err := i.runner.RunRaw(ctx, "run", "view", "--job", jobID, "--log")
		if err == nil && code == 0 {
			return classifyLog(payload, stderr)
		}
		i.logger.Debugw("Job log fetch failed, falling back to run log",
			logger.FieldJobID, jobID)
	}

	code, payload, stderr, err := i.runner.RunRaw(ctx, "run", "view", runID, "--log")
	if err != nil || code != 0 {
		if logPending(stderr) {
			return "", CheckStatusLogPending, "Run is still in progress; logs not yet available"
		}
		return "", CheckStatusLogUnavailable, "Could not fetch logs for this run"
	}
	return classifyLog(payload, stderr)
}

func classifyLog(payload []byte, stderr string) (log, status, note string) {
	// gh occasionally emits the raw log archive instead of text
	if bytes.HasPrefix(payload, []byte("PK")) {
		return "", CheckStatusLogUnavailable, "gh returned a zip archive instead of log text"
	}
	stdout := string(payload)
	if logPending(stdout) || logPending(stderr) {
		return "", CheckStatusLogPending, "Run is still in progress; logs not yet available"
	}
	return stdout, CheckStatusOK, ""
}

func logPending(s string) bool {
	lowered := strings.ToLower(s)
	for _, marker := range pendingLogMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

func extractRunID(url string) string {
	if m := runIDPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	if m := bareRunPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}

func extractJobID(url string) string {
	if m := jobIDPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	if m := bareJobPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}
