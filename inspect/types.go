package inspect

// Report is the full inspection result for one pull request.
//
// Sections are present only for the modes that ran: a checks-only
// inspection carries no conflicts or review data. Empty-but-inspected
// sections serialize as empty arrays so consumers can distinguish
// "inspected, clean" from "not inspected".
type Report struct {
	PR                   string          `json:"pr"`
	Conflicts            *ConflictStatus `json:"conflicts,omitempty"`
	ChangeRequests       []ChangeRequest `json:"changeRequests,omitzero"`
	UnresolvedThreads    []ReviewThread  `json:"unresolvedThreads,omitzero"`
	ResolvedThreadsCount *int            `json:"resolvedThreadsCount,omitempty"`
	CIFailures           []CIFailure     `json:"ciFailures,omitzero"`
	CIError              string          `json:"ciError,omitempty"`
}

// HasIssues reports whether anything in the report needs attention.
// A CI fetch error is not an "issue" with the PR itself: CIError is
// reported in the summary but does not change the exit code.
func (r *Report) HasIssues() bool {
	if r.Conflicts != nil && r.Conflicts.HasConflicts {
		return true
	}
	return len(r.ChangeRequests) > 0 || len(r.UnresolvedThreads) > 0 || len(r.CIFailures) > 0
}

// ConflictStatus describes the PR's merge state
type ConflictStatus struct {
	HasConflicts     bool   `json:"hasConflicts"`
	Mergeable        string `json:"mergeable"`
	MergeStateStatus string `json:"mergeStateStatus"`
	BaseRefName      string `json:"baseRefName"`
	HeadRefName      string `json:"headRefName"`
	Error            string `json:"error,omitempty"`
}

// ChangeRequest is a review submitted with changes requested
type ChangeRequest struct {
	ID          int64  `json:"id"`
	Reviewer    string `json:"reviewer"`
	Body        string `json:"body"`
	SubmittedAt string `json:"submittedAt"`
	HTMLURL     string `json:"htmlUrl,omitempty"`
}

// ReviewThread is an unresolved review discussion anchored to a file
type ReviewThread struct {
	ID         string          `json:"id"`
	Path       string          `json:"path"`
	Line       *int            `json:"line"` // null for file-level or outdated anchors
	IsOutdated bool            `json:"isOutdated"`
	Comments   []ThreadComment `json:"comments"`
}

// ThreadComment is a single comment inside a review thread
type ThreadComment struct {
	Author    string `json:"author"`
	Body      string `json:"body"`
	CreatedAt string `json:"createdAt"`
}

// CIFailure statuses describing how far log retrieval got
const (
	CheckStatusOK             = "ok"             // Logs fetched, snippet extracted
	CheckStatusExternal       = "external"       // Not a GitHub Actions check, no logs to fetch
	CheckStatusLogPending     = "log_pending"    // Run still in progress, logs not available yet
	CheckStatusLogUnavailable = "log_unavailable" // Log retrieval failed
)

// CIFailure is one failing check with as much log context as retrievable
type CIFailure struct {
	Name       string   `json:"name"`
	DetailsURL string   `json:"detailsUrl"`
	RunID      string   `json:"runId,omitempty"`
	JobID      string   `json:"jobId,omitempty"`
	Status     string   `json:"status"`
	Note       string   `json:"note,omitempty"`
	Error      string   `json:"error,omitempty"`
	Run        *RunInfo `json:"run,omitempty"`
	LogSnippet string   `json:"logSnippet,omitempty"`
	LogTail    string   `json:"logTail,omitempty"`
}

// RunInfo is workflow-run metadata for a failing check
type RunInfo struct {
	Conclusion   string `json:"conclusion,omitempty"`
	Status       string `json:"status,omitempty"`
	WorkflowName string `json:"workflowName,omitempty"`
	Name         string `json:"name,omitempty"`
	Event        string `json:"event,omitempty"`
	HeadBranch   string `json:"headBranch,omitempty"`
	HeadSha      string `json:"headSha,omitempty"`
	URL          string `json:"url,omitempty"`
}
