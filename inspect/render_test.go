package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func TestRenderTextCleanReport(t *testing.T) {
	report := &Report{
		PR: "42",
		Conflicts: &ConflictStatus{
			Mergeable:        "MERGEABLE",
			MergeStateStatus: "CLEAN",
			BaseRefName:      "main",
			HeadRefName:      "feature",
		},
		ChangeRequests:    []ChangeRequest{},
		UnresolvedThreads: []ReviewThread{},
		CIFailures:        []CIFailure{},
	}

	out := RenderText(report)
	assert.Contains(t, out, "PR #42: Comprehensive Check Results")
	assert.Contains(t, out, "MERGE CONFLICTS")
	assert.Contains(t, out, "CHANGE REQUESTS")
	assert.Contains(t, out, "UNRESOLVED REVIEW THREADS")
	assert.Contains(t, out, "CI FAILURES")
	assert.Contains(t, out, "All clear")
}

func TestRenderTextOmitsSectionsNotInspected(t *testing.T) {
	report := &Report{PR: "42", CIFailures: []CIFailure{}}

	out := RenderText(report)
	assert.NotContains(t, out, "MERGE CONFLICTS")
	assert.NotContains(t, out, "CHANGE REQUESTS")
	assert.Contains(t, out, "CI FAILURES")
}

func TestRenderTextIssues(t *testing.T) {
	report := &Report{
		PR: "https://github.com/teranos/qntx-github/pull/42",
		Conflicts: &ConflictStatus{
			HasConflicts:     true,
			Mergeable:        "CONFLICTING",
			MergeStateStatus: "DIRTY",
			BaseRefName:      "main",
			HeadRefName:      "feature",
		},
		ChangeRequests: []ChangeRequest{
			{ID: 1, Reviewer: "bob", Body: "needs tests\nand docs", SubmittedAt: "2026-08-02T11:00:00Z"},
		},
		UnresolvedThreads: []ReviewThread{
			{ID: "T_1", Path: "inspect/checks.go", Line: intPtr(12), Comments: []ThreadComment{
				{Author: "alice", Body: "rename this\nplease"},
			}},
			{ID: "T_2", Path: "README.md", IsOutdated: true},
		},
		ResolvedThreadsCount: intPtr(3),
		CIFailures: []CIFailure{
			{
				Name:       "test",
				DetailsURL: "https://github.com/teranos/qntx-github/actions/runs/101",
				Status:     CheckStatusOK,
				Run:        &RunInfo{WorkflowName: "CI", Event: "pull_request", HeadBranch: "feature"},
				LogSnippet: "panic: boom",
			},
			{Name: "deploy", Status: CheckStatusLogPending, Note: "Run is still in progress; logs not yet available"},
		},
	}

	out := RenderText(report)
	assert.Contains(t, out, "merging feature into main")
	assert.Contains(t, out, "bob requested changes")
	assert.Contains(t, out, "inspect/checks.go:12")
	assert.Contains(t, out, "alice: rename this [...]")
	assert.Contains(t, out, "README.md (outdated)")
	assert.Contains(t, out, "resolved 3 thread(s)")
	assert.Contains(t, out, "panic: boom")
	assert.Contains(t, out, "still in progress")
	assert.Contains(t, out, "Issues found: merge conflicts, 1 change request(s), 2 unresolved thread(s), 2 CI failure(s)")
}

func TestRenderTextCIError(t *testing.T) {
	report := &Report{PR: "42", CIError: "Failed to fetch CI checks"}

	out := RenderText(report)
	assert.Contains(t, out, "CI FAILURES")
	assert.Contains(t, out, "Failed to fetch CI checks")
	assert.Contains(t, out, "Issues found: CI status unavailable")
	assert.NotContains(t, out, "All clear")
}
