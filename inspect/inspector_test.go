package inspect

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/qntx-github/gh"
	qntxtest "github.com/teranos/qntx-github/internal/testing"
)

const (
	threadsQueryPrefix  = "api graphql -f query=\nquery"
	resolveQueryPrefix  = "api graphql -f query=\nmutation"
	emptyThreadsPayload = `{"data":{"repository":{"pullRequest":{"reviewThreads":{"nodes":[]}}}}}`
)

func stubCleanPR(runner *qntxtest.FakeRunner) {
	runner.Stub("pr view 42 --json mergeable", gh.Result{
		Stdout: `{"mergeable":"MERGEABLE","mergeStateStatus":"CLEAN","baseRefName":"main","headRefName":"feature"}`,
	})
	runner.Stub("repo view --json nameWithOwner", gh.Result{
		Stdout: `{"nameWithOwner":"teranos/qntx-github"}`,
	})
	runner.Stub("api repos/teranos/qntx-github/pulls/42/reviews", gh.Result{Stdout: `[]`})
	runner.Stub(threadsQueryPrefix, gh.Result{Stdout: emptyThreadsPayload})
	runner.Stub("pr checks 42 --json", gh.Result{Stdout: `[]`})
}

func TestInspectCleanPR(t *testing.T) {
	runner := qntxtest.NewFakeRunner(t)
	stubCleanPR(runner)

	report, err := NewInspector(runner, nil).Inspect(context.Background(), "42", Options{})
	require.NoError(t, err)

	assert.False(t, report.HasIssues())
	require.NotNil(t, report.Conflicts)
	assert.False(t, report.Conflicts.HasConflicts)
	assert.Equal(t, "MERGEABLE", report.Conflicts.Mergeable)
	assert.Equal(t, "main", report.Conflicts.BaseRefName)
	assert.NotNil(t, report.ChangeRequests)
	assert.Empty(t, report.ChangeRequests)
	assert.NotNil(t, report.UnresolvedThreads)
	assert.NotNil(t, report.CIFailures)
}

func TestInspectCleanPRJSONShape(t *testing.T) {
	runner := qntxtest.NewFakeRunner(t)
	stubCleanPR(runner)

	report, err := NewInspector(runner, nil).Inspect(context.Background(), "42", Options{})
	require.NoError(t, err)

	payload, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))

	assert.Equal(t, "42", decoded["pr"])
	assert.Contains(t, decoded, "conflicts")
	// inspected-but-clean sections serialize as empty arrays
	assert.Equal(t, []any{}, decoded["changeRequests"])
	assert.Equal(t, []any{}, decoded["unresolvedThreads"])
	assert.Equal(t, []any{}, decoded["ciFailures"])
	assert.NotContains(t, decoded, "ciError")
	assert.NotContains(t, decoded, "resolvedThreadsCount")
}

func TestInspectModeGating(t *testing.T) {
	tests := []struct {
		name          string
		mode          Mode
		wantConflicts bool
		wantReviews   bool
		wantChecks    bool
	}{
		{"checks only", ModeChecks, false, false, true},
		{"conflicts only", ModeConflicts, true, false, false},
		{"reviews only", ModeReviews, false, true, false},
		{"all", ModeAll, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := qntxtest.NewFakeRunner(t)
			stubCleanPR(runner)

			report, err := NewInspector(runner, nil).Inspect(context.Background(), "42", Options{Mode: tt.mode})
			require.NoError(t, err)

			assert.Equal(t, tt.wantConflicts, report.Conflicts != nil)
			assert.Equal(t, tt.wantReviews, report.ChangeRequests != nil)
			assert.Equal(t, tt.wantChecks, report.CIFailures != nil)

			payload, err := json.Marshal(report)
			require.NoError(t, err)
			var decoded map[string]any
			require.NoError(t, json.Unmarshal(payload, &decoded))
			assert.Equal(t, tt.wantConflicts, hasKey(decoded, "conflicts"))
			assert.Equal(t, tt.wantReviews, hasKey(decoded, "changeRequests"))
			assert.Equal(t, tt.wantChecks, hasKey(decoded, "ciFailures"))
		})
	}
}

func hasKey(m map[string]any, key string) bool {
	_, ok := m[key]
	return ok
}

func TestConflictStatus(t *testing.T) {
	tests := []struct {
		name             string
		payload          string
		wantHasConflicts bool
		wantMergeable    string
		wantState        string
	}{
		{
			"string mergeable conflicting",
			`{"mergeable":"CONFLICTING","mergeStateStatus":"DIRTY","baseRefName":"main","headRefName":"fix"}`,
			true, "CONFLICTING", "DIRTY",
		},
		{
			"bool mergeable true",
			`{"mergeable":true,"mergeStateStatus":"CLEAN"}`,
			false, "MERGEABLE", "CLEAN",
		},
		{
			"bool mergeable false",
			`{"mergeable":false,"mergeStateStatus":"BLOCKED"}`,
			true, "CONFLICTING", "BLOCKED",
		},
		{
			"null mergeable still computing",
			`{"mergeable":null,"mergeStateStatus":"UNKNOWN"}`,
			false, "UNKNOWN", "UNKNOWN",
		},
		{
			"dirty state overrides mergeable",
			`{"mergeable":"MERGEABLE","mergeStateStatus":"DIRTY"}`,
			true, "MERGEABLE", "DIRTY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := qntxtest.NewFakeRunner(t)
			runner.Stub("pr view 7 --json mergeable", gh.Result{Stdout: tt.payload})

			status := NewInspector(runner, nil).conflictStatus(context.Background(), "7")
			assert.Equal(t, tt.wantHasConflicts, status.HasConflicts)
			assert.Equal(t, tt.wantMergeable, status.Mergeable)
			assert.Equal(t, tt.wantState, status.MergeStateStatus)
			assert.Empty(t, status.Error)
		})
	}
}

func TestConflictStatusFetchFailure(t *testing.T) {
	runner := qntxtest.NewFakeRunner(t)
	runner.Stub("pr view 7 --json mergeable", gh.Result{ExitCode: 1, Stderr: "HTTP 502"})

	status := NewInspector(runner, nil).conflictStatus(context.Background(), "7")
	assert.False(t, status.HasConflicts)
	assert.Equal(t, "Failed to fetch merge state", status.Error)
}

func TestFetchChangeRequestsFiltersState(t *testing.T) {
	runner := qntxtest.NewFakeRunner(t)
	runner.Stub("repo view --json nameWithOwner", gh.Result{
		Stdout: `{"nameWithOwner":"teranos/qntx-github"}`,
	})
	runner.Stub("api repos/teranos/qntx-github/pulls/42/reviews", gh.Result{Stdout: `[
		{"id":1,"user":{"login":"alice"},"body":"lgtm","state":"APPROVED","submitted_at":"2026-08-01T10:00:00Z"},
		{"id":2,"user":{"login":"bob"},"body":"needs tests","state":"CHANGES_REQUESTED","submitted_at":"2026-08-02T11:00:00Z"},
		{"id":3,"user":{"login":"carol"},"body":"","state":"COMMENTED","submitted_at":"2026-08-03T12:00:00Z"}
	]`})

	requests := NewInspector(runner, nil).fetchChangeRequests(context.Background(), "42")
	require.Len(t, requests, 1)
	assert.Equal(t, int64(2), requests[0].ID)
	assert.Equal(t, "bob", requests[0].Reviewer)
	assert.Equal(t, "needs tests", requests[0].Body)
}

func TestFetchUnresolvedThreads(t *testing.T) {
	runner := qntxtest.NewFakeRunner(t)
	runner.Stub("repo view --json nameWithOwner", gh.Result{
		Stdout: `{"nameWithOwner":"teranos/qntx-github"}`,
	})
	runner.Stub(threadsQueryPrefix, gh.Result{Stdout: `{"data":{"repository":{"pullRequest":{"reviewThreads":{"nodes":[
		{"id":"T_1","isResolved":true,"isOutdated":false,"path":"a.go","line":10,"comments":{"nodes":[]}},
		{"id":"T_2","isResolved":false,"isOutdated":true,"path":"b.go","line":null,"comments":{"nodes":[
			{"author":null,"body":"ghost comment","createdAt":"2026-08-01T10:00:00Z"},
			{"author":{"login":"alice"},"body":"please rename","createdAt":"2026-08-01T10:05:00Z"}
		]}}
	]}}}}}`})

	threads := NewInspector(runner, nil).fetchUnresolvedThreads(context.Background(), "42")
	require.Len(t, threads, 1)
	assert.Equal(t, "T_2", threads[0].ID)
	assert.True(t, threads[0].IsOutdated)
	assert.Nil(t, threads[0].Line)
	require.Len(t, threads[0].Comments, 2)
	// deleted accounts come back as null authors
	assert.Equal(t, "unknown", threads[0].Comments[0].Author)
	assert.Equal(t, "alice", threads[0].Comments[1].Author)
}

func TestResolveThreadsCountsAndConverges(t *testing.T) {
	runner := qntxtest.NewFakeRunner(t)
	runner.Stub(resolveQueryPrefix, gh.Result{Stdout: `{"data":{"resolveReviewThread":{"thread":{"id":"T_1"}}}}`})

	inspector := NewInspector(runner, nil)
	threads := []ReviewThread{{ID: "T_1"}, {ID: "T_2"}}

	resolved := inspector.resolveThreads(context.Background(), threads)
	assert.Equal(t, 2, resolved)
	assert.Equal(t, 2, runner.CallCount("api graphql"))

	// once everything is resolved there is nothing left to mutate
	resolved = inspector.resolveThreads(context.Background(), nil)
	assert.Equal(t, 0, resolved)
	assert.Equal(t, 2, runner.CallCount("api graphql"))
}

func TestAddCommentPostsEveryTime(t *testing.T) {
	runner := qntxtest.NewFakeRunner(t)
	runner.Stub("pr comment 42 -b", gh.Result{Stdout: "https://github.com/teranos/qntx-github/pull/42#issuecomment-1"})

	inspector := NewInspector(runner, nil)
	require.NoError(t, inspector.AddComment(context.Background(), "42", "CI is green"))
	require.NoError(t, inspector.AddComment(context.Background(), "42", "CI is green"))
	assert.Equal(t, 2, runner.CallCount("pr comment 42"))
}

func TestAddCommentFailure(t *testing.T) {
	runner := qntxtest.NewFakeRunner(t)
	runner.Stub("pr comment 42 -b", gh.Result{ExitCode: 1, Stderr: "HTTP 403"})

	err := NewInspector(runner, nil).AddComment(context.Background(), "42", "hello")
	require.Error(t, err)
}

func TestParseMode(t *testing.T) {
	for _, valid := range []string{"checks", "conflicts", "reviews", "all"} {
		mode, err := ParseMode(valid)
		require.NoError(t, err)
		assert.Equal(t, Mode(valid), mode)
	}

	_, err := ParseMode("everything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid mode")
}

func TestPRNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"142", 142, false},
		{"https://github.com/teranos/qntx-github/pull/142", 142, false},
		{"https://github.com/teranos/qntx-github/pull/142/", 142, false},
		{"not-a-pr", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := prNumber(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOptionsWithDefaults(t *testing.T) {
	opts := Options{}.withDefaults()
	assert.Equal(t, ModeAll, opts.Mode)
	assert.Equal(t, 160, opts.MaxLines)
	assert.Equal(t, 30, opts.ContextLines)

	opts = Options{Mode: ModeChecks, MaxLines: 20, ContextLines: 5}.withDefaults()
	assert.Equal(t, ModeChecks, opts.Mode)
	assert.Equal(t, 20, opts.MaxLines)
	assert.Equal(t, 5, opts.ContextLines)
}
