package inspect

import (
	"context"
	"encoding/json"

	"github.com/teranos/qntx-github/logger"
)

// conflictStatus checks the PR's merge state.
// Retrieval failures produce a status with the Error field set and
// HasConflicts false: an unreachable API is not evidence of conflicts.
func (i *Inspector) conflictStatus(ctx context.Context, pr string) *ConflictStatus {
	result, err := i.runner.Run(ctx, "pr", "view", pr,
		"--json", "mergeable,mergeStateStatus,baseRefName,headRefName")
	if err != nil || result.Failed() {
		i.logger.Warnw("Merge state fetch failed", logger.FieldPR, pr)
		return &ConflictStatus{Error: "Failed to fetch merge state"}
	}

	var data struct {
		Mergeable        json.RawMessage `json:"mergeable"`
		MergeStateStatus string          `json:"mergeStateStatus"`
		BaseRefName      string          `json:"baseRefName"`
		HeadRefName      string          `json:"headRefName"`
	}
	if err := json.Unmarshal([]byte(result.Stdout), &data); err != nil {
		return &ConflictStatus{Error: "Failed to parse merge state JSON"}
	}

	hasConflicts, mergeable := normalizeMergeable(data.Mergeable)

	mergeState := data.MergeStateStatus
	if mergeState == "" {
		mergeState = "UNKNOWN"
	}
	// DIRTY means the merge commit cannot be created regardless of what
	// the mergeable field claims
	if mergeState == "DIRTY" {
		hasConflicts = true
	}

	return &ConflictStatus{
		HasConflicts:     hasConflicts,
		Mergeable:        mergeable,
		MergeStateStatus: mergeState,
		BaseRefName:      data.BaseRefName,
		HeadRefName:      data.HeadRefName,
	}
}

// normalizeMergeable handles the two shapes gh has used for the
// mergeable field: older releases report a boolean, newer ones a
// MERGEABLE/CONFLICTING/UNKNOWN string.
func normalizeMergeable(raw json.RawMessage) (hasConflicts bool, display string) {
	if len(raw) == 0 || string(raw) == "null" {
		// GitHub is still computing mergeability
		return false, "UNKNOWN"
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		if b {
			return false, "MERGEABLE"
		}
		return true, "CONFLICTING"
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s == "CONFLICTING", s
	}

	return false, "UNKNOWN"
}
