package inspect

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	headerRule  = "============================================================"
	sectionRule = "------------------------------------------------------------"
)

// RenderText formats the report for a human terminal. The layout is
// stable so it can be pasted into PR comments or issue updates.
func RenderText(report *Report) string {
	var b strings.Builder

	prLabel := strings.TrimPrefix(report.PR, "#")
	if n, err := prNumber(report.PR); err == nil {
		prLabel = strconv.Itoa(n)
	}

	fmt.Fprintf(&b, "\n%s\n", headerRule)
	fmt.Fprintf(&b, "PR #%s: Comprehensive Check Results\n", prLabel)
	fmt.Fprintf(&b, "%s\n", headerRule)

	if report.Conflicts != nil {
		renderConflicts(&b, report.Conflicts)
	}
	if report.ChangeRequests != nil {
		renderChangeRequests(&b, report.ChangeRequests)
	}
	if report.UnresolvedThreads != nil {
		renderThreads(&b, report.UnresolvedThreads, report.ResolvedThreadsCount)
	}
	if report.CIFailures != nil || report.CIError != "" {
		renderCIFailures(&b, report.CIFailures, report.CIError)
	}

	fmt.Fprintf(&b, "\n%s\n", headerRule)
	if report.HasIssues() || report.CIError != "" {
		fmt.Fprintf(&b, "Issues found: %s\n", strings.Join(issueSummary(report), ", "))
	} else {
		b.WriteString("All clear: no conflicts, change requests, unresolved threads, or CI failures\n")
	}
	fmt.Fprintf(&b, "%s\n", headerRule)

	return b.String()
}

func renderConflicts(b *strings.Builder, c *ConflictStatus) {
	sectionHeader(b, "MERGE CONFLICTS")
	switch {
	case c.Error != "":
		fmt.Fprintf(b, "  ? %s\n", c.Error)
	case c.HasConflicts:
		fmt.Fprintf(b, "  x PR has merge conflicts (mergeable: %s, state: %s)\n",
			c.Mergeable, c.MergeStateStatus)
		fmt.Fprintf(b, "    merging %s into %s\n", c.HeadRefName, c.BaseRefName)
	default:
		fmt.Fprintf(b, "  ok No merge conflicts (mergeable: %s, state: %s)\n",
			c.Mergeable, c.MergeStateStatus)
	}
}

func renderChangeRequests(b *strings.Builder, requests []ChangeRequest) {
	sectionHeader(b, "CHANGE REQUESTS")
	if len(requests) == 0 {
		b.WriteString("  ok No outstanding change requests\n")
		return
	}
	for _, r := range requests {
		fmt.Fprintf(b, "  x %s requested changes (%s)\n", r.Reviewer, r.SubmittedAt)
		if body := strings.TrimSpace(r.Body); body != "" {
			for _, line := range strings.Split(body, "\n") {
				fmt.Fprintf(b, "      %s\n", line)
			}
		}
	}
}

func renderThreads(b *strings.Builder, threads []ReviewThread, resolvedCount *int) {
	sectionHeader(b, "UNRESOLVED REVIEW THREADS")
	if len(threads) == 0 {
		b.WriteString("  ok No unresolved review threads\n")
	}
	for _, t := range threads {
		location := t.Path
		if t.Line != nil {
			location = fmt.Sprintf("%s:%d", t.Path, *t.Line)
		}
		suffix := ""
		if t.IsOutdated {
			suffix = " (outdated)"
		}
		fmt.Fprintf(b, "  x %s%s\n", location, suffix)
		for _, c := range t.Comments {
			fmt.Fprintf(b, "      %s: %s\n", c.Author, firstLine(c.Body))
		}
	}
	if resolvedCount != nil {
		fmt.Fprintf(b, "  resolved %d thread(s) this run\n", *resolvedCount)
	}
}

func renderCIFailures(b *strings.Builder, failures []CIFailure, ciError string) {
	sectionHeader(b, "CI FAILURES")
	if ciError != "" {
		fmt.Fprintf(b, "  ? %s\n", ciError)
		return
	}
	if len(failures) == 0 {
		b.WriteString("  ok All CI checks passing\n")
		return
	}
	for _, f := range failures {
		fmt.Fprintf(b, "  x %s\n", f.Name)
		if f.Run != nil {
			fmt.Fprintf(b, "      workflow: %s  event: %s  branch: %s\n",
				f.Run.WorkflowName, f.Run.Event, f.Run.HeadBranch)
		}
		if f.Note != "" {
			fmt.Fprintf(b, "      %s\n", f.Note)
		}
		if f.DetailsURL != "" {
			fmt.Fprintf(b, "      %s\n", f.DetailsURL)
		}
		excerpt := f.LogSnippet
		label := "log excerpt around failure"
		if excerpt == "" {
			excerpt = f.LogTail
			label = "log tail"
		}
		if excerpt != "" {
			fmt.Fprintf(b, "\n      --- %s ---\n", label)
			for _, line := range strings.Split(excerpt, "\n") {
				fmt.Fprintf(b, "      %s\n", line)
			}
		}
	}
}

func sectionHeader(b *strings.Builder, title string) {
	fmt.Fprintf(b, "\n%s\n%s\n", title, sectionRule)
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx] + " [...]"
	}
	return s
}

func issueSummary(r *Report) []string {
	issues := []string{}
	if r.Conflicts != nil && r.Conflicts.HasConflicts {
		issues = append(issues, "merge conflicts")
	}
	if n := len(r.ChangeRequests); n > 0 {
		issues = append(issues, fmt.Sprintf("%d change request(s)", n))
	}
	if n := len(r.UnresolvedThreads); n > 0 {
		issues = append(issues, fmt.Sprintf("%d unresolved thread(s)", n))
	}
	if n := len(r.CIFailures); n > 0 {
		issues = append(issues, fmt.Sprintf("%d CI failure(s)", n))
	}
	if r.CIError != "" {
		issues = append(issues, "CI status unavailable")
	}
	return issues
}
