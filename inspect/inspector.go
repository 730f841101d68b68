package inspect

import (
	"context"
	"regexp"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/qntx-github/am"
	"github.com/teranos/qntx-github/errors"
	"github.com/teranos/qntx-github/gh"
	"github.com/teranos/qntx-github/logger"
)

// Mode selects which inspections run
type Mode string

const (
	ModeChecks    Mode = "checks"
	ModeConflicts Mode = "conflicts"
	ModeReviews   Mode = "reviews"
	ModeAll       Mode = "all"
)

// ParseMode validates a --mode flag value
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeChecks, ModeConflicts, ModeReviews, ModeAll:
		return Mode(s), nil
	default:
		return "", errors.Newf("invalid mode %q (want checks, conflicts, reviews, or all)", s)
	}
}

func (m Mode) includesConflicts() bool { return m == ModeConflicts || m == ModeAll }
func (m Mode) includesReviews() bool   { return m == ModeReviews || m == ModeAll }
func (m Mode) includesChecks() bool    { return m == ModeChecks || m == ModeAll }

// Options configures a single inspection run
type Options struct {
	Mode           Mode
	MaxLines       int // Max lines per CI log excerpt
	ContextLines   int // Lines around a failure marker
	ResolveThreads bool
}

// withDefaults clamps options to usable values
func (o Options) withDefaults() Options {
	if o.Mode == "" {
		o.Mode = ModeAll
	}
	if o.MaxLines < 1 {
		o.MaxLines = am.DefaultMaxLines
	}
	if o.ContextLines < 1 {
		o.ContextLines = am.DefaultContextLines
	}
	return o
}

// Inspector runs PR inspections through a gh.Runner
type Inspector struct {
	runner gh.Runner
	logger *zap.SugaredLogger

	slug string // cached owner/name, resolved on first use
}

// NewInspector creates an Inspector. A nil log uses the global logger.
func NewInspector(runner gh.Runner, log *zap.SugaredLogger) *Inspector {
	if log == nil {
		log = logger.ComponentLogger("inspect")
	}
	return &Inspector{runner: runner, logger: log}
}

// Inspect runs the selected inspections against pr and assembles the report.
//
// Section-level retrieval problems degrade into the report (the
// conflicts error field, empty review lists, ciError) rather than
// aborting: a half-broken API should still produce the sections it can.
func (i *Inspector) Inspect(ctx context.Context, pr string, opts Options) (*Report, error) {
	opts = opts.withDefaults()
	start := time.Now()

	report := &Report{PR: pr}

	if opts.Mode.includesConflicts() {
		report.Conflicts = i.conflictStatus(ctx, pr)
	}

	if opts.Mode.includesReviews() {
		report.ChangeRequests = i.fetchChangeRequests(ctx, pr)
		report.UnresolvedThreads = i.fetchUnresolvedThreads(ctx, pr)

		if opts.ResolveThreads && len(report.UnresolvedThreads) > 0 {
			resolved := i.resolveThreads(ctx, report.UnresolvedThreads)
			report.ResolvedThreadsCount = &resolved
		}
	}

	if opts.Mode.includesChecks() {
		failures, err := i.ciFailures(ctx, pr, opts)
		if err != nil {
			report.CIError = "Failed to fetch CI checks"
			i.logger.Warnw("CI check fetch failed", logger.FieldPR, pr, logger.FieldError, err.Error())
		} else {
			report.CIFailures = failures
		}
	}

	i.logger.Infow("Inspection complete",
		logger.FieldPR, pr,
		logger.FieldMode, string(opts.Mode),
		logger.FieldDurationMS, time.Since(start).Milliseconds())

	return report, nil
}

// AddComment posts a comment on the PR. Deliberately not idempotent:
// each call posts a new comment.
func (i *Inspector) AddComment(ctx context.Context, pr, body string) error {
	result, err := i.runner.Run(ctx, "pr", "comment", pr, "-b", body)
	if err != nil {
		return err
	}
	if result.Failed() {
		return errors.WrapGh(nil, result.Message(), "adding PR comment")
	}
	i.logger.Infow("Comment added", logger.FieldPR, pr)
	return nil
}

// repoSlug resolves and caches the owner/name slug
func (i *Inspector) repoSlug(ctx context.Context) (string, error) {
	if i.slug != "" {
		return i.slug, nil
	}
	slug, err := gh.RepoSlug(ctx, i.runner)
	if err != nil {
		return "", err
	}
	i.slug = slug
	return slug, nil
}

var prNumberPattern = regexp.MustCompile(`(\d+)/?$`)

// prNumber extracts the numeric PR id from a number or URL reference.
// API paths and GraphQL variables need the bare number even though the
// pr-scoped gh subcommands accept URLs.
func prNumber(pr string) (int, error) {
	if n, err := strconv.Atoi(pr); err == nil {
		return n, nil
	}
	match := prNumberPattern.FindStringSubmatch(pr)
	if match == nil {
		return 0, errors.Newf("cannot extract PR number from %q", pr)
	}
	return strconv.Atoi(match[1])
}
