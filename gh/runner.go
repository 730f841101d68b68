package gh

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/qntx-github/errors"
	"github.com/teranos/qntx-github/logger"
)

// Result holds the outcome of a gh invocation.
// A non-zero ExitCode is not an error at this layer: callers decide
// whether a failed invocation is fatal, retryable, or informative
// (gh pr checks exits non-zero when checks fail).
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Failed reports whether the invocation exited non-zero
func (r Result) Failed() bool {
	return r.ExitCode != 0
}

// Message returns stderr, falling back to stdout, trimmed for display
func (r Result) Message() string {
	if msg := strings.TrimSpace(r.Stderr); msg != "" {
		return msg
	}
	return strings.TrimSpace(r.Stdout)
}

// Runner executes gh commands. Implementations must be safe for
// sequential reuse; the inspector never calls Run concurrently.
type Runner interface {
	// Run executes gh with the given arguments and decodes stdout as text
	Run(ctx context.Context, args ...string) (Result, error)

	// RunRaw executes gh and returns stdout as raw bytes. Needed for
	// endpoints that may return binary payloads (job log zip archives).
	RunRaw(ctx context.Context, args ...string) (int, []byte, string, error)
}

// CLIOptions configures a CLIRunner
type CLIOptions struct {
	// Command overrides the base gh command, parsed with shell quoting
	// rules ("ssh buildhost gh" becomes ["ssh", "buildhost", "gh"]).
	// Empty means "gh".
	Command string

	// Token, when set, is exported as GH_TOKEN for every invocation
	Token string

	// RequestsPerMinute bounds invocations. 0 disables limiting.
	RequestsPerMinute int

	// Logger for per-invocation debug logging. Nil uses the global logger.
	Logger *zap.SugaredLogger
}

// CLIRunner runs the real gh binary with the working directory pinned
// to the repository root.
type CLIRunner struct {
	baseArgs []string
	dir      string
	token    string
	limiter  *rate.Limiter
	logger   *zap.SugaredLogger
}

// NewCLIRunner creates a runner rooted at dir
func NewCLIRunner(dir string, opts CLIOptions) (*CLIRunner, error) {
	command := opts.Command
	if command == "" {
		command = "gh"
	}

	baseArgs, err := shellquote.Split(command)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid gh command %q", command)
	}
	if len(baseArgs) == 0 {
		return nil, errors.Newf("empty gh command %q", command)
	}

	log := opts.Logger
	if log == nil {
		log = logger.ComponentLogger("gh")
	}

	var limiter *rate.Limiter
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(opts.RequestsPerMinute)/60.0), 1)
	}

	return &CLIRunner{
		baseArgs: baseArgs,
		dir:      dir,
		token:    opts.Token,
		limiter:  limiter,
		logger:   log,
	}, nil
}

// Run implements Runner
func (r *CLIRunner) Run(ctx context.Context, args ...string) (Result, error) {
	code, stdout, stderr, err := r.RunRaw(ctx, args...)
	if err != nil {
		return Result{}, err
	}
	return Result{ExitCode: code, Stdout: string(stdout), Stderr: stderr}, nil
}

// RunRaw implements Runner
func (r *CLIRunner) RunRaw(ctx context.Context, args ...string) (int, []byte, string, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return 0, nil, "", errors.Wrap(err, "rate limit wait interrupted")
		}
	}

	full := append(append([]string{}, r.baseArgs[1:]...), args...)
	cmd := exec.CommandContext(ctx, r.baseArgs[0], full...)
	cmd.Dir = r.dir
	if r.token != "" {
		cmd.Env = append(os.Environ(), "GH_TOKEN="+r.token)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// gh could not be started at all (not installed, bad command)
			return 0, nil, "", errors.WithHint(
				errors.Wrapf(errors.ErrGhCommand, "failed to run %s: %v", r.baseArgs[0], err),
				"install the GitHub CLI: https://cli.github.com")
		}
	}

	code := cmd.ProcessState.ExitCode()
	r.logger.Debugw("gh invocation",
		"args", argsForLog(args),
		logger.FieldDurationMS, elapsed.Milliseconds(),
		"exit_code", code)

	return code, stdout.Bytes(), stderr.String(), nil
}

// argsForLog truncates long argument lists (GraphQL queries) for debug logs
func argsForLog(args []string) string {
	joined := shellquote.Join(args...)
	if len(joined) > 200 {
		return joined[:200] + "..."
	}
	return joined
}

