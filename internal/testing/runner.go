// Package testing provides shared test helpers for qntx-github.
package testing

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/teranos/qntx-github/gh"
)

// stub pairs an argument prefix with a canned gh result
type stub struct {
	prefix string
	result gh.Result
	raw    []byte
	err    error
}

// FakeRunner implements gh.Runner against canned output.
//
// Stubs are matched by prefix of the space-joined argument list, in
// registration order. GraphQL invocations carry the full query text in
// their arguments, so exact matching would make tests unreadable.
//
//	runner := qntxtest.NewFakeRunner(t)
//	runner.Stub("pr view 42 --json mergeable", gh.Result{Stdout: `{...}`})
type FakeRunner struct {
	t     *testing.T
	mu    sync.Mutex
	stubs []stub
	calls []string
}

// NewFakeRunner creates a FakeRunner that fails the test on any
// invocation without a matching stub.
func NewFakeRunner(t *testing.T) *FakeRunner {
	t.Helper()
	return &FakeRunner{t: t}
}

// Stub registers a canned result for invocations starting with prefix
func (f *FakeRunner) Stub(prefix string, result gh.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stubs = append(f.stubs, stub{prefix: prefix, result: result})
}

// StubRaw registers a canned raw-bytes result (job log endpoints)
func (f *FakeRunner) StubRaw(prefix string, exitCode int, payload []byte, stderr string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stubs = append(f.stubs, stub{
		prefix: prefix,
		result: gh.Result{ExitCode: exitCode, Stderr: stderr},
		raw:    payload,
	})
}

// StubErr registers an error (gh could not be started)
func (f *FakeRunner) StubErr(prefix string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stubs = append(f.stubs, stub{prefix: prefix, err: err})
}

// Run implements gh.Runner
func (f *FakeRunner) Run(ctx context.Context, args ...string) (gh.Result, error) {
	s := f.match(args)
	if s.err != nil {
		return gh.Result{}, s.err
	}
	return s.result, nil
}

// RunRaw implements gh.Runner
func (f *FakeRunner) RunRaw(ctx context.Context, args ...string) (int, []byte, string, error) {
	s := f.match(args)
	if s.err != nil {
		return 0, nil, "", s.err
	}
	payload := s.raw
	if payload == nil {
		payload = []byte(s.result.Stdout)
	}
	return s.result.ExitCode, payload, s.result.Stderr, nil
}

// Calls returns the joined argument list of every invocation so far
func (f *FakeRunner) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.calls...)
}

// CallCount returns how many invocations matched the given prefix
func (f *FakeRunner) CallCount(prefix string) int {
	count := 0
	for _, call := range f.Calls() {
		if strings.HasPrefix(call, prefix) {
			count++
		}
	}
	return count
}

func (f *FakeRunner) match(args []string) stub {
	joined := strings.Join(args, " ")

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, joined)

	for _, s := range f.stubs {
		if strings.HasPrefix(joined, s.prefix) {
			return s
		}
	}

	f.t.Fatalf("unexpected gh invocation: %s", joined)
	return stub{}
}
