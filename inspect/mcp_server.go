package inspect

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/teranos/qntx-github/display"
	"github.com/teranos/qntx-github/gh"
	"github.com/teranos/qntx-github/version"
)

// MCPServer exposes PR inspection over the Model Context Protocol so
// coding agents can query check status without shelling out themselves
type MCPServer struct {
	inspector *Inspector
	runner    gh.Runner
	server    *server.MCPServer
}

// NewMCPServer creates an MCP server backed by the given runner
func NewMCPServer(runner gh.Runner) *MCPServer {
	s := &MCPServer{
		inspector: NewInspector(runner, nil),
		runner:    runner,
	}

	s.server = server.NewMCPServer(
		"qntx-github",
		version.Get().Version,
		server.WithToolCapabilities(true),
	)
	s.registerTools()

	return s
}

// registerTools registers the PR inspection tools
func (s *MCPServer) registerTools() {
	inspectTool := mcp.NewTool("inspect_pr",
		mcp.WithDescription("Inspect a pull request for merge conflicts, change requests, unresolved review threads, and CI failures. Returns a JSON report."),
		mcp.WithString("pr",
			mcp.Description("PR number or URL (default: the current branch's PR)"),
		),
		mcp.WithString("mode",
			mcp.Description("Which inspections to run: checks, conflicts, reviews, or all (default: all)"),
		),
		mcp.WithNumber("max_lines",
			mcp.Description("Max lines per CI log excerpt (default: 160)"),
		),
		mcp.WithNumber("context",
			mcp.Description("Lines of context around a failure marker (default: 30)"),
		),
	)
	s.server.AddTool(inspectTool, s.handleInspect)

	resolveTool := mcp.NewTool("resolve_pr_threads",
		mcp.WithDescription("Mark every unresolved review thread on a pull request as resolved. Safe to repeat."),
		mcp.WithString("pr",
			mcp.Description("PR number or URL (default: the current branch's PR)"),
		),
	)
	s.server.AddTool(resolveTool, s.handleResolveThreads)

	commentTool := mcp.NewTool("add_pr_comment",
		mcp.WithDescription("Post a comment on a pull request. Each call posts a new comment."),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Comment body (Markdown)"),
		),
		mcp.WithString("pr",
			mcp.Description("PR number or URL (default: the current branch's PR)"),
		),
	)
	s.server.AddTool(commentTool, s.handleAddComment)
}

// handleInspect handles inspect_pr tool calls
func (s *MCPServer) handleInspect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pr, err := gh.ResolvePR(ctx, s.runner, request.GetString("pr", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve PR: %v", err)), nil
	}

	mode, err := ParseMode(request.GetString("mode", string(ModeAll)))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := Options{
		Mode:         mode,
		MaxLines:     request.GetInt("max_lines", 0),
		ContextLines: request.GetInt("context", 0),
	}

	report, err := s.inspector.Inspect(ctx, pr, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Inspection failed: %v", err)), nil
	}

	payload, err := display.MarshalJSON(report)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode report: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

// handleResolveThreads handles resolve_pr_threads tool calls
func (s *MCPServer) handleResolveThreads(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pr, err := gh.ResolvePR(ctx, s.runner, request.GetString("pr", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve PR: %v", err)), nil
	}

	threads := s.inspector.fetchUnresolvedThreads(ctx, pr)
	if len(threads) == 0 {
		return mcp.NewToolResultText("No unresolved threads"), nil
	}

	resolved := s.inspector.resolveThreads(ctx, threads)
	return mcp.NewToolResultText(fmt.Sprintf("Resolved %d of %d thread(s)", resolved, len(threads))), nil
}

// handleAddComment handles add_pr_comment tool calls
func (s *MCPServer) handleAddComment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body, err := request.RequireString("body")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	pr, err := gh.ResolvePR(ctx, s.runner, request.GetString("pr", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve PR: %v", err)), nil
	}

	if err := s.inspector.AddComment(ctx, pr, body); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to add comment: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Comment added to PR %s", pr)), nil
}

// Serve runs the MCP server on stdio until the client disconnects
func (s *MCPServer) Serve() error {
	return server.ServeStdio(s.server)
}
