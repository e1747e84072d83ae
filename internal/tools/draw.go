package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sharoushi/studybank/internal/engine"
)

// DrawTool handles the test_draw MCP tool.
type DrawTool struct {
	engine *engine.Engine
	limit  int
}

// NewDrawTool creates a DrawTool. A non-positive default limit falls back
// to the engine's.
func NewDrawTool(eng *engine.Engine, limit int) *DrawTool {
	if limit <= 0 {
		limit = engine.DefaultTestLimit
	}
	return &DrawTool{engine: eng, limit: limit}
}

// Definition returns the MCP tool definition for test_draw.
func (t *DrawTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Draw a random practice test: a uniform sample of matching questions. " +
				"Every call is an independent fresh draw.",
		),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Sample size (default: %d)", t.limit)),
		),
	}
	opts = append(opts, filterParams()...)
	return mcp.NewTool("test_draw", opts...)
}

// Handle processes the test_draw tool call.
func (t *DrawTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := engine.TestQuery{
		Filter: filterArg(req),
		Limit:  intArg(req, "limit", t.limit),
	}

	questions, err := t.engine.Draw(q)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("test draw failed: %v", err)), nil
	}
	if len(questions) == 0 {
		return mcp.NewToolResultText("No questions matched the filters."), nil
	}
	return mcp.NewToolResultText(formatQuestions(questions)), nil
}
