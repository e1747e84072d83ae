package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sharoushi/studybank/internal/engine"
)

// WeakTool handles the question_weak MCP tool.
type WeakTool struct {
	engine    *engine.Engine
	days      int
	minErrors int
}

// NewWeakTool creates a WeakTool. Non-positive defaults fall back to the
// engine's.
func NewWeakTool(eng *engine.Engine, days, minErrors int) *WeakTool {
	if days <= 0 {
		days = engine.DefaultWeakDays
	}
	if minErrors <= 0 {
		minErrors = engine.DefaultWeakMinErrors
	}
	return &WeakTool{engine: eng, days: days, minErrors: minErrors}
}

// Definition returns the MCP tool definition for question_weak.
func (t *WeakTool) Definition() mcp.Tool {
	return mcp.NewTool("question_weak",
		mcp.WithDescription(
			"List weak questions: those answered incorrectly at least min_errors times "+
				"within the last days days, worst first. This mode takes no other filters.",
		),
		mcp.WithNumber("days",
			mcp.Description(fmt.Sprintf("Trailing window in days (default: %d)", t.days)),
		),
		mcp.WithNumber("min_errors",
			mcp.Description(fmt.Sprintf("Minimum incorrect answers in the window (default: %d)", t.minErrors)),
		),
	)
}

// Handle processes the question_weak tool call.
func (t *WeakTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := intArg(req, "days", t.days)
	minErrors := intArg(req, "min_errors", t.minErrors)
	if days <= 0 || minErrors <= 0 {
		return mcp.NewToolResultError("'days' and 'min_errors' must be positive"), nil
	}

	questions, err := t.engine.Questions(engine.WeakQuery{Days: days, MinErrors: minErrors})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("weak listing failed: %v", err)), nil
	}
	if len(questions) == 0 {
		return mcp.NewToolResultText("No weak questions in the window. Keep it up."), nil
	}
	return mcp.NewToolResultText(formatQuestions(questions)), nil
}
