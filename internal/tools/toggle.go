package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sharoushi/studybank/internal/engine"
)

// ToggleTool handles the bookmark_toggle MCP tool.
type ToggleTool struct {
	engine *engine.Engine
}

// NewToggleTool creates a ToggleTool.
func NewToggleTool(eng *engine.Engine) *ToggleTool {
	return &ToggleTool{engine: eng}
}

// Definition returns the MCP tool definition for bookmark_toggle.
func (t *ToggleTool) Definition() mcp.Tool {
	return mcp.NewTool("bookmark_toggle",
		mcp.WithDescription(
			"Toggle the bookmark on a question: bookmarks it when unbookmarked, removes "+
				"the bookmark otherwise. A question never carries more than one bookmark.",
		),
		mcp.WithNumber("question_id",
			mcp.Required(),
			mcp.Description("Question id from a listing tool"),
		),
	)
}

// Handle processes the bookmark_toggle tool call.
func (t *ToggleTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := optIntArg(req, "question_id")
	if id == nil {
		return mcp.NewToolResultError("'question_id' is required"), nil
	}

	bookmarked, err := t.engine.ToggleBookmark(int64(*id))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("toggle failed: %v", err)), nil
	}
	if bookmarked {
		return mcp.NewToolResultText(fmt.Sprintf("Bookmarked question #%d.", *id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Removed bookmark from question #%d.", *id)), nil
}
