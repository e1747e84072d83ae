package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sharoushi/studybank/internal/engine"
)

// BookmarksTool handles the question_bookmarks MCP tool.
type BookmarksTool struct {
	engine *engine.Engine
}

// NewBookmarksTool creates a BookmarksTool.
func NewBookmarksTool(eng *engine.Engine) *BookmarksTool {
	return &BookmarksTool{engine: eng}
}

// Definition returns the MCP tool definition for question_bookmarks.
func (t *BookmarksTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"List bookmarked questions, most recently bookmarked first. " +
				"Accepts the same optional filters as question_list.",
		),
	}
	opts = append(opts, filterParams()...)
	return mcp.NewTool("question_bookmarks", opts...)
}

// Handle processes the question_bookmarks tool call.
func (t *BookmarksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	questions, err := t.engine.Questions(engine.BookmarkQuery{Filter: filterArg(req)})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("bookmark listing failed: %v", err)), nil
	}
	return mcp.NewToolResultText(formatQuestions(questions)), nil
}
