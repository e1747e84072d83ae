package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sharoushi/studybank/internal/engine"
)

// SearchTool handles the question_search MCP tool.
type SearchTool struct {
	engine *engine.Engine
}

// NewSearchTool creates a SearchTool.
func NewSearchTool(eng *engine.Engine) *SearchTool {
	return &SearchTool{engine: eng}
}

// Definition returns the MCP tool definition for question_search.
func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool("question_search",
		mcp.WithDescription(
			"Full-text search over question bodies, explanations and statute text. "+
				"Whitespace-separated terms are prefix-matched and combined with AND.",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search terms, e.g. 解雇 休業手当"),
		),
	)
}

// Handle processes the question_search tool call.
func (t *SearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")

	questions, err := t.engine.Questions(engine.SearchQuery{Text: query})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(questions) == 0 {
		return mcp.NewToolResultText("No questions matched the search terms."), nil
	}
	return mcp.NewToolResultText(formatQuestions(questions)), nil
}
