package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sharoushi/studybank/internal/engine"
)

// ListTool handles the question_list MCP tool.
type ListTool struct {
	engine *engine.Engine
}

// NewListTool creates a ListTool.
func NewListTool(eng *engine.Engine) *ListTool {
	return &ListTool{engine: eng}
}

// Definition returns the MCP tool definition for question_list.
func (t *ListTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"List past exam questions in study order (newest year first, then question " +
				"number and limb). All filters are optional; omitted filters match everything.",
		),
	}
	opts = append(opts, filterParams()...)
	return mcp.NewTool("question_list", opts...)
}

// Handle processes the question_list tool call.
func (t *ListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	questions, err := t.engine.Questions(engine.FilterQuery{Filter: filterArg(req)})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing failed: %v", err)), nil
	}
	return mcp.NewToolResultText(formatQuestions(questions)), nil
}
