package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sharoushi/studybank/internal/engine"
)

// SubmitTool handles the answer_submit MCP tool.
type SubmitTool struct {
	engine *engine.Engine
}

// NewSubmitTool creates a SubmitTool.
func NewSubmitTool(eng *engine.Engine) *SubmitTool {
	return &SubmitTool{engine: eng}
}

// Definition returns the MCP tool definition for answer_submit.
func (t *SubmitTool) Definition() mcp.Tool {
	return mcp.NewTool("answer_submit",
		mcp.WithDescription(
			"Submit a true/false answer for a question. The verdict is recorded in the "+
				"answer history; questions without an authoritative answer give no verdict "+
				"and record nothing.",
		),
		mcp.WithNumber("question_id",
			mcp.Required(),
			mcp.Description("Question id from a listing tool"),
		),
		mcp.WithBoolean("answer",
			mcp.Required(),
			mcp.Description("The user's answer: true (correct statement) or false"),
		),
	)
}

// Handle processes the answer_submit tool call.
func (t *SubmitTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := optIntArg(req, "question_id")
	if id == nil {
		return mcp.NewToolResultError("'question_id' is required"), nil
	}
	answer, ok := req.GetArguments()["answer"].(bool)
	if !ok {
		return mcp.NewToolResultError("'answer' is required and must be a boolean"), nil
	}

	verdict, err := t.engine.SubmitAnswer(int64(*id), answer)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("submission failed: %v", err)), nil
	}
	if !verdict.Known {
		return mcp.NewToolResultText("No verdict: this question has no authoritative answer. Nothing was recorded."), nil
	}

	if verdict.IsCorrect {
		return mcp.NewToolResultText("Correct."), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Incorrect. The expected answer is %v.", verdict.Expected)), nil
}
