package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sharoushi/studybank/internal/bank"
)

// SubjectsTool handles the subject_list MCP tool.
type SubjectsTool struct {
	store *bank.Store
}

// NewSubjectsTool creates a SubjectsTool.
func NewSubjectsTool(store *bank.Store) *SubjectsTool {
	return &SubjectsTool{store: store}
}

// Definition returns the MCP tool definition for subject_list.
func (t *SubjectsTool) Definition() mcp.Tool {
	return mcp.NewTool("subject_list",
		mcp.WithDescription(
			"List the exam subjects with their ids, in study order. Use the ids as "+
				"subject_id filters in the question tools.",
		),
	)
}

// Handle processes the subject_list tool call.
func (t *SubjectsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	subjects, err := t.store.Subjects()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("subject listing failed: %v", err)), nil
	}
	if len(subjects) == 0 {
		return mcp.NewToolResultText("No subjects loaded. Has the corpus been imported?"), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d subjects:\n\n", len(subjects))
	for _, s := range subjects {
		fmt.Fprintf(&b, "  %2d  %s (%s)\n", s.ID, s.Name, s.ShortName)
	}
	return mcp.NewToolResultText(b.String()), nil
}
