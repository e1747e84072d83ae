package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sharoushi/studybank/internal/stats"
)

// StatsTool handles the study_stats MCP tool.
type StatsTool struct {
	agg *stats.Aggregator
}

// NewStatsTool creates a StatsTool with the given aggregator.
func NewStatsTool(agg *stats.Aggregator) *StatsTool {
	return &StatsTool{agg: agg}
}

// Definition returns the MCP tool definition for study_stats.
func (t *StatsTool) Definition() mcp.Tool {
	return mcp.NewTool("study_stats",
		mcp.WithDescription(
			"Show study statistics: answered and correct counts per subject, and answer "+
				"counts per day.",
		),
	)
}

// Handle processes the study_stats tool call.
func (t *StatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	perSubject, err := t.agg.PerSubject()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get subject stats: %v", err)), nil
	}
	perDay, err := t.agg.PerDay()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get daily stats: %v", err)), nil
	}

	var b strings.Builder
	b.WriteString("## Study Statistics\n\n")

	if len(perSubject) == 0 {
		b.WriteString("No answers recorded yet.\n")
		return mcp.NewToolResultText(b.String()), nil
	}

	b.WriteString("Per subject:\n")
	for _, st := range perSubject {
		rate := 0.0
		if st.Total > 0 {
			rate = 100 * float64(st.Correct) / float64(st.Total)
		}
		fmt.Fprintf(&b, "  subject %2d: %d answered, %d correct (%.0f%%)\n",
			st.SubjectID, st.Total, st.Correct, rate)
	}

	b.WriteString("\nPer day:\n")
	for _, st := range perDay {
		fmt.Fprintf(&b, "  %s: %d answers\n", st.Date, st.Count)
	}
	return mcp.NewToolResultText(b.String()), nil
}
