// Package tools provides the MCP tool handlers over the question bank.
//
// Each tool follows the same pattern:
// - A struct with its dependencies injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
//
// Tools read snapshots from the engine; live subscriptions are for
// embedding consumers, not for the request/response tool surface.
package tools

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sharoushi/studybank/internal/bank"
)

// intArg extracts an integer argument, returning defaultVal if the key is
// missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// optIntArg extracts an optional integer argument, nil when absent.
func optIntArg(req mcp.CallToolRequest, key string) *int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return nil
	}
	n := int(v)
	return &n
}

// optStringArg extracts an optional string argument, nil when absent or
// blank.
func optStringArg(req mcp.CallToolRequest, key string) *string {
	v, ok := req.GetArguments()[key].(string)
	if !ok || v == "" {
		return nil
	}
	return &v
}

// filterArg assembles the shared optional filter dimensions.
func filterArg(req mcp.CallToolRequest) bank.Filter {
	return bank.Filter{
		SubjectID:  optIntArg(req, "subject_id"),
		YearMin:    optIntArg(req, "year_min"),
		YearMax:    optIntArg(req, "year_max"),
		Difficulty: optStringArg(req, "difficulty"),
	}
}

// filterParams are the shared filter parameters of the listing tools.
func filterParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("subject_id",
			mcp.Description("Restrict to one subject id"),
		),
		mcp.WithNumber("year_min",
			mcp.Description("Lowest exam year to include"),
		),
		mcp.WithNumber("year_max",
			mcp.Description("Highest exam year to include"),
		),
		mcp.WithString("difficulty",
			mcp.Description("Restrict to one difficulty code"),
		),
	}
}

// formatQuestions renders a question list as tool result text.
func formatQuestions(questions []bank.Question) string {
	if len(questions) == 0 {
		return "No questions matched."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d questions:\n\n", len(questions))
	for i, q := range questions {
		fmt.Fprintf(&b, "[%d] #%d %s 問%d 肢%s (subject %d, difficulty %s)\n    %s\n",
			i+1, q.ID, q.YearJP, q.QuestionNum, q.Limb, q.SubjectID, q.Difficulty,
			truncate(q.Body, 200))
		if q.Expected == nil {
			b.WriteString("    expected answer: none recorded\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// truncate shortens s to at most n runes, appending an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
