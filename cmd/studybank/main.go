// Studybank: exam question bank MCP server
//
// Maintains a local corpus of past exam questions with the user's answer
// history and bookmarks, and serves study-mode queries over MCP stdio.
package main

import (
	"github.com/sharoushi/studybank/cmd/studybank/cmd"
)

func main() {
	cmd.Execute()
}
