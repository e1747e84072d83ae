// Package server wires studybank and creates the MCP server instance.
//
// This is the composition root: it opens the bank, runs corpus import and
// legacy history migration strictly before any tool can be served, and
// registers the study tools. No business logic lives here, only wiring.
package server

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/sharoushi/studybank/internal/assets"
	"github.com/sharoushi/studybank/internal/bank"
	"github.com/sharoushi/studybank/internal/config"
	"github.com/sharoushi/studybank/internal/corpus"
	"github.com/sharoushi/studybank/internal/engine"
	"github.com/sharoushi/studybank/internal/legacy"
	"github.com/sharoushi/studybank/internal/prefs"
	"github.com/sharoushi/studybank/internal/stats"
	"github.com/sharoushi/studybank/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

func noop() {}

// New creates and configures the MCP server with all study tools
// registered. Corpus import and history migration complete (or fail and
// degrade) before the server exists, so no tool ever observes an
// in-flight import.
//
// The returned cleanup function closes the bank and must be called on
// shutdown (typically via defer). It is always non-nil.
func New(cfg *config.Config, log *zap.Logger) (*server.MCPServer, func(), error) {
	store, err := bank.Open(bank.Config{DataDir: cfg.DataDir}, log)
	if err != nil {
		return nil, noop, fmt.Errorf("opening question bank: %w", err)
	}

	// --- One-time data loads, strictly before serving ---
	//
	// An import failure is non-fatal: the tools keep working against an
	// empty bank and return empty results.

	src := assets.NewDirSource(cfg.AssetDir)

	importer := corpus.New(store, src, cfg.CorpusCandidates, log)
	if err := importer.ImportIfNeeded(); err != nil {
		log.Error("corpus import failed, serving existing data", zap.Error(err))
	}

	flags := prefs.NewFileStore(cfg.DataDir)
	migrator := legacy.NewMigrator(store, src, flags, log)
	migrator.UseAssets(cfg.BookmarkAsset, cfg.WeakAsset)
	if err := migrator.MigrateIfNeeded(); err != nil {
		log.Error("history migration failed, will retry next start", zap.Error(err))
	}

	eng := engine.New(store, log)
	agg := stats.New(store)

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"studybank",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register study tools ---

	subjectsTool := tools.NewSubjectsTool(store)
	s.AddTool(subjectsTool.Definition(), subjectsTool.Handle)

	listTool := tools.NewListTool(eng)
	s.AddTool(listTool.Definition(), listTool.Handle)

	bookmarksTool := tools.NewBookmarksTool(eng)
	s.AddTool(bookmarksTool.Definition(), bookmarksTool.Handle)

	weakTool := tools.NewWeakTool(eng, cfg.WeakDays, cfg.WeakMinErrors)
	s.AddTool(weakTool.Definition(), weakTool.Handle)

	searchTool := tools.NewSearchTool(eng)
	s.AddTool(searchTool.Definition(), searchTool.Handle)

	drawTool := tools.NewDrawTool(eng, cfg.TestLimit)
	s.AddTool(drawTool.Definition(), drawTool.Handle)

	submitTool := tools.NewSubmitTool(eng)
	s.AddTool(submitTool.Definition(), submitTool.Handle)

	toggleTool := tools.NewToggleTool(eng)
	s.AddTool(toggleTool.Definition(), toggleTool.Handle)

	statsTool := tools.NewStatsTool(agg)
	s.AddTool(statsTool.Definition(), statsTool.Handle)

	cleanup := func() {
		eng.Shutdown()
		if err := store.Close(); err != nil {
			log.Warn("closing question bank", zap.Error(err))
		}
	}
	return s, cleanup, nil
}

func serverInstructions() string {
	return `studybank serves a bank of past social-insurance-consultant exam
questions. Start with subject_list to see the subjects, then question_list,
question_search or test_draw to pick questions. Record answers with
answer_submit, mark questions with bookmark_toggle, and review progress
with question_weak and study_stats.`
}
