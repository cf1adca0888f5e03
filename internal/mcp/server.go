package mcp

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/hpungsan/unclip/internal/config"
	"github.com/hpungsan/unclip/internal/contraction"
)

// tool pairs a definition with the Handlers method that serves it.
type tool struct {
	def    mcp.Tool
	handle func(*Handlers) server.ToolHandlerFunc
}

var tools = []tool{
	{expandToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleExpand }},
	{wordsToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleWords }},
	{batchToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleBatch }},
	{fetchToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleFetch }},
	{listToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleList }},
	{deleteToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleDelete }},
	{statsToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleStats }},
	{reportToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleReport }},
	{exportToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleExport }},
}

// AllToolNames returns every tool name, sorted.
func AllToolNames() []string {
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.def.Name)
	}
	sort.Strings(names)
	return names
}

// ValidateDisabledTools returns the names that match no tool.
func ValidateDisabledTools(names []string) []string {
	known := make(map[string]bool, len(tools))
	for _, t := range tools {
		known[t.def.Name] = true
	}
	unknown := make([]string, 0)
	for _, name := range names {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates an MCP server with every tool not in cfg.DisabledTools.
func NewServer(db *sql.DB, engine *contraction.Engine, cfg *config.Config, version string, log zerolog.Logger) *server.MCPServer {
	s := server.NewMCPServer("unclip", version, server.WithToolCapabilities(true))
	h := NewHandlers(db, engine, cfg, log)

	disabled := make(map[string]bool, len(cfg.DisabledTools))
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}
	for _, t := range tools {
		if disabled[t.def.Name] {
			continue
		}
		s.AddTool(t.def, h.logged(t.def.Name, t.handle(h)))
	}
	return s
}

// logged puts the handler logger on the request context and records each
// call at debug level, or info when the tool reports an error.
func (h *Handlers) logged(name string, next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		res, err := next(h.log.WithContext(ctx), req)

		failed := err != nil || (res != nil && res.IsError)
		ev := h.log.Debug()
		if failed {
			ev = h.log.Info()
		}
		ev.Str("tool", name).Dur("elapsed", time.Since(start)).Bool("failed", failed).Msg("tool call")
		return res, err
	}
}

// Run serves the tools over stdio until the client disconnects.
func Run(db *sql.DB, engine *contraction.Engine, cfg *config.Config, version string, log zerolog.Logger) error {
	if unknown := ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		log.Warn().Strs("tools", unknown).Msg("unknown tools in disabled_tools")
	}
	log.Info().
		Str("version", version).
		Bool("tagger", engine.HasTagger()).
		Int("disabled_tools", len(cfg.DisabledTools)).
		Msg("starting MCP server on stdio")

	return server.ServeStdio(NewServer(db, engine, cfg, version, log))
}
