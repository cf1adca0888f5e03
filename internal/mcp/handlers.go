package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"

	"github.com/hpungsan/unclip/internal/config"
	"github.com/hpungsan/unclip/internal/contraction"
	"github.com/hpungsan/unclip/internal/errors"
	"github.com/hpungsan/unclip/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db     *sql.DB
	engine *contraction.Engine
	cfg    *config.Config
	log    zerolog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, engine *contraction.Engine, cfg *config.Config, log zerolog.Logger) *Handlers {
	return &Handlers{db: db, engine: engine, cfg: cfg, log: log}
}

// Request types for each tool

// ExpandRequest represents the arguments for contraction_expand.
type ExpandRequest struct {
	Text       *string `json:"text"`
	Strategy   string  `json:"strategy,omitempty"`
	Preprocess *bool   `json:"preprocess,omitempty"`
	Save       bool    `json:"save,omitempty"`
	Source     *string `json:"source,omitempty"`
}

// WordsRequest represents the arguments for contraction_words.
type WordsRequest struct {
	Words []string `json:"words"`
}

// BatchRequest represents the arguments for contraction_batch.
type BatchRequest struct {
	Paths      []string `json:"paths"`
	Strategy   string   `json:"strategy,omitempty"`
	Preprocess *bool    `json:"preprocess,omitempty"`
	Save       bool     `json:"save,omitempty"`
	OutPath    string   `json:"out_path,omitempty"`
}

// FetchRequest represents the arguments for run_fetch.
type FetchRequest struct {
	ID          string `json:"id"`
	IncludeText *bool  `json:"include_text,omitempty"`
}

// ListRequest represents the arguments for run_list.
type ListRequest struct {
	Method string `json:"method,omitempty"`
	Source string `json:"source,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// DeleteRequest represents the arguments for run_delete.
type DeleteRequest struct {
	ID string `json:"id"`
}

// StatsRequest represents the arguments for run_stats.
type StatsRequest struct {
	Method string `json:"method,omitempty"`
	Source string `json:"source,omitempty"`
	Top    int    `json:"top,omitempty"`
}

// ReportRequest represents the arguments for run_report.
type ReportRequest struct {
	ID   string `json:"id"`
	HTML bool   `json:"html,omitempty"`
}

// ExportRequest represents the arguments for run_export.
type ExportRequest struct {
	Path   string `json:"path,omitempty"`
	Method string `json:"method,omitempty"`
	Source string `json:"source,omitempty"`
}

// Handler implementations

// HandleExpand handles the contraction_expand tool call.
func (h *Handlers) HandleExpand(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[ExpandRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Text == nil {
		return errorResult(errors.NewInvalidRequest("text is required")), nil
	}

	result, err := ops.Expand(ctx, h.db, h.engine, h.cfg, ops.ExpandInput{
		Text:       input.Text,
		Strategy:   input.Strategy,
		Source:     input.Source,
		Preprocess: input.Preprocess,
		Persist:    input.Save,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleWords handles the contraction_words tool call.
func (h *Handlers) HandleWords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[WordsRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Words == nil {
		return errorResult(errors.NewInvalidRequest("words is required")), nil
	}

	return successResult(ops.ExpandWords(h.engine, input.Words))
}

// HandleBatch handles the contraction_batch tool call.
func (h *Handlers) HandleBatch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[BatchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Batch(ctx, h.db, h.engine, h.cfg, ops.BatchInput{
		Paths:      input.Paths,
		Strategy:   input.Strategy,
		Preprocess: input.Preprocess,
		Persist:    input.Save,
		OutPath:    input.OutPath,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFetch handles the run_fetch tool call.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[FetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Fetch(ctx, h.db, ops.FetchInput{
		ID:          input.ID,
		IncludeText: input.IncludeText,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the run_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(ctx, h.db, ops.ListInput{
		Method: input.Method,
		Source: input.Source,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDelete handles the run_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Delete(ctx, h.db, ops.DeleteInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleStats handles the run_stats tool call.
func (h *Handlers) HandleStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[StatsRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Stats(ctx, h.db, ops.StatsInput{
		Method: input.Method,
		Source: input.Source,
		Top:    input.Top,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleReport handles the run_report tool call.
func (h *Handlers) HandleReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[ReportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Report(ctx, h.db, ops.ReportInput{ID: input.ID, HTML: input.HTML})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleExport handles the run_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(ctx, h.db, h.cfg, ops.ExportInput{
		Path:   input.Path,
		Method: input.Method,
		Source: input.Source,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if appErr, ok := err.(*errors.AppError); ok {
		errorObj := map[string]any{
			"code":    appErr.Code,
			"message": appErr.Message,
			"status":  appErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if appErr.Code != errors.ErrInternal && appErr.Details != nil {
			errorObj["details"] = appErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
