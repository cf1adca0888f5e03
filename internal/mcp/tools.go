package mcp

import "github.com/mark3labs/mcp-go/mcp"

var strategyEnum = mcp.Enum("heuristic", "linguistic")

var expandToolDef = mcp.NewTool("contraction_expand",
	mcp.WithDescription("Expand English contractions in a transcript (\"don't\" -> \"do not\"). "+
		"Ambiguous 's and 'd are resolved by the requested strategy; the result reports the strategy actually used "+
		"and a ledger of every rewritten form."),
	mcp.WithString("text", mcp.Required(), mcp.Description("Text to expand")),
	mcp.WithString("strategy", strategyEnum, mcp.Description("Disambiguation strategy (default from config)")),
	mcp.WithBoolean("preprocess", mcp.Description("Lowercase and strip punctuation first (default from config)")),
	mcp.WithBoolean("save", mcp.Description("Store the run in the local run log")),
	mcp.WithString("source", mcp.Description("Label stored with the run, e.g. a file name")),
)

var wordsToolDef = mcp.NewTool("contraction_words",
	mcp.WithDescription("Expand each word of a word-level transcript independently with the heuristic strategy."),
	mcp.WithArray("words", mcp.Required(), mcp.Items(map[string]any{"type": "string"}),
		mcp.Description("Recognised words in order")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var batchToolDef = mcp.NewTool("contraction_batch",
	mcp.WithDescription("Expand several transcript files concurrently. Failures are reported per file; "+
		"optionally writes '<name>: <text>' lines to a .txt file."),
	mcp.WithArray("paths", mcp.Required(), mcp.Items(map[string]any{"type": "string"}),
		mcp.Description("Transcript files to read")),
	mcp.WithString("strategy", strategyEnum, mcp.Description("Disambiguation strategy (default from config)")),
	mcp.WithBoolean("preprocess", mcp.Description("Lowercase and strip punctuation first (default from config)")),
	mcp.WithBoolean("save", mcp.Description("Store each run in the local run log")),
	mcp.WithString("out_path", mcp.Description("Transcript file to write (.txt, in an allowed directory)")),
)

var fetchToolDef = mcp.NewTool("run_fetch",
	mcp.WithDescription("Fetch a stored expansion run by ID."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Run ID")),
	mcp.WithBoolean("include_text", mcp.Description("Include original and expanded text (default true)")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var listToolDef = mcp.NewTool("run_list",
	mcp.WithDescription("List stored runs, newest first."),
	mcp.WithString("method", strategyEnum, mcp.Description("Filter by the method actually used")),
	mcp.WithString("source", mcp.Description("Filter by source label (case-insensitive)")),
	mcp.WithNumber("limit", mcp.Description("Max items (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Items to skip")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var deleteToolDef = mcp.NewTool("run_delete",
	mcp.WithDescription("Permanently delete a stored run."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Run ID")),
	mcp.WithDestructiveHintAnnotation(true),
)

var statsToolDef = mcp.NewTool("run_stats",
	mcp.WithDescription("Aggregate stored runs: totals, runs per method and the most expanded forms."),
	mcp.WithString("method", strategyEnum, mcp.Description("Filter by method")),
	mcp.WithString("source", mcp.Description("Filter by source label")),
	mcp.WithNumber("top", mcp.Description("Number of forms to report (default 10, max 100)")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var reportToolDef = mcp.NewTool("run_report",
	mcp.WithDescription("Render a stored run as a Markdown report, optionally with HTML."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Run ID")),
	mcp.WithBoolean("html", mcp.Description("Also return the report rendered as HTML")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var exportToolDef = mcp.NewTool("run_export",
	mcp.WithDescription("Export stored runs to a JSONL file (header line, then one run per line)."),
	mcp.WithString("path", mcp.Description("Output .jsonl path (default ~/.unclip/exports/<source|runs>-<timestamp>.jsonl)")),
	mcp.WithString("method", strategyEnum, mcp.Description("Filter by method")),
	mcp.WithString("source", mcp.Description("Filter by source label")),
)
