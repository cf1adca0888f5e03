package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/hpungsan/unclip/internal/config"
	"github.com/hpungsan/unclip/internal/contraction"
	"github.com/hpungsan/unclip/internal/db"
	"github.com/hpungsan/unclip/internal/logging"
	"github.com/hpungsan/unclip/internal/mcp"
	"github.com/hpungsan/unclip/internal/observe"
	"github.com/hpungsan/unclip/internal/tagger"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"expand": true, "words": true, "batch": true,
	"show": true, "list": true, "delete": true,
	"stats": true, "export": true, "report": true,
	"serve": true, "help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	// Known subcommand → CLI
	if cliCommands[arg] {
		return true
	}
	// --help or --version → CLI
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
              _ _
  _  _ _ _  __| (_)_ __
 | || | ' \/ _| | | '_ \
  \_,_|_||_\__|_|_| .__/
                  |_|

  Contraction expansion for speech-to-text transcripts

  Usage: unclip <command> [options]
         unclip --help

  MCP server mode requires piped input.`)
}

// newEngine builds the expansion engine. A tagger that fails to load leaves
// the engine heuristic-only.
func newEngine(log zerolog.Logger) *contraction.Engine {
	opts := []contraction.Option{
		contraction.WithObserver(observe.DefaultMetrics()),
		contraction.WithLogger(log),
	}
	t, err := tagger.Load()
	if err != nil {
		log.Warn().Err(err).Msg("part-of-speech tagger unavailable; linguistic strategy disabled")
	} else {
		opts = append(opts, contraction.WithTagger(t))
	}
	return contraction.New(opts...)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil, nil, config.DefaultConfig())
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}
	baseDir := filepath.Join(homeDir, ".unclip")

	cwd, err := os.Getwd()
	if err != nil {
		cwd = baseDir
	}
	cfg, err := config.LoadAll(baseDir, cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel, cfg.LogPretty, os.Stderr)

	database, err := db.Init(baseDir)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize database")
		os.Exit(1)
	}
	db.ConfigurePool(database, cfg)

	code := run(database, cfg, log)
	database.Close()
	os.Exit(code)
}

// run dispatches to the CLI or the MCP server and returns the exit code.
func run(database *sql.DB, cfg *config.Config, log zerolog.Logger) int {
	// Unknown argument + terminal → show error (don't start MCP server)
	if !isCLIMode() && len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'unclip --help' for usage.\n")
		return 1
	}

	engine := newEngine(log)

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(database, engine, cfg)
		if err := app.RunContext(log.WithContext(context.Background()), os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}

	// MCP server mode (default)
	if err := mcp.Run(database, engine, cfg, Version, log); err != nil {
		log.Error().Err(err).Msg("MCP server stopped")
		return 1
	}
	return 0
}
