package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/hpungsan/unclip/internal/config"
	"github.com/hpungsan/unclip/internal/contraction"
	"github.com/hpungsan/unclip/internal/errors"
	"github.com/hpungsan/unclip/internal/ops"
	"github.com/hpungsan/unclip/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, engine *contraction.Engine, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "unclip",
		Usage:   "Expand contractions in speech-to-text transcripts",
		Version: Version,
		Commands: []*cli.Command{
			expandCmd(db, engine, cfg),
			wordsCmd(engine),
			batchCmd(db, engine, cfg),
			showCmd(db),
			listCmd(db),
			deleteCmd(db),
			statsCmd(db),
			exportCmd(db, cfg),
			reportCmd(db),
			serveCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

var strategyFlag = &cli.StringFlag{
	Name:    "strategy",
	Aliases: []string{"s"},
	Usage:   "Disambiguation strategy: heuristic|linguistic (default from config)",
}

// expandCmd creates the expand command.
func expandCmd(db *sql.DB, engine *contraction.Engine, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "expand",
		Usage: "Expand contractions in text (from --text or stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "text", Aliases: []string{"t"}, Usage: "Text to expand (otherwise read from stdin)"},
			strategyFlag,
			&cli.BoolFlag{Name: "preprocess", Aliases: []string{"p"}, Usage: "Lowercase and strip punctuation first"},
			&cli.BoolFlag{Name: "save", Usage: "Store the run in the local run log"},
			&cli.StringFlag{Name: "source", Usage: "Label stored with the run"},
			&cli.BoolFlag{Name: "plain", Usage: "Print only the expanded text"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ExpandInput{
				Strategy: c.String("strategy"),
				Persist:  c.Bool("save"),
			}

			if c.IsSet("text") {
				text := c.String("text")
				input.Text = &text
			} else {
				if !stdinHasData(c.App.Reader) {
					return outputError(errors.NewInvalidRequest("text must be given with --text or piped via stdin"))
				}
				text, err := readStdin(c.App.Reader, maxStdinBytes(cfg))
				if err != nil {
					return outputError(err)
				}
				input.Text = &text
			}

			if c.IsSet("preprocess") {
				preprocess := c.Bool("preprocess")
				input.Preprocess = &preprocess
			}
			if source := c.String("source"); source != "" {
				input.Source = &source
			}

			output, err := ops.Expand(c.Context, db, engine, cfg, input)
			if err != nil {
				return outputError(err)
			}

			if c.Bool("plain") {
				_, err := fmt.Fprintln(c.App.Writer, output.Text())
				return err
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// wordsCmd creates the words command.
func wordsCmd(engine *contraction.Engine) *cli.Command {
	return &cli.Command{
		Name:      "words",
		Usage:     "Expand each word independently (word-level transcripts)",
		ArgsUsage: "<word>...",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("at least one word is required"))
			}
			return outputJSON(c.App.Writer, ops.ExpandWords(engine, c.Args().Slice()))
		},
	}
}

// batchCmd creates the batch command.
func batchCmd(db *sql.DB, engine *contraction.Engine, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "batch",
		Usage:     "Expand transcript files concurrently",
		ArgsUsage: "<file>...",
		Flags: []cli.Flag{
			strategyFlag,
			&cli.BoolFlag{Name: "preprocess", Aliases: []string{"p"}, Usage: "Lowercase and strip punctuation first"},
			&cli.BoolFlag{Name: "save", Usage: "Store one run per file"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Write '<name>: <text>' lines to this .txt file"},
		},
		Action: func(c *cli.Context) error {
			input := ops.BatchInput{
				Paths:    c.Args().Slice(),
				Strategy: c.String("strategy"),
				Persist:  c.Bool("save"),
				OutPath:  c.String("out"),
			}
			if c.IsSet("preprocess") {
				preprocess := c.Bool("preprocess")
				input.Preprocess = &preprocess
			}

			output, err := ops.Batch(c.Context, db, engine, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// showCmd creates the show command.
func showCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a stored run",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "no-text", Usage: "Exclude original and expanded text from output"},
		},
		Action: func(c *cli.Context) error {
			input := ops.FetchInput{ID: c.Args().First()}
			if c.Bool("no-text") {
				includeText := false
				input.IncludeText = &includeText
			}

			output, err := ops.Fetch(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List stored runs, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "method", Aliases: []string{"m"}, Usage: "Filter by method: heuristic|linguistic"},
			&cli.StringFlag{Name: "source", Usage: "Filter by source label"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Max items"},
			&cli.IntFlag{Name: "offset", Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(c.Context, db, ops.ListInput{
				Method: c.String("method"),
				Source: c.String("source"),
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Permanently delete a stored run",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Delete(c.Context, db, ops.DeleteInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// statsCmd creates the stats command.
func statsCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Aggregate stored runs by method and most expanded forms",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "method", Aliases: []string{"m"}, Usage: "Filter by method"},
			&cli.StringFlag{Name: "source", Usage: "Filter by source label"},
			&cli.IntFlag{Name: "top", Value: ops.DefaultTopForms, Usage: "Number of forms to report"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Stats(c.Context, db, ops.StatsInput{
				Method: c.String("method"),
				Source: c.String("source"),
				Top:    c.Int("top"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export stored runs to JSONL",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Usage: "Output .jsonl path (default: ~/.unclip/exports/)"},
			&cli.StringFlag{Name: "method", Aliases: []string{"m"}, Usage: "Filter by method"},
			&cli.StringFlag{Name: "source", Usage: "Filter by source label"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Export(c.Context, db, cfg, ops.ExportInput{
				Path:   c.String("path"),
				Method: c.String("method"),
				Source: c.String("source"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// reportCmd creates the report command. It prints the document itself, not
// JSON.
func reportCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "report",
		Usage:     "Render a stored run as Markdown (or HTML)",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "html", Usage: "Print HTML instead of Markdown"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Report(c.Context, db, ops.ReportInput{
				ID:   c.Args().First(),
				HTML: c.Bool("html"),
			})
			if err != nil {
				return outputError(err)
			}

			doc := output.Markdown
			if c.Bool("html") {
				doc = output.HTML
			}
			_, err = io.WriteString(c.App.Writer, doc)
			return err
		},
	}
}

// serveCmd creates the serve command, a local browser over stored runs.
func serveCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Browse stored runs in a local web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to bind"},
			&cli.IntFlag{Name: "port", Value: 8765, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			log := zerolog.Ctx(c.Context)
			srv, err := web.NewServer(db, cfg, Version, c.String("bind"), c.Int("port"), *log)
			if err != nil {
				return outputError(err)
			}
			if err := web.Run(c.Context, srv, *log); err != nil {
				return cli.Exit(fmt.Sprintf("serve: %v", err), 1)
			}
			return nil
		},
	}
}

// Helper functions

// outputJSON marshals result to w as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if appErr, ok := err.(*errors.AppError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", appErr.Code, appErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if r has piped data. Readers other than a
// terminal file always count as piped.
func stdinHasData(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return r != nil
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// maxStdinBytes bounds stdin reads: max_input_chars runes of at most four
// bytes each. Zero means no limit.
func maxStdinBytes(cfg *config.Config) int64 {
	if cfg == nil || cfg.MaxInputChars <= 0 {
		return 0
	}
	return int64(cfg.MaxInputChars) * 4
}

// readStdin reads all of r, failing once more than limit bytes arrive.
func readStdin(r io.Reader, limit int64) (string, error) {
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.NewInternal(err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return "", errors.NewInvalidRequest(fmt.Sprintf("stdin exceeds %d bytes", limit))
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
