package ops

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hpungsan/unclip/internal/config"
	"github.com/hpungsan/unclip/internal/contraction"
	"github.com/hpungsan/unclip/internal/errors"
	"github.com/hpungsan/unclip/internal/run"
)

// BatchInput contains parameters for the Batch operation.
type BatchInput struct {
	Paths      []string // transcript files, one text per file
	Strategy   string   // empty uses config
	Preprocess *bool    // nil uses config
	Persist    bool     // store one run per successful file
	OutPath    string   // optional transcript file (.txt), written atomically
}

// BatchItem is the outcome for one input file.
type BatchItem struct {
	Path             string `json:"path"`
	Name             string `json:"name"`
	ID               string `json:"id,omitempty"`
	Method           string `json:"method,omitempty"`
	ExpandedText     string `json:"expanded_text,omitempty"`
	ReplacementCount int    `json:"replacement_count"`
	Error            string `json:"error,omitempty"`
}

// Line renders the item as one transcript line: "<name>: <text>", or
// "<name>: [ERROR: <message>]" for a failed file. Line breaks inside the text
// are flattened so each file stays on one line.
func (it BatchItem) Line() string {
	if it.Error != "" {
		return fmt.Sprintf("%s: [ERROR: %s]", it.Name, it.Error)
	}
	return fmt.Sprintf("%s: %s", it.Name, strings.Join(strings.Fields(it.ExpandedText), " "))
}

// BatchOutput contains the result of the Batch operation.
type BatchOutput struct {
	Items     []BatchItem `json:"items"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
	OutPath   string      `json:"out_path,omitempty"`
}

// Batch expands many transcript files concurrently, at most
// cfg.BatchWorkers at a time. A failing file never aborts the batch; its
// error is recorded on its item. Items keep the order of input.Paths.
func Batch(ctx context.Context, database *sql.DB, engine *contraction.Engine, cfg *config.Config, input BatchInput) (*BatchOutput, error) {
	if len(input.Paths) == 0 {
		return nil, errors.NewInvalidRequest("at least one path is required")
	}
	strategy, err := resolveStrategy(input.Strategy, cfg.Strategy)
	if err != nil {
		return nil, err
	}
	if input.OutPath != "" {
		if err := ValidateOutputPath(input.OutPath, ".txt", cfg); err != nil {
			return nil, err
		}
	}

	log := zerolog.Ctx(ctx)
	items := make([]BatchItem, len(input.Paths))

	g, gctx := errgroup.WithContext(ctx)
	workers := cfg.BatchWorkers
	if workers <= 0 {
		workers = 1
	}
	g.SetLimit(workers)

	for i, path := range input.Paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			item := BatchItem{Path: path, Name: filepath.Base(path)}
			if err := expandFile(gctx, database, engine, cfg, strategy, input, &item); err != nil {
				item.Error = errorMessage(err)
				log.Error().Err(err).Str("path", path).Msg("batch file failed")
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("batch cancelled: %w", err))
	}

	out := &BatchOutput{Items: items, OutPath: input.OutPath}
	for _, it := range items {
		if it.Error != "" {
			out.Failed++
		} else {
			out.Succeeded++
		}
	}

	if input.OutPath != "" {
		err := writeAtomic(input.OutPath, func(w io.Writer) error {
			for _, it := range items {
				if _, err := io.WriteString(w, it.Line()+"\n"); err != nil {
					return errors.NewInternal(err)
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

func expandFile(ctx context.Context, database *sql.DB, engine *contraction.Engine, cfg *config.Config, strategy contraction.Strategy, input BatchInput, item *BatchItem) error {
	f, err := openFileNoFollowRead(item.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	var r io.Reader = f
	if cfg.MaxInputChars > 0 {
		// A rune is at most 4 bytes; anything longer is over the limit.
		r = io.LimitReader(f, int64(cfg.MaxInputChars)*4+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	text := string(data)
	if n := run.CountChars(text); cfg.MaxInputChars > 0 && n > cfg.MaxInputChars {
		return errors.NewInputTooLarge(cfg.MaxInputChars, n)
	}
	preprocess := cfg.Preprocess
	if input.Preprocess != nil {
		preprocess = *input.Preprocess
	}
	if preprocess {
		text = contraction.Preprocess(text)
	}

	res := engine.ExpandString(text, strategy)
	item.Method = string(res.Method)
	item.ExpandedText = res.Text()
	for _, r := range res.Replacements {
		item.ReplacementCount += r.Count
	}

	if input.Persist {
		source := item.Name
		id, err := persist(ctx, database, res, strategy, &source)
		if err != nil {
			return err
		}
		item.ID = id
	}
	return nil
}

// errorMessage strips the code prefix from application errors.
func errorMessage(err error) string {
	if appErr, ok := err.(*errors.AppError); ok {
		return appErr.Message
	}
	return err.Error()
}
