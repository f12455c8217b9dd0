// Package process connects the updater to the outside world: configuration,
// standard streams and debug report.
package process

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"updpost/document"
	"updpost/state"
	"updpost/updater"
)

// UsageError is returned when program is started with positional arguments.
// Post is always read from STDIN and written to STDOUT.
type UsageError struct {
	Args []string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("this command takes no arguments, got %q; usage: updpost < blog_post_file > output_file", e.Args)
}

// Run is the default action: updates the post read from STDIN and writes
// the result to STDOUT.
func Run(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if cmd.NArg() != 0 {
		return &UsageError{Args: cmd.Args().Slice()}
	}

	env := state.EnvFromContext(ctx)

	runID, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("unable to generate run id: %w", err)
	}
	log := env.Log.Named("update").With(zap.Stringer("run", runID))

	log.Debug("Processing starting")
	defer func(start time.Time) {
		log.Debug("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, log)
}

// process handles the core update logic independently of CLI framework.
// Nothing is written to the output unless both passes succeeded.
func process(ctx context.Context, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)
	cfg := &env.Cfg.Document

	doc, err := document.Read(env.In, cfg.RejectBinary)
	if err != nil {
		return err
	}
	log.Debug("Post read", zap.Int("lines", len(doc.Lines)), zap.String("eol", fmt.Sprintf("%q", doc.EOL)))
	env.Rpt.StoreData("post/input.textile", joinLines(doc.Lines))

	updaters := []updater.Updater{
		updater.NewFootnotes(&cfg.Footnotes, log),
		updater.NewTableOfContents(&cfg.TOC, log),
	}
	res, err := updater.Update(ctx, doc.Lines, updaters...)
	// StoreData is safe on nil report, check only saves building the dump.
	// State is most interesting when update failed.
	if env.Rpt != nil {
		env.Rpt.StoreData("post/updaters.txt", []byte(updater.Dump(updaters...)))
	}
	if err != nil {
		return fmt.Errorf("unable to update post: %w", err)
	}
	env.Rpt.StoreData("post/pass-1.textile", joinLines(res.Intermediate))
	env.Rpt.StoreData("post/pass-2.textile", joinLines(res.Lines))

	doc.Lines = res.Lines
	if err := doc.Write(env.Out); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}

	if len(res.Summary) != 0 {
		env.Rpt.StoreData("summary.txt", []byte(res.Summary))
		log.Info(res.Summary)
	}
	return nil
}

func joinLines(lines []string) []byte {
	buf := bytes.NewBufferString(strings.Join(lines, "\n"))
	if len(lines) > 0 {
		buf.WriteByte('\n')
	}
	return append([]byte{}, buf.Bytes()...)
}
