package updater

import (
	"context"
	"fmt"
	"strings"
)

// Result of a complete update.
type Result struct {
	// Intermediate is the complete output of the first pass.
	Intermediate []string
	// Lines is the final post.
	Lines []string
	// Summary joins non-empty summaries of all updaters.
	Summary string
}

// Update applies each updater to each line of the post in two passes. The
// second pass only starts after the first pass has been completed for the
// whole post. On error nothing is returned, so partially updated post could
// never leak out.
func Update(ctx context.Context, lines []string, updaters ...Updater) (*Result, error) {
	first, err := runPass(ctx, PassFirst, lines, updaters)
	if err != nil {
		return nil, err
	}
	second, err := runPass(ctx, PassSecond, first, updaters)
	if err != nil {
		return nil, err
	}
	return &Result{
		Intermediate: first,
		Lines:        second,
		Summary:      Summary(updaters...),
	}, nil
}

// Summary collects messages of all updaters which made changes.
func Summary(updaters ...Updater) string {
	var msgs []string
	for _, u := range updaters {
		if m := u.Summary(); len(m) != 0 {
			msgs = append(msgs, m)
		}
	}
	return strings.Join(msgs, "; ")
}

func runPass(ctx context.Context, pass Pass, in []string, updaters []Updater) ([]string, error) {
	var (
		buf Buffer
		out = make([]string, 0, len(in))
	)
	for n, text := range in {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line := Line{Text: text}
		for _, u := range updaters {
			if line.Removed() {
				break
			}
			var err error
			if pass == PassFirst {
				err = u.FirstPass(&line, &buf)
			} else {
				err = u.SecondPass(&line, &buf)
			}
			if err != nil {
				return nil, fmt.Errorf("%s pass, line %d: %w", pass, n+1, err)
			}
		}
		out = buf.drain(out)
		if !line.Removed() {
			out = append(out, line.Text)
		}
	}

	for _, u := range updaters {
		if f, ok := u.(Finisher); ok {
			if err := f.Finish(pass, &buf); err != nil {
				return nil, fmt.Errorf("%s pass, end of input: %w", pass, err)
			}
		}
	}
	return buf.drain(out), nil
}
