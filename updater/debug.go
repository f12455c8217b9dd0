package updater

import (
	"fmt"

	"updpost/utils/debug"
)

type treeWriter struct {
	*debug.TreeWriter
}

// Dump describes internal state of updaters, intended for debug report after
// update is complete.
func Dump(updaters ...Updater) string {
	tw := treeWriter{debug.NewTreeWriter()}
	for _, u := range updaters {
		switch u := u.(type) {
		case *Footnotes:
			tw.footnotes(u)
		case *TableOfContents:
			tw.tableOfContents(u)
		default:
			tw.Line(0, "%T", u)
		}
	}
	return tw.String()
}

func (tw treeWriter) footnotes(f *Footnotes) {
	tw.Line(0, "Footnotes open=%q close=%q", f.cfg.Open, f.cfg.Close)
	tw.Line(1, "added=%d placed=%d flushed=%t", f.added, f.placed, f.flushed)
	tw.Line(1, "Existing indices: %v", f.existing)
	tw.Line(1, "Slots: %d", len(f.slots))
	for i, s := range f.slots {
		label := fmt.Sprintf("Slot[%d]", i+1)
		if len(s) == 0 {
			tw.Line(2, "%s existing", label)
			continue
		}
		tw.TextBlock(2, label, s)
	}
	if len(f.pending) > 0 {
		tw.Lines(1, "Pending", f.pending)
	}
}

func (tw treeWriter) tableOfContents(t *TableOfContents) {
	tw.Line(0, "TableOfContents prefix=%q", t.cfg.Prefix)
	tw.Lines(1, "Existing", t.existing)
	tw.Lines(1, "Headlines", t.headlines)
}
