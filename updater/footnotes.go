package updater

import (
	"fmt"
	"slices"
	"strconv"

	"go.uber.org/zap"

	"updpost/config"
)

// Footnotes expands new inline notes and renumbers footnote references and
// targets. Should be allocated with NewFootnotes.
//
// Existing references in the body have the form
//
//	["(#note-title-r1). ^1^":#note-title-1]
//
// where "note-title" is a prefix unique to the post and "1" is any nonnegative
// integer. Existing targets are lines inside the footnote block starting with
//
//	["(#note-title-1). ^1^":#note-title-r1]
//
// New notes are declared directly in the text as
//
//	[#note-title: New footnote text here.]
//
// and are moved to the footnote block in the correct relative order. All
// references are renumbered in order of appearance starting from 1. Recursive
// footnotes are not supported.
//
// All the work is done during the first pass.
type Footnotes struct {
	cfg *config.FootnotesConfig
	log *zap.Logger

	// By the time the footnote block is reached slots has an entry for every
	// reference in the body: empty string where target already exists in the
	// block, formatted target with text for new notes. Slot for index k is
	// slots[k-1].
	slots []string

	// New notes parsed from the current line which have not been numbered
	// yet, keeps new notes in order relative to existing references.
	pending []string

	// Original indices of existing references in order of appearance.
	existing []int

	next    int // current footnote index
	added   int
	placed  int
	inBlock bool
	flushed bool
}

// NewFootnotes returns properly initialized Footnotes updater.
func NewFootnotes(cfg *config.FootnotesConfig, log *zap.Logger) *Footnotes {
	return &Footnotes{
		cfg:  cfg,
		log:  log.Named("footnotes"),
		next: 1,
	}
}

// FirstPass expands new notes and renumbers references in the body, and
// renumbers targets and inserts new notes in the footnote block.
func (f *Footnotes) FirstPass(line *Line, buf *Buffer) error {
	if line.Text == f.cfg.Open {
		f.inBlock = true
		f.next = 1
		return nil
	}

	if !f.inBlock {
		text := replaceEach(newNoteRe, line.Text, func(groups []string) string {
			f.pending = append(f.pending, groups[2])
			f.added++
			// zero is an index placeholder until references are numbered below
			return formatPlaceholder(groups[1])
		})
		line.Set(replaceEach(refRe, text, f.renumberReference))
		return nil
	}

	if m := targetRe.FindStringSubmatchIndex(line.Text); m != nil {
		title := line.Text[m[2]:m[3]]

		// new notes go before this existing one
		for f.next <= len(f.slots) && len(f.slots[f.next-1]) != 0 {
			f.writeNote(buf, f.next, true)
			f.next++
		}

		// We should not run out of slots unless a new note or an existing
		// reference failed to parse.
		if f.next > len(f.slots) {
			return &InsufficientReferencesError{Resolved: f.next - 1}
		}

		f.log.Debug("Target renumbered", zap.String("title", title), zap.String("from", line.Text[m[4]:m[5]]), zap.Int("to", f.next))
		line.Set(formatTarget(title, f.next) + line.Text[m[1]:])
		f.next++
		return nil
	}

	if line.Text == f.cfg.Close && !f.flushed && f.next <= len(f.slots) {
		// remaining notes go just before the end of the block
		for ; f.next <= len(f.slots); f.next++ {
			if len(f.slots[f.next-1]) == 0 {
				f.log.Warn("Footnote reference has no target", zap.Int("index", f.next))
				continue
			}
			f.writeNote(buf, f.next, false)
		}
		f.flushed = true
	}
	return nil
}

// SecondPass does nothing, footnotes are complete after the first pass.
func (f *Footnotes) SecondPass(*Line, *Buffer) error {
	return nil
}

// Finish makes sure no new note was lost because footnote block was absent.
func (f *Footnotes) Finish(pass Pass, _ *Buffer) error {
	if pass != PassFirst {
		return nil
	}
	if n := f.added - f.placed; n > 0 {
		return &UnplacedNotesError{Count: n}
	}
	return nil
}

// Summary returns number of new footnotes and reports existing references
// which are not in their original order anymore.
func (f *Footnotes) Summary() string {
	var msg string
	if f.added != 0 {
		msg = fmt.Sprintf("%d new footnote%s", f.added, plural(f.added))
	}
	if !slices.IsSorted(f.existing) {
		if len(msg) != 0 {
			msg += ", "
		}
		msg += "existing footnotes out of order"
	}
	return msg
}

func (f *Footnotes) renumberReference(groups []string) string {
	title, index := groups[1], groups[2]

	note := ""
	if index == placeholderIndex && len(f.pending) > 0 {
		note = formatTarget(title, f.next) + f.pending[0]
		f.pending = f.pending[1:]
	} else {
		if index == placeholderIndex {
			f.log.Warn("Placeholder reference without new note, treating as existing", zap.String("title", title))
		}
		n, err := strconv.Atoi(index)
		if err != nil {
			n = -1
		}
		f.existing = append(f.existing, n)
	}
	f.slots = append(f.slots, note)

	f.log.Debug("Reference renumbered", zap.String("title", title), zap.String("from", index), zap.Int("to", f.next))
	ref := formatReference(title, f.next)
	f.next++
	return ref
}

// writeNote puts new note into the footnote block as a separate paragraph.
func (f *Footnotes) writeNote(buf *Buffer, index int, before bool) {
	f.log.Debug("New note inserted", zap.Int("index", index))
	if before {
		buf.WriteLine(f.slots[index-1])
		buf.WriteBlank()
	} else {
		buf.WriteBlank()
		buf.WriteLine(f.slots[index-1])
	}
	f.placed++
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
