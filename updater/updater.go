// Package updater rewrites Textile blog posts line by line: footnote
// references and targets are renumbered, new inline notes are moved into the
// footnote block and the table of contents is rebuilt from section headlines.
//
// Every transformation is done by an Updater. All updaters see every line of
// the post twice - once during the first pass over the original text and once
// during the second pass over the complete result of the first pass. All
// transformations must be idempotent.
package updater

import "fmt"

// Pass identifies one of the two passes over the document.
type Pass int

const (
	PassFirst Pass = iota
	PassSecond
)

func (p Pass) String() string {
	switch p {
	case PassFirst:
		return "first"
	case PassSecond:
		return "second"
	default:
		return fmt.Sprintf("Pass(%d)", int(p))
	}
}

// Updater is implemented by every post transformation.
type Updater interface {
	// FirstPass may rewrite or remove line and may write extra lines to buf,
	// those are placed into the output before line. line itself must never
	// be written to buf.
	FirstPass(line *Line, buf *Buffer) error

	// SecondPass has the same contract as FirstPass and is called for every
	// line produced by the first pass.
	SecondPass(line *Line, buf *Buffer) error

	// Summary describes changes made, empty string if nothing changed.
	Summary() string
}

// Finisher is an optional interface for updaters which need to know when the
// input of a pass is exhausted. Lines written to buf are appended to the end of
// the pass output.
type Finisher interface {
	Finish(pass Pass, buf *Buffer) error
}

// Line is a single line of the post without its terminator.
type Line struct {
	Text    string
	removed bool
}

// Set replaces line text.
func (l *Line) Set(text string) {
	l.Text = text
}

// Remove drops line from the pass output completely. This is different from
// setting empty text, which leaves a blank line.
func (l *Line) Remove() {
	l.Text, l.removed = "", true
}

// Removed reports if line has been dropped.
func (l *Line) Removed() bool {
	return l.removed
}

// Buffer accumulates additional lines produced while processing a single
// line.
type Buffer struct {
	lines []string
}

// WriteLine adds text as a separate line.
func (b *Buffer) WriteLine(text string) {
	b.lines = append(b.lines, text)
}

// WriteBlank adds empty line, usually used as a paragraph separator.
func (b *Buffer) WriteBlank() {
	b.lines = append(b.lines, "")
}

// Len returns number of buffered lines.
func (b *Buffer) Len() int {
	return len(b.lines)
}

// drain appends buffered lines to out and empties the buffer.
func (b *Buffer) drain(out []string) []string {
	out = append(out, b.lines...)
	b.lines = b.lines[:0]
	return out
}
