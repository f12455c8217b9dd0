package updater

import "fmt"

// InsufficientReferencesError is returned when the footnote block has more
// targets than references and new notes found in the body.
type InsufficientReferencesError struct {
	// Resolved is number of notes successfully matched before the failure.
	Resolved int
}

func (e *InsufficientReferencesError) Error() string {
	return fmt.Sprintf("only %d references or new notes parsed, but expected more; "+
		"look for malformed new notes, or malformed or missing references for existing footnotes", e.Resolved)
}

// MalformedHeadlineError is returned when headline text still has link or
// footnote markup after all supported forms were stripped.
type MalformedHeadlineError struct {
	Text string
}

func (e *MalformedHeadlineError) Error() string {
	return fmt.Sprintf("malformed link or footnote in section headline: %s", e.Text)
}

// UnplacedNotesError is returned when new notes were declared in the body but
// the document has no complete footnote block to put them into.
type UnplacedNotesError struct {
	Count int
}

func (e *UnplacedNotesError) Error() string {
	return fmt.Sprintf("%d new notes could not be placed, footnote block is missing or not closed", e.Count)
}
