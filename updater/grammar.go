package updater

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// Existing footnote reference in the body text.
	// First group: note title; second group: note index
	refRe = regexp.MustCompile(`\["\(#([a-z-]+)-r([0-9]+)\)\. \^[0-9]+\^":#[a-z-]+-[0-9]+\]`)

	// Existing footnote target at the start of a line in the footnote block.
	// First group: note title; second group: note index
	targetRe = regexp.MustCompile(`^\["\(#([a-z-]+)-([0-9]+)\)\. \^[0-9]+\^":#[a-z-]+-r[0-9]+\]`)

	// New footnote declared inline.
	// First group: note title; second group: note text
	newNoteRe = regexp.MustCompile(`\[#([a-z-]+): ([^\]]+)\]`)

	// Section headline.
	// First group: headline ID; second group: headline text
	headlineRe = regexp.MustCompile(`^h3\(section#([a-zA-Z0-9-]+)\)\. (.+)$`)

	// Textile link, optionally wrapped in brackets.
	// Group: link text
	linkRe = regexp.MustCompile(`\[?"([^"]+)":[^ ]+\]?`)

	// Link or footnote characters left in headline text after stripping.
	headlineLeftoverRe = regexp.MustCompile(`["\[\]]`)
)

// placeholderIndex marks references expanded from new notes which have not
// been numbered yet.
const placeholderIndex = "0"

func formatReference(title string, index int) string {
	return fmt.Sprintf(`["(#%s-r%d). ^%d^":#%s-%d]`, title, index, index, title, index)
}

func formatPlaceholder(title string) string {
	return fmt.Sprintf(`["(#%s-r%s). ^%s^":#%s-%s]`, title, placeholderIndex, placeholderIndex, title, placeholderIndex)
}

func formatTarget(title string, index int) string {
	return fmt.Sprintf(`["(#%s-%d). ^%d^":#%s-r%d]`, title, index, index, title, index)
}

func formatTOCEntry(text, id string) string {
	return fmt.Sprintf(`"%s":#%s`, text, id)
}

// replaceEach finds every match of re in text from left to right and replaces
// it with the result of fn. Scanning resumes right after the inserted
// replacement, so replacement text is never matched again. re must not match
// empty string.
func replaceEach(re *regexp.Regexp, text string, fn func(groups []string) string) string {
	var (
		sb    strings.Builder
		start int
	)
	for {
		m := re.FindStringSubmatchIndex(text[start:])
		if m == nil {
			break
		}
		groups := make([]string, len(m)/2)
		for i := range groups {
			if m[2*i] >= 0 {
				groups[i] = text[start+m[2*i] : start+m[2*i+1]]
			}
		}
		sb.WriteString(text[start : start+m[0]])
		sb.WriteString(fn(groups))
		start += m[1]
	}
	sb.WriteString(text[start:])
	return sb.String()
}

// stripHeadline removes footnotes from headline text and reduces links to
// their display text.
func stripHeadline(text string) string {
	text = refRe.ReplaceAllLiteralString(text, "")
	text = newNoteRe.ReplaceAllLiteralString(text, "")
	return linkRe.ReplaceAllString(text, "${1}")
}

func isBlank(text string) bool {
	return len(strings.TrimSpace(text)) == 0
}
