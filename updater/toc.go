package updater

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"updpost/config"
)

// TableOfContents rebuilds table of contents paragraph from section
// headlines. Only one table of contents per post is supported.
//
// Table of contents is a paragraph starting with
//
//	p(toc).
//
// which lasts until the first blank line. Headlines are parsed from
//
//	h3(section#post-prefix-headline-suffix). Headline Text
//
// Footnote references and new notes are dropped from headline text and links
// are reduced to link text, so
//
//	h3(section#post-prefix-with-link). Headline With "Link":http://www.example.com Embedded[#note: Text]
//
// becomes entry
//
//	"Headline With Link Embedded":#post-prefix-with-link
//
// Headlines and the existing paragraph are collected during the first pass,
// new paragraph replaces the existing one during the second pass.
type TableOfContents struct {
	cfg *config.TOCConfig
	log *zap.Logger

	inTOC     bool
	existing  []string
	headlines []string
}

// NewTableOfContents returns properly initialized TableOfContents updater.
func NewTableOfContents(cfg *config.TOCConfig, log *zap.Logger) *TableOfContents {
	return &TableOfContents{
		cfg: cfg,
		log: log.Named("toc"),
	}
}

// FirstPass collects existing table of contents entries and all section
// headlines.
func (t *TableOfContents) FirstPass(line *Line, _ *Buffer) error {
	if t.inTOC {
		if isBlank(line.Text) {
			t.inTOC = false
		} else {
			t.existing = append(t.existing, line.Text)
		}
		return nil
	}

	if first, ok := t.cutMarker(line.Text); ok {
		t.inTOC = true
		if len(first) != 0 {
			t.existing = append(t.existing, first)
		}
		return nil
	}

	if m := headlineRe.FindStringSubmatch(line.Text); m != nil {
		id, text := m[1], stripHeadline(m[2])
		// if quotation marks or brackets still appear we are in trouble
		if headlineLeftoverRe.MatchString(text) {
			return &MalformedHeadlineError{Text: text}
		}
		t.log.Debug("Headline found", zap.String("id", id), zap.String("text", text))
		t.headlines = append(t.headlines, formatTOCEntry(text, id))
	}
	return nil
}

// SecondPass replaces table of contents paragraph with the new one.
func (t *TableOfContents) SecondPass(line *Line, buf *Buffer) error {
	if t.inTOC {
		if isBlank(line.Text) {
			t.inTOC = false
			t.writeRest(buf)
		} else {
			line.Remove()
		}
		return nil
	}

	if _, ok := t.cutMarker(line.Text); ok {
		t.inTOC = true
		if len(t.headlines) == 0 {
			line.Set(t.cfg.Prefix)
		} else {
			line.Set(t.cfg.Prefix + " " + t.headlines[0])
		}
	}
	return nil
}

// Finish completes table of contents when it is the last paragraph of the post.
// Paragraph state never carries over into the next pass.
func (t *TableOfContents) Finish(pass Pass, buf *Buffer) error {
	if !t.inTOC {
		return nil
	}
	t.inTOC = false
	if pass == PassSecond {
		t.writeRest(buf)
	}
	return nil
}

// Summary reports number of new or changed headlines and whether existing
// headlines were reordered.
func (t *TableOfContents) Summary() string {
	var changed int
	for _, h := range t.headlines {
		if !slices.Contains(t.existing, h) {
			changed++
		}
	}

	var msg string
	if changed != 0 {
		msg = fmt.Sprintf("%d new/changed headline%s", changed, plural(changed))
	}

	before, after := intersect(t.existing, t.headlines), intersect(t.headlines, t.existing)
	if !slices.Equal(before, after) {
		if len(msg) != 0 {
			msg += ", "
		}
		msg += "existing headlines reordered"
	}
	return msg
}

// cutMarker checks if text starts table of contents and returns the inline
// first entry if any. Prefix must be followed by a space or end of line.
func (t *TableOfContents) cutMarker(text string) (string, bool) {
	rest, ok := strings.CutPrefix(text, t.cfg.Prefix)
	if !ok {
		return "", false
	}
	if len(rest) == 0 {
		return "", true
	}
	if entry, ok := strings.CutPrefix(rest, " "); ok {
		return entry, true
	}
	return "", false
}

func (t *TableOfContents) writeRest(buf *Buffer) {
	if len(t.headlines) < 2 {
		return
	}
	for _, h := range t.headlines[1:] {
		buf.WriteLine(h)
	}
}

// intersect returns unique elements of a which are also present in b, in
// order of their first appearance in a.
func intersect(a, b []string) []string {
	var (
		res  []string
		seen = make(map[string]struct{}, len(a))
	)
	for _, s := range a {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		if slices.Contains(b, s) {
			res = append(res, s)
		}
	}
	return res
}
