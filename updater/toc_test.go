package updater

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"updpost/config"
)

func newTestTOC(t *testing.T) *TableOfContents {
	t.Helper()
	return NewTableOfContents(&config.TOCConfig{Prefix: "p(toc)."}, zaptest.NewLogger(t))
}

func TestTableOfContents_EmptyPost(t *testing.T) {
	checkUpdate(t, "", "", "", newTestTOC(t))
}

func TestTableOfContents_NothingToUpdate(t *testing.T) {
	checkUpdate(t, "", "nothing to update here\n", "nothing to update here\n", newTestTOC(t))
}

func TestTableOfContents_FirstNewHeadline(t *testing.T) {
	const original = `p(toc).

h3(section#test-doc-first). First Headline
`
	const expected = `p(toc). "First Headline":#test-doc-first

h3(section#test-doc-first). First Headline
`
	checkUpdate(t, "1 new/changed headline", expected, original, newTestTOC(t))
}

func TestTableOfContents_ChangeExistingHeadlines(t *testing.T) {
	const original = `p(toc). "Old Headline":#test-doc-old

h3(section#test-doc-new). New Headline
`
	const expected = `p(toc). "New Headline":#test-doc-new

h3(section#test-doc-new). New Headline
`
	checkUpdate(t, "1 new/changed headline", expected, original, newTestTOC(t))
}

func TestTableOfContents_SeveralNewHeadlines(t *testing.T) {
	const original = `Intro.

p(toc).

h3(section#test-doc-a). Headline A

Text.

h3(section#test-doc-b). Headline B

h3(section#test-doc-c). Headline C
`
	const expected = `Intro.

p(toc). "Headline A":#test-doc-a
"Headline B":#test-doc-b
"Headline C":#test-doc-c

h3(section#test-doc-a). Headline A

Text.

h3(section#test-doc-b). Headline B

h3(section#test-doc-c). Headline C
`
	checkUpdate(t, "3 new/changed headlines", expected, original, newTestTOC(t))
}

func TestTableOfContents_ReorderExistingHeadlines(t *testing.T) {
	const original = `p(toc). "Headline C":#test-doc-c
"Headline A":#test-doc-a
"Headline B":#test-doc-b

h3(section#test-doc-a). Headline A

h3(section#test-doc-b). Headline B

h3(section#test-doc-c). Headline C
`
	const expected = `p(toc). "Headline A":#test-doc-a
"Headline B":#test-doc-b
"Headline C":#test-doc-c

h3(section#test-doc-a). Headline A

h3(section#test-doc-b). Headline B

h3(section#test-doc-c). Headline C
`
	checkUpdate(t, "existing headlines reordered", expected, original, newTestTOC(t))
}

func TestTableOfContents_ChangedAndReordered(t *testing.T) {
	const original = `p(toc). "Headline B":#test-doc-b
"Headline A":#test-doc-a

h3(section#test-doc-a). Headline A

h3(section#test-doc-b). Headline B

h3(section#test-doc-c). Headline C
`
	const expected = `p(toc). "Headline A":#test-doc-a
"Headline B":#test-doc-b
"Headline C":#test-doc-c

h3(section#test-doc-a). Headline A

h3(section#test-doc-b). Headline B

h3(section#test-doc-c). Headline C
`
	checkUpdate(t, "1 new/changed headline, existing headlines reordered", expected, original, newTestTOC(t))
}

func TestTableOfContents_HeadlineForms(t *testing.T) {
	tests := []struct {
		name     string
		headline string
		entry    string
	}{
		{
			name:     "link",
			headline: `h3(section#test-doc-headline-is-link). "Headline Is Link":http://www.example.com/`,
			entry:    `"Headline Is Link":#test-doc-headline-is-link`,
		},
		{
			name:     "embedded link",
			headline: `h3(section#test-doc-headline-with-link-embedded). Headline With "Link":http://www.example.com/ Embedded`,
			entry:    `"Headline With Link Embedded":#test-doc-headline-with-link-embedded`,
		},
		{
			name:     "footnote",
			headline: `h3(section#test-doc-headline-with-footnote). Headline With Footnote["(#test-doc-r1). ^1^":#test-doc-1]`,
			entry:    `"Headline With Footnote":#test-doc-headline-with-footnote`,
		},
		{
			name:     "new footnote",
			headline: `h3(section#test-doc-headline-with-new-footnote). Headline With New Footnote[#test-doc: It shouldn't matter which order the parsers are run in for this to work]`,
			entry:    `"Headline With New Footnote":#test-doc-headline-with-new-footnote`,
		},
		{
			name:     "bracketed link with footnote",
			headline: `h3(section#test-doc-headline-is-link-with-footnote). ["Headline Is Link With Footnote":http://www.example.com/][#test-doc: New note.]`,
			entry:    `"Headline Is Link With Footnote":#test-doc-headline-is-link-with-footnote`,
		},
		{
			name:     "embedded link with footnote",
			headline: `h3(section#test-doc-headline-with-link-embedded-with-footnote). Headline With "Link":http://www.example.com/ Embedded With Footnote["(#test-doc-r1). ^1^":#test-doc-1]`,
			entry:    `"Headline With Link Embedded With Footnote":#test-doc-headline-with-link-embedded-with-footnote`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := "p(toc).\n\n" + tt.headline + "\n"
			expected := "p(toc). " + tt.entry + "\n\n" + tt.headline + "\n"
			checkUpdate(t, "1 new/changed headline", expected, original, newTestTOC(t))
		})
	}
}

func TestTableOfContents_MalformedHeadline(t *testing.T) {
	const original = `p(toc).

h3(section#test-doc-broken). Headline With "Broken Link
`
	_, err := Update(context.Background(), splitPost(original), newTestTOC(t))

	var mhe *MalformedHeadlineError
	if !errors.As(err, &mhe) {
		t.Fatalf("Expected MalformedHeadlineError, got %v", err)
	}
	if mhe.Text != `Headline With "Broken Link` {
		t.Errorf("Text = %q", mhe.Text)
	}
}

func TestTableOfContents_NoHeadlines(t *testing.T) {
	const original = `p(toc). "Gone":#test-doc-gone
"Also Gone":#test-doc-also-gone

Text.
`
	const expected = `p(toc).

Text.
`
	checkUpdate(t, "", expected, original, newTestTOC(t))
}

func TestTableOfContents_LastParagraph(t *testing.T) {
	const original = `h3(section#test-doc-a). Headline A

h3(section#test-doc-b). Headline B

p(toc). "Headline A":#test-doc-a`
	const expected = `h3(section#test-doc-a). Headline A

h3(section#test-doc-b). Headline B

p(toc). "Headline A":#test-doc-a
"Headline B":#test-doc-b
`
	checkUpdate(t, "1 new/changed headline", expected, original, newTestTOC(t))
}

func TestTableOfContents_LastParagraphKeepsBody(t *testing.T) {
	lines := []string{
		"Intro paragraph that must survive.",
		"",
		"h3(section#test-doc-a). Headline A",
		"",
		"p(toc).",
	}
	res, err := Update(context.Background(), lines, newTestTOC(t))
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	want := []string{
		"Intro paragraph that must survive.",
		"",
		"h3(section#test-doc-a). Headline A",
		"",
		`p(toc). "Headline A":#test-doc-a`,
	}
	if joinPost(res.Lines) != joinPost(want) {
		t.Errorf("Lines = %q, want %q", res.Lines, want)
	}
}

func TestTableOfContents_MarkerNeedsSeparator(t *testing.T) {
	tests := []struct {
		name   string
		marker string
		want   string
	}{
		{"bare", "p(toc).", `p(toc). "Headline A":#test-doc-a`},
		{"trailing space", "p(toc). ", `p(toc). "Headline A":#test-doc-a`},
		{"inline entry", `p(toc). "Old":#test-doc-old`, `p(toc). "Headline A":#test-doc-a`},
		{"no separator", "p(toc).foo", "p(toc).foo"},
		{"other class", "p(tocx). text", "p(tocx). text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := []string{tt.marker, "", "h3(section#test-doc-a). Headline A"}
			res, err := Update(context.Background(), lines, newTestTOC(t))
			if err != nil {
				t.Fatalf("Update() error = %v", err)
			}
			want := []string{tt.want, "", "h3(section#test-doc-a). Headline A"}
			if joinPost(res.Lines) != joinPost(want) {
				t.Errorf("Lines = %q, want %q", res.Lines, want)
			}
		})
	}
}

func TestTableOfContents_WhitespaceLineEndsBlock(t *testing.T) {
	lines := []string{
		"p(toc).",
		"   ",
		"h3(section#test-doc-a). Headline A",
	}
	res, err := Update(context.Background(), lines, newTestTOC(t))
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	want := []string{
		`p(toc). "Headline A":#test-doc-a`,
		"   ",
		"h3(section#test-doc-a). Headline A",
	}
	if joinPost(res.Lines) != joinPost(want) {
		t.Errorf("Lines = %q, want %q", res.Lines, want)
	}
}

func TestTableOfContents_Idempotent(t *testing.T) {
	const original = `p(toc). "Stale":#test-doc-stale

h3(section#test-doc-a). Headline "A":http://a.example.com/

h3(section#test-doc-b). Headline B["(#test-doc-r1). ^1^":#test-doc-1]
`
	res, err := Update(context.Background(), splitPost(original), newTestTOC(t))
	if err != nil {
		t.Fatalf("Update() first run error = %v", err)
	}
	again, err := Update(context.Background(), res.Lines, newTestTOC(t))
	if err != nil {
		t.Fatalf("Update() second run error = %v", err)
	}
	if got, want := joinPost(again.Lines), joinPost(res.Lines); got != want {
		t.Errorf("second run changed the post:\nfirst:\n%s\n--------\nsecond:\n%s", want, got)
	}
	if again.Summary != "" {
		t.Errorf("second run Summary = %q, want empty", again.Summary)
	}
}

func TestIntersect(t *testing.T) {
	got := intersect([]string{"c", "a", "x", "a", "b"}, []string{"a", "b", "c"})
	want := []string{"c", "a", "b"}
	if len(got) != len(want) {
		t.Fatalf("intersect() = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("intersect()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
