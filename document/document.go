// Package document reads and writes posts as sequences of lines preserving
// text encoding and line terminators of the original.
package document

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

const (
	lf   = "\n"
	crlf = "\r\n"
)

// Document is a post split into lines. Lines do not include terminators.
type Document struct {
	Lines []string

	// EOL is line terminator used when writing document back.
	EOL string
	// FinalEOL is set when the last line of the original was terminated.
	FinalEOL bool
	// Encoding of the original when it was marked with BOM, nil for plain
	// UTF-8 (or anything else ASCII compatible).
	Encoding encoding.Encoding
}

// BinaryInputError is returned when input is recognized as one of the known
// binary formats.
type BinaryInputError struct {
	MIME string
}

func (e *BinaryInputError) Error() string {
	return fmt.Sprintf("input does not look like text, detected %s", e.MIME)
}

// Read reads the complete post from r.
func Read(r io.Reader, rejectBinary bool) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read input: %w", err)
	}

	doc := &Document{EOL: lf, Encoding: detectBOM(data)}

	// wide encodings are full of zero bytes, byte order mark is enough
	if rejectBinary && doc.Encoding == nil {
		if kind, ok := detectBinary(data); ok {
			return nil, &BinaryInputError{MIME: kind.MIME.Value}
		}
	}

	if doc.Encoding != nil {
		if data, err = doc.Encoding.NewDecoder().Bytes(data); err != nil {
			return nil, fmt.Errorf("unable to decode input: %w", err)
		}
	}
	doc.split(string(data))
	return doc, nil
}

// Write outputs document using original terminators and encoding.
func (d *Document) Write(w io.Writer) error {
	var buf bytes.Buffer
	for i, l := range d.Lines {
		buf.WriteString(l)
		if i < len(d.Lines)-1 || d.FinalEOL {
			buf.WriteString(d.EOL)
		}
	}

	if d.Encoding == nil {
		_, err := w.Write(buf.Bytes())
		return err
	}

	tw := transform.NewWriter(w, d.Encoding.NewEncoder())
	if _, err := tw.Write(buf.Bytes()); err != nil {
		return err
	}
	return tw.Close()
}

func (d *Document) split(text string) {
	if len(text) == 0 {
		return
	}
	d.Lines = strings.Split(text, lf)
	if last := len(d.Lines) - 1; len(d.Lines[last]) == 0 {
		d.FinalEOL = true
		d.Lines = d.Lines[:last]
	}
	// terminator of the first line decides for the whole document
	if len(d.Lines) > 1 || d.FinalEOL {
		if strings.HasSuffix(d.Lines[0], "\r") {
			d.EOL = crlf
		}
	}
	if d.EOL == crlf {
		for i := range d.Lines {
			d.Lines[i] = strings.TrimSuffix(d.Lines[i], "\r")
		}
	}
}

// detectBinary recognizes known binary formats. Some signatures are plain
// ASCII ("BM" for bitmaps, "MZ" for executables), so data must also fail to be
// text to be rejected.
func detectBinary(data []byte) (types.Type, bool) {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return kind, false
	}
	return kind, bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data)
}

// detectBOM selects decoder for text marked with byte order mark. Longer
// marks are checked first since UTF-32LE mark starts with UTF-16LE one.
func detectBOM(data []byte) encoding.Encoding {
	switch {
	case bytes.HasPrefix(data, []byte{0x00, 0x00, 0xFE, 0xFF}):
		return utf32.UTF32(utf32.BigEndian, utf32.ExpectBOM)
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE, 0x00, 0x00}):
		return utf32.UTF32(utf32.LittleEndian, utf32.ExpectBOM)
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		return unicode.UTF8BOM
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
	default:
		return nil
	}
}
