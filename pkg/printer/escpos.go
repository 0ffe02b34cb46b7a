package printer

import (
	"bytes"
	"regexp"
)

// ESC/POS command constants
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Text alignment
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Character font (ESC M n)
const (
	CharacterFontA byte = 0x00 // 12x24
	CharacterFontB byte = 0x01 // 9x17, more columns per line
)

// Font size
const (
	FontNormal = 0x00
	FontDouble = 0x11 // Double width + double height
)

// Document builds an ESC/POS byte stream for thermal printers.
type Document struct {
	buf bytes.Buffer
}

// NewDocument creates an empty ESC/POS document.
func NewDocument() *Document {
	return &Document{}
}

// Init sends the ESC @ (initialize printer) command.
func (d *Document) Init() *Document {
	d.buf.Write([]byte{ESC, '@'})
	return d
}

// SelectFont selects CharacterFontA or CharacterFontB.
func (d *Document) SelectFont(font byte) *Document {
	d.buf.Write([]byte{ESC, 'M', font})
	return d
}

// SetFontSize sets the character size. Use FontNormal or FontDouble.
func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// SetAlign sets text alignment: AlignLeft, AlignCenter, AlignRight.
func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

// SetBold enables or disables bold text.
func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

// Text writes a line of text followed by a line feed.
func (d *Document) Text(s string) *Document {
	d.buf.WriteString(s)
	d.buf.WriteByte(LF)
	return d
}

// FeedLines sends n line feeds.
func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

// TrimTrailingSpace drops trailing spaces, tabs and line feeds written so far.
func (d *Document) TrimTrailingSpace() *Document {
	trimmed := bytes.TrimRight(d.buf.Bytes(), " \t\r\n")
	d.buf.Truncate(len(trimmed))
	return d
}

// Cut sends the paper cut command (full cut).
func (d *Document) Cut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x00})
	return d
}

// PartialCut sends the partial cut command.
func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns the accumulated ESC/POS byte stream.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

// Reset clears the buffer.
func (d *Document) Reset() *Document {
	d.buf.Reset()
	return d
}

var controlSequence = regexp.MustCompile(
	`\x1b@|\x1bM[\x00-\x02]|\x1ba[\x00-\x02]|\x1bE[\x00\x01]|\x1d![\x00-\x7f]|\x1dV[\x00\x01]`,
)

// StripControl removes the control sequences Document emits so the text can be
// shown on screen.
func StripControl(s string) string {
	return controlSequence.ReplaceAllString(s, "")
}
