package receipt

import (
	"strings"

	"github.com/kikibeach/kiki-pos/pkg/printer"
)

// encodePreview renders the document as plain text, centering with spaces.
func encodePreview(doc *document, width int) string {
	var sb strings.Builder
	for _, b := range doc.blocks {
		for _, line := range b.lines {
			if b.centered {
				line = center(line, width)
			}
			sb.WriteString(strings.TrimRight(line, " \t"))
			sb.WriteByte('\n')
		}
	}
	return strings.TrimRight(sb.String(), " \t\r\n")
}

// encodeProtocol renders the document as an ESC/POS stream. Centered blocks
// are aligned by the printer and are not padded.
func encodeProtocol(doc *document, font Font) string {
	charFont := printer.CharacterFontA
	if font == FontB {
		charFont = printer.CharacterFontB
	}

	d := printer.NewDocument().
		Init().
		SelectFont(charFont).
		SetFontSize(printer.FontNormal)

	for _, b := range doc.blocks {
		if b.centered {
			d.SetAlign(printer.AlignCenter)
		}
		for _, line := range b.lines {
			d.Text(strings.TrimRight(line, " \t"))
		}
		if b.centered {
			d.SetAlign(printer.AlignLeft)
		}
	}

	return string(d.TrimTrailingSpace().FeedLines(3).Cut().Bytes())
}
