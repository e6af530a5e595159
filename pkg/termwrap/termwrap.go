// Package termwrap fits help and report text to the width of the terminal.
package termwrap

import (
	"os"
	"strings"

	"github.com/mitchellh/go-wordwrap"
	"golang.org/x/term"
)

type TermWrap struct {
	width  int
	height int
}

// NewTermWrap measures the terminal attached to stdout, using the defaults
// when there is none (e.g. output is piped).
func NewTermWrap(defaultWidth, defaultHeight int) *TermWrap {
	var err error
	tw := &TermWrap{}

	tw.width, tw.height, err = term.GetSize(int(os.Stdout.Fd()))
	if err != nil || tw.width <= 0 {
		tw.width = defaultWidth
		tw.height = defaultHeight
	}

	return tw
}

func (tw *TermWrap) Paragraph(content string) string {
	return wordwrap.WrapString(content, uint(tw.width))
}

// IndentedParagraph wraps content so that every line, once prefixed, still
// fits. Below minimumWidth columns the prefix is dropped.
func (tw *TermWrap) IndentedParagraph(prefix, content string, minimumWidth int) string {
	width := tw.width - len(prefix)
	if width < minimumWidth {
		return tw.Paragraph(content)
	}

	lines := strings.Split(wordwrap.WrapString(content, uint(width)), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}

	return strings.Join(lines, "\n")
}
