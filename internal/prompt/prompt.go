// Package prompt asks the user for the inputs of an interactive run.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var ErrNoPath = errors.New("no image path given")

// Prompter reads answers line by line from one input.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Path asks for the image to process. Surrounding whitespace and quotes (as
// left by dragging a file into a terminal) are removed.
func (p *Prompter) Path() (string, error) {
	answer, err := p.ask("Enter the path to your image file: ")
	if err != nil {
		return "", err
	}

	answer = strings.Trim(answer, `"'`)
	if answer == "" {
		return "", ErrNoPath
	}

	return answer, nil
}

// Count asks for the number of swatches. Anything that isn't a positive
// integer, including an empty answer, yields def.
func (p *Prompter) Count(def int) int {
	answer, err := p.ask(fmt.Sprintf("Enter the number of swatches [%d]: ", def))
	if err != nil || answer == "" {
		return def
	}

	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 {
		fmt.Fprintf(p.out, "Invalid swatch count %q, using %d\n", answer, def)
		return def
	}

	return n
}

//--------------------------------------------------------------------------------
// private

func (p *Prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)

	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}

	return strings.TrimSpace(line), nil
}
