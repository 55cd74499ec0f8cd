package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/textuml/pkg/errors"
	"github.com/matzehuels/textuml/pkg/extract"
)

// stdin is read for "-" arguments. Tests replace it.
var stdin io.Reader = os.Stdin

// textInput is where a description came from.
type textInput struct {
	text string
	name string // base name for output files
}

// readText resolves the text to extract from, in order of precedence:
// --example, --file, "-" (stdin), then the positional words.
func readText(args []string, file string, example int) (textInput, error) {
	switch {
	case example > 0:
		ex, err := extract.ExampleByNumber(example)
		if err != nil {
			return textInput{}, errors.New(errors.ErrCodeInvalidInput, "%v", err)
		}
		return textInput{text: ex.Text, name: ex.Name}, nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			if os.IsNotExist(err) {
				return textInput{}, errors.Wrap(errors.ErrCodeNotFound, err, "file not found: %s", file)
			}
			return textInput{}, fmt.Errorf("read %s: %w", file, err)
		}
		return textInput{text: string(data), name: strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))}, nil
	case len(args) == 1 && args[0] == stdoutPath:
		data, err := io.ReadAll(io.LimitReader(stdin, errors.MaxTextLength+1))
		if err != nil {
			return textInput{}, fmt.Errorf("read stdin: %w", err)
		}
		return textInput{text: string(data), name: "diagram"}, nil
	}
	return textInput{text: strings.Join(args, " "), name: "diagram"}, nil
}
