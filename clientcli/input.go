package clientcli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// StdinName is the file name reported for content read from stdin.
const StdinName = "stdin"

// StdinLanguage is the language reported for content read from stdin.
const StdinLanguage = "text"

// Input is paste content read from a file or stdin.
type Input struct {
	Name     string
	Language string
	Content  *string // nil when there was nothing to read
}

// InputSource describes where ReadInput may read from.
type InputSource struct {
	// Path is the file to read. Empty means stdin.
	Path string
	// Stdin is read when Path is empty and StdinIsTerminal is false.
	Stdin           io.Reader
	StdinIsTerminal bool
}

// ReadInput reads paste content from src.
//
// A missing file is an *APIError. When required is set, having nothing to
// read (empty Path and an interactive stdin) is an *APIError too.
func ReadInput(src InputSource, required bool) (*Input, error) {
	in := &Input{}

	switch {
	case src.Path != "":
		data, err := os.ReadFile(src.Path) //#nosec G304 -- path is user-provided input
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, &APIError{Reason: ReasonInput, Message: "file not found: " + src.Path, Err: err}
			}
			return nil, &APIError{Reason: ReasonInput, Message: fmt.Sprintf("read %s: %v", src.Path, err), Err: err}
		}
		content := string(data)
		in.Name = src.Path
		in.Content = &content

	case !src.StdinIsTerminal && src.Stdin != nil:
		data, err := io.ReadAll(src.Stdin)
		if err != nil {
			return nil, &APIError{Reason: ReasonInput, Message: fmt.Sprintf("read stdin: %v", err), Err: err}
		}
		content := string(data)
		in.Name = StdinName
		in.Language = StdinLanguage
		in.Content = &content
	}

	if required && in.Content == nil {
		return nil, &APIError{Reason: ReasonInput, Message: "No content to paste!"}
	}
	return in, nil
}
