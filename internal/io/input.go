package io

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// StdinName labels text read from standard input
const StdinName = "<stdin>"

// ErrNoInput is returned when neither files nor piped stdin supply text
var ErrNoInput = errors.New("no input: pass a file or pipe text on stdin")

// Source is one named piece of template text. Text is kept byte-for-byte so
// reported positions line up with the file.
type Source struct {
	Name string
	Text string
}

// ReadSources reads each path in order; "-" reads stdin. With no paths, stdin
// is read as a single source.
func ReadSources(stdin io.Reader, paths []string) ([]Source, error) {
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	sources := make([]Source, 0, len(paths))
	stdinUsed := false
	for _, path := range paths {
		if path == "-" {
			if stdinUsed {
				return nil, fmt.Errorf("stdin can only be read once")
			}
			stdinUsed = true

			text, err := ReadStdin(stdin)
			if err != nil {
				return nil, err
			}
			sources = append(sources, Source{Name: StdinName, Text: text})
			continue
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read template file %q: %w", path, err)
		}
		sources = append(sources, Source{Name: path, Text: string(content)})
	}

	return sources, nil
}

// ReadStdin reads all of stdin. An interactive terminal yields ErrNoInput
// rather than blocking for keyboard input.
func ReadStdin(stdin io.Reader) (string, error) {
	if stdin == nil {
		return "", ErrNoInput
	}

	// check if stdin is a pipe or has data
	if f, ok := stdin.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil {
			return "", fmt.Errorf("failed to stat stdin: %w", err)
		}
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			return "", ErrNoInput
		}
	}

	content, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read from stdin: %w", err)
	}
	return string(content), nil
}
