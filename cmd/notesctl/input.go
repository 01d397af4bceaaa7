package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is swapped in tests so prompts never touch a real terminal.
var readPassword = term.ReadPassword

func promptLine(r *bufio.Reader, w io.Writer, label string) (string, error) {
	if _, err := fmt.Fprintf(w, "%s: ", label); err != nil {
		return "", err
	}
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptSecret reads without echo when stdin is a terminal and falls back to
// a plain line read for piped input.
func promptSecret(r *bufio.Reader, w io.Writer, label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return promptLine(r, w, label)
	}
	if _, err := fmt.Fprintf(w, "%s: ", label); err != nil {
		return "", err
	}
	pw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// promptMultiline collects lines until an empty one.
func promptMultiline(r *bufio.Reader, w io.Writer, label string) (string, error) {
	if _, err := fmt.Fprintf(w, "%s (empty line to finish):\n", label); err != nil {
		return "", err
	}
	var lines []string
	for {
		line, err := r.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
		if err != nil {
			break
		}
	}
	return strings.Join(lines, "\n"), nil
}
