package uci

import (
	"bufio"
	"io"
	"strings"
)

// readCommands sends every non-empty line of r until quit or end of input.
func readCommands(r io.Reader, commands chan<- string) error {
	var scanner = bufio.NewScanner(r)
	for scanner.Scan() {
		var commandLine = strings.TrimSpace(scanner.Text())
		if commandLine == "quit" {
			return nil
		}
		if commandLine != "" {
			commands <- commandLine
		}
	}
	return scanner.Err()
}
