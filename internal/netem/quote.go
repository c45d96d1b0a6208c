package netem

import (
	"strings"

	"github.com/alessio/shellescape"
)

// Quote trims an operator supplied word and escapes it for a POSIX shell.
// Words made only of safe characters are returned unchanged; anything else is
// single-quoted. An empty word becomes ''.
func Quote(word string) string {
	return shellescape.Quote(strings.TrimSpace(word))
}
