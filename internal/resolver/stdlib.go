package resolver

import (
	_ "embed"
	"strings"
)

//go:embed stdlib/python.txt
var pythonStdlibData string

var pythonStdlib = map[string]bool{}

func init() {
	for _, line := range strings.Split(pythonStdlibData, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			pythonStdlib[line] = true
			// Add base name: e.g. concurrent.futures -> concurrent
			parts := strings.Split(line, ".")
			pythonStdlib[parts[0]] = true
		}
	}
}

// IsStdlib reports whether a top-level module name belongs to the Python
// standard library or the builtin modules.
func IsStdlib(head string) bool {
	return pythonStdlib[head]
}
