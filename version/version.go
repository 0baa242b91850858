// Package version carries build metadata set with -ldflags -X.
package version

import (
	"fmt"
	"io"
)

var (
	BuildTS   = "None"
	GitHash   = "None"
	GitBranch = "None"
	Version   = "None"
)

// GetVersion is Version with the short git hash appended.
func GetVersion() string {
	if GitHash != "" {
		h := GitHash
		if len(h) > 7 {
			h = h[:7]
		}
		return fmt.Sprintf("%s-%s", Version, h)
	}
	return Version
}

// Printer writes the build metadata, one field per line.
func Printer(w io.Writer) {
	fmt.Fprintln(w, "Version:          ", GetVersion())
	fmt.Fprintln(w, "Git Branch:       ", GitBranch)
	fmt.Fprintln(w, "Git Hash:         ", GitHash)
	fmt.Fprintln(w, "Build Time (UTC): ", BuildTS)
}
