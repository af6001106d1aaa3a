package packaging

import (
	"fmt"
	"path"
	"regexp"

	"github.com/jwilges/drover/pkg/errors"
)

// FileEntry is one file destined for an archive.
type FileEntry struct {
	// RelativePath is the forward-slash normalized path of the entry within
	// the archive.
	RelativePath string

	// AbsolutePath locates the file's content on the local filesystem.
	AbsolutePath string

	Size int64
}

// FileSet is the partition of an install tree into the files that belong in
// the function archive and the files that belong in the requirements layer.
// The two sets are disjoint; together with the extra-path files they cover
// every discovered file.
type FileSet struct {
	FunctionFiles     []FileEntry
	RequirementsFiles []FileEntry
}

// pythonRuntimePattern matches the Lambda runtimes whose layer library path
// is known.
var pythonRuntimePattern = regexp.MustCompile(`^python\d+\.\d+$`)

// RuntimeLibraryPath returns the directory inside a layer archive that the
// runtime adds to its library search path.
func RuntimeLibraryPath(runtime string) (string, error) {
	if pythonRuntimePattern.MatchString(runtime) {
		return "python", nil
	}
	return "", errors.ConfigurationError{
		Reason: fmt.Sprintf("unsupported runtime %q", runtime),
	}
}

// Reroot returns a copy of entries with each relative path placed beneath
// root. Used to place requirements files under the runtime's library path
// inside the layer archive.
func Reroot(entries []FileEntry, root string) []FileEntry {
	rerooted := make([]FileEntry, len(entries))
	for i, entry := range entries {
		entry.RelativePath = path.Join(root, entry.RelativePath)
		rerooted[i] = entry
	}
	return rerooted
}
