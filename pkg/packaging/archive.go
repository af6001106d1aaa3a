package packaging

import (
	"archive/zip"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/jwilges/drover/pkg/errors"
)

// Kind distinguishes the two archives a deploy produces.
type Kind int

const (
	// KindFunction is the archive deployed as the function's code.
	KindFunction Kind = iota
	// KindRequirementsLayer is the archive published as a layer version.
	KindRequirementsLayer
)

func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindRequirementsLayer:
		return "requirements"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// fixedModTime pins zip entry timestamps (1980-01-01 UTC) so that rebuilding
// identical content produces comparable archives.
var fixedModTime = time.Unix(315532800, 0).UTC()

// Archive is a built archive on scratch storage, together with the digest of
// its logical content. Callers own its lifecycle and must Close it once the
// upload has completed or failed.
type Archive struct {
	Kind   Kind
	Path   string
	Digest string
	Size   int64
}

// BuildArchive writes the entries to a zip file in scratch storage and
// returns its descriptor. Entries are written sorted by relative path so
// the archive layout is canonical; the digest is computed from the source
// content, not the compressed bytes.
//
// scratchDir may be empty, in which case the operating system's temporary
// directory is used.
func BuildArchive(kind Kind, entries []FileEntry, scratchDir string) (*Archive, error) {
	digest, err := Digest(entries)
	if err != nil {
		return nil, errors.WithContext(err, "compute digest")
	}

	sorted := make([]FileEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].RelativePath < sorted[j].RelativePath
	})

	scratch, err := afero.TempFile(fs, scratchDir, "_"+kind.String()+"-*.zip")
	if err != nil {
		return nil, errors.WithContext(err, "create scratch archive")
	}

	if err := writeArchive(scratch, sorted); err != nil {
		_ = scratch.Close()
		_ = fs.Remove(scratch.Name())
		return nil, errors.WithContext(err, "write archive")
	}
	if err := scratch.Close(); err != nil {
		_ = fs.Remove(scratch.Name())
		return nil, errors.WithContext(err, "close scratch archive")
	}

	info, err := fs.Stat(scratch.Name())
	if err != nil {
		_ = fs.Remove(scratch.Name())
		return nil, errors.WithContext(err, "stat scratch archive")
	}

	return &Archive{
		Kind:   kind,
		Path:   scratch.Name(),
		Digest: digest,
		Size:   info.Size(),
	}, nil
}

// FileName returns the archive's scratch file name, used as its storage
// object key.
func (a *Archive) FileName() string {
	return filepath.Base(a.Path)
}

// Bytes reads the archive's full content, for direct payload uploads.
func (a *Archive) Bytes() ([]byte, error) {
	return afero.ReadFile(fs, a.Path)
}

// Open returns a reader over the archive's content.
func (a *Archive) Open() (io.ReadCloser, error) {
	return fs.Open(a.Path)
}

// Close removes the scratch file. It is safe to call on every exit path.
func (a *Archive) Close() error {
	return fs.Remove(a.Path)
}

func writeArchive(out io.Writer, entries []FileEntry) error {
	writer := zip.NewWriter(out)
	for _, entry := range entries {
		header := &zip.FileHeader{
			Name:     sanitizeEntryPath(entry.RelativePath),
			Method:   zip.Deflate,
			Modified: fixedModTime,
		}
		header.SetMode(0o644)

		entryWriter, err := writer.CreateHeader(header)
		if err != nil {
			return err
		}

		source, err := fs.Open(entry.AbsolutePath)
		if err != nil {
			return err
		}
		_, err = io.Copy(entryWriter, source)
		closeErr := source.Close()
		if err != nil {
			return err
		}
		if closeErr != nil {
			return closeErr
		}
	}
	return writer.Close()
}

// sanitizeEntryPath normalizes zip entry paths: forward slashes, no leading
// slash, no '.' or '..' segments.
func sanitizeEntryPath(p string) string {
	s := strings.TrimLeft(filepath.ToSlash(p), "/")
	parts := strings.Split(s, "/")
	stack := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "", ".":
		case "..":
			if n := len(stack); n > 0 {
				stack = stack[:n-1]
			}
		default:
			stack = append(stack, part)
		}
	}
	return strings.Join(stack, "/")
}

// FormatFileSize returns a human readable representation of a size using the
// largest fitting 2^10 unit, e.g. "15.50 MiB".
func FormatFileSize(sizeInBytes float64) string {
	for _, unit := range []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB", "EiB", "ZiB"} {
		if sizeInBytes < 1024.0 && sizeInBytes > -1024.0 {
			return fmt.Sprintf("%.2f %s", sizeInBytes, unit)
		}
		sizeInBytes /= 1024.0
	}
	return fmt.Sprintf("%.2f YiB", sizeInBytes)
}
