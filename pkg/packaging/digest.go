package packaging

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"

	"github.com/jwilges/drover/pkg/errors"
)

// Digest computes the content digest of a set of archive entries: a SHA-256
// over one "<content hash>  <relative path>\n" line per entry, in
// relative-path order. Hashing each entry's content separately frames the
// (path, content) pairs, so distinct entry sets can't collapse to the same
// byte stream. The digest depends only on the entries' logical content, never
// on filesystem metadata or discovery order, so two builds of identical
// content on different machines yield the same value. An empty entry set
// digests to the hash of the empty input.
func Digest(entries []FileEntry) (string, error) {
	sorted := make([]FileEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].RelativePath < sorted[j].RelativePath
	})

	hash := sha256.New()
	for _, entry := range sorted {
		contentHash := sha256.New()
		source, err := fs.Open(entry.AbsolutePath)
		if err != nil {
			return "", errors.WithContext(err, fmt.Sprintf("open %q", entry.AbsolutePath))
		}
		_, err = io.Copy(contentHash, source)
		closeErr := source.Close()
		if err != nil {
			return "", errors.WithContext(err, fmt.Sprintf("read %q", entry.AbsolutePath))
		}
		if closeErr != nil {
			return "", closeErr
		}

		fmt.Fprintf(hash, "%x  %s\n", contentHash.Sum(nil), entry.RelativePath)
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}
