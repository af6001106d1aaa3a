package packaging

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sha256 of the empty input.
const emptyDigest = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

func writeFiles(t *testing.T, files map[string]string) []FileEntry {
	entries := make([]FileEntry, 0, len(files))
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
		entries = append(entries, FileEntry{
			RelativePath: path,
			AbsolutePath: path,
			Size:         int64(len(content)),
		})
	}
	return entries
}

func TestDigestDeterministic(t *testing.T) {
	fs = afero.NewMemMapFs()
	entries := writeFiles(t, map[string]string{
		"lambda.py":          "def handler(event, context): pass\n",
		"pkg/__init__.py":    "",
		"requirements/a.txt": "requests\n",
	})

	first, err := Digest(entries)
	require.NoError(t, err)
	second, err := Digest(entries)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Discovery order must not matter.
	reversed := make([]FileEntry, len(entries))
	for i, entry := range entries {
		reversed[len(entries)-1-i] = entry
	}
	third, err := Digest(reversed)
	require.NoError(t, err)
	assert.Equal(t, first, third)
}

func TestDigestSensitivity(t *testing.T) {
	fs = afero.NewMemMapFs()
	entries := writeFiles(t, map[string]string{
		"lambda.py": "def handler(event, context): pass\n",
		"util.py":   "x = 1\n",
	})
	base, err := Digest(entries)
	require.NoError(t, err)

	// One changed byte changes the digest.
	require.NoError(t, afero.WriteFile(fs, "util.py", []byte("x = 2\n"), 0644))
	mutated, err := Digest(entries)
	require.NoError(t, err)
	assert.NotEqual(t, base, mutated)

	// Membership changes the digest even when all content is unchanged.
	require.NoError(t, afero.WriteFile(fs, "util.py", []byte("x = 1\n"), 0644))
	shrunk, err := Digest(entries[:1])
	require.NoError(t, err)
	assert.NotEqual(t, base, shrunk)

	// A renamed entry changes the digest even with identical content.
	renamed := make([]FileEntry, len(entries))
	copy(renamed, entries)
	renamed[1].RelativePath = "renamed.py"
	renamedDigest, err := Digest(renamed)
	require.NoError(t, err)
	assert.NotEqual(t, base, renamedDigest)
}

func TestDigestFraming(t *testing.T) {
	// Entry sets whose bare path/content concatenations are identical must
	// still digest differently.
	fs = afero.NewMemMapFs()
	left := writeFiles(t, map[string]string{"ab": "c"})

	first, err := Digest(left)
	require.NoError(t, err)

	fs = afero.NewMemMapFs()
	right := writeFiles(t, map[string]string{"a": "bc"})

	second, err := Digest(right)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestDigestEmpty(t *testing.T) {
	fs = afero.NewMemMapFs()
	digest, err := Digest(nil)
	require.NoError(t, err)
	assert.Equal(t, emptyDigest, digest)
}

func TestDigestMissingFile(t *testing.T) {
	fs = afero.NewMemMapFs()
	_, err := Digest([]FileEntry{{RelativePath: "gone.py", AbsolutePath: "gone.py"}})
	assert.Error(t, err)
}
