package packaging

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readZip(t *testing.T, archive *Archive) map[string]string {
	data, err := archive.Bytes()
	require.NoError(t, err)

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	contents := map[string]string{}
	for _, file := range reader.File {
		assert.Equal(t, fixedModTime, file.Modified.UTC())
		source, err := file.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(source)
		require.NoError(t, err)
		require.NoError(t, source.Close())
		contents[file.Name] = string(content)
	}
	return contents
}

func TestBuildArchive(t *testing.T) {
	fs = afero.NewMemMapFs()
	entries := writeFiles(t, map[string]string{
		"lambda.py":       "def handler(event, context): pass\n",
		"pkg/__init__.py": "",
	})

	archive, err := BuildArchive(KindFunction, entries, "")
	require.NoError(t, err)

	assert.Equal(t, KindFunction, archive.Kind)
	assert.NotEmpty(t, archive.Digest)
	assert.Greater(t, archive.Size, int64(0))

	assert.Equal(t, map[string]string{
		"lambda.py":       "def handler(event, context): pass\n",
		"pkg/__init__.py": "",
	}, readZip(t, archive))

	require.NoError(t, archive.Close())
	exists, err := afero.Exists(fs, archive.Path)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestBuildArchiveCanonicalOrder(t *testing.T) {
	fs = afero.NewMemMapFs()
	entries := writeFiles(t, map[string]string{
		"b.py": "b",
		"a.py": "a",
		"c.py": "c",
	})

	archive, err := BuildArchive(KindFunction, entries, "")
	require.NoError(t, err)
	defer archive.Close()

	data, err := archive.Bytes()
	require.NoError(t, err)
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var names []string
	for _, file := range reader.File {
		names = append(names, file.Name)
	}
	assert.Equal(t, []string{"a.py", "b.py", "c.py"}, names)
}

func TestBuildArchiveRerooted(t *testing.T) {
	fs = afero.NewMemMapFs()
	entries := writeFiles(t, map[string]string{
		"requests/api.py": "api",
	})

	archive, err := BuildArchive(KindRequirementsLayer, Reroot(entries, "python"), "")
	require.NoError(t, err)
	defer archive.Close()

	assert.Equal(t, map[string]string{
		"python/requests/api.py": "api",
	}, readZip(t, archive))
}

func TestBuildArchiveDigestMatchesEntries(t *testing.T) {
	fs = afero.NewMemMapFs()
	entries := writeFiles(t, map[string]string{"lambda.py": "pass"})

	expDigest, err := Digest(entries)
	require.NoError(t, err)

	archive, err := BuildArchive(KindFunction, entries, "")
	require.NoError(t, err)
	defer archive.Close()
	assert.Equal(t, expDigest, archive.Digest)
}

func TestSanitizeEntryPath(t *testing.T) {
	tests := []struct {
		path string
		exp  string
	}{
		{"lambda.py", "lambda.py"},
		{"/abs/path.py", "abs/path.py"},
		{"./a/./b.py", "a/b.py"},
		{"a/../b.py", "b.py"},
		{"../../escape.py", "escape.py"},
	}
	for _, test := range tests {
		assert.Equal(t, test.exp, sanitizeEntryPath(test.path))
	}
}
