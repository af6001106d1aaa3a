package packaging

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/jwilges/drover/pkg/errors"
)

// Classify partitions the install path's file tree into function files and
// requirements files. Each discovered file is tested against the function
// file patterns in their configured order; the first match routes it to the
// function set, and a file matching no pattern lands in the requirements
// set. Files beneath the extra paths are always function files and are
// exempt from pattern testing.
func Classify(installPath string, functionPatterns, excludes []*regexp.Regexp, extraPaths []string) (FileSet, error) {
	discovered, err := listFiles(installPath, excludes)
	if err != nil {
		return FileSet{}, errors.WithContext(err, fmt.Sprintf("list files in %q", installPath))
	}

	var fileSet FileSet
	for _, entry := range discovered {
		if matchesAny(functionPatterns, entry.RelativePath) {
			fileSet.FunctionFiles = append(fileSet.FunctionFiles, entry)
		} else {
			fileSet.RequirementsFiles = append(fileSet.RequirementsFiles, entry)
		}
	}

	for _, extraPath := range extraPaths {
		extraEntries, err := listExtraPath(extraPath, excludes)
		if err != nil {
			return FileSet{}, err
		}
		fileSet.FunctionFiles = append(fileSet.FunctionFiles, extraEntries...)
	}

	log.Debugf("Classified %d function files and %d requirements files",
		len(fileSet.FunctionFiles), len(fileSet.RequirementsFiles))
	return fileSet, nil
}

// listFiles returns the files beneath root, sorted by relative path, with
// excluded files dropped.
func listFiles(root string, excludes []*regexp.Regexp) ([]FileEntry, error) {
	var entries []FileEntry
	err := afero.Walk(fs, root, func(walkPath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relativePath, err := filepath.Rel(root, walkPath)
		if err != nil {
			return err
		}
		relativePath = filepath.ToSlash(relativePath)
		if matchesAny(excludes, relativePath) {
			return nil
		}

		entries = append(entries, FileEntry{
			RelativePath: relativePath,
			AbsolutePath: walkPath,
			Size:         info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RelativePath < entries[j].RelativePath
	})
	return entries, nil
}

// listExtraPath resolves one function_extra_paths entry. The path may name a
// file or a directory; relative paths are resolved against the working
// directory. A missing path is a configuration error rather than a silently
// empty set.
func listExtraPath(extraPath string, excludes []*regexp.Regexp) ([]FileEntry, error) {
	info, err := fs.Stat(extraPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigurationError{
				Reason: fmt.Sprintf("extra path %q does not exist", extraPath),
			}
		}
		return nil, errors.WithContext(err, fmt.Sprintf("stat extra path %q", extraPath))
	}

	if !info.IsDir() {
		return []FileEntry{{
			RelativePath: filepath.Base(extraPath),
			AbsolutePath: extraPath,
			Size:         info.Size(),
		}}, nil
	}

	entries, err := listFiles(extraPath, excludes)
	if err != nil {
		return nil, errors.WithContext(err, fmt.Sprintf("list files in %q", extraPath))
	}
	return entries, nil
}

func matchesAny(patterns []*regexp.Regexp, relativePath string) bool {
	for _, pattern := range patterns {
		if pattern.MatchString(relativePath) {
			return true
		}
	}
	return false
}
