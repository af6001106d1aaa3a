package fswatch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/jwilges/drover/pkg/errors"
)

var fs = afero.NewOsFs()

// Watch watches for changes beneath the install path and the stage's extra
// paths. It sends an event on the returned channel whenever a file within
// the watched paths changes. Pending events are collapsed into one so that a
// burst of writes triggers a single redeploy.
func Watch(installPath string, extraPaths []string) (chan struct{}, error) {
	pathsToWatch, err := getPathsToWatch(append([]string{installPath}, extraPaths...))
	if err != nil {
		return nil, errors.WithContext(err, "get paths")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WithContext(err, "create watcher")
	}

	for _, path := range pathsToWatch {
		if err := watcher.Add(path); err != nil {
			// Close the watcher so that we release the file handles for the
			// previously added paths.
			if err := watcher.Close(); err != nil {
				log.WithError(err).Warn("Failed to close file watcher")
			}

			return nil, errors.WithContext(err, fmt.Sprintf("watch %q", path))
		}
	}
	return combineUpdates(watcher.Events, watcher.Errors), nil
}

// combineUpdates collapses pending events into one, and keeps the watcher's
// error channel drained so that an emitted error can't block event delivery.
func combineUpdates(updates <-chan fsnotify.Event, errs <-chan error) chan struct{} {
	combined := make(chan struct{}, 1)
	go func() {
		for {
			select {
			case _, ok := <-updates:
				if !ok {
					return
				}
				select {
				case combined <- struct{}{}:
				default:
				}
			case err, ok := <-errs:
				if !ok {
					return
				}
				log.WithError(err).Warn("File watcher error")
			}
		}
	}()
	return combined
}

func getPathsToWatch(roots []string) (paths []string, err error) {
	for _, root := range roots {
		fi, err := fs.Stat(root)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.FileNotFound{Path: root}
			}
			return nil, errors.WithContext(err, "stat")
		}

		paths = append(paths, root)
		if fi.Mode().IsDir() {
			// Because fsnotify doesn't watch directories recursively, we walk
			// the directory's contents and add all subdirectories.
			subdirs, err := getSubdirectories(root)
			if err != nil {
				return nil, errors.WithContext(err, "get subdirs")
			}
			paths = append(paths, subdirs...)
		} else {
			// If the path is a file, then watch its parent directory as well
			// as the file itself. This way, if the file is removed and
			// re-added we'll notice.
			paths = append(paths, filepath.Dir(root))
		}
	}

	return paths, nil
}

func getSubdirectories(dir string) (paths []string, err error) {
	err = afero.Walk(fs, dir, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return errors.WithContext(err, "walk error")
		}

		if path == dir || !fi.IsDir() {
			return nil
		}

		paths = append(paths, path)
		return nil
	})
	return paths, err
}
