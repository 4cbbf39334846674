package pathutils

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FindModuleRoot returns the absolute path to the root directory of the module
// containing start, searching for a go.mod file in start and its parents.
// An empty start means the current working directory.
// Returns an error if filesystem operations fail or if no go.mod file is found.
func FindModuleRoot(start string) (string, error) {
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, "failed to get current working directory")
		}
		start = wd
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve %s", start)
	}
	for {
		goModPath := filepath.Join(dir, "go.mod")
		fi, err := os.Stat(goModPath)
		switch {
		case err != nil && !os.IsNotExist(err):
			return "", errors.Wrapf(err, "failed to stat %s", goModPath)
		case err == nil && !fi.IsDir():
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", errors.Errorf("go.mod not found in %s or any of its parents", start)
}
