package devenv

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const stateDirPrefix = "<dev_state>"

var modName = regexp.MustCompile(`(?m)^module *([\w\-_/.]+)$`)

func isWorkspaceRoot(currentdir string) bool {
	mod, err := os.ReadFile(filepath.Join(currentdir, "go.mod"))
	if err != nil {
		return false
	}
	matches := modName.FindSubmatch(mod)
	return len(matches) >= 2 && string(matches[1]) == "uwsched"
}

func GetWorkspaceRoot() (string, error) {
	currentdir, err := filepath.Abs(".")
	if err != nil {
		return "", err
	}
	root, err := filepath.Abs("/")
	if err != nil {
		return "", err
	}

	for currentdir != root {
		if !isWorkspaceRoot(currentdir) {
			currentdir = filepath.Dir(currentdir)
			continue
		}
		return currentdir, nil
	}

	return "", os.ErrNotExist
}

// StateDir returns dev/.state under the workspace root, creating it if needed.
func StateDir() (string, error) {
	root, err := GetWorkspaceRoot()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(root, "dev", ".state")
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return "", err
	}
	return dir, nil
}

// ResolvePath expands a leading <dev_state> into the dev state directory,
// any other path is returned as is.
func ResolvePath(path string) (string, error) {
	if !strings.HasPrefix(path, stateDirPrefix) {
		return path, nil
	}

	statedir, err := StateDir()
	if err != nil {
		return "", err
	}

	subpath := strings.TrimPrefix(path, stateDirPrefix)
	subpath = strings.TrimLeft(subpath, `/\`)
	return filepath.Join(statedir, subpath), nil
}
