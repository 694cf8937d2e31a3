package configutil

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/titanous/json5"
)

var validate = validator.New()

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

func readOverride[T any](out *T, path string) (bool, error) {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(contents) == 0 {
		return false, nil
	}

	var override T
	err = json5.Unmarshal(contents, &override)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	err = mergo.Merge(out, override, mergo.WithOverride, mergo.WithoutDereference)
	if err != nil {
		return false, fmt.Errorf("merge %s: %w", path, err)
	}
	return true, nil
}

// reads a configuration file on top of `defaults`, `name` should come with a file
// extension, it will automatically be lopped off to produce the other extensions.
// this function will merge the following files, where higher number is more prioritized.
// 0. defaults
// 1. <name>.<ext>
// 2. <name>.local.<ext>
//
// zero values in a file never override a default, use a pointer field for
// values where the zero value has to be settable (ex. false, 0).
// if neither file exists, it returns the defaults along with os.ErrNotExist.
func ReadConfig[T any](name string, defaults T) (T, error) {
	out := defaults

	dirname := filepath.Dir(name)
	basename := filepath.Base(name)
	prefixname, ext := splitExt(basename)

	foundDefault, err := readOverride(&out, name)
	if err != nil {
		return defaults, err
	}

	localFilepath := filepath.Join(
		dirname,
		fmt.Sprintf("%s.local.%s", prefixname, ext),
	)
	foundLocal, err := readOverride(&out, localFilepath)
	if err != nil {
		return defaults, err
	}
	if foundLocal {
		slog.Info("merging config with local overrides", "local", localFilepath)
	}

	if !foundDefault && !foundLocal {
		return defaults, os.ErrNotExist
	}
	return out, nil
}

// ReadConfig but it recursively goes up the filesystem until the root
// to find a configuration file matching the name.
func ReadRecursively[T any](name string, defaults T) (T, error) {
	root, err := filepath.Abs("/")
	if err != nil {
		return defaults, err
	}
	current, err := os.Getwd()
	if err != nil {
		return defaults, err
	}

	for {
		config, err := ReadConfig(filepath.Join(current, name), defaults)
		if errors.Is(err, os.ErrNotExist) {
			if current == root {
				return defaults, os.ErrNotExist
			}
			current = filepath.Dir(current)
			continue
		}
		if err != nil {
			return defaults, err
		}
		return config, nil
	}
}

// Validate checks the `validate` struct tags of a config.
func Validate(config any) error {
	return validate.Struct(config)
}
