package config

import (
	"fmt"
	"os"

	"github.com/ghodss/yaml"
	goversion "github.com/hashicorp/go-version"
	"github.com/spf13/afero"

	"github.com/jwilges/drover/pkg/errors"
)

// parseSettingsErrTemplate is a template for when the CLI fails to parse the
// yaml settings file. This can happen for a multitude of reasons, including
// extraneous fields and incorrect field types. However, the yaml library
// constructs errors in a way that loses context, and so we can only pass the
// error message on.
const parseSettingsErrTemplate = "Settings file could not be parsed. " +
	"Please review %q.\n" +
	"Common pitfalls include:\n" +
	" - Using the wrong types for fields\n" +
	" - Having extra fields inside the settings file\n\n" +
	"For reference, here is the error from the parser:\n" +
	"%s"

// SupportedSettingsVersion is the newest settings file version this binary
// understands. Files that omit the version field default to it.
const SupportedSettingsVersion = "1.0"

type incompatibleVersionError struct {
	path, exp, actual string
}

func (err incompatibleVersionError) Error() string {
	return err.FriendlyMessage()
}

func (err incompatibleVersionError) FriendlyMessage() string {
	return fmt.Sprintf("The settings file %q is incompatible "+
		"with this version of drover.\n"+
		"Expected version %q or older, but got %q.", err.path, err.exp, err.actual)
}

func parseSettingsFile(path string, settings *Settings) error {
	settingsBytes, err := afero.ReadFile(fs, path)
	if err != nil {
		if isPathNotFoundError(err) {
			return errors.FileNotFound{Path: path}
		}
		return errors.WithContext(err, "read file")
	}

	err = yaml.Unmarshal(settingsBytes, settings)
	if err != nil {
		return errors.NewFriendlyError(parseSettingsErrTemplate, path, err)
	}

	if err := checkVersion(path, settings.Version); err != nil {
		return err
	}

	// Do a strict unmarshal to check for any extra fields. We do a non-strict
	// unmarshal first so that we can catch version errors before erroring on
	// extra fields.
	err = yaml.UnmarshalStrict(settingsBytes, settings, yaml.DisallowUnknownFields)
	if err != nil {
		return errors.NewFriendlyError(parseSettingsErrTemplate, path, err)
	}
	return nil
}

func checkVersion(path, actual string) error {
	if actual == "" {
		return nil
	}

	parsed, err := goversion.NewVersion(actual)
	if err != nil {
		return incompatibleVersionError{path, SupportedSettingsVersion, actual}
	}

	supported := goversion.Must(goversion.NewVersion(SupportedSettingsVersion))
	if parsed.GreaterThan(supported) {
		return incompatibleVersionError{path, SupportedSettingsVersion, actual}
	}
	return nil
}

func isPathNotFoundError(err error) bool {
	return os.IsNotExist(err)
}
