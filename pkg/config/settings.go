package config

import (
	"regexp"
	"sort"
	"strings"

	homedir "github.com/mitchellh/go-homedir"

	"github.com/jwilges/drover/pkg/errors"
)

// defaultExcludesByRuntime maps runtime name patterns to the exclude patterns
// applied when a stage doesn't define its own.
var defaultExcludesByRuntime = map[*regexp.Regexp][]string{
	regexp.MustCompile(`^python\d+\.\d+$`): {`.*__pycache__.*`},
}

// S3BucketPath identifies a bucket (and key prefix) that archives are staged
// through before the corresponding update call.
type S3BucketPath struct {
	RegionName string `json:"region_name"`
	BucketName string `json:"bucket_name"`
	Prefix     string `json:"prefix,omitempty"`
}

// Stage is one named deployment target. It is immutable once parsed; each
// deploy invocation consumes exactly one Stage.
type Stage struct {
	RegionName             string        `json:"region_name"`
	FunctionName           string        `json:"function_name"`
	CompatibleRuntime      string        `json:"compatible_runtime"`
	FunctionFilePatterns   []string      `json:"function_file_patterns,omitempty"`
	FunctionExtraPaths     []string      `json:"function_extra_paths,omitempty"`
	PackageExcludePatterns []string      `json:"package_exclude_patterns,omitempty"`
	UploadBucket           *S3BucketPath `json:"upload_bucket,omitempty"`

	// Compiled from the pattern fields at parse time. Getter methods are used
	// rather than public fields so that they can't get set by the yaml
	// unmarshalling.
	functionFilePatterns   []*regexp.Regexp
	packageExcludePatterns []*regexp.Regexp
}

// FunctionPatterns returns the compiled function file patterns in their
// configured order. Pattern order is significant: classification uses the
// first match.
func (s Stage) FunctionPatterns() []*regexp.Regexp {
	return s.functionFilePatterns
}

// ExcludePatterns returns the compiled package exclude patterns.
func (s Stage) ExcludePatterns() []*regexp.Regexp {
	return s.packageExcludePatterns
}

// Settings is the parsed representation of a drover settings file.
type Settings struct {
	Version string           `json:"version,omitempty"`
	Stages  map[string]Stage `json:"stages"`
}

// ParseSettings parses and validates the settings file at path. All stage
// patterns are compiled here, once, so that pattern errors surface before any
// filesystem or remote work begins.
func ParseSettings(path string) (Settings, error) {
	var settings Settings
	if err := parseSettingsFile(path, &settings); err != nil {
		return Settings{}, errors.WithContext(err, "parse")
	}

	if len(settings.Stages) == 0 {
		return Settings{}, errors.MissingFieldError{Field: "stages"}
	}

	for name, stage := range settings.Stages {
		finalized, err := NewStage(stage)
		if err != nil {
			return Settings{}, errors.WithContext(err, "stage "+name)
		}
		settings.Stages[name] = finalized
	}

	return settings, nil
}

// NewStage validates a stage definition and compiles its patterns. It is
// invoked for every stage a settings file defines, and directly by callers
// that build stages programmatically.
func NewStage(stage Stage) (Stage, error) {
	return finalizeStage(stage)
}

// Stage returns the named stage, or a friendly error listing the stages the
// settings file actually defines.
func (s Settings) Stage(name string) (Stage, error) {
	stage, ok := s.Stages[name]
	if !ok {
		known := make([]string, 0, len(s.Stages))
		for stageName := range s.Stages {
			known = append(known, stageName)
		}
		sort.Strings(known)
		return Stage{}, errors.NewFriendlyError(
			"The stage %q is not defined in the settings file.\n"+
				"Defined stages: %s", name, strings.Join(known, ", "))
	}
	return stage, nil
}

func finalizeStage(stage Stage) (Stage, error) {
	switch {
	case stage.RegionName == "":
		return Stage{}, errors.MissingFieldError{Field: "region_name"}
	case stage.FunctionName == "":
		return Stage{}, errors.MissingFieldError{Field: "function_name"}
	case stage.CompatibleRuntime == "":
		return Stage{}, errors.MissingFieldError{Field: "compatible_runtime"}
	}

	if stage.PackageExcludePatterns == nil {
		for runtimePattern, excludes := range defaultExcludesByRuntime {
			if runtimePattern.MatchString(stage.CompatibleRuntime) {
				stage.PackageExcludePatterns = append(stage.PackageExcludePatterns, excludes...)
			}
		}
	}

	var err error
	stage.functionFilePatterns, err = compilePatterns(stage.FunctionFilePatterns)
	if err != nil {
		return Stage{}, err
	}
	stage.packageExcludePatterns, err = compilePatterns(stage.PackageExcludePatterns)
	if err != nil {
		return Stage{}, err
	}

	for i, extraPath := range stage.FunctionExtraPaths {
		expanded, err := homedir.Expand(extraPath)
		if err != nil {
			return Stage{}, errors.WithContext(err, "expand homedir")
		}
		stage.FunctionExtraPaths[i] = expanded
	}

	if stage.UploadBucket != nil && stage.UploadBucket.BucketName == "" {
		return Stage{}, errors.MissingFieldError{Field: "upload_bucket.bucket_name"}
	}

	return stage, nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		expr, err := regexp.Compile(pattern)
		if err != nil {
			return nil, errors.PatternError{Pattern: pattern, Err: err}
		}
		compiled = append(compiled, expr)
	}
	return compiled, nil
}
