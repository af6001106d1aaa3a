package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwilges/drover/pkg/errors"
)

const settingsPath = "/project/drover.yaml"

func writeSettings(t *testing.T, contents string) {
	fs = afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, settingsPath, []byte(contents), 0644))
}

func TestParseSettings(t *testing.T) {
	writeSettings(t, `
version: "1.0"
stages:
  production:
    region_name: us-east-1
    function_name: orders
    compatible_runtime: python3.12
    function_file_patterns:
      - '^lambda\.py$'
    upload_bucket:
      region_name: us-east-1
      bucket_name: deploy-artifacts
      prefix: orders/
`)

	settings, err := ParseSettings(settingsPath)
	require.NoError(t, err)

	stage, err := settings.Stage("production")
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", stage.RegionName)
	assert.Equal(t, "orders", stage.FunctionName)
	assert.Equal(t, "python3.12", stage.CompatibleRuntime)
	assert.Equal(t, &S3BucketPath{
		RegionName: "us-east-1",
		BucketName: "deploy-artifacts",
		Prefix:     "orders/",
	}, stage.UploadBucket)

	require.Len(t, stage.FunctionPatterns(), 1)
	assert.True(t, stage.FunctionPatterns()[0].MatchString("lambda.py"))
	assert.False(t, stage.FunctionPatterns()[0].MatchString("requests/api.py"))

	// Python runtimes get the pycache exclude by default.
	require.Len(t, stage.ExcludePatterns(), 1)
	assert.True(t, stage.ExcludePatterns()[0].MatchString("pkg/__pycache__/a.pyc"))
}

func TestParseSettingsExplicitExcludes(t *testing.T) {
	writeSettings(t, `
stages:
  production:
    region_name: us-east-1
    function_name: orders
    compatible_runtime: python3.12
    package_exclude_patterns: []
`)

	settings, err := ParseSettings(settingsPath)
	require.NoError(t, err)

	// An explicitly empty list suppresses the runtime defaults.
	stage := settings.Stages["production"]
	assert.Empty(t, stage.ExcludePatterns())
}

func TestParseSettingsErrors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		expError string
	}{
		{
			name:     "no stages",
			contents: `version: "1.0"`,
			expError: "missing required field: stages",
		},
		{
			name: "missing region",
			contents: `
stages:
  production:
    function_name: orders
    compatible_runtime: python3.12
`,
			expError: "missing required field: region_name",
		},
		{
			name: "bucket without name",
			contents: `
stages:
  production:
    region_name: us-east-1
    function_name: orders
    compatible_runtime: python3.12
    upload_bucket:
      region_name: us-east-1
`,
			expError: "missing required field: upload_bucket.bucket_name",
		},
		{
			name: "invalid pattern",
			contents: `
stages:
  production:
    region_name: us-east-1
    function_name: orders
    compatible_runtime: python3.12
    function_file_patterns:
      - '['
`,
			expError: `invalid pattern "["`,
		},
		{
			name: "unsupported version",
			contents: `
version: "2.0"
stages:
  production:
    region_name: us-east-1
    function_name: orders
    compatible_runtime: python3.12
`,
			expError: "incompatible",
		},
		{
			name: "unknown field",
			contents: `
stages:
  production:
    region_name: us-east-1
    function_name: orders
    compatible_runtime: python3.12
    no_such_field: true
`,
			expError: "could not be parsed",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			writeSettings(t, test.contents)
			_, err := ParseSettings(settingsPath)
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.expError)
		})
	}
}

func TestParseSettingsMissingFile(t *testing.T) {
	fs = afero.NewMemMapFs()
	_, err := ParseSettings(settingsPath)
	require.Error(t, err)

	var notFound errors.FileNotFound
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, settingsPath, notFound.Path)
}

func TestUnknownStage(t *testing.T) {
	writeSettings(t, `
stages:
  staging:
    region_name: us-east-1
    function_name: orders
    compatible_runtime: python3.12
  production:
    region_name: us-east-1
    function_name: orders
    compatible_runtime: python3.12
`)

	settings, err := ParseSettings(settingsPath)
	require.NoError(t, err)

	_, err = settings.Stage("qa")
	require.Error(t, err)
	assert.Equal(t, "The stage \"qa\" is not defined in the settings file.\n"+
		"Defined stages: production, staging", errors.GetPrintableMessage(err))
}

func TestNewStage(t *testing.T) {
	stage, err := NewStage(Stage{
		RegionName:           "us-east-1",
		FunctionName:         "orders",
		CompatibleRuntime:    "python3.12",
		FunctionFilePatterns: []string{`^lambda\.py$`},
	})
	require.NoError(t, err)
	require.Len(t, stage.FunctionPatterns(), 1)
	require.Len(t, stage.ExcludePatterns(), 1)
}
