package deploy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordFromTags(t *testing.T) {
	tests := []struct {
		name      string
		tags      map[string]string
		expRecord Record
		expOK     bool
	}{
		{
			name: "no tags",
		},
		{
			name: "unrelated tags only",
			tags: map[string]string{"Team": "payments"},
		},
		{
			name: "full record",
			tags: map[string]string{
				"HeadFunctionDigest":       "abc",
				"HeadRequirementsDigest":   "def",
				"HeadRequirementsLayerArn": "arn:layer",
				"Team":                     "payments",
			},
			expRecord: Record{
				FunctionDigest:       "abc",
				RequirementsDigest:   "def",
				RequirementsLayerARN: "arn:layer",
			},
			expOK: true,
		},
		{
			name: "partial record",
			tags: map[string]string{"HeadFunctionDigest": "abc"},
			expRecord: Record{
				FunctionDigest: "abc",
			},
			expOK: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			record, ok := RecordFromTags(test.tags)
			assert.Equal(t, test.expRecord, record)
			assert.Equal(t, test.expOK, ok)
		})
	}
}

func TestRecordTags(t *testing.T) {
	assert.Equal(t, map[string]string{}, Record{}.Tags())

	assert.Equal(t, map[string]string{
		"HeadFunctionDigest": "abc",
	}, Record{FunctionDigest: "abc"}.Tags())

	assert.Equal(t, map[string]string{
		"HeadFunctionDigest":       "abc",
		"HeadRequirementsDigest":   "def",
		"HeadRequirementsLayerArn": "arn:layer",
	}, Record{
		FunctionDigest:       "abc",
		RequirementsDigest:   "def",
		RequirementsLayerARN: "arn:layer",
	}.Tags())
}
