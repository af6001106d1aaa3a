package deploy

import (
	"context"
)

// Tag keys under which the last-known-deployed state is recorded on the
// remote function.
const (
	tagFunctionDigest       = "HeadFunctionDigest"
	tagRequirementsDigest   = "HeadRequirementsDigest"
	tagRequirementsLayerARN = "HeadRequirementsLayerArn"
)

// Record is the last-known-deployed digest bookkeeping for one stage. It is
// read once at the start of a synchronization run and rewritten only after a
// remote update has actually been applied.
type Record struct {
	FunctionDigest       string
	RequirementsDigest   string
	RequirementsLayerARN string
}

// RecordFromTags extracts the Record persisted in a function's tags. The
// second return value reports whether any prior record exists; its absence
// signals a first deploy, which forces both archives to be treated as
// changed.
func RecordFromTags(tags map[string]string) (Record, bool) {
	record := Record{
		FunctionDigest:       tags[tagFunctionDigest],
		RequirementsDigest:   tags[tagRequirementsDigest],
		RequirementsLayerARN: tags[tagRequirementsLayerARN],
	}
	ok := record.FunctionDigest != "" ||
		record.RequirementsDigest != "" ||
		record.RequirementsLayerARN != ""
	return record, ok
}

// Tags returns the record's non-empty fields as function tags. Empty fields
// are omitted so that a partial write never clears state recorded by an
// earlier run.
func (r Record) Tags() map[string]string {
	tags := map[string]string{}
	if r.FunctionDigest != "" {
		tags[tagFunctionDigest] = r.FunctionDigest
	}
	if r.RequirementsDigest != "" {
		tags[tagRequirementsDigest] = r.RequirementsDigest
	}
	if r.RequirementsLayerARN != "" {
		tags[tagRequirementsLayerARN] = r.RequirementsLayerARN
	}
	return tags
}

// StateStore persists Records in the tags of the remote function identified
// by functionARN. Reads happen through RecordFromTags on an already-fetched
// function descriptor; Put performs the remote write.
type StateStore struct {
	client      RemoteClient
	functionARN string
}

// NewStateStore creates a store bound to one function resource.
func NewStateStore(client RemoteClient, functionARN string) *StateStore {
	return &StateStore{client: client, functionARN: functionARN}
}

// Put writes the record to the function's tags.
func (s *StateStore) Put(ctx context.Context, record Record) error {
	return s.client.TagFunction(ctx, s.functionARN, record.Tags())
}
