package deploy

import (
	"context"
	"io"

	"github.com/jwilges/drover/pkg/config"
)

//go:generate mockery -name RemoteClient

// FunctionDescriptor is the subset of the remote function's state that the
// synchronizer consumes.
type FunctionDescriptor struct {
	Name      string
	ARN       string
	Runtime   string
	LayerARNs []string
	CodeSize  int64
	Tags      map[string]string
}

// LayerVersionRef identifies a published layer version.
type LayerVersionRef struct {
	ARN      string
	CodeSize int64
}

// ObjectRef identifies an object uploaded to storage, including the version
// when the bucket is versioned.
type ObjectRef struct {
	Region    string
	Bucket    string
	Key       string
	VersionID string
}

// Payload carries archive content to a remote update call: either a
// reference to a previously uploaded storage object, or the raw bytes for a
// direct upload. Exactly one of the two fields is set.
type Payload struct {
	Object *ObjectRef
	Bytes  []byte
}

// RemoteClient abstracts the remote platform operations the synchronizer
// depends on. The synchronizer never retries these beyond the single
// documented storage-to-direct fallback; any unrecovered failure is
// surfaced verbatim.
type RemoteClient interface {
	// GetFunction describes the remote function, including its tags.
	GetFunction(ctx context.Context, name string) (*FunctionDescriptor, error)

	// GetLayerVersion verifies that the layer version behind arn still
	// exists.
	GetLayerVersion(ctx context.Context, arn string) error

	// UploadObject uploads body to the bucket and returns a reference to the
	// created object. Failures are StorageErrors.
	UploadObject(ctx context.Context, bucket config.S3BucketPath, key string, body io.Reader) (ObjectRef, error)

	// DeleteObject removes an object previously created by UploadObject.
	DeleteObject(ctx context.Context, ref ObjectRef) error

	// UpdateFunctionCode replaces the function's code with the payload and
	// returns the resulting function state.
	UpdateFunctionCode(ctx context.Context, name string, payload Payload) (*FunctionDescriptor, error)

	// PublishLayerVersion publishes a new layer version from the payload.
	PublishLayerVersion(ctx context.Context, layerName, description string, payload Payload, compatibleRuntime string) (LayerVersionRef, error)

	// UpdateFunctionConfiguration sets the function's runtime and attached
	// layers.
	UpdateFunctionConfiguration(ctx context.Context, name, runtime string, layerARNs []string) error

	// TagFunction merges tags into the function's tag set.
	TagFunction(ctx context.Context, arn string, tags map[string]string) error
}
