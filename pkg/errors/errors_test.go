package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPrintableMessage(t *testing.T) {
	base := New("connection refused")
	wrapped := WithContext(WithContext(base, "upload archive"), "deploy stage")
	assert.Equal(t, "deploy stage: upload archive: connection refused",
		GetPrintableMessage(wrapped))

	// A friendly error anywhere in the chain replaces the context trail.
	friendly := NewFriendlyError("The bucket %q does not exist.", "deploy-artifacts")
	assert.Equal(t, `The bucket "deploy-artifacts" does not exist.`,
		GetPrintableMessage(WithContext(friendly, "upload archive")))
}

func TestAs(t *testing.T) {
	err := WithContext(StorageError{Op: "put object", Err: New("denied")}, "stage archive")

	var storageErr StorageError
	assert.True(t, As(err, &storageErr))
	assert.Equal(t, "put object", storageErr.Op)

	var remoteErr RemoteError
	assert.False(t, As(err, &remoteErr))
}
