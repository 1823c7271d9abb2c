package pgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitGoogleStoragePath(t *testing.T) {
	bucket, object, err := splitGoogleStoragePath("gs://my-bucket/plink/chr22.pgen")
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", bucket)
	assert.Equal(t, "plink/chr22.pgen", object)

	for _, bad := range []string{"gs://", "gs://bucket", "gs://bucket/", "gs:///object"} {
		_, _, err := splitGoogleStoragePath(bad)
		assert.Error(t, err, bad)
	}
}

func TestIsGoogleStoragePath(t *testing.T) {
	assert.True(t, isGoogleStoragePath("gs://bucket/chr22"))
	assert.False(t, isGoogleStoragePath("/data/chr22"))
}
