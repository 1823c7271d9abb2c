package pgen

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
)

const googleStorageScheme = "gs://"

func isGoogleStoragePath(path string) bool {
	return strings.HasPrefix(path, googleStorageScheme)
}

func splitGoogleStoragePath(path string) (bucket, object string, err error) {
	trimmed := strings.TrimPrefix(path, googleStorageScheme)
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%q is not a gs://bucket/object path", path)
	}
	return parts[0], parts[1], nil
}

// gcsObject serves ReadAt with ranged GETs. The context given at open time
// governs every read because io.ReaderAt has no context parameter.
type gcsObject struct {
	ctx    context.Context
	path   string
	handle *storage.ObjectHandle
	size   int64
}

func openGoogleStorageObject(ctx context.Context, client *storage.Client, path string) (*gcsObject, error) {
	bucket, object, err := splitGoogleStoragePath(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	handle := client.Bucket(bucket).Object(object)
	attrs, err := handle.Attrs(ctx)
	if err != nil {
		return nil, &IOError{Op: "stat", Path: path, Err: err}
	}
	return &gcsObject{ctx: ctx, path: path, handle: handle, size: attrs.Size}, nil
}

func (o *gcsObject) ReadAt(p []byte, off int64) (int, error) {
	if off >= o.size {
		return 0, io.EOF
	}
	length := int64(len(p))
	if remaining := o.size - off; length > remaining {
		length = remaining
	}

	rr, err := o.handle.NewRangeReader(o.ctx, off, length)
	if err != nil {
		return 0, err
	}
	defer rr.Close()

	n, err := io.ReadFull(rr, p[:length])
	if err != nil {
		return n, err
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (o *gcsObject) Size() int64 {
	return o.size
}

func (o *gcsObject) Close() error {
	return nil
}

func openGoogleStorageReader(ctx context.Context, client *storage.Client, path string) (io.ReadCloser, error) {
	bucket, object, err := splitGoogleStoragePath(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	return r, nil
}

func googleStorageObjectExists(ctx context.Context, client *storage.Client, path string) bool {
	bucket, object, err := splitGoogleStoragePath(path)
	if err != nil {
		return false
	}
	_, err = client.Bucket(bucket).Object(object).Attrs(ctx)
	return err == nil
}
