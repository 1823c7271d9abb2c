package pgen

import (
	"context"
	"io"
	"os"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

// source is a random-access handle on a .pgen file.
type source interface {
	io.ReaderAt
	io.Closer
	Size() int64
}

type fileSource struct {
	*os.File
	size int64
}

func (f *fileSource) Size() int64 {
	return f.size
}

func openFileSource(path string) (*fileSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, &IOError{Op: "stat", Path: path, Err: err}
	}
	return &fileSource{File: file, size: info.Size()}, nil
}

func (p *PGEN) openSource(ctx context.Context, path string) (source, error) {
	if isGoogleStoragePath(path) {
		client, err := p.storageClient(ctx)
		if err != nil {
			return nil, err
		}
		obj, err := openGoogleStorageObject(ctx, client, path)
		if err != nil {
			return nil, err
		}
		return obj, nil
	}

	if p.useMmap {
		return openMappedSource(path)
	}
	f, err := openFileSource(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// openMetadata opens a .pvar or .psam for a single forward scan,
// transparently decompressing it.
func (p *PGEN) openMetadata(ctx context.Context, path string) (io.ReadCloser, error) {
	var rc io.ReadCloser
	if isGoogleStoragePath(path) {
		client, err := p.storageClient(ctx)
		if err != nil {
			return nil, err
		}
		if rc, err = openGoogleStorageReader(ctx, client, path); err != nil {
			return nil, err
		}
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, &IOError{Op: "open", Path: path, Err: err}
		}
		rc = file
	}

	out, err := maybeDecompress(rc)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	return out, nil
}

// resolveMetadataPath returns base if it exists, otherwise the first existing
// compressed sibling. If nothing exists, base is returned so that the
// eventual open reports the missing file by its canonical name.
func (p *PGEN) resolveMetadataPath(ctx context.Context, base string) string {
	for _, candidate := range []string{base, base + ".zst", base + ".gz"} {
		if p.exists(ctx, candidate) {
			return candidate
		}
	}
	return base
}

func (p *PGEN) exists(ctx context.Context, path string) bool {
	if isGoogleStoragePath(path) {
		client, err := p.storageClient(ctx)
		if err != nil {
			return false
		}
		return googleStorageObjectExists(ctx, client, path)
	}
	_, err := os.Stat(path)
	return err == nil
}

func (p *PGEN) storageClient(ctx context.Context) (*storage.Client, error) {
	if p.storage != nil {
		return p.storage, nil
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, pfx.Err(err)
	}
	p.storage = client
	p.ownsStorage = true
	return client, nil
}
