//go:build windows

package pgen

// Memory mapping is not implemented on Windows; fall back to pread.
func openMappedSource(path string) (source, error) {
	f, err := openFileSource(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}
