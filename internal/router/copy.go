package router

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/djherbis/times"
)

// copyInto copies src into dir under its original name, creating dir if
// needed. An existing file is replaced. The copy keeps the source's
// permission bits and access/modification times.
//
// Data goes to a temporary file in dir that is renamed over the destination,
// so two rows copying the same image at once never leave a torn file.
func copyInto(src, dir string) (string, int64, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create directory: %w", err)
	}
	dst := filepath.Join(dir, filepath.Base(src))

	in, err := os.Open(src)
	if err != nil {
		return "", 0, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", 0, fmt.Errorf("stat source: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(src)+".*.part")
	if err != nil {
		return "", 0, err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	n, err := io.Copy(tmp, in)
	if err != nil {
		tmp.Close()
		return "", 0, err
	}
	if err := tmp.Close(); err != nil {
		return "", 0, err
	}
	if n != info.Size() {
		return "", 0, fmt.Errorf("short copy: wrote %d of %d bytes", n, info.Size())
	}

	if err := os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		return "", 0, fmt.Errorf("preserve mode: %w", err)
	}
	ts, err := times.Stat(src)
	if err != nil {
		return "", 0, fmt.Errorf("read source times: %w", err)
	}
	if err := os.Chtimes(tmpName, ts.AccessTime(), ts.ModTime()); err != nil {
		return "", 0, fmt.Errorf("preserve times: %w", err)
	}

	if err := os.Rename(tmpName, dst); err != nil {
		return "", 0, err
	}
	return dst, n, nil
}
