package driver

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// BackupSuffix is appended to the path of the original file.
const BackupSuffix = ".bak"

// writeBackup stores a byte-exact copy of the original next to it,
// replacing any previous backup.
func writeBackup(path string, original []byte, perm fs.FileMode) (string, error) {
	bak := path + BackupSuffix
	return bak, writeAtomic(bak, original, perm)
}

// writeAtomic replaces path with data through a temp file in the same
// directory and a rename. On failure path is left as it was.
func writeAtomic(path string, data []byte, perm fs.FileMode) (err error) {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			// временный файл не должен оставаться рядом с оригиналом
			err = errors.Join(err, removeIfExists(tmp))
		}
	}()

	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Chmod(perm); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// fileMode returns the permission bits of path, 0o644 when unknown.
func fileMode(path string) fs.FileMode {
	if info, err := os.Stat(path); err == nil {
		return info.Mode().Perm()
	}
	return 0o644
}
