// Package storage writes result files so that a crash never leaves a
// partially written file behind.
package storage

import (
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
)

// Default permissions of created files and directories.
const (
	DefaultFileMode os.FileMode = 0o644
	DefaultDirMode  os.FileMode = 0o755
)

// TempSuffix is appended to the name of the file being written until it is
// complete.
const TempSuffix = "~"

type osOps interface {
	IsNotExist(err error) bool
	MkdirAll(path string, perm os.FileMode) error
	OpenFile(name string, flag int, perm os.FileMode) (*os.File, error)
	Rename(oldpath string, newpath string) error
	Remove(name string) error
	Stat(name string) (os.FileInfo, error)
}

type osImpl struct{}

func (osImpl) IsNotExist(err error) bool { return os.IsNotExist(err) }

func (osImpl) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }

func (osImpl) OpenFile(name string, flag int, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(name, flag, perm)
}

func (osImpl) Rename(oldpath string, newpath string) error { return os.Rename(oldpath, newpath) }

func (osImpl) Remove(name string) error { return os.Remove(name) }

func (osImpl) Stat(name string) (os.FileInfo, error) { return os.Stat(name) }

// Storage writes files through a temporary sibling that replaces the target
// once it is synced.
type Storage struct {
	os       osOps
	fileMode os.FileMode
	dirMode  os.FileMode
}

// NewStorage returns a Storage using the default permissions.
func NewStorage() *Storage {
	return &Storage{
		os:       osImpl{},
		fileMode: DefaultFileMode,
		dirMode:  DefaultDirMode,
	}
}

// Exists reports whether filename exists.
func (s *Storage) Exists(filename string) (bool, error) {
	if _, err := s.os.Stat(filename); err != nil {
		if s.os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// EnsureParentDirectoryExists creates every missing parent directory of
// filename.
func (s *Storage) EnsureParentDirectoryExists(filename string) error {
	dir, err := filepath.Abs(filepath.Dir(filename))
	if err != nil {
		return err
	}
	// volume roots cannot be created on windows
	if runtime.GOOS == "windows" && dir == filepath.VolumeName(dir)+string(os.PathSeparator) {
		return nil
	}
	return s.os.MkdirAll(dir, s.dirMode)
}

// CrashSafeWrite calls write with a temporary file and, if it succeeds, moves
// the temporary file over filename. On failure the temporary file is removed
// and filename is left untouched.
func (s *Storage) CrashSafeWrite(filename string, write func(io.Writer) error) error {
	if err := s.EnsureParentDirectoryExists(filename); err != nil {
		return err
	}

	tempFilename := filename + TempSuffix
	if err := s.writeFile(tempFilename, write); err != nil {
		_ = s.os.Remove(tempFilename)
		return err
	}

	if err := s.os.Rename(tempFilename, filename); err != nil {
		_ = s.os.Remove(tempFilename)
		return err
	}

	if runtime.GOOS == "windows" {
		return nil
	}
	return s.flushToStorage(filepath.Dir(filename), true)
}

func (s *Storage) writeFile(filename string, write func(io.Writer) error) error {
	f, err := s.os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, s.fileMode)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return domain.ErrFlushToStorage{ErrorOnFsync: err}
	}
	if err := f.Close(); err != nil {
		return domain.ErrFlushToStorage{ErrorOnClose: err}
	}
	return nil
}

func (s *Storage) flushToStorage(filename string, isDir bool) error {
	flags := os.O_RDWR
	mode := s.fileMode
	if isDir {
		flags = os.O_RDONLY
		mode = s.dirMode
	}

	f, err := s.os.OpenFile(filename, flags, mode)
	if err != nil {
		return domain.ErrFlushToStorage{ErrorOnFsync: err}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return domain.ErrFlushToStorage{ErrorOnFsync: err}
	}
	if err := f.Close(); err != nil {
		return domain.ErrFlushToStorage{ErrorOnClose: err}
	}
	return nil
}
