package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testLine = "some data\n"

// osMock uses the real file system except for the mocked calls.
type osMock struct {
	osImpl
	mock.Mock
}

// MkdirAll implements osOps.
func (o *osMock) MkdirAll(path string, perm os.FileMode) error {
	return o.Called(path, perm).Error(0)
}

// Rename implements osOps.
func (o *osMock) Rename(oldpath string, newpath string) error {
	return o.Called(oldpath, newpath).Error(0)
}

type StorageTestSuite struct {
	suite.Suite
	store *Storage
	dir   string
}

func (s *StorageTestSuite) SetupTest() {
	s.store = NewStorage()
	s.dir = s.T().TempDir()
}

func writeLine(w io.Writer) error {
	_, err := io.WriteString(w, testLine)
	return err
}

func (s *StorageTestSuite) TestCrashSafeWrite() {
	file := filepath.Join(s.dir, "out.jsonl")
	s.NoError(s.store.CrashSafeWrite(file, writeLine))

	b, err := os.ReadFile(file)
	s.NoError(err)
	s.Equal(testLine, string(b))
	s.NoFileExists(file + TempSuffix)
}

func (s *StorageTestSuite) TestCrashSafeWriteReplaces() {
	file := filepath.Join(s.dir, "out.jsonl")
	s.Require().NoError(os.WriteFile(file, []byte("old\n"), 0o644))
	s.NoError(s.store.CrashSafeWrite(file, writeLine))

	b, err := os.ReadFile(file)
	s.NoError(err)
	s.Equal(testLine, string(b))
}

func (s *StorageTestSuite) TestCrashSafeWriteCreatesParents() {
	file := filepath.Join(s.dir, "a", "b", "out.jsonl")
	s.NoError(s.store.CrashSafeWrite(file, writeLine))
	s.FileExists(file)
}

func (s *StorageTestSuite) TestCrashSafeWriteFailure() {
	file := filepath.Join(s.dir, "out.jsonl")
	s.Require().NoError(os.WriteFile(file, []byte("old\n"), 0o644))

	errWrite := errors.New("write failed")
	err := s.store.CrashSafeWrite(file, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return errWrite
	})
	s.ErrorIs(err, errWrite)

	b, err := os.ReadFile(file)
	s.NoError(err)
	s.Equal("old\n", string(b))
	s.NoFileExists(file + TempSuffix)
}

func (s *StorageTestSuite) TestRenameFailure() {
	m := new(osMock)
	m.On("MkdirAll", mock.Anything, DefaultDirMode).Return(nil)
	errRename := errors.New("rename failed")
	m.On("Rename", mock.Anything, mock.Anything).Return(errRename)
	s.store.os = m

	file := filepath.Join(s.dir, "out.jsonl")
	s.ErrorIs(s.store.CrashSafeWrite(file, writeLine), errRename)
	s.NoFileExists(file)
	s.NoFileExists(file + TempSuffix)
	m.AssertExpectations(s.T())
}

func (s *StorageTestSuite) TestParentDirectoryFailure() {
	m := new(osMock)
	errMkdir := errors.New("mkdir failed")
	m.On("MkdirAll", mock.Anything, DefaultDirMode).Return(errMkdir)
	s.store.os = m

	s.ErrorIs(s.store.CrashSafeWrite(filepath.Join(s.dir, "x", "out.jsonl"), writeLine), errMkdir)
}

func (s *StorageTestSuite) TestExists() {
	file := filepath.Join(s.dir, "f")
	ok, err := s.store.Exists(file)
	s.NoError(err)
	s.False(ok)

	s.Require().NoError(os.WriteFile(file, nil, 0o644))
	ok, err = s.store.Exists(file)
	s.NoError(err)
	s.True(ok)
}

func TestStorageTestSuite(t *testing.T) {
	suite.Run(t, new(StorageTestSuite))
}
