package idgenerator

import (
	"bytes"
	"errors"
	"io"
	"regexp"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/gequery/domain"
)

var alnum = regexp.MustCompile(`^[A-Za-z0-9]+$`)

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("no entropy") }

type IDGeneratorTestSuite struct {
	suite.Suite
}

func (s *IDGeneratorTestSuite) TestLength() {
	gen := NewIDGenerator()
	for _, l := range []int{1, 5, 14, 20, 64} {
		id, err := gen.GenerateID(l)
		s.NoError(err)
		s.Len(id, l)
		s.Regexp(alnum, id)
	}

	id, err := gen.GenerateID(0)
	s.NoError(err)
	s.Len(id, AutoIDLength)
}

func (s *IDGeneratorTestSuite) TestUnique() {
	gen := NewIDGenerator()
	seen := make(map[string]struct{}, 1000)
	for range 1000 {
		id, err := gen.GenerateID(AutoIDLength)
		s.Require().NoError(err)
		s.NotContains(seen, id)
		seen[id] = struct{}{}
	}
}

func (s *IDGeneratorTestSuite) TestCustomReader() {
	// zero bytes map to the first character, except for the version and
	// variant bytes, which are skipped
	gen := NewIDGenerator(domain.WithIDGeneratorReader(bytes.NewReader(make([]byte, 64))))
	id, err := gen.GenerateID(20)
	s.NoError(err)
	s.Equal("AAAAAAAAAAAAAAAAAAAA", id)

	// discarded bytes do not count
	src := bytes.Repeat([]byte{0xFF, 0x01}, 32)
	gen = NewIDGenerator(domain.WithIDGeneratorReader(bytes.NewReader(src)))
	id, err = gen.GenerateID(3)
	s.NoError(err)
	s.Equal("BBB", id)
}

func (s *IDGeneratorTestSuite) TestReaderError() {
	gen := NewIDGenerator(domain.WithIDGeneratorReader(errReader{}))
	_, err := gen.GenerateID(20)
	s.Error(err)

	gen = NewIDGenerator(domain.WithIDGeneratorReader(bytes.NewReader(nil)))
	_, err = gen.GenerateID(20)
	s.ErrorIs(err, io.EOF)
}

func TestIDGeneratorTestSuite(t *testing.T) {
	suite.Run(t, new(IDGeneratorTestSuite))
}
