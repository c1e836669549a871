package valuemap

import (
	"fmt"
	"maps"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/comparer"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/hasher"
)

// hasherMock puts every key in the same bucket.
type hasherMock struct{ mock.Mock }

// CanonicalID implements domain.Hasher.
func (h *hasherMock) CanonicalID(v domain.Value) string {
	return h.Called(v).String(0)
}

// Hash implements domain.Hasher.
func (h *hasherMock) Hash(v domain.Value) uint64 {
	return uint64(h.Called(v).Int(0))
}

type MapTestSuite struct {
	suite.Suite
	m *Map[string]
}

func (s *MapTestSuite) SetupTest() {
	s.m = New[string](hasher.NewHasher(), comparer.NewComparer())
}

func (s *MapTestSuite) TestSetAndGet() {
	s.m.Set(domain.Int(1), "int")
	s.m.Set(domain.String("1"), "string")
	s.m.Set(domain.Array(domain.Int(1)), "array")
	s.Equal(3, s.m.Len())

	v, ok := s.m.Get(domain.String("1"))
	s.True(ok)
	s.Equal("string", v)

	v, ok = s.m.Get(domain.Double(1))
	s.True(ok)
	s.Equal("int", v)

	_, ok = s.m.Get(domain.Int(2))
	s.False(ok)
}

func (s *MapTestSuite) TestReplace() {
	s.m.Set(domain.Int(1), "a")
	s.m.Set(domain.Double(1), "b")
	s.Equal(1, s.m.Len())
	v, _ := s.m.Get(domain.Int(1))
	s.Equal("b", v)
}

func (s *MapTestSuite) TestMapKeys() {
	k1 := domain.PlainMap(map[string]domain.Value{"a": domain.Int(1), "b": domain.Null()})
	k2 := domain.PlainMap(map[string]domain.Value{"b": domain.Null(), "a": domain.Double(1)})
	s.m.Set(k1, "x")
	v, ok := s.m.Get(k2)
	s.True(ok)
	s.Equal("x", v)
}

func (s *MapTestSuite) TestDelete() {
	s.m.Set(domain.Int(1), "a")
	s.m.Set(domain.Int(2), "b")
	s.m.Delete(domain.Int(1))
	s.m.Delete(domain.Int(3))
	s.Equal(1, s.m.Len())
	_, ok := s.m.Get(domain.Int(1))
	s.False(ok)
}

func (s *MapTestSuite) TestGrow() {
	for i := range 100 {
		s.m.Set(domain.Int(int64(i)), fmt.Sprint(i))
	}
	s.Equal(100, s.m.Len())
	s.Greater(len(s.m.buckets), initialBuckets)
	for i := range 100 {
		v, ok := s.m.Get(domain.Double(float64(i)))
		s.True(ok)
		s.Equal(fmt.Sprint(i), v)
	}
}

func (s *MapTestSuite) TestCollisions() {
	h := new(hasherMock)
	h.On("Hash", mock.Anything).Return(7)
	m := New[int](h, comparer.NewComparer())

	m.Set(domain.String("a"), 1)
	m.Set(domain.String("b"), 2)
	m.Set(domain.Null(), 3)

	got := maps.Collect(func(yield func(string, int) bool) {
		for k, v := range m.All() {
			if !yield(k.Kind().String(), v) {
				return
			}
		}
	})
	s.Len(got, 2)
	s.Equal(3, m.Len())

	v, ok := m.Get(domain.String("b"))
	s.True(ok)
	s.Equal(2, v)

	n := 0
	for range m.Keys() {
		n++
	}
	s.Equal(3, n)
}

func TestMapTestSuite(t *testing.T) {
	suite.Run(t, new(MapTestSuite))
}
