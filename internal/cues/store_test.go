package cues

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schollz/cuetimeline/internal/timeline"
	"github.com/schollz/cuetimeline/internal/types"
)

func ptr[T any](v T) *T { return &v }

// assertNumbering checks numbers are exactly 1..N and follow ascending time
func assertNumbering(t *testing.T, s *Store) {
	t.Helper()
	sorted := s.Sorted()
	for i, c := range sorted {
		assert.Equal(t, i+1, c.Number)
		assert.Equal(t, i+1, s.Number(c.ID))
		if i > 0 {
			assert.GreaterOrEqual(t, c.Time, sorted[i-1].Time)
		}
	}
}

func TestAddDefaults(t *testing.T) {
	s := NewStore()
	id := s.Add(12.5, "", "", -2, "")

	c, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, "Cue", c.Name)
	assert.Equal(t, 12.5, c.Time)
	assert.Equal(t, 0.0, c.Fade)
	assert.Equal(t, 1, c.Number)
	assert.NotEmpty(t, c.ID)
}

func TestRenumberByTime(t *testing.T) {
	s := NewStore()
	five := s.Add(5, "five", "", 0, "")
	two := s.Add(2, "two", "", 0, "")

	assert.Equal(t, 1, s.Number(two))
	assert.Equal(t, 2, s.Number(five))

	first, ok := s.First()
	require.True(t, ok)
	assert.Equal(t, five, first.ID, "storage order is untouched")
}

func TestRenumberTiesKeepInsertionOrder(t *testing.T) {
	s := NewStore()
	a := s.Add(3, "a", "", 0, "")
	b := s.Add(3, "b", "", 0, "")
	c := s.Add(1, "c", "", 0, "")

	assert.Equal(t, 1, s.Number(c))
	assert.Equal(t, 2, s.Number(a))
	assert.Equal(t, 3, s.Number(b))
}

func TestNumberingInvariantUnderRandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := NewStore()
	var ids []string
	for step := 0; step < 500; step++ {
		switch op := rng.Intn(3); {
		case op == 0 || len(ids) == 0:
			ids = append(ids, s.Add(rng.Float64()*100, "", "", 0, ""))
		case op == 1:
			i := rng.Intn(len(ids))
			s.Remove(ids[i])
			ids = append(ids[:i], ids[i+1:]...)
		default:
			s.Update(ids[rng.Intn(len(ids))], Patch{Time: ptr(float64(rng.Intn(20)))})
		}
		assertNumbering(t, s)
	}
}

func TestUpdate(t *testing.T) {
	s := NewStore()
	id := s.Add(1, "one", "desc", 1, "#4444ff")

	t.Run("OnlyGivenFields", func(t *testing.T) {
		assert.True(t, s.Update(id, Patch{Name: ptr("renamed")}))
		c, _ := s.Get(id)
		assert.Equal(t, "renamed", c.Name)
		assert.Equal(t, "desc", c.Description)
		assert.Equal(t, 1.0, c.Fade)
		assert.Equal(t, "#4444ff", c.MarkerColor)
	})

	t.Run("Normalizes", func(t *testing.T) {
		s.Update(id, Patch{Name: ptr(""), Fade: ptr(math.NaN()), Time: ptr(math.Inf(1))})
		c, _ := s.Get(id)
		assert.Equal(t, "Cue", c.Name)
		assert.Equal(t, 0.0, c.Fade)
		assert.Equal(t, 0.0, c.Time)
	})

	t.Run("UnknownID", func(t *testing.T) {
		assert.False(t, s.Update("nope", Patch{Name: ptr("x")}))
		assert.Equal(t, 1, s.Len())
	})
}

func TestRemove(t *testing.T) {
	s := NewStore()
	a := s.Add(1, "a", "", 0, "")
	b := s.Add(2, "b", "", 0, "")

	assert.False(t, s.Remove("missing"))
	assert.True(t, s.Remove(a))
	assert.Equal(t, 1, s.Number(b))
	assert.Equal(t, 0, s.Number(a))
	_, ok := s.Get(a)
	assert.False(t, ok)
}

func TestReplaceAll(t *testing.T) {
	s := NewStore()
	old := s.Add(1, "old", "", 0, "")

	s.ReplaceAll([]types.Record{
		{Name: "", Time: 4, Fade: -1},
		{Name: "b", Time: math.NaN(), Fade: 2, MarkerColor: " #44ff44 "},
	})
	require.Equal(t, 2, s.Len())
	_, ok := s.Get(old)
	assert.False(t, ok, "ids are fresh")

	sorted := s.Sorted()
	assert.Equal(t, "b", sorted[0].Name)
	assert.Equal(t, 0.0, sorted[0].Time)
	assert.Equal(t, "#44ff44", sorted[0].MarkerColor)
	assert.Equal(t, "Cue", sorted[1].Name)
	assert.Equal(t, 0.0, sorted[1].Fade)
	assertNumbering(t, s)
}

func TestNearest(t *testing.T) {
	s := NewStore()
	s.Add(10, "ten", "", 0, "")
	s.Add(2, "two", "", 0, "")
	s.Add(6, "six", "", 0, "")

	c, ok := s.NearestBefore(6)
	require.True(t, ok)
	assert.Equal(t, "two", c.Name)

	c, ok = s.NearestAfter(6)
	require.True(t, ok)
	assert.Equal(t, "ten", c.Name)

	_, ok = s.NearestBefore(2)
	assert.False(t, ok)
	_, ok = s.NearestAfter(10)
	assert.False(t, ok)
}

func TestAtPixel(t *testing.T) {
	s := NewStore()
	first := s.Add(5, "first", "", 0, "")
	s.Add(5.1, "second", "", 0, "")
	m := timeline.Mapper{Duration: 100, CanvasWidth: 1000, Zoom: 1}

	c, ok := s.AtPixel(55, m)
	require.True(t, ok)
	assert.Equal(t, first, c.ID, "first in storage order wins")

	_, ok = s.AtPixel(65, m)
	assert.True(t, ok)
	_, ok = s.AtPixel(66, m)
	assert.False(t, ok, "exactly 15 px away is a miss")

	_, ok = s.AtPixel(50, timeline.Mapper{})
	assert.False(t, ok)
}

func TestDragCommitClamps(t *testing.T) {
	s := NewStore()
	a := s.Add(2, "a", "", 0, "")
	b := s.Add(4, "b", "", 0, "")

	s.SetLiveTime(a, 130)
	c, _ := s.Get(a)
	assert.Equal(t, 130.0, c.Time, "live time may exceed duration")

	s.Commit(a, 60)
	c, _ = s.Get(a)
	assert.Equal(t, 60.0, c.Time)
	assert.Equal(t, 2, s.Number(a))
	assert.Equal(t, 1, s.Number(b))

	s.SetLiveTime(b, -3)
	s.Commit(b, 60)
	c, _ = s.Get(b)
	assert.Equal(t, 0.0, c.Time)
}

func TestFirst(t *testing.T) {
	s := NewStore()
	_, ok := s.First()
	assert.False(t, ok)

	s.Add(9, "later", "", 0, "")
	s.Add(1, "earlier", "", 0, "")
	c, ok := s.First()
	require.True(t, ok)
	assert.Equal(t, "later", c.Name)
	assert.Equal(t, 2, c.Number)
}
