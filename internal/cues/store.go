// Package cues holds the ordered collection of cues for the loaded media.
package cues

import (
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/schollz/cuetimeline/internal/timeline"
	"github.com/schollz/cuetimeline/internal/types"
)

// Store keeps cues in insertion order and tracks the display number of
// each cue, which is its 1-based rank by ascending time. Ties keep
// insertion order. Numbers are recomputed after every structural change.
type Store struct {
	items   []types.Cue
	numbers map[string]int
	newID   func() string
}

// NewStore returns an empty store that assigns random UUIDs
func NewStore() *Store {
	return &Store{
		numbers: map[string]int{},
		newID:   func() string { return uuid.NewString() },
	}
}

// Patch lists the fields to change in Update. Nil fields are left alone.
type Patch struct {
	Time        *float64
	Name        *string
	Description *string
	Fade        *float64
	MarkerColor *string
}

// Len returns the number of cues
func (s *Store) Len() int {
	return len(s.items)
}

// Add appends a cue and returns its id
func (s *Store) Add(t float64, name, description string, fade float64, color string) string {
	c := types.Cue{
		ID:          s.newID(),
		Time:        nonNegative(t),
		Name:        normalizeName(name),
		Description: description,
		Fade:        nonNegative(fade),
		MarkerColor: strings.TrimSpace(color),
	}
	s.items = append(s.items, c)
	s.Renumber()
	return c.ID
}

// Update applies a patch to the cue with the given id. Unknown ids are ignored.
func (s *Store) Update(id string, p Patch) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	c := &s.items[i]
	if p.Time != nil {
		c.Time = nonNegative(*p.Time)
	}
	if p.Name != nil {
		c.Name = normalizeName(*p.Name)
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Fade != nil {
		c.Fade = nonNegative(*p.Fade)
	}
	if p.MarkerColor != nil {
		c.MarkerColor = strings.TrimSpace(*p.MarkerColor)
	}
	s.Renumber()
	return true
}

// Remove deletes the cue with the given id
func (s *Store) Remove(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.Renumber()
	return true
}

// ReplaceAll swaps the whole collection for the given records. Invalid
// times and fades become 0, empty names become the default name and every
// cue gets a fresh id.
func (s *Store) ReplaceAll(records []types.Record) {
	items := make([]types.Cue, 0, len(records))
	for _, r := range records {
		items = append(items, types.Cue{
			ID:          s.newID(),
			Time:        nonNegative(r.Time),
			Name:        normalizeName(r.Name),
			Description: r.Description,
			Fade:        nonNegative(r.Fade),
			MarkerColor: strings.TrimSpace(r.MarkerColor),
		})
	}
	s.items = items
	s.Renumber()
}

// Renumber recomputes display numbers. Storage order is untouched.
func (s *Store) Renumber() {
	order := s.sortedIndexes()
	s.numbers = make(map[string]int, len(order))
	for rank, i := range order {
		s.numbers[s.items[i].ID] = rank + 1
	}
}

// Number returns the display number of a cue, or 0 when absent
func (s *Store) Number(id string) int {
	return s.numbers[id]
}

// Get returns a copy of the cue with the given id
func (s *Store) Get(id string) (types.Cue, bool) {
	i := s.index(id)
	if i < 0 {
		return types.Cue{}, false
	}
	c := s.items[i]
	c.Number = s.numbers[c.ID]
	return c, true
}

// First returns the first cue in storage order
func (s *Store) First() (types.Cue, bool) {
	if len(s.items) == 0 {
		return types.Cue{}, false
	}
	return s.Get(s.items[0].ID)
}

// Sorted returns copies of the cues ordered by time with numbers filled in
func (s *Store) Sorted() []types.Cue {
	order := s.sortedIndexes()
	out := make([]types.Cue, len(order))
	for rank, i := range order {
		c := s.items[i]
		c.Number = s.numbers[c.ID]
		out[rank] = c
	}
	return out
}

// NearestBefore returns the cue with the largest time strictly less than t
func (s *Store) NearestBefore(t float64) (types.Cue, bool) {
	best := -1
	for i, c := range s.items {
		if c.Time < t && (best < 0 || c.Time > s.items[best].Time) {
			best = i
		}
	}
	if best < 0 {
		return types.Cue{}, false
	}
	return s.Get(s.items[best].ID)
}

// NearestAfter returns the cue with the smallest time strictly greater than t
func (s *Store) NearestAfter(t float64) (types.Cue, bool) {
	best := -1
	for i, c := range s.items {
		if c.Time > t && (best < 0 || c.Time < s.items[best].Time) {
			best = i
		}
	}
	if best < 0 {
		return types.Cue{}, false
	}
	return s.Get(s.items[best].ID)
}

// AtPixel returns the first cue in storage order whose marker lies strictly
// within types.HitTolerance pixels of x
func (s *Store) AtPixel(x float64, m timeline.Mapper) (types.Cue, bool) {
	if !m.Valid() {
		return types.Cue{}, false
	}
	for _, c := range s.items {
		if math.Abs(x-m.TimeToX(c.Time)) < types.HitTolerance {
			return s.Get(c.ID)
		}
	}
	return types.Cue{}, false
}

// SetLiveTime moves a cue during a drag. The time is not clamped and the
// numbers are not recomputed until Commit.
func (s *Store) SetLiveTime(id string, t float64) {
	if i := s.index(id); i >= 0 {
		s.items[i].Time = finiteOrZero(t)
	}
}

// Commit clamps a dragged cue to [0, duration] and renumbers
func (s *Store) Commit(id string, duration float64) {
	i := s.index(id)
	if i < 0 {
		return
	}
	t := s.items[i].Time
	if t < 0 {
		t = 0
	}
	if duration > 0 && t > duration {
		t = duration
	}
	s.items[i].Time = t
	s.Renumber()
}

func (s *Store) index(id string) int {
	for i, c := range s.items {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) sortedIndexes() []int {
	order := make([]int, len(s.items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return s.items[order[a]].Time < s.items[order[b]].Time
	})
	return order
}

func normalizeName(name string) string {
	if strings.TrimSpace(name) == "" {
		return types.DefaultCueName
	}
	return name
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func nonNegative(v float64) float64 {
	v = finiteOrZero(v)
	if v < 0 {
		return 0
	}
	return v
}
