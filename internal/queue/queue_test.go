package queue

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivier-w/fieldviz/internal/scene"
)

func presetScenes(t *testing.T) []*scene.Scene {
	t.Helper()
	scenes, err := scene.BuildAll(scene.Presets())
	require.NoError(t, err)
	return scenes
}

func TestAdvanceAndPrevious(t *testing.T) {
	q := New(presetScenes(t))
	require.Equal(t, 8, q.Len())
	assert.Equal(t, "static-charge", q.Current().Scene.Name)
	assert.Equal(t, Playing, q.Current().State)
	assert.Equal(t, "oscillating-charge", q.Next().Scene.Name)

	assert.False(t, q.Previous())
	assert.True(t, q.Advance())
	assert.Equal(t, 1, q.CurrentIndex())
	assert.Equal(t, Played, q.Entry(0).State)
	assert.Equal(t, Playing, q.Entry(1).State)

	assert.True(t, q.Previous())
	assert.Equal(t, 0, q.CurrentIndex())

	q.SetCurrentIndex(7)
	assert.Nil(t, q.Next())
	assert.False(t, q.Advance())
	q.SetCurrentIndex(99)
	assert.Equal(t, 7, q.CurrentIndex())
}

func TestWrapToStart(t *testing.T) {
	q := New(presetScenes(t))
	q.SetCurrentIndex(7)
	q.WrapToStart()
	assert.True(t, q.Advance())
	assert.Equal(t, 0, q.CurrentIndex())
}

func TestPeek(t *testing.T) {
	q := New(presetScenes(t))
	next := q.Peek(2)
	require.Len(t, next, 2)
	assert.Equal(t, "dc-wire", next[1].Scene.Name)
	assert.Equal(t, "Magnetic field of a DC conductor", next[1].Title())
	q.SetCurrentIndex(7)
	assert.Nil(t, q.Peek(3))
	q.SetCurrentIndex(6)
	assert.Len(t, q.Peek(3), 1)
}

func TestIndexOf(t *testing.T) {
	q := New(presetScenes(t))
	assert.Equal(t, 5, q.IndexOf("wavefront-snapshot"))
	assert.Equal(t, -1, q.IndexOf("nope"))
}

func TestShuffleVisitsEverySceneOnce(t *testing.T) {
	q := New(presetScenes(t))
	q.SetRand(rand.New(rand.NewPCG(1, 2)))
	q.SetCurrentIndex(3)
	q.EnableShuffle()
	require.True(t, q.IsShuffled())
	assert.Equal(t, 3, q.CurrentIndex())

	seen := map[int]bool{3: true}
	for q.Advance() {
		assert.False(t, seen[q.CurrentIndex()])
		seen[q.CurrentIndex()] = true
	}
	assert.Len(t, seen, 8)
	assert.Nil(t, q.Next())

	assert.True(t, q.Previous())
	q.WrapToStart()
	assert.True(t, q.Advance())
	assert.Equal(t, 3, q.CurrentIndex())

	q.DisableShuffle()
	assert.False(t, q.IsShuffled())
	assert.Equal(t, 3, q.CurrentIndex())
}

func TestEmptyQueue(t *testing.T) {
	q := New(nil)
	assert.Nil(t, q.Current())
	assert.Nil(t, q.Next())
	assert.False(t, q.Advance())
	q.EnableShuffle()
	assert.False(t, q.IsShuffled())
}
