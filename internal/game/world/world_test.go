package world

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/blobscene/internal/blob"
	"github.com/Faultbox/blobscene/internal/preset"
	"github.com/Faultbox/blobscene/internal/transition"
)

type stubTextures struct {
	requested []string
	fail      bool
}

func (s *stubTextures) LoadTexture(id string, done func(*blob.Texture, error)) {
	s.requested = append(s.requested, id)
	if s.fail {
		done(nil, errors.New("unreachable"))
		return
	}
	done(&blob.Texture{ID: id}, nil)
}

func TestNewLoadsFirstGradient(t *testing.T) {
	textures := &stubTextures{}
	w, err := New(preset.Default(), textures, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"hologram"}, textures.requested)
	require.NotNil(t, w.Material.Texture)
	assert.Equal(t, "hologram", w.Material.Texture.ID)
	assert.Equal(t, 1, w.Labels.VisibleCount())
	assert.Equal(t, blob.InitialBackground, w.Stage.Background)
}

func TestNewKeepsDefaultsWhenGradientFails(t *testing.T) {
	w, err := New(preset.Default(), &stubTextures{fail: true}, nil)
	require.NoError(t, err)
	assert.Nil(t, w.Material.Texture)
}

func TestNewRequiresCatalog(t *testing.T) {
	_, err := New(nil, nil, nil)
	assert.ErrorIs(t, err, preset.ErrEmptyCatalog)
}

func TestClockStartsOnDemand(t *testing.T) {
	w, err := New(preset.Default(), nil, nil)
	require.NoError(t, err)

	w.Step(500 * time.Millisecond)
	assert.Zero(t, w.Material.Uniform(blob.UniformTime))
	assert.False(t, w.ClockRunning())

	w.StartClock()
	w.Step(250 * time.Millisecond)
	w.Step(250 * time.Millisecond)
	assert.InDelta(t, 0.5, w.Material.Uniform(blob.UniformTime), 1e-9)
	assert.Equal(t, 500*time.Millisecond, w.Clock())

	w.Step(-time.Second)
	assert.Equal(t, 500*time.Millisecond, w.Clock())
}

func TestStepDrivesTransitions(t *testing.T) {
	w, err := New(preset.Default(), nil, nil)
	require.NoError(t, err)

	require.True(t, w.Controller.Input(transition.Forward))
	for i := 0; i < 20; i++ {
		w.Step(100 * time.Millisecond)
	}

	st := w.Controller.State()
	assert.Equal(t, 1, st.Current)
	assert.Equal(t, transition.PhaseIdle, st.Phase)
	assert.Equal(t, preset.Default().At(1).Background, w.Stage.Background)
	assert.Zero(t, w.Timeline.Active())
}

func TestSnapshot(t *testing.T) {
	w, err := New(preset.Default(), nil, nil)
	require.NoError(t, err)

	snap := w.Snapshot()
	assert.Equal(t, 0, snap.Current)
	assert.Equal(t, transition.NoPending, snap.Pending)
	assert.Equal(t, "idle", snap.Phase)
	assert.Equal(t, "Color Fusion", snap.Preset)
	assert.Equal(t, "#333333", snap.Background)
	assert.Len(t, snap.Presets, 3)

	w.Controller.Input(transition.Backward)
	snap = w.Snapshot()
	assert.Equal(t, 2, snap.Pending)
	assert.Equal(t, "in-flight", snap.Phase)
	assert.Equal(t, -1, snap.Direction)
}

func TestSnapshotsFollowStartAndCommit(t *testing.T) {
	w, err := New(preset.Default(), nil, nil)
	require.NoError(t, err)

	var phases []string
	record := func(transition.State) { phases = append(phases, w.Snapshot().Phase) }
	w.Controller.OnStart(record)
	w.Controller.OnCommit(record)

	require.True(t, w.Controller.Input(transition.Forward))
	for i := 0; i < 20; i++ {
		w.Step(100 * time.Millisecond)
	}
	assert.Equal(t, []string{"in-flight", "idle"}, phases)
}
