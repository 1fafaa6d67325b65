package notifications_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pedidos/internal/core/domain/model/user"
	"pedidos/internal/notifications"
)

func Test_NewOrderCue_IsDoubleAscendingBeep(t *testing.T) {
	cue := notifications.NewOrderCue()

	assert.Equal(t, "new_order", cue.Name)
	require.Len(t, cue.Tones, 2)
	assert.Less(t, cue.Tones[0].Freq, cue.Tones[1].Freq)
	assert.Equal(t, notifications.WaveSine, cue.Tones[0].Wave)
	// The second beep starts after the first ends.
	assert.Greater(t, cue.Tones[1].Offset, cue.Tones[0].Duration)
}

func Test_AssignedCue_IsSimultaneousChord(t *testing.T) {
	cue := notifications.AssignedCue()

	assert.Equal(t, "assigned", cue.Name)
	require.Len(t, cue.Tones, 3)
	for _, tone := range cue.Tones {
		assert.Equal(t, time.Duration(0), tone.Offset)
		assert.Equal(t, notifications.WaveTriangle, tone.Wave)
	}
	assert.Equal(t, time.Second, cue.Length())
}

func Test_SoundCue_Samples(t *testing.T) {
	const rate = 8000
	cue := notifications.NewOrderCue()

	samples := cue.Samples(rate)
	require.Len(t, samples, int(float64(rate)*cue.Length().Seconds()))

	var peak float64
	for _, s := range samples {
		require.LessOrEqual(t, math.Abs(s), 1.0)
		peak = math.Max(peak, math.Abs(s))
	}
	assert.Greater(t, peak, 0.3, "cue should carry audible signal")

	// The envelope opens from silence, so the very first sample is zero.
	assert.Zero(t, samples[0])

	// The gap between the two beeps is silent.
	gapAt := int(float64(rate) * 0.25)
	assert.Zero(t, samples[gapAt])
}

func Test_Sink_DefersCuesUntilUnlock(t *testing.T) {
	dispatcher := newDispatcher()
	sink, cancel := dispatcher.Register(testUser(t, user.Admin))
	defer cancel()

	dispatcher.Handle(insertChange(t, "c1"))
	dispatcher.Handle(insertChange(t, "c2"))

	// Alerts flow immediately, cues are held back while locked.
	receiveAlert(t, sink)
	receiveAlert(t, sink)
	select {
	case cue := <-sink.Cues():
		t.Fatalf("cue %q played before unlock", cue.Name)
	default:
	}

	sink.Unlock()

	for i := 0; i < 2; i++ {
		select {
		case cue := <-sink.Cues():
			assert.Equal(t, "new_order", cue.Name)
		case <-time.After(time.Second):
			t.Fatal("deferred cue was not flushed on unlock")
		}
	}
}

func Test_Sink_UnlockedCuesFlowImmediately(t *testing.T) {
	dispatcher := newDispatcher()
	sink, cancel := dispatcher.Register(testUser(t, user.Admin))
	defer cancel()

	sink.Unlock()
	dispatcher.Handle(insertChange(t, "c1"))

	receiveAlert(t, sink)
	select {
	case cue := <-sink.Cues():
		assert.Equal(t, "new_order", cue.Name)
	case <-time.After(time.Second):
		t.Fatal("cue not delivered after unlock")
	}
}
