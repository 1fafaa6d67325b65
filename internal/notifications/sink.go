package notifications

import (
	"sync"

	"pedidos/internal/core/domain/model/user"
)

const sinkBuffer = 16

// Sink is one viewer's alert outlet. Messages are delivered immediately;
// sound cues are held back until the viewer unlocks audio output, then
// flushed in arrival order. This mirrors browser autoplay suspension: the
// first user gesture unlocks sound, and nothing queued before it is lost.
type Sink struct {
	viewer *user.User

	alerts chan Alert
	cues   chan SoundCue

	mu       sync.Mutex
	unlocked bool
	closed   bool
	pending  []SoundCue
}

func newSink(viewer *user.User) *Sink {
	return &Sink{
		viewer: viewer,
		alerts: make(chan Alert, sinkBuffer),
		cues:   make(chan SoundCue, sinkBuffer),
	}
}

// Viewer returns the user this sink belongs to.
func (s *Sink) Viewer() *user.User { return s.viewer }

// Alerts streams the alerts addressed to this viewer.
func (s *Sink) Alerts() <-chan Alert { return s.alerts }

// Cues streams sound cues ready for playback. Nothing arrives here before
// Unlock is called.
func (s *Sink) Cues() <-chan SoundCue { return s.cues }

// Unlock marks audio output as available and flushes every cue deferred
// so far. Calling it again is a no-op.
func (s *Sink) Unlock() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unlocked || s.closed {
		return
	}
	s.unlocked = true

	for _, cue := range s.pending {
		s.emitCue(cue)
	}
	s.pending = nil
}

// deliver pushes one alert to the viewer. A full alert channel drops the
// alert rather than blocking the dispatcher.
func (s *Sink) deliver(alert Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	select {
	case s.alerts <- alert:
	default:
	}

	if alert.Cue == nil {
		return
	}
	if !s.unlocked {
		s.pending = append(s.pending, *alert.Cue)
		return
	}
	s.emitCue(*alert.Cue)
}

func (s *Sink) emitCue(cue SoundCue) {
	select {
	case s.cues <- cue:
	default:
	}
}

func (s *Sink) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.pending = nil
	close(s.alerts)
	close(s.cues)
}
