package notifications

import (
	"math"
	"time"
)

// WaveShape selects the oscillator used for a tone.
type WaveShape string

const (
	WaveSine     WaveShape = "sine"
	WaveTriangle WaveShape = "triangle"
)

// Tone is one oscillator voice within a cue: a frequency played from
// Offset for Duration at the given Gain.
type Tone struct {
	Freq     float64       `json:"freq"`
	Offset   time.Duration `json:"offset"`
	Duration time.Duration `json:"duration"`
	Wave     WaveShape     `json:"wave"`
	Gain     float64       `json:"gain"`
}

// SoundCue is a synthesized tone program. Cues carry no audio assets;
// clients render them with whatever oscillator they have, and Samples
// offers a reference rendering.
type SoundCue struct {
	Name  string `json:"name"`
	Tones []Tone `json:"tones"`
}

// NewOrderCue is the double ascending beep played when a new order
// arrives: two short sine notes, the second a step above the first.
func NewOrderCue() SoundCue {
	return SoundCue{
		Name: "new_order",
		Tones: []Tone{
			{Freq: 880, Offset: 0, Duration: 220 * time.Millisecond, Wave: WaveSine, Gain: 0.6},
			{Freq: 1100, Offset: 280 * time.Millisecond, Duration: 220 * time.Millisecond, Wave: WaveSine, Gain: 0.6},
		},
	}
}

// AssignedCue is the chord played for a driver when an order is assigned
// to them: a sustained C major triad (C5, E5, G5) on triangle waves,
// tonally distinct from the new-order beep.
func AssignedCue() SoundCue {
	return SoundCue{
		Name: "assigned",
		Tones: []Tone{
			{Freq: 523.25, Offset: 0, Duration: time.Second, Wave: WaveTriangle, Gain: 0.35},
			{Freq: 659.25, Offset: 0, Duration: time.Second, Wave: WaveTriangle, Gain: 0.35},
			{Freq: 783.99, Offset: 0, Duration: time.Second, Wave: WaveTriangle, Gain: 0.35},
		},
	}
}

// envelopeEdge is the attack and release ramp applied to every tone so
// that hard starts and stops do not click.
const envelopeEdge = 8 * time.Millisecond

// Length returns the total play time of the cue.
func (c SoundCue) Length() time.Duration {
	var length time.Duration
	for _, tone := range c.Tones {
		if end := tone.Offset + tone.Duration; end > length {
			length = end
		}
	}
	return length
}

// Samples renders the cue to mono float64 PCM in [-1, 1] at the given
// sample rate. Overlapping tones are mixed additively and clipped.
func (c SoundCue) Samples(rate int) []float64 {
	total := int(float64(rate) * c.Length().Seconds())
	samples := make([]float64, total)

	for _, tone := range c.Tones {
		start := int(float64(rate) * tone.Offset.Seconds())
		count := int(float64(rate) * tone.Duration.Seconds())
		for i := 0; i < count && start+i < total; i++ {
			at := time.Duration(float64(i) / float64(rate) * float64(time.Second))
			samples[start+i] += tone.sample(at)
		}
	}

	for i, s := range samples {
		samples[i] = math.Max(-1, math.Min(1, s))
	}
	return samples
}

func (t Tone) sample(at time.Duration) float64 {
	phase := t.Freq * at.Seconds()

	var value float64
	switch t.Wave {
	case WaveTriangle:
		_, frac := math.Modf(phase)
		value = 4*math.Abs(frac-0.5) - 1
	default:
		value = math.Sin(2 * math.Pi * phase)
	}

	return value * t.Gain * t.envelope(at)
}

// envelope ramps gain linearly over envelopeEdge at both ends of the tone.
func (t Tone) envelope(at time.Duration) float64 {
	edge := envelopeEdge
	if t.Duration < 2*edge {
		edge = t.Duration / 2
	}
	if edge <= 0 {
		return 1
	}
	if at < edge {
		return float64(at) / float64(edge)
	}
	if remaining := t.Duration - at; remaining < edge {
		return math.Max(0, float64(remaining)/float64(edge))
	}
	return 1
}
