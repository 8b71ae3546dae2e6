package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Durations of the feedback sounds
const (
	stepDuration = 60 * time.Millisecond
	bumpDuration = 180 * time.Millisecond
)

// StepGenerator generates a short filtered noise tick for footsteps
type StepGenerator struct {
	sr   beep.SampleRate
	pos  int
	seed uint32
	prev float64
}

// NewStepGenerator creates a footstep generator. The seed varies the texture
func NewStepGenerator(sr beep.SampleRate, seed uint32) *StepGenerator {
	if seed == 0 {
		seed = 1
	}
	return &StepGenerator{sr: sr, seed: seed}
}

func (g *StepGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		// Fast decay so the tick stays crisp
		envelope := math.Exp(-t * 60)

		g.seed = g.seed*1664525 + 1013904223
		noise := float64(g.seed)/float64(math.MaxUint32)*2 - 1

		// One-pole low-pass softens the noise into a scuff
		g.prev += 0.35 * (noise - g.prev)

		sample := 0.5 * envelope * g.prev
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *StepGenerator) Err() error {
	return nil
}

// BumpGenerator generates a low thud with a falling pitch
type BumpGenerator struct {
	sr    beep.SampleRate
	pos   int
	phase float64
}

// NewBumpGenerator creates a wall bump generator
func NewBumpGenerator(sr beep.SampleRate) *BumpGenerator {
	return &BumpGenerator{sr: sr}
}

func (g *BumpGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		// Pitch drops from 110Hz toward 55Hz
		freq := 55 + 55*math.Exp(-t*20)
		envelope := math.Exp(-t * 14)

		sample := 0.6 * envelope * math.Sin(2*math.Pi*g.phase)

		g.phase += freq / float64(g.sr)
		g.phase -= math.Floor(g.phase)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *BumpGenerator) Err() error {
	return nil
}

// newVolume wraps s with a linear volume in [0,1].
// math.Log2(0) is -Inf, so we handle 0 volume by making it silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// CreateStepSound returns a finite footstep stream
func CreateStepSound(sr beep.SampleRate, seed uint32, vol float64) beep.Streamer {
	return newVolume(beep.Take(sr.N(stepDuration), NewStepGenerator(sr, seed)), vol)
}

// CreateBumpSound returns a finite wall bump stream
func CreateBumpSound(sr beep.SampleRate, vol float64) beep.Streamer {
	return newVolume(beep.Take(sr.N(bumpDuration), NewBumpGenerator(sr)), vol)
}
