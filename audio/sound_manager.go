// Package audio plays footstep and wall bump feedback through beep.
// Every call is a no-op until Initialize succeeds, so the renderer runs
// unchanged on machines without an audio device.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)

	// stepInterval throttles footsteps under key repeat
	stepInterval = 120 * time.Millisecond
)

// SoundManager manages feedback audio
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool

	lastStep time.Time
	steps    uint32
}

// NewSoundManager creates a sound manager at the given volume in [0,1]
func NewSoundManager(volume float64) *SoundManager {
	return &SoundManager{
		mixer:  &beep.Mixer{},
		volume: clampVolume(volume),
	}
}

// Initialize sets up the audio system
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100))
	if err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Initialized reports whether sound is live
func (sm *SoundManager) Initialized() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.initialized
}

// Cleanup stops all sounds
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()

	// beep has no speaker close; an empty mixer plays silence
	sm.initialized = false
}

// PlayStep plays a footstep unless one played within stepInterval
func (sm *SoundManager) PlayStep() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || !sm.allowStep(time.Now()) {
		return
	}
	sm.steps++
	sm.add(CreateStepSound(sampleRate, sm.steps, sm.volume))
}

// PlayBump plays the wall bump thud
func (sm *SoundManager) PlayBump() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	sm.add(CreateBumpSound(sampleRate, sm.volume))
}

// allowStep records a step at now if the throttle permits it. Caller holds mu
func (sm *SoundManager) allowStep(now time.Time) bool {
	if !sm.lastStep.IsZero() && now.Sub(sm.lastStep) < stepInterval {
		return false
	}
	sm.lastStep = now
	return true
}

// add hands a streamer to the mixer under the speaker lock. Caller holds mu
func (sm *SoundManager) add(s beep.Streamer) {
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
