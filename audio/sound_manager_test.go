package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
)

// TestSoundManagerGracefulDegradation verifies audio operations don't panic when not initialized
func TestSoundManagerGracefulDegradation(t *testing.T) {
	sm := NewSoundManager(0.5)

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Sound operations panicked without initialization: %v", r)
		}
	}()

	sm.PlayStep()
	sm.PlayBump()
	sm.Cleanup()

	if sm.Initialized() {
		t.Error("Manager reports initialized without Initialize")
	}
}

// TestSoundManagerInitialization verifies sound manager can be initialized and cleaned up
func TestSoundManagerInitialization(t *testing.T) {
	sm := NewSoundManager(0.5)

	// Speaker initialization may fail in CI/test environments without audio devices
	if err := sm.Initialize(); err != nil {
		t.Logf("Sound initialization failed (expected in test environment): %v", err)
		return
	}

	// Second initialization should be a no-op
	if err := sm.Initialize(); err != nil {
		t.Errorf("Second initialization should succeed as no-op, got error: %v", err)
	}

	sm.PlayStep()
	sm.PlayBump()
	sm.Cleanup()

	if sm.Initialized() {
		t.Error("Cleanup should leave manager uninitialized")
	}
	// Operations after cleanup are no-ops
	sm.PlayBump()
}

func TestVolumeClamped(t *testing.T) {
	if sm := NewSoundManager(3); sm.volume != 1 {
		t.Errorf("volume = %v, want 1", sm.volume)
	}
	if sm := NewSoundManager(-2); sm.volume != 0 {
		t.Errorf("volume = %v, want 0", sm.volume)
	}
}

func TestStepThrottle(t *testing.T) {
	sm := NewSoundManager(1)
	now := time.Now()

	if !sm.allowStep(now) {
		t.Fatal("First step should play")
	}
	if sm.allowStep(now.Add(stepInterval / 2)) {
		t.Error("Step within interval should be dropped")
	}
	if !sm.allowStep(now.Add(stepInterval)) {
		t.Error("Step after interval should play")
	}
}

func TestGeneratorsStayInRangeAndDecay(t *testing.T) {
	rate := beep.SampleRate(44100)

	gens := map[string]beep.Streamer{
		"step": NewStepGenerator(rate, 7),
		"bump": NewBumpGenerator(rate),
	}

	for name, g := range gens {
		t.Run(name, func(t *testing.T) {
			buf := make([][2]float64, rate.N(400*time.Millisecond))
			n, ok := g.Stream(buf)
			if !ok || n != len(buf) {
				t.Fatalf("Stream returned %d,%v", n, ok)
			}
			var head, tail float64
			for i, s := range buf {
				if s[0] < -1 || s[0] > 1 || s[0] != s[1] {
					t.Fatalf("Sample %d invalid: %v", i, s)
				}
				v := s[0] * s[0]
				if i < len(buf)/4 {
					head += v
				} else if i >= 3*len(buf)/4 {
					tail += v
				}
			}
			if head == 0 || tail >= head {
				t.Errorf("Expected decaying energy, head %v tail %v", head, tail)
			}
			if g.Err() != nil {
				t.Errorf("Unexpected error: %v", g.Err())
			}
		})
	}
}

func TestSoundsAreFinite(t *testing.T) {
	rate := beep.SampleRate(44100)
	tests := []struct {
		name string
		s    beep.Streamer
		want int
	}{
		{"step", CreateStepSound(rate, 1, 0.5), rate.N(stepDuration)},
		{"bump", CreateBumpSound(rate, 0.5), rate.N(bumpDuration)},
		{"silent", CreateBumpSound(rate, 0), rate.N(bumpDuration)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			total := 0
			buf := make([][2]float64, 512)
			for {
				n, ok := tc.s.Stream(buf)
				total += n
				if !ok {
					break
				}
				if total > tc.want*2 {
					t.Fatal("Stream did not end")
				}
			}
			if total != tc.want {
				t.Errorf("Streamed %d samples, want %d", total, tc.want)
			}
		})
	}
}
