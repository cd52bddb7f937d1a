package timeline

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput marks precondition failures (length mismatch, empty
// inputs, non-finite numbers, out-of-range kill times). Callers should
// surface these verbatim; they are never retryable.
var ErrInvalidInput = errors.New("invalid planner input")

// Clip is one source clip as the planner sees it: a total duration and
// the local timestamp of the kill that must land on a beat. All times
// are seconds.
type Clip struct {
	Duration float64
	KillTime float64
}

// Placement tells the caller which window of which source clip to
// extract and where to start it on the output timeline. Offset can be
// negative when the first clip's kill sits later in the clip than its
// beat sits in the song; everything before t=0 is simply never shown.
type Placement struct {
	Source    int
	TrimStart float64
	TrimEnd   float64
	Offset    float64
}

// Length returns the extracted window's duration in seconds.
func (p Placement) Length() float64 { return p.TrimEnd - p.TrimStart }

// End returns the segment's end position on the output timeline.
func (p Placement) End() float64 { return p.Offset + p.Length() }

// leadOut is how far past the kill each extracted window runs, and also
// the gap between a kill and the start of the next clip's window.
const leadOut = 1.0

// Plan computes one Placement per clip such that clip i's kill lands
// exactly at beats[i] on the output timeline. Clips whose trim window
// collapses to nothing after clamping are dropped from the result; a
// drop is expected behavior, not an error, and does not disturb the
// alignment of later clips.
//
// The result preserves input order. Plan is pure: same inputs, same
// output, no side effects.
func Plan(clips []Clip, beats []float64) ([]Placement, error) {
	if err := validate(clips, beats); err != nil {
		return nil, err
	}

	out := make([]Placement, 0, len(clips))
	var prevKill float64
	for i, c := range clips {
		p, ok := place(i, c, beats[i], prevKill)
		if ok {
			out = append(out, p)
		}
		// The accumulator advances to this clip's beat whether or not
		// the clip survived, so a dropped clip cannot shift the clips
		// after it.
		prevKill = beats[i]
	}
	return out, nil
}

// place computes a single clip's placement given the timeline position
// of the previous kill. ok is false when the clamped window is empty.
func place(i int, c Clip, beat, prevKill float64) (Placement, bool) {
	rawEnd := c.KillTime + leadOut

	var rawStart float64
	if i > 0 {
		// The segment should start leadOut after the previous kill.
		// Pinning the kill to the beat at that start position fixes the
		// local trim start:
		//   segStart + (kill - rawStart) = beat
		segStart := prevKill + leadOut
		rawStart = c.KillTime - (beat - segStart)
	}

	trimStart := clamp(rawStart, 0, c.Duration)
	trimEnd := clamp(rawEnd, 0, c.Duration)
	if trimStart >= trimEnd {
		return Placement{}, false
	}

	// Derived from the clamped start, so the kill still lands on the
	// beat even when clamping moved the window.
	killInSegment := c.KillTime - trimStart
	return Placement{
		Source:    i,
		TrimStart: trimStart,
		TrimEnd:   trimEnd,
		Offset:    beat - killInSegment,
	}, true
}

// TotalDuration returns the composite's length: the audio runs to its
// end, and any segment extending past it stretches the output further.
func TotalDuration(plans []Placement, audioDuration float64) float64 {
	total := audioDuration
	for _, p := range plans {
		if end := p.End(); end > total {
			total = end
		}
	}
	return total
}

func validate(clips []Clip, beats []float64) error {
	if len(clips) == 0 {
		return fmt.Errorf("%w: no clips", ErrInvalidInput)
	}
	if len(clips) != len(beats) {
		return fmt.Errorf("%w: %d clips but %d beats", ErrInvalidInput, len(clips), len(beats))
	}
	for i, c := range clips {
		if !finite(c.Duration) || !finite(c.KillTime) {
			return fmt.Errorf("%w: clip %d has non-finite times", ErrInvalidInput, i)
		}
		if c.Duration <= 0 {
			return fmt.Errorf("%w: clip %d duration %v must be > 0", ErrInvalidInput, i, c.Duration)
		}
		if c.KillTime < 0 || c.KillTime > c.Duration {
			return fmt.Errorf("%w: clip %d kill time %v outside [0, %v]", ErrInvalidInput, i, c.KillTime, c.Duration)
		}
	}
	for i, b := range beats {
		if !finite(b) {
			return fmt.Errorf("%w: beat %d is non-finite", ErrInvalidInput, i)
		}
	}
	return nil
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

func clamp(x, a, b float64) float64 {
	if x < a {
		return a
	}
	if x > b {
		return b
	}
	return x
}
