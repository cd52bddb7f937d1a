package usecase

import (
	"context"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaiEtkin/AutoMontage/internal/ports"
	"github.com/KaiEtkin/AutoMontage/internal/types"
)

func TestRun_AlignsKillsToBeats(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	video := &fakeVideoTool{durations: map[string]float64{
		"song.mp3":  60,
		"clip1.mp4": 20,
		"clip2.mp4": 15,
	}}

	uc := New(Deps{Video: video})
	res, err := uc.Run(context.Background(), Input{
		SongPath: "song.mp3",
		Clips: []types.ClipSource{
			{Path: "clip1.mp4", KillTime: 13},
			{Path: "clip2.mp4", KillTime: 8},
		},
		Beats:    []float64{8, 10.5},
		FPS:      60,
		Preset:   "medium",
		Width:    1920,
		Height:   1080,
		CacheDir: filepath.Join(tmp, "cache"),
		OutDir:   tmp,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(video.extracts) != 2 {
		t.Fatalf("expected 2 extractions, got %d", len(video.extracts))
	}
	first := video.extracts[0]
	if first.start != 0 || first.end != 14 {
		t.Fatalf("first clip window [%v, %v], want [0, 14]", first.start, first.end)
	}
	second := video.extracts[1]
	if math.Abs(second.start-6.5) > 1e-9 || math.Abs(second.end-9) > 1e-9 {
		t.Fatalf("second clip window [%v, %v], want [6.5, 9]", second.start, second.end)
	}

	if video.composite == nil {
		t.Fatalf("expected composite call")
	}
	if len(video.composite.Segments) != 2 {
		t.Fatalf("expected 2 segments in composite, got %d", len(video.composite.Segments))
	}
	if video.composite.Segments[0].StartAt != -5 {
		t.Fatalf("first segment starts at %v, want -5", video.composite.Segments[0].StartAt)
	}
	if video.composite.Duration != 60 {
		t.Fatalf("composite duration %v, want song duration 60", video.composite.Duration)
	}

	m := res.Manifest
	if m.TotalDuration != 60 {
		t.Fatalf("manifest total duration %v, want 60", m.TotalDuration)
	}
	if len(m.Segments) != 2 {
		t.Fatalf("expected 2 manifest segments, got %d", len(m.Segments))
	}
	for _, s := range m.Segments {
		land := s.TimelineStart + (s.KillTime - s.TrimStart)
		if math.Abs(land-s.Beat) > 1e-9 {
			t.Fatalf("segment %s kill lands at %v, want beat %v", s.Source, land, s.Beat)
		}
	}
}

func TestRun_DroppedClipStaysOutOfOutputs(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	video := &fakeVideoTool{durations: map[string]float64{
		"song.mp3":  30,
		"clip1.mp4": 20,
		"clip2.mp4": 0.5, // window collapses after clamping
		"clip3.mp4": 30,
	}}

	uc := New(Deps{Video: video})
	res, err := uc.Run(context.Background(), Input{
		SongPath: "song.mp3",
		Clips: []types.ClipSource{
			{Path: "clip1.mp4", KillTime: 13},
			{Path: "clip2.mp4", KillTime: 0},
			{Path: "clip3.mp4", KillTime: 12},
		},
		Beats:    []float64{8, 8.3, 13},
		FPS:      60,
		Preset:   "medium",
		Width:    1280,
		Height:   720,
		CacheDir: filepath.Join(tmp, "cache"),
		OutDir:   tmp,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(video.extracts) != 2 {
		t.Fatalf("expected 2 extractions, got %d", len(video.extracts))
	}
	for _, e := range video.extracts {
		if e.in == "clip2.mp4" {
			t.Fatalf("dropped clip must not be extracted")
		}
	}
	if len(res.Manifest.Segments) != 2 {
		t.Fatalf("expected 2 manifest segments, got %d", len(res.Manifest.Segments))
	}
	last := res.Manifest.Segments[1]
	if last.Source != "clip3.mp4" {
		t.Fatalf("unexpected last segment source %s", last.Source)
	}
	// Still measured from the dropped clip's beat: window starts at
	// 12-(13-9.3) = 8.3.
	if math.Abs(last.TrimStart-8.3) > 1e-9 {
		t.Fatalf("last segment trim start %v, want 8.3", last.TrimStart)
	}
}

func TestRun_BeatCountMismatch(t *testing.T) {
	t.Parallel()

	video := &fakeVideoTool{durations: map[string]float64{
		"song.mp3":  30,
		"clip1.mp4": 20,
		"clip2.mp4": 15,
	}}
	uc := New(Deps{Video: video})
	_, err := uc.Run(context.Background(), Input{
		SongPath: "song.mp3",
		Clips: []types.ClipSource{
			{Path: "clip1.mp4", KillTime: 13},
			{Path: "clip2.mp4", KillTime: 8},
		},
		Beats:    []float64{8, 10.5, 13},
		CacheDir: t.TempDir(),
		OutDir:   t.TempDir(),
	})
	if err == nil || !strings.Contains(err.Error(), "beats") {
		t.Fatalf("expected planner validation error, got %v", err)
	}
	if video.composite != nil {
		t.Fatalf("composite must not run on invalid input")
	}
}

type extractCall struct {
	in    string
	start float64
	end   float64
	out   string
}

type fakeVideoTool struct {
	durations map[string]float64
	extracts  []extractCall
	composite *ports.CompositeSpec
}

func (f *fakeVideoTool) ProbeDuration(_ context.Context, path string) (float64, error) {
	return f.durations[path], nil
}

func (f *fakeVideoTool) ExtractSegment(_ context.Context, in string, start, end float64, out string) error {
	f.extracts = append(f.extracts, extractCall{in: in, start: start, end: end, out: out})
	return nil
}

func (f *fakeVideoTool) Composite(_ context.Context, spec ports.CompositeSpec) error {
	f.composite = &spec
	return nil
}
