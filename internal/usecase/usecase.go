package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaiEtkin/AutoMontage/internal/domain/timeline"
	"github.com/KaiEtkin/AutoMontage/internal/ports"
	"github.com/KaiEtkin/AutoMontage/internal/types"
)

type Deps struct {
	Video ports.VideoTool
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

type Input struct {
	SongPath string
	Clips    []types.ClipSource
	Beats    []float64
	FPS      int
	Preset   string
	Width    int
	Height   int
	CacheDir string
	OutDir   string
	Logf     func(format string, args ...any)
}

type Result struct {
	Manifest types.Manifest
}

// Run probes the inputs, plans the placements, extracts each surviving
// trim window, and renders the composite over the song.
func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	logf := in.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	songDur, err := u.d.Video.ProbeDuration(ctx, in.SongPath)
	if err != nil {
		return Result{}, fmt.Errorf("probe song: %w", err)
	}
	logf("song: %s (%.2fs)", in.SongPath, songDur)

	sources := make([]types.ClipSource, len(in.Clips))
	clips := make([]timeline.Clip, len(in.Clips))
	for i, c := range in.Clips {
		dur, err := u.d.Video.ProbeDuration(ctx, c.Path)
		if err != nil {
			return Result{}, fmt.Errorf("probe clip %s: %w", c.Path, err)
		}
		c.Duration = dur
		sources[i] = c
		clips[i] = timeline.Clip{Duration: dur, KillTime: c.KillTime}
	}

	plans, err := timeline.Plan(clips, in.Beats)
	if err != nil {
		return Result{}, err
	}
	if dropped := len(clips) - len(plans); dropped > 0 {
		logf("dropped %d clip(s) with empty trim windows", dropped)
	}
	total := timeline.TotalDuration(plans, songDur)

	segDir := filepath.Join(in.CacheDir, "segments")
	if err := os.MkdirAll(segDir, 0o755); err != nil {
		return Result{}, err
	}

	segments := make([]ports.Segment, 0, len(plans))
	for j, p := range plans {
		src := sources[p.Source]
		segPath := filepath.Join(segDir, fmt.Sprintf("%03d.mp4", j+1))
		logf("extract %s [%.3f, %.3f] -> %s", src.Path, p.TrimStart, p.TrimEnd, segPath)
		if err := u.d.Video.ExtractSegment(ctx, src.Path, p.TrimStart, p.TrimEnd, segPath); err != nil {
			return Result{}, err
		}
		segments = append(segments, ports.Segment{Path: segPath, StartAt: p.Offset})
	}

	outPath := filepath.Join(in.OutDir, "montage.mp4")
	logf("composite %d segment(s), %.2fs total -> %s", len(segments), total, outPath)
	if err := u.d.Video.Composite(ctx, ports.CompositeSpec{
		Segments: segments,
		SongPath: in.SongPath,
		Duration: total,
		Width:    in.Width,
		Height:   in.Height,
		FPS:      in.FPS,
		Preset:   in.Preset,
		OutPath:  outPath,
	}); err != nil {
		return Result{}, err
	}

	m := types.Manifest{
		Song:          in.SongPath,
		Output:        filepath.ToSlash(filepath.Base(outPath)),
		TotalDuration: total,
	}
	for _, p := range plans {
		src := sources[p.Source]
		m.Segments = append(m.Segments, types.ManifestSegment{
			Source:        src.Path,
			KillTime:      src.KillTime,
			Beat:          in.Beats[p.Source],
			TrimStart:     p.TrimStart,
			TrimEnd:       p.TrimEnd,
			TimelineStart: p.Offset,
		})
	}
	return Result{Manifest: m}, nil
}
