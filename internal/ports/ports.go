package ports

import "context"

// Segment is one already-extracted piece of video to lay onto the
// composite timeline. StartAt may be negative; frames before t=0 are
// discarded by the renderer.
type Segment struct {
	Path    string
	StartAt float64
}

// CompositeSpec describes the final render: segments overlaid on a
// blank canvas, the song as the audio track, everything padded or cut
// to Duration seconds.
type CompositeSpec struct {
	Segments []Segment
	SongPath string
	Duration float64
	Width    int
	Height   int
	FPS      int
	Preset   string
	OutPath  string
}

type VideoTool interface {
	// ProbeDuration returns the container duration in seconds.
	ProbeDuration(ctx context.Context, path string) (float64, error)
	// ExtractSegment re-encodes [start, end] of in into out.
	ExtractSegment(ctx context.Context, in string, start, end float64, out string) error
	// Composite renders the final montage.
	Composite(ctx context.Context, spec CompositeSpec) error
}
