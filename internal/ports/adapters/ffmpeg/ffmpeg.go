package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	ffmpeggo "github.com/u2takey/ffmpeg-go"

	"github.com/KaiEtkin/AutoMontage/internal/ports"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

func (a *Adapter) ProbeDuration(ctx context.Context, path string) (float64, error) {
	// The wrapper always invokes "ffprobe" from PATH; a custom binary
	// needs the exec route.
	if a.ffprobe != "ffprobe" {
		return a.probeDurationExec(ctx, path)
	}
	raw, err := ffmpeggo.Probe(path)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return parseProbeDuration(raw)
}

func (a *Adapter) probeDurationExec(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_format",
		"-of", "json",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w\n%s", path, err, string(b))
	}
	return parseProbeDuration(string(b))
}

type probeFormat struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func parseProbeDuration(raw string) (float64, error) {
	var pf probeFormat
	if err := json.Unmarshal([]byte(raw), &pf); err != nil {
		return 0, fmt.Errorf("decode ffprobe output: %w", err)
	}
	sec, err := strconv.ParseFloat(pf.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", pf.Format.Duration, err)
	}
	return sec, nil
}

func (a *Adapter) ExtractSegment(ctx context.Context, in string, start, end float64, out string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-ss", fmtSeconds(start),
		"-to", fmtSeconds(end),
		"-i", in,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "18",
		"-c:a", "aac",
		"-b:a", "192k",
		out,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg extract segment: %w\n%s", err, string(b))
	}
	return nil
}

func (a *Adapter) Composite(ctx context.Context, spec ports.CompositeSpec) error {
	args := []string{"-y"}
	for _, s := range spec.Segments {
		args = append(args, "-i", s.Path)
	}
	args = append(args,
		"-i", spec.SongPath,
		"-filter_complex", compositeFilter(spec),
		"-map", "[vout]",
		"-map", "[aout]",
		"-t", fmtSeconds(spec.Duration),
		"-r", strconv.Itoa(spec.FPS),
		"-c:v", "libx264",
		"-preset", spec.Preset,
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		spec.OutPath,
	)
	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg composite: %w\n%s", err, string(b))
	}
	return nil
}

// compositeFilter builds the overlay graph: a blank canvas, each
// segment shifted to its timeline start, and the song padded to the
// full duration. The audio input index is len(Segments).
func compositeFilter(spec ports.CompositeSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "color=c=black:s=%dx%d:r=%d:d=%s[base]",
		spec.Width, spec.Height, spec.FPS, fmtSeconds(spec.Duration))

	for i, s := range spec.Segments {
		fmt.Fprintf(&b, ";[%d:v]setpts=PTS-STARTPTS+%s/TB[v%d]", i, fmtSeconds(s.StartAt), i)
	}

	prev := "base"
	for i := range spec.Segments {
		out := fmt.Sprintf("ov%d", i)
		if i == len(spec.Segments)-1 {
			out = "vout"
		}
		fmt.Fprintf(&b, ";[%s][v%d]overlay=eof_action=pass[%s]", prev, i, out)
		prev = out
	}
	if len(spec.Segments) == 0 {
		b.WriteString(";[base]null[vout]")
	}

	fmt.Fprintf(&b, ";[%d:a]apad,atrim=end=%s[aout]", len(spec.Segments), fmtSeconds(spec.Duration))
	return b.String()
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}
