package project

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KaiEtkin/AutoMontage/internal/types"
)

// Project is the on-disk description of one montage: the song, the
// clips with their kill times, and the beat-drop times the kills are
// pinned to. Clips can be listed explicitly or discovered from a
// directory and zipped with kill_times.
type Project struct {
	Song     string    `yaml:"song"`
	ClipsDir string    `yaml:"clips_dir"`
	Clips    []Clip    `yaml:"clips"`
	Kills    []float64 `yaml:"kill_times"`
	Beats    []float64 `yaml:"beat_drops"`
	FPS      int       `yaml:"fps"`
	Preset   string    `yaml:"preset"`
}

type Clip struct {
	Path string  `yaml:"path"`
	Kill float64 `yaml:"kill_time"`
}

var allowedPresets = map[string]struct{}{
	"ultrafast": {},
	"superfast": {},
	"veryfast":  {},
	"faster":    {},
	"fast":      {},
	"medium":    {},
	"slow":      {},
	"slower":    {},
	"veryslow":  {},
}

func Load(path string) (Project, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Project{}, fmt.Errorf("read project: %w", err)
	}
	var p Project
	if err := yaml.Unmarshal(b, &p); err != nil {
		return Project{}, fmt.Errorf("parse project: %w", err)
	}
	return p, nil
}

func (p Project) Validate() error {
	if p.Song == "" {
		return errors.New("song is required")
	}
	if len(p.Clips) == 0 && p.ClipsDir == "" {
		return errors.New("either clips or clips_dir is required")
	}
	if len(p.Clips) > 0 && p.ClipsDir != "" {
		return errors.New("clips and clips_dir are mutually exclusive")
	}
	if len(p.Beats) == 0 {
		return errors.New("beat_drops is required")
	}
	if p.FPS < 0 {
		return errors.New("fps must be >= 0")
	}
	if p.Preset != "" {
		if _, ok := allowedPresets[p.Preset]; !ok {
			return fmt.Errorf("unknown preset %q", p.Preset)
		}
	}
	return nil
}

// ResolveClips produces the ordered clip list the planner will see.
// Explicit clips are taken as-is; a clips_dir is scanned and ordered by
// the number embedded in each filename, then zipped with kill_times.
// Ordering is settled here once; downstream code never re-derives it.
func (p Project) ResolveClips() ([]types.ClipSource, error) {
	if len(p.Clips) > 0 {
		out := make([]types.ClipSource, 0, len(p.Clips))
		for _, c := range p.Clips {
			out = append(out, types.ClipSource{Path: c.Path, KillTime: c.Kill})
		}
		return out, nil
	}

	paths, err := DiscoverClips(p.ClipsDir)
	if err != nil {
		return nil, err
	}
	if len(paths) != len(p.Kills) {
		return nil, fmt.Errorf("%d clips in %s but %d kill_times", len(paths), p.ClipsDir, len(p.Kills))
	}
	out := make([]types.ClipSource, 0, len(paths))
	for i, path := range paths {
		out = append(out, types.ClipSource{Path: path, KillTime: p.Kills[i]})
	}
	return out, nil
}

// ParseFloats parses a comma-separated list of numbers, e.g. the
// "13,8,11.5,11" format used for kill and beat flag overrides.
func ParseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: not a number", strings.TrimSpace(part))
		}
		out = append(out, v)
	}
	return out, nil
}
