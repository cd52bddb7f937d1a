package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaiEtkin/AutoMontage/internal/pipeline"
	"github.com/KaiEtkin/AutoMontage/internal/project"
)

const (
	defaultFPS    = 60
	defaultPreset = "medium"
	outputWidth   = 1920
	outputHeight  = 1080
)

func run(cmd *cobra.Command, projectPath string) error {
	outDir, _ := cmd.Flags().GetString("out")
	fps, _ := cmd.Flags().GetInt("fps")
	song, _ := cmd.Flags().GetString("song")
	clipsDir, _ := cmd.Flags().GetString("clips-dir")
	kills, _ := cmd.Flags().GetString("kills")
	beats, _ := cmd.Flags().GetString("beats")
	preset, _ := cmd.Flags().GetString("preset")

	// The project file is optional: flags can describe the whole job.
	var p project.Project
	var err error
	if projectPath != "" {
		p, err = project.Load(projectPath)
		if err != nil {
			return err
		}
	}
	if song != "" {
		p.Song = song
	}
	if clipsDir != "" {
		p.ClipsDir = clipsDir
		p.Clips = nil
	}
	if kills != "" {
		p.Kills, err = project.ParseFloats(kills)
		if err != nil {
			return fmt.Errorf("--kills: %w", err)
		}
		// Flag kill times replace per-clip ones too; a partial list
		// would leave stale project values behind, so the counts must
		// match exactly.
		if len(p.Clips) > 0 {
			if len(p.Kills) != len(p.Clips) {
				return fmt.Errorf("--kills: %d values for %d clips", len(p.Kills), len(p.Clips))
			}
			for i := range p.Clips {
				p.Clips[i].Kill = p.Kills[i]
			}
		}
	}
	if beats != "" {
		p.Beats, err = project.ParseFloats(beats)
		if err != nil {
			return fmt.Errorf("--beats: %w", err)
		}
	}
	if preset != "" {
		p.Preset = preset
	}
	if fps != 0 {
		p.FPS = fps
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("project: %w", err)
	}

	clips, err := p.ResolveClips()
	if err != nil {
		return err
	}

	if p.FPS == 0 {
		p.FPS = defaultFPS
	}
	if p.Preset == "" {
		p.Preset = defaultPreset
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Hour)
	defer cancel()

	cfg := pipeline.Config{
		SongPath: p.Song,
		Clips:    clips,
		Beats:    p.Beats,

		OutDir: outDir,
		FPS:    p.FPS,
		Preset: p.Preset,
		Width:  outputWidth,
		Height: outputHeight,
		Logf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		},

		FFmpegPath:  getenvDefault("FFMPEG_PATH", "ffmpeg"),
		FFprobePath: getenvDefault("FFPROBE_PATH", "ffprobe"),
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return pipeline.Run(ctx, cfg)
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
