package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/KaiEtkin/AutoMontage/internal/ports"
	"github.com/KaiEtkin/AutoMontage/internal/ports/adapters/ffmpeg"
	"github.com/KaiEtkin/AutoMontage/internal/types"
	"github.com/KaiEtkin/AutoMontage/internal/usecase"
)

type Config struct {
	SongPath string
	Clips    []types.ClipSource
	Beats    []float64

	OutDir string
	FPS    int
	Preset string
	Width  int
	Height int
	Logf   func(format string, args ...any)

	// CacheDir is the base directory for local artifacts (extracted
	// segments). If empty, defaults to ".cache".
	CacheDir string

	FFmpegPath  string
	FFprobePath string
}

func (c Config) Validate() error {
	if c.SongPath == "" {
		return errors.New("song is empty")
	}
	if _, err := os.Stat(c.SongPath); err != nil {
		return fmt.Errorf("stat song: %w", err)
	}
	if len(c.Clips) == 0 {
		return errors.New("no clips")
	}
	if len(c.Clips) != len(c.Beats) {
		return fmt.Errorf("%d clips but %d beats", len(c.Clips), len(c.Beats))
	}
	for _, clip := range c.Clips {
		if _, err := os.Stat(clip.Path); err != nil {
			return fmt.Errorf("stat clip: %w", err)
		}
	}
	if c.FPS <= 0 {
		return errors.New("fps must be > 0")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return errors.New("output size must be > 0")
	}
	return nil
}

func Run(ctx context.Context, cfg Config) error {
	logf := cfg.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	v := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath)

	uc := usecase.New(usecase.Deps{Video: v})

	jobID := hash(cfg.SongPath)
	baseCache := cfg.CacheDir
	if baseCache == "" {
		baseCache = ".cache"
	}
	cacheDir := filepath.Join(baseCache, "runs", jobID)
	logf("preparing workspace")
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return err
	}
	logf("cache: %s", cacheDir)

	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "out"
	}
	runOutDir := buildRunOutDir(outDir, cfg.SongPath, time.Now().UTC())
	if err := os.MkdirAll(runOutDir, 0o755); err != nil {
		return err
	}
	logf("output run dir: %s", runOutDir)

	res, err := uc.Run(ctx, usecase.Input{
		SongPath: cfg.SongPath,
		Clips:    cfg.Clips,
		Beats:    cfg.Beats,
		FPS:      cfg.FPS,
		Preset:   cfg.Preset,
		Width:    cfg.Width,
		Height:   cfg.Height,
		CacheDir: cacheDir,
		OutDir:   runOutDir,
		Logf:     logf,
	})
	if err != nil {
		return err
	}

	b, err := json.MarshalIndent(res.Manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	manifestPath := filepath.Join(runOutDir, "manifest.json")
	if err := os.WriteFile(manifestPath, b, 0o644); err != nil {
		return err
	}
	logf("manifest written (%d segments): %s", len(res.Manifest.Segments), manifestPath)
	return nil
}

func buildRunOutDir(outRoot, songPath string, now time.Time) string {
	name := strings.TrimSuffix(filepath.Base(songPath), filepath.Ext(songPath))
	name = normalizePathSegment(name)
	if name == "" {
		name = "montage"
	}
	ts := now.UTC().Format("20060102-150405Z")
	runSeed := fmt.Sprintf("%s|%d", songPath, now.UTC().UnixNano())
	suffix := hash(runSeed)[:6]
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var _ ports.VideoTool = (*ffmpeg.Adapter)(nil)
