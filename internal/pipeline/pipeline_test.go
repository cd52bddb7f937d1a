package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/KaiEtkin/AutoMontage/internal/types"
)

func TestBuildRunOutDir(t *testing.T) {
	now := time.Date(2026, 2, 12, 10, 30, 45, 1234, time.UTC)
	got := buildRunOutDir("out", "/tmp/My Sick.Track.mp3", now)
	base := filepath.Base(got)
	if filepath.Dir(got) != "out" {
		t.Fatalf("unexpected parent dir: %s", got)
	}
	if !strings.HasPrefix(base, "my-sick-track-20260212-103045Z-") {
		t.Fatalf("unexpected run dir format: %s", base)
	}
	if len(base) != len("my-sick-track-20260212-103045Z-")+6 {
		t.Fatalf("unexpected run dir suffix length: %s", base)
	}
}

func TestNormalizePathSegment(t *testing.T) {
	tests := map[string]string{
		"  My Sick.Track  ": "my-sick-track",
		"___":               "",
		"abc123":            "abc123",
		"Name (v2)!":        "name-v2",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			if got := normalizePathSegment(in); got != want {
				t.Fatalf("normalizePathSegment(%q) = %q, want %q", in, got, want)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tmp := t.TempDir()
	song := filepath.Join(tmp, "song.mp3")
	clip := filepath.Join(tmp, "clip1.mp4")
	for _, p := range []string{song, clip} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}

	valid := Config{
		SongPath: song,
		Clips:    []types.ClipSource{{Path: clip, KillTime: 13}},
		Beats:    []float64{8},
		FPS:      60,
		Width:    1920,
		Height:   1080,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"no song", func(c *Config) { c.SongPath = "" }, "song is empty"},
		{"missing song", func(c *Config) { c.SongPath = filepath.Join(tmp, "nope.mp3") }, "stat song"},
		{"no clips", func(c *Config) { c.Clips = nil }, "no clips"},
		{"beat mismatch", func(c *Config) { c.Beats = []float64{8, 10.5} }, "1 clips but 2 beats"},
		{"missing clip", func(c *Config) { c.Clips = []types.ClipSource{{Path: filepath.Join(tmp, "nope.mp4")}} }, "stat clip"},
		{"zero fps", func(c *Config) { c.FPS = 0 }, "fps must be > 0"},
		{"zero size", func(c *Config) { c.Width = 0 }, "output size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
