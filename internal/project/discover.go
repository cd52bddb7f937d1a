package project

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var videoExts = map[string]struct{}{
	".mp4": {},
	".mov": {},
	".avi": {},
	".mkv": {},
}

var reClipIndex = regexp.MustCompile(`clip(\d+)`)

// DiscoverClips lists the video files in dir ordered by the numeric
// index embedded in their names ("clip7.mp4" before "clip12.mp4").
// Files without an index sort after indexed ones, by name.
func DiscoverClips(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read clips dir: %w", err)
	}

	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := videoExts[strings.ToLower(filepath.Ext(e.Name()))]; !ok {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, aOK := clipIndex(filepath.Base(out[i]))
		b, bOK := clipIndex(filepath.Base(out[j]))
		switch {
		case aOK && bOK:
			return a < b
		case aOK:
			return true
		case bOK:
			return false
		default:
			return out[i] < out[j]
		}
	})
	return out, nil
}

func clipIndex(name string) (int, bool) {
	m := reClipIndex.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
