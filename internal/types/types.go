package types

// ClipSource is one input clip as the caller supplies it: a media file
// plus the local timestamp of its kill. Duration is filled in by
// probing before planning.
type ClipSource struct {
	Path     string
	KillTime float64
	Duration float64
}

type Manifest struct {
	Song          string            `json:"song"`
	Output        string            `json:"output"`
	TotalDuration float64           `json:"total_duration_sec"`
	Segments      []ManifestSegment `json:"segments"`
}

// ManifestSegment records where a trim window of a source clip was
// placed on the output timeline. Dropped clips have no entry.
type ManifestSegment struct {
	Source        string  `json:"source"`
	KillTime      float64 `json:"kill_time_sec"`
	Beat          float64 `json:"beat_sec"`
	TrimStart     float64 `json:"trim_start_sec"`
	TrimEnd       float64 `json:"trim_end_sec"`
	TimelineStart float64 `json:"timeline_start_sec"`
}
