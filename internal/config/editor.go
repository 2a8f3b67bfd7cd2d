package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Editor holds the settings the edit engine reads on every operation.
type Editor struct {
	SnapTolerancePx         int  `yaml:"snap_tolerance_px" json:"snap_tolerance_px"`
	Snapping                bool `yaml:"snapping" json:"snapping"`
	PasteSeeks              bool `yaml:"paste_seeks" json:"paste_seeks"`
	StillDurationSeconds    int  `yaml:"still_duration_seconds" json:"still_duration_seconds"`
	DefaultTransitionFrames int  `yaml:"default_transition_frames" json:"default_transition_frames"`
	DefaultTrackHeight      int  `yaml:"default_track_height" json:"default_track_height"`
	MinTrackHeight          int  `yaml:"min_track_height" json:"min_track_height"`
	CachePrefetchFrames     int  `yaml:"cache_prefetch_frames" json:"cache_prefetch_frames"`
}

// DefaultEditor returns the built-in editor settings.
func DefaultEditor() Editor {
	return Editor{
		SnapTolerancePx:         10,
		Snapping:                true,
		PasteSeeks:              true,
		StillDurationSeconds:    10,
		DefaultTransitionFrames: 30,
		DefaultTrackHeight:      40,
		MinTrackHeight:          30,
		CachePrefetchFrames:     48,
	}
}

// LoadEditor reads editor settings from path. A missing file yields the
// defaults; keys absent from the file keep their default values.
func LoadEditor(path string) (Editor, error) {
	ed := DefaultEditor()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ed, nil
	}
	if err != nil {
		return ed, fmt.Errorf("read editor config: %w", err)
	}
	if err := yaml.Unmarshal(data, &ed); err != nil {
		return DefaultEditor(), fmt.Errorf("parse editor config %s: %w", path, err)
	}
	if err := ed.Validate(); err != nil {
		return DefaultEditor(), err
	}
	return ed, nil
}

// SaveEditor writes ed to path, creating parent directories.
func SaveEditor(path string, ed Editor) error {
	if err := ed.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(ed)
	if err != nil {
		return fmt.Errorf("marshal editor config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func (e Editor) Validate() error {
	switch {
	case e.SnapTolerancePx < 0:
		return fmt.Errorf("snap_tolerance_px must not be negative")
	case e.StillDurationSeconds <= 0:
		return fmt.Errorf("still_duration_seconds must be positive")
	case e.DefaultTransitionFrames <= 0:
		return fmt.Errorf("default_transition_frames must be positive")
	case e.MinTrackHeight <= 0:
		return fmt.Errorf("min_track_height must be positive")
	case e.DefaultTrackHeight < e.MinTrackHeight:
		return fmt.Errorf("default_track_height %d below min_track_height %d", e.DefaultTrackHeight, e.MinTrackHeight)
	case e.CachePrefetchFrames < 0:
		return fmt.Errorf("cache_prefetch_frames must not be negative")
	}
	return nil
}

// SnapTolerance converts the pixel tolerance into frames at zoom, where zoom
// is pixels per frame. It is never less than one frame.
func (e Editor) SnapTolerance(zoom float64) int64 {
	if zoom <= 0 {
		return int64(e.SnapTolerancePx)
	}
	frames := int64(math.Ceil(float64(e.SnapTolerancePx) / zoom))
	if frames < 1 {
		frames = 1
	}
	return frames
}

// StillFrames is the default length of a still image placed at rate.
func (e Editor) StillFrames(rate float64) int64 {
	return int64(math.Round(float64(e.StillDurationSeconds) * rate))
}
