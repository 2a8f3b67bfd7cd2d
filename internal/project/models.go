// Package project persists sequences and the media library in SQLite and
// keeps the editing sessions of open sequences.
package project

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/splicekit/splice/internal/media"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrNotDirectory = errors.New("path is not a directory")
)

// SequenceInfo is the stored header of a sequence.
type SequenceInfo struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Width          int       `json:"width"`
	Height         int       `json:"height"`
	FrameRate      float64   `json:"frame_rate"`
	AudioFrequency int       `json:"audio_frequency"`
	ClipCount      int       `json:"clip_count"`
	EndFrame       int64     `json:"end_frame"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// MediaRecord is a row of the media library. Nested sequences carry the
// header of the sequence they reference.
type MediaRecord struct {
	ID         int64               `json:"id"`
	Kind       media.Kind          `json:"-"`
	ParentID   int64               `json:"parent_id,omitempty"`
	Name       string              `json:"name"`
	Path       string              `json:"path,omitempty"`
	Duration   time.Duration       `json:"-"`
	Size       int64               `json:"size,omitempty"`
	Mtime      time.Time           `json:"mtime,omitempty"`
	SequenceID string              `json:"sequence_id,omitempty"`
	Video      []media.VideoStream `json:"video,omitempty"`
	Audio      []media.AudioStream `json:"audio,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`

	seqRate   float64
	seqLength int64
	seqWidth  int
	seqHeight int
}

// Item converts the record into a library item. Folder children are filled
// in by BuildLibrary.
func (m *MediaRecord) Item() media.Item {
	switch m.Kind {
	case media.KindFootage:
		return &media.Footage{
			ID:       m.ID,
			Label:    m.Name,
			Path:     m.Path,
			Duration: m.Duration,
			Video:    m.Video,
			Audio:    m.Audio,
		}
	case media.KindSequence:
		return &media.NestedSequence{
			ID:         m.ID,
			Label:      m.Name,
			SequenceID: m.SequenceID,
			FrameRate:  m.seqRate,
			Length:     m.seqLength,
			Width:      m.seqWidth,
			Height:     m.seqHeight,
		}
	case media.KindFolder:
		return &media.Folder{ID: m.ID, Label: m.Name}
	}
	return nil
}

// BuildLibrary indexes records and attaches children to their folders.
func BuildLibrary(records []*MediaRecord) *media.Library {
	lib := media.NewLibrary()
	folders := make(map[int64]*media.Folder)
	items := make([]media.Item, len(records))
	for i, r := range records {
		items[i] = r.Item()
		if f, ok := items[i].(*media.Folder); ok {
			folders[r.ID] = f
		}
	}
	for i, r := range records {
		if items[i] == nil {
			continue
		}
		lib.Add(items[i])
		if parent := folders[r.ParentID]; parent != nil && r.ParentID != 0 {
			parent.Children = append(parent.Children, items[i])
		}
	}
	return lib
}

// Stats summarises the project database.
type Stats struct {
	Media     int   `json:"media"`
	Footage   int   `json:"footage"`
	Sequences int   `json:"sequences"`
	Clips     int   `json:"clips"`
	MediaSize int64 `json:"media_size"`
}

var MediaExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
	".mxf":  true,
	".avi":  true,
	".webm": true,
	".wav":  true,
	".mp3":  true,
	".aac":  true,
	".flac": true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
}

func IsMediaFile(filename string) bool {
	return MediaExtensions[strings.ToLower(filepath.Ext(filename))]
}
