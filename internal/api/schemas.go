package api

import (
	"time"

	"github.com/splicekit/splice/internal/effects"
	"github.com/splicekit/splice/internal/media"
	"github.com/splicekit/splice/internal/project"
	"github.com/splicekit/splice/internal/timeline"
)

type HealthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	UptimeS    int64  `json:"uptime_s"`
	InstanceID string `json:"instance_id"`
}

type StatusResponse struct {
	OpenSequences []string       `json:"open_sequences"`
	Dirty         int            `json:"dirty"`
	Autosave      string         `json:"autosave"`
	Library       *project.Stats `json:"library,omitempty"`
	Cache         *CacheResponse `json:"cache,omitempty"`
	Clipboard     string         `json:"clipboard"`
}

type CacheResponse struct {
	Workers  int   `json:"workers"`
	Entries  int   `json:"entries"`
	Bytes    int64 `json:"bytes"`
	MaxBytes int64 `json:"max_bytes"`
	Hits     int64 `json:"hits"`
	Misses   int64 `json:"misses"`
}

type CreateSequenceRequest struct {
	Name           string  `json:"name"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	FrameRate      float64 `json:"frame_rate"`
	AudioFrequency int     `json:"audio_frequency"`
}

type SequenceResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	FrameRate      float64 `json:"frame_rate"`
	AudioFrequency int     `json:"audio_frequency"`
	ClipCount      int     `json:"clip_count"`
	EndFrame       int64   `json:"end_frame"`
	CreatedAt      string  `json:"created_at,omitempty"`
	UpdatedAt      string  `json:"updated_at,omitempty"`
}

type SequencesResponse struct {
	Sequences []SequenceResponse `json:"sequences"`
}

type TrackResponse struct {
	Track   int    `json:"track"`
	Name    string `json:"name"`
	Locked  bool   `json:"locked"`
	Enabled bool   `json:"enabled"`
	Height  int    `json:"height"`
}

type ClipResponse struct {
	ID        timeline.ClipID      `json:"id"`
	Name      string               `json:"name"`
	Enabled   bool                 `json:"enabled"`
	Track     int                  `json:"track"`
	TrackName string               `json:"track_name"`
	In        int64                `json:"in"`
	Out       int64                `json:"out"`
	ClipIn    int64                `json:"clip_in"`
	MediaID   int64                `json:"media_id,omitempty"`
	Offline   bool                 `json:"offline,omitempty"`
	Stream    int                  `json:"stream"`
	Links     []timeline.ClipID    `json:"links"`
	Opening   *timeline.Transition `json:"opening,omitempty"`
	Closing   *timeline.Transition `json:"closing,omitempty"`
	Effects   []effects.Effect     `json:"effects"`
}

type TimelineResponse struct {
	SequenceResponse
	Playhead   int64                `json:"playhead"`
	Workarea   timeline.Workarea    `json:"workarea"`
	Markers    []timeline.Marker    `json:"markers"`
	Tracks     []TrackResponse      `json:"tracks"`
	Clips      []ClipResponse       `json:"clips"`
	Selections []timeline.Selection `json:"selections"`
	CanUndo    bool                 `json:"can_undo"`
	CanRedo    bool                 `json:"can_redo"`
	Dirty      bool                 `json:"dirty"`
}

// EditResponse reports whether an edit changed the sequence.
type EditResponse struct {
	Changed  bool              `json:"changed"`
	Op       string            `json:"op,omitempty"`
	Clips    []timeline.ClipID `json:"clips,omitempty"`
	Playhead int64             `json:"playhead"`
	EndFrame int64             `json:"end_frame"`
}

type ClipIDsRequest struct {
	ClipIDs []timeline.ClipID `json:"clip_ids"`
}

type SelectionRequest struct {
	Selections []timeline.Selection `json:"selections"`
	ClipIDs    []timeline.ClipID    `json:"clip_ids"`
	WithLinked bool                 `json:"with_linked"`
	All        bool                 `json:"all"`
}

type SelectionResponse struct {
	Selections []timeline.Selection `json:"selections"`
	Clips      []timeline.ClipID    `json:"clips"`
}

type ImportMediaRequest struct {
	MediaIDs []int64 `json:"media_ids"`
	Frame    int64   `json:"frame"`
	Tracks   int     `json:"tracks"`
	TrimIn   int64   `json:"trim_in"`
	TrimOut  int64   `json:"trim_out"`
	Insert   bool    `json:"insert"`
}

type MoveRequest struct {
	ClipIDs []timeline.ClipID `json:"clip_ids"`
	Frames  int64             `json:"frames"`
	Tracks  int               `json:"tracks"`
}

type SplitRequest struct {
	ClipIDs []timeline.ClipID `json:"clip_ids"`
	Frame   *int64            `json:"frame,omitempty"`
	All     bool              `json:"all"`
}

type DeleteRequest struct {
	Selections []timeline.Selection `json:"selections"`
	ClipIDs    []timeline.ClipID    `json:"clip_ids"`
	Ripple     bool                 `json:"ripple"`
}

type CutRequest struct {
	Selections []timeline.Selection `json:"selections"`
	Ripple     bool                 `json:"ripple"`
}

type PasteRequest struct {
	Insert bool `json:"insert"`
}

type CopyEffectsRequest struct {
	ClipID timeline.ClipID `json:"clip_id"`
}

type PasteEffectsRequest struct {
	ClipIDs  []timeline.ClipID `json:"clip_ids"`
	Conflict string            `json:"conflict"`
}

type ClipboardResponse struct {
	Kind      string  `json:"kind"`
	Clips     int     `json:"clips"`
	Span      int64   `json:"span"`
	FrameRate float64 `json:"frame_rate,omitempty"`
	Effects   int     `json:"effects"`
	// SystemOwned is set while the OS clipboard still holds the mirrored copy.
	SystemOwned bool `json:"system_owned"`
}

type RippleRequest struct {
	Point  int64 `json:"point"`
	Length int64 `json:"length"`
}

type TransitionRequest struct {
	ClipID   timeline.ClipID `json:"clip_id"`
	Side     string          `json:"side"`
	EffectID string          `json:"effect_id"`
	Length   int64           `json:"length"`
	Shared   bool            `json:"shared"`
}

type WorkareaRequest struct {
	In  int64 `json:"in"`
	Out int64 `json:"out"`
}

type MarkerRequest struct {
	Frame int64  `json:"frame"`
	Name  string `json:"name"`
}

type TrackRequest struct {
	Track   int   `json:"track"`
	Locked  *bool `json:"locked,omitempty"`
	Enabled *bool `json:"enabled,omitempty"`
	Height  *int  `json:"height,omitempty"`
}

type PlayheadRequest struct {
	Frame int64 `json:"frame"`
}

type SnapResponse struct {
	Frame   int64           `json:"frame"`
	Snapped bool            `json:"snapped"`
	Kind    string          `json:"kind"`
	Clip    timeline.ClipID `json:"clip,omitempty"`
}

type HistoryResponse struct {
	Op      string `json:"op,omitempty"`
	Changed bool   `json:"changed"`
	CanUndo bool   `json:"can_undo"`
	CanRedo bool   `json:"can_redo"`
}

type ImportFolderRequest struct {
	Path     string `json:"path"`
	ParentID int64  `json:"parent_id,omitempty"`
}

type ImportFolderResponse struct {
	Folder   MediaResponse   `json:"folder"`
	Imported []MediaResponse `json:"imported"`
	Failed   []string        `json:"failed"`
}

type MediaResponse struct {
	ID         int64               `json:"id"`
	Kind       string              `json:"kind"`
	ParentID   int64               `json:"parent_id,omitempty"`
	Name       string              `json:"name"`
	Path       string              `json:"path,omitempty"`
	DurationMs int64               `json:"duration_ms,omitempty"`
	Size       int64               `json:"size,omitempty"`
	SequenceID string              `json:"sequence_id,omitempty"`
	Video      []media.VideoStream `json:"video,omitempty"`
	Audio      []media.AudioStream `json:"audio,omitempty"`
	CreatedAt  string              `json:"created_at"`
}

type MediaListResponse struct {
	Media []MediaResponse `json:"media"`
}

type EffectResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Transition bool   `json:"transition"`
}

type EffectsResponse struct {
	Effects []EffectResponse `json:"effects"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func SequenceInfoToResponse(info *project.SequenceInfo) SequenceResponse {
	return SequenceResponse{
		ID:             info.ID,
		Name:           info.Name,
		Width:          info.Width,
		Height:         info.Height,
		FrameRate:      info.FrameRate,
		AudioFrequency: info.AudioFrequency,
		ClipCount:      info.ClipCount,
		EndFrame:       info.EndFrame,
		CreatedAt:      info.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      info.UpdatedAt.Format(time.RFC3339),
	}
}

// TimelineToResponse renders an open session. Callers hold the session.
func TimelineToResponse(s *project.Session) TimelineResponse {
	seq := s.Sequence
	resp := TimelineResponse{
		SequenceResponse: SequenceResponse{
			ID:             seq.ID,
			Name:           seq.Name,
			Width:          seq.Width,
			Height:         seq.Height,
			FrameRate:      seq.FrameRate,
			AudioFrequency: seq.AudioFrequency,
			ClipCount:      seq.Len(),
			EndFrame:       seq.EndFrame(),
		},
		Playhead:   seq.Playhead,
		Workarea:   seq.Workarea,
		Markers:    seq.Markers,
		Clips:      make([]ClipResponse, 0, seq.Len()),
		Selections: s.Selections,
		CanUndo:    s.Undo.CanUndo(),
		CanRedo:    s.Undo.CanRedo(),
		Dirty:      s.Dirty(),
	}
	if resp.Markers == nil {
		resp.Markers = []timeline.Marker{}
	}
	if resp.Selections == nil {
		resp.Selections = []timeline.Selection{}
	}

	video, audio := seq.VideoTrackCount(), seq.AudioTrackCount()
	for k := video - 1; k >= 0; k-- {
		resp.Tracks = append(resp.Tracks, trackResponse(s, timeline.VideoTrack(k)))
	}
	for k := 0; k < audio; k++ {
		resp.Tracks = append(resp.Tracks, trackResponse(s, timeline.AudioTrack(k)))
	}
	if resp.Tracks == nil {
		resp.Tracks = []TrackResponse{}
	}

	for _, c := range seq.Clips() {
		resp.Clips = append(resp.Clips, ClipToResponse(c))
	}
	return resp
}

func trackResponse(s *project.Session, track int) TrackResponse {
	return TrackResponse{
		Track:   track,
		Name:    timeline.TrackName(track),
		Locked:  s.Sequence.IsTrackLocked(track),
		Enabled: s.Sequence.IsTrackEnabled(track),
		Height:  s.Heights.CalculateTrackHeight(track),
	}
}

func ClipToResponse(c *timeline.Clip) ClipResponse {
	resp := ClipResponse{
		ID:        c.ID,
		Name:      c.Name,
		Enabled:   c.Enabled,
		Track:     c.Track,
		TrackName: timeline.TrackName(c.Track),
		In:        c.In,
		Out:       c.Out,
		ClipIn:    c.ClipIn,
		Stream:    c.Stream,
		Links:     c.Links,
		Opening:   c.Opening,
		Closing:   c.Closing,
		Effects:   c.Effects,
	}
	if c.Media != nil {
		resp.MediaID = c.Media.MediaID()
	} else {
		resp.Offline = true
	}
	if resp.Links == nil {
		resp.Links = []timeline.ClipID{}
	}
	if resp.Effects == nil {
		resp.Effects = []effects.Effect{}
	}
	return resp
}

func MediaToResponse(m *project.MediaRecord) MediaResponse {
	return MediaResponse{
		ID:         m.ID,
		Kind:       m.Kind.String(),
		ParentID:   m.ParentID,
		Name:       m.Name,
		Path:       m.Path,
		DurationMs: m.Duration.Milliseconds(),
		Size:       m.Size,
		SequenceID: m.SequenceID,
		Video:      m.Video,
		Audio:      m.Audio,
		CreatedAt:  m.CreatedAt.Format(time.RFC3339),
	}
}
