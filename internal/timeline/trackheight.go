package timeline

// TrackHeights stores per-track display heights in two arrays indexed by
// track number, one for video and one for audio. Arrays grow on demand.
type TrackHeights struct {
	Video   []int `json:"video"`
	Audio   []int `json:"audio"`
	Default int   `json:"default"`
	Min     int   `json:"min"`
}

func NewTrackHeights(defaultHeight, minHeight int) *TrackHeights {
	return &TrackHeights{Default: defaultHeight, Min: minHeight}
}

func (h *TrackHeights) slot(track int) *int {
	list := &h.Audio
	if IsVideoTrack(track) {
		list = &h.Video
	}
	n := TrackNumber(track)
	for len(*list) <= n {
		*list = append(*list, h.Default)
	}
	return &(*list)[n]
}

// CalculateTrackHeight returns the height of track, padding the arrays with
// the default height first.
func (h *TrackHeights) CalculateTrackHeight(track int) int {
	return *h.slot(track)
}

func (h *TrackHeights) SetTrackHeight(track, height int) {
	if height < h.Min {
		height = h.Min
	}
	*h.slot(track) = height
}

// ChangeTrackHeight adds delta to every known track. Shrinking stops at the
// minimum height; growing is never clamped.
func (h *TrackHeights) ChangeTrackHeight(delta int) {
	adjust := func(list []int) {
		for i := range list {
			list[i] += delta
			if delta < 0 && list[i] < h.Min {
				list[i] = h.Min
			}
		}
	}
	adjust(h.Video)
	adjust(h.Audio)
}

// TrackAtOffset maps a display row offset of video or audio kind back to
// its internal track number.
func TrackAtOffset(video bool, row int) int {
	if video {
		return VideoTrack(row)
	}
	return AudioTrack(row)
}
