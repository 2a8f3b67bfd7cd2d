package timeline

// Selection is a frame range [In,Out) on one track.
type Selection struct {
	In    int64 `json:"in"`
	Out   int64 `json:"out"`
	Track int   `json:"track"`
}

func (s Selection) Length() int64 { return s.Out - s.In }

func (s Selection) Valid() bool { return s.In < s.Out }

// Intersects reports whether c overlaps s on the same track.
func (s Selection) Intersects(c *Clip) bool {
	return c.Track == s.Track && c.In < s.Out && c.Out > s.In
}

// Covers reports whether c lies entirely within s.
func (s Selection) Covers(c *Clip) bool {
	return c.Track == s.Track && c.In >= s.In && c.Out <= s.Out
}

// SelectionOf returns the selection spanning c.
func SelectionOf(c *Clip) Selection {
	return Selection{In: c.In, Out: c.Out, Track: c.Track}
}

// CleanUpSelections merges selections that overlap or touch on the same
// track until no two selections on a track intersect. Empty and inverted
// selections are dropped. The backing array of sels is reused.
func CleanUpSelections(sels []Selection) []Selection {
	n := 0
	for _, s := range sels {
		if s.Valid() {
			sels[n] = s
			n++
		}
	}
	sels = sels[:n]

	for changed := true; changed; {
		changed = false
	scan:
		for i := 0; i < len(sels); i++ {
			s := sels[i]
			for j := range sels {
				if i == j || sels[j].Track != s.Track {
					continue
				}
				ss := &sels[j]
				switch {
				case s.In < ss.In && s.Out > ss.Out:
					// s swallows ss; ss is removed when the pair is visited the other way
					continue
				case s.In >= ss.In && s.Out <= ss.Out:
				case s.In <= ss.Out && s.Out > ss.Out:
					ss.Out = s.Out
				case s.Out >= ss.In && s.In < ss.In:
					ss.In = s.In
				default:
					continue
				}
				sels = append(sels[:i], sels[i+1:]...)
				changed = true
				break scan
			}
		}
	}
	return sels
}

// IsClipSelected reports whether any selection covers c. With partial set,
// any overlap counts.
func IsClipSelected(c *Clip, sels []Selection, partial bool) bool {
	for _, s := range sels {
		if partial && s.Intersects(c) {
			return true
		}
		if !partial && s.Covers(c) {
			return true
		}
	}
	return false
}
