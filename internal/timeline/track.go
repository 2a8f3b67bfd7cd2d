// Package timeline holds the editable data model of a sequence: clips on
// signed tracks, their transitions, selections, markers and the work area.
//
// Track numbering: track >= 0 is an audio track, track < 0 is a video track
// whose display number is -(track+1). Track -1 is the topmost video track 0.
package timeline

import "fmt"

func IsVideoTrack(track int) bool { return track < 0 }

func IsAudioTrack(track int) bool { return track >= 0 }

// VideoTrack returns the internal track for display video track k.
func VideoTrack(k int) int { return -(k + 1) }

// AudioTrack returns the internal track for display audio track k.
func AudioTrack(k int) int { return k }

// TrackNumber returns the display index of track within its kind.
func TrackNumber(track int) int {
	if track < 0 {
		return -(track + 1)
	}
	return track
}

// TrackName returns the one-based label shown in the track header, e.g. V1 or A2.
func TrackName(track int) string {
	if track < 0 {
		return fmt.Sprintf("V%d", TrackNumber(track)+1)
	}
	return fmt.Sprintf("A%d", track+1)
}

// SameKind reports whether both tracks are video or both are audio.
func SameKind(a, b int) bool {
	return IsVideoTrack(a) == IsVideoTrack(b)
}
