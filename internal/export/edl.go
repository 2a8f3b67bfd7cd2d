// Package export writes sequences out as CMX3600 edit decision lists.
package export

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/splicekit/splice/internal/media"
	"github.com/splicekit/splice/internal/timeline"
)

var ErrNoEvents = errors.New("no exportable clips on video track 0")

// Events collects the enabled clips of video track 0 in record order. Clips
// without a file on disk, such as nested sequences, are returned by name in
// skipped.
func Events(seq *timeline.Sequence) (events []Event, skipped []string) {
	for _, c := range seq.ClipsOnTrack(timeline.VideoTrack(0)) {
		if !c.Enabled || c.Length() <= 0 {
			continue
		}
		f, ok := c.Media.(*media.Footage)
		if !ok || f.Path == "" {
			skipped = append(skipped, c.Name)
			continue
		}
		srcIn := media.RefactorFrameNumber(c.ClipIn, c.MediaFrameRate(seq.FrameRate), seq.FrameRate)
		if f.IsImage() {
			srcIn = 0
		}
		ev := Event{
			ClipName:  CommentText(c.Name),
			Reel:      ReelName(f.Label),
			MediaPath: f.Path,
			SourceIn:  srcIn,
			SourceOut: srcIn + c.Length(),
			RecordIn:  c.In,
			RecordOut: c.Out,
		}
		if ev.ClipName == "" {
			ev.ClipName = CommentText(f.Label)
		}
		if c.Opening != nil {
			ev.Transition = c.Opening.EffectID
		}
		events = append(events, ev)
	}
	return events, skipped
}

// GenerateEDL renders events as a CMX3600 list. 29.97 and 59.94 use drop
// frame timecode.
func GenerateEDL(events []Event, title string, frameRate float64) string {
	fps := int64(math.Round(frameRate))
	if fps <= 0 {
		fps = 30
	}
	dropFrame := IsDropFrame(frameRate)

	lines := []string{fmt.Sprintf("TITLE: %s", title)}
	if dropFrame {
		lines = append(lines, "FCM: DROP FRAME")
	} else {
		lines = append(lines, "FCM: NON-DROP FRAME")
	}
	lines = append(lines, "")

	for i, ev := range events {
		reel := ev.Reel
		if reel == "" {
			reel = defaultReel
		}
		lines = append(lines,
			fmt.Sprintf("%03d  %-8s %-5s C        %s %s %s %s", i+1, reel, "V",
				Timecode(ev.SourceIn, fps, dropFrame), Timecode(ev.SourceOut, fps, dropFrame),
				Timecode(ev.RecordIn, fps, dropFrame), Timecode(ev.RecordOut, fps, dropFrame)),
			fmt.Sprintf("* FROM CLIP NAME:  %s", ev.ClipName),
			fmt.Sprintf("* MEDIA PATH:  %s", CommentText(ev.MediaPath)),
		)
		if ev.Transition != "" {
			lines = append(lines, fmt.Sprintf("* TRANSITION:  %s", ev.Transition))
		}
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

// WriteFile renders seq into dir/<name>.edl. name falls back to the
// sequence name.
func WriteFile(seq *timeline.Sequence, dir, name string) (string, Response, error) {
	if err := ValidateOutputDir(dir); err != nil {
		return "", Response{}, err
	}
	title := Title(name)
	if title == "" {
		title = Title(seq.Name)
	}
	if title == "" {
		title = defaultTitle
	}

	events, skipped := Events(seq)
	if len(events) == 0 {
		return "", Response{}, ErrNoEvents
	}

	outputPath := filepath.Join(dir, FileName(title)+".edl")
	if err := os.WriteFile(outputPath, []byte(GenerateEDL(events, title, seq.FrameRate)), 0o644); err != nil {
		return "", Response{}, fmt.Errorf("write edl: %w", err)
	}
	if skipped == nil {
		skipped = []string{}
	}
	return outputPath, Response{
		Status:     "ok",
		Format:     "edl",
		OutputPath: outputPath,
		EventCount: len(events),
		Skipped:    skipped,
	}, nil
}

func IsDropFrame(frameRate float64) bool {
	return math.Abs(frameRate-29.97) < 0.01 || math.Abs(frameRate-59.94) < 0.01
}

// Timecode formats a frame count as HH:MM:SS:FF. Drop frame timecode skips
// frame numbers 0 and 1 (0 to 3 at 60fps) at the start of every minute except
// each tenth, and separates frames with a semicolon.
func Timecode(frame, fps int64, dropFrame bool) string {
	if frame < 0 {
		frame = 0
	}
	sep := ":"
	if dropFrame {
		sep = ";"
		drop := fps / 15
		perMinute := fps*60 - drop
		perTenMinutes := fps*600 - drop*9
		tens := frame / perTenMinutes
		rem := frame % perTenMinutes
		frame += drop * 9 * tens
		if rem > drop {
			frame += drop * ((rem - drop) / perMinute)
		}
	}
	frames := frame % fps
	totalSeconds := frame / fps
	seconds := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d%s%02d", hours, minutes, seconds, sep, frames)
}
