package media

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Prober reads stream layout and duration of a file on disk.
type Prober interface {
	Probe(ctx context.Context, path string) (*Footage, error)
}

type FFProbe struct {
	logger *slog.Logger
}

func NewFFProbe(logger *slog.Logger) *FFProbe {
	return &FFProbe{logger: logger}
}

func (p *FFProbe) Probe(ctx context.Context, path string) (*Footage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := ffmpeg.Probe(path)
	if err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	f, err := ParseProbe([]byte(out))
	if err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	f.Path = path
	f.Label = filepath.Base(path)

	if p.logger != nil {
		p.logger.Debug("probed footage", "path", path, "duration", f.Duration,
			"video_streams", len(f.Video), "audio_streams", len(f.Audio))
	}
	return f, nil
}

type probeOutput struct {
	Streams []struct {
		Index         int    `json:"index"`
		CodecType     string `json:"codec_type"`
		CodecName     string `json:"codec_name"`
		Width         int    `json:"width"`
		Height        int    `json:"height"`
		RFrameRate    string `json:"r_frame_rate"`
		AvgFrameRate  string `json:"avg_frame_rate"`
		SampleRate    string `json:"sample_rate"`
		Channels      int    `json:"channels"`
		ChannelLayout string `json:"channel_layout"`
		Duration      string `json:"duration"`
		NbFrames      string `json:"nb_frames"`
	} `json:"streams"`
	Format struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
	} `json:"format"`
}

var imageCodecs = map[string]bool{
	"png":   true,
	"mjpeg": true,
	"bmp":   true,
	"tiff":  true,
	"webp":  true,
	"gif":   false,
}

// ParseProbe converts ffprobe JSON (-show_format -show_streams) into Footage.
func ParseProbe(data []byte) (*Footage, error) {
	var po probeOutput
	if err := json.Unmarshal(data, &po); err != nil {
		return nil, fmt.Errorf("decode probe output: %w", err)
	}

	f := &Footage{}
	still := strings.Contains(po.Format.FormatName, "image2") || strings.HasSuffix(po.Format.FormatName, "_pipe")

	var longest float64
	for _, s := range po.Streams {
		switch s.CodecType {
		case "video":
			rate := parseRate(s.AvgFrameRate)
			if rate <= 0 {
				rate = parseRate(s.RFrameRate)
			}
			f.Video = append(f.Video, VideoStream{
				Index:     s.Index,
				FrameRate: rate,
				Width:     s.Width,
				Height:    s.Height,
				IsImage:   still || (imageCodecs[s.CodecName] && (s.NbFrames == "" || s.NbFrames == "1")),
			})
		case "audio":
			sr, _ := strconv.Atoi(s.SampleRate)
			f.Audio = append(f.Audio, AudioStream{
				Index:      s.Index,
				SampleRate: sr,
				Channels:   s.Channels,
				Layout:     s.ChannelLayout,
			})
		default:
			continue
		}
		if d, err := strconv.ParseFloat(strings.TrimSpace(s.Duration), 64); err == nil && d > longest {
			longest = d
		}
	}

	if d, err := strconv.ParseFloat(strings.TrimSpace(po.Format.Duration), 64); err == nil && d > 0 {
		longest = d
	}

	if len(f.Video) == 0 && len(f.Audio) == 0 {
		return nil, fmt.Errorf("no audio or video streams")
	}

	f.Duration = time.Duration(longest * float64(time.Second))
	return f, nil
}

func parseRate(s string) float64 {
	if s == "" || s == "0/0" {
		return 0
	}
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0
		}
		return n / d
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
