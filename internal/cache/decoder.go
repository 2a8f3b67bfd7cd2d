package cache

import (
	"bytes"
	"context"
	"fmt"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Decoder renders one source frame to an encoded image.
type Decoder interface {
	DecodeFrame(ctx context.Context, key Key, rate float64) ([]byte, error)
}

// FFmpegDecoder extracts single frames as JPEG through ffmpeg.
type FFmpegDecoder struct {
	Width int
}

func (d *FFmpegDecoder) DecodeFrame(ctx context.Context, key Key, rate float64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if rate <= 0 {
		return nil, fmt.Errorf("invalid frame rate %g", rate)
	}

	stream := ffmpeg.Input(key.Path, ffmpeg.KwArgs{"ss": fmt.Sprintf("%.6f", float64(key.Frame)/rate)})
	args := ffmpeg.KwArgs{
		"vframes": 1,
		"format":  "image2",
		"vcodec":  "mjpeg",
	}
	if d.Width > 0 {
		stream = stream.Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:-2", d.Width)})
	} else {
		args["map"] = fmt.Sprintf("0:%d", key.Stream)
	}

	buf := bytes.NewBuffer(nil)
	err := stream.Output("pipe:", args).WithOutput(buf).Silent(true).Run()
	if err != nil {
		return nil, fmt.Errorf("decode %s frame %d: %w", key.Path, key.Frame, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
