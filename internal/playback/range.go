// Package playback serves source footage to preview clients and parses the
// range syntax shared by byte requests ("bytes=0-99") and timeline frame
// requests ("frames=100-150").
package playback

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidRange  = errors.New("invalid range format")
	ErrUnsatisfiable = errors.New("range not satisfiable")
)

// Range is an inclusive byte range.
type Range struct {
	Start int64
	End   int64
}

func (r Range) ContentLength() int64 {
	return r.End - r.Start + 1
}

func (r Range) ContentRange(total int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, total)
}

// FrameRange is a half open timeline range [In, Out).
type FrameRange struct {
	In  int64
	Out int64
}

func (r FrameRange) Length() int64 { return r.Out - r.In }

func (r FrameRange) String() string {
	return fmt.Sprintf("frames=%d-%d", r.In, r.Out)
}

// span is one parsed "unit=a-b" spec. Missing bounds are -1.
type span struct {
	start, end int64
}

func parseSpan(unit, header string) (span, error) {
	prefix := unit + "="
	if !strings.HasPrefix(header, prefix) {
		return span{}, ErrInvalidRange
	}
	spec := strings.TrimPrefix(header, prefix)

	// Only the first of several ranges is honoured.
	if idx := strings.Index(spec, ","); idx != -1 {
		spec = strings.TrimSpace(spec[:idx])
	}

	parts := strings.Split(spec, "-")
	if len(parts) != 2 {
		return span{}, ErrInvalidRange
	}

	s := span{start: -1, end: -1}
	if parts[0] != "" {
		v, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil || v < 0 {
			return span{}, ErrInvalidRange
		}
		s.start = v
	}
	if parts[1] != "" {
		v, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil || v < 0 {
			return span{}, ErrInvalidRange
		}
		s.end = v
	}
	if s.start < 0 && s.end <= 0 {
		return span{}, ErrInvalidRange
	}
	return s, nil
}

// ParseRange parses an HTTP Range header against a file of size bytes. An
// empty header yields nil.
func ParseRange(header string, size int64) (*Range, error) {
	if header == "" {
		return nil, nil
	}
	s, err := parseSpan("bytes", header)
	if err != nil {
		return nil, err
	}

	var start, end int64
	switch {
	case s.start < 0:
		start = max(size-s.end, 0)
		end = size - 1
	case s.end < 0:
		start, end = s.start, size-1
	default:
		start, end = s.start, s.end
	}

	if start > end || start >= size {
		return nil, ErrUnsatisfiable
	}
	return &Range{Start: start, End: min(end, size-1)}, nil
}

// ParseFrames parses "frames=in-out" against a sequence ending at end. Out
// is exclusive. "frames=in-" runs to the end and "frames=-n" selects the
// last n frames. Ranges reaching past the end are clamped.
func ParseFrames(spec string, end int64) (*FrameRange, error) {
	s, err := parseSpan("frames", spec)
	if err != nil {
		return nil, err
	}

	var r FrameRange
	switch {
	case s.start < 0:
		r = FrameRange{In: max(end-s.end, 0), Out: end}
	case s.end < 0:
		r = FrameRange{In: s.start, Out: end}
	default:
		r = FrameRange{In: s.start, Out: min(s.end, end)}
	}

	if s.start >= 0 && s.end >= 0 && s.start >= s.end {
		return nil, ErrInvalidRange
	}
	if r.In >= r.Out {
		return nil, ErrUnsatisfiable
	}
	return &r, nil
}
