package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

const (
	// MaxTitleLength is the width of the CMX3600 TITLE field.
	MaxTitleLength = 70
	// MaxReelLength is the width of the reel column on an event line.
	MaxReelLength = 8
	// MaxCommentLength caps the text after a "* FROM CLIP NAME:" marker.
	MaxCommentLength = 128

	defaultReel  = "AX"
	defaultTitle = "splice_export"
)

// Title cleans s for the TITLE line. Event lists are read by tools that only
// know ASCII, so anything else becomes an underscore.
func Title(s string) string {
	return truncate(collapse(s, func(r rune) rune {
		if r > unicode.MaxASCII {
			return '_'
		}
		return r
	}), MaxTitleLength)
}

// CommentText cleans s for a comment line. Line breaks would start a new
// record, so control characters are dropped and whitespace runs collapse to
// a single space.
func CommentText(s string) string {
	return truncate(collapse(s, func(r rune) rune { return r }), MaxCommentLength)
}

// ReelName turns a media label into a reel: the label without its extension,
// upper-cased, with everything but letters, digits and underscores replaced.
// Empty reels fall back to AX, the auxiliary source.
func ReelName(label string) string {
	stem := strings.TrimSuffix(label, filepath.Ext(label))
	reel := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, strings.TrimSpace(stem))
	reel = truncate(reel, MaxReelLength)
	if strings.Trim(reel, "_") == "" {
		return defaultReel
	}
	return reel
}

// FileName derives the .edl base name from a title. Path separators and
// characters reserved on common filesystems are replaced, and leading dots
// are dropped so the list never lands as a hidden file.
func FileName(title string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`/\:*?"<>|`, r) {
			return '_'
		}
		return r
	}, title)
	name = strings.TrimLeft(strings.TrimSpace(name), ".")
	name = strings.TrimRight(name, ". ")
	if name == "" {
		return defaultTitle
	}
	return name
}

func collapse(s string, mapRune func(rune) rune) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			space = b.Len() > 0
			continue
		}
		if unicode.IsControl(r) {
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(mapRune(r))
	}
	return b.String()
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	if runes := []rune(s); len(runes) > maxLen {
		return strings.TrimSpace(string(runes[:maxLen]))
	}
	return s
}

// ValidateOutputDir checks that dir is a clean path to an existing directory.
func ValidateOutputDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("output_dir is required")
	}
	for _, part := range strings.Split(filepath.ToSlash(dir), "/") {
		if part == ".." {
			return fmt.Errorf("output_dir cannot contain path traversal")
		}
	}
	if filepath.Clean(dir) != dir {
		return fmt.Errorf("output_dir must be clean path")
	}

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("output_dir does not exist")
		}
		return fmt.Errorf("invalid output_dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output_dir is not a directory")
	}
	return nil
}
