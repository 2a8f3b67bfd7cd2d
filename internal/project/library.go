package project

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/splicekit/splice/internal/media"
)

// Library imports footage into the media library and builds the in-memory
// index sessions resolve clip media against.
type Library struct {
	repo   Repository
	prober media.Prober
	logger *slog.Logger
}

func NewLibrary(repo Repository, prober media.Prober, logger *slog.Logger) *Library {
	return &Library{repo: repo, prober: prober, logger: logger}
}

// ImportResult reports what an import added.
type ImportResult struct {
	Folder   *MediaRecord   `json:"folder"`
	Imported []*MediaRecord `json:"imported"`
	Failed   []string       `json:"failed,omitempty"`
}

// ImportFolder adds path as a library folder and imports every media file
// below it. Subdirectories become child folders; hidden ones are skipped.
// Importing a folder twice returns the existing record and picks up new files.
func (l *Library) ImportFolder(ctx context.Context, path string, parentID int64) (*ImportResult, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, absPath)
	}

	folder, err := l.repo.GetMediaByPath(ctx, absPath)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		folder = &MediaRecord{
			Kind:     media.KindFolder,
			ParentID: parentID,
			Name:     filepath.Base(absPath),
			Path:     absPath,
		}
		if err := l.repo.CreateMedia(ctx, folder); err != nil {
			return nil, fmt.Errorf("create folder %s: %w", absPath, err)
		}
		if l.logger != nil {
			l.logger.Info("folder added", "media_id", folder.ID, "path", absPath)
		}
	}

	entries, err := os.ReadDir(absPath)
	if err != nil {
		return nil, fmt.Errorf("read folder: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	result := &ImportResult{Folder: folder}
	for _, e := range entries {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		p := filepath.Join(absPath, e.Name())
		if e.IsDir() {
			sub, err := l.ImportFolder(ctx, p, folder.ID)
			if err != nil {
				result.Failed = append(result.Failed, p)
				continue
			}
			result.Imported = append(result.Imported, sub.Imported...)
			result.Failed = append(result.Failed, sub.Failed...)
			continue
		}
		if !IsMediaFile(e.Name()) {
			continue
		}
		rec, created, err := l.importFile(ctx, p, folder.ID)
		if err != nil {
			if l.logger != nil {
				l.logger.Warn("failed to import file", "path", p, "error", err)
			}
			result.Failed = append(result.Failed, p)
			continue
		}
		if created {
			result.Imported = append(result.Imported, rec)
		}
	}

	if l.logger != nil {
		l.logger.Info("folder imported", "path", absPath, "imported", len(result.Imported), "failed", len(result.Failed))
	}
	return result, nil
}

// ImportFile adds a single file to the library root or to parentID.
func (l *Library) ImportFile(ctx context.Context, path string, parentID int64) (*MediaRecord, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	rec, _, err := l.importFile(ctx, absPath, parentID)
	return rec, err
}

func (l *Library) importFile(ctx context.Context, path string, parentID int64) (*MediaRecord, bool, error) {
	existing, err := l.repo.GetMediaByPath(ctx, path)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	rec, err := l.probe(ctx, path)
	if err != nil {
		return nil, false, err
	}
	rec.ParentID = parentID
	if err := l.repo.CreateMedia(ctx, rec); err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

func (l *Library) probe(ctx context.Context, path string) (*MediaRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if l.prober == nil {
		return nil, fmt.Errorf("no prober configured")
	}
	f, err := l.prober.Probe(ctx, path)
	if err != nil {
		return nil, err
	}
	return &MediaRecord{
		Kind:     media.KindFootage,
		Name:     filepath.Base(path),
		Path:     path,
		Duration: f.Duration,
		Size:     info.Size(),
		Mtime:    info.ModTime().Truncate(time.Second),
		Video:    f.Video,
		Audio:    f.Audio,
	}, nil
}

// Rescan probes the footage stored at path again when its size or
// modification time changed. It reports whether the record was updated.
func (l *Library) Rescan(ctx context.Context, path string) (*MediaRecord, bool, error) {
	rec, err := l.repo.GetMediaByPath(ctx, path)
	if err != nil {
		return nil, false, err
	}
	if rec == nil || rec.Kind != media.KindFootage {
		return rec, false, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return rec, false, err
	}
	if info.Size() == rec.Size && info.ModTime().Truncate(time.Second).Equal(rec.Mtime) {
		return rec, false, nil
	}

	fresh, err := l.probe(ctx, path)
	if err != nil {
		return rec, false, err
	}
	fresh.ID = rec.ID
	fresh.ParentID = rec.ParentID
	fresh.CreatedAt = rec.CreatedAt
	if err := l.repo.UpdateFootage(ctx, fresh); err != nil {
		return rec, false, err
	}
	if l.logger != nil {
		l.logger.Info("footage changed on disk", "media_id", rec.ID, "path", path)
	}
	return fresh, true, nil
}

// AddSequence registers seqID as a nested sequence item.
func (l *Library) AddSequence(ctx context.Context, seqID, name string, parentID int64) (*MediaRecord, error) {
	rec := &MediaRecord{
		Kind:       media.KindSequence,
		ParentID:   parentID,
		Name:       name,
		SequenceID: seqID,
	}
	if err := l.repo.CreateMedia(ctx, rec); err != nil {
		return nil, err
	}
	return l.repo.GetMedia(ctx, rec.ID)
}

// Index loads the whole library.
func (l *Library) Index(ctx context.Context) (*media.Library, error) {
	records, err := l.repo.ListMedia(ctx)
	if err != nil {
		return nil, err
	}
	return BuildLibrary(records), nil
}

// FootagePaths returns the paths of all footage on disk.
func (l *Library) FootagePaths(ctx context.Context) ([]string, error) {
	records, err := l.repo.ListMedia(ctx)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, r := range records {
		if r.Kind == media.KindFootage && r.Path != "" {
			paths = append(paths, r.Path)
		}
	}
	return paths, nil
}
