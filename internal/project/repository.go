package project

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/splicekit/splice/internal/db"
	"github.com/splicekit/splice/internal/effects"
	"github.com/splicekit/splice/internal/media"
	"github.com/splicekit/splice/internal/timeline"
)

type Repository interface {
	CreateMedia(ctx context.Context, rec *MediaRecord) error
	UpdateFootage(ctx context.Context, rec *MediaRecord) error
	GetMedia(ctx context.Context, id int64) (*MediaRecord, error)
	GetMediaByPath(ctx context.Context, path string) (*MediaRecord, error)
	ListMedia(ctx context.Context) ([]*MediaRecord, error)
	DeleteMedia(ctx context.Context, id int64) error

	GetSequence(ctx context.Context, id string) (*SequenceInfo, error)
	ListSequences(ctx context.Context) ([]*SequenceInfo, error)
	DeleteSequence(ctx context.Context, id string) error
	SaveTimeline(ctx context.Context, seq *timeline.Sequence, heights *timeline.TrackHeights) error
	LoadTimeline(ctx context.Context, id string, lib *media.Library) (*timeline.Sequence, map[int]int, error)
	MaxClipID(ctx context.Context) (timeline.ClipID, error)
	Stats(ctx context.Context) (*Stats, error)

	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) CreateMedia(ctx context.Context, m *MediaRecord) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	return db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO media (kind, parent_id, name, path, duration_ms, size, mtime, sequence_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, m.Kind.String(), nullInt(m.ParentID), m.Name, nullString(m.Path), m.Duration.Milliseconds(),
			m.Size, nullTime(m.Mtime), nullString(m.SequenceID), m.CreatedAt.Format(time.RFC3339))
		if err != nil {
			return err
		}
		if m.ID, err = res.LastInsertId(); err != nil {
			return err
		}
		return insertStreams(ctx, tx, m)
	})
}

func (r *SQLiteRepository) UpdateFootage(ctx context.Context, m *MediaRecord) error {
	return db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE media SET duration_ms = ?, size = ?, mtime = ? WHERE id = ?
		`, m.Duration.Milliseconds(), m.Size, nullTime(m.Mtime), m.ID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM media_streams WHERE media_id = ?", m.ID); err != nil {
			return err
		}
		return insertStreams(ctx, tx, m)
	})
}

func insertStreams(ctx context.Context, tx *sql.Tx, m *MediaRecord) error {
	for _, s := range m.Video {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO media_streams (media_id, stream_index, kind, frame_rate, width, height, is_image)
			VALUES (?, ?, 'video', ?, ?, ?, ?)
		`, m.ID, s.Index, s.FrameRate, s.Width, s.Height, boolToInt(s.IsImage))
		if err != nil {
			return fmt.Errorf("insert video stream %d: %w", s.Index, err)
		}
	}
	for _, s := range m.Audio {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO media_streams (media_id, stream_index, kind, sample_rate, channels, layout)
			VALUES (?, ?, 'audio', ?, ?, ?)
		`, m.ID, s.Index, s.SampleRate, s.Channels, nullString(s.Layout))
		if err != nil {
			return fmt.Errorf("insert audio stream %d: %w", s.Index, err)
		}
	}
	return nil
}

const mediaColumns = `
	SELECT m.id, m.kind, m.parent_id, m.name, m.path, m.duration_ms, m.size, m.mtime, m.sequence_id, m.created_at,
		COALESCE(s.frame_rate, 0), COALESCE(s.width, 0), COALESCE(s.height, 0),
		(SELECT COALESCE(MAX(c.out_frame), 0) FROM clips c WHERE c.sequence_id = m.sequence_id)
	FROM media m LEFT JOIN sequences s ON s.id = m.sequence_id`

func (r *SQLiteRepository) GetMedia(ctx context.Context, id int64) (*MediaRecord, error) {
	return r.getMedia(ctx, mediaColumns+" WHERE m.id = ?", id)
}

func (r *SQLiteRepository) GetMediaByPath(ctx context.Context, path string) (*MediaRecord, error) {
	return r.getMedia(ctx, mediaColumns+" WHERE m.path = ?", path)
}

func (r *SQLiteRepository) getMedia(ctx context.Context, query string, args ...any) (*MediaRecord, error) {
	list, err := r.queryMedia(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r *SQLiteRepository) ListMedia(ctx context.Context) ([]*MediaRecord, error) {
	return r.queryMedia(ctx, mediaColumns+" ORDER BY m.id")
}

func (r *SQLiteRepository) queryMedia(ctx context.Context, query string, args ...any) ([]*MediaRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*MediaRecord
	byID := make(map[int64]*MediaRecord)
	for rows.Next() {
		var m MediaRecord
		var kind, createdAt string
		var parentID sql.NullInt64
		var path, mtime, sequenceID sql.NullString
		var durationMs int64
		if err := rows.Scan(&m.ID, &kind, &parentID, &m.Name, &path, &durationMs, &m.Size, &mtime, &sequenceID, &createdAt,
			&m.seqRate, &m.seqWidth, &m.seqHeight, &m.seqLength); err != nil {
			return nil, err
		}
		if m.Kind, err = media.ParseKind(kind); err != nil {
			return nil, err
		}
		m.ParentID = parentID.Int64
		m.Path = path.String
		m.SequenceID = sequenceID.String
		m.Duration = time.Duration(durationMs) * time.Millisecond
		if mtime.Valid {
			m.Mtime, _ = time.Parse(time.RFC3339, mtime.String)
		}
		m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		list = append(list, &m)
		byID[m.ID] = &m
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list, r.attachStreams(ctx, byID)
}

func (r *SQLiteRepository) attachStreams(ctx context.Context, byID map[int64]*MediaRecord) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT media_id, stream_index, kind, frame_rate, width, height, is_image, sample_rate, channels, layout
		FROM media_streams ORDER BY media_id, stream_index
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var mediaID int64
		var index, width, height, isImage, sampleRate, channels int
		var kind string
		var rate float64
		var layout sql.NullString
		if err := rows.Scan(&mediaID, &index, &kind, &rate, &width, &height, &isImage, &sampleRate, &channels, &layout); err != nil {
			return err
		}
		m := byID[mediaID]
		if m == nil {
			continue
		}
		if kind == "video" {
			m.Video = append(m.Video, media.VideoStream{Index: index, FrameRate: rate, Width: width, Height: height, IsImage: isImage == 1})
		} else {
			m.Audio = append(m.Audio, media.AudioStream{Index: index, SampleRate: sampleRate, Channels: channels, Layout: layout.String})
		}
	}
	return rows.Err()
}

func (r *SQLiteRepository) DeleteMedia(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM media WHERE id = ?", id)
	return err
}

const sequenceColumns = `
	SELECT s.id, s.name, s.width, s.height, s.frame_rate, s.audio_frequency, s.created_at, s.updated_at,
		(SELECT COUNT(*) FROM clips c WHERE c.sequence_id = s.id),
		(SELECT COALESCE(MAX(c.out_frame), 0) FROM clips c WHERE c.sequence_id = s.id)
	FROM sequences s`

func scanSequence(scan func(dest ...any) error) (*SequenceInfo, error) {
	var s SequenceInfo
	var createdAt, updatedAt string
	if err := scan(&s.ID, &s.Name, &s.Width, &s.Height, &s.FrameRate, &s.AudioFrequency, &createdAt, &updatedAt,
		&s.ClipCount, &s.EndFrame); err != nil {
		return nil, err
	}
	s.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	s.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &s, nil
}

func (r *SQLiteRepository) GetSequence(ctx context.Context, id string) (*SequenceInfo, error) {
	row := r.db.QueryRowContext(ctx, sequenceColumns+" WHERE s.id = ?", id)
	s, err := scanSequence(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (r *SQLiteRepository) ListSequences(ctx context.Context) ([]*SequenceInfo, error) {
	rows, err := r.db.QueryContext(ctx, sequenceColumns+" ORDER BY s.updated_at DESC, s.name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*SequenceInfo
	for rows.Next() {
		s, err := scanSequence(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *SQLiteRepository) DeleteSequence(ctx context.Context, id string) error {
	return db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM media WHERE sequence_id = ?", id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, "DELETE FROM sequences WHERE id = ?", id)
		return err
	})
}

// SaveTimeline replaces the stored contents of seq. Clip ids are kept so that
// links and transition partners survive a reload.
func (r *SQLiteRepository) SaveTimeline(ctx context.Context, seq *timeline.Sequence, heights *timeline.TrackHeights) error {
	now := time.Now().Format(time.RFC3339)
	return db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sequences (id, name, width, height, frame_rate, audio_frequency, audio_layout, playhead,
				workarea_in, workarea_out, workarea_using, workarea_enabled, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				width = excluded.width,
				height = excluded.height,
				frame_rate = excluded.frame_rate,
				audio_frequency = excluded.audio_frequency,
				audio_layout = excluded.audio_layout,
				playhead = excluded.playhead,
				workarea_in = excluded.workarea_in,
				workarea_out = excluded.workarea_out,
				workarea_using = excluded.workarea_using,
				workarea_enabled = excluded.workarea_enabled,
				updated_at = excluded.updated_at
		`, seq.ID, seq.Name, seq.Width, seq.Height, seq.FrameRate, seq.AudioFrequency, seq.AudioLayout, seq.Playhead,
			seq.Workarea.In, seq.Workarea.Out, boolToInt(seq.Workarea.Using), boolToInt(seq.Workarea.Enabled), now, now)
		if err != nil {
			return fmt.Errorf("save sequence header: %w", err)
		}

		for _, table := range []string{"clips", "tracks", "markers"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE sequence_id = ?", seq.ID); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}

		clips := seq.Clips()
		for _, c := range clips {
			var mediaID sql.NullInt64
			if c.Media != nil && c.Media.MediaID() > 0 {
				mediaID = sql.NullInt64{Int64: c.Media.MediaID(), Valid: true}
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO clips (id, sequence_id, name, enabled, track, in_frame, out_frame, clip_in, media_id, stream)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, int64(c.ID), seq.ID, c.Name, boolToInt(c.Enabled), c.Track, c.In, c.Out, c.ClipIn, mediaID, c.Stream)
			if err != nil {
				return fmt.Errorf("save clip %d: %w", c.ID, err)
			}
		}
		for _, c := range clips {
			if err := saveClipRelations(ctx, tx, seq, c); err != nil {
				return err
			}
		}

		if err := saveTracks(ctx, tx, seq, heights); err != nil {
			return err
		}
		for _, m := range seq.Markers {
			if _, err := tx.ExecContext(ctx, "INSERT OR REPLACE INTO markers (sequence_id, frame, name) VALUES (?, ?, ?)",
				seq.ID, m.Frame, m.Name); err != nil {
				return fmt.Errorf("save marker %d: %w", m.Frame, err)
			}
		}
		return nil
	})
}

func saveClipRelations(ctx context.Context, tx *sql.Tx, seq *timeline.Sequence, c *timeline.Clip) error {
	for _, l := range c.Links {
		if seq.Clip(l) == nil {
			continue
		}
		if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO clip_links (clip_id, linked_id) VALUES (?, ?)",
			int64(c.ID), int64(l)); err != nil {
			return fmt.Errorf("save link %d-%d: %w", c.ID, l, err)
		}
	}
	for _, side := range []timeline.Side{timeline.Opening, timeline.Closing} {
		t := c.Transition(side)
		if t == nil {
			continue
		}
		var secondary sql.NullInt64
		if t.Shared() {
			secondary = sql.NullInt64{Int64: int64(t.Secondary), Valid: true}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO transitions (clip_id, side, effect_id, length, secondary_id) VALUES (?, ?, ?, ?, ?)
		`, int64(c.ID), side.String(), t.EffectID, t.Length, secondary); err != nil {
			return fmt.Errorf("save %s transition of clip %d: %w", side, c.ID, err)
		}
	}
	for i, e := range c.Effects {
		params, err := json.Marshal(e.Params)
		if err != nil {
			return fmt.Errorf("encode params of effect %s: %w", e.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO clip_effects (clip_id, position, effect_id, name, kind, enabled, params) VALUES (?, ?, ?, ?, ?, ?, ?)
		`, int64(c.ID), i, e.ID, e.Name, e.Kind.String(), boolToInt(e.Enabled), string(params)); err != nil {
			return fmt.Errorf("save effect %s of clip %d: %w", e.ID, c.ID, err)
		}
	}
	return nil
}

func saveTracks(ctx context.Context, tx *sql.Tx, seq *timeline.Sequence, heights *timeline.TrackHeights) error {
	tracks := make(map[int]bool)
	for _, t := range seq.LockedTracks() {
		tracks[t] = true
	}
	for _, t := range seq.DisabledTracks() {
		tracks[t] = true
	}
	height := func(track int) int { return 0 }
	if heights != nil {
		for i := range heights.Video {
			tracks[timeline.VideoTrack(i)] = true
		}
		for i := range heights.Audio {
			tracks[timeline.AudioTrack(i)] = true
		}
		height = func(track int) int {
			list := heights.Audio
			if timeline.IsVideoTrack(track) {
				list = heights.Video
			}
			if n := timeline.TrackNumber(track); n < len(list) {
				return list[n]
			}
			return 0
		}
	}
	for track := range tracks {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO tracks (sequence_id, track, locked, enabled, height) VALUES (?, ?, ?, ?, ?)
		`, seq.ID, track, boolToInt(seq.IsTrackLocked(track)), boolToInt(seq.IsTrackEnabled(track)), height(track))
		if err != nil {
			return fmt.Errorf("save track %s: %w", timeline.TrackName(track), err)
		}
	}
	return nil
}

// LoadTimeline reads a sequence back, resolving media ids against lib. Clips
// whose media is gone are loaded offline with a nil Media. The returned map
// holds the stored track heights.
func (r *SQLiteRepository) LoadTimeline(ctx context.Context, id string, lib *media.Library) (*timeline.Sequence, map[int]int, error) {
	var playhead, waIn, waOut int64
	var waUsing, waEnabled int
	var name, layout string
	var width, height, freq int
	var rate float64
	err := r.db.QueryRowContext(ctx, `
		SELECT name, width, height, frame_rate, audio_frequency, audio_layout, playhead,
			workarea_in, workarea_out, workarea_using, workarea_enabled
		FROM sequences WHERE id = ?
	`, id).Scan(&name, &width, &height, &rate, &freq, &layout, &playhead, &waIn, &waOut, &waUsing, &waEnabled)
	if err == sql.ErrNoRows {
		return nil, nil, fmt.Errorf("sequence %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, nil, err
	}
	seq := timeline.NewSequence(name, width, height, rate, freq)
	seq.ID = id
	seq.AudioLayout = layout
	seq.Playhead = playhead
	seq.Workarea = timeline.Workarea{In: waIn, Out: waOut, Using: waUsing == 1, Enabled: waEnabled == 1}

	if err := r.loadClips(ctx, seq, lib); err != nil {
		return nil, nil, err
	}
	if err := r.loadClipRelations(ctx, seq); err != nil {
		return nil, nil, err
	}

	heights, err := r.loadTracks(ctx, seq)
	if err != nil {
		return nil, nil, err
	}

	rows, err := r.db.QueryContext(ctx, "SELECT frame, name FROM markers WHERE sequence_id = ? ORDER BY frame", id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var m timeline.Marker
		if err := rows.Scan(&m.Frame, &m.Name); err != nil {
			return nil, nil, err
		}
		seq.Markers = append(seq.Markers, m)
	}
	return seq, heights, rows.Err()
}

func (r *SQLiteRepository) loadClips(ctx context.Context, seq *timeline.Sequence, lib *media.Library) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, enabled, track, in_frame, out_frame, clip_in, media_id, stream
		FROM clips WHERE sequence_id = ? ORDER BY id
	`, seq.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c timeline.Clip
		var id int64
		var enabled int
		var mediaID sql.NullInt64
		if err := rows.Scan(&id, &c.Name, &enabled, &c.Track, &c.In, &c.Out, &c.ClipIn, &mediaID, &c.Stream); err != nil {
			return err
		}
		c.ID = timeline.ClipID(id)
		c.Enabled = enabled == 1
		if mediaID.Valid && lib != nil {
			c.Media = lib.Get(mediaID.Int64)
		}
		timeline.ReserveClipID(c.ID)
		seq.AddClip(&c)
	}
	return rows.Err()
}

func (r *SQLiteRepository) loadClipRelations(ctx context.Context, seq *timeline.Sequence) error {
	links, err := r.db.QueryContext(ctx, `
		SELECT l.clip_id, l.linked_id FROM clip_links l JOIN clips c ON c.id = l.clip_id
		WHERE c.sequence_id = ? ORDER BY l.clip_id, l.linked_id
	`, seq.ID)
	if err != nil {
		return err
	}
	defer links.Close()
	for links.Next() {
		var a, b int64
		if err := links.Scan(&a, &b); err != nil {
			return err
		}
		if c := seq.Clip(timeline.ClipID(a)); c != nil && seq.Clip(timeline.ClipID(b)) != nil {
			c.Links = append(c.Links, timeline.ClipID(b))
		}
	}
	if err := links.Err(); err != nil {
		return err
	}

	trans, err := r.db.QueryContext(ctx, `
		SELECT t.clip_id, t.side, t.effect_id, t.length, t.secondary_id FROM transitions t JOIN clips c ON c.id = t.clip_id
		WHERE c.sequence_id = ?
	`, seq.ID)
	if err != nil {
		return err
	}
	defer trans.Close()
	for trans.Next() {
		var clipID int64
		var side string
		var t timeline.Transition
		var secondary sql.NullInt64
		if err := trans.Scan(&clipID, &side, &t.EffectID, &t.Length, &secondary); err != nil {
			return err
		}
		c := seq.Clip(timeline.ClipID(clipID))
		if c == nil {
			continue
		}
		t.Secondary = timeline.ClipID(secondary.Int64)
		if side == "closing" {
			c.SetTransition(timeline.Closing, &t)
		} else {
			c.SetTransition(timeline.Opening, &t)
		}
	}
	if err := trans.Err(); err != nil {
		return err
	}

	effs, err := r.db.QueryContext(ctx, `
		SELECT e.clip_id, e.effect_id, e.name, e.kind, e.enabled, e.params FROM clip_effects e JOIN clips c ON c.id = e.clip_id
		WHERE c.sequence_id = ? ORDER BY e.clip_id, e.position
	`, seq.ID)
	if err != nil {
		return err
	}
	defer effs.Close()
	for effs.Next() {
		var clipID int64
		var e effects.Effect
		var kind string
		var enabled int
		var params sql.NullString
		if err := effs.Scan(&clipID, &e.ID, &e.Name, &kind, &enabled, &params); err != nil {
			return err
		}
		if e.Kind, err = effects.ParseKind(kind); err != nil {
			return fmt.Errorf("clip %d: %w", clipID, err)
		}
		e.Enabled = enabled == 1
		if params.Valid && params.String != "" && params.String != "null" {
			if err := json.Unmarshal([]byte(params.String), &e.Params); err != nil {
				return fmt.Errorf("decode params of effect %s: %w", e.ID, err)
			}
		}
		if c := seq.Clip(timeline.ClipID(clipID)); c != nil {
			c.Effects = append(c.Effects, e)
		}
	}
	return effs.Err()
}

func (r *SQLiteRepository) loadTracks(ctx context.Context, seq *timeline.Sequence) (map[int]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT track, locked, enabled, height FROM tracks WHERE sequence_id = ?", seq.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locked, disabled []int
	heights := make(map[int]int)
	for rows.Next() {
		var track, l, e, h int
		if err := rows.Scan(&track, &l, &e, &h); err != nil {
			return nil, err
		}
		if l == 1 {
			locked = append(locked, track)
		}
		if e == 0 {
			disabled = append(disabled, track)
		}
		if h > 0 {
			heights[track] = h
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	seq.Restore(locked, disabled)
	return heights, nil
}

func (r *SQLiteRepository) MaxClipID(ctx context.Context) (timeline.ClipID, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(id), 0) FROM clips").Scan(&id)
	return timeline.ClipID(id), err
}

func (r *SQLiteRepository) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM media),
			(SELECT COUNT(*) FROM media WHERE kind = 'footage'),
			(SELECT COUNT(*) FROM sequences),
			(SELECT COUNT(*) FROM clips),
			(SELECT COALESCE(SUM(size), 0) FROM media)
	`).Scan(&s.Media, &s.Footage, &s.Sequences, &s.Clips, &s.MediaSize)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SQLiteRepository) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (r *SQLiteRepository) SetConfig(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt(v int64) sql.NullInt64 {
	if v == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: v, Valid: true}
}

func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.RFC3339), Valid: true}
}
