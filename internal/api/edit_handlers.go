package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/splicekit/splice/internal/edit"
	"github.com/splicekit/splice/internal/effects"
	"github.com/splicekit/splice/internal/media"
	"github.com/splicekit/splice/internal/playback"
	"github.com/splicekit/splice/internal/project"
	"github.com/splicekit/splice/internal/timeline"
)

// editFunc performs one edit on a locked session and records the outcome in
// resp.
type editFunc[T any] func(s *project.Session, req *T, resp *EditResponse) error

// editHandler decodes an optional JSON body, runs fn inside the session lock
// and answers with the edit outcome.
func editHandler[T any](cfg ServerConfig, op string, fn editFunc[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req T
		if r.ContentLength != 0 && !decodeBody(w, r, &req) {
			return
		}
		s, ok := openSession(cfg, w, r)
		if !ok {
			return
		}

		resp := EditResponse{Op: op}
		err := s.Do(func(s *project.Session) error {
			if err := fn(s, &req, &resp); err != nil {
				return err
			}
			resp.Playhead = s.Sequence.Playhead
			resp.EndFrame = s.Sequence.EndFrame()
			return nil
		})
		if err != nil {
			writeEditError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

// clipboardEditHandler is editHandler for edits that use the shared
// clipboard. With publish set the clipboard is mirrored to the OS afterwards.
func clipboardEditHandler[T any](cfg ServerConfig, op string, publish bool, fn editFunc[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req T
		if r.ContentLength != 0 && !decodeBody(w, r, &req) {
			return
		}
		s, ok := openSession(cfg, w, r)
		if !ok {
			return
		}

		resp := EditResponse{Op: op}
		err := cfg.Manager.WithClipboard(s, func(s *project.Session, cb *edit.Clipboard) error {
			if err := fn(s, &req, &resp); err != nil {
				return err
			}
			resp.Playhead = s.Sequence.Playhead
			resp.EndFrame = s.Sequence.EndFrame()
			if publish && cfg.Mirror != nil {
				if err := cfg.Mirror.Publish(cb); err != nil {
					cfg.Logger.Warn("failed to mirror clipboard", "error", err)
				}
			}
			return nil
		})
		if err != nil {
			writeEditError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

// targetSelections resolves the selections an edit applies to: explicit
// ranges, the ranges of the listed clips, or the session selection.
func targetSelections(s *project.Session, sels []timeline.Selection, ids []timeline.ClipID, withLinked bool) []timeline.Selection {
	switch {
	case len(sels) > 0:
		return timeline.CleanUpSelections(sels)
	case len(ids) > 0:
		return edit.SelectClips(s.Sequence, ids, withLinked)
	}
	return s.Selections
}

func parseSide(side string) (timeline.Side, error) {
	switch side {
	case "", "opening":
		return timeline.Opening, nil
	case "closing":
		return timeline.Closing, nil
	}
	return timeline.Opening, fmt.Errorf("%w: side %q", edit.ErrInvalidRange, side)
}

func queryInt(r *http.Request, name string, def int64) (int64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", edit.ErrInvalidRange, name, v)
	}
	return n, nil
}

func playheadHandler(cfg ServerConfig) http.HandlerFunc {
	return editHandler(cfg, "seek", func(s *project.Session, req *PlayheadRequest, resp *EditResponse) error {
		if req.Frame < 0 {
			return fmt.Errorf("%w: negative frame", edit.ErrInvalidRange)
		}
		resp.Changed = s.Sequence.Playhead != req.Frame
		s.Edit.Seek(req.Frame)
		if resp.Changed {
			s.MarkChanged()
		}
		return nil
	})
}

func snapHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		frame, err := queryInt(r, "frame", 0)
		if err != nil {
			writeEditError(w, err)
			return
		}
		zoom := 1.0
		if z := r.URL.Query().Get("zoom"); z != "" {
			if zoom, err = strconv.ParseFloat(z, 64); err != nil || zoom <= 0 {
				WriteError(w, http.StatusBadRequest, "invalid zoom", "BAD_REQUEST")
				return
			}
		}
		playing := r.URL.Query().Get("playing") == "true"

		s, ok := openSession(cfg, w, r)
		if !ok {
			return
		}
		var resp SnapResponse
		s.Do(func(s *project.Session) error {
			p, snapped := edit.SnapFrame(s.Edit, frame, zoom, playing, nil)
			resp = SnapResponse{Frame: frame, Snapped: snapped, Kind: edit.SnapNone.String()}
			if snapped {
				resp.Frame, resp.Kind, resp.Clip = p.Frame, p.Kind.String(), p.Clip
			}
			return nil
		})
		WriteJSON(w, http.StatusOK, resp)
	}
}

func selectionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SelectionRequest
		if !decodeBody(w, r, &req) {
			return
		}
		s, ok := openSession(cfg, w, r)
		if !ok {
			return
		}

		var resp SelectionResponse
		s.Do(func(s *project.Session) error {
			switch {
			case req.All:
				s.Selections = edit.SelectAll(s.Sequence)
			case len(req.ClipIDs) > 0:
				s.Selections = edit.SelectClips(s.Sequence, req.ClipIDs, req.WithLinked)
			default:
				s.Selections = timeline.CleanUpSelections(req.Selections)
			}
			resp.Selections = s.Selections
			resp.Clips = edit.SelectedClips(s.Sequence, s.Selections, true)
			return nil
		})
		if resp.Selections == nil {
			resp.Selections = []timeline.Selection{}
		}
		if resp.Clips == nil {
			resp.Clips = []timeline.ClipID{}
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func importMediaHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ImportMediaRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if len(req.MediaIDs) == 0 {
			WriteError(w, http.StatusBadRequest, "media_ids must not be empty", "BAD_REQUEST")
			return
		}
		if req.Frame < 0 {
			writeEditError(w, fmt.Errorf("%w: negative frame", edit.ErrInvalidRange))
			return
		}

		lib, err := cfg.Manager.Library().Index(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		items := make([]media.Item, 0, len(req.MediaIDs))
		for _, id := range req.MediaIDs {
			item := lib.Get(id)
			if item == nil {
				WriteError(w, http.StatusNotFound, fmt.Sprintf("media %d not found", id), "NOT_FOUND")
				return
			}
			items = append(items, item)
		}

		s, ok := openSession(cfg, w, r)
		if !ok {
			return
		}
		resp := EditResponse{Op: "import"}
		err = s.Do(func(s *project.Session) error {
			ghosts, err := edit.GhostsFromMedia(s.Edit, items, req.Frame)
			if err != nil {
				return err
			}
			rate := s.Sequence.FrameRate
			if req.TrimIn != 0 {
				edit.TrimGhosts(ghosts, true, req.TrimIn, rate)
			}
			if req.TrimOut != 0 {
				edit.TrimGhosts(ghosts, false, -req.TrimOut, rate)
			}
			if req.Tracks != 0 {
				edit.MoveGhosts(ghosts, 0, req.Tracks)
			}
			s.Ghosts = nil

			ids, err := edit.CommitImport(s.Edit, ghosts, req.Insert)
			if err != nil {
				return err
			}
			resp.Changed = len(ids) > 0
			resp.Clips = ids
			resp.Playhead = s.Sequence.Playhead
			resp.EndFrame = s.Sequence.EndFrame()
			return nil
		})
		if err != nil {
			writeEditError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func moveHandler(cfg ServerConfig) http.HandlerFunc {
	return editHandler(cfg, "move", func(s *project.Session, req *MoveRequest, resp *EditResponse) error {
		ids := edit.WithLinked(s.Sequence, req.ClipIDs)
		ghosts := edit.GhostsFromClips(s.Sequence, ids)
		if len(ghosts) == 0 {
			return fmt.Errorf("move: %w", edit.ErrNoClip)
		}
		edit.MoveGhosts(ghosts, req.Frames, req.Tracks)
		changed, err := edit.CommitMove(s.Edit, ghosts)
		resp.Changed = changed
		resp.Clips = ids
		return err
	})
}

func splitHandler(cfg ServerConfig) http.HandlerFunc {
	return editHandler(cfg, "split", func(s *project.Session, req *SplitRequest, resp *EditResponse) error {
		var err error
		switch {
		case req.All:
			frame := s.Sequence.Playhead
			if req.Frame != nil {
				frame = *req.Frame
			}
			resp.Clips, err = edit.SplitAll(s.Edit, frame)
			resp.Changed = len(resp.Clips) > 0
		case len(req.ClipIDs) == 0:
			resp.Changed, err = edit.SplitAtSelections(s.Edit, s.Selections)
		case req.Frame == nil:
			resp.Changed, err = edit.SplitAtPlayhead(s.Edit, req.ClipIDs)
		default:
			resp.Changed, err = edit.SplitClips(s.Edit, req.ClipIDs, *req.Frame)
		}
		return err
	})
}

func deleteHandler(cfg ServerConfig) http.HandlerFunc {
	return editHandler(cfg, "delete", func(s *project.Session, req *DeleteRequest, resp *EditResponse) error {
		var err error
		switch {
		case len(req.ClipIDs) > 0:
			resp.Changed, err = edit.DeleteClips(s.Edit, req.ClipIDs, req.Ripple)
		case len(req.Selections) > 0:
			resp.Changed, err = edit.DeleteSelection(s.Edit, timeline.CleanUpSelections(req.Selections), req.Ripple)
		default:
			resp.Changed, err = edit.DeleteSelection(s.Edit, s.Selections, req.Ripple)
			if resp.Changed {
				s.Selections = nil
			}
		}
		return err
	})
}

// deleteFramesHandler removes a frame range on every unlocked track. The
// range comes from a "Range: frames=in-out" header or a range query value.
func deleteFramesHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rng := r.Header.Get("Range")
		if rng == "" {
			rng = r.URL.Query().Get("range")
		}
		if rng == "" {
			WriteError(w, http.StatusBadRequest, "frame range required", "INVALID_RANGE")
			return
		}
		ripple := r.URL.Query().Get("ripple") == "true"

		s, ok := openSession(cfg, w, r)
		if !ok {
			return
		}
		resp := EditResponse{Op: "delete"}
		err := s.Do(func(s *project.Session) error {
			fr, err := playback.ParseFrames(rng, s.Sequence.EndFrame())
			if err != nil {
				return err
			}
			resp.Changed, err = edit.DeleteRange(s.Edit, fr.In, fr.Out, ripple)
			resp.Playhead = s.Sequence.Playhead
			resp.EndFrame = s.Sequence.EndFrame()
			return err
		})
		if err != nil {
			writeEditError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func rippleHandler(cfg ServerConfig) http.HandlerFunc {
	return editHandler(cfg, "ripple", func(s *project.Session, req *RippleRequest, resp *EditResponse) error {
		var err error
		resp.Changed, err = edit.RippleEdit(s.Edit, req.Point, req.Length)
		return err
	})
}

func linkHandler(cfg ServerConfig, link bool) http.HandlerFunc {
	op, fn := "link", edit.Link
	if !link {
		op, fn = "unlink", edit.Unlink
	}
	return editHandler(cfg, op, func(s *project.Session, req *ClipIDsRequest, resp *EditResponse) error {
		var err error
		resp.Changed, err = fn(s.Edit, req.ClipIDs)
		resp.Clips = req.ClipIDs
		return err
	})
}

func trackHandler(cfg ServerConfig) http.HandlerFunc {
	return editHandler(cfg, "track state", func(s *project.Session, req *TrackRequest, resp *EditResponse) error {
		locked := s.Sequence.IsTrackLocked(req.Track)
		enabled := s.Sequence.IsTrackEnabled(req.Track)
		if req.Locked != nil {
			locked = *req.Locked
		}
		if req.Enabled != nil {
			enabled = *req.Enabled
		}
		changed, err := edit.SetTrack(s.Edit, req.Track, locked, enabled)
		if err != nil {
			return err
		}
		if req.Height != nil && *req.Height != s.Heights.CalculateTrackHeight(req.Track) {
			s.Heights.SetTrackHeight(req.Track, *req.Height)
			s.MarkChanged()
			changed = true
		}
		resp.Changed = changed
		return nil
	})
}

func copyHandler(cfg ServerConfig) http.HandlerFunc {
	return clipboardEditHandler(cfg, "copy", true, func(s *project.Session, req *SelectionRequest, resp *EditResponse) error {
		var err error
		resp.Changed, err = edit.Copy(s.Edit, targetSelections(s, req.Selections, req.ClipIDs, req.WithLinked))
		return err
	})
}

func cutHandler(cfg ServerConfig) http.HandlerFunc {
	return clipboardEditHandler(cfg, "cut", true, func(s *project.Session, req *CutRequest, resp *EditResponse) error {
		var err error
		resp.Changed, err = edit.Cut(s.Edit, targetSelections(s, req.Selections, nil, false), req.Ripple)
		return err
	})
}

func pasteHandler(cfg ServerConfig) http.HandlerFunc {
	return clipboardEditHandler(cfg, "paste", false, func(s *project.Session, req *PasteRequest, resp *EditResponse) error {
		var err error
		resp.Changed, err = edit.Paste(s.Edit, req.Insert)
		return err
	})
}

func copyEffectsHandler(cfg ServerConfig) http.HandlerFunc {
	return clipboardEditHandler(cfg, "copy effects", true, func(s *project.Session, req *CopyEffectsRequest, resp *EditResponse) error {
		var err error
		resp.Changed, err = edit.CopyEffects(s.Edit, req.ClipID)
		return err
	})
}

func pasteEffectsHandler(cfg ServerConfig) http.HandlerFunc {
	return clipboardEditHandler(cfg, "paste effects", false, func(s *project.Session, req *PasteEffectsRequest, resp *EditResponse) error {
		var action edit.ConflictAction
		switch req.Conflict {
		case "", "add":
			action = edit.AddAlongside
		case "replace":
			action = edit.Replace
		case "skip":
			action = edit.Skip
		default:
			return fmt.Errorf("%w: conflict %q", edit.ErrInvalidRange, req.Conflict)
		}
		resolve := func(*timeline.Clip, effects.Effect, effects.Effect) edit.Resolution {
			return edit.Resolution{Action: action, ApplyToAll: true}
		}
		var err error
		resp.Changed, err = edit.PasteEffects(s.Edit, req.ClipIDs, resolve)
		resp.Clips = req.ClipIDs
		return err
	})
}

func addTransitionHandler(cfg ServerConfig) http.HandlerFunc {
	return editHandler(cfg, "add transition", func(s *project.Session, req *TransitionRequest, resp *EditResponse) error {
		side, err := parseSide(req.Side)
		if err != nil {
			return err
		}
		resp.Changed, err = edit.CreateTransition(s.Edit, req.ClipID, side, req.EffectID, req.Length, req.Shared)
		return err
	})
}

func resizeTransitionHandler(cfg ServerConfig) http.HandlerFunc {
	return editHandler(cfg, "resize transition", func(s *project.Session, req *TransitionRequest, resp *EditResponse) error {
		side, err := parseSide(req.Side)
		if err != nil {
			return err
		}
		resp.Changed, err = edit.ResizeTransition(s.Edit, req.ClipID, side, req.Length)
		return err
	})
}

func removeTransitionHandler(cfg ServerConfig) http.HandlerFunc {
	return editHandler(cfg, "remove transition", func(s *project.Session, req *TransitionRequest, resp *EditResponse) error {
		side, err := parseSide(req.Side)
		if err != nil {
			return err
		}
		resp.Changed, err = edit.RemoveTransition(s.Edit, req.ClipID, side)
		return err
	})
}

func setWorkareaHandler(cfg ServerConfig) http.HandlerFunc {
	return editHandler(cfg, "set workarea", func(s *project.Session, req *WorkareaRequest, resp *EditResponse) error {
		var err error
		resp.Changed, err = edit.SetWorkareaRange(s.Edit, req.In, req.Out)
		return err
	})
}

func clearWorkareaHandler(cfg ServerConfig) http.HandlerFunc {
	return editHandler(cfg, "clear workarea", func(s *project.Session, _ *struct{}, resp *EditResponse) error {
		var err error
		resp.Changed, err = edit.ClearWorkarea(s.Edit)
		return err
	})
}

func addMarkerHandler(cfg ServerConfig) http.HandlerFunc {
	return editHandler(cfg, "add marker", func(s *project.Session, req *MarkerRequest, resp *EditResponse) error {
		var err error
		resp.Changed, err = edit.PlaceMarker(s.Edit, req.Frame, req.Name)
		return err
	})
}

func removeMarkerHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			WriteError(w, http.StatusBadRequest, "invalid marker index", "BAD_REQUEST")
			return
		}
		editHandler(cfg, "remove marker", func(s *project.Session, _ *struct{}, resp *EditResponse) error {
			var err error
			resp.Changed, err = edit.RemoveMarker(s.Edit, index)
			return err
		}).ServeHTTP(w, r)
	}
}

func frameHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.Frames == nil {
			WriteError(w, http.StatusServiceUnavailable, "frame cache is disabled", "CACHE_DISABLED")
			return
		}
		s, ok := openSession(cfg, w, r)
		if !ok {
			return
		}

		var (
			frame int64
			data  []byte
			found bool
			err   error
		)
		s.Do(func(s *project.Session) error {
			if frame, err = queryInt(r, "at", s.Sequence.Playhead); err != nil {
				return nil
			}
			worker, ok := cfg.Frames.Get(s.ID())
			if !ok {
				return nil
			}
			if data, found = worker.Frame(frame); !found {
				worker.Seek(frame)
			}
			return nil
		})
		if err != nil {
			writeEditError(w, err)
			return
		}
		if !found {
			WriteError(w, http.StatusAccepted, "frame is being decoded", "FRAME_PENDING")
			return
		}
		playback.ServeFrame(w, r, frame, data)
	}
}
