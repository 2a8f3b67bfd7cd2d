package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/splicekit/splice/internal/edit"
	"github.com/splicekit/splice/internal/effects"
	"github.com/splicekit/splice/internal/export"
	"github.com/splicekit/splice/internal/media"
	"github.com/splicekit/splice/internal/playback"
	"github.com/splicekit/splice/internal/project"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(CORSAllowlist())

	r.Get("/health", healthHandler(cfg))

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Repository, cfg.Logger))

		r.Get("/status", statusHandler(cfg))
		r.Get("/effects", listEffectsHandler(cfg))
		r.Get("/clipboard", clipboardHandler(cfg))

		r.Get("/media", listMediaHandler(cfg))
		r.Post("/media/folders", importFolderHandler(cfg))

		r.Route("/sequences", func(r chi.Router) {
			r.Get("/", listSequencesHandler(cfg))
			r.Post("/", createSequenceHandler(cfg))

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", timelineHandler(cfg))
				r.Delete("/", deleteSequenceHandler(cfg))
				r.Post("/save", saveHandler(cfg))
				r.Post("/close", closeHandler(cfg))
				r.Post("/undo", undoHandler(cfg))
				r.Post("/redo", redoHandler(cfg))
				r.Put("/playhead", playheadHandler(cfg))
				r.Get("/snap", snapHandler(cfg))
				r.Post("/selection", selectionHandler(cfg))

				r.Post("/import", importMediaHandler(cfg))
				r.Post("/move", moveHandler(cfg))
				r.Post("/split", splitHandler(cfg))
				r.Post("/delete", deleteHandler(cfg))
				r.Delete("/frames", deleteFramesHandler(cfg))
				r.Post("/ripple", rippleHandler(cfg))
				r.Post("/link", linkHandler(cfg, true))
				r.Post("/unlink", linkHandler(cfg, false))
				r.Put("/tracks", trackHandler(cfg))

				r.Post("/copy", copyHandler(cfg))
				r.Post("/cut", cutHandler(cfg))
				r.Post("/paste", pasteHandler(cfg))
				r.Post("/effects/copy", copyEffectsHandler(cfg))
				r.Post("/effects/paste", pasteEffectsHandler(cfg))

				r.Post("/transitions", addTransitionHandler(cfg))
				r.Patch("/transitions", resizeTransitionHandler(cfg))
				r.Delete("/transitions", removeTransitionHandler(cfg))

				r.Put("/workarea", setWorkareaHandler(cfg))
				r.Delete("/workarea", clearWorkareaHandler(cfg))
				r.Post("/markers", addMarkerHandler(cfg))
				r.Delete("/markers/{index}", removeMarkerHandler(cfg))

				r.Post("/export/edl", exportEDLHandler(cfg))
				r.Get("/frame", frameHandler(cfg))
			})
		})
	})

	// Footage bytes never leave the machine.
	r.Group(func(r chi.Router) {
		r.Use(LoopbackGuard())
		r.Use(AuthMiddleware(cfg.Repository, cfg.Logger))
		r.Get("/media/{id}/file", mediaFileHandler(cfg))
		r.Head("/media/{id}/file", mediaFileHandler(cfg))
	})

	return r
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return false
	}
	return true
}

// writeEditError maps engine errors onto HTTP statuses.
func writeEditError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, edit.ErrNothingToPaste):
		WriteError(w, http.StatusConflict, err.Error(), "NOTHING_TO_PASTE")
	case errors.Is(err, edit.ErrInvalidRange), errors.Is(err, playback.ErrInvalidRange):
		WriteError(w, http.StatusBadRequest, err.Error(), "INVALID_RANGE")
	case errors.Is(err, playback.ErrUnsatisfiable):
		WriteError(w, http.StatusRequestedRangeNotSatisfiable, err.Error(), "RANGE_NOT_SATISFIABLE")
	case errors.Is(err, edit.ErrNoClip):
		WriteError(w, http.StatusNotFound, err.Error(), "CLIP_NOT_FOUND")
	case errors.Is(err, project.ErrNotFound):
		WriteError(w, http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, media.ErrUnknownKind):
		WriteError(w, http.StatusUnprocessableEntity, err.Error(), "UNKNOWN_MEDIA")
	case errors.Is(err, effects.ErrUnknownEffect), errors.Is(err, effects.ErrNotTransition):
		WriteError(w, http.StatusBadRequest, err.Error(), "BAD_EFFECT")
	case errors.Is(err, export.ErrNoEvents):
		WriteError(w, http.StatusUnprocessableEntity, err.Error(), "NOTHING_TO_EXPORT")
	default:
		WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
	}
}

// openSession returns the session named by the {id} URL parameter, loading
// the sequence if needed. It writes the error response itself.
func openSession(cfg ServerConfig, w http.ResponseWriter, r *http.Request) (*project.Session, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "sequence id required", "BAD_REQUEST")
		return nil, false
	}
	s, err := cfg.Manager.Open(r.Context(), id)
	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "sequence not found", "NOT_FOUND")
			return nil, false
		}
		WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
		return nil, false
	}
	return s, true
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:     "ok",
			Version:    Version,
			UptimeS:    uptime,
			InstanceID: cfg.InstanceID,
		})
	}
}

func statusHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := StatusResponse{OpenSequences: []string{}, Autosave: "off", Clipboard: "empty"}

		for _, s := range cfg.Manager.Sessions() {
			resp.OpenSequences = append(resp.OpenSequences, s.ID())
			s.Do(func(s *project.Session) error {
				if s.Dirty() {
					resp.Dirty++
				}
				return nil
			})
		}

		if a := cfg.Autosaver; a != nil && a.IsRunning() {
			resp.Autosave = "running"
			if a.IsPaused() {
				resp.Autosave = "paused"
			}
		}

		if stats, err := cfg.Repository.Stats(r.Context()); err == nil {
			resp.Library = stats
		} else {
			cfg.Logger.Warn("failed to read library stats", "error", err)
		}

		if cfg.Frames != nil {
			st := cfg.Frames.Store().Stats()
			resp.Cache = &CacheResponse{
				Workers:  len(cfg.Frames.IDs()),
				Entries:  st.Entries,
				Bytes:    st.Bytes,
				MaxBytes: st.MaxBytes,
				Hits:     st.Hits,
				Misses:   st.Misses,
			}
		}

		resp.Clipboard = clipboardState(cfg).Kind
		WriteJSON(w, http.StatusOK, resp)
	}
}

func clipboardState(cfg ServerConfig) ClipboardResponse {
	var resp ClipboardResponse
	cfg.Manager.PeekClipboard(func(cb *edit.Clipboard) {
		resp = ClipboardResponse{
			Kind:      cb.Kind.String(),
			Clips:     len(cb.Clips),
			Span:      cb.Span(),
			FrameRate: cb.FrameRate,
			Effects:   len(cb.Effects),
		}
	})
	return resp
}

func clipboardHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := clipboardState(cfg)
		if cfg.Mirror != nil {
			resp.SystemOwned = cfg.Mirror.Owned()
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func listEffectsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		descs := cfg.Manager.Effects().List()
		resp := EffectsResponse{Effects: make([]EffectResponse, len(descs))}
		for i, d := range descs {
			resp.Effects[i] = EffectResponse{ID: d.ID, Name: d.Name, Kind: d.Kind.String(), Transition: d.Transition}
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func listMediaHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := cfg.Repository.ListMedia(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list media", "INTERNAL_ERROR")
			return
		}

		resp := MediaListResponse{Media: make([]MediaResponse, len(records))}
		for i, m := range records {
			resp.Media[i] = MediaToResponse(m)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func importFolderHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ImportFolderRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Path == "" {
			WriteError(w, http.StatusBadRequest, "path is required", "BAD_REQUEST")
			return
		}

		res, err := cfg.Manager.Library().ImportFolder(r.Context(), req.Path, req.ParentID)
		if err != nil {
			if errors.Is(err, project.ErrNotDirectory) {
				WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
				return
			}
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}

		resp := ImportFolderResponse{
			Folder:   MediaToResponse(res.Folder),
			Imported: make([]MediaResponse, len(res.Imported)),
			Failed:   res.Failed,
		}
		for i, m := range res.Imported {
			resp.Imported[i] = MediaToResponse(m)
		}
		if resp.Failed == nil {
			resp.Failed = []string{}
		}
		WriteJSON(w, http.StatusCreated, resp)
	}
}

func mediaFileHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "invalid media id", "BAD_REQUEST")
			return
		}

		rec, err := cfg.Repository.GetMedia(r.Context(), id)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		if rec == nil {
			WriteError(w, http.StatusNotFound, "media not found", "NOT_FOUND")
			return
		}
		if rec.Kind != media.KindFootage || rec.Path == "" {
			WriteError(w, http.StatusBadRequest, "media has no file", "BAD_REQUEST")
			return
		}

		if err := cfg.Files.ServeFile(w, r, rec.Path); err != nil {
			cfg.Logger.Error("footage playback error", "error", err, "media_id", id)
		}
	}
}

func listSequencesHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		infos, err := cfg.Repository.ListSequences(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list sequences", "INTERNAL_ERROR")
			return
		}

		resp := SequencesResponse{Sequences: make([]SequenceResponse, len(infos))}
		for i, info := range infos {
			resp.Sequences[i] = SequenceInfoToResponse(info)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func createSequenceHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateSequenceRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.AudioFrequency == 0 {
			req.AudioFrequency = 48000
		}

		s, err := cfg.Manager.Create(r.Context(), req.Name, req.Width, req.Height, req.FrameRate, req.AudioFrequency)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		var resp TimelineResponse
		s.Do(func(s *project.Session) error {
			resp = TimelineToResponse(s)
			return nil
		})
		WriteJSON(w, http.StatusCreated, resp)
	}
}

func timelineHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := openSession(cfg, w, r)
		if !ok {
			return
		}
		var resp TimelineResponse
		s.Do(func(s *project.Session) error {
			resp = TimelineToResponse(s)
			return nil
		})
		WriteJSON(w, http.StatusOK, resp)
	}
}

func deleteSequenceHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := cfg.Manager.Delete(r.Context(), id); err != nil {
			writeEditError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func saveHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := openSession(cfg, w, r)
		if !ok {
			return
		}
		if err := cfg.Manager.Save(r.Context(), s); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func closeHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		save := r.URL.Query().Get("discard") != "true"
		if err := cfg.Manager.Close(r.Context(), id, save); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func undoHandler(cfg ServerConfig) http.HandlerFunc {
	return historyHandler(cfg, (*project.Session).UndoEdit)
}

func redoHandler(cfg ServerConfig) http.HandlerFunc {
	return historyHandler(cfg, (*project.Session).RedoEdit)
}

func historyHandler(cfg ServerConfig, step func(*project.Session) (string, bool)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := openSession(cfg, w, r)
		if !ok {
			return
		}
		var resp HistoryResponse
		s.Do(func(s *project.Session) error {
			resp.Op, resp.Changed = step(s)
			resp.CanUndo = s.Undo.CanUndo()
			resp.CanRedo = s.Undo.CanRedo()
			return nil
		})
		WriteJSON(w, http.StatusOK, resp)
	}
}
