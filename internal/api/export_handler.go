package api

import (
	"net/http"

	"github.com/splicekit/splice/internal/export"
	"github.com/splicekit/splice/internal/project"
)

func exportEDLHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req export.Request
		if r.ContentLength != 0 && !decodeBody(w, r, &req) {
			return
		}
		if req.OutputDir == "" {
			req.OutputDir = cfg.ExportDir
		}
		if err := export.ValidateOutputDir(req.OutputDir); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		s, ok := openSession(cfg, w, r)
		if !ok {
			return
		}

		var resp export.Response
		err := s.Do(func(s *project.Session) error {
			var err error
			_, resp, err = export.WriteFile(s.Sequence, req.OutputDir, req.Name)
			return err
		})
		if err != nil {
			writeEditError(w, err)
			return
		}

		cfg.Logger.Info("sequence exported", "sequence_id", s.ID(), "events", resp.EventCount, "skipped", len(resp.Skipped))
		WriteJSON(w, http.StatusOK, resp)
	}
}
