package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/BrandonDHaskell/loungegate/internal/lounge/service"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/types"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/workflow"
)

// ── Reference data ───────────────────────────────────────────────────────────

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, map[string]any{"routes": service.Routes()})
}

func (s *Server) handleProtocols(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, map[string]any{"protocols": service.SecurityProtocols()})
}

// ── Directory ────────────────────────────────────────────────────────────────

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	q := service.MemberQuery{
		Search: r.URL.Query().Get("q"),
		Tier:   r.URL.Query().Get("tier"),
	}
	members, err := s.directory.Search(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, "list_members", err)
		return
	}
	respond(w, r, http.StatusOK, map[string]any{"members": members, "count": len(members)})
}

func (s *Server) handleGetMember(w http.ResponseWriter, r *http.Request) {
	m, err := s.directory.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, r, "get_member", err)
		return
	}
	respond(w, r, http.StatusOK, m)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.directory.Stats(r.Context())
	if err != nil {
		s.writeDomainError(w, r, "stats", err)
		return
	}
	respond(w, r, http.StatusOK, stats)
}

func (s *Server) handleAccessLog(w http.ResponseWriter, r *http.Request) {
	// Malformed limits fall back to the default.
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := s.accessLog.Recent(r.Context(), limit)
	if err != nil {
		s.writeDomainError(w, r, "access_log", err)
		return
	}
	respond(w, r, http.StatusOK, map[string]any{"entries": entries})
}

// ── Enrollment ───────────────────────────────────────────────────────────────

type enrollmentResponse struct {
	ID         string                      `json:"id"`
	Enrollment workflow.EnrollmentSnapshot `json:"enrollment"`
}

type submitResponse struct {
	Member   types.Member `json:"member"`
	Warnings []string     `json:"warnings,omitempty"`
}

func (s *Server) handleOpenEnrollment(w http.ResponseWriter, r *http.Request) {
	id, snap := s.kiosk.OpenEnrollment()
	respond(w, r, http.StatusCreated, enrollmentResponse{ID: id, Enrollment: snap})
}

func (s *Server) handleGetEnrollment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, err := s.kiosk.Enrollment(id)
	if err != nil {
		s.writeDomainError(w, r, "get_enrollment", err)
		return
	}
	respond(w, r, http.StatusOK, enrollmentResponse{ID: id, Enrollment: e.Snapshot()})
}

func (s *Server) handleCloseEnrollment(w http.ResponseWriter, r *http.Request) {
	if err := s.kiosk.CloseEnrollment(chi.URLParam(r, "id")); err != nil {
		s.writeDomainError(w, r, "close_enrollment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReopenEnrollment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, err := s.kiosk.Enrollment(id)
	if err != nil {
		s.writeDomainError(w, r, "open_enrollment", err)
		return
	}
	e.Open()
	respond(w, r, http.StatusOK, enrollmentResponse{ID: id, Enrollment: e.Snapshot()})
}

func (s *Server) handleEnrollmentScan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, err := s.kiosk.Enrollment(id)
	if err != nil {
		s.writeDomainError(w, r, "enrollment_scan", err)
		return
	}
	if err := e.Scan(); err != nil {
		s.writeDomainError(w, r, "enrollment_scan", err)
		return
	}
	respond(w, r, http.StatusAccepted, enrollmentResponse{ID: id, Enrollment: e.Snapshot()})
}

func (s *Server) handleEnrollmentSubmit(w http.ResponseWriter, r *http.Request) {
	e, err := s.kiosk.Enrollment(chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, r, "enrollment_submit", err)
		return
	}

	var form types.EnrollmentForm
	if err := decodeBody(r, &form); err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_json", "invalid request body")
		return
	}

	m, err := e.Submit(r.Context(), form)
	if err != nil {
		s.writeDomainError(w, r, "enrollment_submit", err)
		return
	}
	respond(w, r, http.StatusCreated, submitResponse{Member: m, Warnings: form.Warnings()})
}

// ── Recognition ──────────────────────────────────────────────────────────────

type recognitionResponse struct {
	ID          string                       `json:"id"`
	Recognition workflow.RecognitionSnapshot `json:"recognition"`
}

func (s *Server) handleStartRecognition(w http.ResponseWriter, r *http.Request) {
	id, snap := s.kiosk.StartRecognition(r.Context())
	respond(w, r, http.StatusCreated, recognitionResponse{ID: id, Recognition: snap})
}

func (s *Server) handleGetRecognition(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := s.kiosk.Recognition(id)
	if err != nil {
		s.writeDomainError(w, r, "get_recognition", err)
		return
	}
	respond(w, r, http.StatusOK, recognitionResponse{ID: id, Recognition: rec.Snapshot()})
}

func (s *Server) handleEndRecognition(w http.ResponseWriter, r *http.Request) {
	if err := s.kiosk.EndRecognition(chi.URLParam(r, "id")); err != nil {
		s.writeDomainError(w, r, "end_recognition", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleActivateCamera(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := s.kiosk.Recognition(id)
	if err != nil {
		s.writeDomainError(w, r, "activate_camera", err)
		return
	}
	if err := rec.Activate(r.Context()); err != nil {
		s.writeDomainError(w, r, "activate_camera", err)
		return
	}
	respond(w, r, http.StatusOK, recognitionResponse{ID: id, Recognition: rec.Snapshot()})
}

func (s *Server) handleStopCamera(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := s.kiosk.Recognition(id)
	if err != nil {
		s.writeDomainError(w, r, "stop_camera", err)
		return
	}
	rec.Stop()
	respond(w, r, http.StatusOK, recognitionResponse{ID: id, Recognition: rec.Snapshot()})
}

func (s *Server) handleRecognitionScan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := s.kiosk.Recognition(id)
	if err != nil {
		s.writeDomainError(w, r, "recognition_scan", err)
		return
	}
	if err := rec.Scan(); err != nil {
		s.writeDomainError(w, r, "recognition_scan", err)
		return
	}
	respond(w, r, http.StatusAccepted, recognitionResponse{ID: id, Recognition: rec.Snapshot()})
}
