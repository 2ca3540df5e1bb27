package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/gestordocs/docanalyzer/internal/common"
	"github.com/gestordocs/docanalyzer/internal/entity"
	"github.com/gestordocs/docanalyzer/internal/export"
	"github.com/gestordocs/docanalyzer/internal/repository"
)

type handlers struct {
	svc       *Service
	export    *export.Service
	maxUpload int64
	health    func() error
	log       *slog.Logger
}

type documentResponse struct {
	Document *entity.Document `json:"document"`
	Events   []entity.Event   `json:"events,omitempty"`
}

func (h *handlers) healthz(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(); err != nil {
			h.writeError(w, http.StatusServiceUnavailable, err)
			return
		}
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if h.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	}
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		h.writeError(w, http.StatusBadRequest, common.WrapError(err, "parse multipart form"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, common.WrapError(err, "missing file field"))
		return
	}
	defer file.Close()

	ctx := common.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
	doc, err := h.svc.ProcessUpload(ctx, header.Filename,
		header.Header.Get("Content-Type"), file)
	if err != nil {
		if errors.Is(err, common.ErrInvalidInput) {
			h.writeError(w, http.StatusUnsupportedMediaType, err)
			return
		}
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, documentResponse{Document: doc})
}

func (h *handlers) getDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, common.WrapError(err, "invalid document id"))
		return
	}
	doc, evs, err := h.svc.DocumentWithEvents(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, err)
			return
		}
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, documentResponse{Document: doc, Events: evs})
}

func (h *handlers) listDocuments(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	docs, err := h.svc.repo.ListDocuments(r.Context(), f)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if docs == nil {
		docs = []entity.Document{}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (h *handlers) exportXLSX(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	b, err := h.export.ExportDocumentsXLSX(r.Context(), f)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="documents.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func filterFromQuery(r *http.Request) (repository.ListFilter, error) {
	var f repository.ListFilter
	q := r.URL.Query()

	f.Classification = q.Get("classification")
	if v := q.Get("date_from"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return f, common.NewAppError("BAD_QUERY", "date_from must be YYYY-MM-DD", common.ErrInvalidInput)
		}
		f.DateFrom = t
	}
	if v := q.Get("date_to"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return f, common.NewAppError("BAD_QUERY", "date_to must be YYYY-MM-DD", common.ErrInvalidInput)
		}
		f.DateTo = t
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, common.NewAppError("BAD_QUERY", "limit must be a non-negative integer", common.ErrInvalidInput)
		}
		f.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, common.NewAppError("BAD_QUERY", "offset must be a non-negative integer", common.ErrInvalidInput)
		}
		f.Offset = n
	}
	return f, nil
}

func (h *handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Warn("server.response.encode_failed", "error", err)
	}
}

func (h *handlers) writeError(w http.ResponseWriter, status int, err error) {
	h.log.Error("server.request.failed", "status", status, "error", err)
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}
