package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"mother_homes/internal/app"
	"mother_homes/internal/domain"
	"mother_homes/internal/excel"
)

type Handlers struct {
	Ing       *app.IngestionService
	Q         *app.QueryService
	MaxUpload int64 // bytes
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/properties/bulk-upload", h.bulkUpload)
	s.mux.Get("/v1/properties/{id}", h.getProperty)
	s.mux.Get("/v1/properties", h.listProperties)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// bulkUpload accepts a multipart workbook and runs one ingestion batch.
// Partial success is a 200 with the per-row report; an unreadable workbook
// is a 400 and a rejected bulk write is a 502, so callers can always tell
// "some rows rejected, rest committed" from "nothing committed".
func (h *Handlers) bulkUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.MaxUpload); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Upload", "multipart form expected")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Upload", `multipart field "file" is required`)
		return
	}
	defer file.Close()

	buf, err := io.ReadAll(io.LimitReader(file, h.MaxUpload+1))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Upload", "could not read uploaded file")
		return
	}
	if int64(len(buf)) > h.MaxUpload {
		writeProblem(w, http.StatusRequestEntityTooLarge, "File Too Large", "upload exceeds the size limit")
		return
	}

	res, err := h.Ing.Run(r.Context(), buf)
	if err != nil {
		var de *excel.DecodeError
		if errors.As(err, &de) {
			writeProblem(w, http.StatusBadRequest, "Unreadable Workbook", de.Error())
			return
		}
		log.Error().Err(err).Msg("bulk upload failed")
		writeProblem(w, http.StatusBadGateway, "Ingestion Failed", "nothing was committed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.Error().Err(err).Msg("failed to write bulk upload response")
	}
}

func (h *Handlers) getProperty(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	resp, err := h.Q.GetProperty(r.Context(), id)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "property not found")
		return
	}

	etag, body := calcETagAndBody(resp)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getProperty body")
	}
}

func (h *Handlers) listProperties(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		limit = l
	}
	q := domain.PropertiesQuery{Limit: limit}
	if cat := r.URL.Query().Get("category"); cat != "" {
		q.Category = &cat
	}

	out, err := h.Q.ListProperties(r.Context(), q)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Listing Failed", "could not list properties")
		return
	}

	etag, body := calcETagAndBody(out)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write listProperties body")
	}
}
