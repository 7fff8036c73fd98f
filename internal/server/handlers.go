package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hyperjump/filebot/internal/indexer"
	"github.com/hyperjump/filebot/internal/inline"
	"github.com/hyperjump/filebot/internal/models"
	"github.com/hyperjump/filebot/internal/storage"
	"go.uber.org/zap"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Limit == 0 && s.pageSize > 0 {
		req.Limit = s.pageSize
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	q := inline.ParseQuery(req.Query)
	s.logger.Debug("search request", zap.String("phrase", q.Phrase), zap.String("file_type", q.FileType), zap.Int("limit", req.Limit))
	page, err := inline.FetchPage(r.Context(), s.engine, q, req.Limit, req.Offset)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, page)
}

func (s *Server) handleIndexFile(w http.ResponseWriter, r *http.Request) {
	var input models.FileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("index file request", zap.String("file_name", input.FileName), zap.String("file_type", input.FileType))
	rec, err := s.indexer.IndexFile(r.Context(), &input)
	if err != nil {
		if errors.Is(err, indexer.ErrMissingFileID) {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("indexing failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := s.storage.GetFile(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "file not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	fileType := r.URL.Query().Get("type")
	offset := inline.ParseOffset(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	req := models.SearchRequest{Limit: limit}
	_ = req.Validate()

	files, err := s.storage.ListFiles(r.Context(), fileType, offset, req.Limit)
	if err != nil {
		s.logger.Error("list files failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total, err := s.storage.CountFiles(r.Context(), fileType)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if files == nil {
		files = []*models.FileRecord{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"files":  files,
		"total":  total,
		"offset": offset,
	})
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete file request", zap.String("id", id))
	if err := s.indexer.DeleteFile(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "file not found")
			return
		}
		s.logger.Error("deletion failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"id": id, "status": "deleted"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.engine.Status(r.Context(), s.paths)
	if err != nil {
		s.logger.Error("status failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, st)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
