package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/rpattn/feedtrack/internal/domain"
	"github.com/rpattn/feedtrack/internal/export"
	"github.com/rpattn/feedtrack/internal/snapshot"
)

// maxUploadBytes bounds uploaded feeds and snapshot documents.
const maxUploadBytes = 64 << 20

type snapshotRequest struct {
	FileName    string `json:"fileName"`
	FileContent string `json:"fileContent"`
	URL         string `json:"url"`
	XML         string `json:"xml"`
}

// handleCreateSnapshot accepts a feed as multipart upload, JSON body, or
// url, applies the file > url > manual priority, and returns the snapshot
// document with its diagnostics.
func (s *Server) handleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSnapshotRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.snapshots.Create(r.Context(), snapshot.CreateRequest{
		FileName:    req.FileName,
		FileContent: req.FileContent,
		URL:         req.URL,
		Manual:      req.XML,
	})
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func decodeSnapshotRequest(r *http.Request) (snapshotRequest, error) {
	var req snapshotRequest

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return req, fmt.Errorf("parse upload: %w", err)
		}
		req.URL = r.FormValue("url")
		req.XML = r.FormValue("xml")

		file, header, err := r.FormFile("file")
		if err == nil {
			defer file.Close()
			content, readErr := io.ReadAll(io.LimitReader(file, maxUploadBytes))
			if readErr != nil {
				return req, fmt.Errorf("read upload: %w", readErr)
			}
			req.FileName = header.Filename
			req.FileContent = string(content)
		} else if !errors.Is(err, http.ErrMissingFile) {
			return req, fmt.Errorf("read upload: %w", err)
		}
		return req, nil
	}

	if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadBytes)).Decode(&req); err != nil {
		return req, fmt.Errorf("decode request body: %w", err)
	}
	return req, nil
}

type compareRequest struct {
	Old json.RawMessage `json:"old"`
	New json.RawMessage `json:"new"`
}

// handleCompare diffs two snapshot documents supplied in the request body.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request body: %w", err))
		return
	}
	if len(req.Old) == 0 || len(req.New) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("both old and new snapshot documents are required"))
		return
	}

	comparison, err := s.snapshots.Compare(req.Old, req.New)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}

	writeJSON(w, http.StatusOK, comparison)
}

type exportRequest struct {
	Comparison domain.Comparison `json:"comparison"`
	Type       string            `json:"type"`
	Search     string            `json:"search"`
	SortKey    string            `json:"sortKey"`
	Descending bool              `json:"descending"`
	Format     string            `json:"format"`
}

// handleExport renders a filtered, sorted change list as CSV or XLSX.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request body: %w", err))
		return
	}

	rows := domain.QueryChanges(domain.FlattenChanges(req.Comparison), domain.ChangeQuery{
		Type:       req.Type,
		Search:     req.Search,
		SortKey:    req.SortKey,
		Descending: req.Descending,
	})

	if s.recorder != nil {
		s.recorder.Record("csv_export", map[string]any{"rowCount": len(rows)})
	}

	switch req.Format {
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="comparison.csv"`)
		if err := export.WriteCSV(w, rows); err != nil {
			log.Printf("[EXPORT] csv write failed: %v", err)
		}
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="comparison.xlsx"`)
		if err := export.WriteXLSX(w, rows); err != nil {
			log.Printf("[EXPORT] xlsx write failed: %v", err)
		}
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("unsupported export format %q", req.Format))
	}
}

// handleFetchXML proxies a feed url for browser clients that cannot fetch
// cross-origin. The upstream body is passed through untouched.
func (s *Server) handleFetchXML(w http.ResponseWriter, r *http.Request) {
	feedURL := r.URL.Query().Get("url")
	if feedURL == "" {
		writeError(w, http.StatusBadRequest, errors.New("url parameter is required"))
		return
	}

	body, err := s.fetcher.FetchXML(r.Context(), feedURL)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, body)
}
