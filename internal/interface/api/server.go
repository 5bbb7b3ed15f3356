package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"travelscan-service/internal/domain/entity"
	"travelscan-service/internal/domain/repository"
	"travelscan-service/internal/usecase"
	"travelscan-service/pkg/logger"
	"travelscan-service/pkg/metrics"
)

// maxUploadBytes caps a single scan upload at 20 MiB
const maxUploadBytes = 20 << 20

// Server exposes the scan upload, passenger and export endpoints
type Server struct {
	documentRepo repository.DocumentRepository
	consolidator *usecase.Consolidator
	exporter     *usecase.Exporter
	metrics      *metrics.Metrics
	logger       logger.Logger
	router       *mux.Router
}

// NewServer creates the API server and mounts all routes
func NewServer(
	documentRepo repository.DocumentRepository,
	consolidator *usecase.Consolidator,
	exporter *usecase.Exporter,
	m *metrics.Metrics,
	logger logger.Logger,
) *Server {
	s := &Server{
		documentRepo: documentRepo,
		consolidator: consolidator,
		exporter:     exporter,
		metrics:      m,
		logger:       logger,
		router:       mux.NewRouter(),
	}

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/batches/{batchId}/documents", s.handleUpload).Methods("POST")
	api.HandleFunc("/batches/{batchId}/documents", s.handleListDocuments).Methods("GET")
	api.HandleFunc("/batches/{batchId}/passengers", s.handlePassengers).Methods("GET")
	api.HandleFunc("/batches/{batchId}/export.csv", s.handleExportCSV).Methods("GET")
	api.HandleFunc("/batches/{batchId}/export.xlsx", s.handleExportXLSX).Methods("GET")

	s.router.Handle("/metrics", promhttp.Handler())
	s.router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	return s
}

// Handler returns the mounted route tree
func (s *Server) Handler() http.Handler {
	return s.router
}

// handleUpload accepts one scanned document as multipart form data under the
// "document" field and stores it pending extraction
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	batchID := mux.Vars(r)["batchId"]

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart request: %v", err))
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "missing document file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read upload: %v", err))
		return
	}
	if len(data) == 0 {
		s.writeError(w, http.StatusBadRequest, "uploaded file is empty")
		return
	}

	doc := &entity.ScanDocument{
		DocumentID:    fmt.Sprintf("upl-%d", time.Now().UnixNano()),
		BatchID:       batchID,
		Filename:      header.Filename,
		ContentType:   header.Header.Get("Content-Type"),
		Source:        entity.SourceUpload,
		Image:         data,
		ReceivedAt:    time.Now(),
		ProcessStatus: entity.StatusPending,
	}

	if err := s.documentRepo.Save(r.Context(), doc); err != nil {
		s.metrics.ErrorsCount.WithLabelValues("document_save").Inc()
		s.logger.Error("Failed to save uploaded document", "batchId", batchID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to store document")
		return
	}

	s.logger.Info("Document uploaded",
		"documentId", doc.DocumentID,
		"batchId", batchID,
		"filename", doc.Filename,
		"bytes", len(data))

	s.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"documentId": doc.DocumentID,
		"batchId":    batchID,
		"status":     doc.ProcessStatus,
	})
}

// documentView is the API shape of a stored document, without image bytes
type documentView struct {
	DocumentID  string                  `json:"documentId"`
	Filename    string                  `json:"filename"`
	Source      string                  `json:"source"`
	ReceivedAt  time.Time               `json:"receivedAt"`
	Status      string                  `json:"status"`
	ErrorDetail string                  `json:"errorDetail,omitempty"`
	Extraction  *entity.ExtractedRecord `json:"extraction,omitempty"`
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	batchID := mux.Vars(r)["batchId"]

	docs, err := s.documentRepo.FindByBatch(r.Context(), batchID)
	if err != nil {
		s.logger.Error("Failed to list documents", "batchId", batchID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}

	views := make([]documentView, 0, len(docs))
	for _, doc := range docs {
		views = append(views, documentView{
			DocumentID:  doc.DocumentID,
			Filename:    doc.Filename,
			Source:      doc.Source,
			ReceivedAt:  doc.ReceivedAt,
			Status:      doc.ProcessStatus,
			ErrorDetail: doc.ErrorDetail,
			Extraction:  doc.Extraction,
		})
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"batchId":   batchID,
		"documents": views,
	})
}

func (s *Server) handlePassengers(w http.ResponseWriter, r *http.Request) {
	batchID := mux.Vars(r)["batchId"]

	passengers, err := s.consolidateBatch(r, batchID)
	if err != nil {
		s.logger.Error("Failed to consolidate batch", "batchId", batchID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to consolidate batch")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"batchId":    batchID,
		"passengers": passengers,
	})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	batchID := mux.Vars(r)["batchId"]

	passengers, err := s.consolidateBatch(r, batchID)
	if err != nil {
		s.logger.Error("Failed to consolidate batch", "batchId", batchID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to consolidate batch")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", batchID+"-passengers.csv"))

	if err := s.exporter.WriteCSV(w, passengers); err != nil {
		s.logger.Error("Failed to write CSV export", "batchId", batchID, "error", err)
		return
	}

	s.metrics.ExportsGenerated.WithLabelValues("csv").Inc()
	s.logger.Info("CSV export generated", "batchId", batchID, "passengers", len(passengers))
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	batchID := mux.Vars(r)["batchId"]

	passengers, err := s.consolidateBatch(r, batchID)
	if err != nil {
		s.logger.Error("Failed to consolidate batch", "batchId", batchID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to consolidate batch")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", batchID+"-passengers.xlsx"))

	if err := s.exporter.WriteXLSX(w, passengers); err != nil {
		s.logger.Error("Failed to write XLSX export", "batchId", batchID, "error", err)
		return
	}

	s.metrics.ExportsGenerated.WithLabelValues("xlsx").Inc()
	s.logger.Info("XLSX export generated", "batchId", batchID, "passengers", len(passengers))
}

// consolidateBatch collects the batch's completed extractions in upload
// order and folds them into passengers
func (s *Server) consolidateBatch(r *http.Request, batchID string) ([]entity.PassengerRecord, error) {
	docs, err := s.documentRepo.FindCompletedByBatch(r.Context(), batchID)
	if err != nil {
		return nil, err
	}

	records := make([]entity.ExtractedRecord, 0, len(docs))
	for _, doc := range docs {
		if doc.Extraction == nil {
			continue
		}
		records = append(records, *doc.Extraction)
	}

	return s.consolidator.Consolidate(records), nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   map[string]string{"message": message},
	})
}
