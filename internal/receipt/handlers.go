package receipt

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/mhafuz/receipt-ledger/internal/scanning"
)

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// corsError writes an error response with CORS headers set
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

// writeJSONError writes a JSON error envelope with CORS headers set
func writeJSONError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "error",
		"error":  message,
	})
}

// handleHealth reports service status and the available endpoints
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "healthy",
		"service": "receipt-ledger",
		"endpoints": map[string]string{
			"POST /api/receipts":          "Process receipt image (extraction + normalization + ledger)",
			"GET /api/receipts":           "List processed receipts",
			"GET /api/receipts/{id}":      "Get one processed receipt",
			"GET /api/receipts/{id}/file": "Download the original upload",
			"DELETE /api/receipts/{id}":   "Delete a processed receipt",
			"GET /":                       "Health check",
		},
	})
}

// handleListReceipts returns a list of all processed receipts
func (s *Server) handleListReceipts(w http.ResponseWriter, r *http.Request) {
	receipts, err := s.service.ListReceipts()
	if err != nil {
		slog.Error("Error listing receipts", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(receipts); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleUploadReceipt accepts a receipt image, runs the pipeline, and returns
// a summary envelope with the ledger update counts. Non-image, empty, and
// corrupt uploads are rejected before the pipeline runs.
func (s *Server) handleUploadReceipt(w http.ResponseWriter, r *http.Request) {
	// High-resolution phone photos need headroom
	maxFormSize := int64(50 << 20) // 50MB
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		message := "Error parsing form"
		if err.Error() == "http: request body too large" {
			message = "File is too large. Maximum size is 50MB."
		}
		writeJSONError(w, message, http.StatusBadRequest)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		writeJSONError(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer f.Close()

	if header.Size > maxFormSize {
		writeJSONError(w, "File is too large. Maximum size is 50MB.", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeJSONError(w, "Error reading file. Please try again.", http.StatusInternalServerError)
		return
	}

	contentType := resolveContentType(header.Header.Get("Content-Type"), header.Filename)

	if err := scanning.ValidateDocument(data, contentType); err != nil {
		slog.Warn("Rejecting upload", "filename", header.Filename, "content_type", contentType, "error", err)
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	slog.Info("Processing receipt", "filename", header.Filename, "content_type", contentType)

	processed, err := s.service.ProcessReceipt(header.Filename, data, contentType)
	if err != nil {
		slog.Error("Error processing receipt", "filename", header.Filename, "error", err)
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	rec := processed.Record
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	response := map[string]interface{}{
		"status":  "success",
		"message": "Receipt processed successfully",
		"data": map[string]interface{}{
			"id":             processed.ID,
			"receipt_id":     rec.ReceiptID,
			"store_name":     rec.StoreName,
			"date":           rec.Date,
			"total":          rec.Total,
			"payment_method": rec.PaymentMethod,
			"card_last_4":    rec.CardLast4,
			"item_count":     rec.ItemCount,
			"total_mismatch": processed.TotalMismatch,
		},
		"sheet_update": map[string]interface{}{
			"rows_added":    processed.LedgerRows,
			"cells_updated": processed.LedgerCells,
		},
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// resolveContentType falls back to the file extension when the form part
// carries no usable content type
func resolveContentType(contentType, filename string) string {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return "application/octet-stream"
	}
}

// handleGetReceipt returns a single processed receipt
func (s *Server) handleGetReceipt(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Receipt ID required", http.StatusBadRequest)
		return
	}
	processed, err := s.service.GetReceipt(id)
	if err != nil {
		corsError(w, "Receipt not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(processed); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleGetReceiptFile returns the original upload for a processed receipt
func (s *Server) handleGetReceiptFile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Receipt ID required", http.StatusBadRequest)
		return
	}
	data, contentType, err := s.service.GetReceiptFile(id)
	if err != nil {
		corsError(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handleDeleteReceipt deletes a processed receipt
func (s *Server) handleDeleteReceipt(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Receipt ID required", http.StatusBadRequest)
		return
	}
	if err := s.service.DeleteReceipt(id); err != nil {
		corsError(w, "Error deleting receipt", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
