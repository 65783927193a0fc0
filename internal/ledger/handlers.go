package ledger

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zombor/expense-tracker/internal/extract"
	"github.com/zombor/expense-tracker/internal/logger"
	"github.com/zombor/expense-tracker/internal/scanning"
)

// maxUploadSize covers high-resolution phone photos and long statements
const maxUploadSize = int64(50 << 20) // 50MB

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// writeJSON writes v with the given status
func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// writeError writes an {"error": message} body with CORS headers set
func writeError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	_ = writeJSON(w, code, map[string]string{"error": message})
}

// respond encodes v and logs encoding failures
func respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	if err := writeJSON(w, status, v); err != nil {
		reqLog := logger.FromContext(r.Context())
		reqLog.Error().Err(err).Msg("Error encoding response")
	}
}

// serviceError maps a service error to a status code. Client errors echo the
// message; anything else is logged and reported as fallback.
func serviceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, "Transaction not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidTransaction), errors.Is(err, scanning.ErrUnsupportedDocument):
		writeError(w, err.Error(), http.StatusBadRequest)
	default:
		reqLog := logger.FromContext(r.Context())
		reqLog.Error().Err(err).Msg(fallback)
		writeError(w, fallback, http.StatusInternalServerError)
	}
}

// handleHealth reports liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// upload is a file read from a multipart request
type upload struct {
	filename    string
	contentType string
	data        []byte
}

// readUpload parses the "file" field of a multipart form. On failure it
// writes the error response and returns false.
func readUpload(w http.ResponseWriter, r *http.Request) (*upload, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+(1<<20))
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		reqLog := logger.FromContext(r.Context())
		reqLog.Error().Err(err).Msg("Error parsing multipart form")
		errorMsg := "Error parsing form"
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			errorMsg = "File is too large. Maximum size is 50MB."
		}
		writeError(w, errorMsg, http.StatusBadRequest)
		return nil, false
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		reqLog := logger.FromContext(r.Context())
		reqLog.Error().Err(err).Msg("Error getting file from form")
		errorMsg := "No file provided"
		if errors.Is(err, http.ErrMissingFile) {
			errorMsg = "No file uploaded"
		}
		writeError(w, errorMsg, http.StatusBadRequest)
		return nil, false
	}
	defer f.Close()

	if header.Size > maxUploadSize {
		writeError(w, "File is too large. Maximum size is 50MB.", http.StatusBadRequest)
		return nil, false
	}

	data, err := io.ReadAll(f)
	if err != nil {
		reqLog := logger.FromContext(r.Context())
		reqLog.Error().Err(err).Str("filename", header.Filename).Msg("Error reading file data")
		writeError(w, "Error reading file. Please try again.", http.StatusInternalServerError)
		return nil, false
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = contentTypeFromExt(header.Filename)
	}
	// HEIC/HEIF types are kept so conversion can detect them
	contentType = strings.ToLower(strings.TrimSpace(contentType))

	return &upload{filename: header.Filename, contentType: contentType, data: data}, true
}

// contentTypeFromExt guesses a content type from the file extension
func contentTypeFromExt(filename string) string {
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
	case ".txt":
		return "text/plain"
	case ".csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}

// handleUploadReceipt runs OCR over a receipt and records it
func (s *Server) handleUploadReceipt(w http.ResponseWriter, r *http.Request) {
	up, ok := readUpload(w, r)
	if !ok {
		return
	}

	result, err := s.service.ProcessReceipt(r.Context(), up.filename, up.data, up.contentType)
	if err != nil {
		reqLog := logger.FromContext(r.Context())
		reqLog.Error().Err(err).Str("filename", up.filename).Msg("Error processing receipt")
		serviceError(w, r, err, "Error processing receipt")
		return
	}

	respond(w, r, http.StatusOK, struct {
		Message string `json:"message"`
		*ReceiptResult
	}{"Receipt processed successfully", result})
}

// handleUploadStatement extracts and records every transaction in a statement
func (s *Server) handleUploadStatement(w http.ResponseWriter, r *http.Request) {
	up, ok := readUpload(w, r)
	if !ok {
		return
	}

	result, err := s.service.ProcessStatement(r.Context(), up.filename, up.data, up.contentType)
	if err != nil {
		reqLog := logger.FromContext(r.Context())
		reqLog.Error().Err(err).Str("filename", up.filename).Msg("Error processing statement")
		serviceError(w, r, err, "Error processing statement")
		return
	}

	respond(w, r, http.StatusOK, struct {
		Message string `json:"message"`
		*StatementResult
	}{"Statement processed successfully", result})
}

// transactionRequest is the JSON body of create and update requests.
// Absent fields are nil.
type transactionRequest struct {
	Type        *extract.Type    `json:"type"`
	Amount      *decimal.Decimal `json:"amount"`
	Category    *string          `json:"category"`
	Description *string          `json:"description"`
	Date        *string          `json:"date"`
}

// parseDate accepts a calendar date or an RFC 3339 timestamp
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (req transactionRequest) date() (*time.Time, error) {
	if req.Date == nil || strings.TrimSpace(*req.Date) == "" {
		return nil, nil
	}
	d, err := parseDate(strings.TrimSpace(*req.Date))
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// handleCreateTransaction records a manual transaction
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	date, err := req.date()
	if err != nil {
		writeError(w, "Invalid date", http.StatusBadRequest)
		return
	}

	in := TransactionInput{Date: date}
	if req.Type != nil {
		in.Type = *req.Type
	}
	if req.Amount != nil {
		in.Amount = *req.Amount
	}
	if req.Category != nil {
		in.Category = *req.Category
	}
	if req.Description != nil {
		in.Description = *req.Description
	}

	t, err := s.service.CreateTransaction(in)
	if err != nil {
		serviceError(w, r, err, "Error creating transaction")
		return
	}
	respond(w, r, http.StatusCreated, t)
}

// handleGetTransaction returns a single transaction
func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.service.GetTransaction(r.PathValue("id"))
	if err != nil {
		serviceError(w, r, err, "Error fetching transaction")
		return
	}
	respond(w, r, http.StatusOK, t)
}

// handleGetTransactionFile returns the upload a transaction was extracted from
func (s *Server) handleGetTransactionFile(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := s.service.GetTransactionFile(r.PathValue("id"))
	if err != nil {
		serviceError(w, r, err, "Error fetching file")
		return
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handleUpdateTransaction changes the fields present in the body
func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	date, err := req.date()
	if err != nil {
		writeError(w, "Invalid date", http.StatusBadRequest)
		return
	}

	t, err := s.service.UpdateTransaction(r.PathValue("id"), TransactionUpdate{
		Type:        req.Type,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		serviceError(w, r, err, "Error updating transaction")
		return
	}
	respond(w, r, http.StatusOK, t)
}

// handleDeleteTransaction deletes a transaction
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteTransaction(r.PathValue("id")); err != nil {
		serviceError(w, r, err, "Error deleting transaction")
		return
	}
	respond(w, r, http.StatusOK, map[string]string{"message": "Transaction deleted successfully"})
}

// dateRange reads the startDate and endDate query parameters
func dateRange(r *http.Request) (start, end *time.Time, err error) {
	q := r.URL.Query()
	if v := q.Get("startDate"); v != "" {
		d, err := parseDate(v)
		if err != nil {
			return nil, nil, err
		}
		start = &d
	}
	if v := q.Get("endDate"); v != "" {
		d, err := parseDate(v)
		if err != nil {
			return nil, nil, err
		}
		end = &d
	}
	return start, end, nil
}

// handleListTransactions returns a filtered page of transactions
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	start, end, err := dateRange(r)
	if err != nil {
		writeError(w, "Invalid date range", http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	f := Filter{
		Start:    start,
		End:      end,
		Type:     extract.Type(q.Get("type")),
		Category: q.Get("category"),
	}
	// unparseable paging falls back to the defaults
	f.Page, _ = strconv.Atoi(q.Get("page"))
	f.Limit, _ = strconv.Atoi(q.Get("limit"))

	page, err := s.service.ListTransactions(f)
	if err != nil {
		serviceError(w, r, err, "Error fetching transactions")
		return
	}
	respond(w, r, http.StatusOK, page)
}

// handleSummary returns chart aggregates
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	start, end, err := dateRange(r)
	if err != nil {
		writeError(w, "Invalid date range", http.StatusBadRequest)
		return
	}

	sum, err := s.service.Summary(start, end)
	if err != nil {
		serviceError(w, r, err, "Error fetching summary")
		return
	}
	respond(w, r, http.StatusOK, sum)
}
