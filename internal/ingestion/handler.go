package ingestion

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	v1 "github.com/aevon-lab/nrega-dashboard/internal/api/v1"
	httperr "github.com/aevon-lab/nrega-dashboard/internal/core/errors"
	"github.com/aevon-lab/nrega-dashboard/internal/syncer"
	"github.com/gin-gonic/gin"
)

const (
	msgReadBodyFailed = "Failed to read request body"
	msgInvalidJSON    = "Invalid JSON body"
	msgStateRequired  = "state is required"
	msgSyncCompleted  = "Sync completed successfully"
	msgSyncFailed     = "Sync failed"
)

// SyncRequest is the body of POST /api/sync.
type SyncRequest struct {
	State   string `json:"state"`
	FinYear string `json:"fin_year"`
}

// SyncResponse flattens the sync result next to a human readable message.
type SyncResponse struct {
	Message string `json:"message"`
	syncer.Result
}

// ingestionError carries the structured HTTP error shape from a helper back to the handler.
type ingestionError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *ingestionError) Error() string {
	return e.message
}

// SyncHandler handles POST /api/sync.
// The sync runs inline; the response reports its outcome with HTTP 200 either way.
func (s *Service) SyncHandler(c *gin.Context) {
	req, err := s.parseRequest(c)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := validateRequest(req); err != nil {
		writeError(c, err)
		return
	}

	slog.Info("[Ingestion] On-demand sync requested", "region", req.State, "fin_year", req.FinYear)

	// A started sync runs to completion even if the client goes away.
	res := s.syncer.Sync(context.WithoutCancel(c.Request.Context()), req.State, req.FinYear)

	msg := msgSyncFailed
	if res.Success {
		msg = msgSyncCompleted
	}
	c.JSON(http.StatusOK, SyncResponse{Message: msg, Result: res})
}

// parseRequest reads the bounded body and decodes it.
func (s *Service) parseRequest(c *gin.Context) (*SyncRequest, *ingestionError) {
	maxBytes := int64(s.maxBodySizeBytes)
	bodyBytes, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBytes+1))
	if err != nil {
		slog.Error("[Ingestion] Failed to read request body", "error", err)
		return nil, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("[Ingestion] Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return nil, &ingestionError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpInvalidJsonError,
			message:    "Request body exceeds maximum allowed size",
			details:    map[string]interface{}{"max_size_bytes": maxBytes},
		}
	}

	var req SyncRequest
	if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&req); err != nil {
		slog.Warn("[Ingestion] Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
		return nil, &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonError,
			message:    msgInvalidJSON,
		}
	}

	req.State = strings.TrimSpace(req.State)
	req.FinYear = strings.TrimSpace(req.FinYear)
	return &req, nil
}

func validateRequest(req *SyncRequest) *ingestionError {
	if req.State == "" {
		return &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidRequestError,
			message:    msgStateRequired,
		}
	}
	if req.FinYear != "" && !v1.ValidFinYear(req.FinYear) {
		return &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidRequestError,
			message:    "fin_year must look like YYYY-YYYY",
			details:    map[string]interface{}{"fin_year": req.FinYear},
		}
	}
	return nil
}

// writeError serializes an ingestionError as the JSON HTTP response.
func writeError(c *gin.Context, err *ingestionError) {
	c.JSON(err.statusCode, httperr.New(err.errorType, err.message, err.details))
}
