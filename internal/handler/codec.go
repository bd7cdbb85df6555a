// Package handler exposes the codec service over gin.
package handler

import (
	"errors"
	"io"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seiflotfy/huff16"
	"github.com/seiflotfy/huff16/internal/service"
)

// archiveOverhead is the largest archive header: the symbol count, one
// entry per possible symbol and the two length fields.
const archiveOverhead = 4 + 6<<16 + 8

const octetStream = "application/octet-stream"

// CodecHandler serves encode, decode and stats requests. Bodies are raw
// bytes; errors are JSON objects with an "error" field.
type CodecHandler struct {
	svc      *service.CodecService
	maxBytes int64
}

// NewCodecHandler creates a handler accepting bodies of up to maxBytes
// plain bytes (0 = math.MaxInt32).
func NewCodecHandler(s *service.CodecService, maxBytes int) *CodecHandler {
	if maxBytes <= 0 || maxBytes > math.MaxInt32 {
		maxBytes = math.MaxInt32
	}
	return &CodecHandler{svc: s, maxBytes: int64(maxBytes)}
}

// Encode answers with the archive of the request body.
func (h *CodecHandler) Encode(c *gin.Context) {
	body, ok := h.readBody(c, h.maxBytes)
	if !ok {
		return
	}
	out, err := h.svc.Encode(body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, octetStream, out)
}

// Decode answers with the bytes restored from the archive in the body.
func (h *CodecHandler) Decode(c *gin.Context) {
	body, ok := h.readBody(c, h.maxBytes+archiveOverhead)
	if !ok {
		return
	}
	out, err := h.svc.Decode(body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, octetStream, out)
}

// Stats answers with a JSON stats.Report for the request body.
func (h *CodecHandler) Stats(c *gin.Context) {
	body, ok := h.readBody(c, h.maxBytes)
	if !ok {
		return
	}
	r, err := h.svc.Stats(body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// readBody reads the request body up to limit bytes. On failure it has
// already written the error response.
func (h *CodecHandler) readBody(c *gin.Context, limit int64) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return body, true
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, huff16.ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, huff16.ErrCorruptArchive):
		return http.StatusUnprocessableEntity
	case errors.Is(err, huff16.ErrInputTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
