package main

import (
	"net/http"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"toolstream/internal/logging"
	"toolstream/internal/toolparse"
	"toolstream/internal/toolsession"
)

type handlers struct {
	sessions       *toolsession.Manager
	metrics        *serverMetrics
	tracer         trace.Tracer
	logger         logging.Logger
	defaultRelaxed bool
}

type createSessionRequest struct {
	SchemaPath string `json:"schema_path"`
	Relaxed    *bool  `json:"relaxed"`
}

type createSessionResponse struct {
	ID string `json:"id"`
}

// createSession implements POST /v1/sessions: builds a schema (built-in
// demo schema when SchemaPath is empty) and opens a session over it.
func (h *handlers) createSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := loadSchema(req.SchemaPath)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	relaxed := h.defaultRelaxed
	if req.Relaxed != nil {
		relaxed = *req.Relaxed
	}

	id := uuid.NewString()
	h.sessions.Open(id, s, toolparse.Options{RelaxedMode: relaxed})
	c.JSON(http.StatusCreated, createSessionResponse{ID: id})
}

type feedChunkRequest struct {
	Chunk    string `json:"chunk"`
	Finalize bool   `json:"finalize"`
}

// feedChunkSSE implements POST /v1/sessions/:id/chunks: feeds one chunk
// (and optionally finalizes) then streams the newly emitted blocks and
// diagnostics back as Server-Sent Events via gin-contrib/sse.
func (h *handlers) feedChunkSSE(c *gin.Context) {
	id := c.Param("id")
	sess, ok := h.sessions.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}

	var req feedChunkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "toolstream.feed_chunk")
	span.SetAttributes(attribute.String("session.id", id), attribute.Int("chunk.bytes", len(req.Chunk)))
	defer span.End()
	_ = ctx

	blocks, diags := sess.Feed(req.Chunk)
	if req.Finalize {
		_, finalizeSpan := h.tracer.Start(c.Request.Context(), "toolstream.finalize")
		blocks = append(blocks, sess.Finalize()...)
		finalizeSpan.End()
	}

	h.recordMetrics(blocks, diags)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	for _, b := range blocks {
		sse.Encode(c.Writer, sse.Event{Event: "block", Data: b})
	}
	for _, d := range diags {
		sse.Encode(c.Writer, sse.Event{Event: "diagnostic", Data: d})
	}
	h.metrics.sessionsActive.Set(float64(h.sessions.Len()))
}

func (h *handlers) recordMetrics(blocks []toolparse.Block, diags []toolparse.Diagnostic) {
	for _, b := range blocks {
		h.metrics.blocksEmitted.WithLabelValues(b.Kind.String()).Inc()
	}
	for _, d := range diags {
		h.metrics.errorsEmitted.WithLabelValues(d.Code.String()).Inc()
	}
}
