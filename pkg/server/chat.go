package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/memoryd/internal/attribute"
	"github.com/fyrsmithlabs/memoryd/internal/engine"
)

// ChatRequest is the body of POST /v1/chat.
type ChatRequest struct {
	// SessionID selects the conversation. Empty creates a new session.
	SessionID string `json:"session_id"`

	// Message is the user's input for this turn.
	Message string `json:"message"`

	// Stream requests an SSE response instead of a single JSON body.
	// Sending "Accept: text/event-stream" has the same effect.
	Stream bool `json:"stream"`
}

// ChatResult is the JSON response of a completed turn.
type ChatResult struct {
	SessionID           string                `json:"session_id"`
	ResponseText        string                `json:"response_text"`
	UsedAttributes      *attribute.Context    `json:"used_attributes"`
	ExtractedAttributes []attribute.Extracted `json:"extracted_attributes"`
	TaskStatuses        []engine.TaskStatus   `json:"task_statuses"`
}

// handleChat handles POST /v1/chat. The streaming variant emits one
// "status" SSE event per task status, then a terminal "response" or
// "error" event.
func (s *Server) handleChat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, errorBody("message is required"))
	}

	sess := s.registry.Sessions().GetOrCreate(req.SessionID)
	ctx := c.Request().Context()

	input, err := s.translateIn(c, sess, req.Message)
	if err != nil {
		return c.JSON(http.StatusBadGateway, errorBody(fmt.Sprintf("translation failed: %v", err)))
	}

	if req.Stream || strings.Contains(c.Request().Header.Get(echo.HeaderAccept), "text/event-stream") {
		return s.chatSSE(c, sess, input)
	}

	resp, err := s.registry.Engine().Run(ctx, sess, input)
	if err != nil {
		if errors.Is(err, engine.ErrTurnActive) {
			return c.JSON(http.StatusConflict, errorBody(err.Error()))
		}
		return c.JSON(http.StatusBadGateway, errorBody(err.Error()))
	}

	return c.JSON(http.StatusOK, s.chatResult(c, sess.ID(), resp))
}

// chatSSE streams one turn as Server-Sent Events. Each pull of the
// turn stream becomes one "status" event; a disconnected client stops
// the turn before its next capability call.
func (s *Server) chatSSE(c echo.Context, sess *engine.Session, input string) error {
	ctx := c.Request().Context()

	stream, err := s.registry.Engine().Stream(ctx, sess, input)
	if err != nil {
		if errors.Is(err, engine.ErrTurnActive) {
			return c.JSON(http.StatusConflict, errorBody(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, errorBody(err.Error()))
	}
	defer stream.Close()

	h := c.Response().Header()
	h.Set(echo.HeaderContentType, "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no") // disable nginx buffering
	c.Response().WriteHeader(http.StatusOK)

	for {
		status, ok := stream.Next()
		if !ok {
			break
		}
		if err := writeEvent(c, "status", status); err != nil {
			// Client gone; Close stops any further capability calls.
			return nil
		}
	}

	resp, err := stream.Result()
	if err != nil {
		_ = writeEvent(c, "error", errorBody(err.Error()))
		return nil
	}

	_ = writeEvent(c, "response", s.chatResult(c, sess.ID(), resp))
	return nil
}

// chatResult translates the response text back to the user's language
// and assembles the wire form of a completed turn.
func (s *Server) chatResult(c echo.Context, sessionID string, resp *engine.ChatResponse) ChatResult {
	text := s.translateOut(c, resp.ResponseText)
	return ChatResult{
		SessionID:           sessionID,
		ResponseText:        text,
		UsedAttributes:      resp.UsedAttributes,
		ExtractedAttributes: resp.ExtractedAttributes,
		TaskStatuses:        resp.TaskStatuses,
	}
}

// translateIn converts user input to the model language when
// translation is enabled.
func (s *Server) translateIn(c echo.Context, sess *engine.Session, text string) (string, error) {
	cfg := s.config.Translation
	if !cfg.Enabled {
		return text, nil
	}
	recent := sess.Ledger().Recent(4)
	return s.registry.Translator().Translate(
		c.Request().Context(), text, cfg.UserLang, cfg.ModelLang, recent)
}

// translateOut converts the generated response back to the user
// language. The turn has already committed by this point, so a failed
// back-translation degrades to the untranslated text instead of
// discarding the response.
func (s *Server) translateOut(c echo.Context, text string) string {
	cfg := s.config.Translation
	if !cfg.Enabled {
		return text
	}
	out, err := s.registry.Translator().Translate(
		c.Request().Context(), text, cfg.ModelLang, cfg.UserLang, nil)
	if err != nil {
		s.logger.Warn(c.Request().Context(), "response translation failed",
			zap.Error(err))
		return text
	}
	return out
}

// writeEvent writes one SSE event and flushes it.
func writeEvent(c echo.Context, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(c.Response(), "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	c.Response().Flush()
	return nil
}

// errorBody is the uniform error payload.
func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}
