package service

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/mmynk/shopfront/internal/mcp"
	"github.com/mmynk/shopfront/internal/middleware"
	"github.com/mmynk/shopfront/internal/session"
)

// MCP envelope types.
const (
	typeContext = "context.response"
	typeTool    = "tool.result"
	typeError   = "error.response"
)

// MCP error codes.
const (
	codeInvalidJSON     = "invalid_json"
	codeInvalidSession  = "invalid_session"
	codeRateLimited     = "rate_limited"
	codeSessionNotFound = "session_not_found"
	codeInternal        = "internal_error"
)

// MCPService serves the session, context and tool endpoints.
type MCPService struct {
	sessions session.Registry
	toolbox  *mcp.Toolbox
	logger   *slog.Logger
}

// NewMCPService creates an MCP service.
func NewMCPService(sessions session.Registry, toolbox *mcp.Toolbox, logger *slog.Logger) *MCPService {
	return &MCPService{sessions: sessions, toolbox: toolbox, logger: logger}
}

type envelope struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id"`
	Data      any    `json:"data,omitempty"`
	Output    any    `json:"output,omitempty"`
	Error     string `json:"error,omitempty"`
}

type sessionRequest struct {
	SessionID string `json:"session_id"`
}

type openResponse struct {
	OK           bool             `json:"ok"`
	SessionID    string           `json:"session_id"`
	Capabilities mcp.Capabilities `json:"capabilities"`
}

type statusResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// decodeMCP decodes an MCP body. An empty body counts as {}.
func decodeMCP(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := decodeJSON(w, r, dst); err != nil && !errors.Is(err, errEmptyBody) {
		return err
	}
	return nil
}

// OpenSession handles POST /mcp/session/open.
func (s *MCPService) OpenSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeMCP(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, statusResponse{Error: codeInvalidJSON})
		return
	}

	sess, err := s.sessions.Open(r.Context(), req.SessionID)
	if err != nil {
		s.logger.Error("Failed to open session", "error", err)
		writeJSON(w, http.StatusInternalServerError, statusResponse{Error: codeInternal})
		return
	}

	client := ""
	if p, ok := middleware.GetPrincipal(r.Context()); ok {
		client = p.Subject
	}
	s.logger.Info("Session opened", "session_id", sess.ID, "client", client)
	writeJSON(w, http.StatusOK, openResponse{
		OK:           true,
		SessionID:    sess.ID,
		Capabilities: s.toolbox.Capabilities(),
	})
}

// CloseSession handles POST /mcp/session/close.
func (s *MCPService) CloseSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeMCP(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, statusResponse{Error: codeInvalidJSON})
		return
	}

	err := s.sessions.Close(r.Context(), req.SessionID)
	switch {
	case errors.Is(err, session.ErrNotFound):
		writeJSON(w, http.StatusNotFound, statusResponse{Error: codeSessionNotFound})
	case err != nil:
		s.logger.Error("Failed to close session", "session_id", req.SessionID, "error", err)
		writeJSON(w, http.StatusInternalServerError, statusResponse{Error: codeInternal})
	default:
		s.logger.Info("Session closed", "session_id", req.SessionID)
		writeJSON(w, http.StatusOK, statusResponse{OK: true})
	}
}

type contextRequest struct {
	SessionID string `json:"session_id"`
	RequestID string `json:"request_id"`
	Resource  string `json:"resource"`
}

// ContextRequest handles POST /mcp/context/request.
func (s *MCPService) ContextRequest(w http.ResponseWriter, r *http.Request) {
	var req contextRequest
	if err := decodeMCP(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Type: typeContext, Error: codeInvalidJSON})
		return
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	if !s.validate(w, r, typeContext, req.SessionID, req.RequestID) {
		return
	}

	s.logger.Info("Context request", "resource", req.Resource, "session_id", req.SessionID, "request_id", req.RequestID)
	data, err := s.toolbox.Resource(req.Resource)
	if err != nil {
		s.writeFailure(w, typeContext, req.RequestID, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Type: typeContext, RequestID: req.RequestID, Data: data})
}

type toolRequest struct {
	SessionID string          `json:"session_id"`
	RequestID string          `json:"request_id"`
	Tool      string          `json:"tool"`
	Input     json.RawMessage `json:"input"`
}

// RunTool handles POST /mcp/tool/run.
func (s *MCPService) RunTool(w http.ResponseWriter, r *http.Request) {
	var req toolRequest
	if err := decodeMCP(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Type: typeTool, Error: codeInvalidJSON})
		return
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	if !s.validate(w, r, typeTool, req.SessionID, req.RequestID) {
		return
	}

	s.logger.Info("Tool request", "tool", req.Tool, "session_id", req.SessionID, "request_id", req.RequestID)
	out, err := s.toolbox.Run(req.Tool, req.Input)
	if err != nil {
		s.writeFailure(w, typeTool, req.RequestID, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Type: typeTool, RequestID: req.RequestID, Output: out})
}

// validate checks the session and writes the failure envelope when it is
// not usable.
func (s *MCPService) validate(w http.ResponseWriter, r *http.Request, typ, sessionID, requestID string) bool {
	if sessionID == "" {
		writeJSON(w, http.StatusUnauthorized, envelope{Type: typ, RequestID: requestID, Error: codeInvalidSession})
		return false
	}

	err := s.sessions.Validate(r.Context(), sessionID)
	switch {
	case err == nil:
		return true
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrExpired):
		s.logger.Info("Invalid session", "session_id", sessionID, "error", err)
		writeJSON(w, http.StatusUnauthorized, envelope{Type: typ, RequestID: requestID, Error: codeInvalidSession})
	case errors.Is(err, session.ErrRateLimited):
		s.logger.Warn("Rate limit exceeded", "session_id", sessionID)
		writeJSON(w, http.StatusTooManyRequests, envelope{Type: typ, RequestID: requestID, Error: codeRateLimited})
	default:
		s.logger.Error("Session validation failed", "session_id", sessionID, "error", err)
		writeJSON(w, http.StatusInternalServerError, envelope{Type: typeError, RequestID: requestID, Error: codeInternal})
	}
	return false
}

// writeFailure maps toolbox errors to status codes.
func (s *MCPService) writeFailure(w http.ResponseWriter, typ, requestID string, err error) {
	switch {
	case errors.Is(err, mcp.ErrUnknownResource):
		writeJSON(w, http.StatusNotFound, envelope{Type: typ, RequestID: requestID, Error: mcp.ErrUnknownResource.Error()})
	case errors.Is(err, mcp.ErrUnknownTool):
		writeJSON(w, http.StatusNotFound, envelope{Type: typ, RequestID: requestID, Error: mcp.ErrUnknownTool.Error()})
	case errors.Is(err, mcp.ErrOrderNotFound):
		writeJSON(w, http.StatusNotFound, envelope{Type: typ, RequestID: requestID, Error: mcp.ErrOrderNotFound.Error()})
	case errors.Is(err, mcp.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, envelope{Type: typ, RequestID: requestID, Error: mcp.ErrInvalidInput.Error()})
	default:
		s.logger.Error("MCP request failed", "request_id", requestID, "error", err)
		writeJSON(w, http.StatusInternalServerError, envelope{Type: typeError, RequestID: requestID, Error: codeInternal})
	}
}
