package main

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// MCPServer terminates MCP JSON-RPC requests: it switches on the method,
// hands tools/call to the dispatcher, and maps every outcome to a
// well-formed response envelope. It holds no per-request state.
type MCPServer struct {
	dispatcher *ToolDispatcher
}

func NewMCPServer(dispatcher *ToolDispatcher) *MCPServer {
	return &MCPServer{dispatcher: dispatcher}
}

// HandleRequest processes one JSON-RPC request body on behalf of an
// already-authenticated user. It returns the response body and the HTTP
// status to send; a nil body with StatusNoContent means no response
// (notification acknowledgement).
func (s *MCPServer) HandleRequest(ctx context.Context, userID string, body []byte) ([]byte, int) {
	l := log.With().Str("scope", "HandleRequest").Logger()

	var req JSONRPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		l.Error().Err(err).Msg("JSON parse error")
		return errorResponse(ParseError, "Parse error: Invalid JSON", nil), fiber.StatusOK
	}

	var params CallToolParams
	if req.Method == "tools/call" && len(req.Params) > 0 {
		// Malformed params surface later as a missing tool name
		_ = json.Unmarshal(req.Params, &params)
	}

	l.Info().
		Str("method", req.Method).
		Str("tool", params.Name).
		Str("user_id", userID).
		Msg("MCP request")

	switch req.Method {
	case "initialize":
		result := InitializeResult{
			ProtocolVersion: ProtocolVersion,
			Capabilities:    ServerCapabilities{Tools: &ToolsCapability{}},
			ServerInfo:      ServerInfo{Name: ServerName, Version: ServerVersion},
		}
		return successResponse(result, req.ID), fiber.StatusOK

	case "tools/list":
		return successResponse(ListToolsResult{Tools: listTools()}, req.ID), fiber.StatusOK

	case "tools/call":
		return s.handleToolCall(ctx, userID, &req, &params), fiber.StatusOK

	case "notifications/initialized":
		l.Info().Msg("MCP client initialized")
		return nil, fiber.StatusNoContent

	default:
		l.Warn().Str("method", req.Method).Msg("Unknown MCP method")
		return errorResponse(MethodNotFound, "Method not found: "+req.Method, req.ID), fiber.StatusOK
	}
}

func (s *MCPServer) handleToolCall(ctx context.Context, userID string, req *JSONRPCRequest, params *CallToolParams) []byte {
	l := log.With().Str("scope", "handleToolCall").Str("tool", params.Name).Logger()

	if params.Name == "" {
		return errorResponse(InvalidParams, "Missing tool name", req.ID)
	}

	var arguments map[string]interface{}
	if len(params.Arguments) > 0 {
		if err := json.Unmarshal(params.Arguments, &arguments); err != nil {
			return errorResponse(InvalidParams, "Invalid tool arguments", req.ID)
		}
	}

	text, err := s.dispatcher.CallTool(ctx, params.Name, arguments, userID)
	if err != nil {
		var validationErr *ValidationError
		var unknownErr *UnknownToolError
		switch {
		case errors.As(err, &validationErr):
			l.Warn().Str("error", validationErr.Message).Msg("Validation error")
			return errorResponse(InvalidParams, validationErr.Message, req.ID)
		case errors.As(err, &unknownErr):
			l.Warn().Str("tool", unknownErr.Name).Msg("Unknown tool")
			return errorResponse(InvalidParams, unknownErr.Error(), req.ID)
		default:
			// Store and other unexpected failures stay server-side;
			// the caller only sees a generic message.
			l.Error().Err(err).Msg("Tool execution failed")
			return errorResponse(InternalError, "Internal server error", req.ID)
		}
	}

	l.Info().Str("user_id", userID).Msg("Tool executed")
	return successResponse(textResult(text), req.ID)
}

// successResponse builds a JSON-RPC success envelope echoing the request id.
func successResponse(result interface{}, requestID json.RawMessage) []byte {
	resp := JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      requestID,
		Result:  result,
	}
	data, _ := json.Marshal(resp)
	return data
}

// errorResponse builds a JSON-RPC error envelope. The error is logged here
// so every failure path is recorded even when callers discard the reason.
func errorResponse(code int, message string, requestID json.RawMessage) []byte {
	log.Error().Int("code", code).Str("message", message).Msg("MCP error")

	resp := JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      requestID,
		Error: &JSONRPCError{
			Code:    code,
			Message: message,
		},
	}
	data, _ := json.Marshal(resp)
	return data
}
