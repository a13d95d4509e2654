package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() (*MCPServer, *MemoryStore) {
	store := NewMemoryStore()
	return NewMCPServer(NewToolDispatcher(store)), store
}

func handle(t *testing.T, server *MCPServer, body string) JSONRPCResponse {
	t.Helper()
	data, status := server.HandleRequest(context.Background(), "u1", []byte(body))
	require.Equal(t, fiber.StatusOK, status)

	var resp JSONRPCResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	assert.Equal(t, "2.0", resp.JSONRPC)
	return resp
}

func TestHandleRequestParseError(t *testing.T) {
	server, _ := newTestServer()

	resp := handle(t, server, `{not json`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ParseError, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "Parse error")
	assert.Equal(t, "null", string(resp.ID))
}

func TestHandleRequestNonObjectBody(t *testing.T) {
	server, _ := newTestServer()

	// Valid JSON that is not a request object is still a parse failure
	for _, body := range []string{`[1,2]`, `"x"`, `42`} {
		resp := handle(t, server, body)
		require.NotNil(t, resp.Error)
		assert.Equal(t, ParseError, resp.Error.Code)
		assert.Equal(t, "null", string(resp.ID))
	}
}

func TestHandleRequestUnknownMethod(t *testing.T) {
	server, _ := newTestServer()

	resp := handle(t, server, `{"jsonrpc":"2.0","method":"foo/bar","id":7}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, MethodNotFound, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "Method not found")
	assert.Equal(t, "7", string(resp.ID))
}

func TestHandleRequestInitialize(t *testing.T) {
	server, _ := newTestServer()

	resp := handle(t, server, `{"jsonrpc":"2.0","method":"initialize","id":"init-1"}`)
	require.Nil(t, resp.Error)
	assert.Equal(t, `"init-1"`, string(resp.ID))

	data, _ := json.Marshal(resp.Result)
	var result InitializeResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, ProtocolVersion, result.ProtocolVersion)
	assert.Equal(t, ServerName, result.ServerInfo.Name)
	assert.NotNil(t, result.Capabilities.Tools)
}

func TestHandleRequestToolsList(t *testing.T) {
	server, _ := newTestServer()

	resp := handle(t, server, `{"jsonrpc":"2.0","method":"tools/list","id":2}`)
	require.Nil(t, resp.Error)

	data, _ := json.Marshal(resp.Result)
	var result ListToolsResult
	require.NoError(t, json.Unmarshal(data, &result))
	require.Len(t, result.Tools, 7)
	assert.Equal(t, "get_user_stats", result.Tools[0].Name)
	assert.Equal(t, "object", result.Tools[0].InputSchema.Type)
}

func TestHandleRequestToolsCallSuccess(t *testing.T) {
	server, _ := newTestServer()

	resp := handle(t, server,
		`{"jsonrpc":"2.0","method":"tools/call","params":{"name":"add_task","arguments":{"title":"Test"}},"id":1}`)
	require.Nil(t, resp.Error)
	assert.Equal(t, "1", string(resp.ID))

	data, _ := json.Marshal(resp.Result)
	var result CallToolResult
	require.NoError(t, json.Unmarshal(data, &result))
	require.Len(t, result.Content, 1)
	assert.Equal(t, "text", result.Content[0].Type)
	assert.Contains(t, result.Content[0].Text, "Test")
	assert.Contains(t, result.Content[0].Text, "ID: ")
}

func TestHandleRequestToolsCallMissingName(t *testing.T) {
	server, _ := newTestServer()

	resp := handle(t, server, `{"jsonrpc":"2.0","method":"tools/call","params":{},"id":3}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, InvalidParams, resp.Error.Code)
	assert.Equal(t, "Missing tool name", resp.Error.Message)
}

func TestHandleRequestToolsCallUnknownTool(t *testing.T) {
	server, store := newTestServer()

	resp := handle(t, server,
		`{"jsonrpc":"2.0","method":"tools/call","params":{"name":"nope","arguments":{}},"id":4}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, InvalidParams, resp.Error.Code)
	assert.Equal(t, "Tool not found: nope", resp.Error.Message)

	todos, _ := store.FindAllByOwner(context.Background(), "u1")
	assert.Empty(t, todos)
}

func TestHandleRequestToolsCallValidationError(t *testing.T) {
	server, _ := newTestServer()

	resp := handle(t, server,
		`{"jsonrpc":"2.0","method":"tools/call","params":{"name":"update_task","arguments":{"task_id":"not-a-uuid"}},"id":5}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, InvalidParams, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "not a valid UUID")
}

func TestHandleRequestToolsCallInternalErrorIsGeneric(t *testing.T) {
	server := NewMCPServer(NewToolDispatcher(failStore{}))

	data, status := server.HandleRequest(context.Background(), "u1",
		[]byte(`{"jsonrpc":"2.0","method":"tools/call","params":{"name":"list_tasks"},"id":6}`))
	require.Equal(t, fiber.StatusOK, status)

	var resp JSONRPCResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, InternalError, resp.Error.Code)
	assert.Equal(t, "Internal server error", resp.Error.Message)
	assert.NotContains(t, resp.Error.Message, "store touched", "store detail must not leak")
}

func TestHandleRequestNotificationInitialized(t *testing.T) {
	server, _ := newTestServer()

	data, status := server.HandleRequest(context.Background(), "u1",
		[]byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	assert.Nil(t, data)
	assert.Equal(t, fiber.StatusNoContent, status)
}

func TestHandleRequestEchoesIDUnchanged(t *testing.T) {
	server, _ := newTestServer()

	for _, id := range []string{`42`, `"abc"`, `null`} {
		resp := handle(t, server, `{"jsonrpc":"2.0","method":"tools/list","id":`+id+`}`)
		assert.Equal(t, id, string(resp.ID))
	}
}
