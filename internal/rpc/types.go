// ABOUTME: JSON-RPC 2.0 and tool-protocol wire types for the stdio server
// ABOUTME: Request/response envelopes plus the initialize and tool payload shapes

package rpc

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	jsonRPCVersion  = "2.0"
	protocolVersion = "2024-11-05"
)

// JSON-RPC 2.0 error codes used by the server.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32000
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string              `json:"jsonrpc"`
	ID      int64               `json:"id"`
	Method  string              `json:"method"`
	Params  jsoniter.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string              `json:"jsonrpc"`
	ID      int64               `json:"id"`
	Result  jsoniter.RawMessage `json:"result,omitempty"`
	Error   *RPCError           `json:"error,omitempty"`
}

// RPCError is a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return e.Message
}

// InitializeResult is returned from the initialize handshake.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      ServerInfo         `json:"serverInfo"`
}

// ServerCapabilities describes what the server supports.
type ServerCapabilities struct {
	Tools *ToolsCapability `json:"tools,omitempty"`
}

// ToolsCapability indicates tools support.
type ToolsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// ServerInfo identifies the server to clients.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// ToolDescriptor is one advertised tool in a tools/list result.
type ToolDescriptor struct {
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	InputSchema jsoniter.RawMessage `json:"inputSchema,omitempty"`
}

// ToolCallResult is the tools/call result envelope.
type ToolCallResult struct {
	Content []ContentItem `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// ContentItem is one piece of tool result content: text, or a base64 image.
type ContentItem struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Data     string `json:"data,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}
