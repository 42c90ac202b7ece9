// ABOUTME: Stdio JSON-RPC server exposing the tool dispatcher to remote clients
// ABOUTME: Newline-delimited messages; handles initialize, tools/list, and tools/call

package rpc

import (
	"bufio"
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/deskmote/deskmote/internal/dispatch"
	"github.com/deskmote/deskmote/internal/log"
)

const maxScannerBuffer = 10 * 1024 * 1024 // 10MB

// Server speaks JSON-RPC 2.0 over a reader/writer pair, normally stdin and
// stdout, and routes tools/call requests into the dispatcher.
type Server struct {
	dispatcher *dispatch.Dispatcher
	reader     *bufio.Scanner
	writer     io.Writer
	info       ServerInfo

	// client is the name the peer declared during initialize; it travels on
	// every dispatched call.
	client string
}

// NewServer creates a Server reading requests from r and writing responses to w.
func NewServer(d *dispatch.Dispatcher, r io.Reader, w io.Writer, info ServerInfo) *Server {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, maxScannerBuffer), maxScannerBuffer)

	return &Server{
		dispatcher: d,
		reader:     scanner,
		writer:     w,
		info:       info,
	}
}

// Serve reads JSON-RPC messages until EOF or context cancellation.
func (s *Server) Serve(ctx context.Context) error {
	for s.reader.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := s.reader.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.writeError(0, codeParseError, "parse error")
			continue
		}
		s.handleRequest(ctx, &req)
	}
	return s.reader.Err()
}

func (s *Server) handleRequest(ctx context.Context, req *Request) {
	switch req.Method {
	case "initialize":
		s.handleInitialize(req)
	case "tools/list":
		s.handleToolsList(req)
	case "tools/call":
		s.handleToolsCall(ctx, req)
	case "notifications/initialized":
		// ACK; no response needed
	default:
		s.writeError(req.ID, codeMethodNotFound, fmt.Sprintf("method not found: %s", req.Method))
	}
}

func (s *Server) handleInitialize(req *Request) {
	var params struct {
		ClientInfo struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"clientInfo"`
	}
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			s.writeError(req.ID, codeInvalidParams, "invalid params")
			return
		}
	}
	s.client = params.ClientInfo.Name
	log.Info("client connected: %q", s.client)

	s.writeResult(req.ID, InitializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities: ServerCapabilities{
			Tools: &ToolsCapability{},
		},
		ServerInfo: s.info,
	})
}

func (s *Server) handleToolsList(req *Request) {
	tools := s.dispatcher.Tools()
	out := make([]ToolDescriptor, 0, len(tools))
	for _, t := range tools {
		schema, err := json.Marshal(t.InputSchema())
		if err != nil {
			s.writeError(req.ID, codeInternalError, fmt.Sprintf("rendering schema for %s", t.Name))
			return
		}
		out = append(out, ToolDescriptor{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: schema,
		})
	}
	s.writeResult(req.ID, map[string]any{"tools": out})
}

func (s *Server) handleToolsCall(ctx context.Context, req *Request) {
	var params struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.writeError(req.ID, codeInvalidParams, "invalid params")
		return
	}

	res := s.dispatcher.Dispatch(ctx, &dispatch.Call{
		Tool:   params.Name,
		Args:   params.Arguments,
		Client: s.client,
	})
	s.writeResult(req.ID, toolCallResult(res))
}

// toolCallResult converts a dispatch outcome into protocol content. Failures
// stay in-band as isError results so the client sees the failure kind.
func toolCallResult(res dispatch.Result) ToolCallResult {
	if !res.OK() {
		return ToolCallResult{
			IsError: true,
			Content: []ContentItem{{
				Type: "text",
				Text: fmt.Sprintf("%s: %s", res.Failure.Kind, res.Failure.Message),
			}},
		}
	}

	var content []ContentItem
	if res.Payload.Text != "" {
		content = append(content, ContentItem{Type: "text", Text: res.Payload.Text})
	}
	if frame := res.Payload.Frame; frame != nil {
		content = append(content, ContentItem{
			Type:     "image",
			Data:     base64.StdEncoding.EncodeToString(frame.Data),
			MimeType: "image/" + frame.Format,
		})
	}
	if len(content) == 0 {
		content = []ContentItem{{Type: "text", Text: "ok"}}
	}
	return ToolCallResult{Content: content}
}

func (s *Server) writeResult(id int64, result any) {
	data, err := json.Marshal(result)
	if err != nil {
		s.writeError(id, codeInternalError, "encoding result")
		return
	}
	s.write(Response{JSONRPC: jsonRPCVersion, ID: id, Result: data})
}

func (s *Server) writeError(id int64, code int, message string) {
	s.write(Response{JSONRPC: jsonRPCVersion, ID: id, Error: &RPCError{Code: code, Message: message}})
}

func (s *Server) write(resp Response) {
	out, err := json.Marshal(resp)
	if err != nil {
		log.Error("encoding response for id %d: %v", resp.ID, err)
		return
	}
	fmt.Fprintf(s.writer, "%s\n", out)
}
