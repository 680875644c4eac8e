package xtract

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterMCP registers extraction tools on an MCP server.
func (p *Pipeline) RegisterMCP(srv *mcp.Server) {
	p.registerExtractTool(srv)
	p.registerClassifyTool(srv)
	p.registerKindsTool(srv)
}

// --- extract ---

type extractReq struct {
	Path string `json:"path" jsonschema:"file path to extract text from"`
}

type extractResp struct {
	Text  string   `json:"text"`
	Kind  string   `json:"kind"`
	Notes []string `json:"notes,omitempty"`
}

func (p *Pipeline) registerExtractTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "textpipe_extract",
		Description: "Extract normalized plain text from a document file (pdf, docx, xlsx, html, rtf, eml, msg, images).",
	}
	mcp.AddTool(srv, tool, func(ctx context.Context, _ *mcp.CallToolRequest, in extractReq) (*mcp.CallToolResult, extractResp, error) {
		res := p.Extract(ctx, FromFile(in.Path, "", ""))
		return nil, extractResp{
			Text:  res.Text,
			Kind:  string(res.Kind),
			Notes: res.Notes,
		}, nil
	})
}

// --- classify ---

type classifyReq struct {
	Filename string `json:"filename" jsonschema:"filename used for extension-based detection"`
	MIME     string `json:"mime,omitempty" jsonschema:"optional MIME type hint"`
}

type classifyResp struct {
	Kind string `json:"kind"`
}

func (p *Pipeline) registerClassifyTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "textpipe_classify",
		Description: "Classify a document by filename and optional MIME type without reading it.",
	}
	mcp.AddTool(srv, tool, func(_ context.Context, _ *mcp.CallToolRequest, in classifyReq) (*mcp.CallToolResult, classifyResp, error) {
		return nil, classifyResp{Kind: string(Classify(in.Filename, in.MIME))}, nil
	})
}

// --- kinds ---

type kindsReq struct{}

type kindsResp struct {
	Kinds []string `json:"kinds"`
}

func (p *Pipeline) registerKindsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "textpipe_kinds",
		Description: "List all supported document kinds.",
	}
	mcp.AddTool(srv, tool, func(_ context.Context, _ *mcp.CallToolRequest, _ kindsReq) (*mcp.CallToolResult, kindsResp, error) {
		kinds := make([]string, 0, len(Kinds()))
		for _, k := range Kinds() {
			kinds = append(kinds, string(k))
		}
		return nil, kindsResp{Kinds: kinds}, nil
	})
}
