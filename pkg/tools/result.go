package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/glmaps/mapmcp/pkg/geo"
	"github.com/mark3labs/mcp-go/mcp"
)

// Content is one content item in a tool result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Result is the uniform envelope every tool handler returns. Callers branch
// on IsError and otherwise read LayerID, SourceID or Data when present.
type Result struct {
	Content  []Content              `json:"content"`
	IsError  bool                   `json:"isError"`
	LayerID  string                 `json:"layerId,omitempty"`
	SourceID string                 `json:"sourceId,omitempty"`
	Data     *geo.FeatureCollection `json:"data,omitempty"`
}

// textResult builds a success envelope with a single text content item.
func textResult(format string, args ...any) *Result {
	return &Result{
		Content: []Content{{Type: "text", Text: fmt.Sprintf(format, args...)}},
	}
}

// errorResult builds an error envelope with a single text content item.
func errorResult(format string, args ...any) *Result {
	return &Result{
		Content: []Content{{Type: "text", Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

// Text returns the concatenated text of all content items.
func (r *Result) Text() string {
	parts := make([]string, 0, len(r.Content))
	for _, c := range r.Content {
		parts = append(parts, c.Text)
	}
	return strings.Join(parts, "\n")
}

// ToCallToolResult converts the envelope to the MCP wire shape. Envelopes
// carrying layer/source identifiers or feature data are serialized whole so
// the caller keeps access to every field.
func (r *Result) ToCallToolResult() *mcp.CallToolResult {
	if r.IsError {
		return mcp.NewToolResultError(r.Text())
	}
	if r.LayerID == "" && r.SourceID == "" && r.Data == nil {
		return mcp.NewToolResultText(r.Text())
	}
	payload, err := json.Marshal(r)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: failed to encode result: %v", err))
	}
	return mcp.NewToolResultText(string(payload))
}
