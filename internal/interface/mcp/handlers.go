// Package mcp exposes the fetch pipeline as MCP tools. Handlers parse tool
// arguments and delegate to the same orchestrator the HTTP API uses.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"safefetch/internal/domain/entity"
	"safefetch/internal/observability/logging"
	fetchuc "safefetch/internal/usecase/fetch"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names.
const (
	ToolWebFetch    = "web_fetch"
	ToolValidateURL = "validate_url"
)

// FetchArgs defines the arguments for the web_fetch tool.
type FetchArgs struct {
	URL         string `json:"url" jsonschema:"http or https URL to fetch"`
	TextOnly    bool   `json:"text_only,omitempty" jsonschema:"return visible text instead of markup"`
	MainContent bool   `json:"main_content,omitempty" jsonschema:"also extract the main content region"`
	Format      string `json:"format,omitempty" jsonschema:"markdown (default) or html; ignored when text_only is set"`
}

// ValidateArgs defines the arguments for the validate_url tool.
type ValidateArgs struct {
	URL string `json:"url" jsonschema:"URL to check against the network policy"`
}

// FetchService runs one fetch through the orchestrator.
type FetchService interface {
	HandleFetch(ctx context.Context, req fetchuc.Request) (*entity.FetchResult, error)
}

// Handlers provides the MCP tool handlers.
type Handlers struct {
	fetch     FetchService
	validator fetchuc.URLValidator
	logger    *slog.Logger
}

// NewHandlers creates handlers backed by the fetch service and validator.
func NewHandlers(fetch FetchService, validator fetchuc.URLValidator, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{fetch: fetch, validator: validator, logger: logger}
}

// Register adds the tools to server.
func (h *Handlers) Register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolWebFetch,
		Description: "Fetch a public web page and return its title, description and content as Markdown, HTML or plain text. Private and internal addresses are refused.",
	}, h.WebFetch)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolValidateURL,
		Description: "Check whether a URL may be fetched under the network policy without fetching it.",
	}, h.ValidateURL)
}

// WebFetch handles the web_fetch tool call. Fetch failures are reported as
// tool errors carrying the same status and message as the HTTP API.
func (h *Handlers) WebFetch(ctx context.Context, _ *mcp.CallToolRequest, args FetchArgs) (*mcp.CallToolResult, any, error) {
	format := strings.ToLower(strings.TrimSpace(args.Format))
	if format != "" && format != "markdown" && format != "html" {
		return errorResult("invalid format: must be html or markdown"), nil, nil
	}

	ctx = logging.WithLogger(ctx, h.logger)
	h.logger.Debug("web_fetch: fetching", "url", args.URL, "format", format, "text_only", args.TextOnly)

	result, err := h.fetch.HandleFetch(ctx, fetchuc.Request{
		URL:                args.URL,
		TextOnly:           args.TextOnly,
		ExtractMainContent: args.MainContent,
		Markdown:           format != "html",
	})
	if err != nil {
		if f, ok := fetchuc.AsFailure(err); ok {
			return errorResult(fmt.Sprintf("%d: %s", f.StatusCode, f.Message)), nil, nil
		}
		return errorResult("500: An error occurred: " + err.Error()), nil, nil
	}

	return textResult(renderFetchResult(result, args.MainContent)), nil, nil
}

// ValidateURL handles the validate_url tool call. A rejection is a normal
// answer, not a tool error.
func (h *Handlers) ValidateURL(ctx context.Context, _ *mcp.CallToolRequest, args ValidateArgs) (*mcp.CallToolResult, any, error) {
	v := h.validator.Validate(ctx, args.URL)
	if !v.Valid {
		h.logger.Debug("validate_url: rejected", "url", args.URL, "reason", v.Reason)
		return textResult("rejected: " + v.ErrorMessage), nil, nil
	}

	addrs := make([]string, len(v.Addresses))
	for i, a := range v.Addresses {
		addrs[i] = a.String()
	}
	return textResult(fmt.Sprintf("allowed: %s\nresolved: %s", v.URL, strings.Join(addrs, ", "))), nil, nil
}

func renderFetchResult(r *entity.FetchResult, withMain bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "url: %s\n", r.URL)
	if r.Title != "" {
		fmt.Fprintf(&b, "title: %s\n", r.Title)
	}
	if r.Description != "" {
		fmt.Fprintf(&b, "description: %s\n", r.Description)
	}
	if len(r.Keywords) > 0 {
		fmt.Fprintf(&b, "keywords: %s\n", strings.Join(r.Keywords, ", "))
	}
	if withMain && r.MainContent != "" {
		b.WriteString("\n## Main content\n\n")
		b.WriteString(r.MainContent)
		b.WriteString("\n")
	}
	b.WriteString("\n## Content\n\n")
	b.WriteString(r.Content)
	return b.String()
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
