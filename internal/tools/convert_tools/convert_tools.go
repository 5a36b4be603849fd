package convert_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/drive2md/internal/fault"
	"github.com/teemow/drive2md/internal/server"
	"github.com/teemow/drive2md/internal/tools/common"
)

// ToolName is the name the conversion tool is registered under.
const ToolName = "convert_drive_url"

const toolDescription = `Convert a Google Drive share URL to Markdown.

Accepted references:
  - Google Docs/Sheets/Slides links: https://docs.google.com/{document,spreadsheets,presentation}/d/<id>/...
  - Drive file links: https://drive.google.com/file/d/<id>/...
  - Drive open/content links: https://drive.google.com/open?id=<id>, https://drive.google.com/uc?id=<id>
  - Bare Drive file IDs

Google Docs are exported as Markdown (HTML when the export endpoint does not
support Markdown), Sheets as Markdown tables, Slides as plain text. Markdown,
plain text, CSV and TSV files are downloaded directly. Other content types
are rejected as unsupported.`

// errorPayload is the JSON body of a failed tool call.
type errorPayload struct {
	ErrorKind string `json:"errorKind"`
	Message   string `json:"message"`
}

// RegisterConvertTools registers the conversion tool with the MCP server.
func RegisterConvertTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	convertTool := mcp.NewTool(ToolName,
		mcp.WithDescription(toolDescription),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Google Drive share URL or bare file ID"),
		),
	)

	s.AddTool(convertTool, common.InstrumentedToolHandler(ToolName, sc, handleConvert(sc)))

	return nil
}

// handleConvert returns the tool handler. The handler never returns a Go
// error for conversion failures; they are reported as structured tool errors
// so the MCP client sees the error kind.
func handleConvert(sc *server.ServerContext) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		url, ok := args["url"].(string)
		if !ok || url == "" {
			return toolError(fault.New(fault.InvalidReference, "url is required")), nil
		}

		bearer := server.BearerFromContext(ctx)

		// Keep the client informed while Drive works on a slow export.
		stopProgress := watchProgress(ctx, notifierFromRequest(ctx, request), progressInterval)
		result, err := sc.Converter().Convert(ctx, url, bearer)
		stopProgress()

		if err != nil {
			fe := fault.From(err)
			if invocation := common.InvocationFromContext(ctx); invocation != nil {
				invocation.WithErrorKind(string(fe.Kind))
			}
			if metrics := sc.Metrics(); metrics != nil {
				metrics.RecordConversionFailure(ctx, string(fe.Kind))
			}
			return toolError(fe), nil
		}

		if invocation := common.InvocationFromContext(ctx); invocation != nil {
			invocation.WithFamily(result.Family).WithSourceFormat(result.SourceFormat)
		}
		if metrics := sc.Metrics(); metrics != nil {
			metrics.RecordConversion(ctx, result.SourceFormat, len(result.Markdown))
		}

		payload, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return toolError(fault.New(fault.Internal, "failed to encode result: %v", err)), nil
		}

		return mcp.NewToolResultText(string(payload)), nil
	}
}

// toolError renders a classified failure as a structured tool error.
func toolError(fe *fault.Error) *mcp.CallToolResult {
	payload, err := json.Marshal(errorPayload{
		ErrorKind: string(fe.Kind),
		Message:   fe.Message,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf(`{"errorKind":%q,"message":"internal error"}`, fault.Internal))
	}
	return mcp.NewToolResultError(string(payload))
}
