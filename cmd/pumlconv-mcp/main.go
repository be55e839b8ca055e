// Command pumlconv-mcp exposes the PlantUML-to-draw.io conversion
// pipeline as an MCP tool, grounded on mikills-tinkerings/charts's
// mcp.NewTool/server.AddTool/BindArguments registration pattern.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jgraph/plantuml-drawio/convert"
)

// ConvertArgs is the input schema for the plantuml-to-drawio tool.
type ConvertArgs struct {
	PlantUML string `json:"plantuml" jsonschema:"description=PlantUML diagram source text,required"`
	Family   string `json:"family,omitempty" jsonschema:"description=Diagram family override (sequence, class, component, state, timing); auto-detected if omitted"`
}

func validateConvertArgs(args ConvertArgs) error {
	if args.PlantUML == "" {
		return fmt.Errorf("plantuml must not be empty")
	}
	return nil
}

func handleConvert(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args ConvertArgs
	if err := req.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("bind arguments: %v", err)), nil
	}
	if err := validateConvertArgs(args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	xml, err := convert.Convert(args.PlantUML, convert.Family(args.Family))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(xml), nil
}

func main() {
	_, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := server.NewMCPServer("plantuml-drawio-converter", "1.0.0")

	tool := mcp.NewTool(
		"plantuml-to-drawio",
		mcp.WithDescription(`Converts PlantUML diagram source into a draw.io (mxGraph) XML document.
			Supports sequence, class, component/deployment, use-case, state, and timing diagrams.
			The family is auto-detected from the @start directive or diagram content unless overridden.`),
		mcp.WithInputSchema[ConvertArgs](),
	)
	srv.AddTool(tool, handleConvert)

	if err := server.ServeStdio(srv); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}
