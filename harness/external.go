package harness

import (
	"context"
	"errors"
)

// ErrExternalToolUnavailable is returned by the stub external-tool
// implementations; a reimplementation wires a real PlantUML jar /
// draw.io export binary behind these same interfaces.
var ErrExternalToolUnavailable = errors.New("harness: external tool unavailable")

// PlantUMLRenderer renders PlantUML source to its reference SVG, the
// "reference" side of the comparison harness (spec.md §4.5). Its
// concrete implementation (a PlantUML jar invocation) is explicitly
// out of scope for this repository's core; only the interface is.
type PlantUMLRenderer interface {
	RenderSVG(ctx context.Context, plantUMLSource string) ([]byte, error)
}

// DrawioExporter rasterizes a draw.io XML document to PNG, the
// "candidate" side of the optional vision-API comparison path. Its
// concrete implementation (a draw.io export invocation) is likewise
// out of scope; only the interface is specified.
type DrawioExporter interface {
	ExportPNG(ctx context.Context, drawioXML string) ([]byte, error)
}

// UnavailableRenderer and UnavailableExporter are stubs satisfying the
// two interfaces above without shelling out to anything; they let the
// harness and its tests exercise the comparison pipeline end to end
// without a real PlantUML jar or draw.io binary on the machine running
// them.
type UnavailableRenderer struct{}

func (UnavailableRenderer) RenderSVG(ctx context.Context, plantUMLSource string) ([]byte, error) {
	return nil, ErrExternalToolUnavailable
}

type UnavailableExporter struct{}

func (UnavailableExporter) ExportPNG(ctx context.Context, drawioXML string) ([]byte, error) {
	return nil, ErrExternalToolUnavailable
}
