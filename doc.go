// Package timeplot renders time series and events onto a gg drawing
// surface embedded in a host container.
//
// # Overview
//
// A Timeplot owns one container. Its plots contribute paint actions to two
// layers: each plot's time and value geometries paint grids in the
// background layer, the plot itself paints its series in the foreground
// layer. Paint requests are coalesced: any number of calls to Paint within
// the paint delay (20ms by default) produce one paint pass, which clears
// the surface and runs the background actions, then the foreground ones.
//
// # Quick Start
//
//	box := surface.NewBox(800, 300, surface.Uniform(10))
//	es := data.NewEventSource()
//	info := plot.NewInfo(
//		plot.WithDataSource(data.NewColumnSource(es, 1)),
//		plot.WithFillColor("#cc8080"),
//	)
//
//	tp, err := timeplot.Create(box, []plot.Info{info})
//	if err != nil {
//		return err
//	}
//	defer tp.Dispose()
//
//	// Loading data notifies the timeplot, which rescales and repaints.
//	err = tp.LoadText(ctx, "data.csv", ',', es, nil)
//
// # Resizing
//
// Paint assumes the surface geometry is unchanged. After the container is
// resized call Repaint, which re-reads the container, resizes the surface,
// recomputes the padding and resets every geometry before requesting a
// paint.
//
// # Coordinate System
//
// Paint actions draw with the origin at the bottom-left of the drawable
// area and y increasing upward. Overlays (labels, grids, message bubbles)
// are positioned relative to the drawable area too; the padding between
// the container and the drawable area is added on placement.
package timeplot

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
