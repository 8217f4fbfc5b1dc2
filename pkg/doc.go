// Package pkg holds the libraries behind the timeline command.
//
// # Overview
//
// A timeline places time-stamped events on an axis and labels each one.
// Labels that would overlap are pushed apart along the axis, keeping their
// time order, and a connector joins every label to its event.
//
// The libraries fall into three groups:
//
//  1. Drawing: [chart] hosts a [scene] of SVG elements; [timeline] binds
//     events to it and reconciles shapes between passes
//  2. Layout: [layout] maps directions to screen axes, [layout/force]
//     resolves label collisions, [layout/linkpath] draws connectors and
//     [scale] maps times to positions; [textmetrics] sizes labels
//  3. Plumbing: [source] loads events, [config] reads settings,
//     [pipeline] renders and converts with a [cache], and [render] wraps
//     rsvg-convert
//
// # Data Flow
//
//	events (file, URL, MongoDB)
//	         ↓
//	    [source] package
//	         ↓
//	    [timeline] render pass on a [chart]
//	         ↓
//	    [pipeline] SVG, JSON layout, PNG, PDF
//
// # Quick Start
//
//	c := chart.New(chart.DefaultOptions())
//	tl, err := timeline.New(c, timeline.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	err = c.SetData(timeline.Data(events))
//
// [errors] carries the error codes shared by all packages and
// [observability] the hooks for metrics and tracing.
package pkg
