// Package overlay is an on-screen overlay rendering and widget toolkit
// for a handheld console. It composites 4-bit-per-channel pixels into a
// double-buffered layer surface and dispatches controller/touch input
// through a tree of focusable, drawable elements.
//
// # Quick start
//
//	r, err := overlay.New(0, 0, 448, 720, 1.0)
//	if err != nil {
//		// display service unavailable
//	}
//	defer r.Close()
//
//	root := overlay.NewGroup(overlay.NewRect(0, 0, 448, 720))
//	root.AddChild(overlay.NewTrackBar(
//		overlay.NewRect(32, 100, 384, 24),
//		overlay.ColorHighlight, 50, 'V', nil, false))
//
//	gui := overlay.NewGui(r, root)
//	for {
//		gui.HandleInput(readInput())
//		if err := gui.Frame(); err != nil {
//			break
//		}
//	}
//
// # Architecture
//
// The toolkit is organized into:
//   - Core: Rect, Color, FrameBuffer, Renderer. Geometry clipping,
//     4444 alpha blending, and the buffer/fence frame lifecycle
//   - Elements: the Element contract, Base defaults, and the example
//     widgets (Group, DebugRectangle, TrackBar)
//   - display: the surface abstraction over the hardware display
//     service, with software and wgpu implementations
//   - hid: platform input state mirrored per frame
//   - text: glyph drawing through the same DrawRect primitive
//
// All rendering is single-threaded and cooperative: one frame is one
// synchronous pass of buffer dequeue, tree draw, present, vsync wait.
package overlay
