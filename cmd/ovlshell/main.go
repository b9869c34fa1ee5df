// Command ovlshell runs a headless overlay session: it builds a small
// widget tree, feeds it a scripted input sequence, renders a few frames
// into the software surface and writes the final frame as a PNG.
package main

import (
	"flag"
	"image/png"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/nxovl/overlay"
	"github.com/nxovl/overlay/display"
	"github.com/nxovl/overlay/hid"
)

func main() {
	var (
		width   = flag.Int("width", 448, "layer width")
		height  = flag.Int("height", 720, "layer height")
		opacity = flag.Float64("opacity", 1.0, "global overlay opacity")
		frames  = flag.Int("frames", 60, "frames to simulate")
		output  = flag.String("output", "overlay.png", "output file")
		verbose = flag.Bool("v", false, "log to stderr")
	)
	flag.Parse()

	if *verbose {
		overlay.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}

	surface, err := display.NewSoftware(display.Geometry{
		Width:       *width,
		Height:      *height,
		Z:           display.LayerZMax,
		BufferDepth: 2,
		Format:      display.FormatRGBA4444,
	}, display.WithRefresh(time.Millisecond))
	if err != nil {
		log.Fatalf("create surface: %v", err)
	}

	renderer, err := overlay.New(0, 0, *width, *height, *opacity,
		overlay.WithSurface(surface))
	if err != nil {
		log.Fatalf("create renderer: %v", err)
	}
	defer renderer.Close()

	gui := overlay.NewGui(renderer, buildTree(*width, *height))

	for frame := 0; frame < *frames; frame++ {
		gui.HandleInput(scriptedInput(frame))
		if err := gui.Frame(); err != nil {
			log.Fatalf("frame %d: %v", frame, err)
		}
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("create %s: %v", *output, err)
	}
	defer f.Close()
	if err := png.Encode(f, surface.Image()); err != nil {
		log.Fatalf("encode png: %v", err)
	}
	log.Printf("wrote %s (%dx%d, %d frames)", *output, *width, *height, *frames)
}

// buildTree assembles the demo widget tree: a header strip, two track
// bars and a footer marker.
func buildTree(width, height int) overlay.Element {
	root := overlay.NewGroup(overlay.NewRect(0, 0, width, height))

	root.AddChild(overlay.NewDebugRectangle(
		overlay.NewRect(0, 0, width, 48), overlay.ColorHeaderBar.WithA(0x8)))

	volume := overlay.NewTrackBar(
		overlay.NewRect(24, 120, width-48, 24),
		overlay.ColorHighlight, 30, 'v',
		func(v uint8) { log.Printf("volume: %d", v) }, false)
	root.AddChild(volume)

	brightness := overlay.NewTrackBar(
		overlay.NewRect(24, 180, width-48, 24),
		overlay.ColorFrame, 80, 'b', nil, false)
	root.AddChild(brightness)

	root.AddChild(overlay.NewDebugRectangle(
		overlay.NewRect(0, height-8, width, 8), overlay.ColorFrame))
	return root
}

// scriptedInput drives the demo: hold left for a while to raise the
// focused bar, tap down to move focus, then hold right.
func scriptedInput(frame int) hid.State {
	switch {
	case frame < 20:
		return hid.State{HeldKeys: hid.KeyLeft}
	case frame == 20:
		return hid.State{NewKeys: hid.KeyA, HeldKeys: hid.KeyA}
	case frame < 40:
		return hid.State{HeldKeys: hid.KeyRight}
	case frame < 50:
		return hid.State{Touch: &hid.TouchState{X: 100 + frame, Y: 130}}
	default:
		return hid.State{}
	}
}
