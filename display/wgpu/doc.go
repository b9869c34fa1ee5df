// Package wgpu provides a GPU-backed display surface using gogpu/wgpu.
//
// The surface keeps linear staging slots on the CPU for the compositor
// to write, and on Queue uploads the dirty slot to the GPU where a
// naga-compiled compute pass converts it into the block-linear layout
// the display controller scans out. Buffer reuse is guarded by hal
// fences: a slot dequeued before its tiling pass completed carries the
// pending fence in its FenceSet.
//
// Importing this package registers the "wgpu" surface in the display
// registry:
//
//	import _ "github.com/nxovl/overlay/display/wgpu"
package wgpu
