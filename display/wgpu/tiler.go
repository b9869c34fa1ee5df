package wgpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/blocklinear.wgsl
var blockLinearShaderWGSL string

// GOB geometry of the block-linear layout, in 32-bit words.
const (
	gobWords  = 16 // 64 bytes per GOB row
	gobHeight = 8
)

// tilerConfig matches the Config struct in blocklinear.wgsl.
type tilerConfig struct {
	WordsPerRow uint32
	Rows        uint32
	GobWords    uint32
	GobHeight   uint32
}

const tilerConfigSize = 4 * 4

// toBytes serializes the config in little-endian order, matching the
// WGSL uniform layout.
func (c tilerConfig) toBytes() []byte {
	buf := make([]byte, tilerConfigSize)
	le := binary.LittleEndian
	le.PutUint32(buf[0:4], c.WordsPerRow)
	le.PutUint32(buf[4:8], c.Rows)
	le.PutUint32(buf[8:12], c.GobWords)
	le.PutUint32(buf[12:16], c.GobHeight)
	return buf
}

// tiler owns the compute pipeline that converts linear staging memory
// into the block-linear layout scanned out by the display controller.
type tiler struct {
	device hal.Device
	queue  hal.Queue

	shaderModule hal.ShaderModule
	bindLayout   hal.BindGroupLayout
	pipeLayout   hal.PipelineLayout
	pipeline     hal.ComputePipeline

	configBuf hal.Buffer
}

// newTiler compiles the block-linear shader and builds the pipeline.
func newTiler(device hal.Device, queue hal.Queue, wordsPerRow, rows uint32) (*tiler, error) {
	t := &tiler{device: device, queue: queue}

	// Compile WGSL to SPIR-V.
	spirvBytes, err := naga.Compile(blockLinearShaderWGSL)
	if err != nil {
		return nil, fmt.Errorf("wgpu: compile block-linear shader: %w", err)
	}
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	shaderModule, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "blocklinear_shader",
		Source: hal.ShaderSource{SPIRV: spirvCode},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create shader module: %w", err)
	}
	t.shaderModule = shaderModule

	bindLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "blocklinear_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageCompute,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageCompute,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageCompute,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage},
			},
		},
	})
	if err != nil {
		t.destroy()
		return nil, fmt.Errorf("wgpu: create bind group layout: %w", err)
	}
	t.bindLayout = bindLayout

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "blocklinear_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		t.destroy()
		return nil, fmt.Errorf("wgpu: create pipeline layout: %w", err)
	}
	t.pipeLayout = pipeLayout

	pipeline, err := device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  "blocklinear_pipeline",
		Layout: pipeLayout,
		Compute: hal.ComputeState{
			Module:     shaderModule,
			EntryPoint: "tile_main",
		},
	})
	if err != nil {
		t.destroy()
		return nil, fmt.Errorf("wgpu: create compute pipeline: %w", err)
	}
	t.pipeline = pipeline

	config := tilerConfig{
		WordsPerRow: wordsPerRow,
		Rows:        rows,
		GobWords:    gobWords,
		GobHeight:   gobHeight,
	}
	configBuf, err := createAndUploadBuffer(device, queue, "blocklinear_config",
		config.toBytes(), gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		t.destroy()
		return nil, err
	}
	t.configBuf = configBuf

	return t, nil
}

// encode records the tiling dispatch for one slot into a fresh command
// buffer and returns it. The caller submits and frees it.
func (t *tiler) encode(linearBuf, tiledBuf hal.Buffer, linearSize, tiledSize uint64, wordsPerRow, rows uint32) (hal.CommandBuffer, error) {
	bindGroup, err := t.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "blocklinear_bind",
		Layout: t.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: t.configBuf.NativeHandle(), Offset: 0, Size: tilerConfigSize,
			}},
			{Binding: 1, Resource: gputypes.BufferBinding{
				Buffer: linearBuf.NativeHandle(), Offset: 0, Size: linearSize,
			}},
			{Binding: 2, Resource: gputypes.BufferBinding{
				Buffer: tiledBuf.NativeHandle(), Offset: 0, Size: tiledSize,
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create bind group: %w", err)
	}
	defer t.device.DestroyBindGroup(bindGroup)

	encoder, err := t.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "blocklinear_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("blocklinear_present"); err != nil {
		return nil, fmt.Errorf("wgpu: begin encoding: %w", err)
	}

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "blocklinear_pass"})
	pass.SetPipeline(t.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Dispatch((wordsPerRow+7)/8, (rows+7)/8, 1)
	pass.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("wgpu: end encoding: %w", err)
	}
	return cmdBuf, nil
}

// destroy releases pipeline resources. Safe on partially built tilers.
func (t *tiler) destroy() {
	if t.configBuf != nil {
		t.device.DestroyBuffer(t.configBuf)
		t.configBuf = nil
	}
	if t.pipeline != nil {
		t.device.DestroyComputePipeline(t.pipeline)
		t.pipeline = nil
	}
	if t.pipeLayout != nil {
		t.device.DestroyPipelineLayout(t.pipeLayout)
		t.pipeLayout = nil
	}
	if t.bindLayout != nil {
		t.device.DestroyBindGroupLayout(t.bindLayout)
		t.bindLayout = nil
	}
	if t.shaderModule != nil {
		t.device.DestroyShaderModule(t.shaderModule)
		t.shaderModule = nil
	}
}

// createAndUploadBuffer creates a buffer and writes data into it.
func createAndUploadBuffer(device hal.Device, queue hal.Queue, label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %s: %w", label, err)
	}
	queue.WriteBuffer(buf, 0, data)
	return buf, nil
}
