// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !offscreen && ((darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd)

package vkgpu

import (
	"cogentcore.org/kanban/gpu/driver"
	vk "github.com/goki/vulkan"
)

// ShaderModule is a SPIR-V shader module.
type ShaderModule struct {
	Handle vk.ShaderModule

	dev vk.Device
}

func (d *Device) CreateShaderModule(code []uint32) (driver.ShaderModule, error) {
	var m vk.ShaderModule
	ret := vk.CreateShaderModule(d.Handle, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint64(len(code) * 4),
		PCode:    code,
	}, nil, &m)
	if err := NewError(ret); err != nil {
		return nil, err
	}
	return &ShaderModule{Handle: m, dev: d.Handle}, nil
}

func (m *ShaderModule) Destroy() {
	vk.DestroyShaderModule(m.dev, m.Handle, nil)
}

// pushStages are the stages that see the push constant block.
const pushStages = vk.ShaderStageFlags(vk.ShaderStageVertexBit | vk.ShaderStageFragmentBit)

// Pipeline is a graphics pipeline and its layout.
type Pipeline struct {
	Handle vk.Pipeline
	Layout vk.PipelineLayout

	dev vk.Device
}

// CreatePipeline creates a triangle list pipeline with no vertex input,
// no culling, dynamic viewport and scissor, and one push constant range.
func (d *Device) CreatePipeline(cfg driver.PipelineConfig) (driver.Pipeline, error) {
	pl := &Pipeline{dev: d.Handle}
	layoutInfo := &vk.PipelineLayoutCreateInfo{
		SType: vk.StructureTypePipelineLayoutCreateInfo,
	}
	if cfg.PushConstantSize > 0 {
		layoutInfo.PushConstantRangeCount = 1
		layoutInfo.PPushConstantRanges = []vk.PushConstantRange{{
			StageFlags: pushStages,
			Offset:     0,
			Size:       cfg.PushConstantSize,
		}}
	}
	if err := NewError(vk.CreatePipelineLayout(d.Handle, layoutInfo, nil, &pl.Layout)); err != nil {
		return nil, err
	}

	blend := vk.PipelineColorBlendAttachmentState{
		ColorWriteMask: 0xF,
	}
	if cfg.AlphaBlend {
		blend.BlendEnable = vk.True
		blend.SrcColorBlendFactor = vk.BlendFactorSrcAlpha
		blend.DstColorBlendFactor = vk.BlendFactorOneMinusSrcAlpha
		blend.ColorBlendOp = vk.BlendOpAdd
		blend.SrcAlphaBlendFactor = vk.BlendFactorOne
		blend.DstAlphaBlendFactor = vk.BlendFactorOneMinusSrcAlpha
		blend.AlphaBlendOp = vk.BlendOpAdd
	}

	info := vk.GraphicsPipelineCreateInfo{
		SType:      vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount: 2,
		PStages: []vk.PipelineShaderStageCreateInfo{
			{
				SType:  vk.StructureTypePipelineShaderStageCreateInfo,
				Stage:  vk.ShaderStageVertexBit,
				Module: cfg.Vertex.(*ShaderModule).Handle,
				PName:  "main\x00",
			},
			{
				SType:  vk.StructureTypePipelineShaderStageCreateInfo,
				Stage:  vk.ShaderStageFragmentBit,
				Module: cfg.Fragment.(*ShaderModule).Handle,
				PName:  "main\x00",
			},
		},
		PVertexInputState: &vk.PipelineVertexInputStateCreateInfo{
			SType: vk.StructureTypePipelineVertexInputStateCreateInfo,
		},
		PInputAssemblyState: &vk.PipelineInputAssemblyStateCreateInfo{
			SType:    vk.StructureTypePipelineInputAssemblyStateCreateInfo,
			Topology: vk.PrimitiveTopologyTriangleList,
		},
		PViewportState: &vk.PipelineViewportStateCreateInfo{
			SType:         vk.StructureTypePipelineViewportStateCreateInfo,
			ViewportCount: 1,
			ScissorCount:  1,
		},
		PRasterizationState: &vk.PipelineRasterizationStateCreateInfo{
			SType:       vk.StructureTypePipelineRasterizationStateCreateInfo,
			PolygonMode: vk.PolygonModeFill,
			CullMode:    vk.CullModeFlags(vk.CullModeNone),
			FrontFace:   vk.FrontFaceClockwise,
			LineWidth:   1,
		},
		PMultisampleState: &vk.PipelineMultisampleStateCreateInfo{
			SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
			RasterizationSamples: vk.SampleCount1Bit,
		},
		PColorBlendState: &vk.PipelineColorBlendStateCreateInfo{
			SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
			LogicOpEnable:   vk.False,
			AttachmentCount: 1,
			PAttachments:    []vk.PipelineColorBlendAttachmentState{blend},
		},
		PDynamicState: &vk.PipelineDynamicStateCreateInfo{
			SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
			DynamicStateCount: 2,
			PDynamicStates: []vk.DynamicState{
				vk.DynamicStateViewport,
				vk.DynamicStateScissor,
			},
		},
		Layout:     pl.Layout,
		RenderPass: cfg.RenderPass.(*RenderPass).Handle,
		Subpass:    0,
	}
	pipelines := make([]vk.Pipeline, 1)
	ret := vk.CreateGraphicsPipelines(d.Handle, nil, 1, []vk.GraphicsPipelineCreateInfo{info}, nil, pipelines)
	if err := NewError(ret); err != nil {
		vk.DestroyPipelineLayout(d.Handle, pl.Layout, nil)
		return nil, err
	}
	pl.Handle = pipelines[0]
	return pl, nil
}

func (pl *Pipeline) Destroy() {
	vk.DestroyPipeline(pl.dev, pl.Handle, nil)
	vk.DestroyPipelineLayout(pl.dev, pl.Layout, nil)
}
