package loader

import (
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
)

// InferLayer determines the layer of a model using, in order:
//  1. a declared layer (config(layer=...) or meta.layer)
//  2. the folder path (staging/<source>/base, staging, intermediate, marts)
//  3. the name prefix (base_, stg_, int_, fct_/dim_, or a bare <objects>__<verb>)
//
// Source and Unit are always taken from the path so naming rules can compare
// a model's name against the folder it lives in.
func InferLayer(m *core.Model, props *core.ModelProperties) core.Placement {
	p := core.PlacementFromPath(m.Dir)

	if declared, ok := declaredLayer(m.Config); ok {
		p.Layer = declared
		return p
	}
	if props != nil {
		if declared, ok := declaredLayer(props.Config); ok {
			p.Layer = declared
			return p
		}
	}
	if p.Layer != core.LayerOther {
		return p
	}
	p.Layer = layerFromName(m.Name)
	return p
}

func declaredLayer(cfg map[string]any) (core.Layer, bool) {
	if cfg == nil {
		return core.LayerOther, false
	}
	if s, ok := cfg["layer"].(string); ok {
		return core.ParseLayer(s)
	}
	if meta, ok := cfg["meta"].(map[string]any); ok {
		if s, ok := meta["layer"].(string); ok {
			return core.ParseLayer(s)
		}
	}
	return core.LayerOther, false
}

func layerFromName(name string) core.Layer {
	if layer, ok := core.PrefixLayer(name); ok {
		return layer
	}
	if strings.Contains(name, "__") {
		return core.LayerIntermediate
	}
	return core.LayerOther
}
