package core

import "strings"

// Placement is where a model sits in the layered folder layout.
type Placement struct {
	Layer  Layer
	Source string // staging/<source>/...
	Unit   string // marts/<unit>/...
}

// PlacementFromPath reads the layer, source and unit implied by a
// slash-separated model directory. Directories outside the layout yield LayerOther.
//
//	staging/stripe            -> staging, source stripe
//	staging/stripe/base       -> base, source stripe
//	marts/finance             -> marts, unit finance
//	marts/finance/intermediate -> intermediate, unit finance
func PlacementFromPath(dir string) Placement {
	p := Placement{Layer: LayerOther}
	if dir == "" || dir == "." {
		return p
	}
	parts := strings.Split(strings.ToLower(dir), "/")

	for i, part := range parts {
		switch part {
		case "staging":
			if p.Layer == LayerOther {
				p.Layer = LayerStaging
			}
			if i+1 < len(parts) && p.Source == "" {
				p.Source = parts[i+1]
			}
		case "base":
			if p.Layer == LayerStaging {
				p.Layer = LayerBase
			}
		case "marts":
			if p.Layer == LayerOther {
				p.Layer = LayerMarts
			}
			if i+1 < len(parts) && parts[i+1] != "intermediate" && p.Unit == "" {
				p.Unit = parts[i+1]
			}
		case "intermediate":
			if p.Layer == LayerOther || p.Layer == LayerMarts {
				p.Layer = LayerIntermediate
			}
		}
	}
	return p
}

// PrefixLayer returns the layer named by a model's prefix
// (base_, stg_, int_, fct_ or dim_).
func PrefixLayer(name string) (Layer, bool) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasPrefix(lower, "base_"):
		return LayerBase, true
	case strings.HasPrefix(lower, "stg_"):
		return LayerStaging, true
	case strings.HasPrefix(lower, "int_"):
		return LayerIntermediate, true
	case strings.HasPrefix(lower, "fct_"), strings.HasPrefix(lower, "dim_"):
		return LayerMarts, true
	}
	return LayerOther, false
}
