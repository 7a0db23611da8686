package format

import "fmt"

// NamingStrategy selects how EntityNamer builds a new entity name (spec.md §4.5).
type NamingStrategy int

const (
	// NamingLayerIndex is the default: "<layer>_<type>_<layerIndex padded 4>".
	NamingLayerIndex NamingStrategy = iota
	NamingHandle
	NamingLayerHandle
	NamingBlockName
)

func (s NamingStrategy) String() string {
	switch s {
	case NamingHandle:
		return "handle"
	case NamingLayerHandle:
		return "layer-handle"
	case NamingBlockName:
		return "block-name"
	default:
		return "layer-index"
	}
}

// EntityNamer generates unique, collision-free entity names under one of
// four naming strategies (spec.md §4.5).
type EntityNamer struct {
	Strategy NamingStrategy
}

// NewEntityNamer returns a namer using the given strategy.
func NewEntityNamer(strategy NamingStrategy) *EntityNamer {
	return &EntityNamer{Strategy: strategy}
}

// Generate builds a name for an entity of the given layer/type, ensuring it
// is unique against existing by appending "_1", "_2", ... as needed.
func (n *EntityNamer) Generate(layer, entityType, handle string, layerIndex, globalIndex int, existing map[string]bool, blockName string) string {
	base := n.base(layer, entityType, handle, layerIndex, globalIndex, blockName)
	return dedupe(base, existing)
}

func (n *EntityNamer) base(layer, entityType, handle string, layerIndex, globalIndex int, blockName string) string {
	switch n.Strategy {
	case NamingHandle:
		if handle != "" {
			return fmt.Sprintf("%s_%s", entityType, handle)
		}
		return fmt.Sprintf("%s_%05d", entityType, globalIndex)
	case NamingLayerHandle:
		if handle != "" {
			return fmt.Sprintf("%s_%s", layer, handle)
		}
		return fmt.Sprintf("%s_%s_%04d", layer, entityType, layerIndex)
	case NamingBlockName:
		if blockName != "" {
			return blockName
		}
		return fmt.Sprintf("%s_%s_%04d", layer, entityType, layerIndex)
	default: // NamingLayerIndex
		return fmt.Sprintf("%s_%s_%04d", layer, entityType, layerIndex)
	}
}

func dedupe(base string, existing map[string]bool) string {
	if existing == nil {
		return base
	}
	if !existing[base] {
		existing[base] = true
		return base
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d", base, i)
		if !existing[candidate] {
			existing[candidate] = true
			return candidate
		}
	}
}
