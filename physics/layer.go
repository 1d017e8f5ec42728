package physics

// Layer identifies a collision layer in the physics world. Layers 0-31 map
// onto bits of a LayerMask.
type Layer uint8

// LayerIgnoreRaycast is never reported by casts. Sensors park the owner's
// colliders here for the duration of a cast so self-intersection cannot
// register.
const LayerIgnoreRaycast Layer = 2

// LayerMask is a bit set of layers a query may report.
type LayerMask uint32

// MaskAll matches every layer.
const MaskAll LayerMask = ^LayerMask(0)

// MaskOf returns the mask containing only the given layer.
func MaskOf(layer Layer) LayerMask {
	return 1 << uint(layer)
}

// Contains reports whether the mask includes the given layer.
func (m LayerMask) Contains(layer Layer) bool {
	return m&MaskOf(layer) != 0
}

// Without returns the mask with the given layer removed.
func (m LayerMask) Without(layer Layer) LayerMask {
	return m &^ MaskOf(layer)
}
