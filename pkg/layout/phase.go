package layout

import "math"

// Phase derives a stable animation phase in [0, 2π) from a node id using
// an FNV-1a hash. Both layout algorithms use it to de-synchronize per-node
// oscillation: the same id always gets the same phase, so animation state
// survives rebuilds and the ensemble never looks mechanically synchronized.
func Phase(id string) float64 {
	var h uint32 = 2166136261
	for i := 0; i < len(id); i++ {
		h ^= uint32(id[i])
		h *= 16777619
	}
	return 2 * math.Pi * float64(h%4096) / 4096
}
