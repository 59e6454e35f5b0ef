package guard

import "runtime"

// memoryCheckInterval is how many visited nodes pass between process-memory
// checks during a structural walk.
const memoryCheckInterval = 100

// WalkGuard bounds one file's structural traversal: depth, total node
// count, and a periodic resident-memory check. A WalkGuard is created per
// extraction and is not safe for concurrent use.
type WalkGuard struct {
	limits Limits
	nodes  int
}

// NewWalkGuard returns a guard configured with the given limits.
func NewWalkGuard(limits Limits) *WalkGuard {
	return &WalkGuard{limits: limits}
}

// Nodes returns the number of nodes visited so far.
func (g *WalkGuard) Nodes() int {
	return g.nodes
}

// EnterNode registers a node visit at the given depth. It fails with
// *DepthLimitError past the depth ceiling, and with *ResourceLimitError
// past the node-count or memory ceiling. The memory check runs every 100
// nodes; enforcement is cooperative, interrupting between traversal steps.
func (g *WalkGuard) EnterNode(depth int) error {
	if depth > g.limits.MaxDepth {
		return &DepthLimitError{Depth: depth, Max: g.limits.MaxDepth}
	}
	g.nodes++
	if g.nodes > g.limits.MaxNodes {
		return &ResourceLimitError{
			Resource: "node count",
			Limit:    int64(g.limits.MaxNodes),
			Actual:   int64(g.nodes),
		}
	}
	if g.nodes%memoryCheckInterval == 0 {
		return checkMemory(g.limits.MaxMemoryMB)
	}
	return nil
}

// checkMemory fails with *ResourceLimitError when the heap in use exceeds
// the configured ceiling.
func checkMemory(maxMB int) error {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	limit := int64(maxMB) * 1024 * 1024
	if in := int64(stats.HeapInuse); in > limit {
		return &ResourceLimitError{Resource: "memory", Limit: limit, Actual: in}
	}
	return nil
}
