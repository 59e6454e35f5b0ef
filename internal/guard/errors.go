package guard

import "fmt"

// SecurityError reports a rejected path: traversal outside the permitted
// root, a denylisted system-path fragment, or forbidden characters. It is
// fatal to the single file being validated, never to the run.
type SecurityError struct {
	Path   string
	Reason string
}

func (e *SecurityError) Error() string {
	return fmt.Sprintf("security: %s: %s", e.Reason, e.Path)
}

// ResourceLimitError reports an exceeded size, memory, node-count, or
// file-count ceiling. It aborts the operation it interrupts; the run
// continues past it where structurally possible.
type ResourceLimitError struct {
	Resource string
	Limit    int64
	Actual   int64
}

func (e *ResourceLimitError) Error() string {
	return fmt.Sprintf("resource limit: %s %d exceeds limit %d", e.Resource, e.Actual, e.Limit)
}

// DepthLimitError reports a structural walk that exceeded the traversal
// depth ceiling.
type DepthLimitError struct {
	Depth int
	Max   int
}

func (e *DepthLimitError) Error() string {
	return fmt.Sprintf("depth limit: depth %d exceeds maximum %d", e.Depth, e.Max)
}
