// Package guard enforces path and resource safety for the analysis
// pipeline: path-traversal validation, file-size ceilings, and the depth,
// node-count, and memory bounds consulted during structural walks.
package guard

import "time"

// Limits holds the process-wide resource configuration. It is an immutable
// value threaded through constructors at startup and never mutated mid-run.
type Limits struct {
	// MaxFileSizeMB bounds the size of any single file the reader accepts.
	MaxFileSizeMB int

	// MaxWalkFileSizeMB bounds files the project walker enumerates;
	// larger files are skipped, not failed.
	MaxWalkFileSizeMB int

	// MaxDepth bounds traversal depth during a structural walk.
	MaxDepth int

	// MaxNodes bounds the number of nodes visited during one file's walk.
	MaxNodes int

	// MaxMemoryMB bounds resident heap usage, checked every 100 nodes.
	MaxMemoryMB int

	// MaxFiles bounds the number of files processed in one run. Hitting
	// the ceiling stops enumeration gracefully.
	MaxFiles int

	// ParseTimeout bounds one precise parse attempt.
	ParseTimeout time.Duration

	// RegexTimeout bounds one heuristic pattern family's matching.
	RegexTimeout time.Duration

	// MaxContentLen caps the text length heuristic patterns scan,
	// bounding ReDoS blast radius regardless of timeout.
	MaxContentLen int
}

// DefaultLimits returns the stock configuration.
func DefaultLimits() Limits {
	return Limits{
		MaxFileSizeMB:     5,
		MaxWalkFileSizeMB: 10,
		MaxDepth:          100,
		MaxNodes:          100000,
		MaxMemoryMB:       500,
		MaxFiles:          10000,
		ParseTimeout:      5 * time.Second,
		RegexTimeout:      5 * time.Second,
		MaxContentLen:     100000,
	}
}
