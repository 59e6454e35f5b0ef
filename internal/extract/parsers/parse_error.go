package parsers

import "fmt"

// ParseError reports malformed source the grammar could not recover from.
// The recovery wrapper catches it and downgrades to the heuristic tier.
type ParseError struct {
	Language string
	Detail   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s parse error: %s", e.Language, e.Detail)
}
