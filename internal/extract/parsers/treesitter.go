// Package parsers holds the precise extraction tier: tree-sitter walkers
// for languages with an available grammar, plus a go/ast walker for Go.
// Each extractor maps its language's declarations onto the common schema;
// traversal is depth-first with the resource guard consulted before
// descending into each child.
package parsers

import (
	"context"
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/atlasview/codeatlas/internal/guard"
	"github.com/atlasview/codeatlas/internal/model"
)

// treeSitterExtractor provides common tree-sitter functionality embedded by
// every grammar-backed extractor.
type treeSitterExtractor struct {
	language *sitter.Language
	lang     string
	limits   guard.Limits
}

func newTreeSitterExtractor(language *sitter.Language, lang string, limits guard.Limits) *treeSitterExtractor {
	return &treeSitterExtractor{language: language, lang: lang, limits: limits}
}

// Language returns the language tag.
func (e *treeSitterExtractor) Language() string { return e.lang }

// Method reports the precise extraction tier.
func (e *treeSitterExtractor) Method() model.ExtractionMethod { return model.MethodPrecise }

// parse runs the tree-sitter parser under the configured parse timeout and
// returns the syntax tree. The caller owns the tree and must Close it.
func (e *treeSitterExtractor) parse(ctx context.Context, content string) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	if err := parser.SetLanguage(e.language); err != nil {
		parser.Close()
		return nil, fmt.Errorf("set %s grammar: %w", e.lang, err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.limits.ParseTimeout)
	defer cancel()

	done := make(chan *sitter.Tree, 1)
	go func() {
		tree := parser.Parse([]byte(content), nil)
		parser.Close()
		done <- tree
	}()

	select {
	case tree := <-done:
		if tree == nil {
			return nil, fmt.Errorf("parse %s: grammar produced no tree", e.lang)
		}
		return tree, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("parse %s: %w", e.lang, ctx.Err())
	}
}

// walk traverses the tree depth-first, consulting the guard before each
// node. visit returns false to skip a node's children. Guard failures
// abort the walk and surface to the caller.
func walk(node *sitter.Node, g *guard.WalkGuard, depth int, visit func(n *sitter.Node, depth int) bool) error {
	if node == nil {
		return nil
	}
	if err := g.EnterNode(depth); err != nil {
		return err
	}
	if !visit(node, depth) {
		return nil
	}
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		if err := walk(node.Child(i), g, depth+1, visit); err != nil {
			return err
		}
	}
	return nil
}

// nodeText extracts the source text covered by a node.
func nodeText(node *sitter.Node, content string) string {
	if node == nil {
		return ""
	}
	start, end := node.StartByte(), node.EndByte()
	if int(end) > len(content) {
		end = uint(len(content))
	}
	return content[start:end]
}

// nodeLine returns the 1-based line of a node's start position.
func nodeLine(node *sitter.Node) int {
	return int(node.StartPosition().Row) + 1
}

// childByKind finds the first direct child with the given kind.
func childByKind(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		if child := node.Child(i); child.Kind() == kind {
			return child
		}
	}
	return nil
}

// childrenByKind finds all direct children with the given kind.
func childrenByKind(node *sitter.Node, kind string) []*sitter.Node {
	var results []*sitter.Node
	if node == nil {
		return results
	}
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		if child := node.Child(i); child.Kind() == kind {
			results = append(results, child)
		}
	}
	return results
}

// hasKeywordChild reports whether a direct child node is the given keyword
// token. Used for modifiers tree-sitter exposes as anonymous tokens, like
// async.
func hasKeywordChild(node *sitter.Node, keyword string) bool {
	if node == nil {
		return false
	}
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		if node.Child(i).Kind() == keyword {
			return true
		}
	}
	return false
}

// insideDeclaration reports whether a node has an enclosing declaration of
// any of the given kinds. Callables inside one are folded into the owning
// type's method list instead of being promoted to top level.
func insideDeclaration(node *sitter.Node, kinds ...string) bool {
	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		k := parent.Kind()
		for _, kind := range kinds {
			if k == kind {
				return true
			}
		}
	}
	return false
}
