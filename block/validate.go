package block

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidProject reports a structurally broken project: a dangling id,
// a missing required member, or a violated graph invariant.
var ErrInvalidProject = errors.New("block: invalid project")

// Validate checks every target's graph.
func (p *Project) Validate() error {
	for _, t := range p.Targets {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the graph invariants of one target:
//   - parent, next and input references resolve within the graph;
//   - only stack and hat blocks carry a next link;
//   - a block reached through a next link or an input names the block
//     that reaches it as its parent, and is reached only once;
//   - hats are top-level without a parent;
//   - every block that is not top-level has a parent, and following
//     parents from any block ends at a root.
//
// Together these make every script a finite tree, so a walk over next
// links and inputs always terminates.
func (t *Target) Validate() error {
	n := naming(t)
	fail := func(b *Block, format string, args ...any) error {
		return fmt.Errorf("%w: target %q: block %s (%s): %s",
			ErrInvalidProject, t.Name, n.Token(b.ID), b.Opcode, fmt.Sprintf(format, args...))
	}
	g := t.Blocks
	owner := make(map[ID]ID, g.Len())
	claim := func(b *Block, what string, child ID) error {
		c := g.Get(child)
		if c == nil {
			return fail(b, "%s references missing block %s", what, n.Token(child))
		}
		if prev, ok := owner[child]; ok {
			return fail(b, "%s block %s is already referenced by %s", what, n.Token(child), n.Token(prev))
		}
		owner[child] = b.ID
		if c.Parent != b.ID {
			return fail(b, "%s block %s names parent %s", what, n.Token(child), n.Token(c.Parent))
		}
		return nil
	}

	for _, b := range g.Blocks() {
		if !b.Parent.IsZero() && g.Get(b.Parent) == nil {
			return fail(b, "parent %s does not resolve", n.Token(b.Parent))
		}
		if !b.Next.IsZero() {
			if g.Get(b.Next) == nil {
				return fail(b, "next %s does not resolve", n.Token(b.Next))
			}
			if !b.Kind.Chains() {
				return fail(b, "%s block has a next link", b.Kind)
			}
			if err := claim(b, "next", b.Next); err != nil {
				return err
			}
		}
		for _, key := range sortedInputKeys(b.Inputs) {
			name := key.Name
			if name == "" {
				name = n.Token(key.Arg)
			}
			for _, ref := range b.Inputs[key].Refs() {
				if err := claim(b, "input "+name, ref); err != nil {
					return err
				}
			}
		}
		if b.Kind == Hat && (!b.TopLevel || !b.Parent.IsZero()) {
			return fail(b, "hat block is not a top-level root")
		}
		if !b.TopLevel && b.Parent.IsZero() {
			return fail(b, "detached block has no parent")
		}
	}

	// Parent chains must end at a root.
	rooted := make(map[ID]bool, g.Len())
	for _, b := range g.Blocks() {
		var path []ID
		onPath := make(map[ID]bool)
		for id := b.ID; !id.IsZero() && !rooted[id]; id = g.Get(id).Parent {
			if onPath[id] {
				return fail(b, "parent chain loops through %s", n.Token(id))
			}
			onPath[id] = true
			path = append(path, id)
		}
		for _, id := range path {
			rooted[id] = true
		}
	}
	return nil
}

// sortedInputKeys orders input keys so validation reports the same error on
// every run: named slots by name, then argument slots by id.
func sortedInputKeys(inputs map[InputKey]Input) []InputKey {
	keys := make([]InputKey, 0, len(inputs))
	for k := range inputs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.Arg.Scope != b.Arg.Scope {
			return a.Arg.Scope < b.Arg.Scope
		}
		return a.Arg.N < b.Arg.N
	})
	return keys
}
