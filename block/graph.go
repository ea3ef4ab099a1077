package block

// Graph is a target's blocks keyed by ID, remembering insertion order so
// encoding and traversal are deterministic.
type Graph struct {
	blocks map[ID]*Block
	order  []ID
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{blocks: make(map[ID]*Block)}
}

// Add inserts b. Adding an ID twice replaces the earlier block in place.
func (g *Graph) Add(b *Block) {
	if _, ok := g.blocks[b.ID]; !ok {
		g.order = append(g.order, b.ID)
	}
	g.blocks[b.ID] = b
}

// Get returns the block with the given id, or nil.
func (g *Graph) Get(id ID) *Block {
	if id.IsZero() {
		return nil
	}
	return g.blocks[id]
}

// Len returns the number of blocks.
func (g *Graph) Len() int { return len(g.order) }

// Blocks returns all blocks in insertion order.
func (g *Graph) Blocks() []*Block {
	out := make([]*Block, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.blocks[id])
	}
	return out
}

// TopLevel returns the script roots in insertion order.
func (g *Graph) TopLevel() []*Block {
	var out []*Block
	for _, id := range g.order {
		if b := g.blocks[id]; b.TopLevel {
			out = append(out, b)
		}
	}
	return out
}

// Chain returns b followed by every block reachable through next links.
// A cycle stops the walk at the first repeated block.
func (g *Graph) Chain(start ID) []*Block {
	var out []*Block
	seen := make(map[ID]bool)
	for id := start; !id.IsZero() && !seen[id]; {
		b := g.blocks[id]
		if b == nil {
			break
		}
		seen[id] = true
		out = append(out, b)
		id = b.Next
	}
	return out
}
