package ast

// Unsupported stands in for any front-end node outside the vocabulary
// (imports, returns, subscripts, ...). It is both a statement and an
// expression so the compiler can skip it wherever it appears.
type Unsupported struct {
	SpanVal Span
	Kind    string
}

func (n *Unsupported) Span() Span { return n.SpanVal }
func (n *Unsupported) node()      {}
func (n *Unsupported) expr()      {}
func (n *Unsupported) stmt()      {}
