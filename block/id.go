package block

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// Scope says which arena allocated an ID.
type Scope uint8

const (
	// ScopeTarget ids name blocks, variables, lists and procedure
	// arguments inside one target.
	ScopeTarget Scope = iota
	// ScopeProject ids name broadcasts, which every target shares.
	ScopeProject
)

// ID is an arena-allocated identifier. The zero ID means "none".
type ID struct {
	Scope Scope
	N     uint32
}

// NoID is the null reference.
var NoID ID

// IsZero reports whether id is the null reference.
func (id ID) IsZero() bool { return id.N == 0 }

func (id ID) String() string {
	if id.IsZero() {
		return "<none>"
	}
	if id.Scope == ScopeProject {
		return "m" + strconv.FormatUint(uint64(id.N), 10)
	}
	return "#" + strconv.FormatUint(uint64(id.N), 10)
}

// Arena hands out IDs from a monotonic counter, starting at 1.
type Arena struct {
	scope Scope
	next  uint32
}

// NewArena creates an arena for the given scope.
func NewArena(scope Scope) *Arena {
	return &Arena{scope: scope}
}

// Alloc returns a fresh ID.
func (a *Arena) Alloc() ID {
	a.next++
	return ID{Scope: a.scope, N: a.next}
}

// Count returns the number of IDs allocated so far.
func (a *Arena) Count() int { return int(a.next) }

// ---------------------------------------------------------------------------
// Token rendering
// ---------------------------------------------------------------------------

// IDStyle selects how IDs are rendered into project.json tokens.
type IDStyle string

const (
	// StyleCounter renders zero-padded counters: "b0000000000000000042".
	StyleCounter IDStyle = "counter"
	// StyleUUID renders name-based UUIDv5 digests, trimmed to 20 hex
	// characters, so tokens look like the editor's random ids while
	// staying reproducible.
	StyleUUID IDStyle = "uuid"
)

// TokenLen is the length of every token this package generates.
const TokenLen = 20

// Naming renders IDs to the string tokens written into project.json.
// Target-scoped IDs are qualified by the target name (uuid style), project
// IDs by the project name. Tokens recorded while decoding a document take
// precedence so a decoded project re-encodes with its original ids.
type Naming struct {
	Style   IDStyle
	Project string
	Target  string

	decoded map[ID]string
}

// Token returns the project.json token for id.
func (n *Naming) Token(id ID) string {
	if id.IsZero() {
		return ""
	}
	if tok, ok := n.decoded[id]; ok {
		return tok
	}
	prefix, scope := byte('b'), n.Target
	if id.Scope == ScopeProject {
		prefix, scope = 'm', n.Project
	}
	if n.Style == StyleUUID {
		u := uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%c/%s/%d", prefix, scope, id.N)))
		return hex.EncodeToString(u[:])[:TokenLen]
	}
	return fmt.Sprintf("%c%0*d", prefix, TokenLen-1, id.N)
}

// remember records the token a decoded document used for id.
func (n *Naming) remember(id ID, tok string) {
	if n.decoded == nil {
		n.decoded = make(map[ID]string)
	}
	n.decoded[id] = tok
}
