// Package fingerprint computes content hashes of block graphs that do not
// depend on block ids. Two compilations of the same source, or a project
// before and after a project.json round trip, fingerprint the same; any
// change to an opcode, literal, field or structure changes the hash.
//
// A target's fingerprint covers its scripts, variables and lists. Names,
// positions, costumes and sounds are not part of it.
package fingerprint

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/fxamacker/cbor/v2"

	"github.com/chazu/scratchc/block"
)

// encMode is canonical CBOR, so equal trees always encode to equal bytes.
var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("fingerprint: failed to create CBOR enc mode: %v", err))
	}
	encMode = em
}

// Sum is a SHA-256 fingerprint.
type Sum [32]byte

func (s Sum) String() string { return hex.EncodeToString(s[:]) }

// Short returns the first 12 hex digits, for logs.
func (s Sum) Short() string { return s.String()[:12] }

// Encode returns the canonical encoding of t that Target hashes.
func Encode(t *block.Target) ([]byte, error) {
	n := newNormalizer(t.Blocks)
	var scripts [][]byte
	for _, top := range t.Blocks.TopLevel() {
		s, err := n.script(top)
		if err != nil {
			return nil, fmt.Errorf("fingerprint: target %q: %w", t.Name, err)
		}
		enc, err := encMode.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("fingerprint: target %q: %w", t.Name, err)
		}
		scripts = append(scripts, enc)
	}
	// Script order carries no meaning.
	sort.Slice(scripts, func(i, j int) bool { return bytes.Compare(scripts[i], scripts[j]) < 0 })

	ht := hTarget{Version: Version, Tag: TagTarget, Stage: t.IsStage, Data: data(t), Scripts: scripts}
	return encMode.Marshal(ht)
}

// Target fingerprints one target.
func Target(t *block.Target) (Sum, error) {
	data, err := Encode(t)
	if err != nil {
		return Sum{}, err
	}
	return sha256.Sum256(data), nil
}

// Script fingerprints the script starting at top.
func Script(t *block.Target, top *block.Block) (Sum, error) {
	s, err := newNormalizer(t.Blocks).script(top)
	if err != nil {
		return Sum{}, fmt.Errorf("fingerprint: target %q: %w", t.Name, err)
	}
	data, err := encMode.Marshal(s)
	if err != nil {
		return Sum{}, fmt.Errorf("fingerprint: target %q: %w", t.Name, err)
	}
	return sha256.Sum256(data), nil
}

// Project fingerprints every target, keyed by target name.
func Project(p *block.Project) (map[string]Sum, error) {
	sums := make(map[string]Sum, len(p.Targets))
	for _, t := range p.Targets {
		s, err := Target(t)
		if err != nil {
			return nil, err
		}
		sums[t.Name] = s
	}
	return sums, nil
}

// Changed returns the names of targets in next whose fingerprint differs
// from the same-named target in prev, or that prev lacks, in next's order.
func Changed(prev, next *block.Project) ([]string, error) {
	before, err := Project(prev)
	if err != nil {
		return nil, err
	}
	var changed []string
	for _, t := range next.Targets {
		s, err := Target(t)
		if err != nil {
			return nil, err
		}
		if old, ok := before[t.Name]; !ok || old != s {
			changed = append(changed, t.Name)
		}
	}
	return changed, nil
}
