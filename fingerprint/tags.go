package fingerprint

// ---------------------------------------------------------------------------
// Frozen tag bytes for the fingerprint encoding.
//
// IMPORTANT: These tags are FROZEN. Once assigned, a tag byte must never
// change meaning. Adding new tags is fine; changing existing ones breaks
// every stored fingerprint.
// ---------------------------------------------------------------------------

// Version is the first element of every encoded target. Bumping it
// invalidates all existing fingerprints.
const Version byte = 1

const (
	TagReservedZero byte = 0x00

	// Graph nodes
	TagScript byte = 0x01
	TagBlock  byte = 0x02
	TagShadow byte = 0x03

	// Input contents
	TagLiteral  byte = 0x04
	TagChain    byte = 0x05
	TagObscured byte = 0x06
	TagEmpty    byte = 0x07

	// Target data
	TagTarget   byte = 0x10
	TagVariable byte = 0x11
	TagList     byte = 0x12
)

// allTags lists every defined tag for uniqueness verification in tests.
var allTags = []byte{
	TagReservedZero,
	TagScript, TagBlock, TagShadow,
	TagLiteral, TagChain, TagObscured, TagEmpty,
	TagTarget, TagVariable, TagList,
}
