package primitives

import "strings"

// ---------------------------------------------------------------------------
// Symbolic menu values
// ---------------------------------------------------------------------------

var sentinels = map[string]string{
	"random":          "_random_",
	"random_position": "_random_",
	"mouse":           "_mouse_",
	"mouse_pointer":   "_mouse_",
	"edge":            "_edge_",
	"myself":          "_myself_",
	"stage":           "_stage_",
}

var sentinelNames = map[string]string{
	"_random_": "random",
	"_mouse_":  "mouse",
	"_edge_":   "edge",
	"_myself_": "myself",
	"_stage_":  "stage",
}

// Sentinel maps a symbolic target ("mouse") to its menu value ("_mouse_").
// Other names pass through unchanged.
func Sentinel(name string) string {
	if s, ok := sentinels[strings.ToLower(name)]; ok {
		return s
	}
	return name
}

// FromSentinel maps a menu value back to its symbolic name.
func FromSentinel(value string) string {
	if n, ok := sentinelNames[value]; ok {
		return n
	}
	return value
}

var keyOptions = map[string]string{
	"space": "space",
	"up":    "up arrow",
	"down":  "down arrow",
	"left":  "left arrow",
	"right": "right arrow",
	"any":   "any",
}

// KeyOption maps a key name ("up") to its KEY_OPTION value ("up arrow").
func KeyOption(name string) string {
	if k, ok := keyOptions[name]; ok {
		return k
	}
	return strings.ReplaceAll(name, "_", " ")
}

// KeyName is the inverse of KeyOption, also usable as a method suffix.
func KeyName(option string) string {
	k := strings.ToLower(option)
	k = strings.ReplaceAll(k, " arrow", "")
	return strings.ReplaceAll(k, " ", "_")
}

// MenuValue translates a call argument into the value stored on m's menu.
func (m *MenuSpec) MenuValue(arg string) string {
	switch {
	case m.Targets:
		return Sentinel(arg)
	case m.Keys:
		return KeyOption(arg)
	}
	return arg
}

// ArgValue translates a menu value back into the call argument.
func (m *MenuSpec) ArgValue(value string) string {
	switch {
	case m.Targets:
		return FromSentinel(value)
	case m.Keys:
		return KeyName(value)
	}
	return value
}

// MenuByOpcode finds the menu spec for a shadow menu opcode.
func MenuByOpcode(opcode string) *MenuSpec {
	for _, s := range table {
		if s.Menu != nil && s.Menu.Opcode == opcode {
			return s.Menu
		}
	}
	return nil
}
