package primitives

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/chazu/scratchc/block"
)

// HatKind identifies an event a script can start from.
type HatKind int

const (
	HatFlag HatKind = iota
	HatKey
	HatClicked
	HatBackdrop
	HatBroadcast
	HatClone
	HatLoudness
	HatTimer
)

// Hat is a parsed hat method name.
type Hat struct {
	Kind HatKind
	// Arg is the key option, backdrop name or broadcast message.
	Arg string
	// Value is the threshold of loudness and timer hats, as input text.
	Value string
}

const defaultThreshold = "10"

// ParseHat recognizes a hat method name. Names that start with "when_" but
// match no hat report false like any other name; callers that care tell
// the two apart by prefix.
func ParseHat(method string) (Hat, bool) {
	switch method {
	case "when_flag_clicked":
		return Hat{Kind: HatFlag}, true
	case "when_clicked", "when_this_sprite_clicked":
		return Hat{Kind: HatClicked}, true
	case "when_i_start_as_clone":
		return Hat{Kind: HatClone}, true
	}
	if rest, ok := strings.CutPrefix(method, "when_key_"); ok && rest != "" {
		return Hat{Kind: HatKey, Arg: KeyOption(rest)}, true
	}
	if rest, ok := strings.CutPrefix(method, "when_backdrop_"); ok && rest != "" {
		return Hat{Kind: HatBackdrop, Arg: rest}, true
	}
	if rest, ok := strings.CutPrefix(method, "when_broadcast_"); ok && rest != "" {
		return Hat{Kind: HatBroadcast, Arg: rest}, true
	}
	if rest, ok := strings.CutPrefix(method, "when_loudness_gt_"); ok {
		v := defaultThreshold
		if n, err := strconv.Atoi(rest); err == nil {
			v = strconv.Itoa(n)
		}
		return Hat{Kind: HatLoudness, Value: v}, true
	}
	if rest, ok := strings.CutPrefix(method, "when_timer_gt_"); ok {
		v := defaultThreshold
		if f, err := strconv.ParseFloat(strings.ReplaceAll(rest, "_", "."), 64); err == nil {
			v = block.FormatFloat(f)
		}
		return Hat{Kind: HatTimer, Value: v}, true
	}
	return Hat{}, false
}

// Opcode returns the hat block opcode. Clicks on the stage use the stage
// variant.
func (h Hat) Opcode(stage bool) string {
	switch h.Kind {
	case HatFlag:
		return "event_whenflagclicked"
	case HatKey:
		return "event_whenkeypressed"
	case HatClicked:
		if stage {
			return "event_whenstageclicked"
		}
		return "event_whenthisspriteclicked"
	case HatBackdrop:
		return "event_whenbackdropswitchesto"
	case HatBroadcast:
		return "event_whenbroadcastreceived"
	case HatClone:
		return "control_start_as_clone"
	}
	return "event_whengreaterthan"
}

// Method renders the hat back into a method name.
func (h Hat) Method() string {
	switch h.Kind {
	case HatFlag:
		return "when_flag_clicked"
	case HatKey:
		return "when_key_" + KeyName(h.Arg)
	case HatClicked:
		return "when_clicked"
	case HatBackdrop:
		return "when_backdrop_" + Identifier(h.Arg, "backdrop")
	case HatBroadcast:
		return "when_broadcast_" + Identifier(h.Arg, "message")
	case HatClone:
		return "when_i_start_as_clone"
	case HatLoudness:
		return "when_loudness_gt_" + threshold(h.Value)
	}
	return "when_timer_gt_" + strings.ReplaceAll(threshold(h.Value), ".", "_")
}

// HatOf recovers the hat a top-level block stands for.
func HatOf(b *block.Block, literal func(block.Input) string) (Hat, bool) {
	switch b.Opcode {
	case "event_whenflagclicked":
		return Hat{Kind: HatFlag}, true
	case "event_whenkeypressed":
		return Hat{Kind: HatKey, Arg: b.Field("KEY_OPTION")}, true
	case "event_whenthisspriteclicked", "event_whenstageclicked":
		return Hat{Kind: HatClicked}, true
	case "event_whenbackdropswitchesto":
		return Hat{Kind: HatBackdrop, Arg: b.Field("BACKDROP")}, true
	case "event_whenbroadcastreceived":
		return Hat{Kind: HatBroadcast, Arg: b.Field("BROADCAST_OPTION")}, true
	case "control_start_as_clone":
		return Hat{Kind: HatClone}, true
	case "event_whengreaterthan":
		v := defaultThreshold
		if in, ok := b.Input("VALUE"); ok {
			if s := literal(in); s != "" {
				v = s
			}
		}
		if strings.EqualFold(b.Field("WHENGREATERTHANMENU"), "TIMER") {
			return Hat{Kind: HatTimer, Value: v}, true
		}
		return Hat{Kind: HatLoudness, Value: v}, true
	}
	return Hat{}, false
}

// Identifier turns arbitrary text into a source identifier: every
// character that is not a letter, digit or underscore becomes '_', and a
// leading digit gets a '_' prefix. Empty text yields fallback.
func Identifier(s, fallback string) string {
	var sb strings.Builder
	for _, r := range s {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	id := sb.String()
	if id == "" {
		return fallback
	}
	if unicode.IsDigit(rune(id[0])) {
		return "_" + id
	}
	return id
}

// threshold normalizes a hat threshold to number text, "10" when it is not
// a number.
func threshold(v string) string {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return defaultThreshold
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
