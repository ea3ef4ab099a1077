package block

import "strings"

// Opcodes whose structural role cannot be read from the shadow/topLevel
// flags alone. Everything else is a stack block.
var (
	hatOpcodes = map[string]bool{
		"event_whenflagclicked":        true,
		"event_whenkeypressed":         true,
		"event_whenthisspriteclicked":  true,
		"event_whenstageclicked":       true,
		"event_whenbackdropswitchesto": true,
		"event_whenbroadcastreceived":  true,
		"event_whengreaterthan":        true,
		"control_start_as_clone":       true,
		"procedures_definition":        true,
	}

	booleanOpcodes = map[string]bool{
		"operator_gt":                  true,
		"operator_lt":                  true,
		"operator_equals":              true,
		"operator_and":                 true,
		"operator_or":                  true,
		"operator_not":                 true,
		"operator_contains":            true,
		"sensing_touchingobject":       true,
		"sensing_touchingcolor":        true,
		"sensing_coloristouchingcolor": true,
		"sensing_keypressed":           true,
		"sensing_mousedown":            true,
		"data_listcontainsitem":        true,
	}

	reporterOpcodes = map[string]bool{
		"motion_xposition":                true,
		"motion_yposition":                true,
		"motion_direction":                true,
		"looks_size":                      true,
		"looks_costumenumbername":         true,
		"looks_backdropnumbername":        true,
		"sound_volume":                    true,
		"sensing_mousex":                  true,
		"sensing_mousey":                  true,
		"sensing_loudness":                true,
		"sensing_timer":                   true,
		"sensing_dayssince2000":           true,
		"sensing_username":                true,
		"sensing_answer":                  true,
		"sensing_current":                 true,
		"sensing_distanceto":              true,
		"sensing_of":                      true,
		"operator_add":                    true,
		"operator_subtract":               true,
		"operator_multiply":               true,
		"operator_divide":                 true,
		"operator_mod":                    true,
		"operator_random":                 true,
		"operator_join":                   true,
		"operator_letter_of":              true,
		"operator_length":                 true,
		"operator_round":                  true,
		"operator_mathop":                 true,
		"data_variable":                   true,
		"data_listcontents":               true,
		"data_itemoflist":                 true,
		"data_itemnumoflist":              true,
		"data_lengthoflist":               true,
		"argument_reporter_string_number": true,
		"argument_reporter_boolean":       true,
		"music_getTempo":                  true,
	}
)

// KindOf infers a block's structural role from its opcode and flags.
func KindOf(opcode string, shadow bool) Kind {
	switch {
	case shadow:
		return ShadowMenu
	case hatOpcodes[opcode]:
		return Hat
	case booleanOpcodes[opcode]:
		return BooleanReporter
	case reporterOpcodes[opcode], strings.HasSuffix(opcode, "_menu"):
		return Reporter
	}
	return Stack
}

// IsHat reports whether opcode starts a script.
func IsHat(opcode string) bool { return hatOpcodes[opcode] }
