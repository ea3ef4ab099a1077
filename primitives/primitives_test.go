package primitives

import "testing"

func TestLookupShapes(t *testing.T) {
	tests := []struct {
		name     string
		opcode   string
		shape    Shape
		reporter bool
	}{
		{"move", "motion_movesteps", SingleArg, false},
		{"go_to_xy", "motion_gotoxy", MultiArg, false},
		{"x_position", "motion_xposition", Reporter, true},
		{"costume_name", "looks_costumenumbername", FieldReporter, true},
		{"change_effect", "looks_changeeffectby", FieldInput, false},
		{"glide_to", "motion_glideto", Menu, false},
		{"stop", "control_stop", FieldOnly, false},
		{"broadcast", "event_broadcast", BroadcastCall, false},
		{"item_of_list", "data_itemoflist", ListOp, true},
		{"add_to_list", "data_addtolist", ListOp, false},
		{"list_contains", "data_listcontainsitem", ListOp, true},
		{"sqrt", "operator_mathop", MathOp, true},
		{"property_of", "sensing_of", PropertyOf, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := Lookup(tt.name)
			if !ok {
				t.Fatalf("Lookup(%q) failed", tt.name)
			}
			if s.Opcode != tt.opcode {
				t.Errorf("opcode = %q, want %q", s.Opcode, tt.opcode)
			}
			if s.Shape != tt.shape {
				t.Errorf("shape = %d, want %d", s.Shape, tt.shape)
			}
			if s.IsReporter() != tt.reporter {
				t.Errorf("IsReporter = %v, want %v", s.IsReporter(), tt.reporter)
			}
		})
	}
	if _, ok := Lookup("fly_to_moon"); ok {
		t.Error("unknown name should not resolve")
	}
}

func TestByOpcodeCanonicalFirst(t *testing.T) {
	cases := map[string]string{
		"sound_play":              "play_sound",
		"operator_random":         "pick_random",
		"looks_costumenumbername": "costume_number",
		"sensing_current":         "current_year",
	}
	for opcode, want := range cases {
		specs := ByOpcode(opcode)
		if len(specs) == 0 {
			t.Fatalf("ByOpcode(%q) is empty", opcode)
		}
		if specs[0].Name != want {
			t.Errorf("ByOpcode(%q)[0] = %q, want %q", opcode, specs[0].Name, want)
		}
	}
}

func TestEffectFieldsUppercase(t *testing.T) {
	for _, name := range []string{"change_effect", "set_effect", "change_sound_effect", "set_sound_effect"} {
		s, _ := Lookup(name)
		if !s.Upper {
			t.Errorf("%s should uppercase its field", name)
		}
	}
	if s, _ := Lookup("change_layer"); s.Upper {
		t.Error("change_layer should keep its field as written")
	}
}

func TestSentinels(t *testing.T) {
	tests := []struct{ in, want string }{
		{"mouse", "_mouse_"},
		{"Mouse_Pointer", "_mouse_"},
		{"random", "_random_"},
		{"random_position", "_random_"},
		{"edge", "_edge_"},
		{"myself", "_myself_"},
		{"Cat", "Cat"},
	}
	for _, tt := range tests {
		if got := Sentinel(tt.in); got != tt.want {
			t.Errorf("Sentinel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	for _, v := range []string{"_mouse_", "_random_", "_edge_", "_myself_"} {
		if got := Sentinel(FromSentinel(v)); got != v {
			t.Errorf("Sentinel(FromSentinel(%q)) = %q", v, got)
		}
	}
}

func TestKeyOptions(t *testing.T) {
	if got := KeyOption("up"); got != "up arrow" {
		t.Errorf("KeyOption(up) = %q", got)
	}
	if got := KeyOption("a"); got != "a" {
		t.Errorf("KeyOption(a) = %q", got)
	}
	if got := KeyName("left arrow"); got != "left" {
		t.Errorf("KeyName(left arrow) = %q", got)
	}
}

func TestParseHat(t *testing.T) {
	tests := []struct {
		method string
		kind   HatKind
		opcode string
		arg    string
		value  string
	}{
		{"when_flag_clicked", HatFlag, "event_whenflagclicked", "", ""},
		{"when_key_space", HatKey, "event_whenkeypressed", "space", ""},
		{"when_key_up", HatKey, "event_whenkeypressed", "up arrow", ""},
		{"when_clicked", HatClicked, "event_whenthisspriteclicked", "", ""},
		{"when_backdrop_night", HatBackdrop, "event_whenbackdropswitchesto", "night", ""},
		{"when_broadcast_start", HatBroadcast, "event_whenbroadcastreceived", "start", ""},
		{"when_i_start_as_clone", HatClone, "control_start_as_clone", "", ""},
		{"when_loudness_gt_30", HatLoudness, "event_whengreaterthan", "", "30"},
		{"when_loudness_gt_loud", HatLoudness, "event_whengreaterthan", "", "10"},
		{"when_timer_gt_2_5", HatTimer, "event_whengreaterthan", "", "2.5"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			h, ok := ParseHat(tt.method)
			if !ok {
				t.Fatalf("ParseHat(%q) failed", tt.method)
			}
			if h.Kind != tt.kind || h.Arg != tt.arg || h.Value != tt.value {
				t.Errorf("got %+v", h)
			}
			if op := h.Opcode(false); op != tt.opcode {
				t.Errorf("opcode = %q, want %q", op, tt.opcode)
			}
		})
	}
	for _, name := range []string{"when_dancing", "jump", "__init__"} {
		if _, ok := ParseHat(name); ok {
			t.Errorf("ParseHat(%q) should fail", name)
		}
	}
}

func TestHatMethodRoundTrip(t *testing.T) {
	for _, method := range []string{
		"when_flag_clicked", "when_key_space", "when_key_up", "when_clicked",
		"when_broadcast_start", "when_i_start_as_clone",
		"when_loudness_gt_30", "when_timer_gt_2_5",
	} {
		h, _ := ParseHat(method)
		if got := h.Method(); got != method {
			t.Errorf("Method() = %q, want %q", got, method)
		}
	}
}

func TestIdentifier(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Cat", "Cat"},
		{"my sprite", "my_sprite"},
		{"2D-Hero", "_2D_Hero"},
		{"", "Sprite"},
	}
	for _, tt := range tests {
		if got := Identifier(tt.in, "Sprite"); got != tt.want {
			t.Errorf("Identifier(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMenuByOpcode(t *testing.T) {
	m := MenuByOpcode("motion_goto_menu")
	if m == nil || m.Slot != "TO" || !m.Targets {
		t.Fatalf("motion_goto_menu = %+v", m)
	}
	if got := m.ArgValue("_random_"); got != "random" {
		t.Errorf("ArgValue(_random_) = %q", got)
	}
	k := MenuByOpcode("sensing_keyoptions")
	if got := k.MenuValue("right"); got != "right arrow" {
		t.Errorf("MenuValue(right) = %q", got)
	}
}
