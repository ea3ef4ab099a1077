package primitives

func menu(opcode, slot, def string) *MenuSpec {
	return &MenuSpec{Opcode: opcode, Slot: slot, Default: def}
}

func targetMenu(opcode, slot, def string) *MenuSpec {
	return &MenuSpec{Opcode: opcode, Slot: slot, Default: def, Targets: true}
}

// table is the closed call vocabulary. When several names share an opcode
// the first one listed is what the decompiler emits.
var table = []*Spec{
	// --- Motion ---
	{Name: "move", Opcode: "motion_movesteps", Shape: SingleArg, Inputs: []string{"STEPS"}},
	{Name: "turn_right", Opcode: "motion_turnright", Shape: SingleArg, Inputs: []string{"DEGREES"}},
	{Name: "turn_left", Opcode: "motion_turnleft", Shape: SingleArg, Inputs: []string{"DEGREES"}},
	{Name: "point_in_direction", Opcode: "motion_pointindirection", Shape: SingleArg, Inputs: []string{"DIRECTION"}},
	{Name: "change_x", Opcode: "motion_changexby", Shape: SingleArg, Inputs: []string{"DX"}},
	{Name: "set_x", Opcode: "motion_setx", Shape: SingleArg, Inputs: []string{"X"}},
	{Name: "change_y", Opcode: "motion_changeyby", Shape: SingleArg, Inputs: []string{"DY"}},
	{Name: "set_y", Opcode: "motion_sety", Shape: SingleArg, Inputs: []string{"Y"}},
	{Name: "go_to_xy", Opcode: "motion_gotoxy", Shape: MultiArg, Inputs: []string{"X", "Y"}},
	{Name: "glide_to_xy", Opcode: "motion_glidesecstoxy", Shape: MultiArg, Inputs: []string{"SECS", "X", "Y"}},
	{Name: "go_to", Opcode: "motion_goto", Shape: Menu, Menu: targetMenu("motion_goto_menu", "TO", "_random_")},
	{Name: "glide_to", Opcode: "motion_glideto", Shape: Menu, Inputs: []string{"SECS"}, Menu: targetMenu("motion_glideto_menu", "TO", "_random_")},
	{Name: "point_towards", Opcode: "motion_pointtowards", Shape: Menu, Menu: targetMenu("motion_pointtowards_menu", "TOWARDS", "_mouse_")},
	{Name: "if_on_edge_bounce", Opcode: "motion_ifonedgebounce", Shape: NoArg},
	{Name: "set_rotation_style", Opcode: "motion_setrotationstyle", Shape: FieldOnly, Field: "STYLE"},
	{Name: "x_position", Opcode: "motion_xposition", Shape: Reporter},
	{Name: "y_position", Opcode: "motion_yposition", Shape: Reporter},
	{Name: "direction", Opcode: "motion_direction", Shape: Reporter},

	// --- Looks ---
	{Name: "say", Opcode: "looks_say", Shape: SingleArg, Inputs: []string{"MESSAGE"}},
	{Name: "think", Opcode: "looks_think", Shape: SingleArg, Inputs: []string{"MESSAGE"}},
	{Name: "say_for_secs", Opcode: "looks_sayforsecs", Shape: MultiArg, Inputs: []string{"MESSAGE", "SECS"}},
	{Name: "think_for_secs", Opcode: "looks_thinkforsecs", Shape: MultiArg, Inputs: []string{"MESSAGE", "SECS"}},
	{Name: "switch_costume", Opcode: "looks_switchcostumeto", Shape: Menu, Menu: menu("looks_costume", "COSTUME", "costume1")},
	{Name: "next_costume", Opcode: "looks_nextcostume", Shape: NoArg},
	{Name: "switch_backdrop", Opcode: "looks_switchbackdropto", Shape: Menu, Menu: menu("looks_backdrops", "BACKDROP", "backdrop1")},
	{Name: "next_backdrop", Opcode: "looks_nextbackdrop", Shape: NoArg},
	{Name: "change_size", Opcode: "looks_changesizeby", Shape: SingleArg, Inputs: []string{"CHANGE"}},
	{Name: "set_size", Opcode: "looks_setsizeto", Shape: SingleArg, Inputs: []string{"SIZE"}},
	{Name: "change_effect", Opcode: "looks_changeeffectby", Shape: FieldInput, Field: "EFFECT", Upper: true, Inputs: []string{"CHANGE"}},
	{Name: "set_effect", Opcode: "looks_seteffectto", Shape: FieldInput, Field: "EFFECT", Upper: true, Inputs: []string{"VALUE"}},
	{Name: "clear_effects", Opcode: "looks_cleargraphiceffects", Shape: NoArg},
	{Name: "show", Opcode: "looks_show", Shape: NoArg},
	{Name: "hide", Opcode: "looks_hide", Shape: NoArg},
	{Name: "go_to_layer", Opcode: "looks_gotofrontback", Shape: FieldOnly, Field: "FRONT_BACK"},
	{Name: "change_layer", Opcode: "looks_goforwardbackwardlayers", Shape: FieldInput, Field: "FORWARD_BACKWARD", Inputs: []string{"NUM"}},
	{Name: "costume_number", Opcode: "looks_costumenumbername", Shape: FieldReporter, Field: "NUMBER_NAME", FieldValue: "number"},
	{Name: "costume_name", Opcode: "looks_costumenumbername", Shape: FieldReporter, Field: "NUMBER_NAME", FieldValue: "name"},
	{Name: "backdrop_number", Opcode: "looks_backdropnumbername", Shape: FieldReporter, Field: "NUMBER_NAME", FieldValue: "number"},
	{Name: "backdrop_name", Opcode: "looks_backdropnumbername", Shape: FieldReporter, Field: "NUMBER_NAME", FieldValue: "name"},
	{Name: "size", Opcode: "looks_size", Shape: Reporter},

	// --- Sound ---
	{Name: "play_sound", Opcode: "sound_play", Shape: Menu, Menu: menu("sound_sounds_menu", "SOUND_MENU", "")},
	{Name: "start_sound", Opcode: "sound_play", Shape: Menu, Menu: menu("sound_sounds_menu", "SOUND_MENU", "")},
	{Name: "play_sound_until_done", Opcode: "sound_playuntildone", Shape: Menu, Menu: menu("sound_sounds_menu", "SOUND_MENU", "")},
	{Name: "stop_all_sounds", Opcode: "sound_stopallsounds", Shape: NoArg},
	{Name: "change_sound_effect", Opcode: "sound_changeeffectby", Shape: FieldInput, Field: "EFFECT", Upper: true, Inputs: []string{"VALUE"}},
	{Name: "set_sound_effect", Opcode: "sound_seteffectto", Shape: FieldInput, Field: "EFFECT", Upper: true, Inputs: []string{"VALUE"}},
	{Name: "clear_sound_effects", Opcode: "sound_cleareffects", Shape: NoArg},
	{Name: "change_volume", Opcode: "sound_changevolumeby", Shape: SingleArg, Inputs: []string{"VOLUME"}},
	{Name: "set_volume", Opcode: "sound_setvolumeto", Shape: SingleArg, Inputs: []string{"VOLUME"}},
	{Name: "volume", Opcode: "sound_volume", Shape: Reporter},

	// --- Music extension ---
	{Name: "change_tempo", Opcode: "music_changeTempo", Shape: SingleArg, Inputs: []string{"TEMPO"}, Extension: "music"},
	{Name: "set_tempo", Opcode: "music_setTempo", Shape: SingleArg, Inputs: []string{"TEMPO"}, Extension: "music"},
	{Name: "tempo", Opcode: "music_getTempo", Shape: Reporter, Extension: "music"},

	// --- Events ---
	{Name: "broadcast", Opcode: "event_broadcast", Shape: BroadcastCall, Inputs: []string{"BROADCAST_INPUT"}},
	{Name: "broadcast_and_wait", Opcode: "event_broadcastandwait", Shape: BroadcastCall, Inputs: []string{"BROADCAST_INPUT"}},

	// --- Control ---
	{Name: "wait", Opcode: "control_wait", Shape: SingleArg, Inputs: []string{"DURATION"}},
	{Name: "wait_until", Opcode: "control_wait_until", Shape: WaitUntil, Inputs: []string{"CONDITION"}},
	{Name: "stop", Opcode: "control_stop", Shape: FieldOnly, Field: "STOP_OPTION"},
	{Name: "create_clone", Opcode: "control_create_clone_of", Shape: Menu, Menu: targetMenu("control_create_clone_of_menu", "CLONE_OPTION", "_myself_")},
	{Name: "delete_this_clone", Opcode: "control_delete_this_clone", Shape: NoArg},

	// --- Sensing ---
	{Name: "touching", Opcode: "sensing_touchingobject", Shape: MenuReporter, Boolean: true, Menu: targetMenu("sensing_touchingobjectmenu", "TOUCHINGOBJECTMENU", "_mouse_")},
	{Name: "touching_color", Opcode: "sensing_touchingcolor", Shape: ColorReporter, Boolean: true, Inputs: []string{"COLOR"}},
	{Name: "color_touching_color", Opcode: "sensing_coloristouchingcolor", Shape: ColorReporter, Boolean: true, Inputs: []string{"COLOR", "COLOR2"}},
	{Name: "distance_to", Opcode: "sensing_distanceto", Shape: MenuReporter, Menu: targetMenu("sensing_distancetomenu", "DISTANCETOMENU", "_mouse_")},
	{Name: "key_pressed", Opcode: "sensing_keypressed", Shape: MenuReporter, Boolean: true, Menu: &MenuSpec{Opcode: "sensing_keyoptions", Slot: "KEY_OPTION", Default: "space", Keys: true}},
	{Name: "mouse_down", Opcode: "sensing_mousedown", Shape: Reporter, Boolean: true},
	{Name: "mouse_x", Opcode: "sensing_mousex", Shape: Reporter},
	{Name: "mouse_y", Opcode: "sensing_mousey", Shape: Reporter},
	{Name: "ask", Opcode: "sensing_askandwait", Shape: SingleArg, Inputs: []string{"QUESTION"}},
	{Name: "answer", Opcode: "sensing_answer", Shape: Reporter},
	{Name: "set_drag_mode", Opcode: "sensing_setdragmode", Shape: FieldOnly, Field: "DRAG_MODE"},
	{Name: "loudness", Opcode: "sensing_loudness", Shape: Reporter},
	{Name: "timer", Opcode: "sensing_timer", Shape: Reporter},
	{Name: "reset_timer", Opcode: "sensing_resettimer", Shape: NoArg},
	{Name: "days_since_2000", Opcode: "sensing_dayssince2000", Shape: Reporter},
	{Name: "username", Opcode: "sensing_username", Shape: Reporter},
	{Name: "property_of", Opcode: "sensing_of", Shape: PropertyOf, Field: "PROPERTY", Menu: menu("sensing_of_object_menu", "OBJECT", "_stage_")},
	{Name: "current_year", Opcode: "sensing_current", Shape: FieldReporter, Field: "CURRENTMENU", FieldValue: "YEAR"},
	{Name: "current_month", Opcode: "sensing_current", Shape: FieldReporter, Field: "CURRENTMENU", FieldValue: "MONTH"},
	{Name: "current_date", Opcode: "sensing_current", Shape: FieldReporter, Field: "CURRENTMENU", FieldValue: "DATE"},
	{Name: "current_day", Opcode: "sensing_current", Shape: FieldReporter, Field: "CURRENTMENU", FieldValue: "DAYOFWEEK"},
	{Name: "current_hour", Opcode: "sensing_current", Shape: FieldReporter, Field: "CURRENTMENU", FieldValue: "HOUR"},
	{Name: "current_minute", Opcode: "sensing_current", Shape: FieldReporter, Field: "CURRENTMENU", FieldValue: "MINUTE"},
	{Name: "current_second", Opcode: "sensing_current", Shape: FieldReporter, Field: "CURRENTMENU", FieldValue: "SECOND"},

	// --- Operators ---
	{Name: "pick_random", Opcode: "operator_random", Shape: Random, Inputs: []string{"FROM", "TO"}},
	{Name: "random", Opcode: "operator_random", Shape: Random, Inputs: []string{"FROM", "TO"}},
	{Name: "join", Opcode: "operator_join", Shape: InputReporter, Inputs: []string{"STRING1", "STRING2"}},
	{Name: "letter_of", Opcode: "operator_letter_of", Shape: InputReporter, Inputs: []string{"LETTER", "STRING"}},
	{Name: "length", Opcode: "operator_length", Shape: InputReporter, Inputs: []string{"STRING"}},
	{Name: "contains", Opcode: "operator_contains", Shape: InputReporter, Boolean: true, Inputs: []string{"STRING1", "STRING2"}},
	{Name: "round", Opcode: "operator_round", Shape: InputReporter, Inputs: []string{"NUM"}},
	{Name: "abs", Opcode: "operator_mathop", Shape: MathOp, Field: "OPERATOR", FieldValue: "abs", Inputs: []string{"NUM"}},
	{Name: "floor", Opcode: "operator_mathop", Shape: MathOp, Field: "OPERATOR", FieldValue: "floor", Inputs: []string{"NUM"}},
	{Name: "ceiling", Opcode: "operator_mathop", Shape: MathOp, Field: "OPERATOR", FieldValue: "ceiling", Inputs: []string{"NUM"}},
	{Name: "sqrt", Opcode: "operator_mathop", Shape: MathOp, Field: "OPERATOR", FieldValue: "sqrt", Inputs: []string{"NUM"}},
	{Name: "sin", Opcode: "operator_mathop", Shape: MathOp, Field: "OPERATOR", FieldValue: "sin", Inputs: []string{"NUM"}},
	{Name: "cos", Opcode: "operator_mathop", Shape: MathOp, Field: "OPERATOR", FieldValue: "cos", Inputs: []string{"NUM"}},
	{Name: "tan", Opcode: "operator_mathop", Shape: MathOp, Field: "OPERATOR", FieldValue: "tan", Inputs: []string{"NUM"}},
	{Name: "asin", Opcode: "operator_mathop", Shape: MathOp, Field: "OPERATOR", FieldValue: "asin", Inputs: []string{"NUM"}},
	{Name: "acos", Opcode: "operator_mathop", Shape: MathOp, Field: "OPERATOR", FieldValue: "acos", Inputs: []string{"NUM"}},
	{Name: "atan", Opcode: "operator_mathop", Shape: MathOp, Field: "OPERATOR", FieldValue: "atan", Inputs: []string{"NUM"}},
	{Name: "ln", Opcode: "operator_mathop", Shape: MathOp, Field: "OPERATOR", FieldValue: "ln", Inputs: []string{"NUM"}},
	{Name: "log", Opcode: "operator_mathop", Shape: MathOp, Field: "OPERATOR", FieldValue: "log", Inputs: []string{"NUM"}},
	{Name: "e_pow", Opcode: "operator_mathop", Shape: MathOp, Field: "OPERATOR", FieldValue: "e ^", Inputs: []string{"NUM"}},
	{Name: "ten_pow", Opcode: "operator_mathop", Shape: MathOp, Field: "OPERATOR", FieldValue: "10 ^", Inputs: []string{"NUM"}},

	// --- Variables and lists ---
	{Name: "show_variable", Opcode: "data_showvariable", Shape: VariableField, Field: "VARIABLE"},
	{Name: "hide_variable", Opcode: "data_hidevariable", Shape: VariableField, Field: "VARIABLE"},
	{Name: "add_to_list", Opcode: "data_addtolist", Shape: ListOp, Inputs: []string{"ITEM", ListParam}},
	{Name: "delete_of_list", Opcode: "data_deleteoflist", Shape: ListOp, Inputs: []string{"INDEX", ListParam}},
	{Name: "delete_all_of_list", Opcode: "data_deletealloflist", Shape: ListOp, Inputs: []string{ListParam}},
	{Name: "insert_at_list", Opcode: "data_insertatlist", Shape: ListOp, Inputs: []string{"INDEX", "ITEM", ListParam}},
	{Name: "replace_item_of_list", Opcode: "data_replaceitemoflist", Shape: ListOp, Inputs: []string{"INDEX", "ITEM", ListParam}},
	{Name: "item_of_list", Opcode: "data_itemoflist", Shape: ListOp, Inputs: []string{"INDEX", ListParam}},
	{Name: "item_num_of_list", Opcode: "data_itemnumoflist", Shape: ListOp, Inputs: []string{"ITEM", ListParam}},
	{Name: "length_of_list", Opcode: "data_lengthoflist", Shape: ListOp, Inputs: []string{ListParam}},
	{Name: "list_contains", Opcode: "data_listcontainsitem", Shape: ListOp, Boolean: true, Inputs: []string{ListParam, "ITEM"}},
	{Name: "show_list", Opcode: "data_showlist", Shape: ListOp, Inputs: []string{ListParam}},
	{Name: "hide_list", Opcode: "data_hidelist", Shape: ListOp, Inputs: []string{ListParam}},
}
