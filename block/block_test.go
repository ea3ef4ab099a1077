package block

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestArenaMonotonic(t *testing.T) {
	a := NewArena(ScopeTarget)
	seen := make(map[ID]bool)
	for i := 0; i < 100; i++ {
		id := a.Alloc()
		if id.IsZero() {
			t.Fatalf("alloc %d returned the null id", i)
		}
		if seen[id] {
			t.Fatalf("alloc %d repeated id %v", i, id)
		}
		seen[id] = true
	}
	if a.Count() != 100 {
		t.Errorf("Count = %d, want 100", a.Count())
	}
}

func TestTokenStyles(t *testing.T) {
	counter := &Naming{Style: StyleCounter, Target: "Cat"}
	if got := counter.Token(ID{N: 42}); got != "b0000000000000000042" {
		t.Errorf("counter token = %q", got)
	}
	if got := counter.Token(ID{Scope: ScopeProject, N: 1}); got != "m0000000000000000001" {
		t.Errorf("project token = %q", got)
	}

	u1 := &Naming{Style: StyleUUID, Target: "Cat"}
	u2 := &Naming{Style: StyleUUID, Target: "Cat"}
	u3 := &Naming{Style: StyleUUID, Target: "Dog"}
	a, b, c := u1.Token(ID{N: 7}), u2.Token(ID{N: 7}), u3.Token(ID{N: 7})
	if len(a) != TokenLen {
		t.Errorf("uuid token length = %d, want %d", len(a), TokenLen)
	}
	if a != b {
		t.Errorf("uuid tokens differ for same input: %q vs %q", a, b)
	}
	if a == c {
		t.Errorf("uuid tokens collide across targets: %q", a)
	}
	if counter.Token(NoID) != "" {
		t.Error("null id should render empty")
	}
}

func TestValueText(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Int(10), "10"},
		{Float(10), "10.0"},
		{Float(0.5), "0.5"},
		{Float(-2.25), "-2.25"},
		{String("hi"), "hi"},
		{Bool(true), "True"},
	}
	for _, tt := range tests {
		if got := tt.v.Text(); got != tt.want {
			t.Errorf("Text(%+v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

// sampleTarget builds: when flag clicked → say "Hi" → move (x)
func sampleTarget() *Target {
	t := NewTarget("Cat")
	t.Sprite = &SpriteState{Visible: true, Size: 100, Direction: 90, RotationStyle: "all around"}
	a := NewArena(ScopeTarget)
	hat := New(a.Alloc(), "event_whenflagclicked", Hat)
	hat.TopLevel = true
	say := New(a.Alloc(), "looks_say", Stack)
	say.SetInput("MESSAGE", TextInput("Hi"))
	move := New(a.Alloc(), "motion_movesteps", Stack)
	xvar := &Variable{ID: a.Alloc(), Name: "x", Value: Int(0)}
	rep := New(a.Alloc(), "data_variable", Reporter)
	rep.Fields["VARIABLE"] = Field{Value: "x", Ref: xvar.ID}
	rep.Parent = move.ID
	move.SetInput("STEPS", ObscuredInput(rep.ID, "0"))

	hat.Next, say.Parent = say.ID, hat.ID
	say.Next, move.Parent = move.ID, say.ID
	for _, b := range []*Block{hat, say, move, rep} {
		t.Blocks.Add(b)
	}
	t.Variables = append(t.Variables, xvar)
	return t
}

func TestEncodeShapes(t *testing.T) {
	p := &Project{Targets: []*Target{sampleTarget()}, Meta: Meta{Semver: "3.0.0"}}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var doc struct {
		Targets []struct {
			Blocks    map[string]map[string]any `json:"blocks"`
			Variables map[string][]any          `json:"variables"`
			Draggable *bool                     `json:"draggable"`
			Tempo     *float64                  `json:"tempo"`
		} `json:"targets"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	target := doc.Targets[0]
	if target.Draggable == nil || *target.Draggable {
		t.Error("sprite should carry draggable=false")
	}
	if target.Tempo != nil {
		t.Error("sprite should not carry tempo")
	}
	say := target.Blocks["b0000000000000000002"]
	if say["opcode"] != "looks_say" {
		t.Fatalf("block 2 = %v", say)
	}
	msg := say["inputs"].(map[string]any)["MESSAGE"]
	if got, _ := json.Marshal(msg); string(got) != `[1,[10,"Hi"]]` {
		t.Errorf("MESSAGE = %s, want [1,[10,\"Hi\"]]", got)
	}
	move := target.Blocks["b0000000000000000003"]
	steps, _ := json.Marshal(move["inputs"].(map[string]any)["STEPS"])
	if string(steps) != `[3,"b0000000000000000005",[4,"0"]]` {
		t.Errorf("STEPS = %s", steps)
	}
	hat := target.Blocks["b0000000000000000001"]
	if hat["parent"] != nil || hat["topLevel"] != true || hat["x"] == nil {
		t.Errorf("hat = %v", hat)
	}
	if _, ok := say["x"]; ok {
		t.Error("non-top-level block should not carry a position")
	}
	v := target.Variables["b0000000000000000004"]
	if len(v) != 2 || v[0] != "x" || v[1] != float64(0) {
		t.Errorf("variable = %v", v)
	}
}

func TestDecodeReencodePreservesTokens(t *testing.T) {
	src := `{
	  "targets": [{
	    "isStage": false, "name": "Cat",
	    "variables": {"v1": ["score", 3]},
	    "lists": {"l1": ["items", ["a", 2]]},
	    "broadcasts": {},
	    "blocks": {
	      "hatA": {"opcode": "event_whenflagclicked", "next": "sayB", "parent": null,
	               "inputs": {}, "fields": {}, "shadow": false, "topLevel": true, "x": 10, "y": 20},
	      "sayB": {"opcode": "looks_say", "next": null, "parent": "hatA",
	               "inputs": {"MESSAGE": [3, [12, "score", "v1"], [10, ""]]},
	               "fields": {}, "shadow": false, "topLevel": false},
	      "loose": [13, "items", "l1", 100, 200]
	    },
	    "comments": {}, "currentCostume": 0, "costumes": [], "sounds": [],
	    "volume": 100, "layerOrder": 1, "visible": true, "x": 0, "y": 0,
	    "size": 100, "direction": 90, "draggable": false, "rotationStyle": "all around"
	  }],
	  "monitors": [], "extensions": [], "meta": {"semver": "3.0.0", "vm": "0.2.0", "agent": ""}
	}`
	p, err := UnmarshalProject([]byte(src))
	if err != nil {
		t.Fatalf("UnmarshalProject failed: %v", err)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	cat := p.Targets[0]
	if cat.Variable("score") == nil || cat.Variable("score").Value.Int != 3 {
		t.Errorf("score variable = %+v", cat.Variable("score"))
	}
	if l := cat.List("items"); l == nil || len(l.Values) != 2 {
		t.Errorf("items list = %+v", l)
	}

	var say *Block
	for _, b := range cat.Blocks.Blocks() {
		if b.Opcode == "looks_say" {
			say = b
		}
	}
	in, _ := say.Input("MESSAGE")
	rep := cat.Blocks.Get(in.Block)
	if rep == nil || rep.Opcode != "data_variable" || rep.Field("VARIABLE") != "score" {
		t.Fatalf("inline variable not expanded: %+v", rep)
	}
	if rep.Parent != say.ID {
		t.Error("expanded reporter should be parented to its consumer")
	}

	var loose *Block
	for _, b := range cat.Blocks.TopLevel() {
		if b.Opcode == "data_listcontents" {
			loose = b
		}
	}
	if loose == nil || loose.X != 100 || loose.Y != 200 {
		t.Errorf("loose list reporter = %+v", loose)
	}

	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	for _, tok := range []string{`"hatA"`, `"sayB"`, `"v1"`, `"l1"`} {
		if !strings.Contains(string(out), tok) {
			t.Errorf("re-encoded project lost token %s", tok)
		}
	}
}

func TestValidateRejectsDanglingIDs(t *testing.T) {
	tests := []struct {
		name  string
		block string
	}{
		{"next", `{"opcode": "motion_movesteps", "next": "ghost", "parent": null, "topLevel": true}`},
		{"parent", `{"opcode": "motion_movesteps", "next": null, "parent": "ghost", "topLevel": false}`},
		{"input", `{"opcode": "motion_movesteps", "parent": null, "topLevel": true,
		            "inputs": {"STEPS": [3, "ghost", [4, "10"]]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := `{"targets": [{"isStage": true, "name": "Stage", "blocks": {"a": ` + tt.block + `}}]}`
			p, err := UnmarshalProject([]byte(src))
			if err != nil {
				t.Fatalf("UnmarshalProject failed: %v", err)
			}
			err = p.Validate()
			if !errors.Is(err, ErrInvalidProject) {
				t.Fatalf("Validate = %v, want ErrInvalidProject", err)
			}
			if !strings.Contains(err.Error(), "ghost") {
				t.Errorf("error should name the dangling token: %v", err)
			}
		})
	}
}

func TestUnmarshalRejectsMissingMembers(t *testing.T) {
	tests := map[string]string{
		"no targets": `{"meta": {}}`,
		"no name":    `{"targets": [{"isStage": true}]}`,
		"no opcode":  `{"targets": [{"name": "S", "blocks": {"a": {"next": null}}}]}`,
		"bad input":  `{"targets": [{"name": "S", "blocks": {"a": {"opcode": "x", "inputs": {"A": [7, null]}}}}]}`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := UnmarshalProject([]byte(src)); !errors.Is(err, ErrInvalidProject) {
				t.Errorf("UnmarshalProject = %v, want ErrInvalidProject", err)
			}
		})
	}
}

func TestValidateNextParentAgreement(t *testing.T) {
	tgt := sampleTarget()
	if err := tgt.Validate(); err != nil {
		t.Fatalf("sample target invalid: %v", err)
	}
	// A reporter must never chain.
	for _, b := range tgt.Blocks.Blocks() {
		if b.Opcode == "data_variable" {
			b.Next = tgt.Blocks.TopLevel()[0].ID
		}
	}
	if err := tgt.Validate(); !errors.Is(err, ErrInvalidProject) {
		t.Errorf("reporter with next: Validate = %v, want ErrInvalidProject", err)
	}
}

func TestValidateOwnership(t *testing.T) {
	find := func(tgt *Target, opcode string) *Block {
		for _, b := range tgt.Blocks.Blocks() {
			if b.Opcode == opcode {
				return b
			}
		}
		t.Fatalf("no %s block", opcode)
		return nil
	}
	tests := []struct {
		name   string
		mutate func(tgt *Target)
	}{
		{"reporter feeds itself", func(tgt *Target) {
			rep := find(tgt, "data_variable")
			rep.SetInput("SELF", ObscuredInput(rep.ID, "0"))
		}},
		{"reporter in two inputs", func(tgt *Target) {
			move, rep := find(tgt, "motion_movesteps"), find(tgt, "data_variable")
			move.SetInput("OTHER", ObscuredInput(rep.ID, "0"))
		}},
		{"input parent disagrees", func(tgt *Target) {
			find(tgt, "data_variable").Parent = find(tgt, "looks_say").ID
		}},
		{"substack holds its owner", func(tgt *Target) {
			say := find(tgt, "looks_say")
			say.SetInput("SUBSTACK", BlockInput(say.ID))
		}},
		{"parents loop", func(tgt *Target) {
			say, move := find(tgt, "looks_say"), find(tgt, "motion_movesteps")
			find(tgt, "event_whenflagclicked").Next = NoID
			say.Parent = move.ID
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tgt := sampleTarget()
			tt.mutate(tgt)
			if err := tgt.Validate(); !errors.Is(err, ErrInvalidProject) {
				t.Errorf("Validate = %v, want ErrInvalidProject", err)
			}
		})
	}
}

func TestProcedureMutationRoundTrip(t *testing.T) {
	tgt := NewTarget("Cat")
	a := NewArena(ScopeTarget)
	def := New(a.Alloc(), "procedures_definition", Hat)
	def.TopLevel = true
	proto := New(a.Alloc(), "procedures_prototype", ShadowMenu)
	proto.Parent = def.ID
	argID := a.Alloc()
	arg := New(a.Alloc(), "argument_reporter_string_number", ShadowMenu)
	arg.Parent = proto.ID
	arg.SetField("VALUE", "height")
	proto.Inputs[ArgSlot(argID)] = MenuInput(arg.ID)
	proto.Mutation = &Mutation{
		ProcCode:         "jump %s",
		ArgumentIDs:      []ID{argID},
		ArgumentNames:    []string{"height"},
		ArgumentDefaults: []string{""},
		Prototype:        true,
	}
	def.SetInput("custom_block", MenuInput(proto.ID))
	for _, b := range []*Block{def, proto, arg} {
		tgt.Blocks.Add(b)
	}

	data, err := json.Marshal(&Project{Targets: []*Target{tgt}})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"argumentnames":"[\"height\"]"`) {
		t.Errorf("argumentnames not JSON-encoded as a string: %s", data)
	}
	if !strings.Contains(string(data), `"warp":"false"`) {
		t.Errorf("warp should be the string \"false\": %s", data)
	}

	p, err := UnmarshalProject(data)
	if err != nil {
		t.Fatalf("UnmarshalProject failed: %v", err)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	procs := p.Targets[0].Procedures
	if len(procs) != 1 || procs[0].Name != "jump" || procs[0].ArgNames[0] != "height" {
		t.Fatalf("procedures = %+v", procs)
	}
	proto2 := p.Targets[0].Blocks.Get(procs[0].Prototype)
	if _, ok := proto2.Inputs[ArgSlot(procs[0].ArgIDs[0])]; !ok {
		t.Error("prototype input should be keyed by the argument id")
	}
}
