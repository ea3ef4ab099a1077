// Package decompiler renders a Scratch project back into class-based
// source: one class per sprite, one method per script.
//
// The conversion is driven by the primitives table in reverse. Opcodes the
// table does not know are kept visible rather than dropped: statements as
// a "# Unknown: opcode" comment, reporters as an unknown("opcode") call.
package decompiler

import (
	"fmt"
	"strings"

	"github.com/chazu/scratchc/block"
	"github.com/chazu/scratchc/primitives"
)

const header = `"""
Scratch project converted to Python
"""

from scratch.dsl import *
`

const indentUnit = "    "

// Decompile renders p as source. The project is validated first; a
// dangling reference fails with block.ErrInvalidProject.
func Decompile(p *block.Project) (string, error) {
	if p == nil {
		return "", fmt.Errorf("%w: nil project", block.ErrInvalidProject)
	}
	if err := p.Validate(); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(header)

	stage := p.Stage()
	if stage != nil {
		writeGlobals(&sb, stage)
	}
	for _, t := range p.Targets {
		if t.IsStage && len(FindHatBlocks(t)) == 0 {
			continue
		}
		sb.WriteString("\n")
		sb.WriteString(DecompileTarget(t))
	}
	return sb.String(), nil
}

// DecompileTarget renders one target as a class. Stage variables are
// module globals, so only sprites declare their data in the class body.
// t must pass Validate; Decompile checks that before calling it.
func DecompileTarget(t *block.Target) string {
	c := NewConverter(t)
	name := primitives.Identifier(t.Name, "Sprite")
	if t.IsStage {
		name = "Stage"
	}
	lines := []string{"class " + name + ":"}

	declared := false
	if !t.IsStage {
		for _, v := range t.Variables {
			lines = append(lines, indentUnit+primitives.Identifier(v.Name, "var")+" = "+formatValue(v.Value))
			declared = true
		}
		for _, l := range t.Lists {
			lines = append(lines, indentUnit+primitives.Identifier(l.Name, "items")+" = "+formatList(l.Values))
			declared = true
		}
	}

	hats := FindHatBlocks(t)
	if len(hats) == 0 && !declared {
		lines = append(lines, indentUnit+"pass")
	}
	for i, h := range hats {
		if declared || i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, c.ConvertScript(h)...)
	}
	return strings.Join(lines, "\n") + "\n"
}

func writeGlobals(sb *strings.Builder, stage *block.Target) {
	if len(stage.Variables) > 0 {
		sb.WriteString("\n# Global variables\n")
		for _, v := range stage.Variables {
			fmt.Fprintf(sb, "%s = %s\n", primitives.Identifier(v.Name, "var"), formatValue(v.Value))
		}
	}
	if len(stage.Lists) > 0 {
		sb.WriteString("\n# Global lists\n")
		for _, l := range stage.Lists {
			fmt.Fprintf(sb, "%s = %s\n", primitives.Identifier(l.Name, "items"), formatList(l.Values))
		}
	}
}

// FindHatBlocks returns the script roots of t that start a method: event
// hats and procedure definitions, in graph order.
func FindHatBlocks(t *block.Target) []*block.Block {
	var hats []*block.Block
	for _, b := range t.Blocks.TopLevel() {
		if block.IsHat(b.Opcode) {
			hats = append(hats, b)
		}
	}
	return hats
}
