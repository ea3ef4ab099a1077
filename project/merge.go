package project

import "github.com/chazu/scratchc/block"

// MergeAssets copies looks, sounds and sprite pose from an original project
// onto a rebuilt one, so a decompile/edit/compile round trip keeps the art.
// Targets are matched by name first, then by sprite position. It returns
// the number of targets updated.
func MergeAssets(rebuilt, original *block.Project) int {
	if rebuilt == nil || original == nil {
		return 0
	}
	n := 0
	if dst, src := rebuilt.Stage(), original.Stage(); dst != nil && src != nil {
		copyLooks(dst, src)
		n++
	}

	sources := original.Sprites()
	byName := make(map[string]*block.Target, len(sources))
	for _, t := range sources {
		byName[t.Name] = t
	}
	targets := rebuilt.Sprites()
	match := make([]*block.Target, len(targets))
	used := make(map[*block.Target]bool)
	for i, dst := range targets {
		if src, ok := byName[dst.Name]; ok && !used[src] {
			match[i] = src
			used[src] = true
		}
	}
	for i := range targets {
		if match[i] == nil && i < len(sources) && !used[sources[i]] {
			match[i] = sources[i]
			used[sources[i]] = true
		}
	}

	for i, dst := range targets {
		src := match[i]
		if src == nil {
			log.Debugf("no source sprite for %s", dst.Name)
			continue
		}
		copyLooks(dst, src)
		if src.Sprite != nil {
			pose := *src.Sprite
			dst.Sprite = &pose
		}
		n++
	}
	return n
}

func copyLooks(dst, src *block.Target) {
	if len(src.Costumes) > 0 {
		dst.Costumes = append([]block.Costume(nil), src.Costumes...)
		dst.CurrentCostume = src.CurrentCostume
		if dst.CurrentCostume >= len(dst.Costumes) {
			dst.CurrentCostume = 0
		}
	}
	if len(src.Sounds) > 0 {
		dst.Sounds = append([]block.Sound(nil), src.Sounds...)
	}
	dst.Volume = src.Volume
}
