// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package sim

import (
	"slices"
	"strings"
)

// Material is a block type.
type Material struct {
	Name   string
	Solid  bool
	Liquid bool
}

// Air is the material of every block not explicitly set.
const Air = "AIR"

var catalog = map[string]Material{}

func register(name string, solid, liquid bool) {
	catalog[name] = Material{Name: name, Solid: solid, Liquid: liquid}
}

func init() {
	register(Air, false, false)
	for _, name := range []string{
		"STONE", "GRASS_BLOCK", "DIRT", "OAK_PLANKS", "OAK_SLAB", "SAND", "GLASS",
		"MAGMA_BLOCK", "CACTUS", "CAMPFIRE", "SOUL_CAMPFIRE",
	} {
		register(name, true, false)
	}
	for _, name := range []string{"WATER", "LAVA"} {
		register(name, false, true)
	}
	for _, name := range []string{"SHORT_GRASS", "WHITE_CARPET", "TORCH", "SWEET_BERRY_BUSH"} {
		register(name, false, false)
	}
}

// LookupMaterial finds a material by case-insensitive name.
func LookupMaterial(name string) (Material, bool) {
	m, ok := catalog[strings.ToUpper(name)]
	return m, ok
}

// MaterialNames lists every known material, sorted.
func MaterialNames() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
