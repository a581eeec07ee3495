// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package sim

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/holomush/holosit/internal/seat"
)

// Demo world ids.
const (
	Overworld = "overworld"
	Nether    = "nether"
)

// GroundLevel is the y of the demo floor; players stand at GroundLevel+1.
const GroundLevel = 63

// demoRadius is the half-width of the demo floor.
const demoRadius = 8

// Spawn returns the demo spawn placement in a world.
func Spawn(worldID string) seat.Placement {
	return seat.Placement{
		WorldID:  worldID,
		Position: mgl64.Vec3{0.5, GroundLevel + 1, 0.5},
	}
}

// Landmarks are named standing points in the demo overworld.
var Landmarks = map[string]BlockPos{
	"spawn":  {X: 0, Y: GroundLevel + 1, Z: 0},
	"magma":  {X: 3, Y: GroundLevel + 1, Z: 0},
	"cactus": {X: -3, Y: GroundLevel + 1, Z: 0},
	"pool":   {X: 0, Y: GroundLevel + 1, Z: 4},
	"carpet": {X: 0, Y: GroundLevel + 1, Z: -4},
	"bench":  {X: 4, Y: GroundLevel + 1, Z: 4},
}

// PopulateDemo loads a stone overworld with a few hazards and a sand nether.
func PopulateDemo(h *Host) {
	for _, id := range []string{Overworld, Nether} {
		h.AddWorld(id)
		floor := "STONE"
		if id == Nether {
			floor = "SAND"
		}
		for x := -demoRadius; x <= demoRadius; x++ {
			for z := -demoRadius; z <= demoRadius; z++ {
				_ = h.SetBlock(id, BlockPos{X: x, Y: GroundLevel, Z: z}, floor)
			}
		}
	}

	under := func(name string) BlockPos { return Landmarks[name].Down() }
	_ = h.SetBlock(Overworld, under("magma"), "MAGMA_BLOCK")
	_ = h.SetBlock(Overworld, under("cactus"), "CACTUS")
	_ = h.SetBlock(Overworld, under("pool"), "WATER")
	_ = h.SetBlock(Overworld, Landmarks["pool"], "WATER")
	_ = h.SetBlock(Overworld, under("carpet"), "WHITE_CARPET")
	_ = h.SetBlock(Overworld, under("bench"), "OAK_SLAB")
}

// LandmarkPlacement returns the overworld placement for a landmark name.
func LandmarkPlacement(name string) (seat.Placement, bool) {
	pos, ok := Landmarks[name]
	if !ok {
		return seat.Placement{}, false
	}
	return seat.Placement{WorldID: Overworld, Position: pos.Center()}, true
}
