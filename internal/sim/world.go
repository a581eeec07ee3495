// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BlockPos addresses one block.
type BlockPos struct {
	X, Y, Z int
}

// BlockAt returns the block containing a point.
func BlockAt(p mgl64.Vec3) BlockPos {
	return BlockPos{
		X: int(math.Floor(p.X())),
		Y: int(math.Floor(p.Y())),
		Z: int(math.Floor(p.Z())),
	}
}

// Down returns the block beneath.
func (b BlockPos) Down() BlockPos {
	return BlockPos{X: b.X, Y: b.Y - 1, Z: b.Z}
}

// Center returns the point at the middle of the block's top face.
func (b BlockPos) Center() mgl64.Vec3 {
	return mgl64.Vec3{float64(b.X) + 0.5, float64(b.Y), float64(b.Z) + 0.5}
}

// world is a sparse block grid. Callers hold Host.mu.
type world struct {
	id     string
	blocks map[BlockPos]Material
}

func newWorld(id string) *world {
	return &world{id: id, blocks: make(map[BlockPos]Material)}
}

func (w *world) block(pos BlockPos) Material {
	if m, ok := w.blocks[pos]; ok {
		return m
	}
	return catalog[Air]
}

func (w *world) setBlock(pos BlockPos, m Material) {
	if m.Name == Air {
		delete(w.blocks, pos)
		return
	}
	w.blocks[pos] = m
}
