package lod

import "github.com/voxelforge/meshkit/meshing/types"

// maxTrackedTypes caps the number of distinct block types counted per
// downsample cell; beyond this, additional types are ignored by the vote
// rather than growing the tally unbounded. Matches the reference
// downsampler, which trades exactness for a fixed-size per-cell scratch.
const maxTrackedTypes = 4

// downsampleCell picks the majority block type among the scale^3 Full-res
// voxels covered by one coarser cell. Air wins outright if it holds a
// strict majority (more than half the voxels); otherwise the most common
// non-tracked-overflow type wins, first-found-wins on ties.
func downsampleCell(voxels *[types.ChunkSizeCb]types.BlockID, baseX, baseY, baseZ, scale int) types.BlockID {
	var types_ [maxTrackedTypes]types.BlockID
	var counts [maxTrackedTypes]int
	tracked := 0

	total := 0
	airCount := 0

	for dz := 0; dz < scale; dz++ {
		for dy := 0; dy < scale; dy++ {
			for dx := 0; dx < scale; dx++ {
				x, y, z := baseX+dx, baseY+dy, baseZ+dz
				if x >= types.ChunkSize || y >= types.ChunkSize || z >= types.ChunkSize {
					continue
				}
				total++
				block := voxels[types.VoxelIndex(x, y, z)]
				if block == types.Air {
					airCount++
					continue
				}

				found := false
				for i := 0; i < tracked; i++ {
					if types_[i] == block {
						counts[i]++
						found = true
						break
					}
				}
				if !found && tracked < maxTrackedTypes {
					types_[tracked] = block
					counts[tracked] = 1
					tracked++
				}
			}
		}
	}

	if total == 0 {
		return types.Air
	}
	if airCount > total/2 {
		return types.Air
	}

	best := types.Air
	bestCount := 0
	for i := 0; i < tracked; i++ {
		if counts[i] > bestCount {
			bestCount = counts[i]
			best = types_[i]
		}
	}
	return best
}

// DownsampleGrid reduces a Full-resolution voxel slab to the cell grid for
// the given level, one majority-voted block type per coarse cell.
func DownsampleGrid(voxels *[types.ChunkSizeCb]types.BlockID, level Level) []types.BlockID {
	scale := level.Scale()
	gridSize := level.GridSize()
	out := make([]types.BlockID, gridSize*gridSize*gridSize)

	for gz := 0; gz < gridSize; gz++ {
		for gy := 0; gy < gridSize; gy++ {
			for gx := 0; gx < gridSize; gx++ {
				block := downsampleCell(voxels, gx*scale, gy*scale, gz*scale, scale)
				out[gz*gridSize*gridSize+gy*gridSize+gx] = block
			}
		}
	}
	return out
}
