package types

// UniformChunk returns a chunk filled entirely with blockID.
func UniformChunk(blockID BlockID) *[ChunkSizeCb]BlockID {
	var v [ChunkSizeCb]BlockID
	for i := range v {
		v[i] = blockID
	}
	return &v
}

// CheckerboardChunk returns a chunk where voxel (x+y+z)%2==0 is blockID and
// all others are air.
func CheckerboardChunk(blockID BlockID) *[ChunkSizeCb]BlockID {
	var v [ChunkSizeCb]BlockID
	for z := 0; z < ChunkSize; z++ {
		for y := 0; y < ChunkSize; y++ {
			for x := 0; x < ChunkSize; x++ {
				if (x+y+z)%2 == 0 {
					v[VoxelIndex(x, y, z)] = blockID
				}
			}
		}
	}
	return &v
}

// TerrainChunk returns a synthetic layered terrain: a wavy height field with
// three block-type bands (bedrock-ish, mid, surface).
func TerrainChunk() *[ChunkSizeCb]BlockID {
	var v [ChunkSizeCb]BlockID
	for z := 0; z < ChunkSize; z++ {
		for y := 0; y < ChunkSize; y++ {
			for x := 0; x < ChunkSize; x++ {
				height := 16 + (x*3+z*7)%5 - 2
				if y < height {
					var block BlockID
					switch {
					case y < height-3:
						block = 1
					case y < height-1:
						block = 2
					default:
						block = 3
					}
					v[VoxelIndex(x, y, z)] = block
				}
			}
		}
	}
	return &v
}
