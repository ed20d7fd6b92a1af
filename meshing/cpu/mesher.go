// Package cpu implements the binary-greedy CPU mesher: bit-parallel face
// culling over 32-bit columns followed by a 2D greedy merge per layer.
package cpu

import (
	"math/bits"

	"github.com/voxelforge/meshkit/meshing/types"
)

const (
	cs  = types.ChunkSize
	cs2 = cs * cs
)

// Mesher turns a dense voxel slab into a greedy-merged ChunkMesh. It holds no
// state between calls, so one Mesher can be shared across goroutines meshing
// different chunks concurrently (see pool.MesherPool).
type Mesher struct{}

func New() *Mesher { return &Mesher{} }

func voxelAt(voxels *[types.ChunkSizeCb]types.BlockID, x, y, z int) types.BlockID {
	return voxels[z*cs2+y*cs+x]
}

// Mesh runs face culling and greedy merge over voxels, returning the merged
// quad list. An all-air chunk returns an empty mesh.
func (m *Mesher) Mesh(voxels *[types.ChunkSizeCb]types.BlockID) types.ChunkMesh {
	var masks [6][cs2]uint32
	buildFaceMasks(voxels, &masks)

	mesh := types.ChunkMesh{}
	greedyMerge(voxels, &masks, &mesh)
	return mesh
}

// buildFaceMasks builds three opacity column arrays (one per axis) and
// derives the six face masks from them via shift-and-andnot. A 32-bit
// left/right shift naturally zero-fills past bit 31/bit 0, which is exactly
// the "out of bounds across the chunk boundary" policy the algorithm wants.
func buildFaceMasks(voxels *[types.ChunkSizeCb]types.BlockID, masks *[6][cs2]uint32) {
	var opaqueX, opaqueY, opaqueZ [cs2]uint32

	for z := 0; z < cs; z++ {
		for y := 0; y < cs; y++ {
			rowBase := z*cs2 + y*cs
			var colX uint32
			for x := 0; x < cs; x++ {
				if voxels[rowBase+x] != types.Air {
					colX |= 1 << uint(x)
				}
			}
			opaqueX[z*cs+y] = colX

			for x := 0; x < cs; x++ {
				if voxels[rowBase+x] != types.Air {
					opaqueY[z*cs+x] |= 1 << uint(y)
					opaqueZ[y*cs+x] |= 1 << uint(z)
				}
			}
		}
	}

	for i := 0; i < cs2; i++ {
		col := opaqueX[i]
		masks[types.FaceRight][i] = col &^ (col >> 1)
		masks[types.FaceLeft][i] = col &^ (col << 1)

		col = opaqueY[i]
		masks[types.FaceUp][i] = col &^ (col >> 1)
		masks[types.FaceDown][i] = col &^ (col << 1)

		col = opaqueZ[i]
		masks[types.FaceFront][i] = col &^ (col >> 1)
		masks[types.FaceBack][i] = col &^ (col << 1)
	}
}

// greedyMerge runs the unified forward/right merge for all six faces.
// Mask layout per face, all [layer*cs+row] with bits along the third axis:
//
//	Face ±X (0,1): layer=z, row=y, bits=x
//	Face ±Y (2,3): layer=z, row=x, bits=y
//	Face ±Z (4,5): layer=y, row=x, bits=z
func greedyMerge(voxels *[types.ChunkSizeCb]types.BlockID, masks *[6][cs2]uint32, result *types.ChunkMesh) {
	// forward_merged is shared across all six faces and every layer: a
	// forward-merge run can only extend into the next row, so it is always
	// fully drained (reset to 0) by the time the last row of a layer is
	// processed, leaving it clean for the next layer or face.
	var forwardMerged [cs]uint8

	for faceIdx := 0; faceIdx < 6; faceIdx++ {
		mergeFace(voxels, &masks[faceIdx], types.Face(faceIdx), &forwardMerged, result)
	}
}

func mergeFace(voxels *[types.ChunkSizeCb]types.BlockID, masks *[cs2]uint32, face types.Face, forwardMerged *[cs]uint8, result *types.ChunkMesh) {
	faceIdx := int(face)

	for layer := 0; layer < cs; layer++ {
		base := layer * cs

		for row := 0; row < cs; row++ {
			bitsMask := masks[base+row]
			if bitsMask == 0 {
				continue
			}

			var nextBits uint32
			if row+1 < cs {
				nextBits = masks[base+row+1]
			}

			for bitsMask != 0 {
				bitPos := bits.TrailingZeros32(bitsMask)

				block := getBlock(voxels, faceIdx, layer, row, bitPos)

				// Forward merge: extend one more row if same block type.
				if (nextBits>>uint(bitPos))&1 != 0 && block == getBlock(voxels, faceIdx, layer, row+1, bitPos) {
					forwardMerged[bitPos]++
					bitsMask &^= 1 << uint(bitPos)
					continue
				}

				// Right merge: extend along the bit axis while same type and
				// same forward-merge count.
				rightMerged := uint8(1)
				for right := bitPos + 1; right < cs; right++ {
					if (bitsMask>>uint(right))&1 == 0 ||
						forwardMerged[bitPos] != forwardMerged[right] ||
						block != getBlock(voxels, faceIdx, layer, row, right) {
						break
					}
					forwardMerged[right] = 0
					rightMerged++
				}

				end := bitPos + int(rightMerged)
				var clearMask uint32
				if end >= 32 {
					clearMask = ^uint32(0) << uint(bitPos)
				} else {
					clearMask = (uint32(1)<<uint(end) - 1) &^ (uint32(1)<<uint(bitPos) - 1)
				}
				bitsMask &^= clearMask

				rowStart := row - int(forwardMerged[bitPos])
				length := forwardMerged[bitPos] + 1
				width := rightMerged

				forwardMerged[bitPos] = 0

				emitQuad(result, face, faceIdx, layer, rowStart, bitPos, width, length, block)
			}
		}
	}
}

// getBlock looks up the block type in the face's coordinate system.
func getBlock(voxels *[types.ChunkSizeCb]types.BlockID, faceIdx, layer, row, bitPos int) types.BlockID {
	switch faceIdx {
	case 0, 1:
		return voxelAt(voxels, bitPos, row, layer)
	case 2, 3:
		return voxelAt(voxels, row, bitPos, layer)
	default:
		return voxelAt(voxels, row, layer, bitPos)
	}
}

// emitQuad maps (layer, rowStart, bitPos, width, length) to a 3D quad for the
// given face.
func emitQuad(result *types.ChunkMesh, face types.Face, faceIdx, layer, rowStart, bitPos int, width, length uint8, block types.BlockID) {
	var qx, qy, qz, qw, qh uint8
	switch faceIdx {
	case 0, 1:
		qx, qy, qz, qw, qh = uint8(bitPos), uint8(rowStart), uint8(layer), length, width
	case 2, 3:
		qx, qy, qz, qw, qh = uint8(rowStart), uint8(bitPos), uint8(layer), length, width
	default:
		qx, qy, qz, qw, qh = uint8(rowStart), uint8(layer), uint8(bitPos), length, width
	}

	result.Quads = append(result.Quads, types.Quad{
		X: qx, Y: qy, Z: qz,
		Width: qw, Height: qh,
		Face:      face,
		BlockType: block,
	})
}
