// Package rng implements the counter-based, stateless pseudo-random
// generator used to seed per-particle draws. Every call is a pure function
// of its three integer arguments: there is no package-level or per-particle
// mutable state, which is what lets a run be reproduced bit-for-bit no
// matter how particles are sharded across workers.
package rng

import "math/bits"

// keyParity64 is the Skein/Threefry key-schedule parity constant.
const keyParity64 = 0x1BD11BDAA9FC1A22

// rot2x64 are the eight rotation constants threefry-2x64 cycles through.
var rot2x64 = [8]uint{16, 42, 12, 31, 16, 32, 24, 21}

// rot4x64 are the eight rotation-constant pairs threefry-4x64 cycles
// through, one pair per round.
var rot4x64 = [8][2]uint{
	{14, 16}, {52, 57}, {23, 40}, {5, 37},
	{25, 33}, {46, 12}, {58, 22}, {32, 32},
}

const rounds = 20

// Threefry2x64 runs the 20-round threefry-2x64 block cipher over the
// counter block in with the key block key.
func Threefry2x64(in, key [2]uint64) [2]uint64 {
	var ks [3]uint64
	ks[2] = keyParity64
	ks[0] = key[0]
	ks[2] ^= key[0]
	ks[1] = key[1]
	ks[2] ^= key[1]

	x := [2]uint64{in[0] + ks[0], in[1] + ks[1]}

	for r := 0; r < rounds; r++ {
		x[0] += x[1]
		x[1] = bits.RotateLeft64(x[1], int(rot2x64[r%8]))
		x[1] ^= x[0]

		if r%4 == 3 {
			j := uint64(r/4 + 1)
			x[0] += ks[j%3]
			x[1] += ks[(j+1)%3]
			x[1] += j
		}
	}
	return x
}

// Threefry4x64 runs the 20-round threefry-4x64 block cipher over the
// counter block in with the key block key.
func Threefry4x64(in, key [4]uint64) [4]uint64 {
	var ks [5]uint64
	ks[4] = keyParity64
	for i := 0; i < 4; i++ {
		ks[i] = key[i]
		ks[4] ^= key[i]
	}

	x := [4]uint64{
		in[0] + ks[0], in[1] + ks[1], in[2] + ks[2], in[3] + ks[3],
	}

	for r := 0; r < rounds; r++ {
		rp := rot4x64[r%8]
		if r%2 == 0 {
			x[0] += x[1]
			x[1] = bits.RotateLeft64(x[1], int(rp[0]))
			x[1] ^= x[0]
			x[2] += x[3]
			x[3] = bits.RotateLeft64(x[3], int(rp[1]))
			x[3] ^= x[2]
		} else {
			x[0] += x[3]
			x[3] = bits.RotateLeft64(x[3], int(rp[0]))
			x[3] ^= x[0]
			x[2] += x[1]
			x[1] = bits.RotateLeft64(x[1], int(rp[1]))
			x[1] ^= x[2]
		}

		if r%4 == 3 {
			j := uint64(r/4 + 1)
			for i := 0; i < 4; i++ {
				x[i] += ks[(j+uint64(i))%5]
			}
			x[3] += j
		}
	}
	return x
}

// toUnit maps a uniformly random 64-bit word onto the open interval (0,1).
func toUnit(u uint64) float64 {
	const scale = 1.0 / 18446744073709551616.0 // 2^-64
	const halfULP = 1.0 / 36893488147419103232.0 // 2^-65
	return float64(u)*scale + halfULP
}

// Draw4 returns four independent draws in the open interval (0,1),
// deterministic in (particleKey, masterKey, counter). The key block is
// (particleKey, masterKey, 0, 0); the counter block is (counter, 0, 0, 0),
// per the reference threefry-4x64 construction.
func Draw4(particleKey, masterKey, counter uint64) [4]float64 {
	out := Threefry4x64(
		[4]uint64{counter, 0, 0, 0},
		[4]uint64{particleKey, masterKey, 0, 0},
	)
	return [4]float64{
		toUnit(out[0]), toUnit(out[1]), toUnit(out[2]), toUnit(out[3]),
	}
}

// Draw2 is the cheaper two-output variant, used where only a pair of reals
// is needed (e.g. injection of a single particle's placement and angle need
// more than two, but callers that only need a pair should prefer this over
// discarding half of Draw4's output).
func Draw2(particleKey, masterKey, counter uint64) [2]float64 {
	out := Threefry2x64(
		[2]uint64{counter, 0},
		[2]uint64{particleKey, masterKey},
	)
	return [2]float64{toUnit(out[0]), toUnit(out[1])}
}
