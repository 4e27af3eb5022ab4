// Package pixelfilter implements the ARGB/BGRA pixel-buffer filter
// (spec.md §4.C): an AoS→SoA transpose, a per-pixel delta-then-sub-green
// decorrelation, and its inverse (un-sub-green then a parallel inclusive
// prefix-sum), designed to maximize the compressibility of natural-image and
// animation frames before they reach the sharded zstd codec.
//
// spec.md describes an AVX2/SSE2 vectorized fast path for the AoS↔SoA
// transpose on x86-64. No file in the retrieval pack demonstrates hand-written
// SIMD assembly from Go, so this package resolves that as an Open Question
// (see DESIGN.md): the transpose and prefix-sum are implemented once, in
// portable Go, and get their parallelism from goroutines instead of vector
// instructions — matching the spec's "parallelized across four threads"
// requirement and its byte-exact round-trip invariant, without an assembly
// fast path.
package pixelfilter

import (
	"golang.org/x/sync/errgroup"

	"github.com/wprsproj/wprs/wprserr"
)

// Workers is the default number of goroutines used to parallelize the
// transpose and prefix-sum steps, matching spec.md §4.C's "four threads".
const Workers = 4

// Planes is a struct-of-arrays container for N pixels' worth of one
// intermediate representation (either raw per-channel values or the
// delta+sub-green filtered output). It is always 4*N bytes; Parts yields
// four N-byte slices in channel order (plane 0..3).
type Planes struct {
	data []byte
	n    int
}

// NewPlanes allocates a zeroed Planes container for n pixels.
func NewPlanes(n int) *Planes {
	return &Planes{data: make([]byte, 4*n), n: n}
}

// N returns the pixel count.
func (p *Planes) N() int { return p.n }

// Parts returns the four N-byte channel planes, in order.
func (p *Planes) Parts() [4][]byte {
	n := p.n
	return [4][]byte{
		p.data[0*n : 1*n],
		p.data[1*n : 2*n],
		p.data[2*n : 3*n],
		p.data[3*n : 4*n],
	}
}

// Bytes returns the raw 4*N backing array (plane-major layout).
func (p *Planes) Bytes() []byte { return p.data }

func splitRange(n, workers int) [][2]int {
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	if workers == 0 {
		return nil
	}
	chunk := (n + workers - 1) / workers
	var ranges [][2]int
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		ranges = append(ranges, [2]int{start, end})
	}
	return ranges
}

// transposeAoSToSoA reorganizes N BGRA pixels (4*N bytes, B,G,R,A order per
// pixel) into four contiguous N-byte planes. The pixel range is split into
// equal ranges processed concurrently by workers goroutines.
func transposeAoSToSoA(pixels []byte, workers int) (*Planes, error) {
	if len(pixels)%4 != 0 {
		return nil, wprserr.Wrap(wprserr.BadData, "pixelfilter: input length %d is not a multiple of 4", len(pixels))
	}
	n := len(pixels) / 4
	planes := NewPlanes(n)
	parts := planes.Parts()
	var g errgroup.Group
	for _, rng := range splitRange(n, workers) {
		rng := rng
		g.Go(func() error {
			for i := rng[0]; i < rng[1]; i++ {
				base := i * 4
				parts[0][i] = pixels[base+0] // B
				parts[1][i] = pixels[base+1] // G
				parts[2][i] = pixels[base+2] // R
				parts[3][i] = pixels[base+3] // A
			}
			return nil
		})
	}
	_ = g.Wait()
	return planes, nil
}

// transposeSoAToAoS reverses transposeAoSToSoA.
func transposeSoAToAoS(planes *Planes, workers int) []byte {
	n := planes.N()
	parts := planes.Parts()
	out := make([]byte, 4*n)
	var g errgroup.Group
	for _, rng := range splitRange(n, workers) {
		rng := rng
		g.Go(func() error {
			for i := rng[0]; i < rng[1]; i++ {
				base := i * 4
				out[base+0] = parts[0][i]
				out[base+1] = parts[1][i]
				out[base+2] = parts[2][i]
				out[base+3] = parts[3][i]
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// deltaPlane computes the wrapping delta-from-previous-pixel of a single
// channel plane: out[0] = raw[0], out[i] = raw[i] - raw[i-1] (mod 256).
func deltaPlane(raw []byte) []byte {
	out := make([]byte, len(raw))
	if len(raw) == 0 {
		return out
	}
	out[0] = raw[0]
	for i := 1; i < len(raw); i++ {
		out[i] = raw[i] - raw[i-1]
	}
	return out
}

// Filter applies the forward pixel filter to a BGRA buffer: AoS→SoA
// transpose, per-channel delta-from-previous-pixel, then sub-green
// decorrelation. pixels must have a length that is a multiple of 4.
func Filter(pixels []byte) (*Planes, error) {
	raw, err := transposeAoSToSoA(pixels, Workers)
	if err != nil {
		return nil, err
	}
	rawParts := raw.Parts()
	n := raw.N()

	dB := deltaPlane(rawParts[0])
	dG := deltaPlane(rawParts[1])
	dR := deltaPlane(rawParts[2])
	dA := deltaPlane(rawParts[3])

	out := NewPlanes(n)
	outParts := out.Parts()
	for i := 0; i < n; i++ {
		outParts[0][i] = dG[i]
		outParts[1][i] = dB[i] - dG[i]
		outParts[2][i] = dR[i] - dG[i]
		outParts[3][i] = dA[i]
	}
	return out, nil
}

// Unfilter reverses Filter: undoes the sub-green decorrelation, reconstructs
// absolute channel values with a parallel inclusive prefix-sum over each
// plane independently, then transposes SoA back to AoS (BGRA-interleaved)
// bytes.
func Unfilter(filtered *Planes) []byte {
	n := filtered.N()
	fp := filtered.Parts()

	dG := make([]byte, n)
	dB := make([]byte, n)
	dR := make([]byte, n)
	dA := make([]byte, n)
	copy(dG, fp[0])
	copy(dA, fp[3])
	for i := 0; i < n; i++ {
		dB[i] = fp[1][i] + dG[i]
		dR[i] = fp[2][i] + dG[i]
	}

	raw := NewPlanes(n)
	rawParts := raw.Parts()

	var g errgroup.Group
	deltas := [4][]byte{dB, dG, dR, dA}
	for plane := 0; plane < 4; plane++ {
		plane := plane
		g.Go(func() error {
			parallelPrefixSum(deltas[plane], rawParts[plane], Workers)
			return nil
		})
	}
	_ = g.Wait()

	return transposeSoAToAoS(raw, Workers)
}

// parallelPrefixSum computes the inclusive cumulative wrapping sum of src
// into dst using a two-pass block scan: each of workers blocks is summed
// sequentially in parallel, block totals are prefixed sequentially (the
// number of blocks is small), then each block's elements are offset by its
// block's prefix in parallel. This keeps the algorithm associative and
// parallelizable rather than a single sequential scan, since it runs once
// per decoded frame and sits on the decode critical path.
func parallelPrefixSum(src, dst []byte, workers int) {
	n := len(src)
	if n == 0 {
		return
	}
	ranges := splitRange(n, workers)

	// Pass 1: sequential inclusive scan within each block, concurrently.
	var g errgroup.Group
	for _, rng := range ranges {
		rng := rng
		g.Go(func() error {
			var sum byte
			for i := rng[0]; i < rng[1]; i++ {
				sum += src[i]
				dst[i] = sum
			}
			return nil
		})
	}
	_ = g.Wait()

	// Pass 2: compute each block's exclusive offset (the running total of
	// all prior blocks' final values) sequentially — cheap, since the
	// number of blocks is small.
	var offset byte
	offsets := make([]byte, len(ranges))
	for i, rng := range ranges {
		offsets[i] = offset
		offset += dst[rng[1]-1]
	}

	// Pass 3: add each block's offset to every element in the block,
	// concurrently.
	var g2 errgroup.Group
	for i, rng := range ranges {
		i, rng := i, rng
		g2.Go(func() error {
			off := offsets[i]
			if off == 0 {
				return nil
			}
			for j := rng[0]; j < rng[1]; j++ {
				dst[j] += off
			}
			return nil
		})
	}
	_ = g2.Wait()
}
