package terrain

import "math"

// fractalNoise sums octaves of hashed value noise at the detail frequency and
// returns a value in [-1, 1].
func (s *NoiseSampler) fractalNoise(x, y float64) float64 {
	frequency := s.cfg.DetailFrequency
	amplitude := 1.0
	noiseSum := 0.0
	maxAmplitude := 0.0

	persistence := s.cfg.Persistence
	if persistence <= 0 {
		persistence = 0.5
	}
	lacunarity := s.cfg.Lacunarity
	if lacunarity <= 0 {
		lacunarity = 2
	}

	for i := 0; i < s.cfg.DetailOctaves; i++ {
		noise := valueNoise(x*frequency, y*frequency, s.cfg.Seed)
		noiseSum += noise * amplitude
		maxAmplitude += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}

	if maxAmplitude == 0 {
		return 0
	}
	return noiseSum / maxAmplitude
}

func valueNoise(x, y float64, seed int64) float64 {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	x1 := x0 + 1
	y1 := y0 + 1

	sx := smooth(x - float64(x0))
	sy := smooth(y - float64(y0))

	n0 := random2D(x0, y0, seed)
	n1 := random2D(x1, y0, seed)
	ix0 := lerp(n0, n1, sx)

	n2 := random2D(x0, y1, seed)
	n3 := random2D(x1, y1, seed)
	ix1 := lerp(n2, n3, sx)

	return lerp(ix0, ix1, sy)
}

func smooth(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func random2D(x, y int, seed int64) float64 {
	return float64(Hash3(x, y, int(seed))&0xFFFF)/0x8000 - 1.0
}

// Hash3 mixes three integers into a well distributed 32-bit value for the noise
// lattices. It is stable across platforms.
func Hash3(x, y, z int) uint32 {
	h := uint32(x*374761393 + y*668265263 + z*2147483647)
	h = (h ^ (h >> 13)) * 1274126177
	return h ^ (h >> 16)
}
