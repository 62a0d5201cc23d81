package world

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"terraingen/internal/tiles"
)

const (
	previewTilePixels    = 4
	previewFallbackShade = 0.7
)

// tileColors are the preview colours of the built-in tiles.
var tileColors = map[tiles.TileID]string{
	tiles.Void:     "#000000",
	tiles.Ocean:    "#1f4e9c",
	tiles.Beach:    "#e3d08c",
	tiles.Plains:   "#7fbf4d",
	tiles.Forest:   "#2f6b2a",
	tiles.Snow:     "#f2f4f7",
	tiles.Mountain: "#7a6f66",
}

// SaveChunkPreview renders a top-down PNG of the chunk, one square per tile.
// Chunks filled by the height classifier are drawn darker.
func SaveChunkPreview(chunk *Chunk, outputDir string) (string, error) {
	if chunk == nil {
		return "", fmt.Errorf("chunk is nil")
	}
	if chunk.Size <= 0 {
		return "", fmt.Errorf("invalid chunk size: %d", chunk.Size)
	}

	side := chunk.Size * previewTilePixels
	img := image.NewNRGBA(image.Rect(0, 0, side, side))
	shade := 1.0
	if chunk.Fallback() {
		shade = previewFallbackShade
	}

	cells := chunk.Tiles()
	for i, id := range cells {
		x := (i % chunk.Size) * previewTilePixels
		y := (i / chunk.Size) * previewTilePixels
		col := applyLighting(resolveTileColor(id), shade)
		rect := image.Rect(x, y, x+previewTilePixels, y+previewTilePixels)
		draw.Draw(img, rect, &image.Uniform{col}, image.Point{}, draw.Src)
	}

	if err := ensurePreviewDir(outputDir); err != nil {
		return "", err
	}
	path := filepath.Join(outputDir, fmt.Sprintf("chunk_%d_%d.png", chunk.Coord.X, chunk.Coord.Y))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create preview: %w", err)
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encode preview: %w", err)
	}
	return path, nil
}

func resolveTileColor(id tiles.TileID) color.NRGBA {
	if hex, ok := tileColors[id]; ok {
		if col, ok := parseHexColor(hex); ok {
			return col
		}
	}
	if id == tiles.Undecided {
		return color.NRGBA{R: 255, G: 0, B: 255, A: 255}
	}
	// generic tiles get a stable colour from their id
	h := uint32(id) * 2654435761
	return color.NRGBA{R: uint8(h >> 24), G: uint8(h >> 16), B: uint8(h >> 8), A: 255}
}

func parseHexColor(value string) (color.NRGBA, bool) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(trimmed) != 6 {
		return color.NRGBA{}, false
	}
	var rgb [3]uint8
	for i := range rgb {
		v, err := strconv.ParseUint(trimmed[2*i:2*i+2], 16, 8)
		if err != nil {
			return color.NRGBA{}, false
		}
		rgb[i] = uint8(v)
	}
	return color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}, true
}

func applyLighting(base color.NRGBA, factor float64) color.NRGBA {
	factor = math.Max(0, math.Min(1, factor))
	return color.NRGBA{
		R: uint8(math.Round(float64(base.R) * factor)),
		G: uint8(math.Round(float64(base.G) * factor)),
		B: uint8(math.Round(float64(base.B) * factor)),
		A: 255,
	}
}

func ensurePreviewDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("output directory is empty")
	}
	return os.MkdirAll(dir, 0o755)
}
