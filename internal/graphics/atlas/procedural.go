package atlas

import (
	"image"
	"image/color"

	"chunkview/internal/graphics/gfx"
	"chunkview/internal/world"
)

// Procedural builds a 16x16 tile placeholder atlas with flat coloured tiles
// for the default block set, so the viewer runs without a texture pack.
func Procedural(tileSize int) *Atlas2D {
	size := tileSize * TilesPerRow
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	a := &Atlas2D{Image: img, TileSize: tileSize, RowsCount: TilesPerRow}

	for loc := 0; loc < TilesPerRow*TilesPerRow; loc++ {
		r := a.TileBounds(world.TextureLoc(loc))
		style, ok := tileStyles[loc]
		if !ok {
			style = tileStyle{base: hashColor(loc), kind: tileSolid}
		}
		paintTile(img, r, style)
	}
	return a
}

type tileKind int

const (
	tileSolid tileKind = iota
	tileSpeckled
	tileFrame
	tileCross
	tileHoles
)

type tileStyle struct {
	base color.RGBA
	kind tileKind
}

var tileStyles = map[int]tileStyle{
	0:  {color.RGBA{0x5D, 0x9B, 0x3A, 0xFF}, tileSpeckled}, // grass top
	1:  {color.RGBA{0x7D, 0x7D, 0x7D, 0xFF}, tileSpeckled}, // stone
	2:  {color.RGBA{0x86, 0x60, 0x43, 0xFF}, tileSpeckled}, // dirt
	3:  {color.RGBA{0x7A, 0x6A, 0x45, 0xFF}, tileSpeckled}, // grass side
	4:  {color.RGBA{0xA0, 0x82, 0x4E, 0xFF}, tileSolid},    // wood
	12: {color.RGBA{0xD0, 0x20, 0x20, 0xFF}, tileCross},    // rose
	13: {color.RGBA{0xF0, 0xE0, 0x20, 0xFF}, tileCross},    // dandelion
	14: {color.RGBA{0x1A, 0x3A, 0x88, 0xA0}, tileSolid},    // water (premultiplied)
	15: {color.RGBA{0x3C, 0x8C, 0x28, 0xFF}, tileCross},    // sapling
	16: {color.RGBA{0x6A, 0x6A, 0x6A, 0xFF}, tileSpeckled}, // cobble
	17: {color.RGBA{0x30, 0x30, 0x30, 0xFF}, tileSpeckled}, // bedrock
	18: {color.RGBA{0xDB, 0xD3, 0xA0, 0xFF}, tileSpeckled}, // sand
	19: {color.RGBA{0x88, 0x7E, 0x7E, 0xFF}, tileSpeckled}, // gravel
	20: {color.RGBA{0x66, 0x51, 0x32, 0xFF}, tileSolid},    // log side
	21: {color.RGBA{0x9C, 0x7F, 0x4E, 0xFF}, tileSolid},    // log top
	22: {color.RGBA{0x3A, 0x7A, 0x20, 0xFF}, tileHoles},    // leaves
	49: {color.RGBA{0xC0, 0xE8, 0xF0, 0xFF}, tileFrame},    // glass
}

func hashColor(loc int) color.RGBA {
	h := uint32(loc)*2654435761 + 0x9E3779B9
	return color.RGBA{uint8(h >> 24), uint8(h >> 16), uint8(h >> 8), 0xFF}
}

func paintTile(img *image.RGBA, r image.Rectangle, s tileStyle) {
	n := r.Dx()
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			c := s.base
			switch s.kind {
			case tileSpeckled:
				if (x*7+y*13)%5 == 0 {
					c = gfx.ScaleCol(c, 0.85)
				}
			case tileFrame:
				if x != 0 && y != 0 && x != n-1 && y != n-1 {
					c = color.RGBA{}
				}
			case tileCross:
				mid := n / 2
				if x != mid && y != mid && x != mid-1 && y != mid-1 {
					c = color.RGBA{}
				}
			case tileHoles:
				if (x+y)%4 == 0 {
					c = color.RGBA{}
				}
			}
			img.SetRGBA(r.Min.X+x, r.Min.Y+y, c)
		}
	}
}
