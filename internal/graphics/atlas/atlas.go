// Package atlas slices the 2D terrain atlas into the 1D atlas batches chunk
// geometry is split by.
package atlas

import (
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"log"
	"os"

	"chunkview/internal/event"
	"chunkview/internal/graphics/gfx"
	"chunkview/internal/world"

	"golang.org/x/image/draw"
)

// TilesPerRow is the number of tiles in one row of a 2D terrain atlas.
const TilesPerRow = 16

// DefaultMaxTextureHeight bounds the height of one 1D atlas batch.
const DefaultMaxTextureHeight = 4096

// ErrBadAtlas is returned for images that cannot be split into tiles.
var ErrBadAtlas = errors.New("atlas: bad terrain image")

// Atlas2D is a terrain image with TilesPerRow square tiles per row.
type Atlas2D struct {
	Image     *image.RGBA
	TileSize  int
	RowsCount int
}

// New2D validates img and copies it into an RGBA atlas.
func New2D(img image.Image) (*Atlas2D, error) {
	b := img.Bounds()
	if b.Dx() < TilesPerRow || b.Dx()%TilesPerRow != 0 {
		return nil, fmt.Errorf("%w: width %d is not a multiple of %d", ErrBadAtlas, b.Dx(), TilesPerRow)
	}
	tile := b.Dx() / TilesPerRow
	if tile&(tile-1) != 0 {
		return nil, fmt.Errorf("%w: tile size %d is not a power of two", ErrBadAtlas, tile)
	}
	if b.Dy() < tile || b.Dy()%tile != 0 {
		return nil, fmt.Errorf("%w: height %d is not a multiple of tile size %d", ErrBadAtlas, b.Dy(), tile)
	}
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return &Atlas2D{Image: rgba, TileSize: tile, RowsCount: b.Dy() / tile}, nil
}

// Load2D decodes a PNG terrain atlas from disk.
func Load2D(path string) (*Atlas2D, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open atlas: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrBadAtlas, path, err)
	}
	return New2D(img)
}

// TileBounds returns the pixel rectangle of a tile.
func (a *Atlas2D) TileBounds(loc world.TextureLoc) image.Rectangle {
	x := int(loc) % TilesPerRow * a.TileSize
	y := int(loc) / TilesPerRow * a.TileSize
	return image.Rect(x, y, x+a.TileSize, y+a.TileSize)
}

// Tiles is the number of tile slots in the atlas.
func (a *Atlas2D) Tiles() int {
	return a.RowsCount * TilesPerRow
}

// Atlas1D is the 2D atlas split into vertical strips ("batches") of
// TilesPerAtlas tiles, one texture each.
type Atlas1D struct {
	TilesPerAtlas int
	Count         int
	TexIds        []gfx.Texture

	shift       uint
	mask        int
	invTileSize float32
	strips      []*image.RGBA

	maxHeight int
	bus       *event.Bus
}

// New1D returns an empty 1D atlas. Reload must be called before use.
// maxTextureHeight <= 0 uses DefaultMaxTextureHeight.
func New1D(bus *event.Bus, maxTextureHeight int) *Atlas1D {
	if maxTextureHeight <= 0 {
		maxTextureHeight = DefaultMaxTextureHeight
	}
	return &Atlas1D{maxHeight: maxTextureHeight, bus: bus}
}

// Reload frees the current batch textures, splits a2d and uploads the new
// batches through dev, then raises AtlasChanged.
func (a *Atlas1D) Reload(dev gfx.Device, a2d *Atlas2D) {
	a.Free(dev)
	a.convert(a2d)

	a.TexIds = make([]gfx.Texture, a.Count)
	for i, strip := range a.strips {
		a.TexIds[i] = dev.CreateTexture(strip, true)
	}
	log.Printf("atlas: %d batches of %d tiles (%dpx tiles)", a.Count, a.TilesPerAtlas, a2d.TileSize)

	if a.bus != nil {
		a.bus.AtlasChanged.Raise()
	}
}

func (a *Atlas1D) convert(a2d *Atlas2D) {
	tile := a2d.TileSize
	maxTiles := a2d.Tiles()
	perAtlas := a.maxHeight / tile
	if perAtlas < 1 {
		perAtlas = 1
	}
	// Keep it a power of two so Index and RowId are a shift and a mask.
	for perAtlas&(perAtlas-1) != 0 {
		perAtlas &= perAtlas - 1
	}
	for perAtlas/2 >= maxTiles {
		perAtlas /= 2
	}

	a.TilesPerAtlas = perAtlas
	a.Count = (maxTiles + perAtlas - 1) / perAtlas
	a.mask = perAtlas - 1
	a.shift = 0
	for 1<<a.shift < perAtlas {
		a.shift++
	}
	a.invTileSize = 1 / float32(perAtlas)

	a.strips = make([]*image.RGBA, a.Count)
	loc := 0
	for i := range a.strips {
		strip := image.NewRGBA(image.Rect(0, 0, tile, perAtlas*tile))
		for row := 0; row < perAtlas && loc < maxTiles; row, loc = row+1, loc+1 {
			dst := image.Rect(0, row*tile, tile, (row+1)*tile)
			draw.NearestNeighbor.Scale(strip, dst, a2d.Image, a2d.TileBounds(world.TextureLoc(loc)), draw.Src, nil)
		}
		a.strips[i] = strip
	}
}

// Free deletes the batch textures.
func (a *Atlas1D) Free(dev gfx.Device) {
	for i := range a.TexIds {
		dev.DeleteTexture(&a.TexIds[i])
	}
	a.TexIds = nil
}

// Index returns the batch a tile lives in.
func (a *Atlas1D) Index(loc world.TextureLoc) int {
	return int(loc) >> a.shift
}

// RowId returns the row of a tile inside its batch.
func (a *Atlas1D) RowId(loc world.TextureLoc) int {
	return int(loc) & a.mask
}

// TexCoords returns the V range of a tile inside its batch. U always spans
// the whole strip.
func (a *Atlas1D) TexCoords(loc world.TextureLoc) (v1, v2 float32) {
	v1 = float32(a.RowId(loc)) * a.invTileSize
	return v1, v1 + a.invTileSize
}

// UsedAtlases is the number of batches needed to cover every tile up to and
// including maxLoc.
func (a *Atlas1D) UsedAtlases(maxLoc world.TextureLoc) int {
	return a.Index(maxLoc) + 1
}

// BatchCount returns Count; it lets the chunk renderer depend on a small
// interface instead of this type.
func (a *Atlas1D) BatchCount() int { return a.Count }

// TilesPerBatch returns TilesPerAtlas.
func (a *Atlas1D) TilesPerBatch() int { return a.TilesPerAtlas }

// Texture returns the texture of a batch.
func (a *Atlas1D) Texture(batch int) gfx.Texture {
	if batch < 0 || batch >= len(a.TexIds) {
		return 0
	}
	return a.TexIds[batch]
}

// Strip returns the CPU side image of a batch, for debugging.
func (a *Atlas1D) Strip(batch int) *image.RGBA {
	return a.strips[batch]
}
