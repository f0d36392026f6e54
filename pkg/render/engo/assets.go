// pkg/render/engo/assets.go
package engo

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/EngoEngine/engo/common"
)

// TileSize is the edge length, in world pixels, of one ground tile.
const TileSize = 1000

var (
	bodyColor   = color.NRGBA{R: 200, G: 40, B: 40, A: 255}
	glassColor  = color.NRGBA{R: 90, G: 150, B: 200, A: 255}
	wheelColor  = color.NRGBA{R: 20, G: 20, B: 20, A: 255}
	groundColor = color.NRGBA{R: 60, G: 110, B: 60, A: 255}
	markColor   = color.NRGBA{R: 80, G: 130, B: 80, A: 255}
	borderColor = color.NRGBA{R: 120, G: 120, B: 120, A: 255}
)

// AssetManager builds the procedural textures the scene draws with.
type AssetManager struct {
	vehicleSize int

	vehicleSprite common.Drawable
	groundTile    common.Drawable
}

// NewAssetManager creates an asset manager for a vehicle of the given size.
func NewAssetManager(vehicleSize float64) *AssetManager {
	size := int(vehicleSize)
	if size < 8 {
		size = 8
	}
	return &AssetManager{vehicleSize: size}
}

// LoadAssets uploads all textures. It needs a live GL context.
func (am *AssetManager) LoadAssets() error {
	am.vehicleSprite = toTexture(carImage(am.vehicleSize))
	am.groundTile = toTexture(groundImage(TileSize / 10))
	return nil
}

// VehicleSprite returns the car texture, nil before LoadAssets.
func (am *AssetManager) VehicleSprite() common.Drawable {
	return am.vehicleSprite
}

// GroundTile returns the ground texture, nil before LoadAssets.
func (am *AssetManager) GroundTile() common.Drawable {
	return am.groundTile
}

// carImage draws a size x size top-down car facing +X: body, windscreen
// toward the front and four wheels at the corners.
func carImage(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))

	q := size / 8
	body := image.Rect(q, 2*q, size-q, size-2*q)
	draw.Draw(img, body, image.NewUniform(bodyColor), image.Point{}, draw.Src)

	glass := image.Rect(size-3*q, 2*q+q/2, size-2*q, size-2*q-q/2)
	draw.Draw(img, glass, image.NewUniform(glassColor), image.Point{}, draw.Src)

	wheels := []image.Rectangle{
		image.Rect(q, q, 3*q, 2*q),
		image.Rect(size-3*q, q, size-q, 2*q),
		image.Rect(q, size-2*q, 3*q, size-q),
		image.Rect(size-3*q, size-2*q, size-q, size-q),
	}
	for _, w := range wheels {
		draw.Draw(img, w, image.NewUniform(wheelColor), image.Point{}, draw.Src)
	}
	return img
}

// groundImage draws one ground tile with a lighter grid line along its top
// and left edges, so adjacent tiles form a grid.
func groundImage(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(groundColor), image.Point{}, draw.Src)
	for i := 0; i < size; i++ {
		img.SetNRGBA(i, 0, markColor)
		img.SetNRGBA(0, i, markColor)
	}
	return img
}

// tileOrigins lists the top-left corner of every ground tile covering a
// world of the given extents.
func tileOrigins(width, height float64) []image.Point {
	var out []image.Point
	for y := 0; float64(y) < height; y += TileSize {
		for x := 0; float64(x) < width; x += TileSize {
			out = append(out, image.Point{X: x, Y: y})
		}
	}
	return out
}

func toTexture(img *image.NRGBA) common.Drawable {
	return common.NewTextureSingle(common.NewImageObject(img))
}
