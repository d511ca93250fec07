// pkg/render/engo/assets.go
package engo

import (
	"image"
	"image/color"

	"github.com/EngoEngine/engo/common"
)

// ParticleSpriteSize is the edge length in pixels of the particle sprite.
// Sprites are scaled to the particle's on-screen diameter when drawn.
const ParticleSpriteSize = 64

// AssetManager handles creating the textures used by the renderer
type AssetManager struct {
	particleSprite common.Drawable
}

// NewAssetManager creates a new asset manager
func NewAssetManager() *AssetManager {
	return &AssetManager{}
}

// LoadAssets builds the sprite textures. It needs an OpenGL context.
func (am *AssetManager) LoadAssets() error {
	am.particleSprite = am.convertToEngoTexture(DiskImage(ParticleSpriteSize, 1))
	return nil
}

// DiskImage draws a white disk filling a size×size image. Pixels further than
// falloff of the radius from the center fade out linearly, so a falloff of 1
// gives a hard edge only at the rim.
func DiskImage(size int, falloff float64) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	r := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - r
			dy := float64(y) + 0.5 - r
			d := (dx*dx + dy*dy) / (r * r)
			if d > 1 {
				continue
			}
			alpha := 1.0
			if falloff < 1 {
				alpha = (1 - d) / (1 - falloff*falloff)
				if alpha > 1 {
					alpha = 1
				}
			}
			img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, uint8(alpha * 255)})
		}
	}
	return img
}

// convertToEngoTexture converts an image to an Engo-compatible texture.
func (am *AssetManager) convertToEngoTexture(img *image.NRGBA) common.Drawable {
	texture := common.NewImageObject(img)
	return common.NewTextureSingle(texture)
}

// GetParticleSprite returns the sprite drawn for every particle, or nil
// before LoadAssets
func (am *AssetManager) GetParticleSprite() common.Drawable {
	return am.particleSprite
}
