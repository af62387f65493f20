package main

// buildSwatchAtlas is grounded on the reference project's
// internal/graphics/texture_util.go LoadTexture (decode -> *image.RGBA
// -> gl.TexImage2D), but builds its source image in-process instead of
// decoding a file from disk: a tile-per-voxel-type colour swatch, the
// placeholder atlas spec.md §6's UV fallback path describes. Compositing
// uses golang.org/x/image/draw (draw.Draw's superset supporting
// scaling kernels), the same package the reference project reaches for
// in internal/graphics/font.go, rather than plain image/draw.

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/go-gl/gl/v4.1-core/gl"
)

const tileSize = 16

// buildSwatchAtlas lays out one tileSize x tileSize solid-colour tile per
// entry, left to right, and uploads it as a GL_NEAREST RGBA texture.
func buildSwatchAtlas(colors []color.RGBA) (texture uint32, tiles int) {
	tiles = len(colors)
	if tiles == 0 {
		tiles = 1
		colors = []color.RGBA{{255, 0, 255, 255}}
	}
	img := image.NewRGBA(image.Rect(0, 0, tileSize*tiles, tileSize))
	for i, c := range colors {
		tileRect := image.Rect(i*tileSize, 0, (i+1)*tileSize, tileSize)
		draw.Draw(img, tileRect, image.NewUniform(c), image.Point{}, draw.Src)
	}

	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexImage2D(
		gl.TEXTURE_2D, 0, gl.RGBA,
		int32(img.Rect.Size().X), int32(img.Rect.Size().Y), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix),
	)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return texture, tiles
}
