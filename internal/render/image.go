package render

import (
	"fmt"
	"image"
	"os"

	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// loadImageGrid decodes the file at path and fits it to a w by h pixel
// grid: center-crop to the target aspect ratio, then scale.
func loadImageGrid(path string, w, h int) (*Grid, error) {
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("invalid target geometry %dx%d", w, h)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	cropped := centerCrop(img, w, h)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)

	return FromImage(dst), nil
}

// centerCrop cuts the largest region of img matching the w:h aspect
// ratio, keeping the center.
func centerCrop(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	sw, sh := b.Dx(), b.Dy()

	cw, ch := sw, sh
	if sw*h > sh*w {
		// Source too wide: trim the sides.
		cw = sh * w / h
	} else {
		// Source too tall: trim top and bottom.
		ch = sw * h / w
	}
	if cw < 1 {
		cw = 1
	}
	if ch < 1 {
		ch = 1
	}

	x0 := b.Min.X + (sw-cw)/2
	y0 := b.Min.Y + (sh-ch)/2

	rect := image.Rect(0, 0, cw, ch)
	out := image.NewRGBA(rect)
	draw.Draw(out, rect, img, image.Point{X: x0, Y: y0}, draw.Src)
	return out
}
