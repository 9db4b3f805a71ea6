// Package imaging decodes and encodes screenshot frames through the
// ImageMagick bindings. Callers must bracket use with imagick.Initialize
// and imagick.Terminate (the task layer does this per job).
package imaging

import (
	"fmt"
	"image"

	"gopkg.in/gographics/imagick.v3/imagick"
)

// ReadFrame decodes the image at path into an RGBA frame.
func ReadFrame(path string) (*image.RGBA, error) {
	mw := imagick.NewMagickWand()
	defer mw.Destroy()

	if err := mw.ReadImage(path); err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", path, err)
	}

	w := int(mw.GetImageWidth())
	h := int(mw.GetImageHeight())
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("image %s has no pixels", path)
	}

	pixels, err := mw.ExportImagePixels(0, 0, uint(w), uint(h), "RGBA", imagick.PIXEL_CHAR)
	if err != nil {
		return nil, fmt.Errorf("failed to export pixels from %s: %w", path, err)
	}
	raw, ok := pixels.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected pixel buffer type %T for %s", pixels, path)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, raw)
	return img, nil
}

// ReadFrames decodes every path in order.
func ReadFrames(paths []string) ([]*image.RGBA, error) {
	frames := make([]*image.RGBA, 0, len(paths))
	for _, p := range paths {
		f, err := ReadFrame(p)
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// WriteFrame encodes img to path; the format follows the file extension.
func WriteFrame(path string, img *image.RGBA) error {
	b := img.Bounds()
	w := b.Dx()
	h := b.Dy()

	mw := imagick.NewMagickWand()
	defer mw.Destroy()

	if err := mw.ConstituteImage(uint(w), uint(h), "RGBA", imagick.PIXEL_CHAR, img.Pix); err != nil {
		return fmt.Errorf("failed to constitute image: %w", err)
	}
	if err := mw.WriteImage(path); err != nil {
		return fmt.Errorf("failed to write image %s: %w", path, err)
	}
	return nil
}
