package preprocess

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp"
)

// Model input geometry. The network was trained on 224x224 RGB crops.
const (
	TargetWidth  = 224
	TargetHeight = 224
	Channels     = 3
)

// DefaultMaxPixels is the decompression bomb threshold used when no other
// limit is configured.
const DefaultMaxPixels int64 = 178956970

// ErrTooManyPixels is returned when an image header declares more pixels
// than the decode limit allows.
var ErrTooManyPixels = errors.New("image exceeds pixel limit")

// Decode turns raw upload bytes into an image using DefaultMaxPixels. The
// returned string is the format name registered by the decoder ("jpeg",
// "png", "gif", "webp").
func Decode(data []byte) (image.Image, string, error) {
	return DecodeLimit(data, DefaultMaxPixels)
}

// DecodeLimit is Decode with an explicit pixel limit. The header is read
// first so an oversized image is refused before its pixel buffer is
// allocated. A limit of zero or less disables the check.
func DecodeLimit(data []byte, maxPixels int64) (image.Image, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("cannot identify image file: %w", err)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); maxPixels > 0 && pixels > maxPixels {
		return nil, "", fmt.Errorf("%w: %dx%d is %d pixels, limit is %d",
			ErrTooManyPixels, cfg.Width, cfg.Height, pixels, maxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("cannot identify image file: %w", err)
	}
	return img, format, nil
}

// Preprocess converts a decoded image into the (1, 224, 224, 3) tensor the
// model expects. The input is assumed to be a valid decoded image.
func Preprocess(img image.Image) *Tensor {
	resized := img
	bounds := img.Bounds()
	if bounds.Dx() != TargetWidth || bounds.Dy() != TargetHeight {
		resized = resize.Resize(TargetWidth, TargetHeight, img, resize.Bilinear)
	}

	// Clone yields non-premultiplied 8-bit RGBA anchored at (0,0);
	// grayscale and paletted sources come out with three equal channels.
	rgba := imaging.Clone(resized)

	t := NewTensor()
	for y := 0; y < TargetHeight; y++ {
		row := rgba.Pix[y*rgba.Stride:]
		for x := 0; x < TargetWidth; x++ {
			px := row[x*4 : x*4+4]
			i := t.index(y, x, 0)
			t.Data[i] = float32(px[0]) / 255.0
			t.Data[i+1] = float32(px[1]) / 255.0
			t.Data[i+2] = float32(px[2]) / 255.0
		}
	}

	return t
}
