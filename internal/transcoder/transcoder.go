// Package transcoder turns a raw uploaded image into the set of recompressed
// renditions the media catalog stores: one width-capped "original" plus a
// fixed ladder of responsive sizes. No storage or network side effects.
package transcoder

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"math"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/swairua/kennedynespot/internal/entities"
)

const (
	// MaxOriginalWidth caps the primary rendition to bound storage and
	// bandwidth; sources narrower than the cap are re-encoded as-is.
	MaxOriginalWidth = 2400

	webpQuality = 85
	jpegQuality = 90
)

// SizeLadder maps rendition labels to target widths. A ladder entry is only
// generated when its width is strictly below the source width (no upscaling).
var SizeLadder = []SizeStep{
	{Label: entities.SizeSmall, Width: 400},
	{Label: entities.SizeMedium, Width: 800},
	{Label: entities.SizeLarge, Width: 1200},
	{Label: entities.SizeXLarge, Width: 1600},
}

type SizeStep struct {
	Label string
	Width int
}

// Rendition is one encoded output: the blob plus its final pixel dimensions.
type Rendition struct {
	Label  string // "" for the original rendition
	Blob   []byte
	Width  int
	Height int
	Format string // "webp" or "jpeg"
}

// Result groups the outputs for a single source image.
type Result struct {
	Original Rendition
	Sizes    map[string]Rendition
}

// OptimizedBytes is the sum of all rendition blob sizes.
func (r *Result) OptimizedBytes() int64 {
	total := int64(len(r.Original.Blob))
	for _, s := range r.Sizes {
		total += int64(len(s.Blob))
	}
	return total
}

// DecodeError wraps a failure to decode the source bytes as an image.
type DecodeError struct{ err error }

func (e *DecodeError) Error() string { return fmt.Sprintf("decode image: %v", e.err) }
func (e *DecodeError) Unwrap() error { return e.err }

// EncodeError wraps a failure to produce an encoded blob. Fatal for the file,
// not for a batch.
type EncodeError struct{ err error }

func (e *EncodeError) Error() string { return fmt.Sprintf("encode image: %v", e.err) }
func (e *EncodeError) Unwrap() error { return e.err }

// Transcoder re-encodes images with a fixed quality policy. The zero value is
// not usable; construct with New.
type Transcoder struct {
	preferWebP bool
}

func New() *Transcoder {
	return &Transcoder{preferWebP: true}
}

// Transcode decodes src and produces the capped original rendition plus every
// ladder entry narrower than the source.
func (t *Transcoder) Transcode(src io.Reader) (*Result, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, &DecodeError{err: err}
	}

	srcW := img.Bounds().Dx()
	srcH := img.Bounds().Dy()
	if srcW == 0 || srcH == 0 {
		return nil, &DecodeError{err: fmt.Errorf("image has zero dimension %dx%d", srcW, srcH)}
	}

	origW := srcW
	if origW > MaxOriginalWidth {
		origW = MaxOriginalWidth
	}

	original, err := t.Render(img, origW)
	if err != nil {
		return nil, err
	}

	sizes := make(map[string]Rendition, len(SizeLadder))
	for _, step := range SizeLadder {
		if step.Width >= srcW {
			continue
		}
		r, err := t.Render(img, step.Width)
		if err != nil {
			return nil, err
		}
		r.Label = step.Label
		sizes[step.Label] = r
	}

	return &Result{Original: original, Sizes: sizes}, nil
}

// Render resizes img to targetWidth (clamped to the source width, aspect
// ratio preserved with Lanczos resampling) and encodes it.
func (t *Transcoder) Render(img image.Image, targetWidth int) (Rendition, error) {
	srcW := img.Bounds().Dx()
	srcH := img.Bounds().Dy()

	if targetWidth > srcW {
		targetWidth = srcW
	}
	targetHeight := int(math.Round(float64(targetWidth) * float64(srcH) / float64(srcW)))
	if targetHeight < 1 {
		targetHeight = 1
	}

	out := img
	if targetWidth != srcW {
		out = imaging.Resize(img, targetWidth, targetHeight, imaging.Lanczos)
	}

	blob, format, err := t.encode(out)
	if err != nil {
		return Rendition{}, err
	}

	return Rendition{
		Blob:   blob,
		Width:  targetWidth,
		Height: targetHeight,
		Format: format,
	}, nil
}

// encode prefers WebP and falls back to JPEG when the WebP encoder cannot
// produce a blob for this image.
func (t *Transcoder) encode(img image.Image) ([]byte, string, error) {
	if t.preferWebP {
		buf := new(bytes.Buffer)
		err := webp.Encode(buf, img, &webp.Options{
			Lossless: false,
			Quality:  webpQuality,
		})
		if err == nil {
			return buf.Bytes(), "webp", nil
		}
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", &EncodeError{err: err}
	}
	return buf.Bytes(), "jpeg", nil
}
