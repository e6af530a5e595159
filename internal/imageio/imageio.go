// Package imageio loads source photos and writes finished cards.
package imageio

import (
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultQuality is the JPEG quality used for the card.
const DefaultQuality = 95

// Load opens and decodes an image, returning its format name.
func Load(pathname string) (image.Image, string, error) {
	f, err := os.Open(pathname)
	if err != nil {
		return nil, "", fmt.Errorf("unable to open %s: %w", pathname, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("unable to decode %s: %w", pathname, err)
	}

	return img, format, nil
}

// Save encodes img according to pathname's extension (JPEG unless it ends in
// .png, .bmp, .tif or .tiff). The image is written next to pathname first and
// moved into place once complete.
func Save(pathname string, img image.Image, quality int) error {
	encode, err := encoderFor(pathname, quality)
	if err != nil {
		return err
	}

	dir := filepath.Dir(pathname)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(pathname)+".*")
	if err != nil {
		return fmt.Errorf("unable to create temp file in %s: %w", dir, err)
	}

	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	err = encode(tmp, img)
	if err != nil {
		return fmt.Errorf("unable to encode %s: %w", pathname, err)
	}

	err = tmp.Close()
	if err != nil {
		return fmt.Errorf("unable to write %s: %w", tmp.Name(), err)
	}

	err = os.Chmod(tmp.Name(), 0644)
	if err != nil {
		return fmt.Errorf("unable to chmod %s: %w", tmp.Name(), err)
	}

	err = os.Rename(tmp.Name(), pathname)
	if err != nil {
		return fmt.Errorf("unable to move %s into place: %w", pathname, err)
	}

	tmp = nil
	return nil
}

//--------------------------------------------------------------------------------
// private

type encoder func(io.Writer, image.Image) error

func encoderFor(pathname string, quality int) (encoder, error) {
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	switch ext := strings.ToLower(filepath.Ext(pathname)); ext {
	case ".jpg", ".jpeg", "":
		return func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
		}, nil
	case ".png":
		return png.Encode, nil
	case ".bmp":
		return bmp.Encode, nil
	case ".tif", ".tiff":
		return func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", ext)
	}
}
