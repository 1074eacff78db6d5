package inference

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
)

// acceptedContentTypes maps the declared content types this service takes to
// the file extension used for archived copies. image/jpg is a common
// non-standard alias for image/jpeg sent by browsers and mobile clients.
var acceptedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
}

// SupportedContentType reports whether the declared content type is one of
// the accepted image formats.
func SupportedContentType(contentType string) bool {
	_, ok := acceptedContentTypes[contentType]
	return ok
}

// ExtensionFor returns the archive file extension for an accepted content type.
func ExtensionFor(contentType string) string {
	if ext, ok := acceptedContentTypes[contentType]; ok {
		return ext
	}
	return ".bin"
}

// Preprocess turns raw upload bytes into the NCHW float32 tensor data the
// model expects: decoded, resized to size×size with Lanczos resampling, and
// normalized to [0,1]. Deterministic: the same bytes always produce the same
// tensor.
func Preprocess(contents []byte, contentType string, size int) ([]float32, error) {
	// The primary interface validates the declared type before calling in;
	// this repeats the check so the preprocessor is safe on its own.
	if !SupportedContentType(contentType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContentType, contentType)
	}

	img, _, err := image.Decode(bytes.NewReader(contents))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	resized := resize.Resize(uint(size), uint(size), img, resize.Lanczos3)

	bounds := resized.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	plane := width * height
	data := make([]float32, 3*plane)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := resized.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()

			idx := y*width + x
			data[idx] = float32(r) / 65535.0
			data[plane+idx] = float32(g) / 65535.0
			data[2*plane+idx] = float32(b) / 65535.0
		}
	}

	return data, nil
}
