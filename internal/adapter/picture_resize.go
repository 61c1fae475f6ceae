package adapter

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// resizePicture fits the image inside maxW x maxH keeping its aspect ratio.
// Smaller images are left at their size.
func resizePicture(data []byte, ext string, maxW, maxH int) ([]byte, error) {
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return nil, ErrUnsupportedPicture
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedPicture, err)
	}
	img = imaging.Fit(img, maxW, maxH, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format); err != nil {
		return nil, fmt.Errorf("failed to encode picture: %w", err)
	}
	return buf.Bytes(), nil
}
