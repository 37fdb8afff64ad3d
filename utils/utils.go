package utils

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"math/big"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp"
)

func Rand16BytesToBase62() string {
	buf := make([]byte, 16)
	_, err := rand.Read(buf)
	if err != nil {
		panic(err)
	}
	var i big.Int
	return i.SetBytes(buf).Text(62)
}

// MaxThumbPixels bounds the decoded raster, the header is checked before decoding
const MaxThumbPixels = 50_000_000

var ErrImageTooLarge = errors.New("image dimensions too large")

type ImageThumbConverted struct {
	ThumbSize int64
	NewX      uint16
	NewY      uint16
	OldX      uint16
	OldY      uint16
}

// CreateThumb scales the image down to fit in size x size and writes it as JPEG.
// Images that already fit are re-encoded without scaling.
func CreateThumb(size uint, reader io.Reader, writer io.Writer) (result ImageThumbConverted, err error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return result, err
	}
	config, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return result, err
	}
	if int64(config.Width)*int64(config.Height) > MaxThumbPixels {
		return result, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, config.Width, config.Height)
	}
	image, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return result, err
	}
	var newBuf bytes.Buffer
	newImage := resize.Thumbnail(size, size, image, resize.Lanczos3)
	if err = jpeg.Encode(&newBuf, newImage, &jpeg.Options{Quality: 90}); err != nil {
		return
	}
	imageRect := newImage.Bounds().Size()
	result.NewX = uint16(imageRect.X)
	result.NewY = uint16(imageRect.Y)

	imageRect = image.Bounds().Size()
	result.OldX = uint16(imageRect.X)
	result.OldY = uint16(imageRect.Y)

	result.ThumbSize, err = io.Copy(writer, &newBuf)
	return
}
