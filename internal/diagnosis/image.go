package diagnosis

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	InputSize = 224
	channels  = 3
)

var (
	// ErrUndecodableImage covers bad base64, non-image bytes and corrupt images.
	ErrUndecodableImage = errors.New("could not process image")

	supportedTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp", "image/bmp"}
)

// Tensor is a normalized RGB image in row-major HWC order with values in [0, 1].
type Tensor struct {
	Width  int
	Height int
	Data   []float32
}

// At returns the normalized channel value c of pixel (x, y).
func (t *Tensor) At(x, y, c int) float32 {
	return t.Data[(y*t.Width+x)*channels+c]
}

// DecodeBase64Image accepts raw base64 or a data URL and returns the image bytes.
func DecodeBase64Image(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if strings.HasPrefix(payload, "data:") {
		idx := strings.IndexByte(payload, ',')
		if idx < 0 {
			return nil, fmt.Errorf("%w: malformed data url", ErrUndecodableImage)
		}
		payload = payload[idx+1:]
	}
	payload = strings.Join(strings.Fields(payload), "")
	if payload == "" {
		return nil, fmt.Errorf("%w: empty image", ErrUndecodableImage)
	}
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		if data, err := enc.DecodeString(payload); err == nil {
			return data, nil
		}
	}
	return nil, fmt.Errorf("%w: invalid base64", ErrUndecodableImage)
}

// DetectType sniffs the image MIME type and rejects anything that is not a supported raster format.
func DetectType(data []byte) (string, error) {
	mt := mimetype.Detect(data)
	for _, supported := range supportedTypes {
		if mt.Is(supported) {
			return supported, nil
		}
	}
	return "", fmt.Errorf("%w: unsupported type %s", ErrUndecodableImage, mt.String())
}

// Preprocess decodes data, resizes it to 224x224 with bilinear sampling and
// normalizes each RGB channel into [0, 1].
func Preprocess(data []byte) (*Tensor, error) {
	if _, err := DetectType(data); err != nil {
		return nil, err
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodableImage, err)
	}
	if src.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrUndecodableImage)
	}

	dst := image.NewRGBA(image.Rect(0, 0, InputSize, InputSize))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	tensor := &Tensor{
		Width:  InputSize,
		Height: InputSize,
		Data:   make([]float32, 0, InputSize*InputSize*channels),
	}
	for y := 0; y < InputSize; y++ {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+InputSize*4]
		for x := 0; x < InputSize; x++ {
			px := row[x*4 : x*4+3]
			tensor.Data = append(tensor.Data,
				float32(px[0])/255,
				float32(px[1])/255,
				float32(px[2])/255,
			)
		}
	}
	return tensor, nil
}
