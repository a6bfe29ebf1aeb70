package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	_ "golang.org/x/image/bmp"

	"vision-inspector/internal/domain/entity"
	"vision-inspector/internal/domain/port"
)

// allowed сопоставляет MIME-тип из сигнатуры файла с поддерживаемым форматом.
var allowed = map[string]string{
	"image/jpeg": entity.FormatJPEG,
	"image/png":  entity.FormatPNG,
	"image/bmp":  entity.FormatBMP,
}

// DefaultMaxPixels предел площади изображения по умолчанию, около 89.5 Мп
const DefaultMaxPixels int64 = 1024 * 1024 * 1024 / 4 / 3

// Decoder декодирует JPEG, PNG и BMP. Формат проверяется по сигнатуре до декодирования,
// заявленная в заголовке площадь ограничена maxPixels.
type Decoder struct {
	maxPixels int64
}

// DecoderOption настраивает декодер
type DecoderOption func(*Decoder)

// WithMaxPixels задаёт предел площади; n <= 0 оставляет значение по умолчанию.
func WithMaxPixels(n int64) DecoderOption {
	return func(d *Decoder) {
		if n > 0 {
			d.maxPixels = n
		}
	}
}

// NewDecoder создаёт декодер
func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{maxPixels: DefaultMaxPixels}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode превращает байты изображения в пиксели и метаданные
func (d *Decoder) Decode(data []byte) (image.Image, entity.ImageMeta, error) {
	if len(data) == 0 {
		return nil, entity.ImageMeta{}, &entity.DecodeError{Reason: "empty image"}
	}

	format, err := sniffFormat(data)
	if err != nil {
		return nil, entity.ImageMeta{}, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, entity.ImageMeta{}, &entity.DecodeError{Reason: "corrupt " + format + " header", Err: err}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, entity.ImageMeta{}, &entity.DecodeError{
			Reason: fmt.Sprintf("invalid dimensions %dx%d", cfg.Width, cfg.Height),
		}
	}
	// Пиксельный буфер выделяется до чтения данных, поэтому площадь проверяется по заголовку.
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > d.maxPixels {
		return nil, entity.ImageMeta{}, &entity.DecodeError{
			Reason: fmt.Sprintf("image too large: %dx%d exceeds %d pixels", cfg.Width, cfg.Height, d.maxPixels),
			Err:    ErrImageTooLarge,
		}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, entity.ImageMeta{}, &entity.DecodeError{Reason: "corrupt " + format + " data", Err: err}
	}

	meta := entity.ImageMeta{
		Width:     cfg.Width,
		Height:    cfg.Height,
		ColorMode: colorMode(cfg.ColorModel),
		ByteSize:  len(data),
		Format:    format,
	}
	return img, meta, nil
}

// sniffFormat определяет формат по первым байтам и сверяет его со списком разрешённых.
func sniffFormat(data []byte) (string, error) {
	contentType := http.DetectContentType(data)
	if format, ok := allowed[contentType]; ok {
		return format, nil
	}
	return "", &entity.DecodeError{
		Reason: fmt.Sprintf("unsupported image type %q, expected JPEG, PNG or BMP", contentType),
		Err:    ErrUnsupportedFormat,
	}
}

// ErrUnsupportedFormat формат не входит в список разрешённых
var ErrUnsupportedFormat = errors.New("unsupported format")

// ErrImageTooLarge заявленная площадь превышает предел декодера
var ErrImageTooLarge = errors.New("image too large")

func colorMode(m color.Model) string {
	switch m {
	case color.GrayModel, color.Gray16Model:
		return "L"
	case color.RGBAModel, color.RGBA64Model, color.NRGBAModel, color.NRGBA64Model:
		return "RGBA"
	case color.YCbCrModel:
		return "RGB"
	case color.CMYKModel:
		return "CMYK"
	}
	if _, ok := m.(color.Palette); ok {
		return "P"
	}
	return "RGB"
}

// Проверка реализации интерфейса
var _ port.ImageDecoder = (*Decoder)(nil)
