package port

import (
	"image"

	"vision-inspector/internal/domain/entity"
)

// ImageDecoder превращает загруженные байты в пиксели и метаданные
type ImageDecoder interface {
	Decode(data []byte) (image.Image, entity.ImageMeta, error)
}
