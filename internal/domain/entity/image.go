package entity

// Поддерживаемые форматы изображений
const (
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
	FormatBMP  = "bmp"
)

// ImageMeta метаданные декодированного изображения
type ImageMeta struct {
	Width     int    `json:"width"`     // ширина в пикселях
	Height    int    `json:"height"`    // высота в пикселях
	ColorMode string `json:"colorMode"` // RGB, RGBA, L, P, CMYK
	ByteSize  int    `json:"byteSize"`  // размер загруженного файла
	Format    string `json:"format"`    // jpeg, png или bmp
}
