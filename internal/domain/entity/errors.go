package entity

import "fmt"

// DecodeError изображение пустое, повреждено или в неподдерживаемом формате.
// Сообщение показывается пользователю как есть.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode image: %s: %v", e.Reason, e.Err)
	}
	return "decode image: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

// MalformedDetectionError детектор вернул некорректную область
type MalformedDetectionError struct {
	Index  int // позиция в ответе детектора, с нуля
	Box    BoundingBox
	Reason string
}

func (e *MalformedDetectionError) Error() string {
	return fmt.Sprintf("malformed detection #%d (%.2f,%.2f,%.2f,%.2f): %s",
		e.Index, e.Box.X1, e.Box.Y1, e.Box.X2, e.Box.Y2, e.Reason)
}

// InvalidThresholdError порог уверенности вне [0,1]
type InvalidThresholdError struct {
	Value float64
}

func (e *InvalidThresholdError) Error() string {
	return fmt.Sprintf("confidence threshold %v is outside [0,1]", e.Value)
}

// ValidateThreshold проверяет порог уверенности.
func ValidateThreshold(v float64) error {
	if !(v >= 0 && v <= 1) {
		return &InvalidThresholdError{Value: v}
	}
	return nil
}
