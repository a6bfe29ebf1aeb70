package entity

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu      UserState = "main_menu"      // В главном меню
	StateAwaitingPhoto UserState = "awaiting_photo" // Ожидание фото детали
	StateProcessing    UserState = "processing"     // Обработка изображения
)

// User представляет пользователя бота
type User struct {
	ID        int64     // Telegram User ID
	ChatID    int64     // Telegram Chat ID
	State     UserState // Текущее состояние пользователя
	Threshold float64   // Порог уверенности для его проверок
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64, threshold float64) *User {
	return &User{
		ID:        userID,
		ChatID:    chatID,
		State:     StateMainMenu,
		Threshold: threshold,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// SetThreshold меняет порог уверенности
func (u *User) SetThreshold(v float64) error {
	if err := ValidateThreshold(v); err != nil {
		return err
	}
	u.Threshold = v
	return nil
}
