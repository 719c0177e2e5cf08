package entity

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu     UserState = "main_menu"     // В главном меню
	StateAwaitingXray UserState = "awaiting_xray" // Ожидание рентгеновского снимка
	StateProcessing   UserState = "processing"    // Идёт диагностика
)

// User представляет пользователя бота
type User struct {
	ID           int64     // Telegram User ID
	ChatID       int64     // Telegram Chat ID
	State        UserState // Текущее состояние пользователя
	LastReportID string    // ID последнего отчёта, только для логов
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// IsBusy сообщает, что по пользователю уже идёт диагностика.
func (u *User) IsBusy() bool {
	return u.State == StateProcessing
}
