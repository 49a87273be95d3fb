package model

// AvailabilitySlot получасовое окно, отмеченное студентом как свободное
type AvailabilitySlot struct {
	ID        *int64 `json:"availability_id,omitempty"`
	UserID    string `json:"user_id" validate:"required"`
	Date      string `json:"available_date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required"`
}

// SlotKey уникальный ключ слота (user_id, available_date, start_time)
type SlotKey struct {
	UserID    string `json:"user_id"`
	Date      string `json:"available_date"`
	StartTime string `json:"start_time"`
}

// Key возвращает ключ слота
func (s AvailabilitySlot) Key() SlotKey {
	return SlotKey{UserID: s.UserID, Date: s.Date, StartTime: s.StartTime}
}

// String используется как ключ в map и в логах
func (k SlotKey) String() string {
	return k.UserID + "/" + k.Date + "/" + k.StartTime
}
