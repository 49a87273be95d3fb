package model

// Lesson запланированное занятие по вождению.
// Создаётся и изменяется только бэкендом.
type Lesson struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Date            string  `json:"date"`       // YYYY-MM-DD
	StartTime       string  `json:"start_time"` // HH:mm или "N/A"
	EndTime         *string `json:"end_time"`   // HH:mm, может отсутствовать
	EvaluationGiven bool    `json:"evaluation_given"`
	Location        *string `json:"location,omitempty"`
	SkillID         *string `json:"skill_id,omitempty"`
	SkillName       *string `json:"skill_name,omitempty"`
}

// End возвращает время окончания или пустую строку
func (l *Lesson) End() string {
	if l.EndTime == nil {
		return ""
	}
	return *l.EndTime
}

// LocationOr возвращает место занятия или fallback
func (l *Lesson) LocationOr(fallback string) string {
	if l.Location == nil || *l.Location == "" {
		return fallback
	}
	return *l.Location
}
