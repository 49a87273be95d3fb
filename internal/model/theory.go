package model

import "time"

// TestCategory категория теоретического теста
type TestCategory struct {
	ID          string
	IconKey     string
	Title       string
	Description string
}

// GeneralTestTitle категория, собираемая из слабых мест студента
const GeneralTestTitle = "General Test"

// TestCategories статический список категорий
var TestCategories = []TestCategory{
	{ID: "1", IconKey: "road", Title: "Road and Traffic Signs", Description: "Common and uncommon signs for rules and information; limits and parking"},
	{ID: "2", IconKey: "cone", Title: "Incidents, Accidents, Emergencies", Description: "Staying safe if you break down, dealing with accidents and emergencies"},
	{ID: "3", IconKey: "car", Title: "Vehicle Handling", Description: "Driving on slippery roads, and in challenging conditions such as rain and snow"},
	{ID: "4", IconKey: "highway", Title: "Motorway Rules", Description: "Driving on a motorway - rules, limits, safety, emergency procedures, roadworks and riding guidelines"},
	{ID: "5", IconKey: "seatbelt", Title: "Safety Margins", Description: "Braking, accelerating, overtaking and manoeuvring safely under all driving conditions"},
	{ID: "6", IconKey: "generaltest", Title: GeneralTestTitle, Description: "Questions built from your weak spots"},
}

// SkillCategories категории для оценки урока без привязанного навыка
func SkillCategories() []string {
	titles := make([]string, 0, len(TestCategories))
	for _, c := range TestCategories {
		if c.Title == GeneralTestTitle {
			continue
		}
		titles = append(titles, c.Title)
	}
	return titles
}

// CategoryByID ищет категорию по ID
func CategoryByID(id string) (TestCategory, bool) {
	for _, c := range TestCategories {
		if c.ID == id {
			return c, true
		}
	}
	return TestCategory{}, false
}

// Option вариант ответа
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question вопрос теста
type Question struct {
	ID              string   `json:"id"`
	Text            string   `json:"questionText"`
	Options         []Option `json:"options"`
	CorrectOptionID string   `json:"correctOptionId"`
	Category        string   `json:"category"`
}

// AnsweredQuestion вопрос с ответом студента (nil - пропущен)
type AnsweredQuestion struct {
	Question
	UserAnswer *string `json:"userAnswer"`
	IsCorrect  bool    `json:"isCorrect"`
}

// TestResult результат пройденного теста
type TestResult struct {
	UserID    string             `json:"userId"`
	Category  string             `json:"category"`
	Questions []AnsweredQuestion `json:"questions"`
	Score     int                `json:"score"`
	TakenAt   time.Time          `json:"takenAt"`
}
