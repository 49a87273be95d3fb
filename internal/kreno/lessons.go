package kreno

import (
	"context"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/Freeeeeet/kreno_bot/internal/calendar"
	"github.com/Freeeeeet/kreno_bot/internal/model"
)

const (
	lessonsEndpoint   = "lessons_api.php"
	skillsEndpoint    = "skills_api.php"
	subSkillsEndpoint = "sub_skills_api.php"
)

// apiLesson урок в формате бэкенда
type apiLesson struct {
	LessonID        flexString  `json:"lesson_id" validate:"required"`
	Title           string      `json:"title"`
	LessonDate      string      `json:"lesson_date" validate:"required,datetime=2006-01-02"`
	StartTime       *string     `json:"start_time"`
	EndTime         *string     `json:"end_time"`
	EvaluationGiven flexBool    `json:"evaluation_given"`
	LessonLocation  *string     `json:"lesson_location"`
	SkillID         *flexString `json:"skill_id"`
	SkillName       *string     `json:"skill_name"`
}

// toModel нормализует время: нераспознанное начало становится "N/A",
// нераспознанный конец - nil
func (a apiLesson) toModel() model.Lesson {
	lesson := model.Lesson{
		ID:              a.LessonID.String(),
		Title:           a.Title,
		Date:            a.LessonDate,
		StartTime:       calendar.NotAvailable,
		EvaluationGiven: bool(a.EvaluationGiven),
		Location:        a.LessonLocation,
		SkillName:       a.SkillName,
	}

	if a.StartTime != nil {
		if start, ok := calendar.NormalizeClock(*a.StartTime); ok {
			lesson.StartTime = start
		}
	}
	if a.EndTime != nil {
		if end, ok := calendar.NormalizeClock(*a.EndTime); ok {
			lesson.EndTime = &end
		}
	}
	if a.SkillID != nil && *a.SkillID != "" {
		id := a.SkillID.String()
		lesson.SkillID = &id
	}

	return lesson
}

// Lessons возвращает уроки студента
func (c *Client) Lessons(ctx context.Context, userID string) ([]model.Lesson, error) {
	query := url.Values{}
	if userID != "" {
		query.Set("userId", userID)
	}

	env, err := c.call(ctx, request{endpoint: lessonsEndpoint, method: http.MethodGet, query: query})
	if err != nil {
		return nil, err
	}

	raw, err := list[apiLesson](c, env, "lessons")
	if err != nil {
		return nil, err
	}

	lessons := make([]model.Lesson, 0, len(raw))
	for _, a := range raw {
		lesson := a.toModel()
		if lesson.StartTime == calendar.NotAvailable {
			c.logger.Warn("Lesson has unparsable start time",
				zap.String("lesson_id", lesson.ID),
				zap.String("date", lesson.Date),
			)
		}
		lessons = append(lessons, lesson)
	}
	return lessons, nil
}

// Skills возвращает каталог навыков
func (c *Client) Skills(ctx context.Context) ([]model.Skill, error) {
	env, err := c.call(ctx, request{endpoint: skillsEndpoint, method: http.MethodGet})
	if err != nil {
		return nil, err
	}
	return list[model.Skill](c, env, "skills")
}

// SubSkills возвращает подзадачи всех навыков
func (c *Client) SubSkills(ctx context.Context) ([]model.SubSkill, error) {
	env, err := c.call(ctx, request{endpoint: subSkillsEndpoint, method: http.MethodGet})
	if err != nil {
		return nil, err
	}
	return list[model.SubSkill](c, env, "sub_skills")
}
