package model

// Skill навык вождения из каталога бэкенда
type Skill struct {
	ID          string  `json:"skill_id" validate:"required"`
	Name        string  `json:"skill_name" validate:"required"`
	Code        string  `json:"skill_code,omitempty"`
	Description *string `json:"description,omitempty"`
}

// SubSkill подзадача навыка, оценивается в форме оценки урока
type SubSkill struct {
	ID          string  `json:"sub_skill_id" validate:"required"`
	SkillID     string  `json:"skill_id" validate:"required"`
	Name        string  `json:"sub_skill_name" validate:"required"`
	Description *string `json:"description,omitempty"`
}
