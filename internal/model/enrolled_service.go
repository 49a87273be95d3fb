package model

// EnrolledService услуга, на которую записан студент
type EnrolledService struct {
	ID        string `json:"service_id" validate:"required"`
	Type      string `json:"type" validate:"required"`
	Date      string `json:"service_date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Status    string `json:"status"`
	Price     string `json:"price"`
	Location  string `json:"location"`
}

// Статусы услуг
const (
	ServiceStatusActive  = "Active"
	ServiceStatusPending = "Pending"
)
