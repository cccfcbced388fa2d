package domain

// Task billing units
const (
	UnitHour  = "hour"
	UnitPiece = "piece"
)

// Client is a billing customer.
type Client struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Worker is a laborer. Workers are deactivated, never hard-deleted.
type Worker struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsActive    bool   `json:"is_active"`
}

// Task is a billable task type.
type Task struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}

func ValidUnit(unit string) bool {
	return unit == UnitHour || unit == UnitPiece
}
