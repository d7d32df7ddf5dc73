package model

// Registration is one parsed line of the registration sheet.
type Registration struct {
	Name        string              `json:"name"`
	DateOfBirth string              `json:"date_of_birth"` // DateLayout
	Gender      string              `json:"gender"`
	Club        string              `json:"club"`
	Routines    []RegisteredRoutine `json:"routines"`
}

// RegisteredRoutine is a start the rider signed up for. An empty name means
// the rider does not start in that category.
type RegisteredRoutine struct {
	Category string `json:"category"`
	Name     string `json:"routine_name"`
	AgeGroup string `json:"age_group"`
}

// ImportSummary counts the rows written by a registration import.
type ImportSummary struct {
	Riders      int `json:"riders"`
	Routines    int `json:"routines"`
	Memberships int `json:"memberships"`
}
