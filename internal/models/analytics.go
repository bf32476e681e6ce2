package models

// GradeCount is one bucket of the roster grade histogram.
type GradeCount struct {
	Grade string `db:"grade" json:"grade"`
	Count int    `db:"count" json:"count"`
}

// ComponentAverages holds the mean of each assessment component across the
// roster.
type ComponentAverages struct {
	Quiz       float64 `db:"avg_quiz" json:"quiz"`
	Assignment float64 `db:"avg_assignment" json:"assignment"`
	Midterm    float64 `db:"avg_midterm" json:"midterm"`
	Final      float64 `db:"avg_final" json:"final"`
}

// RosterSummary aggregates roster-wide statistics for the dashboard charts.
type RosterSummary struct {
	TotalStudents     int               `json:"total_students"`
	PassingStudents   int               `json:"passing_students"`
	PassRate          float64           `json:"pass_rate"`
	AveragePercentage float64           `json:"average_percentage"`
	GradeDistribution []GradeCount      `json:"grade_distribution"`
	ComponentAverages ComponentAverages `json:"component_averages"`
}
