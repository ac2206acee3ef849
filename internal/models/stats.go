package models

// DashboardStats carries the three dashboard counters: total students, active
// enrollments and payments completed today.
type DashboardStats struct {
	TotalStudents     int `json:"totalEstudiantes"`
	ActiveEnrollments int `json:"matriculasActivas"`
	PaymentsToday     int `json:"pagosDia"`
}
