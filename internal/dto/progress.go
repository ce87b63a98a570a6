package dto

// ClerkshipProgress is one clerkship's completion state for a student.
// Percent is capped at 100 even when a student has more assignments than
// the clerkship requires.
type ClerkshipProgress struct {
	ClerkshipID   string  `json:"clerkship_id"`
	ClerkshipName string  `json:"clerkship_name"`
	RequiredDays  int     `json:"required_days"`
	CompletedDays int     `json:"completed_days"`
	Percent       float64 `json:"percent"`
}

// StudentProgressResponse is the derived progress read for one student.
type StudentProgressResponse struct {
	StudentID  string              `json:"student_id"`
	Clerkships []ClerkshipProgress `json:"clerkships"`
}
