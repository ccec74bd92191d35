package models

type MoodRequest struct {
	Text        string `json:"text"`
	TeacherMode bool   `json:"teacher_mode"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
