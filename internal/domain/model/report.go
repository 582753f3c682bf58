package model

// ReportUser данные пользователя в отчете
type ReportUser struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
}

// TrainingReport итоговый отчет о прохождении обучения
type TrainingReport struct {
	ID             string      `json:"id" validate:"required"`
	User           *ReportUser `json:"user" validate:"required"`
	QuizProgress   ProgressMap `json:"quizProgress"`
	OverallResult  bool        `json:"overallResult"`
	SubmissionDate string      `json:"submissionDate"`
}
