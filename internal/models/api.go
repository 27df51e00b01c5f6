package models

type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

// GenerateQuizRequest carries the AI generation parameters.
type GenerateQuizRequest struct {
	Topic        string     `json:"topic"`
	NumQuestions int        `json:"num_questions"`
	Subject      string     `json:"subject"`
	KeyStage     KeyStage   `json:"keyStage"`
	Difficulty   Difficulty `json:"difficulty"`
}

// DetailsPatch updates quiz detail fields in the editor. Nil fields are
// left unchanged.
type DetailsPatch struct {
	Title      *string     `json:"title"`
	Subject    *string     `json:"subject"`
	KeyStage   *KeyStage   `json:"keyStage"`
	Difficulty *Difficulty `json:"difficulty"`
}

// PendingPatch updates the in-progress question buffer. OptionIndex
// selects which option Option applies to.
type PendingPatch struct {
	Text               *string `json:"text"`
	OptionIndex        *int    `json:"option_index"`
	Option             *string `json:"option"`
	CorrectAnswerIndex *int    `json:"correctAnswerIndex"`
}
