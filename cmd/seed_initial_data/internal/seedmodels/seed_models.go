package seedmodels

import "reviflow/internal/domain"

// SeedRevision is a lesson stored with a ready-made quiz, so seeding never
// calls the LLM.
type SeedRevision struct {
	Topic       string      `json:"topic"`
	Subject     string      `json:"subject"`
	TextContent string      `json:"text_content"`
	Synthesis   string      `json:"synthesis"`
	StudyTips   []string    `json:"study_tips"`
	Quiz        domain.Quiz `json:"quiz"`
}

// SeedChild defines a learner account under a parent.
type SeedChild struct {
	Username  string         `json:"username"`
	FirstName string         `json:"first_name"`
	Password  string         `json:"password"`
	Revisions []SeedRevision `json:"revisions"`
}

// SeedFamily defines the structure for a family in the JSON seed file.
type SeedFamily struct {
	Email       string      `json:"email"`
	Password    string      `json:"password"`
	FirstName   string      `json:"first_name"`
	ParentalPIN string      `json:"parental_pin"`
	Children    []SeedChild `json:"children"`
}
