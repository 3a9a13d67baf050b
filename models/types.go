// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Survey status constants
const (
	StatusDraft  = "draft"
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Input method constants
const (
	InputText  = "text"
	InputVoice = "voice"
)

// Force is one of the five JTBD force categories a question can be tagged
// with. An empty Force marks an untagged question, which is a data-integrity
// problem for everything except demographic prompts.
type Force string

const (
	ForceDemographic  Force = "demographic"
	ForcePainOfOld    Force = "pain_of_old"
	ForcePullOfNew    Force = "pull_of_new"
	ForceAnchorsToOld Force = "anchors_to_old"
	ForceAnxietyOfNew Force = "anxiety_of_new"
)

// AllForces lists every force in stable display order.
func AllForces() []Force {
	return []Force{
		ForceDemographic,
		ForcePainOfOld,
		ForcePullOfNew,
		ForceAnchorsToOld,
		ForceAnxietyOfNew,
	}
}

// Valid reports whether f is one of the five known forces.
func (f Force) Valid() bool {
	switch f {
	case ForceDemographic, ForcePainOfOld, ForcePullOfNew, ForceAnchorsToOld, ForceAnxietyOfNew:
		return true
	}
	return false
}

// Request types

type CreateSurveyRequest struct {
	Title        string `json:"title"`
	Organization string `json:"organization"`
	CreatorName  string `json:"creator_name"`
}

type AddQuestionRequest struct {
	Text    string `json:"text"`
	Context string `json:"context"`
	Force   string `json:"force"`
}

type ClaimRespondentRequest struct {
	DisplayName string `json:"display_name"`
}

type SubmitResponseRequest struct {
	QuestionID              string   `json:"question_id"`
	Answer                  string   `json:"answer"`
	Confidence              *float64 `json:"confidence,omitempty"`
	InputMethod             string   `json:"input_method,omitempty"`
	TranscriptionConfidence *float64 `json:"transcription_confidence,omitempty"`
}

// Response types

type CreateSurveyResponse struct {
	SurveyID string `json:"survey_id"`
	AdminKey string `json:"admin_key"`
}

type AddQuestionResponse struct {
	QuestionID string `json:"question_id"`
}

type PublishSurveyResponse struct {
	ShareSlug string `json:"share_slug"`
	ShareURL  string `json:"share_url"`
}

type ClaimRespondentResponse struct {
	RespondentToken string `json:"respondent_token"`
}

type SubmitResponseResponse struct {
	ResponseID string `json:"response_id"`
	Message    string `json:"message"`
}

type CloseSurveyResponse struct {
	ClosedAt  time.Time             `json:"closed_at"`
	Aggregate OrganizationAggregate `json:"aggregate"`
}

type SurveySummaryResponse struct {
	Title           string   `json:"title"`
	Status          string   `json:"status"`
	QuestionCount   int      `json:"question_count"`
	RespondentCount int      `json:"respondent_count"`
	ResponseCount   int      `json:"response_count"`
	LastResponse    string   `json:"last_response,omitempty"`
	Readiness       *float64 `json:"readiness,omitempty"`
}

// Domain types

type Survey struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Organization    string     `json:"organization"`
	CreatorName     string     `json:"creator_name"`
	Status          string     `json:"status"`
	ShareSlug       *string    `json:"share_slug,omitempty"`
	ClosedAt        *time.Time `json:"closed_at,omitempty"`
	FinalSnapshotID *string    `json:"final_snapshot_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type Question struct {
	ID       string `json:"id"`
	SurveyID string `json:"survey_id"`
	Text     string `json:"text"`
	Context  string `json:"context,omitempty"`
	Force    Force  `json:"force"`
}

type SurveyWithQuestions struct {
	Survey    Survey     `json:"survey"`
	Questions []Question `json:"questions"`
}

type Response struct {
	ID                      string    `json:"id"`
	SurveyID                string    `json:"survey_id"`
	QuestionID              string    `json:"question_id"`
	RespondentID            string    `json:"respondent_id"`
	Answer                  string    `json:"answer"`
	Confidence              *float64  `json:"confidence,omitempty"`
	InputMethod             string    `json:"input_method,omitempty"`
	TranscriptionConfidence *float64  `json:"transcription_confidence,omitempty"`
	SubmittedAt             time.Time `json:"submitted_at"`
}

// Derived score types

// ForceScore is a derived per-respondent value for one force. When
// InsufficientData is set, Strength/Normalized/Interval carry no meaning and
// callers must not fold them into averages.
type ForceScore struct {
	Force            Force   `json:"force"`
	Strength         float64 `json:"strength"`   // 1..5
	Normalized       float64 `json:"normalized"` // 0..100
	Interval         float64 `json:"interval"`   // +/- on the 0..100 scale
	ResponseCount    int     `json:"response_count"`
	InsufficientData bool    `json:"insufficient_data"`
}

// DataIntegrityWarning records a single response that was excluded from
// scoring, and why. Warnings never abort a computation.
type DataIntegrityWarning struct {
	ResponseID string `json:"response_id"`
	QuestionID string `json:"question_id,omitempty"`
	Reason     string `json:"reason"`
}

// Scorecard is one respondent's full set of force scores.
type Scorecard struct {
	RespondentID string                 `json:"respondent_id"`
	Scores       map[Force]ForceScore   `json:"scores"`
	Warnings     []DataIntegrityWarning `json:"warnings,omitempty"`
}

// Coverage types

type CoverageWarning struct {
	Force     Force `json:"force"`
	Count     int   `json:"count"`
	Threshold int   `json:"threshold"`
}

type CoverageReport struct {
	QuestionCount int               `json:"question_count"`
	Counts        map[Force]int     `json:"counts"`
	Untagged      []string          `json:"untagged_question_ids,omitempty"`
	Warnings      []CoverageWarning `json:"low_coverage_warnings,omitempty"`
}

// Aggregate types

type Outlier struct {
	RespondentID string  `json:"respondent_id"`
	Normalized   float64 `json:"normalized"`
	Deviations   float64 `json:"deviations"` // distance from the mean, in SDs
}

type ForceAggregate struct {
	Force           Force     `json:"force"`
	Mean            float64   `json:"mean"`    // of normalized scores
	StdDev          float64   `json:"std_dev"` // sample standard deviation
	RespondentCount int       `json:"respondent_count"`
	Outliers        []Outlier `json:"outliers,omitempty"`
}

type OrganizationAggregate struct {
	SurveyID         string                   `json:"survey_id"`
	Forces           map[Force]ForceAggregate `json:"forces"`
	Readiness        float64                  `json:"readiness"`
	ReadinessDefined bool                     `json:"readiness_defined"`
	ExcludedForces   []Force                  `json:"excluded_forces,omitempty"`
	RespondentCount  int                      `json:"respondent_count"`
	ComputedAt       time.Time                `json:"computed_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
