// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateSurveyRequest: title, organization, creator_name
  - AddQuestionRequest: text, context, force
  - ClaimRespondentRequest: display_name
  - SubmitResponseRequest: question_id, answer, confidence, input_method,
    transcription_confidence

# Response Types

Types for JSON responses:

  - CreateSurveyResponse: survey_id, admin_key
  - AddQuestionResponse: question_id
  - PublishSurveyResponse: share_slug, share_url
  - ClaimRespondentResponse: respondent_token
  - SubmitResponseResponse: response_id, message
  - CloseSurveyResponse: closed_at, aggregate
  - SurveySummaryResponse: dashboard counters
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Survey: survey metadata and lifecycle state
  - Question: survey prompt with its force tag
  - Response: one respondent's answer to one question
  - Scorecard / ForceScore: derived per-respondent scores
  - CoverageReport: per-force question counts and advisories
  - OrganizationAggregate / ForceAggregate: derived org-level view

ForceScore and OrganizationAggregate are computed views. They are never the
source of truth; the raw Response rows are.

# Constants

Status values:

	StatusDraft  = "draft"
	StatusOpen   = "open"
	StatusClosed = "closed"

Forces:

	ForceDemographic  = "demographic"
	ForcePainOfOld    = "pain_of_old"
	ForcePullOfNew    = "pull_of_new"
	ForceAnchorsToOld = "anchors_to_old"
	ForceAnxietyOfNew = "anxiety_of_new"

Input methods:

	InputText  = "text"
	InputVoice = "voice"
*/
package models
