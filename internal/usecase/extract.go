package usecase

import (
	"encoding/json"
	"strings"

	"travel-ai-planner/internal/domain"
	"travel-ai-planner/internal/domain/model"
)

// ExtractJSON pulls the JSON object out of free-form model text.
// Strategy: strip Markdown code fences if present, then trim to the
// outermost {...} span so surrounding prose does not break parsing.
func ExtractJSON(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		}
		if end := strings.LastIndex(s, "```"); end >= 0 {
			s = s[:end]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", domain.ErrMalformedResponse
	}
	return s[start : end+1], nil
}

// ParseStructure decodes the structure-phase response. A structure without
// days is useless downstream and counts as malformed.
func ParseStructure(raw string) (*model.PlanStructure, error) {
	js, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}
	var st model.PlanStructure
	if err := json.Unmarshal([]byte(js), &st); err != nil {
		return nil, domain.ErrMalformedResponse
	}
	if len(st.Days) == 0 {
		return nil, domain.ErrMalformedResponse
	}
	return &st, nil
}

// ParseActivities decodes one day's activities response.
func ParseActivities(raw string) ([]model.GeneratedActivity, error) {
	js, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Activities []model.GeneratedActivity `json:"activities"`
	}
	if err := json.Unmarshal([]byte(js), &payload); err != nil {
		return nil, domain.ErrMalformedResponse
	}
	if payload.Activities == nil {
		return nil, domain.ErrMalformedResponse
	}
	return payload.Activities, nil
}
