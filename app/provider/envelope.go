package provider

import (
	"encoding/json"
	"fmt"
)

type guardianEnvelope struct {
	Response struct {
		Status  string            `json:"status"`
		Message string            `json:"message"`
		Results []json.RawMessage `json:"results"`
	} `json:"response"`
}

type newsAPIEnvelope struct {
	Status   string            `json:"status"`
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Articles []json.RawMessage `json:"articles"`
}

// APIError is an error reported inside a provider response body.
type APIError struct {
	Provider string
	Code     string
	Message  string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s API error %s: %s", e.Provider, e.Code, e.Message)
	}
	return fmt.Sprintf("%s API error: %s", e.Provider, e.Message)
}

func decodeGuardian(data []byte) ([]json.RawMessage, error) {
	var envelope guardianEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode guardian response: %w", err)
	}

	if status := envelope.Response.Status; status != "" && status != "ok" {
		return nil, &APIError{Provider: "guardian", Code: status, Message: envelope.Response.Message}
	}

	return envelope.Response.Results, nil
}

func decodeNewsAPI(data []byte) ([]json.RawMessage, error) {
	var envelope newsAPIEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode newsapi response: %w", err)
	}

	if envelope.Status != "ok" {
		return nil, &APIError{Provider: "newsapi", Code: envelope.Code, Message: envelope.Message}
	}

	return envelope.Articles, nil
}
