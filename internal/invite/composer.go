// Package invite asks Bedrock for a one-line invitation built from a proposal.
package invite

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kyiku/hackz-valentine-back/internal/state"
	"github.com/kyiku/hackz-valentine-back/internal/summary"
)

// BedrockClientInterface defines the interface for Bedrock client.
type BedrockClientInterface interface {
	InvokeModel(modelID string, prompt string) (string, error)
}

// DefaultModelID is Claude 3 Haiku.
const DefaultModelID = "anthropic.claude-3-haiku-20240307-v1:0"

// ClaudeResponse represents the response from Claude.
type ClaudeResponse struct {
	Content []ContentBlock `json:"content"`
}

// ContentBlock represents a content block in Claude's response.
type ContentBlock struct {
	Text string `json:"text"`
}

// Composer writes invitations.
type Composer struct {
	client          BedrockClientInterface
	modelID         string
	fallbackEnabled bool
}

// NewComposer creates a Composer. An empty modelID selects DefaultModelID.
func NewComposer(client BedrockClientInterface, modelID string) *Composer {
	if modelID == "" {
		modelID = DefaultModelID
	}
	return &Composer{
		client:  client,
		modelID: modelID,
	}
}

// EnableFallback makes Compose return the plain copy text instead of an error.
func (c *Composer) EnableFallback(enabled bool) {
	c.fallbackEnabled = enabled
}

// Compose returns a one-line Italian invitation for p.
func (c *Composer) Compose(p state.Proposal) (string, error) {
	if c.client == nil {
		if c.fallbackEnabled {
			return summary.CopyText(p), nil
		}
		return "", errors.New("bedrock client not configured")
	}

	response, err := c.client.InvokeModel(c.modelID, c.buildPrompt(p))
	if err != nil {
		if c.fallbackEnabled {
			return summary.CopyText(p), nil
		}
		return "", fmt.Errorf("failed to invoke Bedrock: %w", err)
	}

	result, err := c.parseResponse(response)
	if err != nil {
		if c.fallbackEnabled {
			return summary.CopyText(p), nil
		}
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	return result, nil
}

func (c *Composer) buildPrompt(p state.Proposal) string {
	var details strings.Builder
	for _, r := range summary.Rows(p) {
		fmt.Fprintf(&details, "%s: %s\n", r.Label, r.Value)
	}

	return fmt.Sprintf(`Sei un assistente romantico ma sobrio.
Scrivi un invito di San Valentino in italiano, una sola frase, senza emoji.
Usa solo i dettagli qui sotto e non inventare luoghi.

%s
Rispondi solo con la frase.`, details.String())
}

func (c *Composer) parseResponse(response string) (string, error) {
	var claudeResp ClaudeResponse
	if err := json.Unmarshal([]byte(response), &claudeResp); err != nil {
		return "", err
	}

	if len(claudeResp.Content) == 0 {
		return "", errors.New("empty content in response")
	}

	text := strings.TrimSpace(claudeResp.Content[0].Text)
	if text == "" {
		return "", errors.New("empty text in response")
	}
	return text, nil
}
