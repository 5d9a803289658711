package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"trulearn-be/internal/pkg/apperror"
	"trulearn-be/pkg/nli"
)

const defaultModel = "cross-encoder/nli-deberta-v3-base"

type HuggingFaceProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// Ensure HuggingFaceProvider implements the NLI contract
var _ nli.Provider = &HuggingFaceProvider{}

func NewHuggingFaceProvider(apiKey, baseURL, model string) *HuggingFaceProvider {
	if baseURL == "" {
		baseURL = "https://api-inference.huggingface.co" // Default Inference URL
	}
	if model == "" {
		model = defaultModel
	}
	return &HuggingFaceProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Request Payload Structure (HF text-classification pair input)
type classifyRequest struct {
	Inputs classifyInputs `json:"inputs"`
}

type classifyInputs struct {
	Text     string `json:"text"`
	TextPair string `json:"text_pair"`
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (p *HuggingFaceProvider) Classify(ctx context.Context, premise, hypothesis string) (*nli.Result, error) {
	reqBody := classifyRequest{
		Inputs: classifyInputs{
			Text:     premise,
			TextPair: hypothesis,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s", p.baseURL, p.model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.apiKey))
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("huggingface api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	// The inference API wraps the scores in one extra array level per input.
	var nested [][]labelScore
	if err := json.Unmarshal(bodyBytes, &nested); err != nil {
		// Some deployments return the flat form
		var flat []labelScore
		if err2 := json.Unmarshal(bodyBytes, &flat); err2 != nil {
			return nil, apperror.NewMalformedResponseError("entailment",
				fmt.Errorf("failed to decode response: %w", err))
		}
		nested = [][]labelScore{flat}
	}

	if len(nested) == 0 || len(nested[0]) == 0 {
		return nil, apperror.NewMalformedResponseError("entailment",
			fmt.Errorf("empty classification"))
	}

	result := &nli.Result{
		Scores: make(map[string]float64, len(nested[0])),
	}
	best := -1.0
	for _, ls := range nested[0] {
		label := normalizeLabel(ls.Label)
		result.Scores[label] = ls.Score
		if ls.Score > best {
			best = ls.Score
			result.Label = label
		}
	}

	return result, nil
}

// normalizeLabel maps model-specific label spellings (ENTAILMENT,
// LABEL_0/1/2) onto the three standard names.
func normalizeLabel(label string) string {
	switch strings.ToLower(label) {
	case "label_0", nli.LabelContradiction:
		return nli.LabelContradiction
	case "label_1", nli.LabelEntailment:
		return nli.LabelEntailment
	case "label_2", nli.LabelNeutral:
		return nli.LabelNeutral
	default:
		return strings.ToLower(label)
	}
}
