package huggingface

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trulearn-be/internal/pkg/apperror"
	"trulearn-be/pkg/nli"
)

func newTestProvider(handler http.HandlerFunc) (*HuggingFaceProvider, func()) {
	srv := httptest.NewServer(handler)
	p := NewHuggingFaceProvider("test-key", srv.URL, "")
	return p, srv.Close
}

func TestClassifyNormalizesNestedLabels(t *testing.T) {
	p, done := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[[
			{"label": "LABEL_1", "score": 0.8},
			{"label": "LABEL_0", "score": 0.15},
			{"label": "LABEL_2", "score": 0.05}
		]]`))
	})
	defer done()

	result, err := p.Classify(context.Background(), "the premise", "the hypothesis")
	require.NoError(t, err)

	assert.Equal(t, nli.LabelEntailment, result.Label)
	assert.InDelta(t, 0.8, result.Scores[nli.LabelEntailment], 1e-9)
	assert.InDelta(t, 0.15, result.Scores[nli.LabelContradiction], 1e-9)
	assert.InDelta(t, 0.05, result.Scores[nli.LabelNeutral], 1e-9)
}

func TestClassifyAcceptsFlatForm(t *testing.T) {
	p, done := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"label": "contradiction", "score": 0.7},
			{"label": "entailment", "score": 0.2},
			{"label": "neutral", "score": 0.1}
		]`))
	})
	defer done()

	result, err := p.Classify(context.Background(), "the premise", "the hypothesis")
	require.NoError(t, err)
	assert.Equal(t, nli.LabelContradiction, result.Label)
}

func TestClassifyUndecodableBodyIsMalformed(t *testing.T) {
	p, done := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`model warming up, try again later`))
	})
	defer done()

	_, err := p.Classify(context.Background(), "the premise", "the hypothesis")

	require.Error(t, err)
	var malformedErr *apperror.MalformedResponseError
	require.ErrorAs(t, err, &malformedErr)
	assert.Equal(t, "entailment", malformedErr.Capability)
}

func TestClassifyEmptyClassificationIsMalformed(t *testing.T) {
	p, done := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[[]]`))
	})
	defer done()

	_, err := p.Classify(context.Background(), "the premise", "the hypothesis")

	require.Error(t, err)
	var malformedErr *apperror.MalformedResponseError
	require.ErrorAs(t, err, &malformedErr)
}

func TestClassifyHTTPErrorIsNotMalformed(t *testing.T) {
	p, done := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error": "model overloaded"}`))
	})
	defer done()

	_, err := p.Classify(context.Background(), "the premise", "the hypothesis")

	require.Error(t, err)
	var malformedErr *apperror.MalformedResponseError
	assert.False(t, errors.As(err, &malformedErr))
}
