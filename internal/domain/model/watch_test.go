package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/assignwatch/internal/domain/model"
)

func TestParseItemURL(t *testing.T) {
	ref, err := model.ParseItemURL("https://github.com/golang/go/issues/12345")
	require.NoError(t, err)
	assert.Equal(t, model.ItemRef{Owner: "golang", Repo: "go", Number: 12345}, ref)
	assert.Equal(t, "golang/go", ref.FullName())
	assert.Equal(t, "https://github.com/golang/go/issues/12345", ref.URL())
}

func TestParseItemURL_Invalid(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"repo URL without issue", "https://github.com/golang/go"},
		{"pull request URL", "https://github.com/golang/go/pull/99"},
		{"non-numeric issue number", "https://github.com/golang/go/issues/abc"},
		{"zero issue number", "https://github.com/golang/go/issues/0"},
		{"trailing path segment", "https://github.com/golang/go/issues/1/comments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.ParseItemURL(tt.url)
			assert.Error(t, err)
		})
	}
}
