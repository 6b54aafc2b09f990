package validation

import (
	"testing"

	"reviflow/internal/dto"
	"reviflow/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Struct(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name       string
		input      interface{}
		wantFields []string
	}{
		{
			name:  "valid register request",
			input: dto.RegisterRequest{Email: "parent@example.com", Password: "secret"},
		},
		{
			name:       "missing email and short password",
			input:      dto.RegisterRequest{Password: "abc"},
			wantFields: []string{"email", "password"},
		},
		{
			name:       "bad difficulty",
			input:      dto.GenerateQuizRequest{TextContent: "Les volcans", Difficulty: "extreme"},
			wantFields: []string{"difficulty"},
		},
		{
			name:       "empty image list",
			input:      dto.AnalyzeRequest{ImagesBase64: []string{}},
			wantFields: []string{"images_base64"},
		},
		{
			name:       "empty image inside list",
			input:      dto.AnalyzeRequest{ImagesBase64: []string{"abc", ""}},
			wantFields: []string{"images_base64[1]"},
		},
		{
			name:       "negative score",
			input:      dto.ScoreRequest{Topic: "Fractions", Score: -1},
			wantFields: []string{"score"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.Struct(tt.input)
			if len(tt.wantFields) == 0 {
				assert.Nil(t, errs)
				return
			}
			require.Len(t, errs, len(tt.wantFields))
			for i, field := range tt.wantFields {
				assert.Equal(t, field, errs[i].Field)
				assert.NotEmpty(t, errs[i].Message)
			}
		})
	}
}

func TestValidator_StructMessages(t *testing.T) {
	v := NewValidator()

	errs := v.Struct(dto.RegisterRequest{Password: "abc"})
	require.Len(t, errs, 2)
	assert.Equal(t, "field is required", errs[0].Message)
	assert.Equal(t, "must contain at least 4 item(s) or character(s)", errs[1].Message)

	errs = v.Struct(dto.RevisionActionRequest{RevisionID: "r", Difficulty: "impossible"})
	require.Len(t, errs, 1)
	assert.Equal(t, "must be one of: easy, medium, hard", errs[0].Message)
	assert.Equal(t, "impossible", errs[0].Value)
}

func TestValidator_ValidateID(t *testing.T) {
	v := NewValidator()

	assert.Nil(t, v.ValidateID("learner_id", "", false))
	assert.Nil(t, v.ValidateID("learner_id", util.NewULID(), true))

	errs := v.ValidateID("revision_id", "", true)
	require.Len(t, errs, 1)
	assert.Equal(t, "field is required", errs[0].Message)

	errs = v.ValidateID("revision_id", "not-an-id", true)
	require.Len(t, errs, 1)
	assert.Equal(t, "invalid format", errs[0].Message)
	assert.Equal(t, "not-an-id", errs[0].Value)
}
