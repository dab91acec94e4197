package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleEnums = []Enum{
	{Tag: "subject", Values: []string{"Japanese", "Math", "Science", "Social Studies"}},
	{Tag: "lesson_type", Values: []string{"Regular", "Spring", "Summer", "Winter"}},
}

type sample struct {
	Subject    string `json:"subject" validate:"required,subject"`
	LessonType string `json:"lesson_type" validate:"required,lesson_type"`
	TestNumber int    `json:"test_number" validate:"min=1,max=50"`
}

func TestValidatorEnums(t *testing.T) {
	v := New(sampleEnums...)

	require.NoError(t, v.Struct(sample{Subject: "Social Studies", LessonType: "Winter", TestNumber: 1}))

	err := v.Struct(sample{Subject: "Art", LessonType: "Autumn", TestNumber: 1})
	require.Error(t, err)
	msg := v.Describe(err)
	assert.Contains(t, msg, "subject must be one of Japanese, Math, Science, Social Studies")
	assert.Contains(t, msg, "lesson_type must be one of")
}

func TestValidatorUsesJSONNames(t *testing.T) {
	v := New(sampleEnums...)
	err := v.Struct(sample{Subject: "Math", LessonType: "Regular", TestNumber: 51})
	require.Error(t, err)
	assert.Contains(t, v.Describe(err), "test_number")
}

func TestDescribePlainError(t *testing.T) {
	assert.Equal(t, "boom", New().Describe(errors.New("boom")))
}
