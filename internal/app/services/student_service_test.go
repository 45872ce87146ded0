package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Saewt/university-visitor-system/internal/pkg/apperrors"
)

func TestValidateStudentFields(t *testing.T) {
	assert.NoError(t, validateStudentFields(nil, nil))
	assert.NoError(t, validateStudentFields(f64Ptr(0), i64Ptr(1)))
	assert.NoError(t, validateStudentFields(f64Ptr(600), i64Ptr(250000)))
}

func TestValidateStudentFieldsRejectsOutOfRange(t *testing.T) {
	cases := []struct {
		name    string
		score   *float64
		ranking *int64
		field   string
	}{
		{"score below minimum", f64Ptr(-1), nil, "yks_score"},
		{"score above maximum", f64Ptr(600.5), nil, "yks_score"},
		{"ranking below floor", nil, i64Ptr(0), "ranking"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateStudentFields(tc.score, tc.ranking)
			var customErr *apperrors.CustomError
			assert.ErrorAs(t, err, &customErr)
			assert.Equal(t, tc.field, customErr.Details["field"])
		})
	}
}
