package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "jotter/pkg/domain-errors"
)

type sample struct {
	Email   string `json:"email" validate:"required,email"`
	Title   string `json:"title" validate:"notblank,max=8"`
	OwnerID string `json:"owner_id" validate:"omitempty,uuid"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  sample
		msg  string
	}{
		{"missing email", sample{Title: "t"}, "email is required"},
		{"bad email", sample{Email: "nope", Title: "t"}, "email must be a valid email"},
		{"blank title", sample{Email: "a@x.com", Title: "   "}, "title must not be blank"},
		{"long title", sample{Email: "a@x.com", Title: "123456789"}, "title must be at most 8"},
		{"bad uuid", sample{Email: "a@x.com", Title: "t", OwnerID: "x"}, "owner_id must be a valid uuid"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.req)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			assert.Contains(t, err.Error(), tc.msg)
			assert.False(t, Valid(tc.req))
		})
	}

	ok := sample{Email: "a@x.com", Title: "t"}
	assert.NoError(t, Validate(ok))
	assert.True(t, Valid(ok))
}
