package commerce

import (
	"fmt"
	"strings"
)

// GraphQLError is a transport- or query-level failure from the admin API.
// These are usually retryable on a later trigger (bad deploy, throttle,
// network) as opposed to UserError which is terminal for the given input.
type GraphQLError struct {
	StatusCode int
	Messages   []string
}

func (e *GraphQLError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("commerce API request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("commerce API request failed (status %d): %s", e.StatusCode, strings.Join(e.Messages, "; "))
}

// UserError is a domain-level rejection reported inside a mutation payload
// (invalid field value, duplicate email and the like). Retrying the same
// input will not help.
type UserError struct {
	Fields []string
}

func (e *UserError) Error() string {
	return "commerce API user errors: " + strings.Join(e.Fields, "; ")
}

// newUserError formats the userErrors array of a mutation payload.
func newUserError(errs []userError) *UserError {
	fields := make([]string, 0, len(errs))
	for _, ue := range errs {
		fieldPath := "unknown field"
		if len(ue.Field) > 0 {
			fieldPath = strings.Join(ue.Field, ".")
		}
		fields = append(fields, fmt.Sprintf("%s: %s", fieldPath, ue.Message))
	}
	return &UserError{Fields: fields}
}
