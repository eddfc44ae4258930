package memberful

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingAPIKey is returned when a client is constructed without an
	// API key.
	ErrMissingAPIKey = errors.New("memberful API key is required")

	// ErrUnauthorized is returned when the API rejects the key.
	ErrUnauthorized = errors.New("memberful API rejected the credentials")

	// ErrAPIError is returned for unexpected HTTP responses from the API.
	ErrAPIError = errors.New("memberful API error")

	// ErrGraphQL is the kind wrapped by GraphQLError.
	ErrGraphQL = errors.New("graphql query failed")

	// ErrNotFound is returned when a query resolves to no record.
	ErrNotFound = errors.New("record not found")
)

// GraphQLErrorDetail is a single error from a GraphQL response envelope.
type GraphQLErrorDetail struct {
	Message string `json:"message"`
	// Path segments are strings for fields and numbers for list indices.
	Path []interface{} `json:"path,omitempty"`
}

// GraphQLError is returned when the API answers 200 but the response carries
// GraphQL-level errors.
type GraphQLError struct {
	Errors []GraphQLErrorDetail
}

func (e *GraphQLError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, detail := range e.Errors {
		msgs[i] = detail.Message
	}
	return fmt.Sprintf("graphql query failed: %s", strings.Join(msgs, "; "))
}

func (e *GraphQLError) Unwrap() error { return ErrGraphQL }
