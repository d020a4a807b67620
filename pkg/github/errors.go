package github

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/go-github/v68/github"
)

// errorResponse extracts the go-github error response, if any.
func errorResponse(err error) *github.ErrorResponse {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		return ghErr
	}
	return nil
}

func statusCode(err error) int {
	if ghErr := errorResponse(err); ghErr != nil && ghErr.Response != nil {
		return ghErr.Response.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return statusCode(err) == http.StatusNotFound
}

// IsUnauthorized reports whether err is a 401 or a 403 from the API.
func IsUnauthorized(err error) bool {
	code := statusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// IsConflict reports whether err is a 409 from the API. Pages enablement
// returns 409 when the site is already configured.
func IsConflict(err error) bool {
	return statusCode(err) == http.StatusConflict
}

// IsAlreadyExists reports whether err is a 422 carrying an "already exists"
// validation error, as returned by repository creation when the name is taken.
func IsAlreadyExists(err error) bool {
	ghErr := errorResponse(err)
	if ghErr == nil || ghErr.Response == nil || ghErr.Response.StatusCode != http.StatusUnprocessableEntity {
		return false
	}
	for _, e := range ghErr.Errors {
		if e.Code == "already_exists" || strings.Contains(e.Message, "already exists") {
			return true
		}
	}
	return strings.Contains(ghErr.Message, "already exists")
}
