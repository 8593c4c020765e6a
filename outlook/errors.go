// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package outlook

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// OutlookError is implemented by every error this library originates,
// both server classifications and local validation failures.  Errors
// from the transport itself (timeouts, DNS) are returned as-is.
type OutlookError interface {
	error
	outlookError()
}

// APIError is an error response from the remote service that does not
// fall into a more specific class.  It is also the base of AuthError
// and RequestError: errors.As with an *APIError target matches all
// three.
type APIError struct {
	// StatusCode is the HTTP status that produced the error.
	StatusCode int

	// Message carries the best-effort extraction of the response body.
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("outlook: API error (status %d)", e.StatusCode)
	}
	return e.Message
}

func (e *APIError) outlookError() {}

// AuthError reports a credential or authorization failure (401 or 403),
// typically an expired or invalid access token.
type AuthError struct {
	APIError
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "Access Token Error, double check your access token."
	}
	return e.Message
}

func (e *AuthError) Unwrap() error { return &e.APIError }

// RequestError reports a malformed request (400).
type RequestError struct {
	APIError
}

func (e *RequestError) Unwrap() error { return &e.APIError }

// MiscError reports a local validation failure detected before any
// network call.  It never represents a server response and is therefore
// not an APIError.
type MiscError struct {
	Message string
}

func (e *MiscError) Error() string { return e.Message }

func (e *MiscError) outlookError() {}

func miscErrorf(format string, args ...interface{}) *MiscError {
	return &MiscError{Message: fmt.Sprintf(format, args...)}
}

// CheckResponse classifies an HTTP response.  It returns nil for
// success codes and a typed error otherwise.  Every network call this
// library makes runs its response through here; no service interprets a
// status code itself.
func CheckResponse(statusCode int, body []byte) error {
	if statusCode > 100 && statusCode < 299 {
		return nil
	}

	message := responseMessage(body)

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{APIError{
			StatusCode: statusCode,
			Message: fmt.Sprintf(
				"Access Token Error, Received %d from Outlook REST Endpoint with the message: %s",
				statusCode, message),
		}}
	case http.StatusBadRequest:
		return &RequestError{APIError{
			StatusCode: statusCode,
			Message: fmt.Sprintf(
				"The request made to the Outlook API was invalid. Received the following message: %s",
				message),
		}}
	default:
		return &APIError{
			StatusCode: statusCode,
			Message: fmt.Sprintf(
				"Encountered an unknown error from the Outlook API: %s", message),
		}
	}
}

// responseMessage extracts the error detail from a response body: the
// body re-rendered as compact JSON when it parses, the raw text
// otherwise.
func responseMessage(body []byte) string {
	var v interface{}
	if err := json.Unmarshal(body, &v); err == nil {
		if compact, err := json.Marshal(v); err == nil {
			return string(compact)
		}
	}
	return string(body)
}
