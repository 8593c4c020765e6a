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

// Package tracehttp logs HTTP traffic for debugging.  Authorization
// headers are redacted before anything is written; the dumps would
// otherwise leak bearer tokens.
package tracehttp

import (
	"log"
	"net/http"
	"net/http/httputil"
)

const redacted = "Bearer [redacted]"

type traceTransport struct {
	delegate http.RoundTripper
}

// RoundTrip logs a dump of the request and response while delegating
// the round trip to the delegate.
func (t *traceTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	dump, dumpErr := httputil.DumpRequestOut(redact(req), true)
	if dumpErr == nil {
		log.Printf("tracehttp: request\n%s", dump)
	}
	resp, err := t.delegate.RoundTrip(req)
	if err == nil {
		dump, dumpErr = httputil.DumpResponse(resp, true)
		if dumpErr == nil {
			log.Printf("tracehttp: response\n%s", dump)
		}
	}
	return resp, err
}

// redact returns a shallow copy of req safe for logging.  The original
// request is never modified.
func redact(req *http.Request) *http.Request {
	if req.Header.Get("Authorization") == "" {
		return req
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", redacted)
	// Cloning does not duplicate the body; dumping the clone's body
	// would consume the original.  Header traffic is what matters for
	// redaction, so drop it.
	clone.Body = nil
	clone.ContentLength = 0
	return clone
}

// Wrap returns an http.RoundTripper that logs traffic passing through d.
func Wrap(d http.RoundTripper) http.RoundTripper {
	return &traceTransport{delegate: d}
}
