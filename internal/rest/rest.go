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

// Package rest implements the shared request layer for the Outlook REST
// endpoints.  It owns everything that is common to every call: bearer
// token headers, the request timeout, client side throttling and request
// identifiers.  Interpretation of the response is left to the caller.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gooutlook/internal/tracehttp"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the pinned API generation this module binds to.
	DefaultBaseURL = "https://graph.microsoft.com/v1.0"

	// Every call blocks for at most this long.
	requestTimeout = 10 * time.Second

	// Client side politeness bound.  The service enforces its own
	// throttling server side; this only keeps tight caller loops from
	// hammering it.
	rateLimitPerSecond = 20
	rateLimitBurst     = 40
)

// Settings configures a Client.  Every field has a usable zero value
// except Tokens.
type Settings struct {
	// Tokens supplies the bearer token.  It is consulted on every
	// request, so a rotating source takes effect immediately.
	Tokens oauth2.TokenSource

	// BaseURL overrides DefaultBaseURL.  Used by tests.
	BaseURL string

	// HTTPClient overrides the default client.  The default applies
	// the request timeout; an override is used as given.
	HTTPClient *http.Client

	// Trace dumps each request and response to the standard logger
	// with credentials redacted.
	Trace bool
}

// Client issues authenticated JSON requests against one base URL.
type Client struct {
	base    string
	httpc   *http.Client
	tokens  oauth2.TokenSource
	limiter *rate.Limiter
}

// New returns a Client for the given settings.
func New(s Settings) (*Client, error) {
	if s.Tokens == nil {
		return nil, errors.New("rest: token source is required")
	}
	base := s.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	base = strings.TrimRight(base, "/")

	httpc := s.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: requestTimeout}
	}
	if s.Trace {
		c := *httpc
		transport := c.Transport
		if transport == nil {
			transport = http.DefaultTransport
		}
		c.Transport = tracehttp.Wrap(transport)
		httpc = &c
	}

	return &Client{
		base:    base,
		httpc:   httpc,
		tokens:  s.Tokens,
		limiter: rate.NewLimiter(rateLimitPerSecond, rateLimitBurst),
	}, nil
}

// Do sends one request.  A non-nil payload is encoded as a JSON body.
// The response is returned unread; classifying the status code and
// consuming the body are the caller's job.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, payload interface{}) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrap(err, "encoding request body")
		}
		body = bytes.NewReader(buf)
	}

	endpoint := c.base + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, errors.Wrapf(err, "building %s %s", method, path)
	}

	tok, err := c.tokens.Token()
	if err != nil {
		return nil, errors.Wrap(err, "reading access token")
	}
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("client-request-id", uuid.NewString())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "sending %s %s", method, path)
	}
	return resp, nil
}
