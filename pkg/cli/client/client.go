/* Copyright 2025 notectl Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package client provides interfaces for interacting with the notes server
// and the data structures for responses
package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/schema"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/vanminhtruong/notectl/pkg/cli/context"
	"github.com/vanminhtruong/notectl/pkg/cli/log"
)

// ErrInvalidLogin is an error for invalid credentials for login
var ErrInvalidLogin = errors.New("wrong credentials")

// ErrLoginRequired is an error for requesting an authorized endpoint without a token
var ErrLoginRequired = errors.New("not logged in")

// ErrSessionExpired is an error for a rejected token. The caller is expected
// to tear down the local session; the stored credentials are unrecoverable.
var ErrSessionExpired = errors.New("session expired")

// HTTPError represents an HTTP error response from the server
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf(`response %d "%s"`, e.StatusCode, e.Message)
}

// IsNotFound returns true if the error is a 404 Not Found error
func (e *HTTPError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

const (
	// clientRateLimitPerSecond is the max requests per second the client will make
	clientRateLimitPerSecond = 50
	// clientRateLimitBurst is the burst capacity for rate limiting
	clientRateLimitBurst = 100
)

// rateLimitedTransport wraps an http.RoundTripper with rate limiting
type rateLimitedTransport struct {
	transport http.RoundTripper
	limiter   *rate.Limiter
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.transport.RoundTrip(req)
}

// NewRateLimitedHTTPClient creates an HTTP client with rate limiting
func NewRateLimitedHTTPClient() *http.Client {
	interval := time.Second / time.Duration(clientRateLimitPerSecond)

	transport := &rateLimitedTransport{
		transport: http.DefaultTransport,
		limiter:   rate.NewLimiter(rate.Every(interval), clientRateLimitBurst),
	}
	return &http.Client{
		Transport: transport,
	}
}

func getHTTPClient(ctx context.NotectlCtx) *http.Client {
	if ctx.HTTPClient != nil {
		return ctx.HTTPClient
	}

	return &http.Client{}
}

func getReq(ctx context.NotectlCtx, method, path, body string) (*http.Request, error) {
	endpoint := fmt.Sprintf("%s%s", ctx.APIEndpoint, path)
	req, err := http.NewRequest(method, endpoint, strings.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "constructing http request")
	}

	req.Header.Set("Client-Version", ctx.Version)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if ctx.Token != "" {
		credential := fmt.Sprintf("Bearer %s", ctx.Token)
		req.Header.Set("Authorization", credential)
	}

	return req, nil
}

// errorResp is the body of an error response. The server reports the reason
// in the message field.
type errorResp struct {
	Message string `json:"message"`
}

// checkRespErr checks if the given http response indicates an error. It returns
// a decoded error message, falling back to the raw body when the payload is not
// the documented error shape.
func checkRespErr(res *http.Response) error {
	if res.StatusCode < 400 {
		return nil
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrapf(err, "server responded with %d but client could not read the response body", res.StatusCode)
	}

	message := strings.TrimRight(string(body), "\n")

	var payload errorResp
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		message = payload.Message
	}

	return &HTTPError{
		StatusCode: res.StatusCode,
		Message:    message,
	}
}

// doReq does a http request to the given path in the api endpoint
func doReq(ctx context.NotectlCtx, method, path, body string) (*http.Response, error) {
	req, err := getReq(ctx, method, path, body)
	if err != nil {
		return nil, errors.Wrap(err, "getting request")
	}

	log.Debug("HTTP %s %s\n", method, path)

	hc := getHTTPClient(ctx)
	res, err := hc.Do(req)
	if err != nil {
		return res, errors.Wrap(err, "making http request")
	}

	log.Debug("HTTP %d %s\n", res.StatusCode, res.Status)

	if err = checkRespErr(res); err != nil {
		res.Body.Close()
		return res, errors.Wrap(err, "server responded with an error")
	}

	return res, nil
}

// doAuthorizedReq does a http request to the given path in the api endpoint as
// a user, with the appropriate headers. The given path should include the
// preceding slash. A 401 with a token present means the session is gone on the
// server side and is reported as ErrSessionExpired.
func doAuthorizedReq(ctx context.NotectlCtx, method, path, body string) (*http.Response, error) {
	if ctx.Token == "" {
		return nil, ErrLoginRequired
	}

	res, err := doReq(ctx, method, path, body)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusUnauthorized {
			return res, ErrSessionExpired
		}
		return res, err
	}

	return res, nil
}

// decodeInto decodes the response body into the destination and closes the
// body
func decodeInto(res *http.Response, dest interface{}) error {
	defer res.Body.Close()

	if err := json.NewDecoder(res.Body).Decode(dest); err != nil {
		return errors.Wrap(err, "decoding response payload")
	}

	return nil
}

// drainBody discards and closes the response body of a call whose payload is
// not needed, so the underlying connection can be reused
func drainBody(res *http.Response) {
	io.Copy(io.Discard, res.Body)
	res.Body.Close()
}

var queryEncoder = schema.NewEncoder()

// encodeQuery encodes the given params struct into a URL query string
func encodeQuery(params interface{}) (string, error) {
	v := url.Values{}
	if err := queryEncoder.Encode(params, v); err != nil {
		return "", errors.Wrap(err, "encoding query params")
	}

	return v.Encode(), nil
}
