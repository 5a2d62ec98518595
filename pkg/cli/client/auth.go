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

package client

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/vanminhtruong/notectl/pkg/cli/context"
)

// LoginPayload is a payload for the login endpoint
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	DeviceID string `json:"deviceId"`
}

// LoginResp is the response from the login endpoint
type LoginResp struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// Login requests a bearer token for the given credentials
func Login(ctx context.NotectlCtx, email, password, deviceID string) (LoginResp, error) {
	payload := LoginPayload{
		Email:    email,
		Password: password,
		DeviceID: deviceID,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return LoginResp{}, errors.Wrap(err, "marshaling payload")
	}

	res, err := doReq(ctx, "POST", "/api/v1/auth/login", string(b))
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusUnauthorized {
			return LoginResp{}, ErrInvalidLogin
		}
		return LoginResp{}, errors.Wrap(err, "making http request")
	}

	var resp LoginResp
	if err := decodeInto(res, &resp); err != nil {
		return LoginResp{}, err
	}

	return resp, nil
}

// Logout deletes the current session on the server side
func Logout(ctx context.NotectlCtx) error {
	res, err := doAuthorizedReq(ctx, "POST", "/api/v1/auth/logout", "")
	if err != nil {
		return errors.Wrap(err, "making http request")
	}
	drainBody(res)

	return nil
}

// GetMeResp is the response from the current user endpoint
type GetMeResp struct {
	User User `json:"user"`
}

// GetMe fetches the profile of the current user
func GetMe(ctx context.NotectlCtx) (GetMeResp, error) {
	res, err := doAuthorizedReq(ctx, "GET", "/api/v1/auth/me", "")
	if err != nil {
		return GetMeResp{}, errors.Wrap(err, "making the request")
	}

	var resp GetMeResp
	if err := decodeInto(res, &resp); err != nil {
		return GetMeResp{}, err
	}

	return resp, nil
}

// UpdateProfilePayload is a partial patch for the current user's profile
type UpdateProfilePayload struct {
	Name   *string `json:"name,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

// UpdateProfile updates the profile of the current user
func UpdateProfile(ctx context.NotectlCtx, payload UpdateProfilePayload) (GetMeResp, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return GetMeResp{}, errors.Wrap(err, "marshaling payload")
	}

	res, err := doAuthorizedReq(ctx, "PUT", "/api/v1/auth/me", string(b))
	if err != nil {
		return GetMeResp{}, errors.Wrap(err, "patching the profile in the server")
	}

	var resp GetMeResp
	if err := decodeInto(res, &resp); err != nil {
		return GetMeResp{}, err
	}

	return resp, nil
}
