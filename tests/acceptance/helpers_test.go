package acceptance

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/bilogames/account-service/internal/dto"
)

func (s *Suite) request(method, path string, body interface{}, token string) *http.Response {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, s.BaseURL+path, reader)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *Suite) decode(resp *http.Response, v interface{}) {
	defer resp.Body.Close()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(v))
}

func (s *Suite) expectError(resp *http.Response, status int, message string) {
	s.Equal(status, resp.StatusCode)
	var body dto.ErrorResponse
	s.decode(resp, &body)
	s.Equal(message, body.Error)
}

func (s *Suite) register(email, username, password string) dto.AuthResponse {
	resp := s.request(http.MethodPost, "/api/auth/register", dto.RegisterRequest{
		Email:     email,
		Password:  password,
		Firstname: "Ann",
		Lastname:  "Lee",
		Username:  username,
		BirthDate: "1990-04-12",
	}, "")
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var auth dto.AuthResponse
	s.decode(resp, &auth)
	return auth
}
