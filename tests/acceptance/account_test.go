package acceptance

import (
	"context"
	"net/http"
	"time"

	"github.com/bilogames/account-service/internal/dto"
)

func (s *Suite) TestRoot() {
	resp := s.request(http.MethodGet, "/", nil, "")
	s.Equal(http.StatusOK, resp.StatusCode)

	var body map[string]string
	s.decode(resp, &body)
	s.Equal("BiloGames API", body["message"])
	s.Equal("running", body["status"])
}

func (s *Suite) TestHealth() {
	resp := s.request(http.MethodGet, "/health", nil, "")
	s.Equal(http.StatusOK, resp.StatusCode)

	var body map[string]string
	s.decode(resp, &body)
	s.Equal("pass", body["status"])
}

func (s *Suite) TestRegisterLoginAndMe() {
	auth := s.register("a@x.com", "annlee", "Secret123!")
	s.Equal("Account created successfully", auth.Message)
	s.NotEmpty(auth.Token)
	s.False(auth.User.EmailVerified)
	s.Require().NotNil(auth.User.BirthDate)
	s.Equal("1990-04-12", *auth.User.BirthDate)

	resp := s.request(http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: "a@x.com", Password: "Secret123!"}, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var login dto.AuthResponse
	s.decode(resp, &login)
	s.Equal("Login successful", login.Message)

	resp = s.request(http.MethodGet, "/api/auth/me", nil, login.Token)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var me dto.MeResponse
	s.decode(resp, &me)
	s.Equal(auth.User.ID, me.User.ID)
	s.Equal("annlee", me.User.Username)

	s.Eventually(func() bool { return s.outbox.count("a@x.com") == 1 }, 2*time.Second, 20*time.Millisecond,
		"welcome mail is sent after registration")
}

func (s *Suite) TestRegister_Duplicates() {
	s.register("a@x.com", "annlee", "Secret123!")

	resp := s.request(http.MethodPost, "/api/auth/register", dto.RegisterRequest{
		Email: "a@x.com", Password: "Secret123!", Firstname: "Bo", Lastname: "Ng", Username: "bong",
	}, "")
	s.expectError(resp, http.StatusBadRequest, "Email already registered")

	resp = s.request(http.MethodPost, "/api/auth/register", dto.RegisterRequest{
		Email: "b@x.com", Password: "Secret123!", Firstname: "Bo", Lastname: "Ng", Username: "annlee",
	}, "")
	s.expectError(resp, http.StatusBadRequest, "Username already taken")
}

func (s *Suite) TestLogin_WrongPassword() {
	s.register("a@x.com", "annlee", "Secret123!")

	resp := s.request(http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: "a@x.com", Password: "Wrong123!"}, "")
	s.expectError(resp, http.StatusUnauthorized, "Invalid email or password")

	resp = s.request(http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: "nobody@x.com", Password: "Secret123!"}, "")
	s.expectError(resp, http.StatusUnauthorized, "Invalid email or password")
}

func (s *Suite) TestMe_TokenChecks() {
	resp := s.request(http.MethodGet, "/api/auth/me", nil, "")
	s.expectError(resp, http.StatusUnauthorized, "Token required")

	resp = s.request(http.MethodGet, "/api/auth/me", nil, "not-a-jwt")
	s.expectError(resp, http.StatusForbidden, "Invalid token")
}

func (s *Suite) TestUpdateProfile() {
	auth := s.register("a@x.com", "annlee", "Secret123!")

	firstname := "Anna"
	resp := s.request(http.MethodPut, "/api/auth/update", dto.UpdateProfileRequest{
		CurrentPassword: "Wrong123!",
		Firstname:       &firstname,
	}, auth.Token)
	s.expectError(resp, http.StatusUnauthorized, "Incorrect password")

	newPassword := "Fresh123!"
	resp = s.request(http.MethodPut, "/api/auth/update", dto.UpdateProfileRequest{
		CurrentPassword: "Secret123!",
		Firstname:       &firstname,
		NewPassword:     &newPassword,
	}, auth.Token)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var updated dto.AuthResponse
	s.decode(resp, &updated)
	s.Equal("Anna", updated.User.Firstname)
	s.NotEmpty(updated.Token)

	resp = s.request(http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: "a@x.com", Password: "Fresh123!"}, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func (s *Suite) TestDeleteAccount() {
	auth := s.register("a@x.com", "annlee", "Secret123!")

	resp := s.request(http.MethodDelete, "/api/auth/delete", dto.DeleteAccountRequest{Password: "Wrong123!"}, auth.Token)
	s.expectError(resp, http.StatusUnauthorized, "Incorrect password")

	resp = s.request(http.MethodDelete, "/api/auth/delete", dto.DeleteAccountRequest{Password: "Secret123!"}, auth.Token)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.request(http.MethodGet, "/api/auth/me", nil, auth.Token)
	s.expectError(resp, http.StatusNotFound, "User not found")
}

func (s *Suite) TestEmailVerification() {
	auth := s.register("a@x.com", "annlee", "Secret123!")

	resp := s.request(http.MethodPost, "/api/auth/send-verification", nil, auth.Token)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	code := s.outbox.lastCode("a@x.com")
	s.Require().Len(code, 6)

	resp = s.request(http.MethodPost, "/api/auth/verify-email", dto.VerifyEmailRequest{Code: code}, auth.Token)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var verified dto.AuthResponse
	s.decode(resp, &verified)
	s.True(verified.User.EmailVerified)

	resp = s.request(http.MethodPost, "/api/auth/verify-email", dto.VerifyEmailRequest{Code: code}, auth.Token)
	s.expectError(resp, http.StatusBadRequest, "Invalid or expired code")

	resp = s.request(http.MethodPost, "/api/auth/send-verification", nil, auth.Token)
	s.expectError(resp, http.StatusBadRequest, "Email already verified")
}

func (s *Suite) TestPasswordReset() {
	s.register("a@x.com", "annlee", "Secret123!")

	resp := s.request(http.MethodPost, "/api/auth/forgot-password", dto.ForgotPasswordRequest{Email: "nobody@x.com"}, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	s.Zero(s.outbox.count("nobody@x.com"))

	resp = s.request(http.MethodPost, "/api/auth/forgot-password", dto.ForgotPasswordRequest{Email: "a@x.com"}, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	code := s.outbox.lastCode("a@x.com")
	s.Require().Len(code, 6)

	resp = s.request(http.MethodPost, "/api/auth/verify-reset-code", dto.VerifyResetCodeRequest{Email: "a@x.com", Code: code}, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var valid dto.ValidResponse
	s.decode(resp, &valid)
	s.True(valid.Valid)

	resp = s.request(http.MethodPost, "/api/auth/reset-password", dto.ResetPasswordRequest{
		Email: "a@x.com", Code: code, NewPassword: "Fresh123!",
	}, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.request(http.MethodPost, "/api/auth/reset-password", dto.ResetPasswordRequest{
		Email: "a@x.com", Code: code, NewPassword: "Again123!",
	}, "")
	s.expectError(resp, http.StatusBadRequest, "Invalid or expired code")

	resp = s.request(http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: "a@x.com", Password: "Fresh123!"}, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func (s *Suite) TestReaper_DeletesStaleUnverifiedAccounts() {
	stale := s.register("stale@x.com", "staleuser", "Secret123!")
	fresh := s.register("fresh@x.com", "freshuser", "Secret123!")

	_, err := s.Postgres.DB.Exec(`UPDATE users SET created_at = NOW() - INTERVAL '6 days' WHERE id = $1`, stale.User.ID)
	s.Require().NoError(err)
	_, err = s.Postgres.DB.Exec(`UPDATE users SET created_at = NOW() - INTERVAL '4 days' WHERE id = $1`, fresh.User.ID)
	s.Require().NoError(err)

	deleted, err := s.App.Reaper().RunOnce(context.Background())
	s.Require().NoError(err)
	s.Equal(1, deleted)

	resp := s.request(http.MethodGet, "/api/auth/me", nil, stale.Token)
	s.expectError(resp, http.StatusNotFound, "User not found")

	resp = s.request(http.MethodGet, "/api/auth/me", nil, fresh.Token)
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
