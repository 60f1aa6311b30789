package acceptance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/arashpm/user-service/internal/dto"
)

func (s *Suite) registerUser(email, username, password string) dto.AuthResponse {
	reqBody := dto.RegisterRequest{
		Email:           email,
		Username:        username,
		FirstName:       "Test",
		LastName:        "User",
		Password:        password,
		PasswordConfirm: password,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(
		s.BaseURL+"/api/v1/auth/register",
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode, "Registration should succeed")

	var authResp dto.AuthResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&authResp))
	return authResp
}

func (s *Suite) postJSON(path string, payload interface{}) *http.Response {
	body, _ := json.Marshal(payload)
	resp, err := http.Post(s.BaseURL+path, "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	return resp
}

func (s *Suite) authedRequest(method, path, accessToken string, payload interface{}) *http.Response {
	var body *bytes.Buffer
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, s.BaseURL+path, body)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", accessToken))
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *Suite) TestHealthEndpoint() {
	resp, err := http.Get(s.BaseURL + "/health")
	s.Require().NoError(err, "Failed to make request")
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode, "Expected status 200")
}

func (s *Suite) TestRegister_Success() {
	authResp := s.registerUser("test@example.com", "testuser", "Password123")

	s.NotEmpty(authResp.AccessToken)
	s.NotEmpty(authResp.RefreshToken)
	s.Equal("Bearer", authResp.TokenType)
	s.NotZero(authResp.ExpiresIn)
	s.Equal("test@example.com", authResp.User.Email)
	s.Equal("testuser", authResp.User.Username)
	s.NotEmpty(authResp.User.ID)
}

func (s *Suite) TestRegister_PasswordMismatch() {
	resp := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		Email:           "mismatch@example.com",
		Username:        "mismatch",
		FirstName:       "Test",
		LastName:        "User",
		Password:        "Password123",
		PasswordConfirm: "Password456",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestRegister_DuplicateEmail() {
	s.registerUser("duplicate@example.com", "first", "Password123")

	resp := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		Email:           "duplicate@example.com",
		Username:        "second",
		FirstName:       "Test",
		LastName:        "User",
		Password:        "Password123",
		PasswordConfirm: "Password123",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusConflict, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("Conflict", errResp.Error)
}

func (s *Suite) TestLogin_Success() {
	s.registerUser("login@example.com", "loginuser", "Password123")

	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "login@example.com",
		Password: "Password123",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var authResp dto.AuthResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&authResp))

	s.NotEmpty(authResp.AccessToken)
	s.NotEmpty(authResp.RefreshToken)
	s.Equal("Bearer", authResp.TokenType)
	s.Equal("login@example.com", authResp.User.Email)
	s.NotNil(authResp.User.LastLoginAt)
}

func (s *Suite) TestLogin_InvalidCredentials() {
	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "nonexistent@example.com",
		Password: "wrongpassword",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("Unauthorized", errResp.Error)
}

func (s *Suite) TestLogin_WrongPassword() {
	s.registerUser("wrongpass@example.com", "wrongpass", "CorrectPassword123")

	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "wrongpass@example.com",
		Password: "WrongPassword123",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestRefresh_RotatesToken() {
	authResp := s.registerUser("refresh@example.com", "refresher", "Password123")

	resp := s.postJSON("/api/v1/auth/refresh", dto.RefreshRequest{
		Refresh: authResp.RefreshToken,
	})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var renewed dto.AuthResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&renewed))
	s.NotEmpty(renewed.AccessToken)
	s.NotEmpty(renewed.RefreshToken)
	s.NotEqual(authResp.RefreshToken, renewed.RefreshToken)

	// The rotated-out refresh token must be dead
	replay := s.postJSON("/api/v1/auth/refresh", dto.RefreshRequest{
		Refresh: authResp.RefreshToken,
	})
	defer replay.Body.Close()
	s.Equal(http.StatusUnauthorized, replay.StatusCode)
}

func (s *Suite) TestRefresh_RejectsAccessToken() {
	authResp := s.registerUser("refreshaccess@example.com", "refreshaccess", "Password123")

	resp := s.postJSON("/api/v1/auth/refresh", dto.RefreshRequest{
		Refresh: authResp.AccessToken,
	})
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestRefresh_GarbageToken() {
	resp := s.postJSON("/api/v1/auth/refresh", dto.RefreshRequest{
		Refresh: "not-a-token",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("MalformedToken", errResp.ErrorType)
}

func (s *Suite) TestLogout_RevokesRefresh() {
	authResp := s.registerUser("logout@example.com", "logoutuser", "Password123")

	resp := s.authedRequest("POST", "/api/v1/auth/logout", authResp.AccessToken, dto.LogoutRequest{
		Refresh: authResp.RefreshToken,
	})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var successResp dto.SuccessResponse
	json.NewDecoder(resp.Body).Decode(&successResp)
	s.Equal("Successfully logged out.", successResp.Message)

	// The revoked refresh token cannot mint new sessions
	refreshResp := s.postJSON("/api/v1/auth/refresh", dto.RefreshRequest{
		Refresh: authResp.RefreshToken,
	})
	defer refreshResp.Body.Close()
	s.Equal(http.StatusUnauthorized, refreshResp.StatusCode)
}

func (s *Suite) TestLogout_Idempotent() {
	authResp := s.registerUser("relogout@example.com", "relogout", "Password123")

	first := s.authedRequest("POST", "/api/v1/auth/logout", authResp.AccessToken, dto.LogoutRequest{
		Refresh: authResp.RefreshToken,
	})
	first.Body.Close()
	s.Equal(http.StatusOK, first.StatusCode)

	second := s.authedRequest("POST", "/api/v1/auth/logout", authResp.AccessToken, dto.LogoutRequest{
		Refresh: authResp.RefreshToken,
	})
	defer second.Body.Close()
	s.Equal(http.StatusOK, second.StatusCode)
}

func (s *Suite) TestDecode_Anonymous() {
	authResp := s.registerUser("decode@example.com", "decoder", "Password123")

	resp := s.postJSON("/api/v1/auth/decode", dto.DecodeRequest{
		Token: authResp.AccessToken,
	})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var decodeResp dto.DecodeResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&decodeResp))

	s.True(decodeResp.Success)
	s.True(decodeResp.Options.VerifyExp)
	s.True(decodeResp.Options.VerifyAud)
	s.True(decodeResp.Options.VerifyIss)

	payload, ok := decodeResp.Payload.(map[string]interface{})
	s.Require().True(ok)
	s.Equal("decode@example.com", payload["email"])
	s.Equal("access", payload["token_type"])
	s.Equal(authResp.User.ID, payload["user_id"])
}

func (s *Suite) TestDecode_BadToken() {
	resp := s.postJSON("/api/v1/auth/decode", dto.DecodeRequest{
		Token: "not.a.token",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var body map[string]interface{}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.Equal(false, body["success"])
	s.Equal("MalformedToken", body["error_type"])
}

func (s *Suite) TestGetMe_Success() {
	authResp := s.registerUser("getme@example.com", "getme", "Password123")

	resp := s.authedRequest("GET", "/api/v1/auth/me", authResp.AccessToken, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var userResp dto.UserResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&userResp))

	s.Equal("getme@example.com", userResp.Email)
	s.NotEmpty(userResp.ID)
	s.NotEmpty(userResp.DateJoined)
	s.True(userResp.IsActive)
	s.False(userResp.IsStaff)
}

func (s *Suite) TestGetMe_NoToken() {
	resp := s.authedRequest("GET", "/api/v1/auth/me", "", nil)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestGetMe_InvalidToken() {
	resp := s.authedRequest("GET", "/api/v1/auth/me", "invalid-token", nil)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestGetMe_RefreshTokenRejected() {
	authResp := s.registerUser("mewithrefresh@example.com", "mewithrefresh", "Password123")

	resp := s.authedRequest("GET", "/api/v1/auth/me", authResp.RefreshToken, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestCompleteFlow() {
	authResp := s.registerUser("complete@example.com", "complete", "Password123")

	meResp := s.authedRequest("GET", "/api/v1/auth/me", authResp.AccessToken, nil)
	meResp.Body.Close()
	s.Equal(http.StatusOK, meResp.StatusCode)

	refreshResp := s.postJSON("/api/v1/auth/refresh", dto.RefreshRequest{
		Refresh: authResp.RefreshToken,
	})
	defer refreshResp.Body.Close()
	s.Equal(http.StatusOK, refreshResp.StatusCode)

	var renewed dto.AuthResponse
	json.NewDecoder(refreshResp.Body).Decode(&renewed)

	logoutResp := s.authedRequest("POST", "/api/v1/auth/logout", renewed.AccessToken, dto.LogoutRequest{
		Refresh: renewed.RefreshToken,
	})
	logoutResp.Body.Close()
	s.Equal(http.StatusOK, logoutResp.StatusCode)

	replayResp := s.postJSON("/api/v1/auth/refresh", dto.RefreshRequest{
		Refresh: renewed.RefreshToken,
	})
	defer replayResp.Body.Close()
	s.Equal(http.StatusUnauthorized, replayResp.StatusCode)
}
