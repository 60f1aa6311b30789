package acceptance

import (
	"encoding/json"
	"net/http"

	"github.com/arashpm/user-service/internal/dto"
)

func (s *Suite) promoteToStaff(email string) {
	_, err := s.Postgres.DB.Exec("UPDATE users SET is_staff = true WHERE email = $1", email)
	s.Require().NoError(err)
}

func strPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }

func (s *Suite) TestUpdateProfile_Partial() {
	authResp := s.registerUser("profile@example.com", "profileuser", "Password123")

	resp := s.authedRequest("PATCH", "/api/v1/users/me", authResp.AccessToken, dto.UpdateProfileRequest{
		FirstName:   strPtr("Updated"),
		PhoneNumber: strPtr("+15550001111"),
	})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var userResp dto.UserResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&userResp))

	s.Equal("Updated", userResp.FirstName)
	s.Require().NotNil(userResp.PhoneNumber)
	s.Equal("+15550001111", *userResp.PhoneNumber)
	// untouched fields keep their values
	s.Equal("User", userResp.LastName)
	s.Equal("profile@example.com", userResp.Email)
}

func (s *Suite) TestChangePassword_Flow() {
	authResp := s.registerUser("changepw@example.com", "changepw", "OldPassword123")

	resp := s.authedRequest("POST", "/api/v1/users/me/password", authResp.AccessToken, dto.ChangePasswordRequest{
		OldPassword:        "OldPassword123",
		NewPassword:        "NewPassword456",
		NewPasswordConfirm: "NewPassword456",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var successResp dto.SuccessResponse
	json.NewDecoder(resp.Body).Decode(&successResp)
	s.Equal("Password changed successfully.", successResp.Message)

	oldLogin := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "changepw@example.com",
		Password: "OldPassword123",
	})
	oldLogin.Body.Close()
	s.Equal(http.StatusUnauthorized, oldLogin.StatusCode)

	newLogin := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "changepw@example.com",
		Password: "NewPassword456",
	})
	defer newLogin.Body.Close()
	s.Equal(http.StatusOK, newLogin.StatusCode)
}

func (s *Suite) TestChangePassword_WrongOldPassword() {
	authResp := s.registerUser("wrongold@example.com", "wrongold", "Password123")

	resp := s.authedRequest("POST", "/api/v1/users/me/password", authResp.AccessToken, dto.ChangePasswordRequest{
		OldPassword:        "NotMyPassword1",
		NewPassword:        "NewPassword456",
		NewPasswordConfirm: "NewPassword456",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestListUsers_RequiresStaff() {
	authResp := s.registerUser("plain@example.com", "plainuser", "Password123")

	resp := s.authedRequest("GET", "/api/v1/users", authResp.AccessToken, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *Suite) TestListUsers_AsStaff() {
	admin := s.registerUser("admin@example.com", "adminuser", "Password123")
	s.promoteToStaff("admin@example.com")
	s.registerUser("member@example.com", "memberuser", "Password123")

	resp := s.authedRequest("GET", "/api/v1/users", admin.AccessToken, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var users []dto.UserResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&users))
	s.Len(users, 2)
}

func (s *Suite) TestAdminDeactivatesUser() {
	admin := s.registerUser("deact-admin@example.com", "deactadmin", "Password123")
	s.promoteToStaff("deact-admin@example.com")
	member := s.registerUser("deact-member@example.com", "deactmember", "Password123")

	resp := s.authedRequest("PATCH", "/api/v1/users/"+member.User.ID, admin.AccessToken, dto.UpdateUserRequest{
		IsActive: boolPtr(false),
	})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var updated dto.UserResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&updated))
	s.False(updated.IsActive)

	// Deactivated accounts fail login indistinguishably from bad credentials
	login := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "deact-member@example.com",
		Password: "Password123",
	})
	defer login.Body.Close()
	s.Equal(http.StatusUnauthorized, login.StatusCode)
}

func (s *Suite) TestAdminDeletesUser() {
	admin := s.registerUser("del-admin@example.com", "deladmin", "Password123")
	s.promoteToStaff("del-admin@example.com")
	member := s.registerUser("del-member@example.com", "delmember", "Password123")

	resp := s.authedRequest("DELETE", "/api/v1/users/"+member.User.ID, admin.AccessToken, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var successResp dto.SuccessResponse
	json.NewDecoder(resp.Body).Decode(&successResp)
	s.Equal("User deleted successfully.", successResp.Message)

	lookup := s.authedRequest("GET", "/api/v1/users/"+member.User.ID, admin.AccessToken, nil)
	defer lookup.Body.Close()
	s.Equal(http.StatusNotFound, lookup.StatusCode)
}

func (s *Suite) TestGetUser_NotFound() {
	admin := s.registerUser("nf-admin@example.com", "nfadmin", "Password123")
	s.promoteToStaff("nf-admin@example.com")

	resp := s.authedRequest("GET", "/api/v1/users/00000000-0000-0000-0000-000000000000", admin.AccessToken, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusNotFound, resp.StatusCode)
}
