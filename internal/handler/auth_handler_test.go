package handler_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/communix/communix-api/internal/dto"
	"github.com/communix/communix-api/internal/handler"
	"github.com/communix/communix-api/internal/questionnaire"
	"github.com/communix/communix-api/internal/service"
)

type mockAuthService struct {
	lastSignup dto.SignupRequest
	response   dto.AuthResponse
	err        error
}

func (m *mockAuthService) Signup(_ context.Context, req dto.SignupRequest) (dto.AuthResponse, error) {
	m.lastSignup = req
	if m.err != nil {
		return dto.AuthResponse{}, m.err
	}
	return m.response, nil
}

func (m *mockAuthService) Login(_ context.Context, _ dto.LoginRequest) (dto.AuthResponse, error) {
	if m.err != nil {
		return dto.AuthResponse{}, m.err
	}
	return m.response, nil
}

func signupPayload() dto.SignupRequest {
	return dto.SignupRequest{
		Name:       "Alice Johnson",
		Email:      "alice@example.com",
		Password:   "sup3rsecret",
		Profession: "professional",
		Selections: questionnaire.Selections{
			0: {Single: true, Values: []string{"Finance"}},
			1: {Values: []string{"Networking"}},
			2: {Values: []string{"LinkedIn"}},
		},
	}
}

func newAuthApp(svc *mockAuthService) *fiber.App {
	app := fiber.New()
	handler.NewAuthHandler(svc, testLogger()).Register(app.Group("/api/auth"))
	return app
}

func TestAuthHandler_SignupSuccess(t *testing.T) {
	svc := &mockAuthService{response: dto.AuthResponse{
		Token: "signed-token",
		User:  dto.UserResponse{UserID: "alicejohnson.4821", Email: "alice@example.com"},
	}}
	app := newAuthApp(svc)

	resp := postJSON(t, app, "/api/auth/signup", signupPayload())
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var response struct {
		Success bool             `json:"success"`
		Message string           `json:"message"`
		Data    dto.AuthResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)

	require.True(t, response.Success)
	require.Equal(t, "account created", response.Message)
	require.Equal(t, "signed-token", response.Data.Token)
	require.Equal(t, "alice@example.com", svc.lastSignup.Email)
}

func TestAuthHandler_SignupErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		statusCode int
	}{
		{name: "email taken", err: service.ErrEmailTaken, statusCode: fiber.StatusConflict},
		{name: "incomplete questionnaire", err: &questionnaire.IncompleteError{Index: 2}, statusCode: fiber.StatusBadRequest},
		{name: "unknown option", err: questionnaire.ErrUnknownOption, statusCode: fiber.StatusBadRequest},
		{name: "generic", err: errors.New("boom"), statusCode: fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newAuthApp(&mockAuthService{err: tc.err})

			resp := postJSON(t, app, "/api/auth/signup", signupPayload())
			require.Equal(t, tc.statusCode, resp.StatusCode)
		})
	}
}

func TestAuthHandler_LoginErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		statusCode int
	}{
		{name: "unknown user", err: service.ErrUserNotFound, statusCode: fiber.StatusNotFound},
		{name: "bad credentials", err: service.ErrInvalidCredentials, statusCode: fiber.StatusBadRequest},
		{name: "disabled account", err: service.ErrAccountDisabled, statusCode: fiber.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newAuthApp(&mockAuthService{err: tc.err})

			resp := postJSON(t, app, "/api/auth/login", dto.LoginRequest{Email: "alice@example.com", Password: "pw"})
			require.Equal(t, tc.statusCode, resp.StatusCode)
		})
	}
}
