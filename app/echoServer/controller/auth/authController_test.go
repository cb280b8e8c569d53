package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/macs03/dynamicweb/model"
	authsvc "github.com/macs03/dynamicweb/service/auth"
)

type mockSvc struct {
	registerFn func(model.RegisterReq) (*model.User, string, error)
	loginFn    func(model.LoginReq) (*model.User, string, error)
}

var _ authsvc.Service = (*mockSvc)(nil)

func (m *mockSvc) Register(ctx context.Context, req model.RegisterReq) (*model.User, string, error) {
	return m.registerFn(req)
}

func (m *mockSvc) Login(ctx context.Context, req model.LoginReq) (*model.User, string, error) {
	return m.loginFn(req)
}

func serve(t *testing.T, h echo.HandlerFunc, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func newController(svc authsvc.Service) *Controller {
	return &Controller{Svc: svc, V: validator.New(), Log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

const registerBody = `{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com","username":"ada","password":"secret1"}`

func TestRegister(t *testing.T) {
	h := newController(&mockSvc{registerFn: func(req model.RegisterReq) (*model.User, string, error) {
		require.Equal(t, "ada@example.com", req.Email)
		return &model.User{ID: 5, Email: req.Email}, "tok", nil
	}})

	rec, out := serve(t, h.Register, registerBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "tok", out["token"])
	require.Equal(t, float64(5), out["user"].(map[string]any)["id"])
}

func TestRegister_Validation(t *testing.T) {
	h := newController(&mockSvc{registerFn: func(model.RegisterReq) (*model.User, string, error) {
		t.Fatal("service must not be called")
		return nil, "", nil
	}})

	rec, _ := serve(t, h.Register, `{"email":"not-an-email","password":"1"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = serve(t, h.Register, `{`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"email taken", codedErr(authsvc.ErrEmailTaken), http.StatusConflict},
		{"username taken", codedErr(authsvc.ErrUsernameTaken), http.StatusConflict},
		{"unknown", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newController(&mockSvc{registerFn: func(model.RegisterReq) (*model.User, string, error) {
				return nil, "", tc.err
			}})
			rec, _ := serve(t, h.Register, registerBody)
			require.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	h := newController(&mockSvc{loginFn: func(req model.LoginReq) (*model.User, string, error) {
		if req.Password != "secret1" {
			return nil, "", codedErr(authsvc.ErrInvalidCreds)
		}
		return &model.User{ID: 5}, "tok", nil
	}})

	rec, out := serve(t, h.Login, `{"email":"ada@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "tok", out["token"])

	rec, _ = serve(t, h.Login, `{"email":"ada@example.com","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

// coded mimics the auth service's coded errors.
type coded authsvc.ErrCode

func (c coded) Error() string { return string(c) }
func (c coded) Code() authsvc.ErrCode { return authsvc.ErrCode(c) }

func codedErr(c authsvc.ErrCode) error { return coded(c) }
