package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userservice/internal/shared/logger"
	"userservice/internal/user/application/ports/in"
	"userservice/internal/user/application/usecase"
	"userservice/internal/user/domain"
)

type envelopeResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Count   *int            `json:"count"`
	Data    json.RawMessage `json:"data"`
	Error   *string         `json:"error"`
}

func (e envelopeResponse) user(t *testing.T) domain.User {
	t.Helper()
	var u domain.User
	require.NoError(t, json.Unmarshal(e.Data, &u))
	return u
}

func newUseCases(r *fakeRepository) UseCases {
	log := logger.Discard()
	return UseCases{
		Create:  usecase.NewCreateUserService(r, nil, log),
		List:    usecase.NewListUsersService(r, log),
		Get:     usecase.NewGetUserService(r, log),
		Replace: usecase.NewReplaceUserService(r, nil, log),
		Patch:   usecase.NewPatchUserService(r, nil, log),
		Delete:  usecase.NewDeleteUserService(r, log),
	}
}

func newRouter(uc UseCases, pinger Pinger) http.Handler {
	h := NewHTTPHandler(uc, pinger, logger.Discard())
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	h.RegisterRoutes(r)
	return r
}

func newTestRouter(r *fakeRepository) http.Handler {
	return newRouter(newUseCases(r), r)
}

func do(t *testing.T, h http.Handler, method, path, body string) (int, envelopeResponse) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelopeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func createUser(t *testing.T, h http.Handler, name, email string) domain.User {
	t.Helper()
	code, env := do(t, h, http.MethodPost, "/users",
		`{"name":"`+name+`","email":"`+email+`","password":"secret"}`)
	require.Equal(t, http.StatusCreated, code, env.Message)
	return env.user(t)
}

func TestCreateUser(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantMessage string
		wantErrPart string
	}{
		{
			name:        "valid",
			body:        `{"name":"Ann","email":"ann@example.com","password":"secret"}`,
			wantStatus:  http.StatusCreated,
			wantMessage: "User created successfully",
		},
		{
			name:        "missing password",
			body:        `{"name":"Ann","email":"ann@example.com"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Error creating user",
			wantErrPart: "password",
		},
		{
			name:        "invalid email",
			body:        `{"name":"Ann","email":"nope","password":"secret"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Error creating user",
			wantErrPart: "invalid email format",
		},
		{
			name:        "malformed json",
			body:        `{"name":`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Error creating user",
			wantErrPart: "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(newFakeRepository())
			code, env := do(t, h, http.MethodPost, "/users", tt.body)

			assert.Equal(t, tt.wantStatus, code)
			assert.Equal(t, tt.wantMessage, env.Message)
			if tt.wantErrPart == "" {
				assert.True(t, env.Success)
				u := env.user(t)
				assert.NotEmpty(t, u.ID)
				assert.Equal(t, "Ann", u.Name)
				assert.Equal(t, "ann@example.com", u.Email)
				return
			}
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Contains(t, *env.Error, tt.wantErrPart)
		})
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	h := newTestRouter(newFakeRepository())
	createUser(t, h, "Ann", "ann@example.com")

	code, env := do(t, h, http.MethodPost, "/users", `{"name":"B","email":"ann@example.com","password":"x"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Error creating user", env.Message)
	require.NotNil(t, env.Error)
	assert.Contains(t, *env.Error, domain.ErrEmailTaken.Error())
}

func TestListUsers_CountMatchesData(t *testing.T) {
	h := newTestRouter(newFakeRepository())

	code, env := do(t, h, http.MethodGet, "/users", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Users retrieved successfully", env.Message)
	require.NotNil(t, env.Count)
	assert.Equal(t, 0, *env.Count)
	assert.JSONEq(t, `[]`, string(env.Data))

	createUser(t, h, "A", "a@example.com")
	createUser(t, h, "B", "b@example.com")

	_, env = do(t, h, http.MethodGet, "/users", "")
	var users []domain.User
	require.NoError(t, json.Unmarshal(env.Data, &users))
	require.NotNil(t, env.Count)
	assert.Equal(t, len(users), *env.Count)
	assert.Equal(t, 2, *env.Count)
}

func TestListUsers_StoreFailure(t *testing.T) {
	r := newFakeRepository()
	r.FindAllFunc = func(context.Context) ([]*domain.User, error) {
		return nil, errors.New("connection refused")
	}
	h := newTestRouter(r)

	code, env := do(t, h, http.MethodGet, "/users", "")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.False(t, env.Success)
	assert.Equal(t, "Error retrieving users", env.Message)
	require.NotNil(t, env.Error)
	assert.Contains(t, *env.Error, "connection refused")
	assert.Nil(t, env.Count)
}

func TestGetUser(t *testing.T) {
	h := newTestRouter(newFakeRepository())
	created := createUser(t, h, "Ann", "ann@example.com")

	t.Run("round trip", func(t *testing.T) {
		code, env := do(t, h, http.MethodGet, "/users/"+created.ID, "")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "User retrieved successfully", env.Message)
		got := env.user(t)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, created.Name, got.Name)
		assert.Equal(t, created.Email, got.Email)
	})

	t.Run("malformed id", func(t *testing.T) {
		code, env := do(t, h, http.MethodGet, "/users/not-a-uuid", "")
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Equal(t, "Error retrieving user", env.Message)
		require.NotNil(t, env.Error)
		assert.Contains(t, *env.Error, "invalid user id")
	})
}

func TestUnknownID_NotFoundWithoutError(t *testing.T) {
	h := newTestRouter(newFakeRepository())
	path := "/users/" + domain.NewID()

	tests := []struct {
		method string
		body   string
	}{
		{http.MethodGet, ""},
		{http.MethodPut, `{"name":"A","email":"a@example.com","password":"p"}`},
		{http.MethodPatch, `{"name":"A"}`},
		{http.MethodDelete, ""},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			code, env := do(t, h, tt.method, path, tt.body)
			assert.Equal(t, http.StatusNotFound, code)
			assert.False(t, env.Success)
			assert.Equal(t, "User not found", env.Message)
			assert.Nil(t, env.Error)
		})
	}
}

func TestReplaceUser(t *testing.T) {
	h := newTestRouter(newFakeRepository())
	created := createUser(t, h, "Ann", "ann@example.com")
	path := "/users/" + created.ID

	t.Run("two fields", func(t *testing.T) {
		code, env := do(t, h, http.MethodPut, path, `{"name":"A","email":"a@example.com"}`)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "You must provide exactly 3 fields: name, email and password", env.Message)
		assert.Nil(t, env.Error)
	})

	t.Run("empty body", func(t *testing.T) {
		code, env := do(t, h, http.MethodPut, path, "")
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "You must provide exactly 3 fields: name, email and password", env.Message)
	})

	t.Run("invalid email", func(t *testing.T) {
		code, env := do(t, h, http.MethodPut, path, `{"name":"A","email":"bad","password":"p"}`)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Error updating user", env.Message)
		require.NotNil(t, env.Error)
	})

	t.Run("all three plus unknown key", func(t *testing.T) {
		code, env := do(t, h, http.MethodPut, path,
			`{"name":"Bob","email":"bob@example.com","password":"new","role":"admin"}`)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "User updated successfully", env.Message)
		u := env.user(t)
		assert.Equal(t, created.ID, u.ID)
		assert.Equal(t, "Bob", u.Name)
		assert.Equal(t, "bob@example.com", u.Email)
		assert.Equal(t, "new", u.Password)
	})
}

func TestReplaceUser_TooManyFieldsMessage(t *testing.T) {
	uc := newUseCases(newFakeRepository())
	uc.Replace = &fakeReplaceUseCase{
		ExecuteFunc: func(context.Context, in.ReplaceUserInput) (*domain.User, error) {
			return nil, domain.ErrTooManyFields
		},
	}
	h := newRouter(uc, newFakeRepository())

	code, env := do(t, h, http.MethodPut, "/users/"+domain.NewID(), `{"name":"A","email":"a@example.com","password":"p"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Too many fields provided. Only name, email and password are allowed", env.Message)
	assert.Nil(t, env.Error)
}

func TestPatchUser(t *testing.T) {
	h := newTestRouter(newFakeRepository())
	created := createUser(t, h, "Ann", "ann@example.com")
	path := "/users/" + created.ID

	for _, body := range []string{`{}`, ``, `{"role":"admin"}`} {
		t.Run("no fields "+body, func(t *testing.T) {
			code, env := do(t, h, http.MethodPatch, path, body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, "No valid fields provided for update", env.Message)
			assert.Nil(t, env.Error)
		})
	}

	t.Run("only name", func(t *testing.T) {
		code, env := do(t, h, http.MethodPatch, path, `{"name":"X"}`)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "User updated successfully (partial)", env.Message)
		u := env.user(t)
		assert.Equal(t, "X", u.Name)
		assert.Equal(t, created.Email, u.Email)
		assert.Equal(t, created.Password, u.Password)
	})

	t.Run("invalid email", func(t *testing.T) {
		code, env := do(t, h, http.MethodPatch, path, `{"email":"broken"}`)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Error updating user", env.Message)
		require.NotNil(t, env.Error)
	})

	t.Run("malformed id", func(t *testing.T) {
		code, env := do(t, h, http.MethodPatch, "/users/xyz", `{"name":"X"}`)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Error updating user", env.Message)
		require.NotNil(t, env.Error)
	})
}

func TestNullField_CountsAsPresent(t *testing.T) {
	h := newTestRouter(newFakeRepository())
	created := createUser(t, h, "Ann", "ann@example.com")
	path := "/users/" + created.ID

	tests := []struct {
		name        string
		method      string
		path        string
		body        string
		wantMessage string
		wantErrPart string
	}{
		{
			name:        "replace with null name",
			method:      http.MethodPut,
			path:        path,
			body:        `{"name":null,"email":"ann@example.com","password":"p"}`,
			wantMessage: "Error updating user",
			wantErrPart: "name is required",
		},
		{
			name:        "patch with null name",
			method:      http.MethodPatch,
			path:        path,
			body:        `{"name":null}`,
			wantMessage: "Error updating user",
			wantErrPart: "name is required",
		},
		{
			name:        "patch with null email",
			method:      http.MethodPatch,
			path:        path,
			body:        `{"email":null}`,
			wantMessage: "Error updating user",
			wantErrPart: "email is required",
		},
		{
			name:        "create with null password",
			method:      http.MethodPost,
			path:        "/users",
			body:        `{"name":"B","email":"b@example.com","password":null}`,
			wantMessage: "Error creating user",
			wantErrPart: "password is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantMessage, env.Message)
			require.NotNil(t, env.Error)
			assert.Contains(t, *env.Error, tt.wantErrPart)
		})
	}

	// запись не изменилась
	_, env := do(t, h, http.MethodGet, path, "")
	got := env.user(t)
	assert.Equal(t, "Ann", got.Name)
	assert.Equal(t, "ann@example.com", got.Email)
}

func TestCreateUser_NonStringField(t *testing.T) {
	h := newTestRouter(newFakeRepository())

	code, env := do(t, h, http.MethodPost, "/users", `{"name":123,"email":"a@example.com","password":"p"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Error creating user", env.Message)
	require.NotNil(t, env.Error)
	assert.Contains(t, *env.Error, "invalid request body")
}

func TestDeleteUser_Twice(t *testing.T) {
	h := newTestRouter(newFakeRepository())
	created := createUser(t, h, "Ann", "ann@example.com")
	path := "/users/" + created.ID

	code, env := do(t, h, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "User deleted successfully", env.Message)
	assert.Equal(t, created.ID, env.user(t).ID)

	code, env = do(t, h, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "User not found", env.Message)
}

func TestDeleteUser_StoreFailure(t *testing.T) {
	r := newFakeRepository()
	r.DeleteByIDFunc = func(context.Context, string) (*domain.User, error) {
		return nil, errors.New("disk full")
	}
	h := newTestRouter(r)

	code, env := do(t, h, http.MethodDelete, "/users/"+domain.NewID(), "")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Error deleting user", env.Message)
	require.NotNil(t, env.Error)
	assert.Contains(t, *env.Error, "disk full")
}

func TestProbes(t *testing.T) {
	r := newFakeRepository()
	h := newTestRouter(r)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","service":"user"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	r.PingFunc = func(context.Context) error { return errors.New("db down") }
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "db down")
}
