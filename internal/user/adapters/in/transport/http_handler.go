package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"userservice/internal/shared/logger"
	"userservice/internal/user/application/ports/in"
	"userservice/internal/user/domain"
)

const (
	maxBodySize  = 1 << 20 // 1MB
	readyTimeout = 2 * time.Second
)

const (
	msgUserCreated      = "User created successfully"
	msgUsersRetrieved   = "Users retrieved successfully"
	msgUserRetrieved    = "User retrieved successfully"
	msgUserReplaced     = "User updated successfully"
	msgUserPatched      = "User updated successfully (partial)"
	msgUserDeleted      = "User deleted successfully"
	msgUserNotFound     = "User not found"
	msgCreateFailed     = "Error creating user"
	msgListFailed       = "Error retrieving users"
	msgGetFailed        = "Error retrieving user"
	msgUpdateFailed     = "Error updating user"
	msgDeleteFailed     = "Error deleting user"
	msgIncompleteFields = "You must provide exactly 3 fields: name, email and password"
	msgTooManyFields    = "Too many fields provided. Only name, email and password are allowed"
	msgNoUpdateFields   = "No valid fields provided for update"
)

// UseCases — набор use case, которые обслуживает handler
type UseCases struct {
	Create  in.CreateUserUseCase
	List    in.ListUsersUseCase
	Get     in.GetUserUseCase
	Replace in.ReplaceUserUseCase
	Patch   in.PatchUserUseCase
	Delete  in.DeleteUserUseCase
}

// Pinger — проверка готовности хранилища для /ready
type Pinger interface {
	Ping(ctx context.Context) error
}

// HTTPHandler обрабатывает HTTP запросы ресурса /users
type HTTPHandler struct {
	uc     UseCases
	pinger Pinger
	log    *logger.Logger
}

// NewHTTPHandler создает новый HTTP handler
func NewHTTPHandler(uc UseCases, pinger Pinger, log *logger.Logger) *HTTPHandler {
	return &HTTPHandler{
		uc:     uc,
		pinger: pinger,
		log:    log,
	}
}

// UserFieldsRequest — HTTP DTO тела POST/PUT/PATCH.
// Поле считается переданным, если ключ есть в теле, в том числе со значением null;
// прочие ключи игнорируются.
type UserFieldsRequest struct {
	Name     OptionalString `json:"name"`
	Email    OptionalString `json:"email"`
	Password OptionalString `json:"password"`
}

func (req UserFieldsRequest) toDomain() domain.UserFields {
	return domain.UserFields{
		Name:     req.Name.Ptr(),
		Email:    req.Email.Ptr(),
		Password: req.Password.Ptr(),
	}
}

// handleHealth обрабатывает health check
func (h *HTTPHandler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok","service":"user"}`))
}

// handleReady проверяет доступность хранилища
func (h *HTTPHandler) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		h.log.Warn(logger.Entry{
			Action:    "readiness_check_failed",
			Message:   err.Error(),
			RequestID: middleware.GetReqID(r.Context()),
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
		respondJSON(w, h.log, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}
	respondJSON(w, h.log, http.StatusOK, map[string]string{"status": "ready"})
}

// handleCreateUser обрабатывает POST /users
func (h *HTTPHandler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeFields(w, r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, msgCreateFailed, err)
		return
	}

	user, err := h.uc.Create.Execute(r.Context(), in.CreateUserInput{Fields: req.toDomain()})
	if err != nil {
		h.respondError(w, http.StatusBadRequest, msgCreateFailed, err)
		return
	}

	h.respondData(w, http.StatusCreated, msgUserCreated, user)
}

// handleListUsers обрабатывает GET /users
func (h *HTTPHandler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	output, err := h.uc.List.Execute(r.Context(), in.ListUsersInput{})
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, msgListFailed, err)
		return
	}

	users := output.Users
	if users == nil {
		users = make([]*domain.User, 0)
	}
	h.respondList(w, msgUsersRetrieved, len(users), users)
}

// handleGetUser обрабатывает GET /users/{id}
func (h *HTTPHandler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.uc.Get.Execute(r.Context(), in.GetUserInput{UserID: chi.URLParam(r, "id")})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			h.respondFail(w, http.StatusNotFound, msgUserNotFound)
			return
		}
		h.respondError(w, http.StatusInternalServerError, msgGetFailed, err)
		return
	}

	h.respondData(w, http.StatusOK, msgUserRetrieved, user)
}

// handleReplaceUser обрабатывает PUT /users/{id}
func (h *HTTPHandler) handleReplaceUser(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeFields(w, r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, msgUpdateFailed, err)
		return
	}

	user, err := h.uc.Replace.Execute(r.Context(), in.ReplaceUserInput{
		UserID: chi.URLParam(r, "id"),
		Fields: req.toDomain(),
	})
	if err != nil {
		h.handleUpdateError(w, err)
		return
	}

	h.respondData(w, http.StatusOK, msgUserReplaced, user)
}

// handlePatchUser обрабатывает PATCH /users/{id}
func (h *HTTPHandler) handlePatchUser(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeFields(w, r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, msgUpdateFailed, err)
		return
	}

	user, err := h.uc.Patch.Execute(r.Context(), in.PatchUserInput{
		UserID: chi.URLParam(r, "id"),
		Fields: req.toDomain(),
	})
	if err != nil {
		h.handleUpdateError(w, err)
		return
	}

	h.respondData(w, http.StatusOK, msgUserPatched, user)
}

// handleDeleteUser обрабатывает DELETE /users/{id}
func (h *HTTPHandler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.uc.Delete.Execute(r.Context(), in.DeleteUserInput{UserID: chi.URLParam(r, "id")})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			h.respondFail(w, http.StatusNotFound, msgUserNotFound)
			return
		}
		h.respondError(w, http.StatusInternalServerError, msgDeleteFailed, err)
		return
	}

	h.respondData(w, http.StatusOK, msgUserDeleted, user)
}

// handleUpdateError — общая обработка ошибок PUT и PATCH
func (h *HTTPHandler) handleUpdateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrIncompleteReplace):
		h.respondFail(w, http.StatusBadRequest, msgIncompleteFields)
	case errors.Is(err, domain.ErrTooManyFields):
		h.respondFail(w, http.StatusBadRequest, msgTooManyFields)
	case errors.Is(err, domain.ErrNoUpdateFields):
		h.respondFail(w, http.StatusBadRequest, msgNoUpdateFields)
	case errors.Is(err, domain.ErrUserNotFound):
		h.respondFail(w, http.StatusNotFound, msgUserNotFound)
	default:
		h.respondError(w, http.StatusBadRequest, msgUpdateFailed, err)
	}
}

// decodeFields читает тело запроса; пустое тело равносильно {}
func (h *HTTPHandler) decodeFields(w http.ResponseWriter, r *http.Request) (UserFieldsRequest, error) {
	// Ограничиваем размер тела
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req UserFieldsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return UserFieldsRequest{}, nil
		}
		h.log.Warn(logger.Entry{
			Action:    "parse_user_request_failed",
			Message:   err.Error(),
			RequestID: middleware.GetReqID(r.Context()),
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
		return UserFieldsRequest{}, fmt.Errorf("invalid request body: %w", err)
	}
	return req, nil
}
