package user

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pennywise/pennywise/internal/rest"
	log "github.com/sirupsen/logrus"
)

type CredentialsDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserDTO struct {
	Uid      string `json:"uid"`
	Username string `json:"username"`
}

type Handler struct {
	userService Service
}

func NewHandler(userService Service) *Handler {
	return &Handler{
		userService: userService,
	}
}

// CreateUser godoc
// @Summary Register a new user
// @Tags User
// @Accept json
// @Produce json
// @Param user body CredentialsDTO true "Credentials"
// @Success 201 {object} UserDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 409 {object} rest.ErrorResponse "Username taken"
// @Router /api/user [post]
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating user")

	var credentials CredentialsDTO
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		rest.WriteErrorResponse(w, http.StatusBadRequest, rest.ErrorResponse{
			Error:   "Invalid request body format",
			Details: err.Error(),
		})
		return
	}
	if credentials.Username == "" || credentials.Password == "" {
		rest.WriteErrorResponse(w, http.StatusBadRequest, rest.ErrorResponse{
			Error: "Username and password are required",
		})
		return
	}

	u, err := h.userService.Register(r.Context(), credentials.Username, credentials.Password)
	if err != nil {
		rest.WriteError(w, "Failed to register user", err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, userToDTO(u))
}

// Login godoc
// @Summary Log in
// @Description Returns the uid to send in the X-User-Id header
// @Tags User
// @Accept json
// @Produce json
// @Param credentials body CredentialsDTO true "Credentials"
// @Success 200 {object} UserDTO
// @Failure 401 {object} rest.ErrorResponse "Invalid credentials"
// @Router /api/user/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log.Trace("Logging in")

	var credentials CredentialsDTO
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		rest.WriteErrorResponse(w, http.StatusBadRequest, rest.ErrorResponse{
			Error:   "Invalid request body format",
			Details: err.Error(),
		})
		return
	}

	u, err := h.userService.Login(r.Context(), credentials.Username, credentials.Password)
	if err != nil {
		rest.WriteError(w, "Login failed", err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, userToDTO(u))
}

// IsUsernameAvailable godoc
// @Summary Check username availability
// @Tags User
// @Produce json
// @Param username query string true "Username"
// @Success 200 {object} map[string]bool
// @Router /api/user/name-availability [get]
func (h *Handler) IsUsernameAvailable(w http.ResponseWriter, r *http.Request) {
	log.Trace("Checking if username is available")

	username := mux.Vars(r)["username"]
	log.Debug("Checking availability of username: ", username)
	if len(username) == 0 {
		rest.WriteErrorResponse(w, http.StatusBadRequest, rest.ErrorResponse{
			Error: "Username is required",
		})
		return
	}

	isAvailable, err := h.userService.IsUsernameAvailable(r.Context(), username)
	if err != nil {
		rest.WriteError(w, "Failed to check username", err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, map[string]bool{"available": isAvailable})
}

func userToDTO(u User) UserDTO {
	return UserDTO{Uid: u.Uid, Username: u.Username}
}
