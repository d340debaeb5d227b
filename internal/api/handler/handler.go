package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ccoveille/go-safecast"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/roster/internal/api/models"
	"github.com/jon4hz/roster/internal/config"
	"github.com/jon4hz/roster/internal/database"
	"github.com/jon4hz/roster/internal/static"
)

const (
	msgInvalidJSON    = "invalid JSON"
	msgFieldsRequired = "username and email are required"
	msgUserAdded      = "user added"
	msgUserNotFound   = "user with this id does not exist"
)

// welcomeTimeout bounds a single welcome notification.
const welcomeTimeout = 30 * time.Second

// WelcomeNotifier is notified after a user was created.
type WelcomeNotifier interface {
	NotifyUserCreated(ctx context.Context, user *database.User) error
}

type Handler struct {
	db       database.DB
	notifier WelcomeNotifier
	gravatar *config.GravatarConfig
}

// New creates a handler. notifier may be nil.
func New(db database.DB, notifier WelcomeNotifier, gravatarCfg *config.GravatarConfig) *Handler {
	return &Handler{
		db:       db,
		notifier: notifier,
		gravatar: gravatarCfg,
	}
}

// Index serves the landing page.
func (h *Handler) Index(c *gin.Context) {
	page, err := static.GetIndexPage()
	if err != nil {
		log.Error("Failed to load index page", "error", err)
		c.String(http.StatusInternalServerError, "failed to load page")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// AddUser handles POST /add_user.
func (h *Handler) AddUser(c *gin.Context) {
	req, ok := parseAddUserRequest(c)
	if !ok {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msgInvalidJSON})
		return
	}

	if req.Username == "" || req.Email == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msgFieldsRequired})
		return
	}

	user, err := h.db.CreateUser(c.Request.Context(), req.Username, req.Email)
	if err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: database.ErrEmailTaken.Error()})
			return
		}
		log.Error("Failed to create user", "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	log.Info("User created", "id", user.ID, "username", user.Username)
	c.JSON(http.StatusCreated, models.MessageResponse{Message: msgUserAdded})

	h.notifyUserCreated(c.Request.Context(), user)
}

// parseAddUserRequest reads the body as a JSON object.
// Anything else, including an empty body or null, is rejected.
func parseAddUserRequest(c *gin.Context) (*models.AddUserRequest, bool) {
	body, err := c.GetRawData()
	if err != nil || len(strings.TrimSpace(string(body))) == 0 {
		return nil, false
	}

	var req *models.AddUserRequest
	if err := json.Unmarshal(body, &req); err != nil || req == nil {
		return nil, false
	}
	return req, true
}

func (h *Handler) notifyUserCreated(ctx context.Context, user *database.User) {
	if h.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), welcomeTimeout)
		defer cancel()
		if err := h.notifier.NotifyUserCreated(ctx, user); err != nil {
			log.Error("Failed to send welcome notification", "id", user.ID, "error", err)
		}
	}()
}

// ListUsers handles GET /users.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.db.GetAllUsers(c.Request.Context())
	if err != nil {
		log.Error("Failed to list users", "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.ToUsersResponse(users, h.gravatar))
}

// GetUser handles GET /users/:id.
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := parseUserID(c.Param("id"))
	if !ok {
		// not a route we serve
		c.String(http.StatusNotFound, "404 page not found")
		return
	}

	user, err := h.db.GetUserByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			c.String(http.StatusNotFound, msgUserNotFound)
			return
		}
		log.Error("Failed to get user", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.ToUser(*user, h.gravatar))
}

func parseUserID(raw string) (uint, bool) {
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	id, err := safecast.Convert[uint](parsed)
	if err != nil {
		return 0, false
	}
	return id, true
}
