package http

import (
	"fmt"
	"time"

	"profile_server/core/port/in"
	"profile_server/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CreateUserBody is the request body for POST /api/users.
type CreateUserBody struct {
	Email       string     `json:"email" validate:"required,email"`
	FirstName   string     `json:"firstName" validate:"required,min=2"`
	LastName    string     `json:"lastName" validate:"required,min=2"`
	BirthDate   *Timestamp `json:"birthDate" validate:"required"`
	Address     *string    `json:"address,omitempty"`
	PhoneNumber *string    `json:"phoneNumber,omitempty"`
}

// UpdateUserBody is the request body for PUT and PATCH. Absent and null
// fields keep the stored value; present ones follow the create rules.
type UpdateUserBody struct {
	Email       *string    `json:"email,omitempty" validate:"omitnil,required,email"`
	FirstName   *string    `json:"firstName,omitempty" validate:"omitnil,min=2"`
	LastName    *string    `json:"lastName,omitempty" validate:"omitnil,min=2"`
	BirthDate   *Timestamp `json:"birthDate,omitempty"`
	Address     *string    `json:"address,omitempty"`
	PhoneNumber *string    `json:"phoneNumber,omitempty"`
}

// UserHandler serves the user profile API.
type UserHandler struct {
	svc      in.UserService
	validate *validator.Validate
	now      func() time.Time
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc in.UserService) *UserHandler {
	return &UserHandler{
		svc:      svc,
		validate: newValidator(),
		now:      time.Now,
	}
}

// WithClock replaces time.Now as the reference for birth date checks.
func (h *UserHandler) WithClock(now func() time.Time) *UserHandler {
	h.now = now
	return h
}

// Register registers user routes.
func (h *UserHandler) Register(router fiber.Router) {
	api := router.Group("/api")

	api.Post("/users", h.CreateUser)
	api.Get("/users", h.ListUsers)
	api.Get("/users/:id", h.GetUser)
	api.Put("/users/:id", h.UpdateUser)
	api.Patch("/users/:id", h.UpdateUser)
	api.Delete("/users/:id", h.DeleteUser)
	api.Get("/usersByBirthDateRange", h.ListUsersByBirthDateRange)
}

// CreateUser registers a new user.
// POST /api/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var body CreateUserBody
	if err := parseBody(c, &body); err != nil {
		return err
	}

	extra := map[string]string{}
	if body.BirthDate != nil && !body.BirthDate.Before(h.now()) {
		extra["birthDate"] = messageFor("birthDate", "past")
	}
	if err := validationError(h.validate.Struct(&body), extra); err != nil {
		return err
	}

	user, err := h.svc.Create(c.UserContext(), &in.CreateUserRequest{
		Email:       body.Email,
		FirstName:   body.FirstName,
		LastName:    body.LastName,
		BirthDate:   body.BirthDate.Time,
		Address:     body.Address,
		PhoneNumber: body.PhoneNumber,
	})
	if err != nil {
		return err
	}

	return response.Created(c, user, "User registered!")
}

// GetUser returns a single user.
// GET /api/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	user, err := h.svc.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return response.OK(c, user)
}

// ListUsers returns every user.
// GET /api/users
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.svc.GetAll(c.UserContext())
	if err != nil {
		return err
	}
	return response.OK(c, users)
}

// ListUsersByBirthDateRange returns users born inside [fromDate, toDate].
// GET /api/usersByBirthDateRange?fromDate=&toDate=
func (h *UserHandler) ListUsersByBirthDateRange(c *fiber.Ctx) error {
	from, err := parseQueryTimestamp(c, "fromDate")
	if err != nil {
		return err
	}
	to, err := parseQueryTimestamp(c, "toDate")
	if err != nil {
		return err
	}

	users, err := h.svc.GetByBirthDateRange(c.UserContext(), from, to)
	if err != nil {
		return err
	}
	return response.OK(c, users)
}

// UpdateUser applies a partial update.
// PUT /api/users/:id, PATCH /api/users/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var body UpdateUserBody
	if err := parseBody(c, &body); err != nil {
		return err
	}

	extra := map[string]string{}
	if body.BirthDate != nil && !body.BirthDate.Before(h.now()) {
		extra["birthDate"] = messageFor("birthDate", "past")
	}
	if err := validationError(h.validate.Struct(&body), extra); err != nil {
		return err
	}

	req := &in.UpdateUserRequest{
		Email:       body.Email,
		FirstName:   body.FirstName,
		LastName:    body.LastName,
		Address:     body.Address,
		PhoneNumber: body.PhoneNumber,
	}
	if body.BirthDate != nil {
		req.BirthDate = &body.BirthDate.Time
	}

	user, err := h.svc.UpdateByID(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return response.OK(c, user)
}

// DeleteUser removes a user. Unknown ids succeed.
// DELETE /api/users/:id
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.svc.DeleteByID(c.UserContext(), id); err != nil {
		return err
	}
	return response.OKWithMessage(c, nil, fmt.Sprintf("Deleted user with id = %d", id))
}
