package controllerImp

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"carrierpay/pkg/audit"
	"carrierpay/pkg/auth/controller"
	"carrierpay/pkg/middleware"
	"carrierpay/pkg/role"
	"carrierpay/pkg/validate"
)

type authCtrl struct {
	reg      role.Registry
	trail    *audit.Trail
	validate *validator.Validate
}

func NewAuthController(reg role.Registry, trail *audit.Trail) controller.AuthController {
	return &authCtrl{reg: reg, trail: trail, validate: validate.New()}
}

func (h *authCtrl) Login(c echo.Context) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid json"})
	}
	email := strings.ToLower(strings.TrimSpace(body.Email))
	ctx := c.Request().Context()

	h.trail.Record(ctx, email, "Login Attempt", audit.Success)
	if err := h.validate.Var(email, "required,email"); err != nil {
		h.trail.Record(ctx, email, "Login Rejected: invalid email", audit.Failed)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "enter a valid email"})
	}

	r := h.reg.Resolve(ctx, email)
	h.trail.Record(ctx, email, "Role Assigned: "+r, audit.Success)
	c.SetCookie(&http.Cookie{Name: middleware.CookieName, Value: email, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	h.trail.Record(ctx, email, "Login Successful", audit.Success)
	return c.JSON(http.StatusOK, map[string]string{"email": email, "role": r})
}

func (h *authCtrl) Logout(c echo.Context) error {
	h.trail.Record(c.Request().Context(), middleware.Email(c), "Logout", audit.Success)
	c.SetCookie(&http.Cookie{Name: middleware.CookieName, Value: "", Path: "/", MaxAge: -1})
	return c.NoContent(http.StatusNoContent)
}

func (h *authCtrl) WhoAmI(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"email": middleware.Email(c), "role": middleware.Role(c)})
}
