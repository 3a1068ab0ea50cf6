package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/api"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/config"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/middleware"
)

// AuthHandler bundles dependencies for the phone/OTP login endpoints.
type AuthHandler struct {
	Cfg config.Config
	API *api.Client
}

func NewAuthHandler(cfg config.Config, client *api.Client) *AuthHandler {
	return &AuthHandler{Cfg: cfg, API: client}
}

// ----- DTOs -----

type loginReq struct {
	CountryCode string `json:"country_code"`
	PhoneNumber string `json:"phone_number"`
}

type verifyReq struct {
	CountryCode string `json:"country_code"`
	PhoneNumber string `json:"phone_number"`
	OTP         string `json:"otp"`
}

// LoginRequest asks the upstream to send an OTP.  Hitting it again before
// verification re-sends the code, which is how the shell implements "Resend
// OTP".
func (h *AuthHandler) LoginRequest(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if req.PhoneNumber == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone_number required"})
	}
	if req.CountryCode == "" {
		req.CountryCode = h.Cfg.CountryCode
	}

	msg, err := h.API.LoginRequest(c.Request().Context(), req.CountryCode, req.PhoneNumber)
	if err != nil {
		if m, ok := api.IsBusiness(err); ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": m})
		}
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "login request failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg})
}

// Verify exchanges phone+OTP for an access token and persists it in the
// device session.  The token itself never leaves the gateway.
func (h *AuthHandler) Verify(c echo.Context) error {
	var req verifyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	req.OTP = strings.TrimSpace(req.OTP)
	if req.PhoneNumber == "" || req.OTP == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone_number/otp required"})
	}
	if req.CountryCode == "" {
		req.CountryCode = h.Cfg.CountryCode
	}

	ctx := c.Request().Context()
	res, err := h.API.VerifyAccountAccess(ctx, req.CountryCode, req.PhoneNumber, req.OTP)
	if err != nil {
		if m, ok := api.IsBusiness(err); ok {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": m})
		}
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "OTP verification failed"})
	}

	sess := middleware.SessionFrom(c)
	if err := sess.SetToken(ctx, res.AccessToken); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save session failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": res.Message})
}
