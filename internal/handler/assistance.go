package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/api"
)

// AssistanceHandler relays "call a waiter" requests.
type AssistanceHandler struct {
	API *api.Client
}

func NewAssistanceHandler(client *api.Client) *AssistanceHandler {
	return &AssistanceHandler{API: client}
}

type assistanceReq struct {
	TableNumber string `json:"table_number"`
}

// Request asks for table-side assistance.  Business rejections surface the
// server's own message; transport failures get a generic retry line.  Either
// way the response is a toast payload, never an error page.
func (h *AssistanceHandler) Request(c echo.Context) error {
	sess, token, ok := sessionAndToken(c)
	if !ok {
		return nil
	}
	ctx := c.Request().Context()

	var req assistanceReq
	_ = c.Bind(&req)
	if req.TableNumber == "" {
		req.TableNumber, _ = sess.TableNumber(ctx)
	}
	if req.TableNumber == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no table to send assistance to"})
	}

	if err := h.API.RequestAssistance(ctx, token, req.TableNumber); err != nil {
		if m, ok := api.IsBusiness(err); ok {
			return c.JSON(http.StatusOK, echo.Map{"success": false, "message": m})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": false, "message": "Failed to request assistance"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Your assistance is on the way!"})
}
