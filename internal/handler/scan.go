package handler

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/api"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/middleware"
)

// ScanHandler is the QR landing route: /t/:tableNumber printed on the table.
type ScanHandler struct {
	API *api.Client
}

func NewScanHandler(client *api.Client) *ScanHandler { return &ScanHandler{API: client} }

// Scan stores the scanned table and redirects to the home entry.  The table
// number is always recorded; the id lookup needs auth, so for a fresh device
// it is retried after login by whichever flow needs the id.
func (h *ScanHandler) Scan(c echo.Context) error {
	tableNumber := c.Param("tableNumber")
	if tableNumber == "" {
		return c.Redirect(http.StatusFound, "/")
	}
	sess := middleware.SessionFrom(c)
	ctx := c.Request().Context()

	tableID := ""
	if token, err := currentToken(ctx, sess); err == nil && token != "" {
		if tbl, err := h.API.TableByNumber(ctx, token, tableNumber); err == nil {
			tableID = tbl.ID
		} else {
			log.Printf("handler: table lookup for %q failed: %v", tableNumber, err)
		}
	}
	if err := sess.SetTable(ctx, tableID, tableNumber); err != nil {
		log.Printf("handler: store table failed: %v", err)
	}
	return c.Redirect(http.StatusFound, "/")
}
