// README: Driver registry handlers and the available-driver roster listing.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hitch/internal/modules/driver"
	"hitch/internal/modules/matching"
	"hitch/internal/types"
)

type DriverHandler struct {
	drivers  *driver.Service
	matching *matching.Service
}

func NewDriverHandler(drivers *driver.Service, matchingSvc *matching.Service) *DriverHandler {
	return &DriverHandler{drivers: drivers, matching: matchingSvc}
}

type registerDriverReq struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Category string `json:"category"`
}

type updateDriverReq struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type driverResp struct {
	ID        types.ID       `json:"id"`
	Name      string         `json:"name"`
	Phone     string         `json:"phone"`
	Category  types.Category `json:"category"`
	Available bool           `json:"available"`
}

func toDriverResp(d *driver.Driver) driverResp {
	return driverResp{ID: d.ID, Name: d.Name, Phone: d.Phone, Category: d.Category, Available: d.Available}
}

func (h *DriverHandler) Register(c *gin.Context) {
	var req registerDriverReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	d, err := h.drivers.Register(c.Request.Context(), driver.RegisterCommand{
		Name:     req.Name,
		Phone:    req.Phone,
		Category: types.Category(req.Category),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, toDriverResp(d))
}

func (h *DriverHandler) Update(c *gin.Context) {
	var req updateDriverReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	d, err := h.drivers.Update(c.Request.Context(), driver.UpdateCommand{
		DriverID: types.ID(c.Param("id")),
		Name:     req.Name,
		Phone:    req.Phone,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toDriverResp(d))
}

func (h *DriverHandler) Get(c *gin.Context) {
	d, err := h.drivers.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toDriverResp(d))
}

func (h *DriverHandler) ListAvailable(c *gin.Context) {
	cat := types.Category(c.Query("category"))
	ids, err := h.matching.ListAvailableDrivers(c.Request.Context(), cat)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if ids == nil {
		ids = []types.ID{}
	}
	writeJSON(c, http.StatusOK, map[string]any{"driver_ids": ids})
}
