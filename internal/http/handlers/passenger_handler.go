// README: Passenger registry handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hitch/internal/modules/passenger"
	"hitch/internal/types"
)

type PassengerHandler struct {
	passengers *passenger.Service
}

func NewPassengerHandler(svc *passenger.Service) *PassengerHandler {
	return &PassengerHandler{passengers: svc}
}

type passengerReq struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type passengerResp struct {
	ID    types.ID `json:"id"`
	Name  string   `json:"name"`
	Phone string   `json:"phone"`
}

func (h *PassengerHandler) Register(c *gin.Context) {
	var req passengerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	p, err := h.passengers.Register(c.Request.Context(), passenger.RegisterCommand{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, passengerResp{ID: p.ID, Name: p.Name, Phone: p.Phone})
}

func (h *PassengerHandler) Update(c *gin.Context) {
	var req passengerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	p, err := h.passengers.Update(c.Request.Context(), passenger.UpdateCommand{
		PassengerID: types.ID(c.Param("id")),
		Name:        req.Name,
		Phone:       req.Phone,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, passengerResp{ID: p.ID, Name: p.Name, Phone: p.Phone})
}

func (h *PassengerHandler) Get(c *gin.Context) {
	p, err := h.passengers.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, passengerResp{ID: p.ID, Name: p.Name, Phone: p.Phone})
}
