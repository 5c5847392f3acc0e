// README: Ride lifecycle handlers: start, complete, cancel, projections.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hitch/internal/modules/ride"
	"hitch/internal/types"
)

type RideHandler struct {
	rides *ride.Service
}

func NewRideHandler(svc *ride.Service) *RideHandler {
	return &RideHandler{rides: svc}
}

type rideResp struct {
	ID             types.ID       `json:"id"`
	RequestID      types.ID       `json:"request_id"`
	DriverID       types.ID       `json:"driver_id"`
	PassengerID    types.ID       `json:"passenger_id"`
	Category       types.Category `json:"category"`
	Status         ride.Status    `json:"status"`
	EstimatedPrice float64        `json:"estimated_price"`
	FinalPrice     *float64       `json:"final_price,omitempty"`
}

func toRideResp(r *ride.Ride) rideResp {
	return rideResp{
		ID:             r.ID,
		RequestID:      r.RequestID,
		DriverID:       r.DriverID,
		PassengerID:    r.PassengerID,
		Category:       r.Category,
		Status:         r.Status,
		EstimatedPrice: r.EstimatedPrice,
		FinalPrice:     r.FinalPrice,
	}
}

func (h *RideHandler) Start(c *gin.Context) {
	r, err := h.rides.Start(c.Request.Context(), ride.StartCommand{RideID: types.ID(c.Param("id"))})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toRideResp(r))
}

type completeRideReq struct {
	DistanceKm  float64 `json:"distance_km"`
	DurationMin float64 `json:"duration_min"`
}

func (h *RideHandler) Complete(c *gin.Context) {
	var req completeRideReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	r, err := h.rides.Complete(c.Request.Context(), ride.CompleteCommand{
		RideID:      types.ID(c.Param("id")),
		DistanceKm:  req.DistanceKm,
		DurationMin: req.DurationMin,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toRideResp(r))
}

type cancelRideReq struct {
	Initiator string `json:"initiator"`
}

func (h *RideHandler) Cancel(c *gin.Context) {
	var req cancelRideReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	cmd := ride.CancelCommand{RideID: types.ID(c.Param("id"))}
	var (
		r   *ride.Ride
		err error
	)
	switch req.Initiator {
	case "passenger":
		r, err = h.rides.CancelByPassenger(c.Request.Context(), cmd)
	case "driver":
		r, err = h.rides.CancelByDriver(c.Request.Context(), cmd)
	default:
		writeError(c, http.StatusBadRequest, "initiator must be passenger or driver")
		return
	}
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toRideResp(r))
}

func (h *RideHandler) Get(c *gin.Context) {
	r, err := h.rides.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toRideResp(r))
}

// List serves the per-passenger and per-driver ride history projections.
func (h *RideHandler) List(c *gin.Context) {
	var (
		rs  []*ride.Ride
		err error
	)
	switch {
	case c.Query("passenger_id") != "":
		rs, err = h.rides.ListByPassenger(c.Request.Context(), types.ID(c.Query("passenger_id")))
	case c.Query("driver_id") != "":
		rs, err = h.rides.ListByDriver(c.Request.Context(), types.ID(c.Query("driver_id")))
	default:
		writeError(c, http.StatusBadRequest, "passenger_id or driver_id is required")
		return
	}
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]rideResp, 0, len(rs))
	for _, r := range rs {
		out = append(out, toRideResp(r))
	}
	writeJSON(c, http.StatusOK, map[string]any{"rides": out})
}
