// README: Ride-request handlers: create, cancel, accept, projections.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hitch/internal/modules/matching"
	"hitch/internal/modules/request"
	"hitch/internal/types"
)

type RequestHandler struct {
	requests *request.Service
	matching *matching.Service
}

func NewRequestHandler(requests *request.Service, matchingSvc *matching.Service) *RequestHandler {
	return &RequestHandler{requests: requests, matching: matchingSvc}
}

type createRequestReq struct {
	PassengerID string  `json:"passenger_id"`
	OriginLat   float64 `json:"origin_lat"`
	OriginLng   float64 `json:"origin_lng"`
	DestLat     float64 `json:"dest_lat"`
	DestLng     float64 `json:"dest_lng"`
	Category    string  `json:"category"`
}

type requestResp struct {
	ID             types.ID       `json:"id"`
	PassengerID    types.ID       `json:"passenger_id"`
	Status         request.Status `json:"status"`
	Category       types.Category `json:"category"`
	EstimatedPrice float64        `json:"estimated_price"`
}

func toRequestResp(r *request.RideRequest) requestResp {
	return requestResp{
		ID:             r.ID,
		PassengerID:    r.PassengerID,
		Status:         r.Status,
		Category:       r.Category,
		EstimatedPrice: r.EstimatedPrice,
	}
}

func (h *RequestHandler) Create(c *gin.Context) {
	var req createRequestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	r, err := h.requests.Create(c.Request.Context(), request.CreateCommand{
		PassengerID: types.ID(req.PassengerID),
		Origin:      types.Point{Lat: req.OriginLat, Lng: req.OriginLng},
		Destination: types.Point{Lat: req.DestLat, Lng: req.DestLng},
		Category:    types.Category(req.Category),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, toRequestResp(r))
}

func (h *RequestHandler) Cancel(c *gin.Context) {
	r, err := h.requests.Cancel(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toRequestResp(r))
}

type acceptReq struct {
	DriverID string `json:"driver_id"`
}

func (h *RequestHandler) Accept(c *gin.Context) {
	var req acceptReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.DriverID == "" {
		writeError(c, http.StatusBadRequest, "missing driver_id")
		return
	}
	rd, err := h.matching.Accept(c.Request.Context(), matching.AcceptCommand{
		RequestID: types.ID(c.Param("id")),
		DriverID:  types.ID(req.DriverID),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, toRideResp(rd))
}

func (h *RequestHandler) Get(c *gin.Context) {
	r, err := h.requests.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toRequestResp(r))
}

func (h *RequestHandler) ListByStatus(c *gin.Context) {
	st := request.Status(c.Query("status"))
	switch st {
	case request.StatusSearching, request.StatusDriverAssigned, request.StatusCancelled, request.StatusExpired:
	default:
		writeError(c, http.StatusBadRequest, "unknown status")
		return
	}
	rs, err := h.requests.ListByStatus(c.Request.Context(), st)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]requestResp, 0, len(rs))
	for _, r := range rs {
		out = append(out, toRequestResp(r))
	}
	writeJSON(c, http.StatusOK, map[string]any{"requests": out})
}
