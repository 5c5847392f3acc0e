// README: HTTP router registration.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hitch/internal/http/handlers"
	"hitch/internal/http/middleware"
	"hitch/internal/modules/driver"
	"hitch/internal/modules/matching"
	"hitch/internal/modules/passenger"
	"hitch/internal/modules/request"
	"hitch/internal/modules/ride"
)

type RouterDeps struct {
	Passengers *passenger.Service
	Drivers    *driver.Service
	Requests   *request.Service
	Rides      *ride.Service
	Matching   *matching.Service
	Logger     *slog.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(
		middleware.Recovery(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.Metrics(),
	)

	passengerHandler := handlers.NewPassengerHandler(deps.Passengers)
	r.POST("/api/passengers", passengerHandler.Register)
	r.PATCH("/api/passengers/:id", passengerHandler.Update)
	r.GET("/api/passengers/:id", passengerHandler.Get)

	driverHandler := handlers.NewDriverHandler(deps.Drivers, deps.Matching)
	r.POST("/api/drivers", driverHandler.Register)
	r.PATCH("/api/drivers/:id", driverHandler.Update)
	r.GET("/api/drivers/:id", driverHandler.Get)
	r.GET("/api/drivers/available", driverHandler.ListAvailable)

	requestHandler := handlers.NewRequestHandler(deps.Requests, deps.Matching)
	r.POST("/api/requests", requestHandler.Create)
	r.GET("/api/requests", requestHandler.ListByStatus)
	r.GET("/api/requests/:id", requestHandler.Get)
	r.POST("/api/requests/:id/cancel", requestHandler.Cancel)
	r.POST("/api/requests/:id/accept", requestHandler.Accept)

	rideHandler := handlers.NewRideHandler(deps.Rides)
	r.GET("/api/rides", rideHandler.List)
	r.GET("/api/rides/:id", rideHandler.Get)
	r.POST("/api/rides/:id/start", rideHandler.Start)
	r.POST("/api/rides/:id/complete", rideHandler.Complete)
	r.POST("/api/rides/:id/cancel", rideHandler.Cancel)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
