package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes wires all HTTP endpoints onto the engine
func RegisterRoutes(r *gin.Engine, itineraryController *ItineraryController, flightController *FlightController) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/v1/itineraries", itineraryController.SubmitItinerary)
	r.POST("/v1/itineraries/preview", itineraryController.PreviewItinerary)
	r.GET("/v1/itineraries", itineraryController.ListItineraries)
	r.GET("/v1/itineraries/:sourceId", itineraryController.GetItinerary)

	r.POST("/v1/segments", flightController.CreateSegment)
	r.GET("/v1/flights", flightController.ListFlights)
	r.GET("/v1/flights/:key", flightController.GetFlight)
	r.PUT("/v1/flights/:key/enrichment", flightController.UpdateEnrichment)
}

// bindErrorMessage turns binding failures into readable field messages
func bindErrorMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		messages := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			messages = append(messages, fmt.Sprintf("%s failed %s validation", fieldError.Field(), fieldError.Tag()))
		}
		return strings.Join(messages, ", ")
	}
	return err.Error()
}
