package controller

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/TranHoa21/Mufilika/config"
	"github.com/TranHoa21/Mufilika/internal/dto"
	"github.com/TranHoa21/Mufilika/internal/service"
	pkgdto "github.com/TranHoa21/Mufilika/pkg/dto"
	"github.com/TranHoa21/Mufilika/pkg/errs"
	"github.com/TranHoa21/Mufilika/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type Controller struct {
	bookingService service.BookingService
	tourService    service.TourService
	config         *config.Config
}

func CreateController(e *echo.Group, bookingService service.BookingService, tourService service.TourService, config *config.Config, adminOnly echo.MiddlewareFunc) {
	c := Controller{
		bookingService: bookingService,
		tourService:    tourService,
		config:         config,
	}

	e.POST("/bookings", c.AddBooking)
	e.GET("/bookings", c.GetBookings)
	e.GET("/payments/vnpay/callback", c.VNPayCallback)

	e.GET("/tours", c.GetTours)
	e.GET("/tours/:slug", c.GetTourBySlug)
	e.GET("/tour-dates", c.GetTourDates)

	e.POST("/tours", c.AddTour, adminOnly)
	e.PUT("/tours/:slug", c.UpdateTour, adminOnly)
	e.DELETE("/tours/:slug", c.DeleteTour, adminOnly)
}

func (c *Controller) AddBooking(e echo.Context) error {
	payload := dto.BookingRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "AddBooking").Msg("")
	}
	payload.IPAddr = e.RealIP()

	resp, err := c.bookingService.AddBooking(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *Controller) GetBookings(e echo.Context) error {
	filter := pkgdto.Filter{}
	err := e.Bind(&filter)
	if err != nil {
		log.Error().Err(err).Str("component", "GetBookings").Msg("")
	}

	responsePayload, err := c.bookingService.GetBookings(e.Request().Context(), filter)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "successfully retrieved bookings record", responsePayload)
}

// VNPayCallback is the payer's browser returning from the gateway. Expected
// outcomes answer with a redirect; JSON errors only appear for forged or
// malformed requests, which no real payment flow produces.
func (c *Controller) VNPayCallback(e echo.Context) error {
	result, err := c.bookingService.HandleVNPayCallback(e.Request().Context(), e.QueryParams())
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	if result.Outcome == service.OutcomeFailed {
		return e.Redirect(http.StatusFound, fmt.Sprintf("%s/checkout-failed?orderId=%s", c.config.BaseURL, result.BookingID))
	}

	return e.Redirect(http.StatusFound, fmt.Sprintf("%s/", c.config.BaseURL))
}

func (c *Controller) GetTours(e echo.Context) error {
	filter := pkgdto.Filter{}
	err := e.Bind(&filter)
	if err != nil {
		log.Error().Err(err).Str("component", "GetTours").Msg("")
	}

	responsePayload, err := c.tourService.GetTours(e.Request().Context(), filter)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "successfully retrieved tours record", responsePayload)
}

func (c *Controller) GetTourBySlug(e echo.Context) error {
	resp, err := c.tourService.GetTourBySlug(e.Request().Context(), e.Param("slug"))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *Controller) GetTourDates(e echo.Context) error {
	tourID, err := strconv.ParseInt(e.QueryParam("tourId"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	resp, err := c.tourService.GetTourDates(e.Request().Context(), tourID)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *Controller) bindTourForm(e echo.Context) (dto.TourRequest, *service.ImageUpload, error) {
	payload := dto.TourRequest{}
	if err := e.Bind(&payload); err != nil {
		log.Error().Err(err).Str("component", "bindTourForm").Msg("")
		return payload, nil, errs.ErrClient
	}

	fileHeader, err := e.FormFile("image")
	if err != nil {
		// Image is optional.
		return payload, nil, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error().Err(err).Str("component", "bindTourForm").Msg("")
		return payload, nil, errs.ErrInternalServer
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Error().Err(err).Str("component", "bindTourForm").Msg("")
		return payload, nil, errs.ErrInternalServer
	}

	return payload, &service.ImageUpload{
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func (c *Controller) AddTour(e echo.Context) error {
	payload, image, err := c.bindTourForm(e)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	resp, err := c.tourService.AddTour(e.Request().Context(), payload, image)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *Controller) UpdateTour(e echo.Context) error {
	payload, image, err := c.bindTourForm(e)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	err = c.tourService.UpdateTour(e.Request().Context(), e.Param("slug"), payload, image)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "tour updated", nil)
}

func (c *Controller) DeleteTour(e echo.Context) error {
	err := c.tourService.DeleteTour(e.Request().Context(), e.Param("slug"))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "tour deleted", nil)
}
