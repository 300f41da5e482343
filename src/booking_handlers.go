package main

import (
	"errors"
	"log"
	"net/http"

	"travl/src/common"
	"travl/src/middlewares"
	"travl/src/repository"
	"travl/src/types"

	"github.com/gin-gonic/gin"
)

func badRequest(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, types.APIResponse{Success: false, Error: err.Error()})
}

func bookingHandlers(g *gin.RouterGroup, svc *common.BookingService) *gin.RouterGroup {
	g.
		POST("/create", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				badRequest(ctx, err)
				return
			}
			booking, err := svc.Create(ctx, &body)
			if err != nil {
				log.Printf("Error creating Booking: %s\n", err.Error())
				badRequest(ctx, err)
				return
			}
			log.Printf("[Bookings] Booking %s created by %s\n", booking.ID, middlewares.ActingUser(ctx))
			record := booking.ToRecord()
			ctx.JSON(http.StatusOK, types.APIResponseBooking{
				APIResponse: types.APIResponse{Success: true, Message: "Booking created successfully"},
				Booking:     &record,
			})
		}).
		POST("/mock", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				badRequest(ctx, err)
				return
			}
			record := svc.Mock(ctx, &body).ToRecord()
			log.Printf("[Bookings] served mock booking %s\n", record.ID)
			ctx.JSON(http.StatusOK, types.APIResponseBooking{
				APIResponse: types.APIResponse{Success: true, Message: "Booking created successfully"},
				Booking:     &record,
				Mock:        true,
			})
		}).
		GET("/user/:userId", func(ctx *gin.Context) {
			var params types.TravelerURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				badRequest(ctx, err)
				return
			}
			bookings, err := svc.ListForTraveler(ctx, params.UserID)
			if err != nil {
				badRequest(ctx, err)
				return
			}
			records := make([]types.BookingRecord, 0, len(bookings))
			for i := range bookings {
				records = append(records, bookings[i].ToRecord())
			}
			ctx.JSON(http.StatusOK, types.APIResponseBookings{
				APIResponse: types.APIResponse{Success: true},
				Bookings:    records,
			})
		}).
		GET("/:bookingId", func(ctx *gin.Context) {
			var params types.BookingURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				badRequest(ctx, err)
				return
			}
			booking, err := svc.Get(ctx, params.BookingID)
			if errors.Is(err, repository.ErrNotFound) {
				ctx.JSON(http.StatusNotFound, types.APIResponse{Success: false, Error: "Booking not found"})
				return
			}
			if err != nil {
				badRequest(ctx, err)
				return
			}
			record := booking.ToRecord()
			ctx.JSON(http.StatusOK, types.APIResponseBooking{
				APIResponse: types.APIResponse{Success: true},
				Booking:     &record,
			})
		}).
		POST("/:bookingId/cancel", func(ctx *gin.Context) {
			var params types.BookingURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				badRequest(ctx, err)
				return
			}
			booking, err := svc.Cancel(ctx, params.BookingID)
			if errors.Is(err, repository.ErrNotFound) {
				ctx.JSON(http.StatusNotFound, types.APIResponse{Success: false, Error: "Booking not found"})
				return
			}
			if err != nil {
				log.Printf("Error cancelling Booking %s: %s\n", params.BookingID, err.Error())
				badRequest(ctx, err)
				return
			}
			log.Printf("[Bookings] Booking %s cancelled by %s\n", booking.ID, middlewares.ActingUser(ctx))
			record := booking.ToRecord()
			ctx.JSON(http.StatusOK, types.APIResponseBooking{
				APIResponse: types.APIResponse{Success: true, Message: "Booking cancelled"},
				Booking:     &record,
			})
		})
	return g
}
