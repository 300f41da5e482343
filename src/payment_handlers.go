package main

import (
	"net/http"

	"travl/src/common"
	"travl/src/types"
	"travl/src/utils"

	"github.com/gin-gonic/gin"
)

func providerError(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, types.APIResponse{Success: false, Error: utils.ErrorMessage(err)})
}

func paymentHandlers(g *gin.RouterGroup, svc *common.PaymentService) *gin.RouterGroup {
	g.
		POST("/create-payment-intent", func(ctx *gin.Context) {
			var body types.CreatePaymentIntentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				badRequest(ctx, err)
				return
			}
			pi, err := svc.CreatePaymentIntent(ctx, body.Amount, body.Currency, body.BookingID, body.CustomerEmail)
			if err != nil {
				providerError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, types.APIResponsePaymentIntent{
				APIResponse:     types.APIResponse{Success: true},
				ClientSecret:    pi.ClientSecret,
				PaymentIntentID: pi.ID,
			})
		}).
		POST("/create-paypal-order", func(ctx *gin.Context) {
			var body types.CreateWalletOrderRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				badRequest(ctx, err)
				return
			}
			order, err := svc.CreateWalletOrder(ctx, body.Amount, body.Currency, body.BookingID)
			if err != nil {
				providerError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, types.APIResponseWalletOrder{
				APIResponse: types.APIResponse{Success: true},
				OrderID:     order.OrderID,
				Amount:      order.Amount,
				Currency:    order.Currency,
			})
		}).
		POST("/capture-paypal-order", func(ctx *gin.Context) {
			var body types.CaptureWalletOrderRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				badRequest(ctx, err)
				return
			}
			order, err := svc.CaptureWalletOrder(ctx, body.OrderID)
			if err != nil {
				providerError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, types.APIResponseWalletCapture{
				APIResponse:   types.APIResponse{Success: true, Message: "Payment captured successfully"},
				TransactionID: order.TransactionID,
			})
		}).
		POST("/refund", func(ctx *gin.Context) {
			var body types.RefundRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				badRequest(ctx, err)
				return
			}
			refund, err := svc.Refund(ctx, body.PaymentIntentID, body.Amount)
			if err != nil {
				providerError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, types.APIResponseRefund{
				APIResponse: types.APIResponse{Success: true},
				RefundID:    refund.ID,
				Status:      refund.Status,
			})
		})
	return g
}
