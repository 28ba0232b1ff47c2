package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-payment-core/app/entity"
	"github.com/vibast-solutions/ms-go-payment-core/app/factory"
	"github.com/vibast-solutions/ms-go-payment-core/app/mapper"
	"github.com/vibast-solutions/ms-go-payment-core/app/service"
	"github.com/vibast-solutions/ms-go-payment-core/app/types"
)

// merchantIDHeader carries the already-authenticated merchant identity.
// Authentication itself happens upstream of this service.
const merchantIDHeader = "X-Merchant-ID"

type PaymentController struct {
	paymentService *service.PaymentService
	logger         logrus.FieldLogger
}

func NewPaymentController(paymentService *service.PaymentService) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		logger:         factory.NewModuleLogger("payments-controller"),
	}
}

func (c *PaymentController) ConfirmPayment(ctx echo.Context) error {
	merchant, err := c.resolveMerchant(ctx)
	if err != nil {
		return err
	}

	req, err := types.NewConfirmPaymentRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.paymentService.ConfirmPayment(ctx.Request().Context(), merchant, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation),
			errors.Is(err, service.ErrPaymentMethodNotFound),
			errors.Is(err, service.ErrConnectorUnsupported):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNotAllowedInCurrentState):
			return c.writeError(ctx, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrPaymentNotFound):
			return c.writeError(ctx, http.StatusNotFound, "payment not found")
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Confirm payment failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, &types.PaymentEnvelopeResponse{Payment: mapper.PaymentToResponse(item)})
}

func (c *PaymentController) GetPayment(ctx echo.Context) error {
	merchant, err := c.resolveMerchant(ctx)
	if err != nil {
		return err
	}

	req, err := types.NewGetPaymentRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}

	item, err := c.paymentService.GetPayment(ctx.Request().Context(), merchant, req.PaymentID)
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "payment not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Get payment failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.PaymentEnvelopeResponse{Payment: mapper.PaymentToResponse(item)})
}

func (c *PaymentController) resolveMerchant(ctx echo.Context) (*entity.MerchantAccount, error) {
	merchantID := strings.TrimSpace(ctx.Request().Header.Get(merchantIDHeader))
	if merchantID == "" {
		return nil, c.writeError(ctx, http.StatusBadRequest, "X-Merchant-ID header is required")
	}

	merchant, err := c.paymentService.MerchantAccount(ctx.Request().Context(), merchantID)
	if err != nil {
		if errors.Is(err, service.ErrMerchantNotFound) {
			return nil, c.writeError(ctx, http.StatusNotFound, "merchant not found")
		}
		c.logger.WithError(err).Error("Merchant lookup failed")
		return nil, c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}
	return merchant, nil
}

func (c *PaymentController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Error: message})
}
