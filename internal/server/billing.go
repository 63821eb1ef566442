package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	billingdomain "github.com/smallbiznis/seatwise/internal/billing/domain"
)

// redirectResponse points the client at the page that matches its billing
// state. Subscribed realms land on the billing page, everyone else on the
// upgrade form.
type redirectResponse struct {
	Redirect string `json:"redirect"`
}

const (
	billingPath = "/billing"
	upgradePath = "/billing/upgrade"
)

// GetBillingState renders the current billing state for the realm.
func (s *Server) GetBillingState(c *gin.Context) {
	view, err := s.billingSvc.CurrentState(c.Request.Context())
	if errors.Is(err, billingdomain.ErrUpgradeRequired) {
		c.JSON(http.StatusSeeOther, redirectResponse{Redirect: upgradePath})
		return
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": view})
}

// GetUpgradeQuote returns everything the upgrade form needs, including the
// signed seat count the client must echo back on submit.
func (s *Server) GetUpgradeQuote(c *gin.Context) {
	quote, err := s.billingSvc.Quote(c.Request.Context())
	if errors.Is(err, billingdomain.ErrAlreadySubscribed) {
		c.JSON(http.StatusSeeOther, redirectResponse{Redirect: billingPath})
		return
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": quote})
}

func (s *Server) Upgrade(c *gin.Context) {
	var req billingdomain.UpgradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	err := s.billingSvc.Upgrade(c.Request.Context(), req)
	if errors.Is(err, billingdomain.ErrAlreadySubscribed) {
		c.JSON(http.StatusSeeOther, redirectResponse{Redirect: billingPath})
		return
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, redirectResponse{Redirect: billingPath})
}

func (s *Server) Downgrade(c *gin.Context) {
	if err := s.billingSvc.Downgrade(c.Request.Context()); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) ReplacePaymentSource(c *gin.Context) {
	var req struct {
		PaymentToken string `json:"payment_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.PaymentToken == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.billingSvc.ReplacePaymentSource(c.Request.Context(), req.PaymentToken); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
