package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"kickslab/internal/checkout"
	"kickslab/internal/domain"

	"github.com/gin-gonic/gin"
)

// proof uploads are screenshots; cap them well below any provider limit.
const maxProofBytes = 8 << 20

func getCheckoutHandler(flow *checkout.Flow) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := flow.Pending()
		if err != nil {
			if errors.Is(err, domain.ErrNoPendingOrder) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no pending order"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func beginCheckoutHandler(flow *checkout.Flow) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in checkout.BeginInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		order, err := flow.Begin(in)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func paymentSentHandler(flow *checkout.Flow) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := flow.ConfirmPaymentSent()
		if err != nil {
			if errors.Is(err, domain.ErrNoPendingOrder) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no pending order"})
				return
			}
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func submitCheckoutHandler(flow *checkout.Flow) gin.HandlerFunc {
	return func(c *gin.Context) {
		in := checkout.SubmitInput{
			PaymentMethod:  c.PostForm("paymentMethod"),
			TransactionRef: c.PostForm("transactionRef"),
		}

		if raw := c.PostForm("shipping"); raw != "" {
			var addr domain.Address
			if err := json.Unmarshal([]byte(raw), &addr); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shipping payload"})
				return
			}
			in.Shipping = &addr
		}

		file, header, err := c.Request.FormFile("proof")
		if err == nil {
			defer file.Close()
			proof, err := io.ReadAll(io.LimitReader(file, maxProofBytes))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "could not read proof upload"})
				return
			}
			in.Proof = proof
			in.ProofFilename = header.Filename
		}

		order, err := flow.Submit(c.Request.Context(), in)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrNoPendingOrder):
				c.JSON(http.StatusNotFound, gin.H{"error": "no pending order"})
			default:
				// Relay failures land here too: the state machine did not
				// advance and the client prompts a manual retry.
				c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "retry": true})
			}
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
