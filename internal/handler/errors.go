package handler

import (
	"errors"
	"net/http"

	"despensa-backend/internal/ledger"

	"github.com/gin-gonic/gin"
)

// ledgerError maps the ledger error taxonomy onto HTTP status codes. The
// wrapped message already carries the detail the caller needs (current debt,
// available stock).
func ledgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrCustomerNotFound), errors.Is(err, ledger.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInsufficientStock),
		errors.Is(err, ledger.ErrEmptyOrder):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrConflictingUpdate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Operation failed"})
	}
}
