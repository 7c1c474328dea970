package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	model2 "github.com/centimehq/centime/api/model"
	"github.com/centimehq/centime/internal/apierror"
)

// CreateHolder registers a new holder with a zero balance.
func (a Api) CreateHolder(c *gin.Context) {
	var newHolder model2.CreateHolder
	if err := c.ShouldBindJSON(&newHolder); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := newHolder.ValidateCreateHolder(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.centime.CreateHolder(c.Request.Context(), newHolder.ToHolder())
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetHolder returns a holder with its current balance.
func (a Api) GetHolder(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.centime.GetHolder(c.Request.Context(), id)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) GetAllHolders(c *gin.Context) {
	resp, err := a.centime.GetAllHolders(c.Request.Context())
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
