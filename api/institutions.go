package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	model2 "github.com/centimehq/centime/api/model"
	"github.com/centimehq/centime/internal/apierror"
)

// CreateInstitution registers an institution and its extraction rules.
func (a Api) CreateInstitution(c *gin.Context) {
	var newInstitution model2.CreateInstitution
	if err := c.ShouldBindJSON(&newInstitution); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := newInstitution.ValidateCreateInstitution(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.centime.CreateInstitution(c.Request.Context(), newInstitution.ToInstitution())
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (a Api) GetInstitution(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.centime.GetInstitution(c.Request.Context(), id)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) GetAllInstitutions(c *gin.Context) {
	resp, err := a.centime.GetInstitutions(c.Request.Context())
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
