package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlers) getUser(c *gin.Context) {
	u, err := h.Users.ByUsername(c.Request.Context(), c.Query("username"))
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, u)
}

func (h *handlers) me(c *gin.Context) {
	id, _ := identity(c)
	u, err := h.Users.Me(c.Request.Context(), id.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, u)
}

func (h *handlers) updateUser(c *gin.Context) {
	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	id, _ := identity(c)
	res, err := h.Users.UpdateProfile(c.Request.Context(), id.ID, patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
