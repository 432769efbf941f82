package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type notificationBody struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *handlers) createNotification(c *gin.Context) {
	var req notificationBody
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	n, err := h.Notifications.Create(c.Request.Context(), req.Title, req.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": n})
}

func (h *handlers) updateNotification(c *gin.Context) {
	id, valid := parseID(c.Param("id"))
	if !valid {
		badRequest(c, "invalid notification id")
		return
	}
	var req notificationBody
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	n, err := h.Notifications.Update(c.Request.Context(), id, req.Title, req.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, n)
}

func (h *handlers) deleteNotification(c *gin.Context) {
	id, valid := parseID(c.Param("id"))
	if !valid {
		badRequest(c, "invalid notification id")
		return
	}
	if err := h.Notifications.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "notification deleted"})
}

func (h *handlers) setNotificationActive(c *gin.Context) {
	id, valid := parseID(c.Param("id"))
	if !valid {
		badRequest(c, "invalid notification id")
		return
	}
	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "active is required")
		return
	}
	n, err := h.Notifications.SetActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, n)
}

func (h *handlers) listNotifications(c *gin.Context) {
	out, err := h.Notifications.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, out)
}

// activeNotification is public; data is null when nothing is active.
func (h *handlers) activeNotification(c *gin.Context) {
	n, err := h.Notifications.Active(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, n)
}
