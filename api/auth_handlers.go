package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (h *handlers) register(c *gin.Context) {
	var req struct {
		Fullname string `json:"fullname"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	res, err := h.Auth.SignUp(c.Request.Context(), req.Fullname, req.Username, req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handlers) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password are required")
		return
	}
	sess, err := h.Auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *handlers) refreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "refreshToken is required")
		return
	}
	sess, err := h.Auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// sendVerificationEmail mails a link to the address carried by the caller's token.
func (h *handlers) sendVerificationEmail(c *gin.Context) {
	id, _ := identity(c)
	if id.Email == "" {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "no email in token"})
		return
	}
	c.JSON(http.StatusOK, h.Auth.SendVerificationEmail(c.Request.Context(), id.Email))
}

func (h *handlers) verifyEmail(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "token is required")
		return
	}
	out, err := h.Auth.VerifyEmail(c.Request.Context(), req.Token)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// sendResetEmail takes the address from the query string or the JSON body.
func (h *handlers) sendResetEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		var req struct {
			Email string `json:"email"`
		}
		_ = c.ShouldBindJSON(&req)
		email = req.Email
	}
	if strings.TrimSpace(email) == "" {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "email is required"})
		return
	}
	c.JSON(http.StatusOK, h.Auth.SendPasswordResetEmail(c.Request.Context(), email))
}

func (h *handlers) resetPassword(c *gin.Context) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	c.JSON(http.StatusOK, h.Auth.ResetPassword(c.Request.Context(), req.Token, req.NewPassword))
}
