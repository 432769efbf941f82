package api

import (
	"net/http"
	"strconv"
	"strings"

	"tikclone/apperr"

	"github.com/gin-gonic/gin"
)

func statusOf(k apperr.Kind) int {
	switch k {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindAuth:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// fail renders err with the status of its kind. Internal causes are logged, not sent.
func (h *handlers) fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		h.log.Error(c.Request.Context(), "request failed", "method", c.Request.Method, "path", c.FullPath(), "err", err)
	}
	c.JSON(statusOf(kind), gin.H{"success": false, "message": apperr.MessageOf(err)})
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msg})
}

func parseID(s string) (uint, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// paging reads skip/take query values. Bounds are enforced by the store.
func paging(c *gin.Context) (int, int) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	take, _ := strconv.Atoi(c.DefaultQuery("take", "10"))
	return skip, take
}

// parseIDList parses "1,2,3", skipping malformed entries.
func parseIDList(s string) []uint {
	var out []uint
	for _, part := range strings.Split(s, ",") {
		if id, ok := parseID(part); ok {
			out = append(out, id)
		}
	}
	return out
}
