package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type videoRef struct {
	VideoID uint `json:"videoId" binding:"required"`
}

func (h *handlers) addLike(c *gin.Context) {
	var req videoRef
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "videoId is required")
		return
	}
	id, _ := identity(c)
	out, err := h.Likes.Add(c.Request.Context(), id.ID, req.VideoID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) removeLike(c *gin.Context) {
	var req videoRef
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "videoId is required")
		return
	}
	id, _ := identity(c)
	out, err := h.Likes.Remove(c.Request.Context(), id.ID, req.VideoID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) countLikes(c *gin.Context) {
	videoID, valid := parseID(c.Query("videoId"))
	if !valid {
		badRequest(c, "invalid videoId")
		return
	}
	n, err := h.Likes.Count(c.Request.Context(), videoID)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, n)
}

func (h *handlers) likedByMe(c *gin.Context) {
	videoID, valid := parseID(c.Query("videoId"))
	if !valid {
		badRequest(c, "invalid videoId")
		return
	}
	id, _ := identity(c)
	liked, err := h.Likes.Liked(c.Request.Context(), id.ID, videoID)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, liked)
}

func (h *handlers) likedVideos(c *gin.Context) {
	id, _ := identity(c)
	skip, take := paging(c)
	out, err := h.Likes.ListLiked(c.Request.Context(), id.ID, skip, take)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, out)
}

type followRef struct {
	FollowingID uint `json:"followingId" binding:"required"`
}

func (h *handlers) follow(c *gin.Context) {
	var req followRef
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "followingId is required")
		return
	}
	id, _ := identity(c)
	out, err := h.Follows.Follow(c.Request.Context(), id.ID, req.FollowingID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) unfollow(c *gin.Context) {
	var req followRef
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "followingId is required")
		return
	}
	id, _ := identity(c)
	out, err := h.Follows.Unfollow(c.Request.Context(), id.ID, req.FollowingID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// subject is the user a follow query is about: ?userId= or the caller.
func subject(c *gin.Context) (uint, bool) {
	if q := c.Query("userId"); q != "" {
		return parseID(q)
	}
	id, _ := identity(c)
	return id.ID, true
}

func (h *handlers) followers(c *gin.Context) {
	userID, valid := subject(c)
	if !valid {
		badRequest(c, "invalid userId")
		return
	}
	skip, take := paging(c)
	out, err := h.Follows.Followers(c.Request.Context(), userID, skip, take)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, out)
}

func (h *handlers) following(c *gin.Context) {
	userID, valid := subject(c)
	if !valid {
		badRequest(c, "invalid userId")
		return
	}
	skip, take := paging(c)
	out, err := h.Follows.Following(c.Request.Context(), userID, skip, take)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, out)
}

func (h *handlers) countFollowers(c *gin.Context) {
	userID, valid := subject(c)
	if !valid {
		badRequest(c, "invalid userId")
		return
	}
	n, err := h.Follows.CountFollowers(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, n)
}

func (h *handlers) countFollowing(c *gin.Context) {
	userID, valid := subject(c)
	if !valid {
		badRequest(c, "invalid userId")
		return
	}
	n, err := h.Follows.CountFollowing(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, n)
}

func (h *handlers) createComment(c *gin.Context) {
	videoID, valid := parseID(c.Query("videoId"))
	if !valid {
		badRequest(c, "invalid videoId")
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	id, _ := identity(c)
	cm, err := h.Comments.Create(c.Request.Context(), id.ID, videoID, req.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "comment created", "data": cm})
}

func (h *handlers) deleteComment(c *gin.Context) {
	commentID, valid := parseID(c.Query("commentId"))
	if !valid {
		badRequest(c, "invalid commentId")
		return
	}
	id, _ := identity(c)
	if err := h.Comments.Delete(c.Request.Context(), id.ID, commentID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "comment deleted"})
}

func (h *handlers) listComments(c *gin.Context) {
	videoID, valid := parseID(c.Query("videoId"))
	if !valid {
		badRequest(c, "invalid videoId")
		return
	}
	skip, take := paging(c)
	out, err := h.Comments.List(c.Request.Context(), videoID, skip, take)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, out)
}

func (h *handlers) countComments(c *gin.Context) {
	videoID, valid := parseID(c.Query("videoId"))
	if !valid {
		badRequest(c, "invalid videoId")
		return
	}
	n, err := h.Comments.Count(c.Request.Context(), videoID)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, n)
}
