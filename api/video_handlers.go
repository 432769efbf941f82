package api

import (
	"errors"
	"mime/multipart"
	"net/http"

	"tikclone/video"

	"github.com/gin-gonic/gin"
)

const multipartOverhead = 10 << 20

func (h *handlers) createVideo(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes+multipartOverhead)
	}
	clipHeader, err := c.FormFile("video")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"success": false, "message": "upload too large"})
			return
		}
		badRequest(c, "video file is required")
		return
	}
	thumbHeader, err := c.FormFile("thumbnail")
	if err != nil {
		badRequest(c, "thumbnail is required")
		return
	}
	clipFile, err := clipHeader.Open()
	if err != nil {
		badRequest(c, "cannot read video file")
		return
	}
	defer clipFile.Close()
	thumbFile, err := thumbHeader.Open()
	if err != nil {
		badRequest(c, "cannot read thumbnail")
		return
	}
	defer thumbFile.Close()
	clip := uploadOf(clipHeader, clipFile)
	thumb := uploadOf(thumbHeader, thumbFile)

	id, _ := identity(c)
	v, err := h.Videos.Create(c.Request.Context(), id.ID, c.PostForm("title"), clip, thumb)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "video created", "data": v})
}

func uploadOf(fh *multipart.FileHeader, f multipart.File) *video.File {
	return &video.File{Body: f, Size: fh.Size, Filename: fh.Filename, ContentType: fh.Header.Get("Content-Type")}
}

func (h *handlers) randomVideos(c *gin.Context) {
	n, _ := parseID(c.DefaultQuery("n", "3"))
	out, err := h.Videos.Random(c.Request.Context(), parseIDList(c.Query("exclude")), int(n))
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, out)
}

func (h *handlers) followingFeed(c *gin.Context) {
	id, _ := identity(c)
	skip, take := paging(c)
	out, err := h.Videos.FollowingFeed(c.Request.Context(), id.ID, skip, take)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, out)
}

func (h *handlers) userVideos(c *gin.Context) {
	userID, valid := parseID(c.Param("userId"))
	if !valid {
		badRequest(c, "invalid userId")
		return
	}
	out, err := h.Videos.ByUser(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, out)
}

func (h *handlers) videoByPath(c *gin.Context) {
	v, err := h.Videos.ByPath(c.Request.Context(), c.Param("path"))
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, v)
}

func (h *handlers) deleteVideo(c *gin.Context) {
	videoID, valid := parseID(c.Param("id"))
	if !valid {
		badRequest(c, "invalid video id")
		return
	}
	id, _ := identity(c)
	if err := h.Videos.Delete(c.Request.Context(), id.ID, videoID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "video deleted"})
}
