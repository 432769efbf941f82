package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"tikclone/auth"
	"tikclone/notification"
	"tikclone/pkg/logging"
	"tikclone/pkg/mailer"
	"tikclone/pkg/media"
	"tikclone/pkg/password"
	"tikclone/pkg/token"
	"tikclone/social"
	"tikclone/store"
	"tikclone/users"
	"tikclone/video"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// setupPostgresEnv runs the stack against a real database. Integration tests
// are opt-in: set DB_DSN_TEST=1 and DB_DSN to run them.
func setupPostgresEnv(t *testing.T) *testEnv {
	t.Helper()
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	log := logging.Discard()
	db, err := store.Open(os.Getenv("DB_DSN"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background(), db, log))
	st := store.New(db)

	issuer := token.NewIssuer(token.Config{AccessSecret: []byte("it-access"), RefreshSecret: []byte("it-refresh")})
	hasher := password.NewHasher(bcrypt.MinCost)
	tpl, err := mailer.NewTemplates("", log)
	require.NoError(t, err)
	capture := &captureDispatcher{}
	uploader, err := media.NewLocalUploader(t.TempDir(), "/media")
	require.NoError(t, err)

	r := gin.New()
	SetupRoutes(r, Deps{
		Tokens:         issuer,
		Auth:           auth.NewService(st, issuer, hasher, mailer.NewService(capture, tpl, time.Hour), auth.Config{BaseURL: "https://app.test"}, log),
		Users:          users.NewService(st, log),
		Videos:         video.NewService(st, uploader, video.Config{ThumbnailMaxWidth: 32}, log),
		Likes:          social.NewLikes(st, log),
		Follows:        social.NewFollows(st, log),
		Comments:       social.NewComments(st, log),
		Notifications:  notification.NewService(st, log),
		DB:             st,
		Log:            log,
		MediaDir:       uploader.Dir(),
		MaxUploadBytes: 1 << 20,
	})
	return &testEnv{r: r, mail: capture}
}

func TestPostgresFullFlow(t *testing.T) {
	e := setupPostgresEnv(t)

	rec := e.do(http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// unique names so the test can run against a shared database
	name := "it_" + uuid.NewString()[:8]
	owner, _ := e.activeUser(t, name)
	fan, _ := e.activeUser(t, name+"_fan")

	rec = e.upload(t, owner, "integration clip")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	v := decode(t, rec)["data"].(map[string]any)

	rec = e.do(http.MethodPost, "/like/add", gin.H{"videoId": v["id"]}, fan)
	assert.Equal(t, true, decode(t, rec)["success"])

	rec = e.do(http.MethodGet, "/video/"+v["path"].(string), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["data"].(map[string]any)["likeCount"])

	rec = e.do(http.MethodDelete, fmt.Sprintf("/video/%d", uint(v["id"].(float64))), nil, owner)
	assert.Equal(t, http.StatusOK, rec.Code)
}

