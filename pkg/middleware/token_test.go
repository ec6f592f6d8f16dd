package middleware

import (
	"bitwise74/files-api/internal/auth"
	"bitwise74/files-api/internal/model"
	"bitwise74/files-api/internal/session"
	"bitwise74/files-api/internal/store"
	"bitwise74/files-api/pkg/security"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type users map[string]*model.User

func (u users) CreateUser(_ context.Context, usr *model.User) error {
	u[usr.ID] = usr
	return nil
}

func (u users) UserByID(_ context.Context, id string) (*model.User, error) {
	if usr, ok := u[id]; ok {
		return usr, nil
	}

	return nil, store.ErrNotFound
}

func (u users) UserByEmail(context.Context, string) (*model.User, error) {
	return nil, store.ErrNotFound
}

func (u users) CountUsers(context.Context) (int64, error) {
	return int64(len(u)), nil
}

func TestOptionalTokenRequiresLiveUser(t *testing.T) {
	ctx := context.Background()

	live := &model.User{ID: store.NewID(), Email: "a@me.com"}
	sessions := session.NewMemory()
	t.Cleanup(func() { sessions.Close() })

	require.NoError(t, sessions.Put(ctx, "auth_live", live.ID, time.Hour))
	require.NoError(t, sessions.Put(ctx, "auth_orphan", store.NewID(), time.Hour))

	m := auth.NewManager(users{live.ID: live}, sessions, security.NewFast(), nil, time.Hour)

	r := gin.New()
	r.Use(NewRequestIDMiddleware(), NewOptionalTokenMiddleware(m))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("userID"))
	})

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"anonymous", "", ""},
		{"unknown token", "nope", ""},
		{"user no longer exists", "orphan", ""},
		{"live session", "live", live.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.token != "" {
				req.Header.Set(TokenHeader, tt.token)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}
}
