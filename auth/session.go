package auth

import (
	"tooltipper/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const workspaceIdKey = "workspace"

type Session struct {
	sessions.Session
}

func LoadSession(c *gin.Context) *Session {
	return &Session{
		Session: sessions.Default(c),
	}
}

// WorkspaceID returns the author workspace of this browser, creating a new id if needed
func (s *Session) WorkspaceID() string {
	if id, ok := s.Get(workspaceIdKey).(string); ok && id != "" {
		return id
	}
	id := utils.Rand16BytesToBase62()
	s.Set(workspaceIdKey, id)
	if err := s.Save(); err != nil {
		zap.L().Warn("session save", zap.Error(err))
	}
	return id
}

func (s *Session) Forget() {
	s.Delete(workspaceIdKey)
	if err := s.Save(); err != nil {
		zap.L().Warn("session save", zap.Error(err))
	}
}
