package auth

import (
	"sync"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
	"go.uber.org/zap"

	"tooltipper/annotation"
)

// Workspace is the annotation session of one author (browser). Requests to the same
// workspace are serialized by the Router.
type Workspace struct {
	ID      string
	Session *annotation.Session

	mu       sync.Mutex
	lastUsed time.Time
}

var Workspaces = cmap.New[*Workspace]()

func getWorkspace(id string, newSession func() *annotation.Session) *Workspace {
	ws, ok := Workspaces.Get(id)
	if ok {
		return ws
	}
	Workspaces.SetIfAbsent(id, &Workspace{ID: id, Session: newSession(), lastUsed: time.Now()})
	ws, _ = Workspaces.Get(id)
	return ws
}

// RemoveWorkspace drops the workspace, e.g. when the author navigates away from the photo
func RemoveWorkspace(ws *Workspace) {
	ws.Session.Leave()
	Workspaces.RemoveCb(ws.ID, func(key string, v *Workspace, exists bool) bool {
		return exists && v == ws
	})
}

// EvictIdle removes workspaces not used for maxIdle. Workspaces serving a request are skipped.
func EvictIdle(maxIdle time.Duration) int {
	evicted := 0
	deadline := time.Now().Add(-maxIdle)
	for item := range Workspaces.IterBuffered() {
		ws := item.Val
		if !ws.mu.TryLock() {
			continue
		}
		if ws.lastUsed.Before(deadline) {
			RemoveWorkspace(ws)
			evicted++
		}
		ws.mu.Unlock()
	}
	return evicted
}

func StartJanitor(maxIdle time.Duration) {
	interval := maxIdle / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	for range time.Tick(interval) {
		if n := EvictIdle(maxIdle); n > 0 {
			zap.L().Info("evicted idle workspaces", zap.Int("count", n), zap.Int("remaining", Workspaces.Count()))
		}
	}
}
