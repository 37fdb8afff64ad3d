package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	cmap "github.com/orcaman/concurrent-map/v2"
	"go.uber.org/zap"

	"tooltipper/annotation"
	"tooltipper/auth"
)

// SendSocketFunc returns true if data was successfully sent
type SendSocketFunc func([]byte) bool
type ConnectedClient struct {
	fun SendSocketFunc
}

// ConnectedClients is needed as a photo may be open in more than one viewer
type ConnectedClients []*ConnectedClient

const (
	WSMessageTooltipsChanged = "tooltips_changed"
	// Notifications are sent while the author's workspace is locked
	writeWait = 5 * time.Second
)

type socketWriter interface {
	SetWriteDeadline(t time.Time) error
	WriteMessage(messageType int, data []byte) error
}

func writeMessage(conn socketWriter, data []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

type WSMessage struct {
	Type  string `json:"type"`
	Stamp int64  `json:"stamp"`
}

var (
	// ConnectedViewers is keyed by photo short id
	ConnectedViewers = cmap.New[ConnectedClients]()
	upgrader         = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true // Shared links can be embedded anywhere
		},
	}
)

func addClient(id string, c *ConnectedClient) {
	ConnectedViewers.Upsert(id, ConnectedClients{c}, func(exist bool, valueInMap, newValue ConnectedClients) ConnectedClients {
		if exist {
			return append(valueInMap, c)
		}
		return newValue
	})
}

func removeClient(id string, c *ConnectedClient) {
	ConnectedViewers.Upsert(id, ConnectedClients{}, func(exist bool, valueInMap, newValue ConnectedClients) ConnectedClients {
		if !exist {
			return newValue
		}
		for _, oc := range valueInMap {
			if oc == c {
				continue
			}
			newValue = append(newValue, oc)
		}
		return newValue
	})
	ConnectedViewers.RemoveCb(id, func(key string, v ConnectedClients, exists bool) bool {
		return exists && len(v) == 0
	})
}

// NotifyViewers tells everybody looking at shortID to reload the tooltips
func NotifyViewers(shortID string) int {
	clients, ok := ConnectedViewers.Get(shortID)
	if !ok {
		return 0
	}
	data, _ := json.Marshal(WSMessage{Type: WSMessageTooltipsChanged, Stamp: time.Now().UnixMilli()})
	sent := 0
	for _, client := range clients {
		if client.fun(data) {
			sent++
		}
	}
	return sent
}

func notifyChanged(ws *auth.Workspace) {
	if photo, ok := ws.Session.Photo(); ok {
		NotifyViewers(photo.ShortID)
	}
}

// ViewerSocket keeps a shared photo page updated while the author is annotating
func ViewerSocket(c *gin.Context) {
	shortID := c.Param("shortId")
	if !annotation.ValidShortID(shortID) {
		c.JSON(http.StatusNotFound, Response{annotation.ErrNotFound.Error()})
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Debug("upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	// Setup client
	var mu sync.Mutex // one writer at a time
	isConnected := true
	client := ConnectedClient{}
	client.fun = func(data []byte) bool {
		mu.Lock()
		defer mu.Unlock()
		if !isConnected {
			return false
		}
		err := writeMessage(conn, data)
		if err != nil {
			zap.L().Debug("write", zap.String("short_id", shortID), zap.Error(err))
			isConnected = false
			return false
		}
		return true
	}
	addClient(shortID, &client)
	defer removeClient(shortID, &client)
	// Main read cycle, viewers only ever ping
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			mu.Lock()
			isConnected = false
			mu.Unlock()
			break
		}
		if string(message) == "ping" {
			client.fun([]byte("pong"))
		}
	}
}
