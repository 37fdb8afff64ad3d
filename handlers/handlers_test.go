package handlers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tooltipper/annotation"
	"tooltipper/auth"
	"tooltipper/config"
	"tooltipper/db"
	"tooltipper/models"
	"tooltipper/storage"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	instance, err := db.Open("", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.Instance = instance
	require.NoError(t, models.Migrate())
	storage.Use(storage.NewDiskStorage(&storage.Bucket{
		ID:          1,
		Name:        "photos",
		StorageType: storage.StorageTypeFile,
		Path:        t.TempDir(),
		PublicURL:   "http://localhost:8080/photos/",
	}))
	t.Cleanup(func() { storage.Use() })

	router := gin.New()
	router.Use(sessions.Sessions("workspace", cookie.NewStore([]byte("test key"))))
	authRouter := &auth.Router{Base: router, NewSession: NewAnnotationSession}
	authRouter.GET("/photo/state", PhotoState)
	authRouter.POST("/photo/upload", PhotoUpload)
	authRouter.POST("/photo/leave", PhotoLeave)
	authRouter.GET("/photo/share", PhotoShare)
	authRouter.POST("/tooltip/place", TooltipPlace)
	authRouter.POST("/tooltip/edit", TooltipEdit)
	authRouter.POST("/tooltip/text", TooltipText)
	authRouter.POST("/tooltip/save", TooltipSave)
	authRouter.POST("/tooltip/cancel", TooltipCancel)
	authRouter.POST("/tooltip/delete", TooltipDelete)
	return router
}

// stateBody mirrors StateResponse and PlaceResponse with the state as plain text
type stateBody struct {
	Error    string               `json:"error"`
	State    string               `json:"state"`
	Photo    *annotation.Photo    `json:"photo"`
	ShareURL string               `json:"share_url"`
	Tooltips []annotation.Tooltip `json:"tooltips"`
	Pending  *annotation.Pending  `json:"pending"`
	Placed   bool                 `json:"placed"`
}

// browser keeps the session cookie between requests
type browser struct {
	t       *testing.T
	router  *gin.Engine
	cookies []*http.Cookie
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	b.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		b.setCookie(c)
	}
	return w
}

func (b *browser) setCookie(c *http.Cookie) {
	for i := range b.cookies {
		if b.cookies[i].Name == c.Name {
			b.cookies[i] = c
			return
		}
	}
	b.cookies = append(b.cookies, c)
}

func (b *browser) get(path string, result any) int {
	w := b.do(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(b.t, json.Unmarshal(w.Body.Bytes(), result), w.Body.String())
	return w.Code
}

func (b *browser) post(path string, body any, result any) int {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		data, err := json.Marshal(body)
		require.NoError(b.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(http.MethodPost, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := b.do(req)
	require.NoError(b.t, json.Unmarshal(w.Body.Bytes(), result), w.Body.String())
	return w.Code
}

func (b *browser) upload(name, contentType string, data []byte, result any) int {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="photo"; filename="`+name+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(b.t, err)
	_, err = part.Write(data)
	require.NoError(b.t, err)
	require.NoError(b.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/photo/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := b.do(req)
	require.NoError(b.t, json.Unmarshal(w.Body.Bytes(), result), w.Body.String())
	return w.Code
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 200, 100))))
	return buf.Bytes()
}

func TestAuthorFlow(t *testing.T) {
	router := setupRouter(t)
	b := &browser{t: t, router: router}
	state := stateBody{}

	assert.Equal(t, http.StatusOK, b.get("/photo/state", &state))
	assert.Equal(t, "no_photo", state.State)
	assert.Nil(t, state.Photo)

	// Nothing to place on yet
	state = stateBody{}
	assert.Equal(t, http.StatusConflict, b.post("/tooltip/place", TooltipPlaceRequest{PointerX: 1, PointerY: 1}, &state))

	state = stateBody{}
	require.Equal(t, http.StatusOK, b.upload("cat.png", "image/png", pngBytes(t), &state))
	require.NotNil(t, state.Photo)
	assert.Equal(t, "photo_loaded", state.State)
	assert.Len(t, state.Photo.ShortID, 6)
	assert.Regexp(t, `^http://localhost:8080/photos/.+\.png$`, state.Photo.ImageURL)
	assert.Equal(t, "http://localhost:8080/view/"+state.Photo.ShortID, state.ShareURL)
	shortID := state.Photo.ShortID

	// A second upload is refused while the photo is loaded
	state = stateBody{}
	assert.Equal(t, http.StatusConflict, b.upload("dog.png", "image/png", pngBytes(t), &state))
	assert.Equal(t, shortID, state.Photo.ShortID)

	placed := stateBody{}
	require.Equal(t, http.StatusOK, b.post("/tooltip/place", TooltipPlaceRequest{
		PointerX: 150, PointerY: 75,
		Bounds: annotation.Bounds{Left: 100, Top: 50, Width: 200, Height: 100},
	}, &placed))
	assert.True(t, placed.Placed)
	require.NotNil(t, placed.Pending)
	assert.InDelta(t, 25.0, placed.Pending.X, 1e-9)
	assert.InDelta(t, 25.0, placed.Pending.Y, 1e-9)
	assert.Equal(t, "placing", placed.State)

	state = stateBody{}
	assert.Equal(t, http.StatusOK, b.post("/tooltip/text", TooltipTextRequest{Text: "draft"}, &state))
	assert.Equal(t, "draft", state.Pending.Text)

	state = stateBody{}
	assert.Equal(t, http.StatusBadRequest, b.post("/tooltip/save", TooltipTextRequest{Text: "   "}, &state))
	assert.NotEmpty(t, state.Error)
	assert.NotNil(t, state.Pending)

	state = stateBody{}
	require.Equal(t, http.StatusOK, b.post("/tooltip/save", TooltipTextRequest{Text: "hello"}, &state))
	require.Len(t, state.Tooltips, 1)
	assert.Equal(t, "hello", state.Tooltips[0].Text)
	assert.Nil(t, state.Pending)
	id := state.Tooltips[0].ID

	share := map[string]string{}
	assert.Equal(t, http.StatusOK, b.get("/photo/share", &share))
	assert.Equal(t, "http://localhost:8080/view/"+shortID, share["url"])

	// Edit removes the tooltip and cancelling keeps it removed
	state = stateBody{}
	require.Equal(t, http.StatusOK, b.post("/tooltip/edit", TooltipIDRequest{ID: id}, &state))
	assert.Equal(t, "editing", state.State)
	assert.Equal(t, "hello", state.Pending.Text)
	assert.Equal(t, id, state.Pending.EditingOf)
	assert.Empty(t, state.Tooltips)

	state = stateBody{}
	require.Equal(t, http.StatusOK, b.post("/tooltip/cancel", nil, &state))
	assert.Equal(t, "photo_loaded", state.State)
	assert.Empty(t, state.Tooltips)

	state = stateBody{}
	assert.Equal(t, http.StatusNotFound, b.post("/tooltip/delete", TooltipIDRequest{ID: id}, &state))

	state = stateBody{}
	assert.Equal(t, http.StatusOK, b.post("/photo/leave", nil, &state))
	assert.Equal(t, "no_photo", state.State)

	state = stateBody{}
	assert.Equal(t, http.StatusOK, b.get("/photo/state", &state))
	assert.Equal(t, "no_photo", state.State)
}

func TestTooltipPlace_OutsideImage(t *testing.T) {
	router := setupRouter(t)
	b := &browser{t: t, router: router}
	state := stateBody{}
	require.Equal(t, http.StatusOK, b.upload("cat.png", "image/png", pngBytes(t), &state))

	placed := stateBody{}
	assert.Equal(t, http.StatusOK, b.post("/tooltip/place", TooltipPlaceRequest{
		PointerX: 350, PointerY: 75,
		Bounds: annotation.Bounds{Left: 100, Top: 50, Width: 200, Height: 100},
	}, &placed))
	assert.False(t, placed.Placed)
	assert.Nil(t, placed.Pending)
	assert.Equal(t, "photo_loaded", placed.State)
}

func TestPhotoUpload_Rejected(t *testing.T) {
	router := setupRouter(t)
	b := &browser{t: t, router: router}

	state := stateBody{}
	assert.Equal(t, http.StatusBadRequest, b.upload("notes.txt", "text/plain", []byte("hello"), &state))
	assert.NotEmpty(t, state.Error)
	assert.Equal(t, "no_photo", state.State)

	state = stateBody{}
	assert.Equal(t, http.StatusBadRequest, b.upload("cat.bmp", "image/bmp", pngBytes(t), &state))
	assert.Equal(t, "no_photo", state.State)

	resp := Response{}
	req := httptest.NewRequest(http.MethodPost, "/photo/upload", bytes.NewReader(nil))
	w := b.do(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
}

func TestWorkspacesAreSeparate(t *testing.T) {
	router := setupRouter(t)
	alice := &browser{t: t, router: router}
	bob := &browser{t: t, router: router}

	state := stateBody{}
	require.Equal(t, http.StatusOK, alice.upload("cat.png", "image/png", pngBytes(t), &state))
	assert.Equal(t, "photo_loaded", state.State)

	state = stateBody{}
	assert.Equal(t, http.StatusOK, bob.get("/photo/state", &state))
	assert.Equal(t, "no_photo", state.State)

	share := Response{}
	assert.Equal(t, http.StatusConflict, bob.get("/photo/share", &share))
}

func TestPhotoUpload_BodyTooLarge(t *testing.T) {
	router := setupRouter(t)
	limit := config.MAX_UPLOAD_SIZE
	config.MAX_UPLOAD_SIZE = 1024
	t.Cleanup(func() { config.MAX_UPLOAD_SIZE = limit })
	b := &browser{t: t, router: router}

	resp := Response{}
	assert.Equal(t, http.StatusBadRequest, b.upload("huge.png", "image/png", bytes.Repeat([]byte{1}, 2<<20), &resp))
	assert.Contains(t, resp.Error, "too large")

	state := stateBody{}
	assert.Equal(t, http.StatusOK, b.get("/photo/state", &state))
	assert.Equal(t, "no_photo", state.State)
}

func TestPhotoLeave_NewWorkspace(t *testing.T) {
	router := setupRouter(t)
	b := &browser{t: t, router: router}
	before := map[string]bool{}
	for _, id := range auth.Workspaces.Keys() {
		before[id] = true
	}

	state := stateBody{}
	require.Equal(t, http.StatusOK, b.upload("cat.png", "image/png", pngBytes(t), &state))
	first := ""
	for _, id := range auth.Workspaces.Keys() {
		if !before[id] {
			first = id
		}
	}
	require.NotEmpty(t, first)

	state = stateBody{}
	require.Equal(t, http.StatusOK, b.post("/photo/leave", nil, &state))
	assert.False(t, auth.Workspaces.Has(first))

	state = stateBody{}
	require.Equal(t, http.StatusOK, b.get("/photo/state", &state))
	assert.Equal(t, "no_photo", state.State)
	assert.False(t, auth.Workspaces.Has(first))
}
