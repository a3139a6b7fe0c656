package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"navid/server/database"
	"navid/server/models"
	"navid/server/service"
	"navid/server/storage"
	"navid/server/store"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open("file::memory:")
	require.NoError(t, err)
	require.NoError(t, database.Seed(db))

	log := zap.NewNop()
	users := store.NewUserStore(db)
	catalog := store.NewModelStore(db)

	files, err := storage.New(t.TempDir())
	require.NoError(t, err)

	authSvc := service.NewAuthService(users, catalog, time.Hour, log)
	chatSvc := service.NewChatService(db, service.TemplateGenerator{}, log)
	settingsSvc := service.NewSettingsService(users, catalog, log)
	attachmentSvc := service.NewAttachmentService(store.NewAttachmentStore(db), files, 1024, log)
	helpSvc := service.NewHelpService(store.NewHelpStore(db))

	return NewRouter(
		authSvc,
		NewAuthHandler(authSvc, 3600, log),
		NewChatHandler(chatSvc, attachmentSvc, log),
		NewSettingsHandler(settingsSvc, log),
		NewHelpHandler(helpSvc),
	)
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, r *gin.Engine, email, password string) []*http.Cookie {
	t.Helper()
	rec := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func TestProtectedRouteWithoutSession(t *testing.T) {
	r := newTestServer(t)

	rec := doJSON(t, r, http.MethodGet, "/api/v1/chat/conversations", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, service.CodeUnauthorized, body.Code)
	assert.NotEmpty(t, body.Message)
}

func TestLoginFailureBody(t *testing.T) {
	r := newTestServer(t)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    database.DemoEmail,
		"password": "wrong-password",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, service.CodeInvalidCredentials, body.Code)
}

func TestMeWithoutSessionIsNull(t *testing.T) {
	r := newTestServer(t)

	rec := doJSON(t, r, http.MethodGet, "/api/v1/auth/me", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", rec.Body.String())
}

func TestDemoLoginFlow(t *testing.T) {
	r := newTestServer(t)
	cookies := login(t, r, database.DemoEmail, database.DemoPassword)

	rec := doJSON(t, r, http.MethodGet, "/api/v1/auth/me", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	var sess models.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	assert.True(t, sess.OnboardingComplete)

	rec = doJSON(t, r, http.MethodGet, "/api/v1/chat/conversations", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, database.DemoTitle, list[0].Title)

	rec = doJSON(t, r, http.MethodGet, "/api/v1/chat/conversations/"+list[0].ID, nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail struct {
		Conversation models.Conversation `json:"conversation"`
		Messages     []models.Message    `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Len(t, detail.Messages, 2)

	rec = doJSON(t, r, http.MethodPost, "/api/v1/auth/logout", nil, cookies)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSendMessageEndpoint(t *testing.T) {
	r := newTestServer(t)
	cookies := login(t, r, database.DemoEmail, database.DemoPassword)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/chat/conversations", gin.H{
		"model_id": "navid-pro",
	}, cookies)
	require.Equal(t, http.StatusCreated, rec.Code)
	var conv models.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conv))

	rec = doJSON(t, r, http.MethodPost, "/api/v1/chat/conversations/"+conv.ID+"/messages", gin.H{
		"content": "hello there",
	}, cookies)
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		AssistantMessage models.Message `json:"assistant_message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.RoleAssistant, resp.AssistantMessage.Role)
	assert.Contains(t, resp.AssistantMessage.Content, "hello there")
}

func TestCreateConversationInvalidModel(t *testing.T) {
	r := newTestServer(t)
	cookies := login(t, r, database.DemoEmail, database.DemoPassword)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/chat/conversations", gin.H{
		"model_id": "no-such-model",
	}, cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, service.CodeInvalidModel, body.Code)
}

func TestHelpArticlesPublic(t *testing.T) {
	r := newTestServer(t)

	rec := doJSON(t, r, http.MethodGet, "/api/v1/help/articles", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var articles []models.HelpArticle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &articles))
	assert.NotEmpty(t, articles)

	rec = doJSON(t, r, http.MethodGet, "/api/v1/help/articles/no-such-article", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// parseSSE splits a text/event-stream body into chunk payloads and reports
// whether the done event arrived.
func parseSSE(body string) (chunks []string, done bool) {
	event := ""
	for _, line := range strings.Split(body, "\n") {
		switch {
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data := strings.TrimPrefix(line, "data:")
			if event == "chunk" {
				chunks = append(chunks, data)
			}
			if event == "done" {
				done = true
			}
		}
	}
	return chunks, done
}

func getConversationDetail(t *testing.T, r *gin.Engine, cookies []*http.Cookie, convID string) (models.Conversation, []models.Message) {
	t.Helper()
	rec := doJSON(t, r, http.MethodGet, "/api/v1/chat/conversations/"+convID, nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail struct {
		Conversation models.Conversation `json:"conversation"`
		Messages     []models.Message    `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	return detail.Conversation, detail.Messages
}

func TestStreamMessageReplay(t *testing.T) {
	r := newTestServer(t)
	cookies := login(t, r, database.DemoEmail, database.DemoPassword)

	rec := doJSON(t, r, http.MethodGet, "/api/v1/chat/conversations", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)

	_, messages := getConversationDetail(t, r, cookies, list[0].ID)
	require.Len(t, messages, 2)
	assistant := messages[1]

	rec = doJSON(t, r, http.MethodGet,
		"/api/v1/chat/conversations/"+list[0].ID+"/messages/"+assistant.ID+"/stream", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	chunks, done := parseSSE(rec.Body.String())
	assert.True(t, done)
	assert.Equal(t, assistant.Content, strings.Join(chunks, ""))
}

func TestStreamMessageCancellation(t *testing.T) {
	r := newTestServer(t)
	cookies := login(t, r, database.DemoEmail, database.DemoPassword)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/chat/conversations", gin.H{
		"model_id": "navid-pro",
	}, cookies)
	require.Equal(t, http.StatusCreated, rec.Code)
	var conv models.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conv))

	// A long reply keeps the replay busy well past the cancellation point.
	longContent := strings.TrimSpace(strings.Repeat("chunk ", 120))
	rec = doJSON(t, r, http.MethodPost, "/api/v1/chat/conversations/"+conv.ID+"/messages", gin.H{
		"content": longContent,
	}, cookies)
	require.Equal(t, http.StatusCreated, rec.Code)

	_, messages := getConversationDetail(t, r, cookies, conv.ID)
	require.Len(t, messages, 2)
	assistant := messages[1]
	totalWords := len(strings.Fields(assistant.Content))

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/chat/conversations/"+conv.ID+"/messages/"+assistant.ID+"/stream", nil)
	req = req.WithContext(ctx)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()
	streamRec := httptest.NewRecorder()
	r.ServeHTTP(streamRec, req)

	// Emission stopped partway: some chunks, no done event, nothing close
	// to the full message.
	chunks, done := parseSSE(streamRec.Body.String())
	assert.False(t, done)
	assert.NotEmpty(t, chunks)
	assert.Less(t, len(chunks), totalWords)

	// Cancellation is a presentation-layer skip: the committed message is
	// untouched.
	_, after := getConversationDetail(t, r, cookies, conv.ID)
	require.Len(t, after, 2)
	assert.Equal(t, assistant.Content, after[1].Content)
}

func TestUploadAttachmentEndpoint(t *testing.T) {
	r := newTestServer(t)
	cookies := login(t, r, database.DemoEmail, database.DemoPassword)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="notes.txt"`)
	header.Set("Content-Type", "text/plain")
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("some notes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/attachments", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var att models.Attachment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &att))
	assert.Equal(t, models.AttachmentUploaded, att.Status)
	assert.Equal(t, "notes.txt", att.Filename)
}
