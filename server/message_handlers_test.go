package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"messagebox/config"
	"messagebox/db"
	"messagebox/models"
	"messagebox/services"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()

	t.Setenv("GIN_MODE", "test")
	gin.SetMode(gin.TestMode)

	gormDB, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "messagebox.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := gormDB.AutoMigrate(&models.User{}, &models.Message{}); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	gdb := &db.GormDB{DB: gormDB}
	conf := &config.Config{MessageBodyLimit: 80}
	userRepo := db.NewUserRepo(gdb)
	messageRepo := db.NewMessageRepo(gdb)

	s := &Server{
		Config:            conf,
		UserRepository:    userRepo,
		UserService:       services.NewUserService(userRepo, conf),
		MessageRepository: messageRepo,
		MessageService:    services.NewMessageService(messageRepo, userRepo, conf),
	}
	return s.setupRouter()
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func registerTestUsers(t *testing.T, router *gin.Engine) (uint, uint) {
	t.Helper()

	var first, second struct {
		ID uint `json:"id"`
	}

	rec := doJSON(t, router, http.MethodPost, "/user", gin.H{
		"user_name":    "Sheldon Cooper",
		"phone_number": "+46123456789",
		"email":        "sheldon@cooper.org",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("register user: status %d body %s", rec.Code, rec.Body.String())
	}
	decodeBody(t, rec, &first)

	rec = doJSON(t, router, http.MethodPost, "/user", gin.H{
		"user_name":    "Leonard Hofstadter",
		"phone_number": "+46123456780",
		"email":        "leonard@hofstadter.org",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("register user: status %d body %s", rec.Code, rec.Body.String())
	}
	decodeBody(t, rec, &second)

	return first.ID, second.ID
}

func TestCreateUserEndpoint(t *testing.T) {
	router := newTestServer(t)

	aliceID, bobID := registerTestUsers(t, router)
	if aliceID == 0 || bobID == 0 || aliceID == bobID {
		t.Fatalf("expected two distinct user ids, got %d and %d", aliceID, bobID)
	}

	// Duplicate email is a conflict.
	rec := doJSON(t, router, http.MethodPost, "/user", gin.H{
		"user_name":    "Impostor",
		"phone_number": "+46000000000",
		"email":        "sheldon@cooper.org",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d body %s", rec.Code, rec.Body.String())
	}

	// Missing field is rejected before hitting the store.
	rec = doJSON(t, router, http.MethodPost, "/user", gin.H{
		"user_name": "No Contact Info",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d body %s", rec.Code, rec.Body.String())
	}
}

func TestSendAndFetchNewMessages(t *testing.T) {
	router := newTestServer(t)
	aliceID, bobID := registerTestUsers(t, router)

	rec := doJSON(t, router, http.MethodPost, "/message", gin.H{
		"body":         "Hello",
		"author_id":    aliceID,
		"recipient_id": bobID,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("send message: status %d body %s", rec.Code, rec.Body.String())
	}
	var sent struct {
		MessageID uint `json:"message_id"`
	}
	decodeBody(t, rec, &sent)
	if sent.MessageID == 0 {
		t.Fatal("expected a message id")
	}

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/new_messages?user_id=%d", bobID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("fetch new: status %d body %s", rec.Code, rec.Body.String())
	}
	var fetched []struct {
		AuthorID uint   `json:"author_id"`
		Body     string `json:"body"`
	}
	decodeBody(t, rec, &fetched)
	if len(fetched) != 1 || fetched[0].AuthorID != aliceID || fetched[0].Body != "Hello" {
		t.Fatalf("unexpected new messages %+v", fetched)
	}

	// Immediately fetching again returns an empty list.
	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/new_messages?user_id=%d", bobID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("fetch new: status %d body %s", rec.Code, rec.Body.String())
	}
	decodeBody(t, rec, &fetched)
	if len(fetched) != 0 {
		t.Fatalf("expected empty list, got %+v", fetched)
	}
}

func TestSendMessageErrors(t *testing.T) {
	router := newTestServer(t)
	aliceID, bobID := registerTestUsers(t, router)

	var errBody struct {
		Description string `json:"description"`
	}

	rec := doJSON(t, router, http.MethodPost, "/message", gin.H{
		"body":         "Hello",
		"author_id":    aliceID,
		"recipient_id": 1000,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	decodeBody(t, rec, &errBody)
	if errBody.Description != "The recipient doesn't exist" {
		t.Errorf("unexpected description %q", errBody.Description)
	}

	rec = doJSON(t, router, http.MethodPost, "/message", gin.H{
		"body":         "Bye!",
		"author_id":    1000,
		"recipient_id": bobID,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	decodeBody(t, rec, &errBody)
	if errBody.Description != "The user doesn't exist" {
		t.Errorf("unexpected description %q", errBody.Description)
	}
}

func TestFetchNewMessagesUnknownUserEndpoint(t *testing.T) {
	router := newTestServer(t)
	registerTestUsers(t, router)

	rec := doJSON(t, router, http.MethodGet, "/new_messages?user_id=1000", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	var errBody struct {
		Description string `json:"description"`
	}
	decodeBody(t, rec, &errBody)
	if errBody.Description != "The user doesn't exist" {
		t.Errorf("unexpected description %q", errBody.Description)
	}
}

func TestDeleteMessageEndpoint(t *testing.T) {
	router := newTestServer(t)
	aliceID, bobID := registerTestUsers(t, router)

	rec := doJSON(t, router, http.MethodPost, "/message", gin.H{
		"body":         "to be deleted",
		"author_id":    aliceID,
		"recipient_id": bobID,
	})
	var sent struct {
		MessageID uint `json:"message_id"`
	}
	decodeBody(t, rec, &sent)

	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/message/%d", sent.MessageID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: status %d body %s", rec.Code, rec.Body.String())
	}
	var status struct {
		Status string `json:"status"`
	}
	decodeBody(t, rec, &status)
	if status.Status != "OK" {
		t.Errorf("expected status OK, got %q", status.Status)
	}

	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/message/%d", sent.MessageID), nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 on second delete, got %d", rec.Code)
	}
	var errBody struct {
		Description string `json:"description"`
	}
	decodeBody(t, rec, &errBody)
	if errBody.Description != "The message does not exist" {
		t.Errorf("unexpected description %q", errBody.Description)
	}
}

func TestDeleteMessagesEndpoint(t *testing.T) {
	router := newTestServer(t)
	aliceID, bobID := registerTestUsers(t, router)

	var sent struct {
		MessageID uint `json:"message_id"`
	}
	rec := doJSON(t, router, http.MethodPost, "/message", gin.H{
		"body":         "bulk",
		"author_id":    aliceID,
		"recipient_id": bobID,
	})
	decodeBody(t, rec, &sent)

	rec = doJSON(t, router, http.MethodPost, "/delete_messages", gin.H{
		"message_ids": []uint{sent.MessageID, 9999},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("bulk delete: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/delete_messages", gin.H{
		"message_ids": []uint{9998, 9999},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	var errBody struct {
		Description string `json:"description"`
	}
	decodeBody(t, rec, &errBody)
	if errBody.Description != "None of the messages exist" {
		t.Errorf("unexpected description %q", errBody.Description)
	}
}

func TestSortedMessagesEndpoint(t *testing.T) {
	router := newTestServer(t)
	aliceID, bobID := registerTestUsers(t, router)

	doJSON(t, router, http.MethodPost, "/message", gin.H{
		"body":         "first",
		"author_id":    aliceID,
		"recipient_id": bobID,
	})
	time.Sleep(5 * time.Millisecond)
	doJSON(t, router, http.MethodPost, "/message", gin.H{
		"body":         "second",
		"author_id":    aliceID,
		"recipient_id": bobID,
	})

	start := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	stop := time.Now().UTC().Add(time.Hour).Format(time.RFC3339)
	rec := doJSON(t, router, http.MethodGet,
		fmt.Sprintf("/sorted_messages?user_id=%d&start_index=%s&stop_index=%s", bobID, start, stop), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("sorted: status %d body %s", rec.Code, rec.Body.String())
	}

	var messages []struct {
		AuthorID  uint      `json:"author_id"`
		Body      string    `json:"body"`
		CreatedOn time.Time `json:"created_on"`
	}
	decodeBody(t, rec, &messages)
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Body != "first" || messages[1].Body != "second" {
		t.Errorf("expected ascending order, got %q then %q", messages[0].Body, messages[1].Body)
	}

	rec = doJSON(t, router, http.MethodGet,
		fmt.Sprintf("/sorted_messages?user_id=%d&start_index=notatime&stop_index=%s", bobID, stop), nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for malformed timestamp, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	router := newTestServer(t)

	rec := doJSON(t, router, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("expected body ok, got %q", rec.Body.String())
	}
}
