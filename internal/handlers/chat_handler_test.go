package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MeldryckSAID/NovaHelpBack/internal/models"
	"github.com/MeldryckSAID/NovaHelpBack/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type stubChatService struct {
	conversations     []models.ConversationSummary
	conversationsErr  error
	createResult      *models.Conversation
	createErr         error
	messages          []models.ChatMessage
	messagesTotal     int
	messagesErr       error
	sendResult        *services.ChatDelivery
	sendErr           error
	lastActorID       int64
	lastRole          string
	lastHelperID      int64
	lastConversation  int64
	lastPage          int
	lastLimit         int
	lastSentContent   string
	lastSentConversID int64
}

func (s *stubChatService) ListConversations(_ context.Context, actorID int64, role string) ([]models.ConversationSummary, error) {
	s.lastActorID = actorID
	s.lastRole = role
	return s.conversations, s.conversationsErr
}

func (s *stubChatService) CreateConversation(_ context.Context, actorID int64, role string, helperID int64) (*models.Conversation, error) {
	s.lastActorID = actorID
	s.lastRole = role
	s.lastHelperID = helperID
	return s.createResult, s.createErr
}

func (s *stubChatService) ListMessages(_ context.Context, actorID int64, role string, conversationID int64, page int, limit int) ([]models.ChatMessage, int, error) {
	s.lastActorID = actorID
	s.lastRole = role
	s.lastConversation = conversationID
	s.lastPage = page
	s.lastLimit = limit
	return s.messages, s.messagesTotal, s.messagesErr
}

func (s *stubChatService) SendMessage(_ context.Context, actorID int64, role string, conversationID int64, content string) (*services.ChatDelivery, error) {
	s.lastActorID = actorID
	s.lastRole = role
	s.lastSentConversID = conversationID
	s.lastSentContent = content
	return s.sendResult, s.sendErr
}

func newChatTestApp(service *stubChatService, role, userID string) *fiber.App {
	handler := &ChatHandler{service: service}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("role", role)
		c.Locals("user_id", userID)
		return c.Next()
	})
	app.Get("/api/v1/conversations", handler.ListConversations)
	app.Post("/api/v1/conversations", handler.CreateConversation)
	app.Get("/api/v1/conversations/:id/messages", handler.GetMessages)
	return app
}

func TestListConversationsReturnsSummaries(t *testing.T) {
	service := &stubChatService{
		conversations: []models.ConversationSummary{
			{
				Conversation: models.Conversation{ID: 3, StudentID: 42, HelperID: 7},
				LastMessage:  &models.ChatMessage{ID: 99, ConversationID: 3, SenderID: 7, Content: "see you tuesday"},
				UnreadCount:  2,
			},
		},
	}
	app := newChatTestApp(service, "student", "42")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/conversations", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastActorID != 42 || service.lastRole != "student" {
		t.Fatalf("unexpected actor: id %d role %q", service.lastActorID, service.lastRole)
	}

	var body struct {
		Conversations []models.ConversationSummary `json:"conversations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Conversations) != 1 || body.Conversations[0].UnreadCount != 2 {
		t.Fatalf("unexpected conversations: %+v", body.Conversations)
	}
}

func TestCreateConversationStudentOnly(t *testing.T) {
	service := &stubChatService{
		createResult: &models.Conversation{ID: 3, StudentID: 42, HelperID: 7},
	}
	app := newChatTestApp(service, "student", "42")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations", strings.NewReader(`{"helper_id":7}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastHelperID != 7 {
		t.Fatalf("expected helper id 7, got %d", service.lastHelperID)
	}

	helperApp := newChatTestApp(&stubChatService{}, "helper", "7")
	req = httptest.NewRequest(http.MethodPost, "/api/v1/conversations", strings.NewReader(`{"helper_id":7}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err = helperApp.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("helpers must not open conversations, got %d", resp.StatusCode)
	}
}

func TestCreateConversationUnknownHelperReturnsNotFound(t *testing.T) {
	service := &stubChatService{createErr: services.ErrHelperNotFound}
	app := newChatTestApp(service, "student", "42")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations", strings.NewReader(`{"helper_id":999}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetMessagesForwardsPagination(t *testing.T) {
	service := &stubChatService{
		messages: []models.ChatMessage{
			{ID: 98, ConversationID: 3, SenderID: 42, Content: "hello"},
			{ID: 99, ConversationID: 3, SenderID: 7, Content: "see you tuesday"},
		},
		messagesTotal: 12,
	}
	app := newChatTestApp(service, "helper", "7")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/conversations/3/messages?page=2&limit=5", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastConversation != 3 || service.lastPage != 2 || service.lastLimit != 5 {
		t.Fatalf("unexpected forwarded values: conversation %d page %d limit %d",
			service.lastConversation, service.lastPage, service.lastLimit)
	}

	var body struct {
		Messages   []models.ChatMessage  `json:"messages"`
		Pagination models.PaginationMeta `json:"pagination"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Messages) != 2 || body.Pagination.Total != 12 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestGetMessagesDeniedForOutsiders(t *testing.T) {
	service := &stubChatService{messagesErr: services.ErrForbidden}
	app := newChatTestApp(service, "student", "99")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/conversations/3/messages", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestGetMessagesUnknownConversationReturnsNotFound(t *testing.T) {
	service := &stubChatService{messagesErr: pgx.ErrNoRows}
	app := newChatTestApp(service, "student", "42")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/conversations/999/messages", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
