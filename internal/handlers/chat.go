package handlers

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/talentlink-app/talentlink_be/internal/middleware"
	"github.com/talentlink-app/talentlink_be/internal/models"
	"github.com/talentlink-app/talentlink_be/internal/realtime"
	"github.com/talentlink-app/talentlink_be/internal/repository"
	"github.com/talentlink-app/talentlink_be/internal/services/notification"
	"github.com/talentlink-app/talentlink_be/internal/utils"
)

type ChatHandler struct {
	Chats         repository.ChatRepository
	Notifications *notification.Service
	Notifier      *realtime.Notifier
	Hub           *realtime.Hub
	JWTSecret     string
}

func NewChatHandler(chats repository.ChatRepository, notifications *notification.Service, notifier *realtime.Notifier, hub *realtime.Hub, jwtSecret string) *ChatHandler {
	return &ChatHandler{
		Chats:         chats,
		Notifications: notifications,
		Notifier:      notifier,
		Hub:           hub,
		JWTSecret:     jwtSecret,
	}
}

type CreateConversationReq struct {
	RecruiterUserID string `json:"recruiter_user_id"`
	ExpertUserID    string `json:"expert_user_id"`
	MatchID         string `json:"match_id"`
}

// CreateOrGetConversation returns the conversation between the two users,
// creating it when they have none yet. The caller names the other side; its
// own side defaults from the token.
func (h *ChatHandler) CreateOrGetConversation(c *fiber.Ctx) error {
	userID, err := getUserUUID(c)
	if err != nil {
		return err
	}

	var req CreateConversationReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	recruiterUserID := userID
	expertUserID := userID
	if strings.TrimSpace(req.RecruiterUserID) != "" {
		id, err := uuid.Parse(req.RecruiterUserID)
		if err != nil {
			return badRequest(c, "invalid recruiter_user_id")
		}
		recruiterUserID = id
	}
	if strings.TrimSpace(req.ExpertUserID) != "" {
		id, err := uuid.Parse(req.ExpertUserID)
		if err != nil {
			return badRequest(c, "invalid expert_user_id")
		}
		expertUserID = id
	}
	if recruiterUserID == expertUserID {
		return badRequest(c, "recruiter_user_id or expert_user_id required")
	}
	if userID != recruiterUserID && userID != expertUserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "You are not a participant of this conversation",
		})
	}

	var matchID *uuid.UUID
	if strings.TrimSpace(req.MatchID) != "" {
		id, err := uuid.Parse(req.MatchID)
		if err != nil {
			return badRequest(c, "invalid match_id")
		}
		matchID = &id
	}

	conv, created, err := h.Chats.GetOrCreateConversation(c.Context(), recruiterUserID, expertUserID, matchID)
	if err != nil {
		log.Println("chat: get or create conversation:", err)
		return serverError(c)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"created": created,
		"data":    conv,
	})
}

type UserMini struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type MessageOut struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Type           string    `json:"type"`
	Text           string    `json:"text"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

type ConversationOut struct {
	ID              string    `json:"id"`
	RecruiterUserID string    `json:"recruiter_user_id"`
	ExpertUserID    string    `json:"expert_user_id"`
	MatchID         *string   `json:"match_id,omitempty"`
	LastMessageAt   time.Time `json:"last_message_at"`
	UnreadCount     int64     `json:"unread_count"`

	RecruiterUser *UserMini   `json:"recruiter_user,omitempty"`
	ExpertUser    *UserMini   `json:"expert_user,omitempty"`
	LastMessage   *MessageOut `json:"last_message,omitempty"`
}

// GetConversations lists the caller's conversations, most recent first.
func (h *ChatHandler) GetConversations(c *fiber.Ctx) error {
	userID, err := getUserUUID(c)
	if err != nil {
		return err
	}

	convs, err := h.Chats.ConversationsForUser(c.Context(), userID)
	if err != nil {
		log.Println("chat: list conversations:", err)
		return serverError(c)
	}

	out := make([]ConversationOut, 0, len(convs))
	for _, conv := range convs {
		unread, err := h.Chats.UnreadCount(c.Context(), conv.ID, userID)
		if err != nil {
			log.Println("chat: unread count:", err)
		}

		var lastPtr *MessageOut
		if last, err := h.Chats.LastMessage(c.Context(), conv.ID); err == nil {
			m := toMessageOut(last)
			lastPtr = &m
		}

		item := ConversationOut{
			ID:              conv.ID.String(),
			RecruiterUserID: conv.RecruiterUserID.String(),
			ExpertUserID:    conv.ExpertUserID.String(),
			LastMessageAt:   conv.LastMessageAt,
			UnreadCount:     unread,
			RecruiterUser:   toUserMini(conv.RecruiterUser),
			ExpertUser:      toUserMini(conv.ExpertUser),
			LastMessage:     lastPtr,
		}
		if conv.MatchID != nil {
			s := conv.MatchID.String()
			item.MatchID = &s
		}
		out = append(out, item)
	}

	return c.JSON(fiber.Map{"success": true, "data": out})
}

// GetUnreadTotal counts unread messages across all the caller's conversations.
func (h *ChatHandler) GetUnreadTotal(c *fiber.Ctx) error {
	userID, err := getUserUUID(c)
	if err != nil {
		return err
	}

	count, err := h.Chats.UnreadTotal(c.Context(), userID)
	if err != nil {
		return serverError(c)
	}
	return c.JSON(fiber.Map{"success": true, "data": count})
}

// GetMessages returns one page of a conversation's messages, oldest first,
// and marks the other side's messages read.
func (h *ChatHandler) GetMessages(c *fiber.Ctx) error {
	userID, err := getUserUUID(c)
	if err != nil {
		return err
	}
	convID, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid conversation id")
	}

	conv, err := h.Chats.GetConversation(c.Context(), convID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Conversation not found",
			})
		}
		return serverError(c)
	}
	if conv.RecruiterUserID != userID && conv.ExpertUserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Access denied",
		})
	}

	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 50)
	if page < 1 || pageSize < 1 {
		return badRequest(c, "Pagination parameters must be greater than zero")
	}

	messages, total, err := h.Chats.MessagesPaged(c.Context(), convID, pageSize, (page-1)*pageSize)
	if err != nil {
		log.Println("chat: fetch messages:", err)
		return serverError(c)
	}

	if _, err := h.Chats.MarkMessagesRead(c.Context(), convID, userID); err != nil {
		// reading still succeeds; the unread counter just lags
		log.Println("chat: mark read:", err)
	}

	out := make([]MessageOut, 0, len(messages))
	for i := range messages {
		out = append(out, toMessageOut(&messages[i]))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"items":       out,
			"totalItems":  total,
			"currentPage": page,
			"pageSize":    pageSize,
		},
	})
}

// MarkAsRead marks the other side's messages in a conversation as read.
func (h *ChatHandler) MarkAsRead(c *fiber.Ctx) error {
	userID, err := getUserUUID(c)
	if err != nil {
		return err
	}
	convID, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid conversation id")
	}

	conv, err := h.Chats.GetConversation(c.Context(), convID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Conversation not found",
			})
		}
		return serverError(c)
	}
	if conv.RecruiterUserID != userID && conv.ExpertUserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Access denied",
		})
	}

	if _, err := h.Chats.MarkMessagesRead(c.Context(), convID, userID); err != nil {
		return serverError(c)
	}
	return c.JSON(fiber.Map{"success": true})
}

type SendMessageReq struct {
	Text string `json:"text"`
}

// SendMessage stores the message, bumps the conversation and pushes it to
// both participants. The recipient also gets a persisted notification.
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	userID, err := getUserUUID(c)
	if err != nil {
		return err
	}
	convID, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid conversation id")
	}

	var req SendMessageReq
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		return badRequest(c, "Text is required")
	}

	conv, err := h.Chats.GetConversation(c.Context(), convID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Conversation not found",
			})
		}
		return serverError(c)
	}
	if conv.RecruiterUserID != userID && conv.ExpertUserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Access denied",
		})
	}

	msg := models.Message{
		ID:             uuid.New(),
		ConversationID: convID,
		SenderID:       userID,
		Type:           "text",
		Text:           strings.TrimSpace(req.Text),
		CreatedAt:      time.Now(),
	}
	if err := h.Chats.CreateMessage(c.Context(), &msg); err != nil {
		log.Println("chat: create message:", err)
		return serverError(c)
	}
	if err := h.Chats.TouchLastMessage(c.Context(), convID, msg.CreatedAt); err != nil {
		log.Println("chat: touch conversation:", err)
	}

	out := toMessageOut(&msg)
	h.Notifier.NotifyPair(c.Context(), conv.RecruiterUserID, conv.ExpertUserID,
		realtime.EventNewMessage, out)

	recipientID := conv.RecruiterUserID
	if userID == conv.RecruiterUserID {
		recipientID = conv.ExpertUserID
	}
	data, _ := json.Marshal(map[string]string{
		"conversation_id": convID.String(),
		"message_id":      msg.ID.String(),
	})
	if _, err := h.Notifications.Create(c.Context(), recipientID,
		models.NotificationChatMessage, "You have a new message", data); err != nil {
		log.Println("chat: persist notification:", err)
	}

	return c.JSON(fiber.Map{"success": true, "data": out})
}

// WebSocketHandler upgrades an authenticated connection and keeps it
// registered with the hub until it drops. The token arrives as a query
// parameter because browsers cannot set headers on websocket upgrades.
func (h *ChatHandler) WebSocketHandler(c *websocket.Conn) {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		tokenStr = c.Cookies(middleware.TokenCookie)
	}
	claims, err := utils.ParseAccessToken(h.JWTSecret, tokenStr)
	if err != nil {
		log.Println("websocket: unauthorized:", err)
		c.Close()
		return
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		c.Close()
		return
	}

	client := &realtime.Client{
		ID:     uuid.New().String(),
		UserID: userID,
		Conn:   &realtime.WebSocketConn{Conn: c},
		Send:   make(chan []byte, 256),
	}

	h.Hub.RegisterClient(client)
	defer h.Hub.UnregisterClient(client)

	go func() {
		for msg := range client.Send {
			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Println("websocket: write:", err)
				return
			}
		}
	}()

	for {
		var payload map[string]interface{}
		if err := c.ReadJSON(&payload); err != nil {
			break
		}
		if msgType, ok := payload["type"].(string); ok && msgType == "pong" {
			continue
		}
	}
}

func toUserMini(u *models.User) *UserMini {
	if u == nil {
		return nil
	}
	return &UserMini{
		ID:        u.ID.String(),
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func toMessageOut(m *models.Message) MessageOut {
	return MessageOut{
		ID:             m.ID.String(),
		ConversationID: m.ConversationID.String(),
		SenderID:       m.SenderID.String(),
		Type:           m.Type,
		Text:           m.Text,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt,
	}
}
