package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/benbjohnson/clock"

	"chat-sim/contract"
	"chat-sim/domain"
	"chat-sim/domain/event"
	"chat-sim/errors"
	"chat-sim/moderation"
	"chat-sim/render"
	"chat-sim/repositories"
	"chat-sim/runtime"
	"chat-sim/search"
	"chat-sim/validation"
)

const (
	typingThreshold = 0.7
	typingDelay     = 500 * time.Millisecond
	typingDuration  = 3 * time.Second

	botReplyThreshold = 0.7
	botReplyBaseDelay = 1 * time.Second
	botReplySpread    = 3 * time.Second
)

// BotResponses is the fixed pool of automated replies.
var BotResponses = []string{
	"That's interesting!",
	"I agree with that.",
	"Thanks for sharing!",
	"Good point!",
	"Absolutely!",
	"I see what you mean.",
	"That makes sense.",
}

// BotPool is the fixed pool of bot identities answering user messages.
var BotPool = []string{"Karan", "Max", "Smith", "TechGuru", "CodeMaster"}

// Session carries the per-participant state: identity, active room and the
// formatting toggles scoped to the next outgoing message.
type Session struct {
	User string

	mu         sync.Mutex
	activeRoom string
	formatting domain.Formatting
}

// ActiveRoom returns the room the session currently participates in,
// empty when none.
func (s *Session) ActiveRoom() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeRoom
}

func (s *Session) setActiveRoom(room string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeRoom = room
}

// Formatting returns the toggles applying to the next outgoing message.
func (s *Session) Formatting() domain.Formatting {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.formatting
}

// takeFormatting reads and resets the toggles. Formatting scopes to one
// message only.
func (s *Session) takeFormatting() domain.Formatting {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.formatting
	s.formatting = domain.Formatting{}
	return f
}

// IChatService is the contract consumed by display layers.
type IChatService interface {
	Login(username string) (*Session, error)
	Logout(session *Session)
	CreateRoom(name string) error
	JoinRoom(session *Session, room string, sink contract.EventSink) error
	LeaveRoom(session *Session) error
	SetFormatting(session *Session, formatting domain.Formatting)
	SendMessage(session *Session, raw string) (domain.Message, error)
	Search(session *Session, query string) ([]domain.Message, error)
	History(room string, cursor *string) ([]repositories.HistoryMessage, *string, error)
	QueryArchive(ctx context.Context, terms string, limit int) ([]search.Hit, error)
	ExportHistory(session *Session) (HistoryExport, error)
	ListRooms() []runtime.RoomInfo
}

// ChatService composes validation, rendering, moderation and the engine into
// the public chat operations. The send pipeline order is fixed: validate,
// sanitize, censor, format, append, events, then the probabilistic typing
// indicator and bot reply scheduling.
type ChatService struct {
	log       *slog.Logger
	engine    *runtime.Engine
	registry  contract.IRegistry
	moderator *moderation.Moderator
	history   repositories.IHistoryRepository
	archive   *search.Archive
	clock     clock.Clock
	rand      contract.Rand

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewChatService(log *slog.Logger,
	engine *runtime.Engine,
	registry contract.IRegistry,
	moderator *moderation.Moderator,
	history repositories.IHistoryRepository,
	archive *search.Archive,
	clk clock.Clock,
	rand contract.Rand) *ChatService {
	return &ChatService{
		log:       log,
		engine:    engine,
		registry:  registry,
		moderator: moderator,
		history:   history,
		archive:   archive,
		clock:     clk,
		rand:      rand,
		sessions:  make(map[string]*Session),
	}
}

// Login validates the username and claims it. The name stays taken until
// Logout.
func (s *ChatService) Login(username string) (*Session, error) {
	if err := validation.Username(username); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[username]; ok {
		return nil, errors.ErrUsernameTaken
	}
	session := &Session{User: username}
	s.sessions[username] = session

	s.log.Info("User logged in", "user", username)
	return session, nil
}

// Logout leaves the active room and releases the username.
func (s *ChatService) Logout(session *Session) {
	if session == nil {
		return
	}
	if err := s.LeaveRoom(session); err != nil && err != errors.ErrNotInRoom {
		s.log.Warn("Leaving room on logout failed", "user", session.User, "error", err)
	}

	s.mu.Lock()
	delete(s.sessions, session.User)
	s.mu.Unlock()

	s.log.Info("User logged out", "user", session.User)
}

func (s *ChatService) CreateRoom(name string) error {
	if err := validation.RoomName(name); err != nil {
		return err
	}
	_, err := s.engine.CreateRoom(name)
	return err
}

// JoinRoom moves the session into a room, leaving the previous one first.
// The sink starts receiving the room's events once the join notice is posted.
func (s *ChatService) JoinRoom(session *Session, room string, sink contract.EventSink) error {
	if session == nil {
		return errors.ErrNotLoggedIn
	}
	if _, ok := s.engine.Room(room); !ok {
		return errors.ErrRoomNotFound
	}
	if session.ActiveRoom() == room {
		return nil
	}

	if session.ActiveRoom() != "" {
		if err := s.LeaveRoom(session); err != nil {
			return err
		}
	}

	err := s.engine.Dispatch(room, func(r *domain.Room) {
		r.AddUser(session.User)
		r.PostSystem(fmt.Sprintf("%s joined the room", session.User))
	})
	if err != nil {
		return err
	}

	if sink != nil {
		s.registry.Subscribe(session.User, room, sink)
	}
	session.setActiveRoom(room)
	return nil
}

// LeaveRoom removes the session from its active room.
func (s *ChatService) LeaveRoom(session *Session) error {
	if session == nil {
		return errors.ErrNotLoggedIn
	}
	room := session.ActiveRoom()
	if room == "" {
		return errors.ErrNotInRoom
	}

	err := s.engine.Dispatch(room, func(r *domain.Room) {
		r.RemoveUser(session.User)
		r.PostSystem(fmt.Sprintf("%s left the room", session.User))
	})
	if err != nil {
		return err
	}

	s.registry.Unsubscribe(session.User, room)
	session.setActiveRoom("")
	return nil
}

// SetFormatting replaces the toggles applying to the next outgoing message.
func (s *ChatService) SetFormatting(session *Session, formatting domain.Formatting) {
	if session == nil {
		return
	}
	session.mu.Lock()
	session.formatting = formatting
	session.mu.Unlock()
}

// SendMessage runs the fixed pipeline and appends the rendered message to the
// session's active room. On success the formatting toggles are reset and the
// typing indicator plus a bot reply may be scheduled. A failing step leaves
// all state untouched.
func (s *ChatService) SendMessage(session *Session, raw string) (domain.Message, error) {
	if session == nil {
		return domain.Message{}, errors.ErrNotLoggedIn
	}
	room := session.ActiveRoom()
	if room == "" {
		return domain.Message{}, errors.ErrNotInRoom
	}
	raw = strings.TrimSpace(raw)
	if err := validation.Message(raw); err != nil {
		return domain.Message{}, err
	}

	content := render.Sanitize(raw)
	content, foundWords := s.moderator.Censor(content)
	info := whatlanggo.Detect(raw)

	rendered := render.Format(content, session.takeFormatting())

	var message domain.Message
	err := s.engine.Dispatch(room, func(r *domain.Room) {
		message = r.PostMessage(domain.Message{
			Author:  session.User,
			Raw:     raw,
			Content: rendered,
			Lang:    info.Lang.Iso6391(),
		})
	})
	if err != nil {
		return domain.Message{}, err
	}

	if len(foundWords) > 0 {
		s.log.Warn("Censored words in message", "user", session.User, "count", len(foundWords))
	}
	s.log.Debug("Message sent", "user", session.User, "room", room, "lang", info.Lang.Iso6391())

	s.scheduleTypingIndicator(session, room)
	s.scheduleBotReply(session, room)
	return message, nil
}

// scheduleTypingIndicator may announce that "someone is typing" shortly after
// a send, clearing the hint after the indicator window.
func (s *ChatService) scheduleTypingIndicator(session *Session, room string) {
	if s.rand.Float64() <= typingThreshold {
		return
	}
	s.clock.AfterFunc(typingDelay, func() {
		if session.ActiveRoom() != room {
			return
		}
		s.engine.Emit(event.TypingStarted{Room: room})
		s.clock.AfterFunc(typingDuration, func() {
			s.engine.Emit(event.TypingStopped{Room: room})
		})
	})
}

// scheduleBotReply arms the delayed automated response. The room check runs
// at delivery time, not schedule time: a session that switched rooms in the
// meantime turns the callback into a no-op.
func (s *ChatService) scheduleBotReply(session *Session, room string) {
	delay := botReplyBaseDelay + time.Duration(s.rand.Float64()*float64(botReplySpread))
	s.clock.AfterFunc(delay, func() {
		if session.ActiveRoom() != room {
			return
		}

		bot := BotPool[s.rand.IntN(len(BotPool))]
		response := BotResponses[s.rand.IntN(len(BotResponses))]
		if s.rand.Float64() <= botReplyThreshold {
			return
		}

		err := s.engine.Dispatch(room, func(r *domain.Room) {
			r.PostMessage(domain.Message{
				Author:  bot,
				Raw:     response,
				Content: response,
			})
		})
		if err != nil {
			s.log.Debug("Bot reply dropped", "room", room, "error", err)
		}
	})
}

// Search scans the active room's log, matching the query case-insensitively
// against rendered content or author. Blank queries yield nothing; the
// caller falls back to full history.
func (s *ChatService) Search(session *Session, query string) ([]domain.Message, error) {
	if session == nil {
		return nil, errors.ErrNotLoggedIn
	}
	room := session.ActiveRoom()
	if room == "" {
		return nil, errors.ErrNotInRoom
	}
	r, ok := s.engine.Room(room)
	if !ok {
		return nil, errors.ErrRoomNotFound
	}
	return search.Scan(r.Messages(), query), nil
}

// History pages through the stored room history, newest first.
func (s *ChatService) History(room string, cursor *string) ([]repositories.HistoryMessage, *string, error) {
	if _, ok := s.engine.Room(room); !ok {
		return nil, nil, errors.ErrRoomNotFound
	}
	return s.history.GetMessages(room, cursor)
}

// QueryArchive runs a full-text query across all rooms.
func (s *ChatService) QueryArchive(ctx context.Context, terms string, limit int) ([]search.Hit, error) {
	return s.archive.Query(ctx, terms, limit)
}

// ExportHistory builds the export document for the active room: full history
// in append order, author/content/timestamp only.
func (s *ChatService) ExportHistory(session *Session) (HistoryExport, error) {
	if session == nil {
		return HistoryExport{}, errors.ErrNotLoggedIn
	}
	room := session.ActiveRoom()
	if room == "" {
		return HistoryExport{}, errors.ErrNotInRoom
	}

	messages, err := s.history.ExportMessages(room)
	if err != nil {
		return HistoryExport{}, err
	}

	export := HistoryExport{
		Room:       room,
		ExportDate: s.clock.Now().UTC(),
		Messages:   make([]ExportedMessage, 0, len(messages)),
	}
	for _, m := range messages {
		export.Messages = append(export.Messages, ExportedMessage{
			Author:    m.Author,
			Content:   m.Content,
			Timestamp: m.At,
		})
	}
	return export, nil
}

// ListRooms returns the room directory for display.
func (s *ChatService) ListRooms() []runtime.RoomInfo {
	return s.engine.ListRooms()
}
