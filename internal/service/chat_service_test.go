package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"app/internal/model"

	"github.com/rs/zerolog"
)

type fakePrefRepo struct {
	prefs *model.Preferences
	err   error
	calls int
}

func (f *fakePrefRepo) GetPreferences(ctx context.Context, userID string) (*model.Preferences, error) {
	f.calls++
	return f.prefs, f.err
}

func (f *fakePrefRepo) UpsertPreferences(ctx context.Context, prefs *model.Preferences) (*model.Preferences, error) {
	f.prefs = prefs
	return prefs, nil
}

func (f *fakePrefRepo) DeletePreferences(ctx context.Context, userID string) error {
	f.prefs = nil
	return nil
}

type fakeTutorialRepo struct {
	tutorials     []model.Tutorial
	err           error
	gotCategories []string
}

func (f *fakeTutorialRepo) ListByCategories(ctx context.Context, categories []string) ([]model.Tutorial, error) {
	f.gotCategories = categories
	return f.tutorials, f.err
}

func (f *fakeTutorialRepo) ListAll(ctx context.Context) ([]model.Tutorial, error) {
	return f.tutorials, f.err
}

// fakeChatRepo is an in-memory conversation store. Setting failRole makes
// inserts of that role fail, which simulates a crash between the two
// persistence writes.
type fakeChatRepo struct {
	messages []model.ChatMessage
	failRole string
}

func (f *fakeChatRepo) CreateMessage(ctx context.Context, userID, role, content string) (*model.ChatMessage, error) {
	if role == f.failRole {
		return nil, errors.New("store unavailable")
	}
	m := model.ChatMessage{
		ID:        fmt.Sprintf("m%d", len(f.messages)+1),
		UserID:    userID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
	f.messages = append(f.messages, m)
	return &m, nil
}

func (f *fakeChatRepo) ListMessages(ctx context.Context, userID string, limit int) ([]model.ChatMessage, error) {
	var out []model.ChatMessage
	for _, m := range f.messages {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (f *fakeChatRepo) DeleteMessages(ctx context.Context, userID string) error {
	var kept []model.ChatMessage
	for _, m := range f.messages {
		if m.UserID != userID {
			kept = append(kept, m)
		}
	}
	f.messages = kept
	return nil
}

type fakeGateway struct {
	reply           string
	err             error
	calls           int
	gotSystemPrompt string
	gotMessages     []model.ChatMessage
}

func (f *fakeGateway) Complete(ctx context.Context, systemPrompt string, messages []model.ChatMessage) (string, error) {
	f.calls++
	f.gotSystemPrompt = systemPrompt
	f.gotMessages = messages
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestChatService(prefs *fakePrefRepo, tuts *fakeTutorialRepo, chats *fakeChatRepo, gw *fakeGateway) ChatService {
	return NewChatService(prefs, tuts, chats, gw, 10, zerolog.Nop())
}

func userTurn(content string) model.ChatMessage {
	return model.ChatMessage{Role: model.RoleUser, Content: content}
}

func TestChatTruncatesHistory(t *testing.T) {
	gw := &fakeGateway{reply: "do it now"}
	svc := newTestChatService(&fakePrefRepo{}, &fakeTutorialRepo{}, &fakeChatRepo{}, gw)

	var history []model.ChatMessage
	for i := 0; i < 14; i++ {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		history = append(history, model.ChatMessage{Role: role, Content: fmt.Sprintf("turn %d", i)})
	}
	history = append(history, userTurn("latest question"))

	if _, err := svc.Chat(context.Background(), "u1", history); err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if len(gw.gotMessages) != 10 {
		t.Fatalf("expected 10 messages forwarded to gateway, got %d", len(gw.gotMessages))
	}
	if gw.gotMessages[9].Content != "latest question" {
		t.Errorf("expected the newest message last, got %q", gw.gotMessages[9].Content)
	}
	if gw.gotMessages[0].Content != "turn 5" {
		t.Errorf("expected truncation to keep the most recent window, got %q first", gw.gotMessages[0].Content)
	}
}

func TestChatPersistsUserThenAssistant(t *testing.T) {
	chats := &fakeChatRepo{}
	gw := &fakeGateway{reply: "start with a niche"}
	svc := newTestChatService(&fakePrefRepo{}, &fakeTutorialRepo{}, chats, gw)

	reply, err := svc.Chat(context.Background(), "u1", []model.ChatMessage{userTurn("how do I start?")})
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if reply != "start with a niche" {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if len(chats.messages) != 2 {
		t.Fatalf("expected 2 persisted messages, got %d", len(chats.messages))
	}
	if chats.messages[0].Role != model.RoleUser || chats.messages[0].Content != "how do I start?" {
		t.Errorf("first persisted message should be the user turn, got %+v", chats.messages[0])
	}
	if chats.messages[1].Role != model.RoleAssistant || chats.messages[1].Content != reply {
		t.Errorf("second persisted message should be the assistant reply, got %+v", chats.messages[1])
	}
}

func TestChatAssistantSaveFailureLeavesNoOrphan(t *testing.T) {
	chats := &fakeChatRepo{failRole: model.RoleAssistant}
	gw := &fakeGateway{reply: "reply"}
	svc := newTestChatService(&fakePrefRepo{}, &fakeTutorialRepo{}, chats, gw)

	reply, err := svc.Chat(context.Background(), "u1", []model.ChatMessage{userTurn("hi")})
	if err != nil {
		t.Fatalf("persistence failure must not block the reply: %v", err)
	}
	if reply != "reply" {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if len(chats.messages) != 1 || chats.messages[0].Role != model.RoleUser {
		t.Fatalf("expected only the user message persisted, got %+v", chats.messages)
	}
}

func TestChatUserSaveFailureSkipsAssistant(t *testing.T) {
	chats := &fakeChatRepo{failRole: model.RoleUser}
	gw := &fakeGateway{reply: "reply"}
	svc := newTestChatService(&fakePrefRepo{}, &fakeTutorialRepo{}, chats, gw)

	if _, err := svc.Chat(context.Background(), "u1", []model.ChatMessage{userTurn("hi")}); err != nil {
		t.Fatalf("persistence failure must not block the reply: %v", err)
	}
	// The assistant reply must never be stored without its prompting user turn.
	if len(chats.messages) != 0 {
		t.Fatalf("expected no persisted messages, got %+v", chats.messages)
	}
}

func TestChatGatewayFailureSurfacesGenericError(t *testing.T) {
	chats := &fakeChatRepo{}
	gw := &fakeGateway{err: &UpstreamError{StatusCode: 500, Message: "model overloaded"}}
	svc := newTestChatService(&fakePrefRepo{}, &fakeTutorialRepo{}, chats, gw)

	_, err := svc.Chat(context.Background(), "u1", []model.ChatMessage{userTurn("hi")})
	if !errors.Is(err, ErrCoachUnavailable) {
		t.Fatalf("expected ErrCoachUnavailable, got %v", err)
	}
	if strings.Contains(err.Error(), "model overloaded") {
		t.Error("raw provider error must not leak to the caller")
	}
	if len(chats.messages) != 0 {
		t.Fatalf("expected no persisted messages after gateway failure, got %+v", chats.messages)
	}
}

func TestChatStatelessMode(t *testing.T) {
	prefs := &fakePrefRepo{prefs: &model.Preferences{UserID: "someone", Goals: []string{"dropshipping"}}}
	chats := &fakeChatRepo{}
	gw := &fakeGateway{reply: "generic hustle advice"}
	svc := newTestChatService(prefs, &fakeTutorialRepo{}, chats, gw)

	reply, err := svc.Chat(context.Background(), "", []model.ChatMessage{userTurn("hi")})
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if reply == "" {
		t.Fatal("expected a reply in stateless mode")
	}
	if prefs.calls != 0 {
		t.Error("stateless mode must not hit the preference store")
	}
	if len(chats.messages) != 0 {
		t.Error("stateless mode must not persist anything")
	}
	if !strings.Contains(gw.gotSystemPrompt, model.DefaultGoal) {
		t.Errorf("stateless prompt should use the default goal, got %q", gw.gotSystemPrompt)
	}
}

func TestChatPreferenceReadFailureDegrades(t *testing.T) {
	prefs := &fakePrefRepo{err: errors.New("store unavailable")}
	gw := &fakeGateway{reply: "reply"}
	svc := newTestChatService(prefs, &fakeTutorialRepo{}, &fakeChatRepo{}, gw)

	if _, err := svc.Chat(context.Background(), "u1", []model.ChatMessage{userTurn("hi")}); err != nil {
		t.Fatalf("preference read failure must degrade, not fail: %v", err)
	}
	if !strings.Contains(gw.gotSystemPrompt, model.DefaultGoal) {
		t.Errorf("expected default goal after preference read failure, got %q", gw.gotSystemPrompt)
	}
}

func TestChatEndToEndDropshipping(t *testing.T) {
	prefs := &fakePrefRepo{prefs: &model.Preferences{
		UserID:     "u1",
		SkillLevel: model.SkillBeginner,
		Goals:      []string{"dropshipping"},
	}}
	tuts := &fakeTutorialRepo{tutorials: []model.Tutorial{
		{Title: "Dropshipping Basics", Category: "dropshipping", Level: model.SkillBeginner, KeyPoints: []string{"pick a product"}},
		{Title: "Advanced Dropshipping", Category: "dropshipping", Level: model.SkillAdvanced, KeyPoints: []string{"scale ads"}},
	}}
	chats := &fakeChatRepo{}
	gw := &fakeGateway{reply: "Start with **Dropshipping Basics**."}
	svc := newTestChatService(prefs, tuts, chats, gw)

	reply, err := svc.Chat(context.Background(), "u1", []model.ChatMessage{userTurn("how do I start?")})
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}

	if len(tuts.gotCategories) != 1 || tuts.gotCategories[0] != "dropshipping" {
		t.Errorf("expected tutorial lookup by the user's goal tags, got %v", tuts.gotCategories)
	}
	basics := strings.Index(gw.gotSystemPrompt, "Dropshipping Basics")
	advanced := strings.Index(gw.gotSystemPrompt, "Advanced Dropshipping")
	if basics == -1 || advanced == -1 || basics > advanced {
		t.Errorf("expected both tutorials in the prompt, beginner first: %q", gw.gotSystemPrompt)
	}

	if len(chats.messages) != 2 ||
		chats.messages[0].Role != model.RoleUser || chats.messages[0].Content != "how do I start?" ||
		chats.messages[1].Role != model.RoleAssistant || chats.messages[1].Content != reply {
		t.Errorf("unexpected persisted sequence: %+v", chats.messages)
	}
}

func TestResetEmptiesHistory(t *testing.T) {
	chats := &fakeChatRepo{messages: []model.ChatMessage{
		{ID: "m1", UserID: "u1", Role: model.RoleUser, Content: "hi"},
		{ID: "m2", UserID: "u1", Role: model.RoleAssistant, Content: "hello"},
		{ID: "m3", UserID: "u2", Role: model.RoleUser, Content: "other user"},
	}}
	svc := newTestChatService(&fakePrefRepo{}, &fakeTutorialRepo{}, chats, &fakeGateway{})

	if err := svc.Reset(context.Background(), "u1"); err != nil {
		t.Fatalf("Reset returned error: %v", err)
	}
	history, err := svc.History(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history after reset, got %+v", history)
	}
	other, _ := svc.History(context.Background(), "u2", 0)
	if len(other) != 1 {
		t.Fatalf("reset must only affect the requesting user, got %+v", other)
	}
}
