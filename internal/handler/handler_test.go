package handler

import (
	"context"
	"os"
	"sync"
	"testing"

	"vidbot/internal/downloader"
	"vidbot/internal/locale"
	"vidbot/internal/menu"
	"vidbot/internal/service"
	"vidbot/internal/session"
	"vidbot/internal/testutil"

	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

// fakeContext implements the parts of tele.Context the handlers use.
// Calling anything else panics on the nil embedded interface.
type fakeContext struct {
	tele.Context

	sender   *tele.User
	callback *tele.Callback
	text     string
	editErr  error

	sent      []interface{}
	sentOpts  [][]interface{}
	edited    []interface{}
	responses []*tele.CallbackResponse
}

func newTextContext(userID int64, text string) *fakeContext {
	return &fakeContext{sender: &tele.User{ID: userID}, text: text}
}

func newCallbackContext(userID int64, unique string) *fakeContext {
	return &fakeContext{
		sender:   &tele.User{ID: userID},
		callback: &tele.Callback{ID: "cb", Unique: unique, Data: unique},
	}
}

func (c *fakeContext) Sender() *tele.User { return c.sender }
func (c *fakeContext) Recipient() tele.Recipient { return c.sender }
func (c *fakeContext) Callback() *tele.Callback { return c.callback }
func (c *fakeContext) Text() string { return c.text }

func (c *fakeContext) Send(what interface{}, opts ...interface{}) error {
	c.sent = append(c.sent, what)
	c.sentOpts = append(c.sentOpts, opts)
	return nil
}

func (c *fakeContext) Edit(what interface{}, opts ...interface{}) error {
	if c.editErr != nil {
		return c.editErr
	}
	c.edited = append(c.edited, what)
	return nil
}

func (c *fakeContext) Respond(resp ...*tele.CallbackResponse) error {
	if len(resp) > 0 {
		c.responses = append(c.responses, resp[0])
	} else {
		c.responses = append(c.responses, nil)
	}
	return nil
}

// lastText returns the text of the last edited or sent screen
func (c *fakeContext) lastText() string {
	if len(c.edited) > 0 {
		if s, ok := c.edited[len(c.edited)-1].(string); ok {
			return s
		}
	}
	if len(c.sent) > 0 {
		if s, ok := c.sent[len(c.sent)-1].(string); ok {
			return s
		}
	}
	return ""
}

// fakeMessenger records out-of-band messages
type fakeMessenger struct {
	mu      sync.Mutex
	nextID  int
	sent    []interface{}
	edits   []interface{}
	deleted []int
	editErr error
	onSend  func(what interface{})
}

func (m *fakeMessenger) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.onSend != nil {
		m.onSend(what)
	}
	m.nextID++
	m.sent = append(m.sent, what)
	return &tele.Message{ID: m.nextID, Chat: &tele.Chat{ID: 1}}, nil
}

func (m *fakeMessenger) Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.editErr != nil {
		return nil, m.editErr
	}
	m.edits = append(m.edits, what)
	return msg.(*tele.Message), nil
}

func (m *fakeMessenger) Delete(msg tele.Editable) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, msg.(*tele.Message).ID)
	return nil
}

type handlerFixture struct {
	users     *testutil.MockUserRepository
	history   *testutil.MockHistoryRepository
	executor  *testutil.MockExecutor
	workspace *downloader.Workspace
	sessions  *session.Store
	messenger *fakeMessenger
	catalog   *locale.Catalog
	handler   *Handler
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	catalog, err := locale.Load()
	require.NoError(t, err)
	ws, err := downloader.NewWorkspace(t.TempDir())
	require.NoError(t, err)

	f := &handlerFixture{
		users:     new(testutil.MockUserRepository),
		history:   new(testutil.MockHistoryRepository),
		executor:  new(testutil.MockExecutor),
		workspace: ws,
		sessions:  session.NewStore(0),
		messenger: &fakeMessenger{},
		catalog:   catalog,
	}

	logger := testutil.NewTestLogger()
	services := Services{
		Users:   service.NewUserService(f.users),
		History: service.NewHistoryService(f.history),
		Downloads: service.NewDownloadService(
			f.users, f.history, ws, f.executor, service.DefaultLimits, 2, logger,
		),
	}
	f.handler = newHandler(context.Background(), f.messenger, services, menu.NewRenderer(catalog), f.sessions, logger)
	return f
}

// jobDirs lists job directories still present in the workspace
func (f *handlerFixture) jobDirs(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(f.workspace.BaseDir())
	require.NoError(t, err)
	var dirs []string
	for _, e := range entries {
		dirs = append(dirs, e.Name())
	}
	return dirs
}
