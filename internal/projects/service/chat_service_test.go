package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avan-studio/avan-backend/internal/generation"
	"github.com/avan-studio/avan-backend/internal/projects/domain"
	"github.com/avan-studio/avan-backend/internal/projects/repository"
	"github.com/avan-studio/avan-backend/internal/storage/kv"
)

type call struct {
	prompt      string
	history     []string
	currentCode string
	lang        string
}

type fakeGenerator struct {
	mu      sync.Mutex
	replies []string
	calls   []call
	entered chan struct{}
	block   chan struct{}
}

func (f *fakeGenerator) GenerateCode(_ context.Context, prompt string, history []string, currentCode, lang string) string {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{prompt, history, currentCode, lang})
	if len(f.replies) == 0 {
		return generation.FailureMessage
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r
}

func setupService(t *testing.T, replies ...string) (*ChatService, *fakeGenerator, kv.Backend) {
	t.Helper()
	backend := kv.NewMemoryBackend()
	gen := &fakeGenerator{replies: replies}
	svc := NewChatService(backend, gen, NewMemoryGuard())

	clock := time.UnixMilli(1700000000000)
	svc.now = func() time.Time {
		clock = clock.Add(time.Millisecond)
		return clock
	}
	return svc, gen, backend
}

func TestCreateProject(t *testing.T) {
	svc, gen, _ := setupService(t)
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, "u1", "A landing page for my bakery downtown")
	require.NoError(t, err)

	assert.Equal(t, "1700000000001", p.ID)
	assert.Equal(t, "A landing page for m...", p.Name)
	require.Len(t, p.Messages, 1)
	assert.Equal(t, domain.InitialMessageID, p.Messages[0].ID)
	assert.Equal(t, domain.RoleUser, p.Messages[0].Role)
	assert.Empty(t, p.CurrentCode)
	assert.Empty(t, gen.calls)

	got, err := svc.Get(ctx, "u1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Messages, got.Messages)
}

func TestCreateProject_RejectsBlank(t *testing.T) {
	svc, _, _ := setupService(t)

	_, err := svc.CreateProject(context.Background(), "u1", "  \n ")
	assert.ErrorIs(t, err, domain.ErrEmptyMessage)
}

func TestCreateProject_BumpsCollidingID(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()
	fixed := time.UnixMilli(1700000000000)
	svc.now = func() time.Time { return fixed }

	a, err := svc.CreateProject(ctx, "u1", "first")
	require.NoError(t, err)
	b, err := svc.CreateProject(ctx, "u1", "second")
	require.NoError(t, err)

	assert.Equal(t, "1700000000000", a.ID)
	assert.Equal(t, "1700000000001", b.ID)
}

func TestStart_GeneratesOnce(t *testing.T) {
	svc, gen, _ := setupService(t, "Here it is\n```html\n<h1>Bakery</h1>\n```")
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, "u1", "bakery site")
	require.NoError(t, err)

	res, err := svc.Start(ctx, "u1", p.ID, "en")
	require.NoError(t, err)
	require.NotNil(t, res.Reply)
	assert.True(t, res.CodeUpdated)
	assert.Equal(t, "Here it is", res.Reply.Text)
	assert.Equal(t, domain.RoleModel, res.Reply.Role)
	assert.Equal(t, "<h1>Bakery</h1>", res.Project.CurrentCode)

	require.Len(t, gen.calls, 1)
	assert.Equal(t, "bakery site", gen.calls[0].prompt)
	assert.Empty(t, gen.calls[0].history)
	assert.Empty(t, gen.calls[0].currentCode)

	again, err := svc.Start(ctx, "u1", p.ID, "en")
	require.NoError(t, err)
	assert.Nil(t, again.Reply)
	assert.Len(t, gen.calls, 1)
	assert.Len(t, again.Project.Messages, 2)
}

func TestSubmit_ModifiesExistingCode(t *testing.T) {
	code := "<html><body><h1>A long enough page body for modification</h1></body></html>"
	svc, gen, _ := setupService(t,
		"```html\n"+code+"\n```",
		"Updated.\n```html\n<html>v2</html>\n```",
	)
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, "u1", "make a page")
	require.NoError(t, err)
	_, err = svc.Start(ctx, "u1", p.ID, "he")
	require.NoError(t, err)

	res, err := svc.Submit(ctx, "u1", p.ID, "make it blue", "he")
	require.NoError(t, err)

	require.Len(t, gen.calls, 2)
	assert.Equal(t, "make it blue", gen.calls[1].prompt)
	assert.Equal(t, code, gen.calls[1].currentCode)
	assert.Equal(t, "he", gen.calls[1].lang)
	// prior texts only; the new message is the prompt
	assert.Equal(t, []string{"make a page", "האתר שלך מוכן!"}, gen.calls[1].history)

	assert.Equal(t, "Updated.", res.Reply.Text)
	assert.Equal(t, "<html>v2</html>", res.Project.CurrentCode)
	require.NotNil(t, res.UserMessage)
	assert.Equal(t, "make it blue", res.UserMessage.Text)
	assert.Len(t, res.Project.Messages, 4)
}

func TestSubmit_NoCodeKeepsCurrent(t *testing.T) {
	svc, _, backend := setupService(t,
		"```html\n<p>v1</p>\n```",
		"Sorry, can you clarify?",
	)
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, "u1", "page")
	require.NoError(t, err)
	_, err = svc.Start(ctx, "u1", p.ID, "en")
	require.NoError(t, err)

	res, err := svc.Submit(ctx, "u1", p.ID, "hmm", "en")
	require.NoError(t, err)
	assert.False(t, res.CodeUpdated)
	assert.Equal(t, "Sorry, can you clarify?", res.Reply.Text)
	assert.Equal(t, "<p>v1</p>", res.Project.CurrentCode)

	raw, ok, err := backend.For("u1").Get(ctx, repository.CodeKey(p.ID))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "<p>v1</p>", raw)
}

func TestSubmit_FailureBecomesMessage(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, "u1", "page")
	require.NoError(t, err)

	res, err := svc.Submit(ctx, "u1", p.ID, "again", "en")
	require.NoError(t, err)
	assert.Equal(t, generation.FailureMessage, res.Reply.Text)
	assert.Empty(t, res.Project.CurrentCode)
}

func TestSubmit_RejectsBlankAndUnknown(t *testing.T) {
	svc, gen, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "u1", "nope", "   ", "en")
	assert.ErrorIs(t, err, domain.ErrEmptyMessage)

	_, err = svc.Submit(ctx, "u1", "nope", "hello", "en")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, gen.calls)
}

func TestSubmit_RejectsWhileGenerating(t *testing.T) {
	svc, gen, _ := setupService(t, "```html\n<p>x</p>\n```")
	gen.entered = make(chan struct{}, 1)
	gen.block = make(chan struct{})
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, "u1", "page")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Start(ctx, "u1", p.ID, "en")
		done <- err
	}()

	<-gen.entered
	_, err = svc.Submit(ctx, "u1", p.ID, "second", "en")
	assert.ErrorIs(t, err, domain.ErrGenerationInProgress)

	close(gen.block)
	require.NoError(t, <-done)

	got, err := svc.Get(ctx, "u1", p.ID)
	require.NoError(t, err)
	assert.Len(t, got.Messages, 2)
}

func TestSave_SnapshotsAndLists(t *testing.T) {
	svc, _, _ := setupService(t, "```html\n<p>x</p>\n```")
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, "u1", "page")
	require.NoError(t, err)
	_, err = svc.Start(ctx, "u1", p.ID, "en")
	require.NoError(t, err)

	blank := "   "
	saved, err := svc.Save(ctx, "u1", p.ID, &blank)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSaveName, saved.Name)

	name := "Bakery"
	_, err = svc.Save(ctx, "u1", p.ID, &name)
	require.NoError(t, err)

	list, err := svc.ListSaved(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Bakery", list[0].Name)
	assert.Equal(t, "<p>x</p>", list[0].CurrentCode)
	assert.Len(t, list[0].Messages, 2)

	other, err := svc.ListSaved(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSave_WithoutNameKeepsCurrentName(t *testing.T) {
	svc, _, _ := setupService(t, "```html\n<p>x</p>\n```")
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, "u1", "a bakery in the old town")
	require.NoError(t, err)

	saved, err := svc.Save(ctx, "u1", p.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "a bakery in the old ...", saved.Name)

	name := "Bakery"
	_, err = svc.Save(ctx, "u1", p.ID, &name)
	require.NoError(t, err)

	saved, err = svc.Save(ctx, "u1", p.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "Bakery", saved.Name)

	list, err := svc.ListSaved(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Bakery", list[0].Name)
}

func TestCode(t *testing.T) {
	svc, _, _ := setupService(t, "```html\n<p>x</p>\n```")
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, "u1", "page")
	require.NoError(t, err)

	_, err = svc.Code(ctx, "u1", p.ID)
	assert.ErrorIs(t, err, domain.ErrNoCode)

	_, err = svc.Start(ctx, "u1", p.ID, "en")
	require.NoError(t, err)

	code, err := svc.Code(ctx, "u1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, "<p>x</p>", code)
}

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestRedisGuard(t *testing.T) {
	client, mr := setupTestRedis(t)
	guard := NewRedisGuard(client, time.Minute)
	ctx := context.Background()

	release, ok, err := guard.TryAcquire(ctx, "u1/p1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, mr.Exists("avan:turn:u1/p1"))

	_, ok, err = guard.TryAcquire(ctx, "u1/p1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = guard.TryAcquire(ctx, "u1/p2")
	require.NoError(t, err)
	assert.True(t, ok)

	release()
	assert.False(t, mr.Exists("avan:turn:u1/p1"))

	_, ok, err = guard.TryAcquire(ctx, "u1/p1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisGuard_ExpiredLeaseIsNotStolen(t *testing.T) {
	client, mr := setupTestRedis(t)
	guard := NewRedisGuard(client, time.Second)
	ctx := context.Background()

	stale, ok, err := guard.TryAcquire(ctx, "u1/p1")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)

	_, ok, err = guard.TryAcquire(ctx, "u1/p1")
	require.NoError(t, err)
	require.True(t, ok)

	stale()
	assert.True(t, mr.Exists("avan:turn:u1/p1"))
}

func TestMemoryGuard_ReleaseIsIdempotent(t *testing.T) {
	g := NewMemoryGuard()
	ctx := context.Background()

	release, ok, _ := g.TryAcquire(ctx, "k")
	require.True(t, ok)
	release()
	release()

	again, ok, _ := g.TryAcquire(ctx, "k")
	require.True(t, ok)
	_, ok, _ = g.TryAcquire(ctx, "k")
	assert.False(t, ok)
	again()
}
