package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
	"golang.org/x/sync/errgroup"

	apierrors "github.com/nhut0902/landingchat/internal/errors"
	"github.com/nhut0902/landingchat/internal/i18n"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testSpec = SessionSpec{
	APIKey:            "key",
	Model:             "gemini-2.5-flash",
	SystemInstruction: "be nice",
}

func newTestController(t *testing.T, f *fakeCapability, opts ...Option) *Controller {
	t.Helper()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	return NewController(f, testSpec, opts...)
}

func waitBusy(t *testing.T, c *Controller) {
	t.Helper()
	require.Eventually(t, func() bool { return c.State().Busy }, time.Second, time.Millisecond)
}

func TestEnsureSession_Idempotent(t *testing.T) {
	f := &fakeCapability{}
	c := newTestController(t, f)

	require.NoError(t, c.EnsureSession(context.Background()))
	require.NoError(t, c.EnsureSession(context.Background()))

	loads, sessions, _ := f.counts()
	assert.Equal(t, 1, loads)
	assert.Equal(t, 1, sessions)
	assert.Equal(t, testSpec, f.spec)

	s := c.State()
	assert.True(t, s.HasSession)
	assert.False(t, s.Busy)
	assert.Empty(t, s.LastError)
}

func TestEnsureSession_ConcurrentCallersShareOneAttempt(t *testing.T) {
	f := &fakeCapability{gate: make(chan struct{}), loadGate: true}
	c := newTestController(t, f)

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error { return c.EnsureSession(context.Background()) })
	}
	waitBusy(t, c)
	close(f.gate)
	require.NoError(t, g.Wait())

	_, sessions, _ := f.counts()
	assert.Equal(t, 1, sessions)
}

func TestSendMessage_HealthySession(t *testing.T) {
	texts := []string{"hello", "Xin chào", "  padded  ", "multi\nline"}

	for _, text := range texts {
		t.Run(text, func(t *testing.T) {
			f := &fakeCapability{}
			c := newTestController(t, f)

			reply, err := c.SendMessage(context.Background(), text)
			require.NoError(t, err)
			assert.True(t, reply.OK())

			got := c.Transcript()
			require.Len(t, got, 2)
			assert.Equal(t, RoleUser, got[0].Role)
			assert.Equal(t, text, got[0].Text)
			assert.Equal(t, RoleAssistant, got[1].Role)
			assert.Equal(t, "reply to "+text, got[1].Text)

			s := c.State()
			assert.False(t, s.Busy)
			assert.Empty(t, s.LastError)
			assert.NoError(t, c.Err())
		})
	}
}

func TestSendMessage_BlankIsNoop(t *testing.T) {
	for _, text := range []string{"", " ", "\t\n  "} {
		f := &fakeCapability{}
		c := newTestController(t, f)

		_, err := c.SendMessage(context.Background(), text)
		assert.ErrorIs(t, err, apierrors.ErrEmptyMessage)
		assert.Empty(t, c.Transcript())

		loads, _, sends := f.counts()
		assert.Zero(t, loads, "blank input must not trigger initialization")
		assert.Zero(t, sends)
	}
}

func TestEnsureSession_CapabilityLoadFailure(t *testing.T) {
	f := &fakeCapability{loadErr: errors.New("network error")}
	c := newTestController(t, f)

	err := c.EnsureSession(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apierrors.ErrCapabilityLoad)
	assert.True(t, apierrors.IsFatal(err))

	s := c.State()
	assert.False(t, s.HasSession)
	assert.False(t, s.Busy)
	assert.Equal(t, i18n.New("vi").Text(i18n.CapabilityLoadFailed), s.LastError)

	_, err = c.SendMessage(context.Background(), "hello")
	assert.ErrorIs(t, err, apierrors.ErrChatDisabled)
	assert.Empty(t, c.Transcript())

	again := c.EnsureSession(context.Background())
	assert.ErrorIs(t, again, apierrors.ErrCapabilityLoad)

	loads, sessions, _ := f.counts()
	assert.Equal(t, 1, loads, "no automatic retry after a fatal error")
	assert.Zero(t, sessions)
}

func TestEnsureSession_ConfigurationFailure(t *testing.T) {
	f := &fakeCapability{sessionErr: errors.New("API key not valid")}
	c := newTestController(t, f)

	err := c.EnsureSession(context.Background())
	assert.ErrorIs(t, err, apierrors.ErrClientConfiguration)
	assert.Equal(t, "Lỗi cấu hình AI: API key not valid. Vui lòng kiểm tra lại API key.", c.State().LastError)
	assert.False(t, c.InputEnabled())
}

func TestEnsureSession_ConfigurationFailureWithoutCauseText(t *testing.T) {
	f := &fakeCapability{sessionErr: apierrors.NewClientConfigurationError("", nil)}
	c := newTestController(t, f, WithCatalog(i18n.New("en")))

	_ = c.EnsureSession(context.Background())
	assert.Equal(t, "AI configuration error: An unknown error occurred.. Please check your API key.", c.State().LastError)
}

func TestSendMessage_TransientFailure(t *testing.T) {
	f := &fakeCapability{sendErrs: []error{errors.New("boom")}}
	c := newTestController(t, f)

	reply, err := c.SendMessage(context.Background(), "first")
	require.NoError(t, err, "send failures are reported in the reply")
	assert.False(t, reply.OK())
	assert.ErrorIs(t, reply.Err, apierrors.ErrSend)

	got := c.Transcript()
	require.Len(t, got, 2)
	assert.Equal(t, RoleAssistant, got[1].Role)
	assert.Equal(t, "Xin lỗi, tôi đã gặp lỗi. Vui lòng thử lại.", got[1].Text)

	s := c.State()
	assert.Empty(t, s.LastError)
	assert.True(t, s.InputEnabled())

	reply, err = c.SendMessage(context.Background(), "second")
	require.NoError(t, err)
	assert.True(t, reply.OK())
	assert.Len(t, c.Transcript(), 4)
}

func TestSendMessage_InitializesLazily(t *testing.T) {
	f := &fakeCapability{}
	c := newTestController(t, f)

	_, err := c.SendMessage(context.Background(), "hi")
	require.NoError(t, err)

	loads, sessions, sends := f.counts()
	assert.Equal(t, 1, loads)
	assert.Equal(t, 1, sessions)
	assert.Equal(t, 1, sends)
}

func TestSendMessage_InitFailureRecordsNothing(t *testing.T) {
	f := &fakeCapability{sessionErr: errors.New("bad key")}
	c := newTestController(t, f)

	_, err := c.SendMessage(context.Background(), "hi")
	assert.True(t, apierrors.IsFatal(err))
	assert.Empty(t, c.Transcript())

	_, err = c.SendMessage(context.Background(), "hi again")
	assert.ErrorIs(t, err, apierrors.ErrChatDisabled)

	_, sessions, sends := f.counts()
	assert.Equal(t, 1, sessions)
	assert.Zero(t, sends)
}

func TestScenario_OpenPanelThenSend(t *testing.T) {
	f := &fakeCapability{replies: []string{"Chào bạn! Mình có thể giúp gì?"}}
	c := newTestController(t, f)

	done := c.OpenPanel(context.Background())
	require.NotNil(t, done)
	<-done

	s := c.State()
	assert.True(t, s.PanelOpen)
	assert.True(t, s.HasSession)

	_, err := c.SendMessage(context.Background(), "Xin chào")
	require.NoError(t, err)

	got := c.Transcript()
	require.Len(t, got, 2)
	assert.Equal(t, Message{Role: RoleUser, Text: "Xin chào", At: got[0].At}, got[0])
	assert.Equal(t, Message{Role: RoleAssistant, Text: "Chào bạn! Mình có thể giúp gì?", At: got[1].At}, got[1])
}

func TestScenario_OpenPanelInitFails(t *testing.T) {
	f := &fakeCapability{loadErr: errors.New("network error")}
	c := newTestController(t, f)

	<-c.OpenPanel(context.Background())

	assert.False(t, c.InputEnabled())
	c.SetInput("hi")
	assert.False(t, c.CanSubmit())

	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, apierrors.ErrChatDisabled)
	_, err = c.SendMessage(context.Background(), "hello")
	assert.ErrorIs(t, err, apierrors.ErrChatDisabled)
	assert.Empty(t, c.Transcript())

	assert.Nil(t, c.OpenPanel(context.Background()), "reopening must not retry")
	loads, _, _ := f.counts()
	assert.Equal(t, 1, loads)
}

func TestOpenPanel_NoInitWhenSessionExists(t *testing.T) {
	f := &fakeCapability{}
	c := newTestController(t, f)
	require.NoError(t, c.EnsureSession(context.Background()))

	assert.Nil(t, c.OpenPanel(context.Background()))
	assert.True(t, c.State().PanelOpen)
}

func TestClosePanel_KeepsState(t *testing.T) {
	f := &fakeCapability{}
	c := newTestController(t, f)

	<-c.OpenPanel(context.Background())
	_, err := c.SendMessage(context.Background(), "hello")
	require.NoError(t, err)
	c.SetInput("draft")

	c.ClosePanel()

	s := c.State()
	assert.False(t, s.PanelOpen)
	assert.True(t, s.HasSession)
	assert.Equal(t, "draft", s.Input)
	assert.Len(t, c.Transcript(), 2)

	assert.Nil(t, c.OpenPanel(context.Background()))
	assert.Len(t, c.Transcript(), 2)
}

func TestSendMessage_RejectedWhileSending(t *testing.T) {
	f := &fakeCapability{gate: make(chan struct{})}
	c := newTestController(t, f)
	require.NoError(t, c.EnsureSession(context.Background()))

	var g errgroup.Group
	g.Go(func() error {
		_, err := c.SendMessage(context.Background(), "first")
		return err
	})
	waitBusy(t, c)

	assert.False(t, c.InputEnabled())
	_, err := c.SendMessage(context.Background(), "second")
	assert.ErrorIs(t, err, apierrors.ErrBusy)
	assert.NoError(t, c.EnsureSession(context.Background()))

	got := c.Transcript()
	require.Len(t, got, 1, "user entry is appended before the reply arrives")
	assert.Equal(t, "first", got[0].Text)

	close(f.gate)
	require.NoError(t, g.Wait())

	assert.Len(t, c.Transcript(), 2)
	assert.False(t, c.State().Busy)
	_, _, sends := f.counts()
	assert.Equal(t, 1, sends)
}

func TestSendMessage_RejectedWhileInitializing(t *testing.T) {
	f := &fakeCapability{gate: make(chan struct{}), loadGate: true}
	c := newTestController(t, f)

	done := c.OpenPanel(context.Background())
	waitBusy(t, c)

	_, err := c.SendMessage(context.Background(), "hello")
	assert.ErrorIs(t, err, apierrors.ErrBusy)
	assert.Empty(t, c.Transcript())

	close(f.gate)
	<-done
	assert.True(t, c.State().HasSession)
}

func TestSubmit_SendsAndClearsInput(t *testing.T) {
	f := &fakeCapability{}
	c := newTestController(t, f)

	assert.False(t, c.CanSubmit())
	c.SetInput("   ")
	assert.False(t, c.CanSubmit())
	c.SetInput("hello")
	assert.True(t, c.CanSubmit())

	_, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, c.State().Input)
	assert.Equal(t, []string{"hello"}, f.prompts)
}

func TestSendMessage_Timeout(t *testing.T) {
	f := &fakeCapability{gate: make(chan struct{})}
	defer close(f.gate)
	c := newTestController(t, f, WithTimeout(20*time.Millisecond))
	require.NoError(t, c.EnsureSession(context.Background()))

	reply, err := c.SendMessage(context.Background(), "slow")
	require.NoError(t, err)
	assert.True(t, apierrors.IsTimeoutError(reply.Err))
	assert.ErrorIs(t, reply.Err, apierrors.ErrSend)
	assert.Empty(t, c.State().LastError)

	got := c.Transcript()
	require.Len(t, got, 2)
	assert.Equal(t, i18n.New("vi").Text(i18n.SendFallback), got[1].Text)
}

func TestSubscribe_Coalesces(t *testing.T) {
	c := newTestController(t, &fakeCapability{})
	ch := c.Subscribe()

	c.SetInput("a")
	c.SetInput("ab")

	select {
	case <-ch:
	default:
		t.Fatal("expected a pending notification")
	}
	select {
	case <-ch:
		t.Fatal("notifications should be coalesced")
	default:
	}
}

func TestLastReply(t *testing.T) {
	f := &fakeCapability{replies: []string{"one", "two"}}
	c := newTestController(t, f)

	_, ok := c.LastReply()
	assert.False(t, ok)

	_, _ = c.SendMessage(context.Background(), "a")
	_, _ = c.SendMessage(context.Background(), "b")

	text, ok := c.LastReply()
	assert.True(t, ok)
	assert.Equal(t, "two", text)
}

func TestTimestampsUseClock(t *testing.T) {
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	c := newTestController(t, &fakeCapability{}, WithClock(func() time.Time { return fixed }))

	_, err := c.SendMessage(context.Background(), "hi")
	require.NoError(t, err)
	for _, m := range c.Transcript() {
		assert.Equal(t, fixed, m.At)
	}
}

func TestTranscriptIsACopy(t *testing.T) {
	c := newTestController(t, &fakeCapability{})
	_, _ = c.SendMessage(context.Background(), "hi")

	got := c.Transcript()
	got[0].Text = "mutated"
	assert.Equal(t, "hi", c.Transcript()[0].Text)
}
