package events

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/zhouzirui/z-mood/backend/internal/model/emotion"
)

func sampleEvent(id string) Event {
	var s model.Scores
	s.Set(model.Joy, 0.9)
	s.Set(model.Neutral, 0.1)
	return FromEntry(model.Entry{
		ID:              id,
		Text:            strings.Repeat("x", 150),
		DominantEmotion: model.Joy,
		Scores:          s,
		Timestamp:       1700000000000,
	})
}

func TestFromEntryTruncatesText(t *testing.T) {
	ev := sampleEvent("a")
	assert.Equal(t, "analysis", ev.Type)
	assert.Equal(t, strings.Repeat("x", 100)+"...", ev.TextPreview)
}

func TestHubDeliversToSubscribers(t *testing.T) {
	hub := NewHub(4)
	first, cancelFirst := hub.Subscribe()
	second, cancelSecond := hub.Subscribe()
	defer cancelSecond()
	require.Equal(t, 2, hub.Subscribers())

	require.NoError(t, hub.Publish(context.Background(), sampleEvent("a")))

	assert.Equal(t, "a", (<-first).ID)
	assert.Equal(t, "a", (<-second).ID)

	cancelFirst()
	cancelFirst()
	assert.Equal(t, 1, hub.Subscribers())
	_, open := <-first
	assert.False(t, open)
}

func TestHubDropsWhenSubscriberIsFull(t *testing.T) {
	hub := NewHub(1)
	ch, cancel := hub.Subscribe()
	defer cancel()

	require.NoError(t, hub.Publish(context.Background(), sampleEvent("a")))
	require.NoError(t, hub.Publish(context.Background(), sampleEvent("b")))

	assert.Equal(t, "a", (<-ch).ID)
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %s", ev.ID)
	default:
	}
}

type fakeConn struct {
	subject string
	data    []byte
	err     error
	drained bool
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	f.subject = subject
	f.data = data
	return f.err
}

func (f *fakeConn) Drain() error {
	f.drained = true
	return nil
}

func TestNATSPublisherEncodesEvent(t *testing.T) {
	conn := &fakeConn{}
	p := newNATSPublisher(conn, "")
	assert.Equal(t, DefaultSubject, p.Subject())

	require.NoError(t, p.Publish(context.Background(), sampleEvent("abc")))
	assert.Equal(t, DefaultSubject, conn.subject)

	var decoded Event
	require.NoError(t, json.Unmarshal(conn.data, &decoded))
	assert.Equal(t, "abc", decoded.ID)
	assert.Equal(t, model.Joy, decoded.DominantEmotion)
	assert.Equal(t, 0.9, decoded.Scores.Get(model.Joy))

	require.NoError(t, p.Close())
	assert.True(t, conn.drained)
}

func TestFanoutJoinsErrors(t *testing.T) {
	failing := newNATSPublisher(&fakeConn{err: errors.New("no responders")}, "x")
	hub := NewHub(1)
	ch, cancel := hub.Subscribe()
	defer cancel()

	err := Fanout{hub, nil, failing}.Publish(context.Background(), sampleEvent("z"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no responders")
	assert.Equal(t, "z", (<-ch).ID)
}
