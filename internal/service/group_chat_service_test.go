package service

import (
	"context"
	"portfolio_backend/internal/config"
	"portfolio_backend/internal/util"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGroupChat(t *testing.T) (*GroupChatService, *StorageService) {
	storage := NewStorageService(&config.Config{
		Storage: config.StorageConfig{Type: util.StorageLocal, LocalPath: t.TempDir()},
	})
	svc := NewGroupChatService(storage)
	svc.now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }
	return svc, storage
}

func TestParseHistorySkipsInvalidLines(t *testing.T) {
	data := []byte(`{"sender":"a","content":"hi","timestamp":1}
not json

{"sender":"b","content":"yo","timestamp":2}`)

	msgs := ParseHistory(data)
	require.Len(t, msgs, 2)
	assert.Equal(t, "a", msgs[0].Sender)
	assert.Equal(t, "yo", msgs[1].Content)

	assert.NotNil(t, ParseHistory(nil))
}

func TestGroupChatAppendAndHistory(t *testing.T) {
	svc, _ := newTestGroupChat(t)
	ctx := context.Background()

	msgs, err := svc.History(ctx, "team-1")
	require.NoError(t, err)
	assert.Empty(t, msgs)

	_, err = svc.Append(ctx, "team-1", "amy", "hello")
	require.NoError(t, err)
	msgs, err = svc.Append(ctx, "team-1", "bob", "hey")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "amy", msgs[0].Sender)
	assert.Equal(t, int64(1_700_000_000_000), msgs[1].Timestamp)

	msgs, err = svc.History(ctx, "team-1")
	require.NoError(t, err)
	assert.Len(t, msgs, 2)

	other, err := svc.History(ctx, "team-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestGroupChatValidation(t *testing.T) {
	svc, _ := newTestGroupChat(t)
	ctx := context.Background()

	_, err := svc.History(ctx, "../etc")
	assert.ErrorIs(t, err, util.ErrInvalidInput)
	_, err = svc.Append(ctx, "team", "amy", "   ")
	assert.ErrorIs(t, err, util.ErrInvalidInput)
	_, err = svc.Append(ctx, "bad/group", "amy", "x")
	assert.ErrorIs(t, err, util.ErrInvalidInput)
}

func TestGroupChatConcurrentAppend(t *testing.T) {
	svc, _ := newTestGroupChat(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Append(ctx, "g", "amy", "msg")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	msgs, err := svc.History(ctx, "g")
	require.NoError(t, err)
	assert.Len(t, msgs, 20)
}

func TestGroupChatToleratesCorruptObject(t *testing.T) {
	svc, storage := newTestGroupChat(t)
	ctx := context.Background()

	require.NoError(t, storage.Put(ctx, historyKey("g"), []byte(`{"sender":"a","content":"x","timestamp":1}`+"\n{broken"), "application/x-ndjson"))

	msgs, err := svc.Append(ctx, "g", "bob", "after")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "after", msgs[1].Content)
}
