package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/util"
	"portfolio_backend/pkg/logger"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const chatHistoryObject = "chat_history.jsonl"

var groupIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// GroupChatService 群聊历史以JSON Lines保存在对象存储，每组一个对象
type GroupChatService struct {
	storage *StorageService
	now     func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewGroupChatService(storage *StorageService) *GroupChatService {
	return &GroupChatService{
		storage: storage,
		now:     time.Now,
		locks:   make(map[string]*sync.Mutex),
	}
}

func (s *GroupChatService) lock(groupID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[groupID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[groupID] = l
	}
	return l
}

func historyKey(groupID string) string {
	return groupID + "/" + chatHistoryObject
}

// ParseHistory 逐行解析，无法解析的行跳过
func ParseHistory(data []byte) []model.GroupChatMessage {
	messages := []model.GroupChatMessage{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var msg model.GroupChatMessage
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			logger.Log.Debug("skipping invalid chat line", zap.Error(err))
			continue
		}
		messages = append(messages, msg)
	}
	return messages
}

func (s *GroupChatService) History(ctx context.Context, groupID string) ([]model.GroupChatMessage, error) {
	if !groupIDPattern.MatchString(groupID) {
		return nil, util.ErrInvalidInput
	}
	data, err := s.storage.Get(ctx, historyKey(groupID))
	if errors.Is(err, ErrObjectNotFound) {
		return []model.GroupChatMessage{}, nil
	}
	if err != nil {
		return nil, err
	}
	return ParseHistory(data), nil
}

// Append 同组串行读改写，返回追加后的完整历史
func (s *GroupChatService) Append(ctx context.Context, groupID, sender, content string) ([]model.GroupChatMessage, error) {
	if !groupIDPattern.MatchString(groupID) || strings.TrimSpace(content) == "" {
		return nil, util.ErrInvalidInput
	}

	l := s.lock(groupID)
	l.Lock()
	defer l.Unlock()

	key := historyKey(groupID)
	existing, err := s.storage.Get(ctx, key)
	if err != nil && !errors.Is(err, ErrObjectNotFound) {
		return nil, err
	}

	line, err := json.Marshal(model.GroupChatMessage{
		Sender:    sender,
		Content:   content,
		Timestamp: s.now().UnixMilli(),
	})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(existing)
	if len(existing) > 0 && !bytes.HasSuffix(existing, []byte("\n")) {
		buf.WriteByte('\n')
	}
	buf.Write(line)
	buf.WriteByte('\n')

	if err := s.storage.Put(ctx, key, buf.Bytes(), "application/x-ndjson"); err != nil {
		return nil, err
	}
	return ParseHistory(buf.Bytes()), nil
}
