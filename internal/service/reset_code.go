package service

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strconv"
	"strings"
	"sync"
	"time"

	"portfolio_backend/pkg/logger"
	"portfolio_backend/pkg/monitoring"

	"go.uber.org/zap"
)

const (
	ResetTokenTTL        = 5 * time.Minute
	ResetRateWindow      = 15 * time.Minute
	ResetMaxPerWindow    = 3
	ResetReasonActive    = "active-token"
	ResetReasonRateLimit = "rate-limit"
)

type resetRecord struct {
	token     string
	expiresAt int64
}

// ResetCodeStore 内存中的密码重置令牌，每个uid同时只有一个有效令牌
type ResetCodeStore struct {
	mu         sync.Mutex
	secret     []byte
	active     map[string]resetRecord
	issuedAt   map[string][]int64
	lastReason map[string]string
	now        func() time.Time
}

// NewResetCodeStore secret为空时生成进程内临时密钥
func NewResetCodeStore(secret string) *ResetCodeStore {
	key := []byte(secret)
	if strings.TrimSpace(secret) == "" {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(err)
		}
		logger.Log.Warn("using ephemeral in-memory reset secret because reset.secret is not set",
			zap.String("audit", "reset_secret_fallback"))
	}
	return &ResetCodeStore{
		secret:     key,
		active:     make(map[string]resetRecord),
		issuedAt:   make(map[string][]int64),
		lastReason: make(map[string]string),
		now:        time.Now,
	}
}

// SetClock 替换时间源（测试用）
func (s *ResetCodeStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

func b64(v []byte) string {
	return base64.RawURLEncoding.EncodeToString(v)
}

func (s *ResetCodeStore) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return b64(mac.Sum(nil))
}

func audit(event, uid string, fields ...zap.Field) {
	monitoring.ResetTokens.WithLabelValues(event).Inc()
	fields = append([]zap.Field{zap.String("audit", event), zap.String("uid", uid)}, fields...)
	if strings.HasSuffix(event, "_failed") || strings.HasSuffix(event, "_blocked") {
		logger.Audit().Warn("reset token event", fields...)
		return
	}
	logger.Audit().Info("reset token event", fields...)
}

// cleanup 需持有锁
func (s *ResetCodeStore) cleanup(uid string, now int64) {
	if rec, ok := s.active[uid]; ok && rec.expiresAt <= now {
		delete(s.active, uid)
		audit("reset_token_expired", uid)
	}

	times := s.issuedAt[uid]
	cutoff := now - int64(ResetRateWindow/time.Second)
	i := 0
	for i < len(times) && times[i] <= cutoff {
		i++
	}
	if i == len(times) {
		delete(s.issuedAt, uid)
	} else if i > 0 {
		s.issuedAt[uid] = times[i:]
	}
}

func (s *ResetCodeStore) canIssue(uid string, now int64) (bool, string) {
	s.cleanup(uid, now)
	if _, ok := s.active[uid]; ok {
		s.lastReason[uid] = ResetReasonActive
		return false, ResetReasonActive
	}
	if len(s.issuedAt[uid]) >= ResetMaxPerWindow {
		s.lastReason[uid] = ResetReasonRateLimit
		return false, ResetReasonRateLimit
	}
	delete(s.lastReason, uid)
	return true, ""
}

// CanIssue 返回能否签发以及被拒原因
func (s *ResetCodeStore) CanIssue(uid string) (bool, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canIssue(uid, s.now().Unix())
}

func (s *ResetCodeStore) LastReason(uid string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReason[uid]
}

// Issue 签发新令牌，被拒时返回空串
func (s *ResetCodeStore) Issue(uid string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().Unix()
	if ok, reason := s.canIssue(uid, now); !ok {
		audit("reset_token_issue_blocked", uid, zap.String("reason", reason))
		return ""
	}

	expiresAt := now + int64(ResetTokenTTL/time.Second)
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		logger.Log.Error("failed to read nonce", zap.Error(err))
		return ""
	}
	nonceEnc := b64(nonce)
	exp := strconv.FormatInt(expiresAt, 10)

	signature := s.sign(uid + "." + exp + "." + nonceEnc)
	token := b64([]byte(uid)) + "." + exp + "." + nonceEnc + "." + signature

	s.active[uid] = resetRecord{token: token, expiresAt: expiresAt}
	s.issuedAt[uid] = append(s.issuedAt[uid], now)
	delete(s.lastReason, uid)

	audit("reset_token_issued", uid, zap.Int64("expiresAt", expiresAt))
	return token
}

// CodeFor 当前有效令牌，没有则为空串
func (s *ResetCodeStore) CodeFor(uid string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanup(uid, s.now().Unix())
	return s.active[uid].token
}

// ValidateAndConsume 校验通过后立即作废令牌
func (s *ResetCodeStore) ValidateAndConsume(uid, token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().Unix()
	s.cleanup(uid, now)

	fail := func(reason string) bool {
		audit("reset_token_validate_failed", uid, zap.String("reason", reason))
		return false
	}

	if strings.TrimSpace(token) == "" {
		return fail("missing_token")
	}
	rec, ok := s.active[uid]
	if !ok {
		return fail("no_active_token")
	}
	if subtle.ConstantTimeCompare([]byte(rec.token), []byte(token)) != 1 {
		return fail("token_mismatch")
	}

	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return fail("malformed_token")
	}
	exp, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return fail("invalid_exp")
	}
	expected := s.sign(uid + "." + parts[1] + "." + parts[2])
	if !hmac.Equal([]byte(expected), []byte(parts[3])) {
		return fail("bad_signature")
	}
	if now > exp {
		delete(s.active, uid)
		return fail("expired")
	}

	delete(s.active, uid)
	audit("reset_token_consumed", uid)
	return true
}

func (s *ResetCodeStore) Remove(uid string) {
	s.mu.Lock()
	delete(s.active, uid)
	s.mu.Unlock()
	audit("reset_token_removed", uid)
}
