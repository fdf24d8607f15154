package service

import (
	"context"
	"errors"
	"portfolio_backend/internal/config"
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/util"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type recordingMailer struct {
	to   []string
	body []string
	err  error
}

func (m *recordingMailer) Send(ctx context.Context, to, subject, body string) error {
	m.to = append(m.to, to)
	m.body = append(m.body, body)
	return m.err
}

func testConfig() *config.Config {
	return &config.Config{
		JWT:   config.JWTConfig{Secret: "unit-test-secret", ExpireTime: time.Hour},
		Reset: config.ResetConfig{Secret: "reset-secret", DefaultPassword: "123Qwerty!"},
		Admin: config.AdminConfig{UID: "toby"},
	}
}

func TestResetCodeIssueAndConsume(t *testing.T) {
	store := NewResetCodeStore("s3cret")
	now := time.Unix(1_700_000_000, 0)
	store.SetClock(func() time.Time { return now })

	token := store.Issue("u1")
	require.NotEmpty(t, token)
	assert.Len(t, strings.Split(token, "."), 4)
	assert.Equal(t, token, store.CodeFor("u1"))

	// 已有有效令牌时不再签发
	assert.Empty(t, store.Issue("u1"))
	assert.Equal(t, ResetReasonActive, store.LastReason("u1"))

	assert.False(t, store.ValidateAndConsume("u1", token+"x"))
	assert.False(t, store.ValidateAndConsume("u2", token))
	assert.True(t, store.ValidateAndConsume("u1", token))
	assert.False(t, store.ValidateAndConsume("u1", token), "token is single use")
	assert.Empty(t, store.CodeFor("u1"))
}

func TestResetCodeExpiry(t *testing.T) {
	store := NewResetCodeStore("s3cret")
	now := time.Unix(1_700_000_000, 0)
	store.SetClock(func() time.Time { return now })

	token := store.Issue("u1")
	require.NotEmpty(t, token)

	now = now.Add(ResetTokenTTL + time.Second)
	assert.False(t, store.ValidateAndConsume("u1", token))

	ok, _ := store.CanIssue("u1")
	assert.True(t, ok)
}

func TestResetCodeRateLimit(t *testing.T) {
	store := NewResetCodeStore("s3cret")
	now := time.Unix(1_700_000_000, 0)
	store.SetClock(func() time.Time { return now })

	for i := 0; i < ResetMaxPerWindow; i++ {
		token := store.Issue("u1")
		require.NotEmpty(t, token, "issue %d", i)
		store.Remove("u1")
		now = now.Add(time.Minute)
	}

	assert.Empty(t, store.Issue("u1"))
	assert.Equal(t, ResetReasonRateLimit, store.LastReason("u1"))

	now = now.Add(ResetRateWindow)
	assert.NotEmpty(t, store.Issue("u1"))
	assert.Empty(t, store.LastReason("u1"))
}

func TestResetCodeSignatureBoundToSecret(t *testing.T) {
	a := NewResetCodeStore("secret-a")
	b := NewResetCodeStore("secret-b")

	token := a.Issue("u1")
	require.NotEmpty(t, token)
	require.NotEmpty(t, b.Issue("u1"))
	assert.False(t, b.ValidateAndConsume("u1", token))
}

func TestPersonRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewPersonService(repository.NewPersonRepository(db), testConfig())

	p := &model.Person{UID: "amy", Name: "Amy", Email: "amy@example.com", Password: "pw12345"}
	require.NoError(t, svc.Register(p))
	assert.Equal(t, model.RoleStudent, p.Role)
	assert.NotEqual(t, "pw12345", p.Password)

	err := svc.Register(&model.Person{UID: "other", Name: "O", Email: "amy@example.com", Password: "x"})
	assert.ErrorIs(t, err, util.ErrPersonExists)

	token, person, err := svc.Login("amy", "pw12345")
	require.NoError(t, err)
	assert.Equal(t, "amy", person.UID)
	claims, err := util.ParseJWT(token, "unit-test-secret")
	require.NoError(t, err)
	assert.Equal(t, "amy", claims.UID)
	assert.Equal(t, model.RoleStudent, claims.Role)

	_, _, err = svc.Login("amy@example.com", "pw12345")
	require.NoError(t, err)

	_, _, err = svc.Login("amy", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	_, _, err = svc.Login("ghost", "pw12345")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, err = svc.GetByUID("ghost")
	assert.ErrorIs(t, err, util.ErrPersonNotFound)
}

func newResetFixture(t *testing.T) (*PasswordResetService, *recordingMailer, *repository.PersonRepository) {
	db := newTestDB(t)
	repo := repository.NewPersonRepository(db)
	createPerson(t, db, "amy", model.RoleStudent)
	createPerson(t, db, "toby", model.RoleTeacher)
	createPerson(t, db, "root", model.RoleAdmin)

	mailer := &recordingMailer{}
	svc := NewPasswordResetService(repo, NewResetCodeStore("reset-secret"), mailer, testConfig())
	return svc, mailer, repo
}

func TestPasswordResetFlow(t *testing.T) {
	svc, mailer, repo := newResetFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Start(ctx, "amy"))
	require.Len(t, mailer.to, 1)
	assert.Equal(t, "amy@example.com", mailer.to[0])

	code := svc.Codes.CodeFor("amy")
	require.NotEmpty(t, code)
	assert.Contains(t, mailer.body[0], code)

	err := svc.Start(ctx, "amy")
	assert.ErrorIs(t, err, util.ErrResetBlocked)

	ok, err := svc.Check("amy", "bogus")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Check("amy", " "+code+" ")
	require.NoError(t, err)
	assert.True(t, ok)

	person, err := repo.FindByUID("amy")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(person.Password), []byte("123Qwerty!")))

	ok, err = svc.Check("amy", code)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordResetGuards(t *testing.T) {
	svc, mailer, _ := newResetFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Start(ctx, "ghost"), util.ErrPersonNotFound)
	assert.ErrorIs(t, svc.Start(ctx, "toby"), util.ErrResetForbidden)
	assert.ErrorIs(t, svc.Start(ctx, "root"), util.ErrResetForbidden)
	assert.Empty(t, mailer.to)

	_, err := svc.Check("ghost", "x")
	assert.ErrorIs(t, err, util.ErrPersonNotFound)
}

func TestPasswordResetMailFailureRevokesToken(t *testing.T) {
	svc, mailer, _ := newResetFixture(t)
	mailer.err = errors.New("smtp down")

	require.NoError(t, svc.Start(context.Background(), "amy"))
	assert.Equal(t, []string{"amy@example.com"}, mailer.to)
	assert.Empty(t, svc.Codes.CodeFor("amy"))
}
