package service

import (
	"context"
	"errors"
	"fmt"
	"portfolio_backend/internal/config"
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/util"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type PersonService struct {
	PersonRepo *repository.PersonRepository
	Cfg        *config.Config
}

func NewPersonService(personRepo *repository.PersonRepository, cfg *config.Config) *PersonService {
	return &PersonService{
		PersonRepo: personRepo,
		Cfg:        cfg,
	}
}

func (s *PersonService) Register(person *model.Person) error {
	exists, err := s.PersonRepo.ExistsByUIDOrEmail(person.UID, person.Email)
	if err != nil {
		return err
	}
	if exists {
		return util.ErrPersonExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(person.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	person.Password = string(hashedPassword)
	if person.Role == "" {
		person.Role = model.RoleStudent
	}
	return s.PersonRepo.Create(person)
}

// Login 使用uid或邮箱登录
func (s *PersonService) Login(uid, password string) (string, *model.Person, error) {
	person, err := s.PersonRepo.FindByUID(uid)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, err
		}
		person, err = s.PersonRepo.FindByEmail(uid)
		if err != nil {
			return "", nil, util.ErrInvalidCredentials
		}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(person.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(person, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	return token, person, err
}

func (s *PersonService) GetByUID(uid string) (*model.Person, error) {
	person, err := s.PersonRepo.FindByUID(uid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrPersonNotFound
	}
	return person, err
}

// PasswordResetService 密码重置流程：签发令牌、发邮件、校验后重置为默认密码
type PasswordResetService struct {
	PersonRepo *repository.PersonRepository
	Codes      *ResetCodeStore
	Mailer     Mailer
	Cfg        *config.Config
}

func NewPasswordResetService(personRepo *repository.PersonRepository, codes *ResetCodeStore, mailer Mailer, cfg *config.Config) *PasswordResetService {
	return &PasswordResetService{
		PersonRepo: personRepo,
		Codes:      codes,
		Mailer:     mailer,
		Cfg:        cfg,
	}
}

func (s *PasswordResetService) protected(person *model.Person) bool {
	return person.IsAdmin() || (s.Cfg.Admin.UID != "" && person.UID == s.Cfg.Admin.UID)
}

// Start 返回util.ErrPersonNotFound、util.ErrResetForbidden或util.ErrResetBlocked
// 邮件发送失败时撤销令牌，仍按成功返回
func (s *PasswordResetService) Start(ctx context.Context, uid string) error {
	person, err := s.PersonRepo.FindByUID(uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrPersonNotFound
		}
		return err
	}
	if s.protected(person) {
		return util.ErrResetForbidden
	}

	token := s.Codes.Issue(uid)
	if token == "" {
		return fmt.Errorf("%w: %s", util.ErrResetBlocked, s.Codes.LastReason(uid))
	}

	body := fmt.Sprintf("Hello %s,\n\nYour password reset code is:\n\n%s\n\nIt expires in %d minutes.",
		person.Name, token, int(ResetTokenTTL.Minutes()))
	if err := s.Mailer.Send(ctx, person.Email, "Password reset code", body); err != nil {
		s.Codes.Remove(uid)
		audit("reset_email_send_failed", uid, zap.Error(err))
	}
	return nil
}

// Check 令牌有效时把密码重置为默认值，返回是否重置
func (s *PasswordResetService) Check(uid, code string) (bool, error) {
	person, err := s.PersonRepo.FindByUID(uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, util.ErrPersonNotFound
		}
		return false, err
	}

	if !s.Codes.ValidateAndConsume(uid, strings.TrimSpace(code)) {
		return false, nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(s.Cfg.Reset.DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	if err := s.PersonRepo.UpdatePassword(person.ID, string(hashed)); err != nil {
		return false, err
	}
	return true, nil
}
