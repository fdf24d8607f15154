package controller

import (
	"errors"
	"net/http"
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/service"
	"portfolio_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

type PersonController struct {
	PersonService *service.PersonService
	ResetService  *service.PasswordResetService
	CookieName    string
	CookieMaxAge  int
	IsRelease     bool
}

func NewPersonController(personService *service.PersonService, resetService *service.PasswordResetService, cookieName string, cookieMaxAge int, isRelease bool) *PersonController {
	return &PersonController{
		PersonService: personService,
		ResetService:  resetService,
		CookieName:    cookieName,
		CookieMaxAge:  cookieMaxAge,
		IsRelease:     isRelease,
	}
}

// RegisterRequest defines model for registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	UID         string `json:"uid" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Role        string `json:"role" binding:"omitempty,oneof=student teacher"`
	Pfp         string `json:"pfp"`
	GitHubLogin string `json:"githubLogin"`
}

// Register godoc
// @Summary 注册新用户
// @Description 使用uid、邮箱与密码注册
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body RegisterRequest true "用户注册信息"
// @Success 201 {object} util.Response{data=model.Person} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "uid或邮箱已被注册"
// @Router /api/person [post]
func (c *PersonController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	person := &model.Person{
		UID:         strings.TrimSpace(req.UID),
		Name:        req.Name,
		Email:       strings.ToLower(req.Email),
		Password:    req.Password,
		Role:        model.PersonRole(req.Role),
		Pfp:         req.Pfp,
		GitHubLogin: req.GitHubLogin,
	}

	if err := c.PersonService.Register(person); err != nil {
		handleError(ctx, err)
		return
	}

	util.Created(ctx, person)
}

// swagger:model LoginRequest
type LoginRequest struct {
	UID      string `json:"uid" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Authenticate godoc
// @Summary 用户登录
// @Description 校验uid/邮箱与密码，返回JWT并写入Cookie
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "登录凭据"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /authenticate [post]
func (c *PersonController) Authenticate(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, person, err := c.PersonService.Login(strings.TrimSpace(req.UID), req.Password)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			util.Unauthorized(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.CookieName, token, c.CookieMaxAge, "/", "", c.IsRelease, true)
	util.Success(ctx, gin.H{"token": token, "person": person})
}

// Me godoc
// @Summary 当前用户
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Person}
// @Failure 401 {object} util.Response
// @Router /api/person/me [get]
func (c *PersonController) Me(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	person, err := c.PersonService.GetByUID(claims.UID)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, person)
}

// GetPerson godoc
// @Summary 按uid查询用户（教师/管理员）
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Param uid path string true "用户uid"
// @Success 200 {object} util.Response{data=model.Person}
// @Failure 404 {object} util.Response
// @Router /api/person/{uid} [get]
func (c *PersonController) GetPerson(ctx *gin.Context) {
	person, err := c.PersonService.GetByUID(ctx.Param("uid"))
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, person)
}

type ResetStartRequest struct {
	UID string `json:"uid"`
}

// ResetStart godoc
// @Summary 申请密码重置码
// @Description uid不存在时返回204；管理员账户401；已有有效码或超出频率429
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body ResetStartRequest true "uid"
// @Success 200 {object} util.Response
// @Success 204 "uid不存在"
// @Failure 401 {object} util.Response
// @Failure 429 {object} util.Response
// @Router /api/person/reset/start [post]
func (c *PersonController) ResetStart(ctx *gin.Context) {
	var req ResetStartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.UID) == "" {
		util.BadRequest(ctx, "uid is required")
		return
	}

	err := c.ResetService.Start(ctx.Request.Context(), strings.TrimSpace(req.UID))
	switch {
	case err == nil:
		util.Success(ctx, gin.H{"message": "Reset code sent"})
	case errors.Is(err, util.ErrPersonNotFound):
		util.NoContent(ctx)
	case errors.Is(err, util.ErrResetForbidden):
		util.Error(ctx, http.StatusUnauthorized, err.Error())
	case errors.Is(err, util.ErrResetBlocked):
		util.TooManyRequests(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

type ResetCheckRequest struct {
	UID  string `json:"uid"`
	Code string `json:"code"`
}

// ResetCheck godoc
// @Summary 校验重置码并重置密码
// @Description 校验通过后密码被重置为系统默认密码；uid不存在或校验失败返回204
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body ResetCheckRequest true "uid与重置码"
// @Success 200 {object} util.Response
// @Success 204 "未重置"
// @Failure 400 {object} util.Response
// @Router /api/person/reset/check [post]
func (c *PersonController) ResetCheck(ctx *gin.Context) {
	var req ResetCheckRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.UID) == "" {
		util.BadRequest(ctx, "uid is required")
		return
	}

	ok, err := c.ResetService.Check(strings.TrimSpace(req.UID), req.Code)
	switch {
	case errors.Is(err, util.ErrPersonNotFound):
		util.NoContent(ctx)
	case err != nil:
		util.LogInternalError(ctx, err)
	case !ok:
		util.NoContent(ctx)
	default:
		util.Success(ctx, gin.H{"message": "Password reset to default"})
	}
}
