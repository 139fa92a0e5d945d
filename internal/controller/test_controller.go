package controller

import (
	"strconv"
	"time"

	"skillcheck_backend/internal/service"
	"skillcheck_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TestController struct {
	TestService *service.TestService
}

func NewTestController(testService *service.TestService) *TestController {
	return &TestController{TestService: testService}
}

// CreateTest godoc
// @Summary 排期一场测试
// @Description 管理员创建测试及其题目，题目创建后不可修改
// @Tags 测试
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.TestRequest true "测试信息"
// @Success 201 {object} util.Response{data=model.Test}
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "技术方向不存在"
// @Router /api/manager/tests [post]
func (c *TestController) CreateTest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.TestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	test, err := c.TestService.CreateTest(claims.UserID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, test)
}

// UpdateTest godoc
// @Summary 更新测试元信息
// @Tags 测试
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "测试ID"
// @Param   body body service.TestUpdateRequest true "更新字段"
// @Success 200 {object} util.Response{data=model.Test}
// @Failure 404 {object} util.Response "测试不存在"
// @Router /api/manager/tests/{id} [put]
func (c *TestController) UpdateTest(ctx *gin.Context) {
	var req service.TestUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	test, err := c.TestService.UpdateTest(ctx.Param("id"), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, test)
}

// CancelTest godoc
// @Summary 取消测试
// @Tags 测试
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "测试ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "测试不存在"
// @Router /api/manager/tests/{id}/cancel [post]
func (c *TestController) CancelTest(ctx *gin.Context) {
	if err := c.TestService.CancelTest(ctx.Param("id")); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"cancelled": true})
}

// GetTest godoc
// @Summary 测试详情（含题目）
// @Tags 测试
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "测试ID"
// @Success 200 {object} util.Response{data=model.Test}
// @Failure 404 {object} util.Response "测试不存在"
// @Router /api/tests/{id} [get]
func (c *TestController) GetTest(ctx *gin.Context) {
	test, err := c.TestService.GetTest(ctx.Param("id"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, test)
}

// ListTests godoc
// @Summary 测试列表
// @Tags 测试
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Param   status query string false "状态过滤"
// @Success 200 {object} util.Response{data=object}
// @Router /api/tests [get]
func (c *TestController) ListTests(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	status := ctx.Query("status")

	tests, total, err := c.TestService.ListTests(page, limit, status)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"tests": tests,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// Calendar godoc
// @Summary 测试日历
// @Description 列出时间段内的测试并标注当前是否可加入
// @Tags 测试
// @Produce  json
// @Security BearerAuth
// @Param   from query string false "起始日期 2006-01-02"
// @Param   to query string false "结束日期 2006-01-02"
// @Success 200 {object} util.Response{data=[]service.CalendarEntry}
// @Failure 400 {object} util.Response "日期格式错误"
// @Router /api/tests/calendar [get]
func (c *TestController) Calendar(ctx *gin.Context) {
	now := time.Now()
	from := now.AddDate(0, 0, -7)
	to := now.AddDate(0, 1, 0)

	if v := ctx.Query("from"); v != "" {
		parsed, err := time.Parse(util.DateFormat, v)
		if err != nil {
			util.BadRequest(ctx, "起始日期格式错误")
			return
		}
		from = parsed
	}
	if v := ctx.Query("to"); v != "" {
		parsed, err := time.Parse(util.DateFormat, v)
		if err != nil {
			util.BadRequest(ctx, "结束日期格式错误")
			return
		}
		to = parsed.AddDate(0, 0, 1)
	}

	entries, err := c.TestService.Calendar(from, to)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// ListParticipations godoc
// @Summary 测试的参与明细
// @Tags 测试
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "测试ID"
// @Success 200 {object} util.Response{data=[]model.Participation}
// @Failure 404 {object} util.Response "测试不存在"
// @Router /api/manager/tests/{id}/participations [get]
func (c *TestController) ListParticipations(ctx *gin.Context) {
	parts, err := c.TestService.ListParticipations(ctx.Param("id"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, parts)
}
