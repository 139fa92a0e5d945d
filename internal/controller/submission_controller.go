package controller

import (
	"skillcheck_backend/internal/service"
	"skillcheck_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubmissionController struct {
	SubmissionService *service.SubmissionService
}

func NewSubmissionController(submissionService *service.SubmissionService) *SubmissionController {
	return &SubmissionController{SubmissionService: submissionService}
}

// AnswerRequest 记录一次答题
// swagger:model AnswerRequest
type AnswerRequest struct {
	QuestionContent string `json:"questionContent" binding:"required"`
	Answer          string `json:"answer"`
}

// RecordAnswer godoc
// @Summary 记录答题
// @Description 记录协作者对某题的作答并返回最新聚合分，答完或超时会自动定稿
// @Tags 答题
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "测试ID"
// @Param   body body AnswerRequest true "作答内容"
// @Success 200 {object} util.Response{data=service.AnswerResult}
// @Failure 400 {object} util.Response "测试不可加入或答案格式错误"
// @Failure 404 {object} util.Response "测试或题目不存在"
// @Failure 409 {object} util.Response "重复作答或已定稿"
// @Router /api/tests/{id}/answers [post]
func (c *SubmissionController) RecordAnswer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.SubmissionService.RecordAnswer(ctx.Param("id"), claims.UserID, req.QuestionContent, req.Answer)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// GetSubmission godoc
// @Summary 查询本人在某测试的提交
// @Tags 答题
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "测试ID"
// @Success 200 {object} util.Response{data=model.Submission}
// @Failure 404 {object} util.Response "提交不存在"
// @Router /api/tests/{id}/submission [get]
func (c *SubmissionController) GetSubmission(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	sub, err := c.SubmissionService.GetSubmission(ctx.Param("id"), claims.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, sub)
}

// ListMySubmissions godoc
// @Summary 本人全部提交
// @Tags 答题
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Submission}
// @Router /api/submissions [get]
func (c *SubmissionController) ListMySubmissions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	subs, err := c.SubmissionService.ListByUser(claims.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, subs)
}
