package controller

import (
	"strconv"

	"skillcheck_backend/internal/service"
	"skillcheck_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PerformerController struct {
	PerformerService  *service.PerformerService
	TestService       *service.TestService
	SubmissionService *service.SubmissionService
}

func NewPerformerController(performerService *service.PerformerService, testService *service.TestService, submissionService *service.SubmissionService) *PerformerController {
	return &PerformerController{
		PerformerService:  performerService,
		TestService:       testService,
		SubmissionService: submissionService,
	}
}

// Leaderboard godoc
// @Summary 进步榜
// @Description 按成功率提升幅度排序的协作者榜单
// @Tags 周之星
// @Produce  json
// @Security BearerAuth
// @Param   limit query int false "最多返回条数"
// @Success 200 {object} util.Response{data=model.PerformerBoard}
// @Router /api/performers/leaderboard [get]
func (c *PerformerController) Leaderboard(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	board, err := c.PerformerService.GetLeaderboard(ctx.Request.Context(), limit)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, board)
}

// SweepLifecycle godoc
// @Summary 手动触发测试生命周期扫描
// @Description 后台任务之外的手动入口，把已到期的测试置为 completed
// @Tags 运维
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/admin/sweeps/lifecycle [post]
func (c *PerformerController) SweepLifecycle(ctx *gin.Context) {
	flipped, err := c.TestService.SweepLifecycle()
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"completed": flipped})
}

// SweepStaleSubmissions godoc
// @Summary 手动触发超时提交定稿
// @Tags 运维
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/admin/sweeps/submissions [post]
func (c *PerformerController) SweepStaleSubmissions(ctx *gin.Context) {
	if err := c.SubmissionService.ForceFinalizeStale(); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"done": true})
}

// ExpirePerformers godoc
// @Summary 手动清理过期周之星
// @Tags 运维
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/admin/sweeps/performers/expire [post]
func (c *PerformerController) ExpirePerformers(ctx *gin.Context) {
	cleared, err := c.PerformerService.ClearExpiredPerformers()
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"cleared": cleared})
}

// RecomputeLeaderboard godoc
// @Summary 手动重算进步榜
// @Tags 运维
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.PerformerBoard}
// @Router /api/admin/sweeps/performers/recompute [post]
func (c *PerformerController) RecomputeLeaderboard(ctx *gin.Context) {
	board, err := c.PerformerService.RecomputeLeaderboard(ctx.Request.Context())
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, board)
}
