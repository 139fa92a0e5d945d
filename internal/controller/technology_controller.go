package controller

import (
	"strconv"

	"skillcheck_backend/internal/service"
	"skillcheck_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TechnologyController struct {
	TechnologyService *service.TechnologyService
}

func NewTechnologyController(technologyService *service.TechnologyService) *TechnologyController {
	return &TechnologyController{TechnologyService: technologyService}
}

// List godoc
// @Summary 技术方向列表
// @Tags 技术方向
// @Produce  json
// @Security BearerAuth
// @Param   all query bool false "包含停用的方向"
// @Success 200 {object} util.Response{data=[]model.Technology}
// @Router /api/technologies [get]
func (c *TechnologyController) List(ctx *gin.Context) {
	all := ctx.Query("all") == "true"

	techs, err := c.TechnologyService.List(!all)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, techs)
}

// Get godoc
// @Summary 技术方向详情
// @Tags 技术方向
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "技术方向ID"
// @Success 200 {object} util.Response{data=model.Technology}
// @Failure 404 {object} util.Response "技术方向不存在"
// @Router /api/technologies/{id} [get]
func (c *TechnologyController) Get(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "技术方向ID无效")
		return
	}

	tech, err := c.TechnologyService.Get(uint(id))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, tech)
}

// Create godoc
// @Summary 新增技术方向
// @Tags 技术方向
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.TechnologyRequest true "技术方向信息"
// @Success 201 {object} util.Response{data=model.Technology}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/manager/technologies [post]
func (c *TechnologyController) Create(ctx *gin.Context) {
	var req service.TechnologyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	tech, err := c.TechnologyService.Create(req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, tech)
}
