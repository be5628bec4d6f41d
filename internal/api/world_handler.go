package api

import (
	"github.com/gin-gonic/gin"
	"github.com/wfunc/last-crusade/internal/service"
	"go.uber.org/zap"
)

// WorldHandler 世界处理器
type WorldHandler struct {
	worlds service.WorldService
	logger *zap.Logger
}

// NewWorldHandler 创建世界处理器
func NewWorldHandler(worlds service.WorldService, logger *zap.Logger) *WorldHandler {
	return &WorldHandler{worlds: worlds, logger: logger}
}

// CreateHeroResponse 创建英雄响应
type CreateHeroResponse struct {
	HeroID uint `json:"hero_id"`
}

// CreateHero 创建英雄
// @Summary 创建英雄
// @Description 在世界中创建一个未加入公会的英雄，数值不能为负
// @Tags World
// @Security APIKey
// @Accept json
// @Produce json
// @Param world_id path int true "世界ID"
// @Param request body service.CreateHeroRequest true "英雄属性"
// @Success 201 {object} Response
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /world/create_hero/{world_id} [post]
func (h *WorldHandler) CreateHero(c *gin.Context) {
	worldID, ok := pathID(c, "world_id")
	if !ok {
		return
	}

	var req service.CreateHeroRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	hero, err := h.worlds.CreateHero(c.Request.Context(), worldID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondCreated(c, "英雄已创建", CreateHeroResponse{HeroID: hero.ID})
}

// ViewHeroes 世界中未加入公会的英雄
// @Summary 查看自由英雄
// @Tags World
// @Security APIKey
// @Produce json
// @Param world_id path int true "世界ID"
// @Success 200 {object} Response
// @Router /world/view_heroes/{world_id} [get]
func (h *WorldHandler) ViewHeroes(c *gin.Context) {
	worldID, ok := pathID(c, "world_id")
	if !ok {
		return
	}

	heroes, err := h.worlds.ViewHeroes(c.Request.Context(), worldID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "", heroes)
}

// GetQuests 世界中开放的地牢
// @Summary 查看任务
// @Tags World
// @Security APIKey
// @Produce json
// @Param world_id path int true "世界ID"
// @Success 200 {object} Response
// @Router /world/get_quests/{world_id} [get]
func (h *WorldHandler) GetQuests(c *gin.Context) {
	worldID, ok := pathID(c, "world_id")
	if !ok {
		return
	}

	quests, err := h.worlds.GetQuests(c.Request.Context(), worldID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "", quests)
}

// AgeHero 英雄年龄加一
// @Summary 英雄年龄加一
// @Tags World
// @Security APIKey
// @Produce json
// @Param hero_id path int true "英雄ID"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Router /world/age_hero/{hero_id} [post]
func (h *WorldHandler) AgeHero(c *gin.Context) {
	heroID, ok := pathID(c, "hero_id")
	if !ok {
		return
	}

	hero, err := h.worlds.AgeHero(c.Request.Context(), heroID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "", gin.H{"hero_id": hero.ID, "age": hero.Age})
}
