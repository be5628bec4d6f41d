package api

import (
	"github.com/gin-gonic/gin"
	"github.com/wfunc/last-crusade/internal/service"
	"go.uber.org/zap"
)

// HeroHandler 英雄处理器
type HeroHandler struct {
	heroes service.HeroService
	logger *zap.Logger
}

// NewHeroHandler 创建英雄处理器
func NewHeroHandler(heroes service.HeroService, logger *zap.Logger) *HeroHandler {
	return &HeroHandler{heroes: heroes, logger: logger}
}

// AttackMonster 英雄攻击怪物
// @Summary 攻击怪物
// @Tags Hero
// @Security APIKey
// @Produce json
// @Param hero_id path int true "英雄ID"
// @Param monster_id query int true "怪物ID"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /hero/attack_monster/{hero_id} [post]
func (h *HeroHandler) AttackMonster(c *gin.Context) {
	heroID, ok := pathID(c, "hero_id")
	if !ok {
		return
	}
	monsterID, ok := queryID(c, "monster_id")
	if !ok {
		return
	}

	result, err := h.heroes.AttackMonster(c.Request.Context(), heroID, monsterID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "", result)
}

// RunAway 逃离地牢
// @Summary 逃离地牢
// @Description 正在战斗中的英雄无法逃跑
// @Tags Hero
// @Security APIKey
// @Produce json
// @Param hero_id path int true "英雄ID"
// @Success 200 {object} Response
// @Failure 409 {object} ErrorResponse
// @Router /hero/run_away/{hero_id} [post]
func (h *HeroHandler) RunAway(c *gin.Context) {
	heroID, ok := pathID(c, "hero_id")
	if !ok {
		return
	}

	if _, err := h.heroes.RunAway(c.Request.Context(), heroID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "英雄已逃离地牢", nil)
}

// Die 英雄阵亡
// @Summary 英雄阵亡
// @Tags Hero
// @Security APIKey
// @Produce json
// @Param hero_id path int true "英雄ID"
// @Success 200 {object} Response
// @Failure 409 {object} ErrorResponse
// @Router /hero/die/{hero_id} [post]
func (h *HeroHandler) Die(c *gin.Context) {
	heroID, ok := pathID(c, "hero_id")
	if !ok {
		return
	}

	hero, err := h.heroes.Die(c.Request.Context(), heroID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "英雄已阵亡", gin.H{"hero_id": hero.ID, "status": hero.Status})
}

// FindMonsters 地牢中存活的怪物
// @Summary 查找怪物
// @Tags Hero
// @Security APIKey
// @Produce json
// @Param dungeon_id path int true "地牢ID"
// @Success 200 {object} Response
// @Router /hero/find_monsters/{dungeon_id} [get]
func (h *HeroHandler) FindMonsters(c *gin.Context) {
	dungeonID, ok := pathID(c, "dungeon_id")
	if !ok {
		return
	}

	monsters, err := h.heroes.FindMonsters(c.Request.Context(), dungeonID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "", monsters)
}

// MonsterInteractions 英雄的交战记录
// @Summary 交战记录
// @Tags Hero
// @Security APIKey
// @Produce json
// @Param hero_id path int true "英雄ID"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Router /hero/monster_interactions/{hero_id} [get]
func (h *HeroHandler) MonsterInteractions(c *gin.Context) {
	heroID, ok := pathID(c, "hero_id")
	if !ok {
		return
	}

	report, err := h.heroes.MonsterInteractions(c.Request.Context(), heroID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "", report)
}

// CheckXP 查询经验
// @Summary 查询经验
// @Tags Hero
// @Security APIKey
// @Produce json
// @Param hero_id path int true "英雄ID"
// @Success 200 {object} Response
// @Router /hero/check_xp/{hero_id} [get]
func (h *HeroHandler) CheckXP(c *gin.Context) {
	heroID, ok := pathID(c, "hero_id")
	if !ok {
		return
	}

	status, err := h.heroes.CheckXP(c.Request.Context(), heroID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "", status)
}

// RaiseLevel 升级
// @Summary 升级
// @Description 消耗经验提升一级
// @Tags Hero
// @Security APIKey
// @Produce json
// @Param hero_id path int true "英雄ID"
// @Success 200 {object} Response
// @Failure 409 {object} ErrorResponse
// @Router /hero/raise_level/{hero_id} [post]
func (h *HeroHandler) RaiseLevel(c *gin.Context) {
	heroID, ok := pathID(c, "hero_id")
	if !ok {
		return
	}

	status, err := h.heroes.RaiseLevel(c.Request.Context(), heroID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "升级成功", status)
}

// CheckHealth 查询生命值
// @Summary 查询生命值
// @Tags Hero
// @Security APIKey
// @Produce json
// @Param hero_id path int true "英雄ID"
// @Success 200 {object} Response
// @Router /hero/check_health/{hero_id} [get]
func (h *HeroHandler) CheckHealth(c *gin.Context) {
	heroID, ok := pathID(c, "hero_id")
	if !ok {
		return
	}

	status, err := h.heroes.CheckHealth(c.Request.Context(), heroID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "", status)
}

// ViewPendingRequests 待处理的公会邀请
// @Summary 待处理邀请
// @Tags Hero
// @Security APIKey
// @Produce json
// @Param hero_id path int true "英雄ID"
// @Success 200 {object} Response
// @Router /hero/view_pending_requests/{hero_id} [get]
func (h *HeroHandler) ViewPendingRequests(c *gin.Context) {
	heroID, ok := pathID(c, "hero_id")
	if !ok {
		return
	}

	pending, err := h.heroes.ViewPendingRequests(c.Request.Context(), heroID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "", pending)
}

// AcceptRequest 接受公会邀请
// @Summary 接受邀请
// @Tags Hero
// @Security APIKey
// @Produce json
// @Param hero_id path int true "英雄ID"
// @Param guild_name query string true "公会名称"
// @Success 200 {object} Response
// @Failure 409 {object} ErrorResponse
// @Router /hero/accept_request/{hero_id} [post]
func (h *HeroHandler) AcceptRequest(c *gin.Context) {
	heroID, ok := pathID(c, "hero_id")
	if !ok {
		return
	}
	guildName, ok := requiredQuery(c, "guild_name")
	if !ok {
		return
	}

	rec, err := h.heroes.AcceptRequest(c.Request.Context(), heroID, guildName)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "已加入公会", gin.H{"guild_id": rec.GuildID, "status": rec.Status})
}
