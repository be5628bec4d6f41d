package api

import (
	"github.com/gin-gonic/gin"
	"github.com/wfunc/last-crusade/internal/service"
	"go.uber.org/zap"
)

// MonsterHandler 怪物处理器
type MonsterHandler struct {
	monsters service.MonsterService
	logger   *zap.Logger
}

// NewMonsterHandler 创建怪物处理器
func NewMonsterHandler(monsters service.MonsterService, logger *zap.Logger) *MonsterHandler {
	return &MonsterHandler{monsters: monsters, logger: logger}
}

// FindHeroes 地牢中存活的英雄
// @Summary 查找英雄
// @Tags Monster
// @Security APIKey
// @Produce json
// @Param dungeon_id path int true "地牢ID"
// @Success 200 {object} Response
// @Router /monster/find_heroes/{dungeon_id} [get]
func (h *MonsterHandler) FindHeroes(c *gin.Context) {
	dungeonID, ok := pathID(c, "dungeon_id")
	if !ok {
		return
	}

	heroes, err := h.monsters.FindHeroes(c.Request.Context(), dungeonID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "", heroes)
}

// AttackHero 怪物攻击英雄
// @Summary 攻击英雄
// @Tags Monster
// @Security APIKey
// @Produce json
// @Param monster_id path int true "怪物ID"
// @Param hero_id query int true "英雄ID"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Router /monster/attack_hero/{monster_id} [post]
func (h *MonsterHandler) AttackHero(c *gin.Context) {
	monsterID, ok := pathID(c, "monster_id")
	if !ok {
		return
	}
	heroID, ok := queryID(c, "hero_id")
	if !ok {
		return
	}

	result, err := h.monsters.AttackHero(c.Request.Context(), monsterID, heroID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "", result)
}

// Die 清除已被击败的怪物
// @Summary 怪物死亡
// @Description 生命值不大于0时删除怪物及其战斗日志
// @Tags Monster
// @Security APIKey
// @Produce json
// @Param monster_id path int true "怪物ID"
// @Success 200 {object} Response
// @Failure 409 {object} ErrorResponse
// @Router /monster/die/{monster_id} [post]
func (h *MonsterHandler) Die(c *gin.Context) {
	monsterID, ok := pathID(c, "monster_id")
	if !ok {
		return
	}

	if err := h.monsters.Die(c.Request.Context(), monsterID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "怪物已被清除", nil)
}
