package api

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/wfunc/last-crusade/internal/service"
	"go.uber.org/zap"
)

// DungeonHandler 地牢处理器
type DungeonHandler struct {
	dungeons service.DungeonService
	logger   *zap.Logger
}

// NewDungeonHandler 创建地牢处理器
func NewDungeonHandler(dungeons service.DungeonService, logger *zap.Logger) *DungeonHandler {
	return &DungeonHandler{dungeons: dungeons, logger: logger}
}

// CreateDungeon 创建地牢
// @Summary 创建地牢
// @Tags Dungeon
// @Security APIKey
// @Accept json
// @Produce json
// @Param world_id path int true "世界ID"
// @Param request body service.CreateDungeonRequest true "地牢属性"
// @Success 201 {object} Response
// @Failure 409 {object} ErrorResponse
// @Router /dungeon/create_dungeon/{world_id} [post]
func (h *DungeonHandler) CreateDungeon(c *gin.Context) {
	worldID, ok := pathID(c, "world_id")
	if !ok {
		return
	}

	var req service.CreateDungeonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	dungeon, err := h.dungeons.CreateDungeon(c.Request.Context(), worldID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondCreated(c, "地牢已创建", gin.H{"dungeon_id": dungeon.ID})
}

// CreateMonster 批量创建怪物，请求体可以是数组或单个对象
// @Summary 创建怪物
// @Tags Dungeon
// @Security APIKey
// @Accept json
// @Produce json
// @Param dungeon_id path int true "地牢ID"
// @Param request body []service.MonsterSpec true "怪物列表"
// @Success 201 {object} Response
// @Failure 409 {object} ErrorResponse
// @Router /dungeon/create_monster/{dungeon_id} [post]
func (h *DungeonHandler) CreateMonster(c *gin.Context) {
	dungeonID, ok := pathID(c, "dungeon_id")
	if !ok {
		return
	}

	specs, err := bindMonsterSpecs(c)
	if err != nil {
		respondBindError(c, err)
		return
	}

	monsters, err := h.dungeons.CreateMonsters(c.Request.Context(), dungeonID, specs)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	ids := make([]uint, 0, len(monsters))
	for _, m := range monsters {
		ids = append(ids, m.ID)
	}
	respondCreated(c, "怪物已创建", gin.H{"monster_ids": ids})
}

// bindMonsterSpecs 解析并校验怪物列表
func bindMonsterSpecs(c *gin.Context) ([]service.MonsterSpec, error) {
	body, err := c.GetRawData()
	if err != nil {
		return nil, err
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, errors.New("请求体不能为空")
	}

	var specs []service.MonsterSpec
	if body[0] == '[' {
		if err := json.Unmarshal(body, &specs); err != nil {
			return nil, err
		}
	} else {
		var one service.MonsterSpec
		if err := json.Unmarshal(body, &one); err != nil {
			return nil, err
		}
		specs = append(specs, one)
	}

	for i := range specs {
		if err := binding.Validator.ValidateStruct(&specs[i]); err != nil {
			return nil, err
		}
	}
	return specs, nil
}

// CollectBounty 领取赏金
// @Summary 领取赏金
// @Description 地牢已关闭且没有存活怪物时发放奖励，只能领取一次
// @Tags Dungeon
// @Security APIKey
// @Produce json
// @Param guild_id path int true "公会ID"
// @Param dungeon_id query int true "地牢ID"
// @Success 200 {object} Response
// @Failure 409 {object} ErrorResponse
// @Router /dungeon/collect_bounty/{guild_id} [post]
func (h *DungeonHandler) CollectBounty(c *gin.Context) {
	guildID, ok := pathID(c, "guild_id")
	if !ok {
		return
	}
	dungeonID, ok := queryID(c, "dungeon_id")
	if !ok {
		return
	}

	result, err := h.dungeons.CollectBounty(c.Request.Context(), guildID, dungeonID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "赏金已领取", result)
}

// AssessDamage 查看阵亡英雄
// @Summary 查看阵亡英雄
// @Tags Dungeon
// @Security APIKey
// @Produce json
// @Param dungeon_id path int true "地牢ID"
// @Param guild_id query int true "公会ID"
// @Success 200 {object} Response
// @Router /dungeon/assess_damage/{dungeon_id} [get]
func (h *DungeonHandler) AssessDamage(c *gin.Context) {
	dungeonID, ok := pathID(c, "dungeon_id")
	if !ok {
		return
	}
	guildID, ok := queryID(c, "guild_id")
	if !ok {
		return
	}

	heroes, err := h.dungeons.AssessDamage(c.Request.Context(), guildID, dungeonID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "", heroes)
}
