package api

import (
	"github.com/gin-gonic/gin"
	"github.com/wfunc/last-crusade/internal/service"
	"go.uber.org/zap"
)

// GuildHandler 公会处理器
type GuildHandler struct {
	guilds service.GuildService
	logger *zap.Logger
}

// NewGuildHandler 创建公会处理器
func NewGuildHandler(guilds service.GuildService, logger *zap.Logger) *GuildHandler {
	return &GuildHandler{guilds: guilds, logger: logger}
}

// CreateGuild 创建公会
// @Summary 创建公会
// @Description 世界的公会数量达到上限或名称重复时失败
// @Tags Guild
// @Security APIKey
// @Accept json
// @Produce json
// @Param world_id path int true "世界ID"
// @Param request body service.CreateGuildRequest true "公会属性"
// @Success 201 {object} Response
// @Failure 409 {object} ErrorResponse
// @Router /guild/create_guild/{world_id} [post]
func (h *GuildHandler) CreateGuild(c *gin.Context) {
	worldID, ok := pathID(c, "world_id")
	if !ok {
		return
	}

	var req service.CreateGuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	guild, err := h.guilds.CreateGuild(c.Request.Context(), worldID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondCreated(c, "公会已创建", gin.H{"guild_id": guild.ID})
}

// RecruitHero 招募英雄
// @Summary 招募英雄
// @Tags Guild
// @Security APIKey
// @Accept json
// @Produce json
// @Param guild_id path int true "公会ID"
// @Param request body service.RecruitHeroRequest true "英雄名称"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Router /guild/recruit_hero/{guild_id} [post]
func (h *GuildHandler) RecruitHero(c *gin.Context) {
	guildID, ok := pathID(c, "guild_id")
	if !ok {
		return
	}

	var req service.RecruitHeroRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	rec, err := h.guilds.RecruitHero(c.Request.Context(), guildID, req.HeroName)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "邀请已发出", gin.H{"recruitment_id": rec.ID, "status": rec.Status})
}

// AvailableHeroes 公会中空闲的英雄
// @Summary 空闲英雄
// @Tags Guild
// @Security APIKey
// @Produce json
// @Param guild_id path int true "公会ID"
// @Success 200 {object} Response
// @Router /guild/available_heroes/{guild_id} [get]
func (h *GuildHandler) AvailableHeroes(c *gin.Context) {
	guildID, ok := pathID(c, "guild_id")
	if !ok {
		return
	}

	heroes, err := h.guilds.AvailableHeroes(c.Request.Context(), guildID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "", heroes)
}

// RemoveHeroes 移除阵亡英雄
// @Summary 移除阵亡英雄
// @Description 只移除名单中生命值不大于0的公会成员，其他名称忽略
// @Tags Guild
// @Security APIKey
// @Accept json
// @Produce json
// @Param guild_id path int true "公会ID"
// @Param request body service.RemoveHeroesRequest true "英雄名单"
// @Success 200 {object} Response
// @Router /guild/remove_heroes/{guild_id} [post]
func (h *GuildHandler) RemoveHeroes(c *gin.Context) {
	guildID, ok := pathID(c, "guild_id")
	if !ok {
		return
	}

	var req service.RemoveHeroesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.guilds.RemoveDeadHeroes(c.Request.Context(), guildID, req.Heroes)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "", result)
}

// SendParty 派遣队伍
// @Summary 派遣队伍
// @Description 任一英雄无法出征时整体失败
// @Tags Guild
// @Security APIKey
// @Accept json
// @Produce json
// @Param guild_id path int true "公会ID"
// @Param dungeon_name query string true "地牢名称"
// @Param request body service.SendPartyRequest true "队伍"
// @Success 200 {object} Response
// @Failure 409 {object} ErrorResponse
// @Router /guild/send_party/{guild_id} [post]
func (h *GuildHandler) SendParty(c *gin.Context) {
	guildID, ok := pathID(c, "guild_id")
	if !ok {
		return
	}
	dungeonName, ok := requiredQuery(c, "dungeon_name")
	if !ok {
		return
	}

	var req service.SendPartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.guilds.SendParty(c.Request.Context(), guildID, dungeonName, req.Party)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "队伍已出征", result)
}

// Leaderboard 公会排行榜
// @Summary 公会排行榜
// @Tags Guild
// @Security APIKey
// @Produce json
// @Success 200 {object} Response
// @Router /guild/leaderboard [get]
func (h *GuildHandler) Leaderboard(c *gin.Context) {
	entries, err := h.guilds.Leaderboard(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "", entries)
}
