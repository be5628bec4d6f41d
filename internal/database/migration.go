package database

import (
	"fmt"

	"github.com/wfunc/last-crusade/internal/config"
	"github.com/wfunc/last-crusade/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AutoMigrate 自动迁移数据库表结构
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	if db == nil {
		return fmt.Errorf("数据库未初始化")
	}

	// 文件型SQLite需要防止多个进程同时迁移
	if path := sqliteFilePath(db); path != "" {
		lockFile, err := acquireMigrationLock(path, log)
		if err != nil {
			return fmt.Errorf("获取迁移锁失败: %w", err)
		}
		defer releaseMigrationLock(lockFile, log)
	}

	log.Info("开始数据库迁移...")

	for _, model := range models.All() {
		if err := db.AutoMigrate(model); err != nil {
			log.Error("迁移失败",
				zap.String("model", fmt.Sprintf("%T", model)),
				zap.Error(err),
			)
			return err
		}
		log.Debug("迁移成功", zap.String("model", fmt.Sprintf("%T", model)))
	}

	createIndexes(db, log)

	log.Info("数据库迁移完成")
	return nil
}

// createIndexes 创建查询热点上的组合索引
func createIndexes(db *gorm.DB, log *zap.Logger) {
	indexes := map[string]string{
		"idx_hero_guild_dungeon":    "CREATE INDEX IF NOT EXISTS idx_hero_guild_dungeon ON hero(guild_id, dungeon_id)",
		"idx_monster_dungeon_hp":    "CREATE INDEX IF NOT EXISTS idx_monster_dungeon_hp ON monster(dungeon_id, health)",
		"idx_targeting_hero_kind":   "CREATE INDEX IF NOT EXISTS idx_targeting_hero_kind ON targeting(hero_id, attacker)",
		"idx_recruitment_hero_guild": "CREATE INDEX IF NOT EXISTS idx_recruitment_hero_guild ON recruitment(hero_id, guild_id, status)",
	}

	// MySQL 不支持 IF NOT EXISTS 语法，索引交给 AutoMigrate 的单列索引
	if db.Dialector.Name() == "mysql" {
		return
	}

	for name, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			log.Warn("创建索引失败", zap.String("index", name), zap.Error(err))
		}
	}
}

// SeedWorlds 按名称补齐配置中的世界，已存在的世界不会被修改
func SeedWorlds(db *gorm.DB, seeds []config.WorldSeed, log *zap.Logger) error {
	for _, seed := range seeds {
		world := models.World{
			Name:            seed.Name,
			GuildCapacity:   seed.GuildCapacity,
			DungeonCapacity: seed.DungeonCapacity,
		}
		result := db.Where(models.World{Name: seed.Name}).FirstOrCreate(&world)
		if result.Error != nil {
			return fmt.Errorf("初始化世界 %s 失败: %w", seed.Name, result.Error)
		}
		if result.RowsAffected > 0 {
			log.Info("创建世界", zap.String("name", seed.Name), zap.Uint("id", world.ID))
		}
	}
	return nil
}
