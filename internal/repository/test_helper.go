package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wfunc/last-crusade/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB 为测试套件创建内存数据库
func SetupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		panic(err)
	}

	// 每个内存连接都是独立的数据库，只保留一个连接
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(models.All()...); err != nil {
		panic(err)
	}

	return db
}

// CleanupTestDB 清理测试数据库
func CleanupTestDB(db *gorm.DB) {
	sqlDB, _ := db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}
}

// CreateTestWorld 创建测试世界
func CreateTestWorld(t *testing.T, db *gorm.DB, name string, guildCap, dungeonCap int) *models.World {
	world := &models.World{Name: name, GuildCapacity: guildCap, DungeonCapacity: dungeonCap}
	require.NoError(t, db.Create(world).Error)
	return world
}

// CreateTestGuild 创建测试公会
func CreateTestGuild(t *testing.T, db *gorm.DB, worldID uint, name string, capacity int) *models.Guild {
	guild := &models.Guild{Name: name, WorldID: worldID, PlayerCapacity: capacity}
	require.NoError(t, db.Create(guild).Error)
	return guild
}

// CreateTestHero 创建测试英雄，guild为nil时不加入公会
func CreateTestHero(t *testing.T, db *gorm.DB, worldID uint, guild *models.Guild, name string, power, health int) *models.Hero {
	hero := &models.Hero{
		Name:    name,
		Level:   1,
		Power:   power,
		Health:  health,
		WorldID: worldID,
		Status:  models.HeroStatusAlive,
	}
	if guild != nil {
		hero.GuildID = &guild.ID
	}
	require.NoError(t, db.Create(hero).Error)
	return hero
}

// CreateTestDungeon 创建测试地牢
func CreateTestDungeon(t *testing.T, db *gorm.DB, worldID uint, name, status string, partyCap, monsterCap int, reward int64) *models.Dungeon {
	dungeon := &models.Dungeon{
		Name:            name,
		WorldID:         worldID,
		Level:           1,
		PartyCapacity:   partyCap,
		MonsterCapacity: monsterCap,
		GoldReward:      reward,
		Status:          status,
	}
	require.NoError(t, db.Create(dungeon).Error)
	return dungeon
}

// CreateTestMonster 创建测试怪物
func CreateTestMonster(t *testing.T, db *gorm.DB, dungeonID uint, kind string, health, power, level int) *models.Monster {
	monster := &models.Monster{Type: kind, Health: health, Power: power, Level: level, DungeonID: dungeonID}
	require.NoError(t, db.Create(monster).Error)
	return monster
}

// PutInDungeon 直接设置英雄所在地牢
func PutInDungeon(t *testing.T, db *gorm.DB, hero *models.Hero, dungeonID uint) {
	require.NoError(t, db.Model(hero).Update("dungeon_id", dungeonID).Error)
	hero.DungeonID = &dungeonID
}
