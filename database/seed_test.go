package database

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/sahilchouksey/go-institutions/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *GORMStore {
	t.Helper()
	store, err := Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)
	sqlDB, err := store.GetDB().DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Init())
	return store
}

func TestInitAndHealthCheck(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.HealthCheck())

	for _, m := range Models() {
		assert.True(t, store.GetDB().Migrator().HasTable(m), "%T", m)
	}
	assert.True(t, store.GetDB().Migrator().HasTable("workgroup_programs"))
}

func TestRunSeedsIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	db := store.GetDB()

	require.NoError(t, RunSeeds(db))
	require.NoError(t, RunSeeds(db))

	var types, titles int64
	require.NoError(t, db.Model(&model.FundingType{}).Count(&types).Error)
	require.NoError(t, db.Model(&model.LeadershipTitle{}).Count(&titles).Error)
	assert.Equal(t, int64(len(DefaultFundingTypes)), types)
	assert.Equal(t, int64(len(DefaultLeadershipTitles)), titles)

	var pi model.LeadershipTitle
	require.NoError(t, db.Where("title = ?", "Principal Investigator").First(&pi).Error)
	require.NotNil(t, pi.TitleAbbrev)
	assert.Equal(t, "PI", *pi.TitleAbbrev)
}
