package services

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/sahilchouksey/go-institutions/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database with foreign keys enforced.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.LeadershipTitle{},
		&model.FundingType{},
		&model.Institution{},
		&model.Department{},
		&model.Program{},
		&model.Workgroup{},
		&model.Funding{},
		&model.CronJobLog{},
	))
	return db
}

type fixture struct {
	t   *testing.T
	ctx context.Context
	db  *gorm.DB

	institutions *InstitutionService
	departments  *DepartmentService
	programs     *ProgramService
	titles       *LeadershipTitleService
	workgroups   *WorkgroupService
	fundingTypes *FundingTypeService
	funding      *FundingService
	users        *UserService
}

func newFixture(t *testing.T) *fixture {
	db := newTestDB(t)
	return &fixture{
		t:            t,
		ctx:          context.Background(),
		db:           db,
		institutions: NewInstitutionService(db),
		departments:  NewDepartmentService(db),
		programs:     NewProgramService(db),
		titles:       NewLeadershipTitleService(db),
		workgroups:   NewWorkgroupService(db),
		fundingTypes: NewFundingTypeService(db),
		funding:      NewFundingService(db),
		users:        NewUserService(db),
	}
}

func (f *fixture) user(name string) *model.User {
	f.t.Helper()
	u, err := f.users.Create(f.ctx, UserInput{Username: name, Email: name + "@example.edu"})
	require.NoError(f.t, err)
	return u
}

func (f *fixture) institution(name, short string, parent *model.Institution) *model.Institution {
	f.t.Helper()
	in := InstitutionInput{Name: name, ShortName: short}
	if parent != nil {
		in.ParentID = &parent.ID
	}
	inst, err := f.institutions.Create(f.ctx, in)
	require.NoError(f.t, err)
	return inst
}

func (f *fixture) department(inst *model.Institution, chair *model.User, name, abbrev string) *model.Department {
	f.t.Helper()
	d, err := f.departments.Create(f.ctx, UnitInput{
		InstitutionID: inst.ID, ChairID: chair.ID, Name: name, Abbreviation: abbrev,
	})
	require.NoError(f.t, err)
	return d
}

func (f *fixture) program(inst *model.Institution, chair *model.User, name, abbrev string) *model.Program {
	f.t.Helper()
	p, err := f.programs.Create(f.ctx, UnitInput{
		InstitutionID: inst.ID, ChairID: chair.ID, Name: name, Abbreviation: abbrev,
	})
	require.NoError(f.t, err)
	return p
}

func (f *fixture) title(name string) *model.LeadershipTitle {
	f.t.Helper()
	lt, err := f.titles.Create(f.ctx, LeadershipTitleInput{Title: name})
	require.NoError(f.t, err)
	return lt
}

func (f *fixture) fundingType(name string) *model.FundingType {
	f.t.Helper()
	ft, err := f.fundingTypes.Create(f.ctx, FundingTypeInput{Name: name})
	require.NoError(f.t, err)
	return ft
}

func (f *fixture) award(to *model.User, ft *model.FundingType, deptID, endDate string) *model.Funding {
	f.t.Helper()
	award, err := f.funding.Create(f.ctx, FundingInput{
		AwardedToID:   to.ID,
		FundingTypeID: ft.ID,
		FundingSource: "NIH",
		Name:          "Study of " + deptID,
		ShortName:     "R01",
		Number:        model.NoAwardNumber,
		DeptID:        deptID,
		StartDate:     "2015-01-01",
		EndDate:       endDate,
	})
	require.NoError(f.t, err)
	return award
}
