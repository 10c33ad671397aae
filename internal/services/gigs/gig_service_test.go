package gigs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gigflow/gigflow_be/internal/apperr"
	"github.com/gigflow/gigflow_be/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(&models.User{}, &models.Gig{}, &models.Bid{}))
	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, name string) models.User {
	t.Helper()
	u := models.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "x",
		Role:     models.RoleUser,
		IsActive: true,
	}
	require.NoError(t, gdb.Create(&u).Error)
	return u
}

func principal(u models.User) models.Principal {
	return models.Principal{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func floatPtr(v float64) *float64 { return &v }

func TestCreate_OpensGigForOwner(t *testing.T) {
	gdb := openTestDB(t)
	svc := NewService(gdb)
	owner := seedUser(t, gdb, "alice")

	gig, err := svc.Create(principal(owner), CreateGigInput{
		Title:       "Build site",
		Description: "A landing page",
		Budget:      floatPtr(1000),
	})

	require.NoError(t, err)
	assert.Equal(t, models.GigStatusOpen, gig.Status)
	assert.Equal(t, owner.ID, gig.OwnerID)
	assert.Equal(t, 1000.0, gig.Budget)
	require.NotNil(t, gig.Owner)
	assert.Equal(t, "alice", gig.Owner.Name)
}

func TestCreate_ZeroBudgetAllowed(t *testing.T) {
	gdb := openTestDB(t)
	svc := NewService(gdb)
	owner := seedUser(t, gdb, "alice")

	gig, err := svc.Create(principal(owner), CreateGigInput{
		Title:       "Volunteer work",
		Description: "No pay",
		Budget:      floatPtr(0),
	})

	require.NoError(t, err)
	assert.Equal(t, 0.0, gig.Budget)
}

func TestCreate_ValidationErrors(t *testing.T) {
	gdb := openTestDB(t)
	svc := NewService(gdb)
	owner := seedUser(t, gdb, "alice")

	cases := []struct {
		name string
		in   CreateGigInput
	}{
		{"missing title", CreateGigInput{Description: "d", Budget: floatPtr(10)}},
		{"blank title", CreateGigInput{Title: "   ", Description: "d", Budget: floatPtr(10)}},
		{"missing description", CreateGigInput{Title: "t", Budget: floatPtr(10)}},
		{"missing budget", CreateGigInput{Title: "t", Description: "d"}},
		{"negative budget", CreateGigInput{Title: "t", Description: "d", Budget: floatPtr(-1)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(principal(owner), tc.in)
			assert.True(t, apperr.IsKind(err, apperr.KindValidation), "want validation error, got %v", err)
		})
	}

	// no records written by failed attempts
	var count int64
	require.NoError(t, gdb.Model(&models.Gig{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestListOpen_ExcludesAssignedAndFilters(t *testing.T) {
	gdb := openTestDB(t)
	svc := NewService(gdb)
	owner := seedUser(t, gdb, "alice")

	now := time.Now()
	seed := []models.Gig{
		{Title: "Build a website", Description: "d", Budget: 100, OwnerID: owner.ID, Status: models.GigStatusOpen, CreatedAt: now.Add(-3 * time.Hour)},
		{Title: "Logo DESIGN", Description: "d", Budget: 100, OwnerID: owner.ID, Status: models.GigStatusOpen, CreatedAt: now.Add(-2 * time.Hour)},
		{Title: "Website redesign", Description: "d", Budget: 100, OwnerID: owner.ID, Status: models.GigStatusAssigned, CreatedAt: now.Add(-1 * time.Hour)},
	}
	for i := range seed {
		require.NoError(t, gdb.Create(&seed[i]).Error)
	}

	all, err := svc.ListOpen("")
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, g := range all {
		assert.Equal(t, models.GigStatusOpen, g.Status)
	}
	// newest first
	assert.Equal(t, "Logo DESIGN", all[0].Title)

	filtered, err := svc.ListOpen("design")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Logo DESIGN", filtered[0].Title)
}

func TestListOpen_SearchMatchesLikeMetacharactersLiterally(t *testing.T) {
	gdb := openTestDB(t)
	svc := NewService(gdb)
	owner := seedUser(t, gdb, "alice")

	seed := []models.Gig{
		{Title: "100% cotton tote design", Description: "d", Budget: 100, OwnerID: owner.ID, Status: models.GigStatusOpen},
		{Title: "1000 product photos", Description: "d", Budget: 100, OwnerID: owner.ID, Status: models.GigStatusOpen},
		{Title: "snake_case linter", Description: "d", Budget: 100, OwnerID: owner.ID, Status: models.GigStatusOpen},
		{Title: "snakeXcase cleanup", Description: "d", Budget: 100, OwnerID: owner.ID, Status: models.GigStatusOpen},
	}
	for i := range seed {
		require.NoError(t, gdb.Create(&seed[i]).Error)
	}

	// "100%" must not act as a wildcard for "1000 ..."
	byPercent, err := svc.ListOpen("100%")
	require.NoError(t, err)
	require.Len(t, byPercent, 1)
	assert.Equal(t, "100% cotton tote design", byPercent[0].Title)

	// "_" must not match any single character
	byUnderscore, err := svc.ListOpen("snake_case")
	require.NoError(t, err)
	require.Len(t, byUnderscore, 1)
	assert.Equal(t, "snake_case linter", byUnderscore[0].Title)
}

func TestListMine_AllStatusesNewestFirst(t *testing.T) {
	gdb := openTestDB(t)
	svc := NewService(gdb)
	owner := seedUser(t, gdb, "alice")
	other := seedUser(t, gdb, "bob")

	now := time.Now()
	seed := []models.Gig{
		{Title: "old", Description: "d", Budget: 1, OwnerID: owner.ID, Status: models.GigStatusAssigned, CreatedAt: now.Add(-2 * time.Hour)},
		{Title: "new", Description: "d", Budget: 1, OwnerID: owner.ID, Status: models.GigStatusOpen, CreatedAt: now.Add(-1 * time.Hour)},
		{Title: "bobs", Description: "d", Budget: 1, OwnerID: other.ID, Status: models.GigStatusOpen, CreatedAt: now},
	}
	for i := range seed {
		require.NoError(t, gdb.Create(&seed[i]).Error)
	}

	mine, err := svc.ListMine(owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "new", mine[0].Title)
	assert.Equal(t, "old", mine[1].Title)
}

func TestAssignIfOpen_SecondCallConflicts(t *testing.T) {
	gdb := openTestDB(t)
	svc := NewService(gdb)
	owner := seedUser(t, gdb, "alice")

	gig := models.Gig{Title: "t", Description: "d", Budget: 1, OwnerID: owner.ID, Status: models.GigStatusOpen}
	require.NoError(t, gdb.Create(&gig).Error)

	require.NoError(t, svc.AssignIfOpen(gdb, gig.ID))

	err := svc.AssignIfOpen(gdb, gig.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict), "want conflict, got %v", err)

	var reloaded models.Gig
	require.NoError(t, gdb.First(&reloaded, "id = ?", gig.ID).Error)
	assert.Equal(t, models.GigStatusAssigned, reloaded.Status)
}

func TestAssignIfOpen_UnknownGigConflicts(t *testing.T) {
	gdb := openTestDB(t)
	svc := NewService(gdb)

	err := svc.AssignIfOpen(gdb, uuid.New())
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}
