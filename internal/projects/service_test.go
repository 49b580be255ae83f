package projects_test

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/hugh/go-collab/internal/database/models"
	"github.com/hugh/go-collab/internal/membership"
	"github.com/hugh/go-collab/internal/projects"
	"github.com/hugh/go-collab/internal/testutil"
	"github.com/hugh/go-collab/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T, db *gorm.DB) *projects.Service {
	t.Helper()
	log := util.DiscardLogger()
	return projects.NewService(db, membership.NewService(db, log), nil, log)
}

func TestService_CreateProject(t *testing.T) {
	ctx := testutil.TestContext(t)
	db := testutil.SetupTestDB(t)
	svc := newTestService(t, db)
	members := membership.NewService(db, util.DiscardLogger())

	alice := testutil.CreateTestUser(t, db, "alice")

	project, err := svc.CreateProject(ctx, projects.CreateProjectInput{
		Name:        "P1",
		Description: "d",
		OwnerID:     alice.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, project.OwnerID)
	assert.False(t, project.CreatedAt.IsZero())

	t.Run("owner membership is created with the project", func(t *testing.T) {
		role, err := members.Role(ctx, alice.ID, project.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RoleOwner, role)

		ok, err := members.IsParticipant(ctx, alice.ID, project.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		_, err = members.AddMember(ctx, alice.ID, project.ID, models.RoleParticipant)
		assert.ErrorIs(t, err, membership.ErrAlreadyMember)
	})

	t.Run("duplicate name", func(t *testing.T) {
		_, err := svc.CreateProject(ctx, projects.CreateProjectInput{Name: "P1", OwnerID: alice.ID})
		assert.ErrorIs(t, err, projects.ErrDuplicateProject)

		var count int64
		require.NoError(t, db.Model(&models.Project{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("no project without its owner membership", func(t *testing.T) {
		// Make the membership insert fail.
		require.NoError(t, db.Migrator().DropTable(&models.Membership{}))
		t.Cleanup(func() { _ = db.Migrator().CreateTable(&models.Membership{}) })

		_, err := svc.CreateProject(ctx, projects.CreateProjectInput{Name: "P2", OwnerID: alice.ID})
		require.Error(t, err)

		var count int64
		require.NoError(t, db.Model(&models.Project{}).Where("name = ?", "P2").Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})
}

func TestService_GetAndListProjects(t *testing.T) {
	ctx := testutil.TestContext(t)
	db := testutil.SetupTestDB(t)
	svc := newTestService(t, db)

	alice := testutil.CreateTestUser(t, db, "alice")
	bob := testutil.CreateTestUser(t, db, "bob")
	p1 := testutil.CreateTestProject(t, db, alice, "P1")
	testutil.CreateTestProject(t, db, alice, "P2")
	p3 := testutil.CreateTestProject(t, db, bob, "P3")
	testutil.AddTestMember(t, db, alice, p3, models.RoleParticipant)

	got, err := svc.GetProject(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, "P1", got.Name)

	_, err = svc.GetProject(ctx, uuid.New())
	assert.ErrorIs(t, err, membership.ErrProjectNotFound)

	list, total, err := svc.ListProjects(ctx, alice.ID, projects.Page{Offset: 0, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, list, 2)

	list, total, err = svc.ListProjects(ctx, bob.ID, projects.Page{Offset: 0, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, p3.ID, list[0].ID)
}

func TestService_UpdateProject(t *testing.T) {
	ctx := testutil.TestContext(t)
	db := testutil.SetupTestDB(t)
	svc := newTestService(t, db)

	alice := testutil.CreateTestUser(t, db, "alice")
	bob := testutil.CreateTestUser(t, db, "bob")
	stranger := testutil.CreateTestUser(t, db, "stranger")
	project := testutil.CreateTestProject(t, db, alice, "P1")
	testutil.CreateTestProject(t, db, alice, "Taken")
	testutil.AddTestMember(t, db, bob, project, models.RoleParticipant)

	name := "Renamed"
	desc := "new description"

	t.Run("participant may update and is stamped", func(t *testing.T) {
		updated, err := svc.UpdateProject(ctx, projects.UpdateProjectInput{
			ProjectID:   project.ID,
			Name:        &name,
			Description: &desc,
			ModifiedBy:  bob.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
		assert.Equal(t, "new description", updated.Description)
		require.NotNil(t, updated.ModifiedBy)
		assert.Equal(t, bob.ID, *updated.ModifiedBy)
		assert.Equal(t, alice.ID, updated.OwnerID)
		assert.False(t, updated.UpdatedAt.Before(project.UpdatedAt))
	})

	t.Run("non member is rejected", func(t *testing.T) {
		_, err := svc.UpdateProject(ctx, projects.UpdateProjectInput{
			ProjectID:   project.ID,
			Description: &desc,
			ModifiedBy:  stranger.ID,
		})
		assert.ErrorIs(t, err, membership.ErrNotAuthorized)
	})

	t.Run("unknown project", func(t *testing.T) {
		_, err := svc.UpdateProject(ctx, projects.UpdateProjectInput{
			ProjectID:  uuid.New(),
			ModifiedBy: alice.ID,
		})
		assert.ErrorIs(t, err, membership.ErrProjectNotFound)
	})

	t.Run("rename to an existing name", func(t *testing.T) {
		taken := "Taken"
		_, err := svc.UpdateProject(ctx, projects.UpdateProjectInput{
			ProjectID:  project.ID,
			Name:       &taken,
			ModifiedBy: alice.ID,
		})
		assert.ErrorIs(t, err, projects.ErrDuplicateProject)
	})
}

func TestService_DeleteProject(t *testing.T) {
	ctx := testutil.TestContext(t)
	db := testutil.SetupTestDB(t)
	svc := newTestService(t, db)

	alice := testutil.CreateTestUser(t, db, "alice")
	admin := testutil.CreateTestUser(t, db, "admin")
	bob := testutil.CreateTestUser(t, db, "bob")

	t.Run("participant cannot delete", func(t *testing.T) {
		project := testutil.CreateTestProject(t, db, alice, "P1")
		testutil.AddTestMember(t, db, bob, project, models.RoleParticipant)

		err := svc.DeleteProject(ctx, project.ID, bob.ID)
		assert.ErrorIs(t, err, membership.ErrNotAuthorized)

		_, err = svc.GetProject(ctx, project.ID)
		assert.NoError(t, err)
	})

	t.Run("admin deletes project with documents and memberships", func(t *testing.T) {
		project := testutil.CreateTestProject(t, db, alice, "P2")
		testutil.AddTestMember(t, db, admin, project, models.RoleAdmin)
		testutil.CreateTestDocument(t, db, project, alice, "a.md")

		require.NoError(t, svc.DeleteProject(ctx, project.ID, admin.ID))

		_, err := svc.GetProject(ctx, project.ID)
		assert.ErrorIs(t, err, membership.ErrProjectNotFound)

		var docs, memberships int64
		require.NoError(t, db.Model(&models.Document{}).Where("project_id = ?", project.ID).Count(&docs).Error)
		require.NoError(t, db.Model(&models.Membership{}).Where("project_id = ?", project.ID).Count(&memberships).Error)
		assert.Zero(t, docs)
		assert.Zero(t, memberships)
	})

	t.Run("owner can delete", func(t *testing.T) {
		project := testutil.CreateTestProject(t, db, alice, "P3")
		require.NoError(t, svc.DeleteProject(ctx, project.ID, alice.ID))
	})

	t.Run("unknown project", func(t *testing.T) {
		err := svc.DeleteProject(ctx, uuid.New(), alice.ID)
		assert.ErrorIs(t, err, membership.ErrProjectNotFound)
	})
}

func TestService_StorageFailure(t *testing.T) {
	ctx := testutil.TestContext(t)

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	svc := newTestService(t, db)

	// No expectations are registered, so every statement fails.
	_, err = svc.GetProject(ctx, uuid.New())
	require.Error(t, err)
	assert.NotErrorIs(t, err, membership.ErrProjectNotFound)

	err = svc.DeleteProject(ctx, uuid.New(), uuid.New())
	require.Error(t, err)
	assert.NotErrorIs(t, err, membership.ErrNotAuthorized)

	assert.NoError(t, mock.ExpectationsWereMet())
}
