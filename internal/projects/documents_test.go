package projects_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/go-collab/internal/blobstore"
	"github.com/hugh/go-collab/internal/database/models"
	"github.com/hugh/go-collab/internal/membership"
	"github.com/hugh/go-collab/internal/projects"
	"github.com/hugh/go-collab/internal/testutil"
	"github.com/hugh/go-collab/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSigner struct {
	keys []string
}

func (f *fakeSigner) PresignGet(_ context.Context, key string) (*blobstore.PresignedURL, error) {
	f.keys = append(f.keys, key)
	return &blobstore.PresignedURL{
		URL:       "https://storage.test/" + key + "?sig=1",
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}, nil
}

func TestService_CreateDocument(t *testing.T) {
	ctx := testutil.TestContext(t)
	db := testutil.SetupTestDB(t)
	svc := newTestService(t, db)

	alice := testutil.CreateTestUser(t, db, "alice")
	stranger := testutil.CreateTestUser(t, db, "stranger")
	project := testutil.CreateTestProject(t, db, alice, "P1")

	t.Run("member creates document", func(t *testing.T) {
		doc, err := svc.CreateDocument(ctx, projects.CreateDocumentInput{
			Name:      "spec.md",
			Type:      "text/markdown",
			Path:      "docs/spec.md",
			ProjectID: project.ID,
			UserID:    alice.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, "docs/spec.md", doc.Path)
		assert.Equal(t, alice.ID, doc.ModifiedBy)
	})

	t.Run("missing path gets a generated key", func(t *testing.T) {
		doc, err := svc.CreateDocument(ctx, projects.CreateDocumentInput{
			Name:      "notes.md",
			ProjectID: project.ID,
			UserID:    alice.ID,
		})
		require.NoError(t, err)
		assert.Contains(t, doc.Path, project.ID.String())
	})

	t.Run("non member is rejected", func(t *testing.T) {
		_, err := svc.CreateDocument(ctx, projects.CreateDocumentInput{
			Name:      "x.md",
			ProjectID: project.ID,
			UserID:    stranger.ID,
		})
		assert.ErrorIs(t, err, membership.ErrNotAuthorized)
	})

	t.Run("unknown project", func(t *testing.T) {
		_, err := svc.CreateDocument(ctx, projects.CreateDocumentInput{
			Name:      "x.md",
			ProjectID: uuid.New(),
			UserID:    alice.ID,
		})
		assert.ErrorIs(t, err, membership.ErrProjectNotFound)
	})
}

func TestService_UpdateDocument(t *testing.T) {
	ctx := testutil.TestContext(t)
	db := testutil.SetupTestDB(t)
	svc := newTestService(t, db)

	alice := testutil.CreateTestUser(t, db, "alice")
	bob := testutil.CreateTestUser(t, db, "bob")
	stranger := testutil.CreateTestUser(t, db, "stranger")
	project := testutil.CreateTestProject(t, db, alice, "P1")
	other := testutil.CreateTestProject(t, db, alice, "P2")
	foreign := testutil.CreateTestProject(t, db, stranger, "P3")
	testutil.AddTestMember(t, db, bob, project, models.RoleParticipant)
	doc := testutil.CreateTestDocument(t, db, project, alice, "a.md")

	t.Run("update stamps the editor", func(t *testing.T) {
		name := "b.md"
		updated, err := svc.UpdateDocument(ctx, projects.UpdateDocumentInput{
			DocumentID: doc.ID,
			Name:       &name,
			UserID:     bob.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, "b.md", updated.Name)
		assert.Equal(t, bob.ID, updated.ModifiedBy)
	})

	t.Run("non member is rejected", func(t *testing.T) {
		name := "c.md"
		_, err := svc.UpdateDocument(ctx, projects.UpdateDocumentInput{
			DocumentID: doc.ID,
			Name:       &name,
			UserID:     stranger.ID,
		})
		assert.ErrorIs(t, err, membership.ErrNotAuthorized)
	})

	t.Run("move needs rights on the target project", func(t *testing.T) {
		_, err := svc.UpdateDocument(ctx, projects.UpdateDocumentInput{
			DocumentID: doc.ID,
			ProjectID:  &foreign.ID,
			UserID:     alice.ID,
		})
		assert.ErrorIs(t, err, membership.ErrNotAuthorized)

		moved, err := svc.UpdateDocument(ctx, projects.UpdateDocumentInput{
			DocumentID: doc.ID,
			ProjectID:  &other.ID,
			UserID:     alice.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, other.ID, moved.ProjectID)
	})

	t.Run("unknown document", func(t *testing.T) {
		_, err := svc.UpdateDocument(ctx, projects.UpdateDocumentInput{
			DocumentID: uuid.New(),
			UserID:     alice.ID,
		})
		assert.ErrorIs(t, err, projects.ErrDocumentNotFound)
	})
}

func TestService_ReadDocuments(t *testing.T) {
	ctx := testutil.TestContext(t)
	db := testutil.SetupTestDB(t)
	signer := &fakeSigner{}
	log := util.DiscardLogger()
	svc := projects.NewService(db, membership.NewService(db, log), signer, log)

	alice := testutil.CreateTestUser(t, db, "alice")
	stranger := testutil.CreateTestUser(t, db, "stranger")
	project := testutil.CreateTestProject(t, db, alice, "P1")
	doc := testutil.CreateTestDocument(t, db, project, alice, "a.md")
	testutil.CreateTestDocument(t, db, project, alice, "b.md")
	testutil.CreateTestDocument(t, db, project, alice, "c.md")

	t.Run("get", func(t *testing.T) {
		got, err := svc.GetDocument(ctx, doc.ID, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, doc.Path, got.Path)

		_, err = svc.GetDocument(ctx, doc.ID, stranger.ID)
		assert.ErrorIs(t, err, membership.ErrNotAuthorized)

		_, err = svc.GetDocument(ctx, uuid.New(), alice.ID)
		assert.ErrorIs(t, err, projects.ErrDocumentNotFound)
	})

	t.Run("list", func(t *testing.T) {
		docs, total, err := svc.ListProjectDocuments(ctx, project.ID, projects.Page{Offset: 2, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, docs, 1)
	})

	t.Run("download link", func(t *testing.T) {
		link, err := svc.DocumentDownloadURL(ctx, doc.ID, alice.ID)
		require.NoError(t, err)
		assert.Contains(t, link.URL, doc.Path)
		assert.Equal(t, []string{doc.Path}, signer.keys)

		_, err = svc.DocumentDownloadURL(ctx, doc.ID, stranger.ID)
		assert.ErrorIs(t, err, membership.ErrNotAuthorized)
	})

	t.Run("download link without storage", func(t *testing.T) {
		_, err := newTestService(t, db).DocumentDownloadURL(ctx, doc.ID, alice.ID)
		assert.ErrorIs(t, err, projects.ErrStorageDisabled)
	})
}
