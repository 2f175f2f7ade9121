package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notes-backend/internal/apperrors"
	"notes-backend/internal/model"
	"notes-backend/internal/repository"
	"notes-backend/internal/storage/filestore"
)

func newTestRepo(t *testing.T) (repository.NoteRepository, *filestore.Store) {
	t.Helper()

	store, err := filestore.NewStore(t.TempDir(), nil, zerolog.Nop())
	require.NoError(t, err)

	repo, err := NewRepository(context.Background(), store, zerolog.Nop())
	require.NoError(t, err)

	return repo, store
}

func TestRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	created, err := repo.Create(ctx, model.Note{Title: "Test Note", Content: "Content", Tags: []string{"work"}})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, created.ID+".md", created.FilePath)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Test Note", got.Title)
	assert.Equal(t, []string{"work"}, got.Tags)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	_, err := repo.GetByID(ctx, "non-existent-id")
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrNoteNotFound)
}

func TestRepository_GetByID_FileRemovedExternally(t *testing.T) {
	ctx := context.Background()
	repo, store := newTestRepo(t)

	created, err := repo.Create(ctx, model.Note{Title: "Test Note"})
	require.NoError(t, err)

	// Файл удален извне: индекс еще знает заметку, но чтение обязано
	// отдать ошибку ФС с кодом NOT_FOUND без подмены
	require.NoError(t, os.Remove(filepath.Join(store.Root(), created.FilePath)))

	_, err = repo.GetByID(ctx, created.ID)
	require.Error(t, err)

	typed, ok := apperrors.FromError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindFileSystem, typed.Kind)
	assert.Equal(t, apperrors.CodeNotFound, typed.Code)
}

func TestRepository_List_PicksUpExternalFiles(t *testing.T) {
	ctx := context.Background()
	repo, store := newTestRepo(t)

	// Файл заметки появился извне (редактор, git pull)
	doc := []byte("---\nid: external-1\ntitle: External Note\n---\nbody\n")
	require.NoError(t, os.WriteFile(filepath.Join(store.Root(), "external.md"), doc, 0o644))

	notes, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "external-1", notes[0].ID)

	// После пересканирования заметка доступна и по ID
	got, err := repo.GetByID(ctx, "external-1")
	require.NoError(t, err)
	assert.Equal(t, "External Note", got.Title)
}

func TestRepository_List_SkipsMalformedDocuments(t *testing.T) {
	ctx := context.Background()
	repo, store := newTestRepo(t)

	_, err := repo.Create(ctx, model.Note{Title: "Good Note"})
	require.NoError(t, err)

	// Испорченный документ не должен ломать листинг всего хранилища
	require.NoError(t, os.WriteFile(filepath.Join(store.Root(), "broken.md"), []byte("no frontmatter"), 0o644))

	notes, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Good Note", notes[0].Title)
}

func TestRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	created, err := repo.Create(ctx, model.Note{Title: "Original"})
	require.NoError(t, err)

	created.Title = "Updated"
	updated, err := repo.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "Updated", updated.Title)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated", got.Title)
}

func TestRepository_Update_NotFound(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	_, err := repo.Update(ctx, model.Note{ID: "non-existent-id", Title: "X"})
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrNoteNotFound)
}

func TestRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo, store := newTestRepo(t)

	created, err := repo.Create(ctx, model.Note{Title: "Test Note"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrNoteNotFound)

	// Файл действительно удален
	_, err = os.Stat(filepath.Join(store.Root(), created.FilePath))
	assert.True(t, os.IsNotExist(err))
}

func TestRepository_Delete_NotFound(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	err := repo.Delete(ctx, "non-existent-id")
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrNoteNotFound)
}

func TestRepository_IndexSurvivesRestart(t *testing.T) {
	ctx := context.Background()

	root := t.TempDir()
	store, err := filestore.NewStore(root, nil, zerolog.Nop())
	require.NoError(t, err)

	repo, err := NewRepository(ctx, store, zerolog.Nop())
	require.NoError(t, err)

	created, err := repo.Create(ctx, model.Note{Title: "Persistent Note"})
	require.NoError(t, err)

	// Новый репозиторий над тем же каталогом строит индекс заново
	repo2, err := NewRepository(ctx, store, zerolog.Nop())
	require.NoError(t, err)

	got, err := repo2.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Persistent Note", got.Title)
}
