package resumes

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"resumeforge/internal/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&database.User{}, &database.Resume{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) {
	t.Helper()
	user := database.User{Username: username, PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
}

func TestCreateAndFetch(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice")
	svc := NewService(db)
	ctx := context.Background()

	id, err := svc.Create(ctx, "alice", Fields{
		Name:     "Alice Smith",
		Email:    "alice@example.com",
		Template: "modern",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a non-zero resume id")
	}

	resume, err := svc.FetchByID(ctx, id)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if resume.Name != "Alice Smith" || resume.Template != "modern" {
		t.Fatalf("unexpected resume: %+v", resume)
	}
}

func TestCreateUnknownOwner(t *testing.T) {
	svc := NewService(newTestDB(t))
	_, err := svc.Create(context.Background(), "ghost", Fields{Name: "n"})
	if !errors.Is(err, ErrUnknownAccount) {
		t.Fatalf("expected ErrUnknownAccount, got %v", err)
	}
}

func TestListByOwnerIsolation(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice")
	seedUser(t, db, "bob")
	svc := NewService(db)
	ctx := context.Background()

	for _, name := range []string{"first", "second"} {
		if _, err := svc.Create(ctx, "alice", Fields{Name: name}); err != nil {
			t.Fatalf("create for alice: %v", err)
		}
	}
	if _, err := svc.Create(ctx, "bob", Fields{Name: "bobs"}); err != nil {
		t.Fatalf("create for bob: %v", err)
	}

	list, err := svc.ListByOwner(ctx, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 resumes for alice, got %d", len(list))
	}
	if list[0].Name != "first" || list[1].Name != "second" {
		t.Fatalf("expected insertion order, got %q then %q", list[0].Name, list[1].Name)
	}

	empty, err := svc.ListByOwner(ctx, "carol")
	if !errors.Is(err, ErrUnknownAccount) {
		t.Fatalf("expected ErrUnknownAccount for carol, got %v (%d resumes)", err, len(empty))
	}
}

func TestFetchByIDNotFound(t *testing.T) {
	svc := NewService(newTestDB(t))
	_, err := svc.FetchByID(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteOwnership(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice")
	seedUser(t, db, "bob")
	svc := NewService(db)
	ctx := context.Background()

	id, err := svc.Create(ctx, "alice", Fields{Name: "mine"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Bob cannot delete Alice's resume, and the row must survive the attempt.
	if err := svc.Delete(ctx, "bob", id); !errors.Is(err, ErrNotFoundOrForbidden) {
		t.Fatalf("expected ErrNotFoundOrForbidden, got %v", err)
	}
	if _, err := svc.FetchByID(ctx, id); err != nil {
		t.Fatalf("resume must still exist after forbidden delete: %v", err)
	}

	if err := svc.Delete(ctx, "alice", id); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := svc.FetchByID(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again reports the same error as a foreign delete.
	if err := svc.Delete(ctx, "alice", id); !errors.Is(err, ErrNotFoundOrForbidden) {
		t.Fatalf("expected ErrNotFoundOrForbidden on repeat delete, got %v", err)
	}
}
