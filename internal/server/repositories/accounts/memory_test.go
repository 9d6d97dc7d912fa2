package accounts

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/thecollekta/airbnb-clone-project/internal/common"
	"github.com/thecollekta/airbnb-clone-project/internal/server/models"
)

func newAccount(email string) *models.Account {
	return &models.Account{
		Email:        models.NormalizeEmail(email),
		PasswordHash: "$2a$10$hash",
		FirstName:    "Ama",
		LastName:     "Mensah",
		Role:         models.RoleGuest,
	}
}

func TestMemory_InsertAndFind(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	created, err := repo.Insert(ctx, newAccount("ama@example.com"))
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	if created.IsVerified {
		t.Fatal("new account must start unverified")
	}
	if !created.IsActive {
		t.Fatal("new account must start active")
	}

	byEmail, err := repo.FindByEmail(ctx, "AMA@Example.COM")
	if err != nil {
		t.Fatalf("FindByEmail error: %v", err)
	}
	if byEmail.ID != created.ID {
		t.Fatalf("id mismatch: %q vs %q", byEmail.ID, created.ID)
	}

	byID, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID error: %v", err)
	}
	if byID.Email != "ama@example.com" {
		t.Fatalf("unexpected email %q", byID.Email)
	}
}

func TestMemory_DuplicateEmail_CaseInsensitive(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if _, err := repo.Insert(ctx, newAccount("ama@example.com")); err != nil {
		t.Fatalf("Insert error: %v", err)
	}

	dup := newAccount("ama@example.com")
	dup.Email = "Ama@Example.com"
	_, err := repo.Insert(ctx, dup)
	if !errors.Is(err, common.ErrorDuplicateEmail) {
		t.Fatalf("want common.ErrorDuplicateEmail, got %v", err)
	}
}

func TestMemory_FindMisses(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if _, err := repo.FindByEmail(ctx, "ghost@example.com"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
	if _, err := repo.FindByID(ctx, "ghost"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestMemory_UpdateReindexesEmail(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	created, err := repo.Insert(ctx, newAccount("old@example.com"))
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}

	created.Email = "new@example.com"
	created.IsVerified = true
	updated, err := repo.Update(ctx, created)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if !updated.IsVerified {
		t.Fatal("expected verified flag to persist")
	}

	if _, err := repo.FindByEmail(ctx, "old@example.com"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("old email should be gone, got %v", err)
	}
	if _, err := repo.FindByEmail(ctx, "new@example.com"); err != nil {
		t.Fatalf("new email lookup error: %v", err)
	}
}

func TestMemory_Update_NotFound(t *testing.T) {
	repo := NewMemoryRepository()

	_, err := repo.Update(context.Background(), &models.Account{ID: "ghost"})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestMemory_Delete(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	created, err := repo.Insert(ctx, newAccount("ama@example.com"))
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := repo.FindByID(ctx, created.ID); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, created.ID); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("second delete: want common.ErrorNotFound, got %v", err)
	}
}

func TestMemory_ConcurrentRegisterRace(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	const n = 32
	var wg sync.WaitGroup
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Insert(ctx, newAccount("race@example.com"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, dup int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, common.ErrorDuplicateEmail):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || dup != n-1 {
		t.Fatalf("want exactly one winner, got ok=%d dup=%d", ok, dup)
	}
}
