package courses

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/studyflow/studyflow/internal/storage"
)

func newTestRepository() *Repository {
	seq := 0
	return NewRepository(storage.NewMemoryStore(), WithIDGenerator(func() string {
		seq++
		return fmt.Sprintf("course-%d", seq)
	}))
}

func TestRepository_AddCyclesPalette(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestRepository()

	// one more than the palette holds, to see it wrap
	for i := 0; i <= len(Palette); i++ {
		_, err := repo.Add(ctx, Draft{Code: fmt.Sprintf("CS%d", i), Name: "course"})
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	courses, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if courses[0].Color != Palette[0] {
		t.Errorf("first color = %s, want %s", courses[0].Color, Palette[0])
	}
	if courses[len(Palette)].Color != Palette[0] {
		t.Errorf("color after palette exhaustion = %s, want wrap to %s", courses[len(Palette)].Color, Palette[0])
	}
}

func TestRepository_AddValidation(t *testing.T) {
	t.Parallel()

	repo := newTestRepository()
	if _, err := repo.Add(context.Background(), Draft{Code: "", Name: "x"}); err == nil {
		t.Error("expected error for empty code")
	}
	if _, err := repo.Add(context.Background(), Draft{Code: "CS101", Name: ""}); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestRepository_UpdateKeepsColor(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestRepository()
	course, err := repo.Add(ctx, Draft{Code: "CS101", Name: "Intro to Programming"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	course.Name = "Programming I"
	course.Color = "#000000" // callers cannot reassign colors
	got, err := repo.Update(ctx, course)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Name != "Programming I" {
		t.Errorf("Name = %s", got.Name)
	}
	if got.Color != Palette[0] {
		t.Errorf("Color = %s, want %s", got.Color, Palette[0])
	}
}

func TestRepository_DeleteMissing(t *testing.T) {
	t.Parallel()

	repo := newTestRepository()
	if err := repo.Delete(context.Background(), "nope"); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("Delete missing: err = %v, want ErrCourseNotFound", err)
	}
}

func TestRepository_GetRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestRepository()
	course, err := repo.Add(ctx, Draft{Code: "MATH202", Name: "Discrete Mathematics"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := repo.Get(ctx, course.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Code != "MATH202" {
		t.Errorf("Code = %s", got.Code)
	}
}

func TestRepository_SeedDefaults(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestRepository()

	seeded, err := repo.SeedDefaults(ctx)
	if err != nil {
		t.Fatalf("SeedDefaults: %v", err)
	}
	if len(seeded) != 3 {
		t.Fatalf("seeded %d courses, want 3", len(seeded))
	}
	if seeded[0].Code != "CS101" || seeded[0].Color != Palette[0] {
		t.Errorf("first seeded = %s/%s", seeded[0].Code, seeded[0].Color)
	}

	// Seeding again must not duplicate.
	again, err := repo.SeedDefaults(ctx)
	if err != nil {
		t.Fatalf("SeedDefaults: %v", err)
	}
	if len(again) != 3 {
		t.Errorf("re-seed produced %d courses, want 3", len(again))
	}
}

func TestRepository_SeedDefaultsSkipsNonEmpty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestRepository()
	if _, err := repo.Add(ctx, Draft{Code: "PHYS110", Name: "Mechanics"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	courses, err := repo.SeedDefaults(ctx)
	if err != nil {
		t.Fatalf("SeedDefaults: %v", err)
	}
	if len(courses) != 1 {
		t.Errorf("got %d courses, want the 1 existing", len(courses))
	}
}
