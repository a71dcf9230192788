package assessmentstore_test

import (
	"errors"
	"testing"

	assessmentstore "github.com/dalemusser/primementor/internal/app/store/assessments"
	"github.com/dalemusser/primementor/internal/domain/models"
	"github.com/dalemusser/primementor/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateListSetStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := assessmentstore.New(db)

	a, err := store.Create(ctx, models.Assessment{
		Role:             "student",
		Subject:          "Maths",
		ContactNumber:    "0400000000",
		StudentFirstName: "Jane",
		StudentEmail:     "jane@example.com",
		Status:           models.AssessmentCompleted,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.Status != models.AssessmentNew {
		t.Errorf("Status = %q, want New regardless of input", a.Status)
	}

	list, err := store.List(ctx, models.AssessmentNew)
	if err != nil || len(list) != 1 {
		t.Fatalf("List(New) = %+v, %v", list, err)
	}

	notes := "Called parent"
	got, err := store.SetStatus(ctx, a.ID, models.AssessmentContacted, &notes)
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if got.Status != models.AssessmentContacted || got.AdminNotes != notes {
		t.Errorf("SetStatus = %+v", got)
	}

	got, err = store.SetStatus(ctx, a.ID, models.AssessmentScheduled, nil)
	if err != nil || got.AdminNotes != notes {
		t.Errorf("nil notes overwrote: %+v, %v", got, err)
	}

	if _, err := store.SetStatus(ctx, a.ID, "Lost", nil); err == nil {
		t.Error("expected error for unknown status")
	}
	if _, err := store.SetStatus(ctx, primitive.NewObjectID(), models.AssessmentCanceled, nil); !errors.Is(err, assessmentstore.ErrNotFound) {
		t.Errorf("missing err = %v, want ErrNotFound", err)
	}
}
