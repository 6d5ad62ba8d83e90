package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/model"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/testutil"
)

// TestUserService_State verifies the conversation state transitions.
//
// WHY: Free text is interpreted according to the stored dialog state; a state that
// survives a selection would route a lot code into the settings editor.
func TestUserService_State(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown user is idle", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestUserService(t, db)

		st, err := svc.GetState(testutil.MakeUserID())
		if err != nil {
			t.Fatalf("GetState() returned unexpected error: %v", err)
		}
		if st.State != model.StateIdle || st.CurrentPropertyID != nil {
			t.Errorf("Expected idle state without selection, got %+v", st)
		}
	})

	t.Run("register is idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestUserService(t, db)
		u := model.User{ID: testutil.MakeUserID(), Username: "first"}

		if err := svc.Register(ctx, u); err != nil {
			t.Fatalf("Register() returned unexpected error: %v", err)
		}
		u.Username = "second"
		if err := svc.Register(ctx, u); err != nil {
			t.Fatalf("Register() returned unexpected error: %v", err)
		}
		testutil.AssertRowCount(t, db, "users", 1)
	})

	t.Run("dialog keeps the selection", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestUserService(t, db)
		user, property, _, _ := testutil.CreatePropertyWithUnits(t, db, 1)

		if err := svc.SelectLot(ctx, user.ID, property.ID, "А101"); err != nil {
			t.Fatalf("SelectLot() returned unexpected error: %v", err)
		}
		if err := svc.SetDialog(ctx, user.ID, model.StateSettingValue, "rent"); err != nil {
			t.Fatalf("SetDialog() returned unexpected error: %v", err)
		}

		st, err := svc.GetState(user.ID)
		if err != nil {
			t.Fatalf("GetState() returned unexpected error: %v", err)
		}
		if st.State != model.StateSettingValue || st.StateData != "rent" {
			t.Errorf("Expected settings dialog for rent, got %q/%q", st.State, st.StateData)
		}
		if st.CurrentPropertyID == nil || *st.CurrentPropertyID != property.ID {
			t.Errorf("Expected property %s to stay selected, got %v", property.ID, st.CurrentPropertyID)
		}
		if st.CurrentLotCode == nil || *st.CurrentLotCode != "А101" {
			t.Errorf("Expected lot А101 to stay selected, got %v", st.CurrentLotCode)
		}
	})

	t.Run("selecting a property ends the dialog", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestUserService(t, db)
		user, property, _, _ := testutil.CreatePropertyWithUnits(t, db, 1)

		if err := svc.SetDialog(ctx, user.ID, model.StateSearchArea, ""); err != nil {
			t.Fatalf("SetDialog() returned unexpected error: %v", err)
		}
		if err := svc.SelectProperty(ctx, user.ID, property.ID); err != nil {
			t.Fatalf("SelectProperty() returned unexpected error: %v", err)
		}

		st, _ := svc.GetState(user.ID)
		if st.State != model.StateIdle {
			t.Errorf("Expected idle state, got %q", st.State)
		}
		if st.CurrentLotCode != nil {
			t.Errorf("Expected no lot selected, got %s", *st.CurrentLotCode)
		}
	})

	t.Run("clear state drops the selection", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestUserService(t, db)
		user, property, _, _ := testutil.CreatePropertyWithUnits(t, db, 1)

		_ = svc.SelectProperty(ctx, user.ID, property.ID)
		if err := svc.ClearState(ctx, user.ID); err != nil {
			t.Fatalf("ClearState() returned unexpected error: %v", err)
		}

		st, _ := svc.GetState(user.ID)
		if st.CurrentPropertyID != nil {
			t.Errorf("Expected no property selected, got %s", *st.CurrentPropertyID)
		}
	})

	t.Run("deleting the property clears the selection", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestUserService(t, db)
		properties := testutil.NewTestPropertyService(t, db)
		user, property, _, _ := testutil.CreatePropertyWithUnits(t, db, 1)

		_ = svc.SelectProperty(ctx, user.ID, property.ID)
		if err := properties.DeleteProperty(ctx, user.ID, property.ID); err != nil {
			t.Fatalf("DeleteProperty() returned unexpected error: %v", err)
		}

		st, _ := svc.GetState(user.ID)
		if st.CurrentPropertyID != nil {
			t.Errorf("Expected selection to be cleared, got %s", *st.CurrentPropertyID)
		}
	})
}

func TestUserService_PurgeStaleStates(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestUserService(t, db)

	active := testutil.CreateUser(t, db)
	stale := testutil.CreateUser(t, db)

	if err := svc.SetDialog(ctx, active.ID, model.StateSearchBudget, ""); err != nil {
		t.Fatalf("SetDialog() returned unexpected error: %v", err)
	}
	_, err := db.Exec(`INSERT INTO user_state (user_id, state, state_data, updated_at) VALUES (?, '', '', ?)`,
		stale.ID, time.Now().Add(-40*24*time.Hour).UTC().Format(time.RFC3339))
	if err != nil {
		t.Fatalf("Failed to insert stale state: %v", err)
	}

	n, err := svc.PurgeStaleStates(ctx, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("PurgeStaleStates() returned unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 purged state, got %d", n)
	}
	testutil.AssertRowCount(t, db, "user_state", 1)
}
