package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/apperrors"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/testutil"
)

// TestPropertyService_Ownership verifies that properties are scoped to their owner.
//
// WHY: Property IDs travel in callback data and mini app URLs; a realtor must never be
// able to open or delete another realtor's property by reusing an ID.
func TestPropertyService_Ownership(t *testing.T) {
	t.Run("owner can read the property", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPropertyService(t, db)
		user, property, _, _ := testutil.CreatePropertyWithUnits(t, db, 2)

		p, err := svc.GetProperty(user.ID, property.ID)
		if err != nil {
			t.Fatalf("GetProperty() returned unexpected error: %v", err)
		}
		if p.ID != property.ID {
			t.Errorf("Expected property %s, got %s", property.ID, p.ID)
		}
	})

	t.Run("other users get not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPropertyService(t, db)
		_, property, _, _ := testutil.CreatePropertyWithUnits(t, db, 1)
		stranger := testutil.CreateUser(t, db)

		if _, err := svc.GetProperty(stranger.ID, property.ID); !errors.Is(err, apperrors.ErrPropertyNotFound) {
			t.Errorf("Expected ErrPropertyNotFound, got %v", err)
		}

		err := svc.DeleteProperty(context.Background(), stranger.ID, property.ID)
		if !errors.Is(err, apperrors.ErrPropertyNotFound) {
			t.Errorf("Expected ErrPropertyNotFound on delete, got %v", err)
		}
		testutil.AssertRowCount(t, db, "property", 1)
	})

	t.Run("unknown property", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPropertyService(t, db)
		user := testutil.CreateUser(t, db)

		if _, err := svc.GetProperty(user.ID, testutil.MakeID()); !errors.Is(err, apperrors.ErrPropertyNotFound) {
			t.Errorf("Expected ErrPropertyNotFound, got %v", err)
		}
	})
}

func TestPropertyService_ListProperties(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPropertyService(t, db)
	user := testutil.CreateUser(t, db)
	other := testutil.CreateUser(t, db)

	testutil.CreateProperty(t, db, user.ID, "ЖК Сосны")
	testutil.CreateProperty(t, db, user.ID, "ЖК Берёзы")
	testutil.CreateProperty(t, db, other.ID, "ЖК Чужой")

	properties, err := svc.ListProperties(user.ID)
	if err != nil {
		t.Fatalf("ListProperties() returned unexpected error: %v", err)
	}
	if len(properties) != 2 {
		t.Fatalf("Expected 2 properties, got %d", len(properties))
	}
	if properties[0].Name != "ЖК Берёзы" {
		t.Errorf("Expected properties ordered by name, got %q first", properties[0].Name)
	}
}

// TestPropertyService_DeleteProperty verifies that deleting a property removes everything under it.
func TestPropertyService_DeleteProperty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPropertyService(t, db)
	user, property, _, _ := testutil.CreatePropertyWithUnits(t, db, 3)
	testutil.NewAssumptions(property.ID).WithRentalDailyRate(4000).Build(t, db)

	if err := svc.DeleteProperty(context.Background(), user.ID, property.ID); err != nil {
		t.Fatalf("DeleteProperty() returned unexpected error: %v", err)
	}

	testutil.AssertRowCount(t, db, "property", 0)
	testutil.AssertRowCount(t, db, "building", 0)
	testutil.AssertRowCount(t, db, "unit", 0)
	testutil.AssertRowCount(t, db, "property_custom", 0)
}

func TestPropertyService_About(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPropertyService(t, db)
	user, property, building, _ := testutil.CreatePropertyWithUnits(t, db, 4)

	second := testutil.NewBuilding(property.ID).WithNumber(2).Build(t, db)
	testutil.NewUnit(property.ID, second).WithCode("В201").WithPrice(20_000_000).Build(t, db)

	overview, err := svc.About(user.ID, property.ID)
	if err != nil {
		t.Fatalf("About() returned unexpected error: %v", err)
	}

	if len(overview.Buildings) != 2 {
		t.Errorf("Expected 2 buildings, got %d", len(overview.Buildings))
	}
	if len(overview.Stats) != 2 {
		t.Fatalf("Expected stats for 2 buildings, got %d", len(overview.Stats))
	}
	first := overview.Stats[0]
	if first.Building != building.Number || first.Count != 4 {
		t.Errorf("Unexpected stats for building 1: %+v", first)
	}
	if first.MinPrice == nil || *first.MinPrice != 10_500_000 {
		t.Errorf("Expected min price 10500000, got %v", first.MinPrice)
	}
	if first.MaxFloor == nil || *first.MaxFloor != 4 {
		t.Errorf("Expected max floor 4, got %v", first.MaxFloor)
	}
}
