package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/apperrors"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/catalog"
)

// MockCatalogClient is an in-memory implementation of catalog.Client for testing.
// It is safe for concurrent use.
type MockCatalogClient struct {
	mu sync.Mutex

	// Facilities is the listing served page by page
	Facilities []catalog.Facility
	// Details, ClusterData and LotData are keyed by facility or cluster ID
	Details     map[string]*catalog.FacilityDetails
	ClusterData map[string][]catalog.Cluster
	LotData     map[string][]catalog.Lot
	// MockError is returned from every method when set
	MockError error
	// LotsError is returned from Lots only
	LotsError error
	// QueryCount tracks how many times a method was called
	QueryCount int
}

// NewMockCatalogClient creates a mock catalog with one facility "ЖК Тестовый" (ID "f-100")
// made of two buildings with three lots each.
func NewMockCatalogClient() *MockCatalogClient {
	m := &MockCatalogClient{
		Details:     map[string]*catalog.FacilityDetails{},
		ClusterData: map[string][]catalog.Cluster{},
		LotData:     map[string][]catalog.Lot{},
	}
	m.AddFacility(CreateMockFacility("f-100", "ЖК Тестовый"), 2, 3)
	return m
}

// AddFacility registers a facility with the given number of clusters and lots per cluster.
func (m *MockCatalogClient) AddFacility(f catalog.Facility, clusters, lotsPerCluster int) *MockCatalogClient {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := f.ID.String()
	m.Facilities = append(m.Facilities, f)
	m.Details[id] = &catalog.FacilityDetails{
		ID:             f.ID,
		Description:    "Описание " + f.Name,
		Class:          2,
		ParkingTypes:   []int{1},
		PaymentMethods: []int{1, 3},
	}

	year, quarter := 2027, 4
	for c := 1; c <= clusters; c++ {
		clusterID := fmt.Sprintf("%s-c%d", id, c)
		m.ClusterData[id] = append(m.ClusterData[id], catalog.Cluster{
			ID:                   catalog.FlexString(clusterID),
			Name:                 fmt.Sprintf("Корпус %d", c),
			CommissioningYear:    &year,
			CommissioningQuarter: &quarter,
		})
		for l := 1; l <= lotsPerCluster; l++ {
			m.LotData[clusterID] = append(m.LotData[clusterID], CreateMockLot(fmt.Sprintf("%s-l%d", clusterID, l), 100+l, l, 8_000_000+float64(l)*250_000))
		}
	}
	return m
}

// WithError configures the mock to return the specified error.
func (m *MockCatalogClient) WithError(err error) *MockCatalogClient {
	m.MockError = err
	return m
}

// WithLotsError configures the mock to fail lot requests only.
func (m *MockCatalogClient) WithLotsError(err error) *MockCatalogClient {
	m.LotsError = err
	return m
}

// Count returns the number of calls made so far.
func (m *MockCatalogClient) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.QueryCount
}

// ListFacilities implements catalog.Client.
func (m *MockCatalogClient) ListFacilities(_ context.Context, page, perPage int) (catalog.FacilityPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QueryCount++
	if m.MockError != nil {
		return catalog.FacilityPage{}, m.MockError
	}

	start := (page - 1) * perPage
	if start >= len(m.Facilities) {
		return catalog.FacilityPage{Total: len(m.Facilities)}, nil
	}
	end := min(start+perPage, len(m.Facilities))
	return catalog.FacilityPage{Facilities: m.Facilities[start:end], Total: len(m.Facilities)}, nil
}

// FacilityDetails implements catalog.Client.
func (m *MockCatalogClient) FacilityDetails(_ context.Context, facilityID string) (*catalog.FacilityDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QueryCount++
	if m.MockError != nil {
		return nil, m.MockError
	}
	d, ok := m.Details[facilityID]
	if !ok {
		return nil, apperrors.ErrFacilityNotFound
	}
	return d, nil
}

// Clusters implements catalog.Client.
func (m *MockCatalogClient) Clusters(_ context.Context, facilityID string) ([]catalog.Cluster, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QueryCount++
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.ClusterData[facilityID], nil
}

// Lots implements catalog.Client.
func (m *MockCatalogClient) Lots(_ context.Context, clusterID string) ([]catalog.Lot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QueryCount++
	if m.MockError != nil {
		return nil, m.MockError
	}
	if m.LotsError != nil {
		return nil, m.LotsError
	}
	return m.LotData[clusterID], nil
}

// CreateMockFacility creates a listed facility with realistic fields.
func CreateMockFacility(id, name string) catalog.Facility {
	minPrice := 8_250_000.0
	commission := 3.0
	return catalog.Facility{
		ID:                catalog.FlexString(id),
		Name:              name,
		CityName:          "Сочи",
		DistrictName:      "Адлер",
		Address:           "ул. Тестовая, 1",
		DeveloperName:     "СЗ Тест",
		ActiveLotsAmount:  6,
		MinTotalPrice:     &minPrice,
		CommissionPercent: &commission,
	}
}

// CreateMockLot creates an available lot numbered number on the given floor.
func CreateMockLot(id string, number, floor int, price float64) catalog.Lot {
	name := fmt.Sprintf("Квартира %d", number)
	rooms := 1
	area := 30 + float64(floor)*5
	perM2 := price / area
	status := 1
	return catalog.Lot{
		ID:           catalog.FlexString(id),
		Name:         &name,
		Position:     catalog.LotPosition{VerticalPosition: &floor},
		LayoutType:   &rooms,
		AreaM2:       &area,
		TotalPrice:   &price,
		PricePerM2:   &perM2,
		LayoutImages: []catalog.LayoutImage{{URL: "https://img.example/" + id + ".png"}},
		Status:       &status,
	}
}
