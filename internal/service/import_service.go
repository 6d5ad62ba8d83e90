package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/apperrors"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/catalog"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/config"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/model"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/repository"
)

// lotFetchConcurrency bounds parallel lot requests during an import.
const lotFetchConcurrency = 4

// ImportService adds catalog facilities to a user's properties.
type ImportService struct {
	db              *sql.DB
	cache           *catalog.FacilityCache
	client          catalog.Client
	propertyRepo    *repository.PropertyRepository
	buildingRepo    *repository.BuildingRepository
	unitRepo        *repository.UnitRepository
	assumptionsRepo *repository.AssumptionsRepository
	defaults        config.InvestmentConfig
}

// NewImportService creates a new ImportService.
func NewImportService(
	db *sql.DB,
	cache *catalog.FacilityCache,
	client catalog.Client,
	propertyRepo *repository.PropertyRepository,
	buildingRepo *repository.BuildingRepository,
	unitRepo *repository.UnitRepository,
	assumptionsRepo *repository.AssumptionsRepository,
	defaults config.InvestmentConfig,
) *ImportService {
	return &ImportService{
		db:              db,
		cache:           cache,
		client:          client,
		propertyRepo:    propertyRepo,
		buildingRepo:    buildingRepo,
		unitRepo:        unitRepo,
		assumptionsRepo: assumptionsRepo,
		defaults:        defaults,
	}
}

// ImportResult summarizes an imported property.
type ImportResult struct {
	Property  model.Property
	Buildings int
	Units     int
}

// SearchFacilities searches the catalog by facility name.
func (s *ImportService) SearchFacilities(query string, limit int) ([]catalog.Facility, error) {
	return s.cache.Search(query, limit)
}

// ImportFacility creates a property for userID from a catalog facility, with all of its
// buildings and units and default investment assumptions.
//
// The facility must be in the catalog cache. Details, clusters and lots are fetched
// concurrently, then written in a single transaction so a failed import leaves nothing behind.
// Returns apperrors.ErrDuplicateProperty if the user already added the facility.
func (s *ImportService) ImportFacility(ctx context.Context, userID int64, facilityID string) (ImportResult, error) {
	_, err := s.propertyRepo.GetByFacility(userID, facilityID)
	if err == nil {
		return ImportResult{}, apperrors.ErrDuplicateProperty
	}
	if !errors.Is(err, apperrors.ErrPropertyNotFound) {
		return ImportResult{}, err
	}

	facility, err := s.cache.Get(facilityID)
	if err != nil {
		return ImportResult{}, err
	}

	details, clusters, lots, err := s.fetch(ctx, facilityID)
	if err != nil {
		return ImportResult{}, err
	}

	data := s.build(userID, facility, details, clusters, lots)

	if err := s.store(ctx, data); err != nil {
		return ImportResult{}, err
	}

	p, err := s.propertyRepo.GetProperty(data.Property.ID)
	if err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{Property: p, Buildings: len(data.Buildings)}
	for _, b := range data.Buildings {
		result.Units += len(b.Units)
	}
	log.Printf("[catalog] imported %s for user %d: %d buildings, %d units", p.Name, userID, result.Buildings, result.Units)

	return result, nil
}

// fetch loads the details, clusters and per-cluster lots of a facility.
// Missing details are tolerated; the property is created from the listing alone.
func (s *ImportService) fetch(ctx context.Context, facilityID string) (*catalog.FacilityDetails, []catalog.Cluster, [][]catalog.Lot, error) {
	var (
		details  *catalog.FacilityDetails
		clusters []catalog.Cluster
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := s.client.FacilityDetails(gctx, facilityID)
		if err != nil {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			log.Printf("[catalog] details of facility %s unavailable: %v", facilityID, err)
			return nil
		}
		details = d
		return nil
	})
	g.Go(func() error {
		c, err := s.client.Clusters(gctx, facilityID)
		if err != nil {
			return err
		}
		clusters = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to fetch facility %s: %w", facilityID, err)
	}

	lots := make([][]catalog.Lot, len(clusters))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(lotFetchConcurrency)
	for i, c := range clusters {
		g.Go(func() error {
			l, err := s.client.Lots(gctx, c.ID.String())
			if err != nil {
				return err
			}
			lots[i] = l
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to fetch lots of facility %s: %w", facilityID, err)
	}

	return details, clusters, lots, nil
}

// build converts catalog records into a property import with fresh IDs.
func (s *ImportService) build(
	userID int64,
	facility catalog.Facility,
	details *catalog.FacilityDetails,
	clusters []catalog.Cluster,
	lots [][]catalog.Lot,
) model.PropertyImport {
	p := catalog.ToProperty(facility, details, userID)
	p.ID = uuid.New().String()

	data := model.PropertyImport{
		Property:    p,
		Assumptions: s.defaultAssumptions(p.ID),
		Buildings:   make([]model.BuildingImport, 0, len(clusters)),
	}

	for i, c := range clusters {
		b := catalog.ToBuilding(c, p.ID)
		b.ID = uuid.New().String()

		units := make([]model.Unit, 0, len(lots[i]))
		for _, l := range lots[i] {
			u := catalog.ToUnit(l, b)
			u.ID = uuid.New().String()
			units = append(units, u)
		}
		data.Buildings = append(data.Buildings, model.BuildingImport{Building: b, Units: units})
	}

	return data
}

func (s *ImportService) defaultAssumptions(propertyID string) model.Assumptions {
	occupancy := s.defaults.OccupancyRate
	operating := s.defaults.OperatingExpensesPct
	management := s.defaults.ManagementFeePct
	tax := s.defaults.TaxRate
	appreciation := s.defaults.AppreciationRate

	return model.Assumptions{
		PropertyID:           propertyID,
		OccupancyRate:        &occupancy,
		OperatingExpensesPct: &operating,
		ManagementFeePct:     &management,
		TaxRate:              &tax,
		AppreciationRate:     &appreciation,
	}
}

// store writes a property import in one transaction and refreshes the property statistics.
func (s *ImportService) store(ctx context.Context, data model.PropertyImport) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Printf("[catalog] rollback failed: %v", rbErr)
			}
		}
	}()

	propertyRepo := s.propertyRepo.WithTx(tx)
	buildingRepo := s.buildingRepo.WithTx(tx)
	unitRepo := s.unitRepo.WithTx(tx)
	assumptionsRepo := s.assumptionsRepo.WithTx(tx)

	if err = propertyRepo.InsertProperty(ctx, data.Property); err != nil {
		return err
	}
	if err = assumptionsRepo.UpsertAssumptions(ctx, data.Assumptions); err != nil {
		return err
	}
	for _, b := range data.Buildings {
		if err = buildingRepo.InsertBuilding(ctx, b.Building); err != nil {
			return err
		}
		for _, u := range b.Units {
			if err = unitRepo.InsertUnit(ctx, u); err != nil {
				return err
			}
		}
	}
	if err = propertyRepo.RefreshStats(ctx, data.Property.ID); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}
