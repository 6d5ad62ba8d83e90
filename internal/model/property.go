package model

import "time"

// Property is a residential development a realtor has added from the catalog.
type Property struct {
	ID                string          `json:"id"`
	UserID            int64           `json:"userId"`
	FacilityID        string          `json:"facilityId"` // Catalog facility ID
	Name              string          `json:"name"`
	City              string          `json:"city"`
	District          string          `json:"district"`
	Address           string          `json:"address"`
	Developer         string          `json:"developer"`
	Description       string          `json:"description"`
	MainImageURL      *string         `json:"mainImageUrl,omitempty"`
	LotsCount         int             `json:"lotsCount"`
	MinPrice          *int64          `json:"minPrice,omitempty"`
	CommissionPercent *float64        `json:"commissionPercent,omitempty"`
	Details           PropertyDetails `json:"details"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// PropertyDetails are descriptive attributes of a development resolved from catalog dictionaries.
type PropertyDetails struct {
	FacilityClass        string `json:"facilityClass"`
	FacilitySubtype      string `json:"facilitySubtype"`
	TerritoryType        string `json:"territoryType"`
	HasGas               bool   `json:"hasGas"`
	HasElectricity       bool   `json:"hasElectricity"`
	HeatingType          string `json:"heatingType"`
	SewerageType         string `json:"sewerageType"`
	WaterSupplyType      string `json:"waterSupplyType"`
	ParkingTypes         string `json:"parkingTypes"`
	ContractType         string `json:"contractType"`
	PaymentMethods       string `json:"paymentMethods"`
	CommissioningYear    *int   `json:"commissioningYear,omitempty"`
	CommissioningQuarter *int   `json:"commissioningQuarter,omitempty"`
	IsCommissioned       bool   `json:"isCommissioned"`
}

// Building is a block (cluster) of a property.
type Building struct {
	ID                string     `json:"id"`
	PropertyID        string     `json:"propertyId"`
	ClusterID         string     `json:"clusterId"`
	Name              string     `json:"name"`
	Number            int        `json:"number"`
	FloorsCount       *int       `json:"floorsCount,omitempty"`
	CommissioningDate *string    `json:"commissioningDate,omitempty"` // e.g. "Q4 2027"
	CommissioningTime *time.Time `json:"commissioningTime,omitempty"`
	IsCompleted       bool       `json:"isCompleted"`
}

// Unit statuses.
const (
	UnitAvailable = "available"
	UnitBooked    = "booked"
	UnitSold      = "sold"
)

// Unit is a single lot (apartment) of a property.
type Unit struct {
	ID             string   `json:"id"`
	PropertyID     string   `json:"propertyId"`
	BuildingID     *string  `json:"buildingId,omitempty"`
	LotID          string   `json:"lotId"`
	Code           string   `json:"code"`     // Human-facing lot code, e.g. "А101"
	Building       int      `json:"building"` // Building number
	Floor          *int     `json:"floor,omitempty"`
	Rooms          *int     `json:"rooms,omitempty"` // 0 is a studio
	AreaM2         *float64 `json:"areaM2,omitempty"`
	Price          *int64   `json:"price,omitempty"`
	PricePerM2     *int64   `json:"pricePerM2,omitempty"`
	LayoutURL      *string  `json:"layoutUrl,omitempty"`
	DecorationType *string  `json:"decorationType,omitempty"`
	Status         string   `json:"status"`
	BlockSection   *string  `json:"blockSection,omitempty"`
}

// BuildingStats aggregates the units of one building number.
type BuildingStats struct {
	Building int    `json:"building"`
	Count    int    `json:"count"`
	MinPrice *int64 `json:"minPrice,omitempty"`
	MaxPrice *int64 `json:"maxPrice,omitempty"`
	MinFloor *int   `json:"minFloor,omitempty"`
	MaxFloor *int   `json:"maxFloor,omitempty"`
}

// FloorStats aggregates the units of one floor of a building.
type FloorStats struct {
	Floor    int    `json:"floor"`
	Count    int    `json:"count"`
	MinPrice *int64 `json:"minPrice,omitempty"`
}

// PropertyImport is everything needed to create a property with its buildings and units in one step.
type PropertyImport struct {
	Property    Property
	Assumptions Assumptions
	Buildings   []BuildingImport
}

// BuildingImport is a building with the units that belong to it.
type BuildingImport struct {
	Building Building
	Units    []Unit
}
