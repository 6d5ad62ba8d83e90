package catalog

import (
	"bytes"
	"encoding/json"
	"math"
)

// FlexString decodes a JSON string or number into a string. The catalog API is not
// consistent about the type of identifiers.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = FlexString(n.String())
	return nil
}

// String returns the raw value.
func (s FlexString) String() string {
	return string(s)
}

// Facility is a residential development as listed by the v2 facilities endpoint.
type Facility struct {
	ID                   FlexString `json:"id"`
	Name                 string     `json:"name"`
	CityName             string     `json:"city_name"`
	DistrictName         string     `json:"district_name"`
	Address              string     `json:"address"`
	DeveloperName        string     `json:"developer_name"`
	Description          string     `json:"description"`
	MainImage            *string    `json:"facility_main_image"`
	ActiveLotsAmount     int        `json:"active_lots_amount"`
	MinTotalPrice        *float64   `json:"min_total_price"`
	CommissionPercent    *float64   `json:"commission_percent"`
	CommissioningYear    *int       `json:"commissioning_year"`
	CommissioningQuarter *int       `json:"commissioning_quarter"`
	IsCommissioned       bool       `json:"is_commissioned"`
	FZ214                bool       `json:"fz214"`
	MinAreaM2            *float64   `json:"min_area_m2"`
	MaxAreaM2            *float64   `json:"max_area_m2"`
	MinPricePerM2        *float64   `json:"min_price_per_m2"`
}

// FacilityDetails is the v1 detail record of a facility. Enumerations are dictionary codes.
type FacilityDetails struct {
	ID              FlexString `json:"id"`
	Description     string     `json:"description"`
	Address         string     `json:"address"`
	Class           int        `json:"class"`
	Subtype         int        `json:"subtype"`
	TerritoryType   int        `json:"territory_type"`
	HasGas          bool       `json:"has_gas"`
	HasElectricity  bool       `json:"has_electricity"`
	HeatingType     int        `json:"heating_type"`
	SewerageType    int        `json:"sewerage_type"`
	WaterSupplyType int        `json:"water_supply_type"`
	ParkingTypes    []int      `json:"parking_types"`
	ContractType    int        `json:"contract_type"`
	PaymentMethods  []int      `json:"payment_methods"`
}

// Cluster is a building of a facility.
type Cluster struct {
	ID                   FlexString `json:"id"`
	Name                 string     `json:"name"`
	TotalFloors          *int       `json:"total_floors"`
	CommissioningYear    *int       `json:"commissioning_year"`
	CommissioningQuarter *int       `json:"commissioning_quarter"`
	IsCompleted          bool       `json:"is_completed"`
}

// Lot is a single unit of a cluster.
type Lot struct {
	ID             FlexString    `json:"id"`
	Name           *string       `json:"name"`
	Position       LotPosition   `json:"position"`
	LayoutType     *int          `json:"layout_type"` // Room count, 0 for studios
	AreaM2         *float64      `json:"area_m2"`
	TotalPrice     *float64      `json:"total_price"`
	PricePerM2     *float64      `json:"price_per_m2"`
	LayoutImages   []LayoutImage `json:"layout_images"`
	DecorationType *FlexString   `json:"decoration_type"`
	Status         *int          `json:"status"`
	BlockSection   *FlexString   `json:"block_section"`
}

// LotPosition locates a lot in its building. Anything other than an object decodes as empty.
type LotPosition struct {
	VerticalPosition *int `json:"vertical_position"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *LotPosition) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		*p = LotPosition{}
		return nil
	}
	type plain LotPosition
	return json.Unmarshal(b, (*plain)(p))
}

// LayoutImage is a floor plan reference. The API returns either a plain URL or an
// object with a static_object holding the paths.
type LayoutImage struct {
	URL string
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *LayoutImage) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		l.URL = ""
		return nil
	case b[0] == '"':
		return json.Unmarshal(b, &l.URL)
	}

	var obj struct {
		StaticObject struct {
			Path       string `json:"path"`
			Path1000px string `json:"path_1000px"`
		} `json:"static_object"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	l.URL = obj.StaticObject.Path
	if l.URL == "" {
		l.URL = obj.StaticObject.Path1000px
	}
	return nil
}

// MarshalJSON keeps snapshots readable by UnmarshalJSON.
func (l LayoutImage) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.URL)
}

type facilitiesResponse struct {
	Data struct {
		FacilityPosts []Facility `json:"facility_posts"`
		Meta          struct {
			Total int `json:"total"`
		} `json:"meta"`
	} `json:"data"`
}

type facilityDetailsResponse struct {
	Data struct {
		Facility *FacilityDetails `json:"facility"`
	} `json:"data"`
}

type clustersResponse struct {
	Data struct {
		Clusters []Cluster `json:"clusters"`
	} `json:"data"`
}

type lotsResponse struct {
	Data struct {
		Lots []Lot `json:"lots"`
	} `json:"data"`
}

// FacilityPage is one page of the facility listing.
type FacilityPage struct {
	Facilities []Facility
	Total      int
}

func roundPrice(v *float64) *int64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	n := int64(math.Round(*v))
	return &n
}

func flexPtr(s *FlexString) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := s.String()
	return &v
}
