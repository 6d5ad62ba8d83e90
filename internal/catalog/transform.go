package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/model"
)

var digitsRe = regexp.MustCompile(`\d+`)

// buildingLetters maps building numbers to the letter prefix of lot codes.
// The first three letters are Cyrillic, as printed on developer price lists.
var buildingLetters = map[int]string{1: "А", 2: "В", 3: "С", 4: "D", 5: "E", 6: "F"}

// Dictionaries of the catalog's enumerated facility attributes.
var (
	FacilityClass   = map[int]string{1: "Эконом", 2: "Комфорт", 3: "Бизнес", 4: "Элит", 5: "Премиум"}
	FacilitySubtype = map[int]string{1: "Квартиры", 2: "Апартаменты", 3: "Таунхаусы", 4: "Дуплексы"}
	TerritoryType   = map[int]string{1: "Закрытая", 2: "Открытая"}
	HeatingType     = map[int]string{1: "Центральное", 2: "Автономное", 3: "Индивидуальное"}
	SewerageType    = map[int]string{1: "Центральная", 2: "Автономная", 3: "Септик"}
	WaterSupplyType = map[int]string{1: "Центральное", 2: "Скважина", 3: "Колодец"}
	ParkingType     = map[int]string{1: "Подземная", 2: "Наземная", 3: "Придомовая", 4: "Гостевая"}
	ContractType    = map[int]string{1: "ДКП", 2: "ДДУ", 3: "ЖСК"}
	PaymentMethod   = map[int]string{1: "100%", 2: "Рассрочка", 3: "Ипотека"}
)

// BuildingNumber extracts the building number from a cluster name.
// The first run of digits wins; named towers fall back to 1 ("family") or 2 ("business").
func BuildingNumber(name string) int {
	if m := digitsRe.FindString(name); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return n
		}
	}
	lower := strings.ToLower(name)
	if strings.Contains(lower, "business") {
		return 2
	}
	return 1
}

// QuarterTimestamp returns local midnight on the first day of the last month of a quarter.
// Unknown quarters are treated as the fourth.
func QuarterTimestamp(quarter, year int) time.Time {
	month := time.December
	switch quarter {
	case 1:
		month = time.March
	case 2:
		month = time.June
	case 3:
		month = time.September
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
}

// LotCode builds the human-facing code of a lot: the building letter followed by
// the number from the lot name, or the lot ID when the name has none.
func LotCode(lot Lot, building int) string {
	letter, ok := buildingLetters[building]
	if !ok {
		letter = buildingLetters[1]
	}
	if lot.Name != nil {
		if m := digitsRe.FindString(*lot.Name); m != "" {
			return letter + m
		}
	}
	if lot.ID == "" {
		return letter + "X"
	}
	return letter + lot.ID.String()
}

// LotStatus maps a catalog status code to a unit status.
func LotStatus(code *int) string {
	if code == nil {
		return model.UnitAvailable
	}
	switch *code {
	case 2:
		return model.UnitBooked
	case 3:
		return model.UnitSold
	default:
		return model.UnitAvailable
	}
}

// Describe joins the dictionary names of codes, skipping unknown ones.
func Describe(dict map[int]string, codes []int) string {
	names := make([]string, 0, len(codes))
	for _, c := range codes {
		if name, ok := dict[c]; ok {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

// ToProperty converts a listed facility, and its details when available, into a property owned by userID.
func ToProperty(f Facility, details *FacilityDetails, userID int64) model.Property {
	p := model.Property{
		UserID:            userID,
		FacilityID:        f.ID.String(),
		Name:              f.Name,
		City:              f.CityName,
		District:          f.DistrictName,
		Address:           f.Address,
		Developer:         f.DeveloperName,
		Description:       f.Description,
		MainImageURL:      f.MainImage,
		LotsCount:         f.ActiveLotsAmount,
		MinPrice:          roundPrice(f.MinTotalPrice),
		CommissionPercent: f.CommissionPercent,
		Details: model.PropertyDetails{
			CommissioningYear:    f.CommissioningYear,
			CommissioningQuarter: f.CommissioningQuarter,
			IsCommissioned:       f.IsCommissioned,
		},
	}

	if details == nil {
		return p
	}

	if details.Description != "" {
		p.Description = details.Description
	}
	if details.Address != "" {
		p.Address = details.Address
	}
	p.Details.FacilityClass = FacilityClass[details.Class]
	p.Details.FacilitySubtype = FacilitySubtype[details.Subtype]
	p.Details.TerritoryType = TerritoryType[details.TerritoryType]
	p.Details.HasGas = details.HasGas
	p.Details.HasElectricity = details.HasElectricity
	p.Details.HeatingType = HeatingType[details.HeatingType]
	p.Details.SewerageType = SewerageType[details.SewerageType]
	p.Details.WaterSupplyType = WaterSupplyType[details.WaterSupplyType]
	p.Details.ParkingTypes = Describe(ParkingType, details.ParkingTypes)
	p.Details.ContractType = ContractType[details.ContractType]
	p.Details.PaymentMethods = Describe(PaymentMethod, details.PaymentMethods)

	return p
}

// ToBuilding converts a cluster into a building of propertyID.
func ToBuilding(c Cluster, propertyID string) model.Building {
	b := model.Building{
		PropertyID:  propertyID,
		ClusterID:   c.ID.String(),
		Name:        c.Name,
		Number:      BuildingNumber(c.Name),
		FloorsCount: c.TotalFloors,
		IsCompleted: c.IsCompleted,
	}

	if c.CommissioningYear != nil && c.CommissioningQuarter != nil &&
		*c.CommissioningYear > 0 && *c.CommissioningQuarter > 0 {
		label := fmt.Sprintf("Q%d %d", *c.CommissioningQuarter, *c.CommissioningYear)
		at := QuarterTimestamp(*c.CommissioningQuarter, *c.CommissioningYear)
		b.CommissioningDate = &label
		b.CommissioningTime = &at
	}

	return b
}

// ToUnit converts a lot into a unit of building b.
func ToUnit(l Lot, b model.Building) model.Unit {
	u := model.Unit{
		PropertyID:     b.PropertyID,
		LotID:          l.ID.String(),
		Code:           LotCode(l, b.Number),
		Building:       b.Number,
		Floor:          l.Position.VerticalPosition,
		Rooms:          l.LayoutType,
		AreaM2:         l.AreaM2,
		Price:          roundPrice(l.TotalPrice),
		PricePerM2:     roundPrice(l.PricePerM2),
		DecorationType: flexPtr(l.DecorationType),
		Status:         LotStatus(l.Status),
		BlockSection:   flexPtr(l.BlockSection),
	}
	if b.ID != "" {
		id := b.ID
		u.BuildingID = &id
	}

	for _, img := range l.LayoutImages {
		if img.URL != "" {
			layout := img.URL
			u.LayoutURL = &layout
			break
		}
	}

	return u
}
