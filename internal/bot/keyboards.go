package bot

import (
	"fmt"
	"strconv"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/catalog"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/model"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/telegram"
)

// Button labels.
const (
	btnAddProperty = "➕ Добавить ЖК"
	btnSettings    = "⚙️ Настройки"

	btnSelectLot   = "🏠 Выбор лота"
	btnSearch      = "🔍 Поиск вручную"
	btnAbout       = "ℹ️ О проекте"
	btnParams      = "⚙️ Параметры расчёта"
	btnDelete      = "🗑 Удалить ЖК"
	btnBackToList  = "🔙 К списку ЖК"
	btnByBuilding  = "🏢 По корпусу"
	btnByArea      = "📐 По площади"
	btnByBudget    = "💰 По бюджету"
	btnByCode      = "🔍 По номеру лота"
	btnBack        = "🔙 Назад"
	btnKP          = "📄 Коммерческое предложение"
	btnROI         = "📊 Расчёт доходности"
	btnCompare     = "💰 Сравнить с депозитом"
	btnInstallment = "🗓 Рассрочка"
	btnAI          = "🤖 AI-помощник"
	btnBackToLot   = "🔙 Назад к лоту"
	btnBackToSrch  = "🔙 К поиску"
	btnDetailedROI = "📊 Подробный ROI"
	btnTuneParams  = "⚙️ Настроить параметры"
)

const (
	maxSearchResults = 10 // facilities offered for import
	maxUnitButtons   = 15 // units listed under one message
	maxButtonLabel   = 60
	floorsPerRow     = 3
	settingsPerRow   = 2
)

// compareHorizons are the comparison periods offered as buttons.
var compareHorizons = []int{3, 5, 10}

// Callback data builders. Property IDs are UUIDs, so every payload stays
// within the 64 byte limit of callback data.
func cbProperty(p string) string          { return "p:" + p }
func cbAbout(p string) string             { return "about:" + p }
func cbDelete(p string) string            { return "del:" + p }
func cbDeleteConfirm(p string) string     { return "del:" + p + ":yes" }
func cbSearch(p string) string            { return "s:" + p }
func cbBuildings(p string) string         { return "sb:" + p }
func cbBuilding(p string, n int) string   { return fmt.Sprintf("b:%s:%d", p, n) }
func cbFloor(p string, n, f int) string   { return fmt.Sprintf("f:%s:%d:%d", p, n, f) }
func cbSearchArea(p string) string        { return "sa:" + p }
func cbSearchBudget(p string) string      { return "sg:" + p }
func cbSearchCode(p string) string        { return "sc:" + p }
func cbLot(p, code string) string         { return "lot:" + p + ":" + code }
func cbROI(p, code string) string         { return "roi:" + p + ":" + code }
func cbCompare(p, code string) string     { return "cmp:" + p + ":" + code }
func cbInstallment(p, code string) string { return "inst:" + p + ":" + code }
func cbKP(p, code string) string          { return "kp:" + p + ":" + code }
func cbAI(p, code string) string          { return "ai:" + p + ":" + code }
func cbSettings(p string) string          { return "set:" + p }
func cbSettingField(p, key string) string { return "setf:" + p + ":" + key }
func cbCompareYears(p, code string, years int) string {
	return fmt.Sprintf("cmpy:%s:%s:%d", p, code, years)
}

const (
	cbList         = "list"
	cbAdd          = "add"
	cbGlobal       = "cfg"
	cbImportPrefix = "imp:"
)

func button(text, data string) telegram.InlineKeyboardButton {
	return telegram.CallbackButton(text, data)
}

func backRow(text, data string) []telegram.InlineKeyboardButton {
	return telegram.Row(button(text, data))
}

func propertiesKeyboard(properties []model.Property) *telegram.InlineKeyboardMarkup {
	rows := make([][]telegram.InlineKeyboardButton, 0, len(properties)+1)
	for _, p := range properties {
		rows = append(rows, telegram.Row(button("🏢 "+p.Name, cbProperty(p.ID))))
	}
	rows = append(rows, telegram.Row(button(btnAddProperty, cbAdd), button(btnSettings, cbGlobal)))
	return telegram.Keyboard(rows...)
}

func searchResultsKeyboard(facilities []catalog.Facility) *telegram.InlineKeyboardMarkup {
	rows := make([][]telegram.InlineKeyboardButton, 0, len(facilities)+1)
	for i, f := range facilities {
		if i == maxSearchResults {
			break
		}
		label := f.Name
		if f.CityName != "" {
			label += " • " + f.CityName
		}
		if f.ActiveLotsAmount > 0 {
			label += fmt.Sprintf(" • %d лотов", f.ActiveLotsAmount)
		}
		rows = append(rows, telegram.Row(button(truncate(label, maxButtonLabel, ""), cbImportPrefix+f.ID.String())))
	}
	rows = append(rows, backRow(btnBack, cbList))
	return telegram.Keyboard(rows...)
}

func propertyMenuKeyboard(p string, lotPickerURL string) *telegram.InlineKeyboardMarkup {
	var rows [][]telegram.InlineKeyboardButton
	if lotPickerURL != "" {
		rows = append(rows, telegram.Row(telegram.WebAppButton(btnSelectLot, lotPickerURL)))
	}
	rows = append(rows,
		backRow(btnSearch, cbSearch(p)),
		backRow(btnAbout, cbAbout(p)),
		backRow(btnParams, cbSettings(p)),
		backRow(btnDelete, cbDelete(p)),
		backRow(btnBackToList, cbList),
	)
	return telegram.Keyboard(rows...)
}

func deleteConfirmKeyboard(p string) *telegram.InlineKeyboardMarkup {
	return telegram.Keyboard(
		telegram.Row(button("✅ Да, удалить", cbDeleteConfirm(p)), button("❌ Отмена", cbProperty(p))),
	)
}

func searchMenuKeyboard(p string) *telegram.InlineKeyboardMarkup {
	return telegram.Keyboard(
		backRow(btnByBuilding, cbBuildings(p)),
		backRow(btnByArea, cbSearchArea(p)),
		backRow(btnByBudget, cbSearchBudget(p)),
		backRow(btnByCode, cbSearchCode(p)),
		backRow(btnBack, cbProperty(p)),
	)
}

func buildingsKeyboard(p string, stats []model.BuildingStats) *telegram.InlineKeyboardMarkup {
	rows := make([][]telegram.InlineKeyboardButton, 0, len(stats)+1)
	for _, s := range stats {
		label := fmt.Sprintf("Корпус %d • %d лотов • от %s", s.Building, s.Count, FormatPrice(deref(s.MinPrice)))
		rows = append(rows, telegram.Row(button(label, cbBuilding(p, s.Building))))
	}
	rows = append(rows, backRow(btnBack, cbSearch(p)))
	return telegram.Keyboard(rows...)
}

func floorsKeyboard(p string, building int, floors []model.FloorStats) *telegram.InlineKeyboardMarkup {
	var (
		rows [][]telegram.InlineKeyboardButton
		row  []telegram.InlineKeyboardButton
	)
	for _, f := range floors {
		row = append(row, button(fmt.Sprintf("%d эт (%d)", f.Floor, f.Count), cbFloor(p, building, f.Floor)))
		if len(row) == floorsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, backRow(btnBack, cbBuildings(p)))
	return telegram.Keyboard(rows...)
}

func unitLabel(u model.Unit) string {
	var icon string
	switch u.Status {
	case model.UnitBooked:
		icon = "🔒 "
	case model.UnitSold:
		icon = "❌ "
	}
	return fmt.Sprintf("%s%s • %s • %s • %s", icon, u.Code, FormatRooms(u.Rooms), FormatArea(deref(u.AreaM2)), FormatPrice(deref(u.Price)))
}

func unitsKeyboard(p string, units []model.Unit, back string) *telegram.InlineKeyboardMarkup {
	rows := make([][]telegram.InlineKeyboardButton, 0, min(len(units), maxUnitButtons)+1)
	for i, u := range units {
		if i == maxUnitButtons {
			break
		}
		rows = append(rows, telegram.Row(button(unitLabel(u), cbLot(p, u.Code))))
	}
	rows = append(rows, backRow(btnBack, back))
	return telegram.Keyboard(rows...)
}

func lotMenuKeyboard(p, code string) *telegram.InlineKeyboardMarkup {
	return telegram.Keyboard(
		backRow(btnKP, cbKP(p, code)),
		backRow(btnROI, cbROI(p, code)),
		backRow(btnCompare, cbCompare(p, code)),
		backRow(btnInstallment, cbInstallment(p, code)),
		backRow(btnAI, cbAI(p, code)),
		backRow(btnBackToSrch, cbSearch(p)),
	)
}

func roiKeyboard(p, code string) *telegram.InlineKeyboardMarkup {
	return telegram.Keyboard(
		backRow(btnCompare, cbCompare(p, code)),
		backRow(btnTuneParams, cbSettings(p)),
		backRow(btnBackToLot, cbLot(p, code)),
	)
}

func compareKeyboard(p, code string, current int) *telegram.InlineKeyboardMarkup {
	horizons := make([]telegram.InlineKeyboardButton, 0, len(compareHorizons))
	for _, y := range compareHorizons {
		label := strconv.Itoa(y) + " " + pluralYears(y)
		if y == current {
			label = "✓ " + label
		}
		horizons = append(horizons, button(label, cbCompareYears(p, code, y)))
	}
	return telegram.Keyboard(
		horizons,
		backRow(btnDetailedROI, cbROI(p, code)),
		backRow(btnBackToLot, cbLot(p, code)),
	)
}

func installmentKeyboard(p, code string) *telegram.InlineKeyboardMarkup {
	return telegram.Keyboard(
		backRow(btnTuneParams, cbSettings(p)),
		backRow(btnBackToLot, cbLot(p, code)),
	)
}

func settingsKeyboard(p string) *telegram.InlineKeyboardMarkup {
	var (
		rows [][]telegram.InlineKeyboardButton
		row  []telegram.InlineKeyboardButton
	)
	for _, f := range model.SettingFields {
		row = append(row, button(f.Label, cbSettingField(p, f.Key)))
		if len(row) == settingsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, backRow(btnBack, cbProperty(p)))
	return telegram.Keyboard(rows...)
}
