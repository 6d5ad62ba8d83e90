package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/config"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/investment"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/model"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/service"
)

const maxDescription = 500

const (
	textAddPrompt = "🔍 <b>Добавление ЖК</b>\n\n" +
		"Введи название ЖК для поиска.\n" +
		"Например: <code>Береговой</code> или <code>Лисья бухта</code>"
	textImporting = "⏳ Загружаю данные ЖК из YGroup...\n\nЭто может занять несколько секунд."

	textAreaPrompt = "📐 <b>Поиск по площади</b>\n\n" +
		"Введи диапазон площади в формате:\n" +
		"<code>30-50</code> или <code>40 60</code>\n\n" +
		"Или одно число для поиска ±5 м²"
	textBudgetPrompt = "💰 <b>Поиск по бюджету</b>\n\n" +
		"Введи диапазон бюджета в млн ₽:\n" +
		"<code>10-15</code> или <code>10 15</code>\n\n" +
		"Или одно число для максимального бюджета"
	textCodePrompt = "🔍 <b>Поиск по номеру</b>\n\n" +
		"Введи номер лота:\n" +
		"<code>А101</code> или <code>В205</code>"

	textAreaInvalid   = "❌ Не удалось распознать диапазон. Попробуй: 30-50"
	textBudgetInvalid = "❌ Не удалось распознать бюджет. Попробуй: 10-15"

	textNoUnits         = "❌ В этом ЖК нет лотов"
	textNoBuildingUnits = "❌ В этом корпусе нет лотов"
	textNoFloorUnits    = "❌ На этом этаже нет лотов"

	textInDevelopment = "🚧 Раздел в разработке"
	textSaved         = "✅ Сохранено"
)

func propertiesListText(properties []model.Property) string {
	if len(properties) == 0 {
		return "🏠 <b>Realt Assistant</b>\n\n" +
			"У тебя пока нет ЖК.\n" +
			"Нажми «" + btnAddProperty + "» чтобы начать."
	}

	var b strings.Builder
	b.WriteString("🏠 <b>Realt Assistant</b>\n\nТвои ЖК:\n\n")
	for _, p := range properties {
		fmt.Fprintf(&b, "🏢 <b>%s</b>\n", esc(p.Name))

		var parts []string
		if p.City != "" {
			parts = append(parts, "📍 "+esc(p.City))
		}
		if p.LotsCount > 0 {
			parts = append(parts, fmt.Sprintf("%d лотов", p.LotsCount))
		}
		if p.MinPrice != nil {
			parts = append(parts, "от "+FormatPrice(*p.MinPrice))
		}
		if len(parts) > 0 {
			b.WriteString("   " + strings.Join(parts, " • ") + "\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func facilityResultsText(query string, found int) string {
	if found == 0 {
		return fmt.Sprintf("🔍 По запросу «%s» ничего не найдено.\n\nПопробуй другое название.", esc(query))
	}
	return fmt.Sprintf("🔍 Найдено %d ЖК по запросу «%s»:\n\nВыбери для добавления:", found, esc(query))
}

func importedText(r service.ImportResult) string {
	return fmt.Sprintf("✅ <b>ЖК добавлен!</b>\n\n"+
		"🏢 %s\n"+
		"🏢 Корпусов: %d\n"+
		"🏠 Лотов: %d\n\n"+
		"Теперь ты можешь работать с этим ЖК.", esc(r.Property.Name), r.Buildings, r.Units)
}

func propertyMenuText(p model.Property) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏢 <b>%s</b>\n", esc(p.Name))

	if loc := joinNonEmpty(", ", p.City, p.District); loc != "" {
		b.WriteString("📍 " + esc(loc) + "\n")
	}
	if p.Developer != "" {
		b.WriteString("🏗 Застройщик: " + esc(p.Developer) + "\n")
	}

	var stats []string
	if p.LotsCount > 0 {
		stats = append(stats, fmt.Sprintf("%d лотов", p.LotsCount))
	}
	if p.MinPrice != nil {
		stats = append(stats, "от "+FormatPrice(*p.MinPrice))
	}
	if len(stats) > 0 {
		b.WriteString("📊 " + strings.Join(stats, " • ") + "\n")
	}
	return b.String()
}

func deleteConfirmText(p model.Property) string {
	return fmt.Sprintf("🗑 Удалить <b>%s</b>?\n\nВсе лоты и параметры расчёта этого ЖК будут удалены.", esc(p.Name))
}

func aboutText(o service.PropertyOverview) string {
	p := o.Property

	var b strings.Builder
	fmt.Fprintf(&b, "ℹ️ <b>О проекте: %s</b>\n\n", esc(p.Name))

	if p.City != "" || p.District != "" || p.Address != "" {
		b.WriteString("<b>📍 Локация:</b>\n")
		if p.City != "" {
			b.WriteString("Город: " + esc(p.City) + "\n")
		}
		if p.District != "" {
			b.WriteString("Район: " + esc(p.District) + "\n")
		}
		if p.Address != "" {
			b.WriteString("Адрес: " + esc(p.Address) + "\n")
		}
		b.WriteString("\n")
	}

	if p.Developer != "" {
		fmt.Fprintf(&b, "<b>🏗 Застройщик:</b> %s\n\n", esc(p.Developer))
	}

	if d := strings.TrimSpace(p.Description); d != "" {
		fmt.Fprintf(&b, "<b>📝 Описание:</b>\n%s\n\n", esc(truncate(d, maxDescription, "...")))
	}

	if len(o.Stats) > 0 {
		b.WriteString("<b>🏢 Корпуса:</b>\n")
		for _, s := range o.Stats {
			fmt.Fprintf(&b, "• Корпус %d: %d лотов, этажи %s-%s, %s - %s\n",
				s.Building, s.Count,
				intOrPlaceholder(s.MinFloor), intOrPlaceholder(s.MaxFloor),
				FormatPrice(deref(s.MinPrice)), FormatPrice(deref(s.MaxPrice)))
		}
	}
	return strings.TrimSpace(b.String())
}

func searchMenuText(p model.Property) string {
	return fmt.Sprintf("🔍 <b>Поиск — %s</b>\n\nВыбери способ поиска:", esc(p.Name))
}

func buildingsText(p model.Property) string {
	return fmt.Sprintf("🏢 <b>%s</b>\n\nВыбери корпус:", esc(p.Name))
}

func floorsText(p model.Property, building int) string {
	return fmt.Sprintf("🏢 <b>%s • Корпус %d</b>\n\nВыбери этаж:", esc(p.Name), building)
}

func floorUnitsText(p model.Property, building, floor, count int) string {
	return fmt.Sprintf("🏢 <b>%s</b>\nКорпус %d • %d этаж\n\nЛоты (%d):", esc(p.Name), building, floor, count)
}

func areaResultsText(p model.Property, r service.AreaRange, count int) string {
	rng := formatNumber(r.Min) + "-" + formatNumber(r.Max) + " м²"
	if count == 0 {
		return "❌ Не найдено лотов с площадью " + rng
	}
	return fmt.Sprintf("📐 <b>%s</b>\nПлощадь %s\n\nНайдено %d лотов:", esc(p.Name), rng, count)
}

func budgetResultsText(p model.Property, r service.BudgetRange, count int) string {
	rng := FormatPrice(r.Min) + " - " + FormatPrice(r.Max)
	if r.Min == 0 {
		rng = "до " + FormatPrice(r.Max)
	}
	if count == 0 {
		return "❌ Не найдено лотов в бюджете " + rng
	}
	return fmt.Sprintf("💰 <b>%s</b>\nБюджет %s\n\nНайдено %d лотов:", esc(p.Name), rng, count)
}

func codeNotFoundText(code string, similar int) string {
	if similar > 0 {
		return fmt.Sprintf("❌ Лот «%s» не найден. Похожие:", esc(code))
	}
	return fmt.Sprintf("❌ Лот «%s» не найден", esc(code))
}

// buildingStatus renders the completion state of a building, or "" when unknown.
func buildingStatus(b *model.Building) string {
	switch {
	case b == nil:
		return ""
	case b.IsCompleted:
		return "✅ Сдан"
	case b.CommissioningDate != nil && *b.CommissioningDate != "":
		return "🔑 Сдача: " + esc(*b.CommissioningDate)
	}
	return ""
}

func lotHeader(lot service.Lot) string {
	return fmt.Sprintf("Лот %s • %s\n\n", esc(lot.Unit.Code), esc(lot.Property.Name))
}

func lotMenuText(lot service.Lot) string {
	u := lot.Unit

	var b strings.Builder
	fmt.Fprintf(&b, "🏢 <b>Лот %s</b>\n", esc(u.Code))

	parts := []string{esc(lot.Property.Name), fmt.Sprintf("Корпус %d", u.Building)}
	if u.Floor != nil {
		parts = append(parts, fmt.Sprintf("%d этаж", *u.Floor))
	}
	b.WriteString(strings.Join(parts, " • ") + "\n\n")

	fmt.Fprintf(&b, "📐 %s • %s\n", FormatArea(deref(u.AreaM2)), FormatRooms(u.Rooms))
	fmt.Fprintf(&b, "💰 %s\n", FormatPriceFull(deref(u.Price)))
	fmt.Fprintf(&b, "📊 %s\n", FormatPricePerM2(deref(u.PricePerM2)))

	if u.DecorationType != nil && *u.DecorationType != "" {
		fmt.Fprintf(&b, "🔧 %s\n", esc(*u.DecorationType))
	}
	if u.Status == model.UnitBooked {
		b.WriteString("🔒 Забронирован\n")
	}
	if status := buildingStatus(lot.Building); status != "" {
		b.WriteString(status + "\n")
	}
	return b.String()
}

func roiText(r service.RoiReport) string {
	lot, s := r.Lot, r.Summary
	a := lot.Assumptions

	var b strings.Builder
	b.WriteString("📊 <b>Расчёт доходности</b>\n")
	b.WriteString(lotHeader(lot))
	fmt.Fprintf(&b, "💰 Стоимость: %s\n", FormatPriceFull(deref(lot.Unit.Price)))

	switch {
	case lot.Building == nil:
	case lot.Building.IsCompleted:
		b.WriteString("🔑 Статус: Сдан ✅\n")
	case lot.Building.CommissioningDate != nil:
		fmt.Fprintf(&b, "🔑 Сдача: %s\n", esc(*lot.Building.CommissioningDate))
	}

	b.WriteString("\n<b>⚙️ Параметры:</b>\n")
	fmt.Fprintf(&b, "• Рост цены: %s%% в год\n", formatPct(a.AppreciationRate))
	if s.HasRental {
		fmt.Fprintf(&b, "• Аренда: %s/сутки\n", FormatPrice(a.RentalDailyRate))
		fmt.Fprintf(&b, "• Загрузка: %s%%\n", formatPct(a.OccupancyRate))
		fmt.Fprintf(&b, "• Расходы: %s%% + УК %s%%\n", formatPct(a.OperatingExpensesPct), formatPct(a.ManagementFeePct))
		fmt.Fprintf(&b, "• Налог: %s%%\n", formatPct(a.TaxRate))
	} else {
		b.WriteString("• Аренда: не задана\n")
	}

	b.WriteString("\n<b>📈 Прогноз по годам:</b>\n")
	for _, y := range s.ByYear {
		fmt.Fprintf(&b, "<b>%d год:</b> %s (%s%%, ~%s%%/год)\n",
			y.Year, signedAmount(y.TotalProfit), formatPct(y.RoiPct), formatPct(y.AnnualYield))
	}

	if s.HasRental && s.PaysBack() {
		fmt.Fprintf(&b, "\n⏱ Окупаемость: %s лет\n", formatPct(s.PaybackYears))
	}
	return b.String()
}

func compareText(r service.ComparisonReport) string {
	lot, c := r.Lot, r.Comparison

	var b strings.Builder
	b.WriteString("💰 <b>Недвижимость vs Депозит</b>\n")
	b.WriteString(lotHeader(lot))

	fmt.Fprintf(&b, "📊 Сумма инвестиции: %s\n", FormatPriceFull(deref(lot.Unit.Price)))
	fmt.Fprintf(&b, "📅 Период: %d %s\n", c.Years, pluralYears(c.Years))
	fmt.Fprintf(&b, "🏦 Ставка ЦБ: %s%%\n\n", formatPct(c.BenchmarkRate))

	roi := r.Summary.FinalRoi
	if y, ok := r.Summary.Year(c.Years); ok {
		roi = y.RoiPct
	}
	b.WriteString("<b>🏠 Недвижимость:</b>\n")
	fmt.Fprintf(&b, "• Доход: %s\n", signedAmount(c.PropertyProfit))
	fmt.Fprintf(&b, "• ROI: %s%%\n\n", formatPct(roi))

	b.WriteString("<b>🏦 Депозит:</b>\n")
	fmt.Fprintf(&b, "• Итого: %s\n", formatAmount(c.DepositFinal))
	fmt.Fprintf(&b, "• Доход: %s\n\n", signedAmount(c.DepositProfit))

	diff := formatAmount(c.Difference)
	if c.Difference < 0 {
		diff = formatAmount(-c.Difference)
	}
	if c.Winner == investment.WinnerProperty {
		fmt.Fprintf(&b, "✅ <b>Недвижимость выгоднее</b> на %s\n", diff)
		fmt.Fprintf(&b, "Преимущество: +%s%% от суммы инвестиции", formatPct(c.AdvantagePct))
	} else {
		fmt.Fprintf(&b, "🏦 <b>Депозит выгоднее</b> на %s\n", diff)
		b.WriteString("Но недвижимость остаётся активом, который можно использовать")
	}
	return b.String()
}

func installmentText(r service.InstallmentReport) string {
	lot, p := r.Lot, r.Plan

	var b strings.Builder
	b.WriteString("🗓 <b>Рассрочка</b>\n")
	b.WriteString(lotHeader(lot))

	fmt.Fprintf(&b, "💰 Стоимость: %s\n\n", FormatPriceFull(deref(lot.Unit.Price)))
	fmt.Fprintf(&b, "💵 Первый взнос: %s (%s%%)\n", formatAmount(p.DownPayment), formatPct(p.DownPaymentPct))
	fmt.Fprintf(&b, "📅 Срок: %d мес\n", p.Months)
	if p.Months > 0 {
		fmt.Fprintf(&b, "💳 Ежемесячно: %s\n", formatAmount(p.MonthlyPayment))
	}
	fmt.Fprintf(&b, "📈 Удорожание: %s%%\n\n", formatPct(lot.Assumptions.InstallmentMarkup))

	fmt.Fprintf(&b, "Итого к оплате: %s\n", formatAmount(p.TotalPaid))
	fmt.Fprintf(&b, "Переплата: %s (%s%%)", formatAmount(p.Overpayment), formatPct(p.OverpaymentPct))
	return b.String()
}

func settingsText(p model.Property, a model.Assumptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⚙️ <b>Параметры — %s</b>\n\n", esc(p.Name))
	for _, f := range model.SettingFields {
		fmt.Fprintf(&b, "• %s: %s\n", f.Label, settingValue(a, f.Key))
	}
	b.WriteString("\nВыбери параметр для изменения:")
	return b.String()
}

func settingPromptText(f model.SettingField, current string) string {
	return fmt.Sprintf("✏️ <b>%s</b>\n\nСейчас: %s\n\n%s\n\nЧтобы сбросить значение, отправь <code>-</code>",
		f.Label, current, settingHint(f.Kind))
}

func settingInvalidText(f model.SettingField) string {
	return "❌ Неверное значение.\n\n" + settingHint(f.Kind)
}

func settingHint(kind model.SettingKind) string {
	switch kind {
	case model.KindMoney:
		return "Введи сумму в рублях, например <code>4500</code>"
	case model.KindPercent:
		return "Введи число от 0 до 100, например <code>70</code>"
	case model.KindRate:
		return "Введи процент от 0 до 1000, например <code>10</code>"
	case model.KindMonths:
		return "Введи количество месяцев, например <code>24</code>"
	}
	return "Введи текст до 1000 символов"
}

// settingValue renders the stored value of a setting, or a placeholder when unset.
func settingValue(a model.Assumptions, key string) string {
	pct := func(v *float64) string {
		if v == nil {
			return placeholder
		}
		return formatPct(*v) + "%"
	}
	text := func(v *string) string {
		if v == nil || *v == "" {
			return placeholder
		}
		return esc(truncate(*v, 40, "..."))
	}

	switch key {
	case "rent":
		if a.RentalDailyRate == nil {
			return placeholder
		}
		return FormatPriceFull(*a.RentalDailyRate)
	case "occ":
		return pct(a.OccupancyRate)
	case "opex":
		return pct(a.OperatingExpensesPct)
	case "mgmt":
		return pct(a.ManagementFeePct)
	case "tax":
		return pct(a.TaxRate)
	case "appr":
		return pct(a.AppreciationRate)
	case "pv":
		return pct(a.InstallmentPV)
	case "months":
		if a.InstallmentMonths == nil {
			return placeholder
		}
		return strconv.Itoa(*a.InstallmentMonths) + " мес"
	case "markup":
		return pct(a.InstallmentMarkup)
	case "comm":
		return pct(a.CommissionPct)
	case "utp":
		return text(a.UTP)
	case "notes":
		return text(a.Notes)
	case "phone":
		return text(a.DeveloperPhone)
	case "site":
		return text(a.DeveloperWebsite)
	}
	return placeholder
}

func defaultsText(d config.InvestmentConfig) string {
	var b strings.Builder
	b.WriteString("⚙️ <b>Настройки</b>\n\n")
	b.WriteString("Параметры расчёта по умолчанию:\n")
	fmt.Fprintf(&b, "• Рост цены: %s%% в год\n", formatPct(d.AppreciationRate))
	fmt.Fprintf(&b, "• Загрузка: %s%%\n", formatPct(d.OccupancyRate))
	fmt.Fprintf(&b, "• Расходы: %s%% + УК %s%%\n", formatPct(d.OperatingExpensesPct), formatPct(d.ManagementFeePct))
	fmt.Fprintf(&b, "• Налог: %s%%\n", formatPct(d.TaxRate))
	fmt.Fprintf(&b, "• Ставка ЦБ: %s%%\n", formatPct(d.BenchmarkRate))
	fmt.Fprintf(&b, "• Горизонт: %d %s\n\n", d.Years, pluralYears(d.Years))
	b.WriteString("Параметры отдельного ЖК меняются в его меню.")
	return b.String()
}

func signedAmount(v float64) string {
	if v > 0 {
		return "+" + formatAmount(v)
	}
	return formatAmount(v)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func intOrPlaceholder(v *int) string {
	if v == nil {
		return placeholder
	}
	return strconv.Itoa(*v)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
