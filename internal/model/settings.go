package model

// SettingKind determines how a settings value typed by the user is parsed and bounded.
type SettingKind int

const (
	KindMoney   SettingKind = iota // Whole rubles, 0..1e9
	KindPercent                    // 0..100
	KindRate                       // Percent per year or markup, 0..1000
	KindMonths                     // Whole months, 0..360
	KindText                       // Free text
)

// SettingField is an editable investment assumption of a property.
type SettingField struct {
	Key    string // Short key used in callback data
	Column string // property_custom column
	Label  string
	Kind   SettingKind
}

// SettingFields lists the editable assumptions in menu order.
var SettingFields = []SettingField{
	{Key: "rent", Column: "rental_daily_rate", Label: "Аренда, ₽/сутки", Kind: KindMoney},
	{Key: "occ", Column: "occupancy_rate", Label: "Загрузка, %", Kind: KindPercent},
	{Key: "opex", Column: "operating_expenses_pct", Label: "Расходы, %", Kind: KindPercent},
	{Key: "mgmt", Column: "management_fee_pct", Label: "Управляющая компания, %", Kind: KindPercent},
	{Key: "tax", Column: "tax_rate", Label: "Налог, %", Kind: KindPercent},
	{Key: "appr", Column: "appreciation_rate", Label: "Рост цены, % в год", Kind: KindRate},
	{Key: "pv", Column: "installment_pv", Label: "Первый взнос, %", Kind: KindPercent},
	{Key: "months", Column: "installment_months", Label: "Срок рассрочки, мес", Kind: KindMonths},
	{Key: "markup", Column: "installment_markup", Label: "Удорожание рассрочки, %", Kind: KindRate},
	{Key: "comm", Column: "commission_pct", Label: "Комиссия, %", Kind: KindPercent},
	{Key: "utp", Column: "utp", Label: "УТП", Kind: KindText},
	{Key: "notes", Column: "notes", Label: "Заметки", Kind: KindText},
	{Key: "phone", Column: "developer_phone", Label: "Телефон застройщика", Kind: KindText},
	{Key: "site", Column: "developer_website", Label: "Сайт застройщика", Kind: KindText},
}

// LookupSetting finds a setting by its key.
func LookupSetting(key string) (SettingField, bool) {
	for _, f := range SettingFields {
		if f.Key == key {
			return f, true
		}
	}
	return SettingField{}, false
}
