package catalog

// KPIUnit is a selectable KPI unit. Value is stored in the form; Label is shown.
type KPIUnit struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var kpiTypes = []string{"作業時間", "資料作成工数", "修正・手戻り回数", "顧客満足度"}

var kpiUnits = []KPIUnit{
	{Value: "%削減", Label: "%削減"},
	{Value: "時間短縮", Label: "時間短縮/月"},
	{Value: "ポイント向上", Label: "pt向上"},
}

// KPITypes returns the selectable improvement targets (excluding "other")
func KPITypes() []string {
	out := make([]string, len(kpiTypes))
	copy(out, kpiTypes)
	return out
}

// KPIUnits returns the selectable KPI units
func KPIUnits() []KPIUnit {
	out := make([]KPIUnit, len(kpiUnits))
	copy(out, kpiUnits)
	return out
}
