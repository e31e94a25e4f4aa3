package entity

// Claves de configuración del negocio (tabla settings).
const (
	SettingBusinessName      = "business_name"
	SettingBusinessPhone     = "business_phone"
	SettingBusinessAddress   = "business_address"
	SettingCurrency          = "currency"
	SettingReceiptFooter     = "receipt_footer"
	SettingLowStockThreshold = "low_stock_threshold"
)

// DefaultSettings valores sembrados en una instalación nueva.
var DefaultSettings = map[string]string{
	SettingBusinessName:      "DOMINAK 757 BUSINESS CENTRE",
	SettingBusinessPhone:     "+233 24 000 0000",
	SettingBusinessAddress:   "Accra, Ghana",
	SettingCurrency:          "GHS",
	SettingReceiptFooter:     "Thank you for your business!",
	SettingLowStockThreshold: "5",
}

// BusinessInfo datos del negocio que se imprimen en el recibo.
type BusinessInfo struct {
	Name          string
	Phone         string
	Address       string
	Currency      string
	ReceiptFooter string
}

// BusinessInfoFrom arma BusinessInfo a partir del mapa de settings, con los valores por defecto.
func BusinessInfoFrom(values map[string]string) BusinessInfo {
	get := func(key string) string {
		if v, ok := values[key]; ok && v != "" {
			return v
		}
		return DefaultSettings[key]
	}
	return BusinessInfo{
		Name:          get(SettingBusinessName),
		Phone:         get(SettingBusinessPhone),
		Address:       get(SettingBusinessAddress),
		Currency:      get(SettingCurrency),
		ReceiptFooter: get(SettingReceiptFooter),
	}
}
