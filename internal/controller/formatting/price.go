package formatting

import "fmt"

// FormatPrice форматирует цену подкурса из копеек в рубли, 0 - бесплатно
func FormatPrice(priceInCents int64) string {
	if priceInCents <= 0 {
		return "бесплатно"
	}
	price := float64(priceInCents) / 100
	if priceInCents%100 == 0 {
		return fmt.Sprintf("%.0f ₽", price)
	}
	return fmt.Sprintf("%.2f ₽", price)
}
