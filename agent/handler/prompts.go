package handler

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/menu_viewer.txt
	menuViewerRaw string

	//go:embed template/description.txt
	descriptionRaw string

	//go:embed template/price_checker.txt
	priceCheckerRaw string

	//go:embed template/order_summary.txt
	orderSummaryRaw string

	//go:embed template/item_order.txt
	itemOrderRaw string

	//go:embed template/default.txt
	defaultRaw string
)

// PromptSet holds loaded prompt content, one template per destination.
type PromptSet struct {
	MenuViewer         string
	DescriptionExpert  string
	PriceChecker       string
	OrderSummary       string
	ItemOrderProcessor string
	Default            string
}

// LoadPromptSet returns trimmed prompt strings. Safe to call
// concurrently; the embed is compile-time and trimming is cheap.
func LoadPromptSet() PromptSet {
	return PromptSet{
		MenuViewer:         strings.TrimSpace(menuViewerRaw),
		DescriptionExpert:  strings.TrimSpace(descriptionRaw),
		PriceChecker:       strings.TrimSpace(priceCheckerRaw),
		OrderSummary:       strings.TrimSpace(orderSummaryRaw),
		ItemOrderProcessor: strings.TrimSpace(itemOrderRaw),
		Default:            strings.TrimSpace(defaultRaw),
	}
}
