package contract

// Destination is a named intent-handling branch the router can select.
type Destination string

const (
	DestinationMenuViewer         Destination = "Menu Viewer"
	DestinationDescriptionExpert  Destination = "Description Expert"
	DestinationPriceChecker       Destination = "Price Checker"
	DestinationOrderSummary       Destination = "Order Summary"
	DestinationItemOrderProcessor Destination = "Item Order Processor"
	DestinationDefault            Destination = "Default"
)

// RouterDecision is the outcome of one routing call. It is transient:
// produced once per chat turn and never persisted.
type RouterDecision struct {
	Destination Destination       `json:"destination"`
	Inputs      map[string]string `json:"inputs"`
}

// ChatResult is the final shape of one chat turn.
type ChatResult struct {
	Tool     string `json:"tool"`
	Response string `json:"response"`
}

// OrderLine is one summarized line of a user's running order.
type OrderLine struct {
	ItemName  string  `json:"item_name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	ItemTotal float64 `json:"item_total"`
}
