package domain

// StatusView carries the render hints for one order status. The mapping
// is total over the status enumeration; anything unrecognized gets the
// neutral fallback instead of an error.
type StatusView struct {
	Icon  string `json:"icon"`
	Color string `json:"color"`
	Label string `json:"label"`
}

var statusViews = map[OrderStatus]StatusView{
	StatusPending:    {Icon: "clock", Color: "gray", Label: "Pending"},
	StatusConfirmed:  {Icon: "check-circle", Color: "blue", Label: "Confirmed"},
	StatusProcessing: {Icon: "cog", Color: "blue", Label: "Processing"},
	StatusShipped:    {Icon: "truck", Color: "indigo", Label: "Shipped"},
	StatusDelivered:  {Icon: "check-badge", Color: "green", Label: "Delivered"},
	StatusCancelled:  {Icon: "x-circle", Color: "red", Label: "Cancelled"},
	StatusRefunded:   {Icon: "arrow-uturn-left", Color: "yellow", Label: "Refunded"},
}

var fallbackStatusView = StatusView{Icon: "question-mark-circle", Color: "gray", Label: "Unknown"}

func ViewFor(s OrderStatus) StatusView {
	if v, ok := statusViews[s]; ok {
		return v
	}
	return fallbackStatusView
}
