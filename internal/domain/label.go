package domain

// LabelEntry is one row of a rendered nutrition label.
type LabelEntry struct {
	Name       string `json:"name"`
	Amount     string `json:"amount"`
	DailyValue string `json:"dailyValue,omitempty"`
}

// LabelSchema is the structured label handed to the external renderer:
// a calories line plus macro and micro nutrient groups in label order.
type LabelSchema struct {
	Title          string       `json:"title,omitempty"`
	ServingSize    string       `json:"servingSize"`
	Calories       float64      `json:"calories"`
	Nutrients      []LabelEntry `json:"nutrients"`
	Micronutrients []LabelEntry `json:"micronutrients"`
	Footer         []string     `json:"footer"`
}
