package services

// ItemStatus tracks where a single pick-list line sits in the assembly flow.
type ItemStatus string

const (
	StatusPending         ItemStatus = "pending"
	StatusCollected       ItemStatus = "collected"
	StatusSkipped         ItemStatus = "skipped"
	StatusQuantityChanged ItemStatus = "quantity_changed"
)

// AssemblyItem is one line of the pick list.
type AssemblyItem struct {
	Article           string     `json:"article"`
	Name              string     `json:"name"`
	Quantity          int        `json:"quantity"`
	Barcode           string     `json:"barcode"`
	Location          string     `json:"location"`
	Status            ItemStatus `json:"status"`
	CollectedQuantity int        `json:"collected_quantity"`
	Box               int        `json:"box"`
}

// Identifier names the item in report text: barcode when present, article otherwise.
func (i AssemblyItem) Identifier() string {
	if i.Barcode != "" {
		return i.Barcode
	}
	return "Article: " + i.Article
}

// AssemblySession is one pick run over a parsed item list. Items keep their
// sheet order for the whole session; operations mutate them in place.
type AssemblySession struct {
	Items         []AssemblyItem `json:"items"`
	CurrentIndex  int            `json:"current_index"`
	CurrentBox    int            `json:"current_box"`
	ShipmentInfo  string         `json:"shipment_info"`
	InputFilePath string         `json:"input_file_path"`
	OutputDirURI  string         `json:"output_dir_uri"`
}

// NewSession builds a fresh session over a parse result. Collections start
// in box 1.
func NewSession(parsed *ParsedInput, inputFilePath, outputDirURI string) *AssemblySession {
	return &AssemblySession{
		Items:         parsed.Items,
		CurrentIndex:  0,
		CurrentBox:    1,
		ShipmentInfo:  parsed.ShipmentInfo,
		InputFilePath: inputFilePath,
		OutputDirURI:  outputDirURI,
	}
}
