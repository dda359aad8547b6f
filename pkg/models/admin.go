package models

import "time"

// Import sources recorded in the admin state.
const (
	SourceBulk   = "bulk"
	SourceOCR    = "ocr"
	SourceBridge = "bridge"
)

// ImportResult is returned by bulk and OCR imports.
type ImportResult struct {
	Source    string     `json:"source"`
	Extracted int        `json:"extracted"`
	Stored    int        `json:"stored"`
	Questions []Question `json:"questions"`
}

// BridgeReport describes a sync with the external question sites. The sync is
// simulated and never touches the question bank.
type BridgeReport struct {
	Fetched  int       `json:"fetched"`
	Sources  []string  `json:"sources"`
	Filtered []string  `json:"filtered"`
	Message  string    `json:"message"`
	SyncedAt time.Time `json:"syncedAt"`
}

// ImportRecord is the most recent import of one source.
type ImportRecord struct {
	Source    string    `json:"source"`
	Extracted int       `json:"extracted"`
	Stored    int       `json:"stored"`
	At        time.Time `json:"at"`
}

// AdminState is what the admin panel shows and what is pushed to its sockets.
type AdminState struct {
	BankCount   int            `json:"bankCount"`
	LastBridge  *BridgeReport  `json:"lastBridge,omitempty"`
	LastImports []ImportRecord `json:"lastImports"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// BulkImportRequest is the body of POST /api/admin/import.
type BulkImportRequest struct {
	Content string `json:"content" validate:"required"`
}

// OCRImportRequest is the body of POST /api/admin/ocr. Image is base64, with
// or without a data URL prefix.
type OCRImportRequest struct {
	Image    string `json:"image" validate:"required"`
	MIMEType string `json:"mimeType" validate:"omitempty,startswith=image/"`
}

// SupplyRequest is the body of POST /api/questions/supply.
type SupplyRequest struct {
	Selector string `json:"selector" validate:"required"`
	Count    int    `json:"count" validate:"min=1,max=200"`
}
