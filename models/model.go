package models

// Capability flags a catalog model may carry.
const (
	CapabilityText  = "text"
	CapabilityImage = "image"
	CapabilityFile  = "file"
)

// Model is a static catalog entry. The catalog is seeded at startup and never
// mutated through the API.
type Model struct {
	ID           string   `json:"id" gorm:"primaryKey"`
	Label        string   `json:"label"`
	Capabilities []string `json:"capabilities" gorm:"serializer:json"`
}

func (Model) TableName() string { return "models" }

// Supports reports whether the model carries the given capability.
func (m Model) Supports(capability string) bool {
	for _, c := range m.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}
