package types

import "strings"

// ShippingAddress is the delivery address collected on the first wizard step.
// Landmark is the only optional field; everything else must be present before
// the wizard may advance. Presence is the only check imposed — no phone or
// pincode format validation.
type ShippingAddress struct {
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	Landmark   string `json:"landmark,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

// MissingFields lists the required fields that are empty, in display order.
func (a ShippingAddress) MissingFields() []string {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"full_name", a.FullName},
		{"phone", a.Phone},
		{"address", a.Address},
		{"city", a.City},
		{"state", a.State},
		{"postal_code", a.PostalCode},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	return missing
}

// Complete reports whether every required field is populated.
func (a ShippingAddress) Complete() bool {
	return len(a.MissingFields()) == 0
}
