package model

import (
	"encoding/json"
)

// Contact holds the restaurant's public contact details
type Contact struct {
	Phone            string `json:"phone"`
	PhoneAlt         string `json:"phone_alt"`
	Email            string `json:"email"`
	EmailReservation string `json:"email_reservation"`
	Address          string `json:"address"`
}

// Rating is the aggregate review score shown on the homepage
type Rating struct {
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// DeliveryLink points to the restaurant's profile on a delivery platform.
// Legacy settings files stored these as bare URL strings; the custom
// unmarshaller accepts both shapes so nothing past the load boundary has
// to branch on it.
type DeliveryLink struct {
	URL     string `json:"url"`
	Enabled bool   `json:"enabled"`
}

// UnmarshalJSON accepts either {"url": ..., "enabled": ...} or a bare URL string.
func (d *DeliveryLink) UnmarshalJSON(data []byte) error {
	var legacy string
	if err := json.Unmarshal(data, &legacy); err == nil {
		d.URL = legacy
		d.Enabled = legacy != ""
		return nil
	}

	type deliveryLink DeliveryLink
	var link deliveryLink
	if err := json.Unmarshal(data, &link); err != nil {
		return err
	}
	*d = DeliveryLink(link)
	return nil
}

// Event is a time-boxed promotional popup with one uploaded image.
// ImageFile names a file inside the upload directory; the settings store
// owns that file and deletes it when the event is deactivated or the
// image is replaced.
type Event struct {
	Active    bool   `json:"active"`
	DateFrom  string `json:"date_from"`
	DateTo    string `json:"date_to"`
	ImageFile string `json:"image_file"`
}

// Settings is the whole restaurant configuration document. It is read and
// rewritten wholesale; there are no partial updates.
//
// OpeningHours keys are lowercase weekday names or underscore-joined
// contiguous ranges ("monday", "tuesday_friday"). Exceptions keys are
// inclusive ISO date ranges "YYYY-MM-DD_YYYY-MM-DD". Values are display
// strings, either "HH:MM - HH:MM" or the closed marker.
type Settings struct {
	Contact           Contact                 `json:"contact"`
	Rating            Rating                  `json:"rating"`
	Delivery          map[string]DeliveryLink `json:"delivery"`
	DailyMenuURL      string                  `json:"daily_menu_url"`
	OpeningHours      map[string]string       `json:"opening_hours"`
	Exceptions        map[string]string       `json:"exceptions"`
	Event             Event                   `json:"event"`
	AdminPasswordHash string                  `json:"admin_password_hash"`
}

// ClosedMarker is the display value used for days the restaurant is closed.
const ClosedMarker = "ZAVŘENO"

// PublicSettings is the render-facing view of Settings with the password
// hash stripped.
type PublicSettings struct {
	Contact      Contact                 `json:"contact"`
	Rating       Rating                  `json:"rating"`
	Delivery     map[string]DeliveryLink `json:"delivery"`
	DailyMenuURL string                  `json:"daily_menu_url"`
	OpeningHours map[string]string       `json:"opening_hours"`
	Exceptions   map[string]string       `json:"exceptions"`
	Event        Event                   `json:"event"`
}

// Public returns the settings without the admin password hash.
func (s Settings) Public() PublicSettings {
	return PublicSettings{
		Contact:      s.Contact,
		Rating:       s.Rating,
		Delivery:     s.Delivery,
		DailyMenuURL: s.DailyMenuURL,
		OpeningHours: s.OpeningHours,
		Exceptions:   s.Exceptions,
		Event:        s.Event,
	}
}

// DefaultSettings returns the document written on first load when no
// settings file exists yet. The password hash is filled in by the store.
func DefaultSettings() Settings {
	return Settings{
		Contact: Contact{},
		Rating:  Rating{Value: 0, Count: 0},
		Delivery: map[string]DeliveryLink{
			"wolt":    {},
			"foodora": {},
			"bolt":    {},
		},
		OpeningHours: map[string]string{
			"monday_friday": "11:00 - 22:00",
			"saturday":      "12:00 - 22:00",
			"sunday":        ClosedMarker,
		},
		Exceptions: map[string]string{},
		Event:      Event{},
	}
}
