package models

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/yeremiapane/realestate-app/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ListingType string

const (
	ListingSale ListingType = "sale"
	ListingRent ListingType = "rent"
)

type PropertyStatus string

const (
	PropertyPending  PropertyStatus = "pending"
	PropertyApproved PropertyStatus = "approved"
	PropertyRejected PropertyStatus = "rejected"
	PropertyActive   PropertyStatus = "active"
	PropertyInactive PropertyStatus = "inactive"
	PropertySold     PropertyStatus = "sold"
	PropertyRented   PropertyStatus = "rented"
)

const (
	MaxPropertyImages = 12
	maxRentAgents     = 2
	maxSaleAgents     = 4
)

// AgentCap is the number of agents that may be engaged on a listing.
func (t ListingType) AgentCap() int {
	if t == ListingRent {
		return maxRentAgents
	}
	return maxSaleAgents
}

func (t ListingType) Valid() bool {
	return t == ListingSale || t == ListingRent
}

// GeoPoint is stored as three columns and serialised as a GeoJSON point.
type GeoPoint struct {
	Type      string  `gorm:"type:varchar(10)"`
	Longitude float64 `gorm:"index:idx_property_location,priority:2"`
	Latitude  float64 `gorm:"index:idx_property_location,priority:1"`
}

func NewGeoPoint(lng, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Longitude: lng, Latitude: lat}
}

func (g GeoPoint) IsSet() bool {
	return g.Type == "Point"
}

type geoJSON struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

func (g GeoPoint) MarshalJSON() ([]byte, error) {
	if !g.IsSet() {
		return []byte("null"), nil
	}
	return json.Marshal(geoJSON{Type: "Point", Coordinates: []float64{g.Longitude, g.Latitude}})
}

func (g *GeoPoint) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*g = GeoPoint{}
		return nil
	}
	var raw geoJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Type != "Point" {
		return errors.New(`location.type must be "Point"`)
	}
	if len(raw.Coordinates) != 2 {
		return errors.New("location.coordinates must be [longitude, latitude]")
	}
	lng, lat := raw.Coordinates[0], raw.Coordinates[1]
	if lng < -180 || lng > 180 || lat < -90 || lat > 90 {
		return errors.New("location.coordinates out of range")
	}
	*g = NewGeoPoint(lng, lat)
	return nil
}

type Property struct {
	ID             string                      `gorm:"primaryKey;type:varchar(32)" json:"id"`
	Title          string                      `gorm:"type:varchar(255);not null" json:"title"`
	Description    string                      `gorm:"type:text" json:"description,omitempty"`
	Location       GeoPoint                    `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	Price          float64                     `gorm:"not null;index" json:"price"`
	Area           float64                     `gorm:"index" json:"area,omitempty"`
	Type           ListingType                 `gorm:"type:varchar(10);not null;index" json:"type"`
	Images         datatypes.JSONSlice[string] `json:"images"`
	Videos         datatypes.JSONSlice[string] `json:"videos"`
	Status         PropertyStatus              `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	OwnerID        string                      `gorm:"type:varchar(32);not null;index" json:"ownerId"`
	Agents         datatypes.JSONSlice[string] `json:"agents"`
	AcceptedAgents datatypes.JSONSlice[string] `json:"acceptedAgents"`
	Amenities      datatypes.JSONSlice[string] `json:"amenities"`
	ContactName    string                      `gorm:"type:varchar(255)" json:"contactName,omitempty"`
	ContactEmail   string                      `gorm:"type:varchar(255)" json:"contactEmail,omitempty"`
	ContactNumber  string                      `gorm:"type:varchar(30)" json:"contactNumber,omitempty"`
	AvailableFrom  *time.Time                  `json:"availableFrom,omitempty"`
	Currency       string                      `gorm:"type:varchar(3);default:'USD'" json:"currency"`
	RentPeriod     string                      `gorm:"type:varchar(20)" json:"rentPeriod,omitempty"`
	Address        string                      `gorm:"type:varchar(255);index" json:"address,omitempty"`
	City           string                      `gorm:"type:varchar(100);index" json:"city,omitempty"`
	State          string                      `gorm:"type:varchar(100)" json:"state,omitempty"`
	Country        string                      `gorm:"type:varchar(100)" json:"country,omitempty"`
	HeatingSystem  string                      `gorm:"type:varchar(100)" json:"heatingSystem,omitempty"`
	CoolingSystem  string                      `gorm:"type:varchar(100)" json:"coolingSystem,omitempty"`
	ParkingSpaces  int                         `json:"parkingSpaces,omitempty"`
	FloorNumber    int                         `json:"floorNumber,omitempty"`
	Bathrooms      int                         `json:"bathrooms,omitempty"`
	Bedrooms       int                         `gorm:"index" json:"bedrooms,omitempty"`
	PropertyType   string                      `gorm:"type:varchar(20);index" json:"propertyType,omitempty"`
	Purpose        string                      `gorm:"type:varchar(20)" json:"purpose,omitempty"`
	IsFurnished    bool                        `json:"isFurnished"`
	CreatedAt      time.Time                   `gorm:"index" json:"createdAt"`
	UpdatedAt      time.Time                   `json:"updatedAt"`
}

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = utils.NewID()
	}
	if p.Status == "" {
		p.Status = PropertyPending
	}
	if p.Currency == "" {
		p.Currency = "USD"
	}
	for _, s := range []*datatypes.JSONSlice[string]{&p.Images, &p.Videos, &p.Agents, &p.AcceptedAgents, &p.Amenities} {
		if *s == nil {
			*s = datatypes.JSONSlice[string]{}
		}
	}
	return nil
}

// EngagedAgents counts pending and accepted deal requests together; the
// listing's agent cap applies to this number.
func (p *Property) EngagedAgents() int {
	return len(p.Agents) + len(p.AcceptedAgents)
}

func (p *Property) HasAgent(agentID string) bool {
	return indexOf(p.Agents, agentID) >= 0 || indexOf(p.AcceptedAgents, agentID) >= 0
}

// AcceptAgent moves agentID from the pending list to the accepted list.
// It reports false when agentID has no pending request.
func (p *Property) AcceptAgent(agentID string) bool {
	i := indexOf(p.Agents, agentID)
	if i < 0 {
		return false
	}
	pending := make(datatypes.JSONSlice[string], 0, len(p.Agents)-1)
	pending = append(pending, p.Agents[:i]...)
	p.Agents = append(pending, p.Agents[i+1:]...)
	p.AcceptedAgents = append(p.AcceptedAgents, agentID)
	return true
}

func indexOf(values []string, v string) int {
	for i, s := range values {
		if s == v {
			return i
		}
	}
	return -1
}
