package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/realestate-app/metrics"
	"github.com/yeremiapane/realestate-app/models"
	"github.com/yeremiapane/realestate-app/repository"
	"github.com/yeremiapane/realestate-app/utils"
	"gorm.io/datatypes"
)

const propertyUploadFolder = "property"

type CreatePropertyInput struct {
	Title         string             `json:"title" form:"title" binding:"required"`
	Description   string             `json:"description" form:"description"`
	Location      *models.GeoPoint   `json:"location" form:"-"`
	Price         *float64           `json:"price" form:"price" binding:"required,gte=0"`
	Area          float64            `json:"area" form:"area" binding:"gte=0"`
	Type          models.ListingType `json:"type" form:"type" binding:"required,oneof=sale rent"`
	Status        string             `json:"status" form:"status" binding:"omitempty,oneof=pending approved rejected active inactive sold rented"`
	Videos        []string           `json:"videos" form:"videos"`
	Amenities     []string           `json:"amenities" form:"amenities"`
	ContactName   string             `json:"contactName" form:"contactName"`
	ContactEmail  string             `json:"contactEmail" form:"contactEmail" binding:"omitempty,email"`
	ContactNumber string             `json:"contactNumber" form:"contactNumber"`
	AvailableFrom *time.Time         `json:"availableFrom" form:"availableFrom"`
	Currency      string             `json:"currency" form:"currency" binding:"omitempty,len=3"`
	RentPeriod    string             `json:"rentPeriod" form:"rentPeriod"`
	Address       string             `json:"address" form:"address"`
	City          string             `json:"city" form:"city"`
	State         string             `json:"state" form:"state"`
	Country       string             `json:"country" form:"country"`
	HeatingSystem string             `json:"heatingSystem" form:"heatingSystem"`
	CoolingSystem string             `json:"coolingSystem" form:"coolingSystem"`
	ParkingSpaces int                `json:"parkingSpaces" form:"parkingSpaces" binding:"gte=0"`
	FloorNumber   int                `json:"floorNumber" form:"floorNumber"`
	Bathrooms     int                `json:"bathrooms" form:"bathrooms" binding:"gte=0"`
	Bedrooms      int                `json:"bedrooms" form:"bedrooms" binding:"gte=0"`
	PropertyType  string             `json:"propertyType" form:"propertyType" binding:"omitempty,oneof=apartment house condo land commercial"`
	Purpose       string             `json:"purpose" form:"purpose" binding:"omitempty,oneof=residential commercial investment"`
	IsFurnished   bool               `json:"isFurnished" form:"isFurnished"`
}

// UpdatePropertyInput lists the patchable fields. Owner, type and the
// negotiation and image lists are not among them.
type UpdatePropertyInput struct {
	Title         *string          `json:"title" binding:"omitempty,min=1"`
	Description   *string          `json:"description"`
	Location      *models.GeoPoint `json:"location"`
	Price         *float64         `json:"price" binding:"omitempty,gte=0"`
	Area          *float64         `json:"area" binding:"omitempty,gte=0"`
	Status        *string          `json:"status" binding:"omitempty,oneof=pending approved rejected active inactive sold rented"`
	Videos        *[]string        `json:"videos"`
	Amenities     *[]string        `json:"amenities"`
	ContactName   *string          `json:"contactName"`
	ContactEmail  *string          `json:"contactEmail" binding:"omitempty,email"`
	ContactNumber *string          `json:"contactNumber"`
	AvailableFrom *time.Time       `json:"availableFrom"`
	Currency      *string          `json:"currency" binding:"omitempty,len=3"`
	RentPeriod    *string          `json:"rentPeriod"`
	Address       *string          `json:"address"`
	City          *string          `json:"city"`
	State         *string          `json:"state"`
	Country       *string          `json:"country"`
	HeatingSystem *string          `json:"heatingSystem"`
	CoolingSystem *string          `json:"coolingSystem"`
	ParkingSpaces *int             `json:"parkingSpaces" binding:"omitempty,gte=0"`
	FloorNumber   *int             `json:"floorNumber"`
	Bathrooms     *int             `json:"bathrooms" binding:"omitempty,gte=0"`
	Bedrooms      *int             `json:"bedrooms" binding:"omitempty,gte=0"`
	PropertyType  *string          `json:"propertyType" binding:"omitempty,oneof=apartment house condo land commercial"`
	Purpose       *string          `json:"purpose" binding:"omitempty,oneof=residential commercial investment"`
	IsFurnished   *bool            `json:"isFurnished"`
}

func (in UpdatePropertyInput) fields() map[string]interface{} {
	f := map[string]interface{}{}
	setString := func(column string, v *string) {
		if v != nil {
			f[column] = *v
		}
	}
	setInt := func(column string, v *int) {
		if v != nil {
			f[column] = *v
		}
	}
	setList := func(column string, v *[]string) {
		if v != nil {
			f[column] = datatypes.JSONSlice[string](*v)
		}
	}

	setString("title", in.Title)
	setString("description", in.Description)
	setString("status", in.Status)
	setString("contact_name", in.ContactName)
	setString("contact_email", in.ContactEmail)
	setString("contact_number", in.ContactNumber)
	setString("currency", in.Currency)
	setString("rent_period", in.RentPeriod)
	setString("address", in.Address)
	setString("city", in.City)
	setString("state", in.State)
	setString("country", in.Country)
	setString("heating_system", in.HeatingSystem)
	setString("cooling_system", in.CoolingSystem)
	setString("property_type", in.PropertyType)
	setString("purpose", in.Purpose)
	setInt("parking_spaces", in.ParkingSpaces)
	setInt("floor_number", in.FloorNumber)
	setInt("bathrooms", in.Bathrooms)
	setInt("bedrooms", in.Bedrooms)
	setList("videos", in.Videos)
	setList("amenities", in.Amenities)

	if in.Price != nil {
		f["price"] = *in.Price
	}
	if in.Area != nil {
		f["area"] = *in.Area
	}
	if in.AvailableFrom != nil {
		f["available_from"] = *in.AvailableFrom
	}
	if in.IsFurnished != nil {
		f["is_furnished"] = *in.IsFurnished
	}
	if in.Location != nil {
		f["location_type"] = in.Location.Type
		f["location_longitude"] = in.Location.Longitude
		f["location_latitude"] = in.Location.Latitude
	}
	return f
}

type DealProposal struct {
	CommissionRate float64 `json:"commissionRate" binding:"gte=0,lte=100"`
	Terms          string  `json:"terms"`
}

type Inquiry struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}

type PropertyPage struct {
	Properties []models.Property `json:"properties"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}

type PropertyService struct {
	properties PropertyStore
	uploader   Uploader
	notifier   Notifier
	history    Auditor
	metrics    *metrics.Metrics
}

func NewPropertyService(properties PropertyStore, uploader Uploader, notifier Notifier, history Auditor, m *metrics.Metrics) *PropertyService {
	return &PropertyService{
		properties: properties,
		uploader:   uploader,
		notifier:   notifier,
		history:    history,
		metrics:    m,
	}
}

func (s *PropertyService) Create(ctx context.Context, actor models.Actor, input CreatePropertyInput, files []*multipart.FileHeader) (*models.Property, error) {
	if err := RequireRole(actor, models.RoleUser, models.RoleAdmin); err != nil {
		return nil, utils.Unauthorized("Only users or admins can create properties")
	}
	if len(files) > models.MaxPropertyImages {
		return nil, utils.BadRequest("A property can have at most %d images", models.MaxPropertyImages)
	}
	if input.Price == nil {
		return nil, utils.BadRequest("price is required")
	}
	if !input.Type.Valid() {
		return nil, utils.BadRequest("type must be sale or rent")
	}

	p := &models.Property{
		Title:         input.Title,
		Description:   input.Description,
		Price:         *input.Price,
		Area:          input.Area,
		Type:          input.Type,
		Status:        models.PropertyStatus(input.Status),
		OwnerID:       actor.UserID,
		Videos:        datatypes.JSONSlice[string](input.Videos),
		Amenities:     datatypes.JSONSlice[string](input.Amenities),
		ContactName:   input.ContactName,
		ContactEmail:  input.ContactEmail,
		ContactNumber: input.ContactNumber,
		AvailableFrom: input.AvailableFrom,
		Currency:      input.Currency,
		RentPeriod:    input.RentPeriod,
		Address:       input.Address,
		City:          input.City,
		State:         input.State,
		Country:       input.Country,
		HeatingSystem: input.HeatingSystem,
		CoolingSystem: input.CoolingSystem,
		ParkingSpaces: input.ParkingSpaces,
		FloorNumber:   input.FloorNumber,
		Bathrooms:     input.Bathrooms,
		Bedrooms:      input.Bedrooms,
		PropertyType:  input.PropertyType,
		Purpose:       input.Purpose,
		IsFurnished:   input.IsFurnished,
	}
	if input.Location != nil {
		p.Location = *input.Location
	}

	if len(files) > 0 {
		paths, err := uploadAll(ctx, s.uploader, files, propertyUploadFolder)
		if err != nil {
			return nil, err
		}
		p.Images = paths
	}

	if err := s.properties.Create(ctx, p); err != nil {
		s.discard(ctx, p.Images)
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{"property": p.ID, "owner": p.OwnerID}).Info("Property created")
	notify(ctx, s.notifier, SendNotificationInput{
		UserID:       actor.UserID,
		Message:      fmt.Sprintf("New property %q was created", p.Title),
		AllowedRoles: models.NewRoleSet(models.RoleAdmin, models.RoleSeller),
		Purpose:      models.PurposePropertyCreated,
		RelatedID:    p.ID,
		RelatedModel: models.RelatedProperty,
	})
	audit(ctx, s.history, HistoryEntry{
		Action:     models.ActionPropertyCreated,
		UserID:     actor.UserID,
		PropertyID: p.ID,
		Details:    map[string]interface{}{"title": p.Title, "type": p.Type},
	})
	return p, nil
}

func (s *PropertyService) FindAll(ctx context.Context, q SearchQuery) (*PropertyPage, error) {
	page := normalizePage(q.Page, q.Limit)
	properties, total, err := s.properties.Search(ctx, repository.PropertySearch{
		Text:     q.Q,
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		MinArea:  q.MinArea,
		MaxArea:  q.MaxArea,
		Type:     models.ListingType(q.Type),
		Page:     page,
	})
	if err != nil {
		return nil, err
	}
	return &PropertyPage{Properties: properties, Total: total, Page: page.Page, Limit: page.Limit}, nil
}

func (s *PropertyService) FindOne(ctx context.Context, id string) (*models.Property, error) {
	return s.properties.FindByID(ctx, id)
}

func (s *PropertyService) Update(ctx context.Context, actor models.Actor, id string, input UpdatePropertyInput) (*models.Property, error) {
	p, err := s.properties.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := RequireOwnerOrAdmin(actor, p.OwnerID, "Not authorized to update this property"); err != nil {
		return nil, err
	}
	return s.properties.Updates(ctx, id, input.fields())
}

func (s *PropertyService) Remove(ctx context.Context, actor models.Actor, id string) error {
	p, err := s.properties.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := RequireOwnerOrAdmin(actor, p.OwnerID, "Not authorized to delete this property"); err != nil {
		return err
	}
	if err := s.properties.Delete(ctx, id); err != nil {
		return err
	}
	s.discard(ctx, p.Images)
	audit(ctx, s.history, HistoryEntry{
		Action:     models.ActionPropertyDeleted,
		UserID:     actor.UserID,
		PropertyID: id,
		Details:    map[string]interface{}{"title": p.Title},
	})
	return nil
}

// AddImages uploads files and appends their paths with a single save. The
// cap is checked before anything is uploaded.
func (s *PropertyService) AddImages(ctx context.Context, actor models.Actor, id string, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, utils.BadRequest("No files uploaded")
	}
	p, err := s.properties.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := RequireOwnerOrAdmin(actor, p.OwnerID, "Not authorized to add images to this property"); err != nil {
		return nil, err
	}

	current := len(p.Images)
	if current+len(files) > models.MaxPropertyImages {
		return nil, utils.BadRequest("Adding %d images would exceed the %d-image limit. Current: %d, Max: %d",
			len(files), models.MaxPropertyImages, current, models.MaxPropertyImages)
	}

	paths, err := uploadAll(ctx, s.uploader, files, propertyUploadFolder)
	if err != nil {
		return nil, err
	}
	p.Images = append(p.Images, paths...)
	if err := s.properties.SaveColumns(ctx, p, "images"); err != nil {
		s.discard(ctx, paths)
		return nil, err
	}

	audit(ctx, s.history, HistoryEntry{
		Action:     models.ActionImagesAdded,
		UserID:     actor.UserID,
		PropertyID: p.ID,
		Details:    map[string]interface{}{"count": len(paths)},
	})
	return paths, nil
}

// SendDealRequest records the calling agent on the listing.
func (s *PropertyService) SendDealRequest(ctx context.Context, actor models.Actor, id string, proposal DealProposal) (*models.Property, error) {
	if !actor.Roles.Has(models.RoleAgent) {
		return nil, utils.Unauthorized("Only agents can send deal requests")
	}
	p, err := s.properties.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.EngagedAgents() >= p.Type.AgentCap() {
		return nil, utils.BadRequest("Agent limit reached")
	}
	if p.HasAgent(actor.UserID) {
		return nil, utils.BadRequest("Deal request already sent")
	}

	p.Agents = append(p.Agents, actor.UserID)
	if err := s.properties.SaveColumns(ctx, p, "agents"); err != nil {
		return nil, err
	}
	s.metrics.DealEvent("requested")

	utils.InfoLogger.WithFields(logrus.Fields{"property": p.ID, "agent": actor.UserID}).Info("Deal request sent")
	notify(ctx, s.notifier, SendNotificationInput{
		UserID:       p.OwnerID,
		Message:      fmt.Sprintf("An agent requested to represent %q at %.2f%% commission", p.Title, proposal.CommissionRate),
		AllowedRoles: models.NewRoleSet(models.RoleUser, models.RoleSeller, models.RoleAdmin),
		Purpose:      models.PurposeDealRequest,
		RelatedID:    p.ID,
		RelatedModel: models.RelatedProperty,
	})
	audit(ctx, s.history, HistoryEntry{
		Action:     models.ActionDealRequested,
		UserID:     actor.UserID,
		PropertyID: p.ID,
		Details: map[string]interface{}{
			"commissionRate": proposal.CommissionRate,
			"terms":          proposal.Terms,
		},
	})
	return p, nil
}

// AcceptDeal moves agentID from the pending requests to the accepted agents.
func (s *PropertyService) AcceptDeal(ctx context.Context, actor models.Actor, id, agentID string) (*models.Property, error) {
	p, err := s.properties.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := RequireOwner(actor, p.OwnerID, "Only the owner can accept deals"); err != nil {
		return nil, err
	}
	if !p.AcceptAgent(agentID) {
		return nil, utils.NotFound("Agent not found in deal requests")
	}
	if err := s.properties.SaveColumns(ctx, p, "agents", "accepted_agents"); err != nil {
		return nil, err
	}
	s.metrics.DealEvent("accepted")

	notify(ctx, s.notifier, SendNotificationInput{
		UserID:       agentID,
		Message:      fmt.Sprintf("Your deal request for %q was accepted", p.Title),
		AllowedRoles: models.NewRoleSet(models.RoleAgent),
		Purpose:      models.PurposeDealAccepted,
		RelatedID:    p.ID,
		RelatedModel: models.RelatedProperty,
	})
	audit(ctx, s.history, HistoryEntry{
		Action:     models.ActionDealAccepted,
		UserID:     actor.UserID,
		PropertyID: p.ID,
		Details:    map[string]interface{}{"agentId": agentID},
	})
	return p, nil
}

// RequestInquiry forwards a buyer's message to the listing owner.
func (s *PropertyService) RequestInquiry(ctx context.Context, actor models.Actor, id string, inquiry Inquiry) error {
	p, err := s.properties.FindByID(ctx, id)
	if err != nil {
		return err
	}
	notify(ctx, s.notifier, SendNotificationInput{
		UserID:       p.OwnerID,
		Message:      fmt.Sprintf("Inquiry from %s <%s> about %q: %s", inquiry.Name, inquiry.Email, p.Title, inquiry.Message),
		AllowedRoles: models.NewRoleSet(models.RoleUser, models.RoleSeller, models.RoleAdmin),
		Purpose:      models.PurposePropertyListed,
		RelatedID:    p.ID,
		RelatedModel: models.RelatedProperty,
	})
	audit(ctx, s.history, HistoryEntry{
		Action:     models.ActionPropertyInquiry,
		UserID:     actor.UserID,
		PropertyID: p.ID,
		Details:    map[string]interface{}{"name": inquiry.Name, "email": inquiry.Email},
	})
	return nil
}

func (s *PropertyService) FilterProperties(ctx context.Context, q FilterQuery) ([]models.Property, error) {
	return s.properties.Filter(ctx, BuildPropertyFilter(q))
}

// Nearby returns listings within radiusKm of the point, nearest first.
func (s *PropertyService) Nearby(ctx context.Context, lng, lat, radiusKm float64) ([]NearbyProperty, error) {
	if lng < -180 || lng > 180 || lat < -90 || lat > 90 {
		return nil, utils.BadRequest("coordinates out of range")
	}
	if radiusKm <= 0 {
		radiusKm = defaultRadiusKm
	}
	if radiusKm > maxNearbyRadius {
		radiusKm = maxNearbyRadius
	}

	candidates, err := s.properties.WithinBox(ctx, boundingBox(lng, lat, radiusKm))
	if err != nil {
		return nil, err
	}

	result := make([]NearbyProperty, 0, len(candidates))
	for _, p := range candidates {
		d := distanceKm(lng, lat, p.Location.Longitude, p.Location.Latitude)
		if d <= radiusKm {
			result = append(result, NearbyProperty{Property: p, DistanceKm: d})
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DistanceKm < result[j].DistanceKm })
	return result, nil
}

func (s *PropertyService) discard(ctx context.Context, paths []string) {
	for _, p := range paths {
		if err := s.uploader.Remove(ctx, p); err != nil {
			utils.ErrorLogger.Printf("Failed to remove upload %s: %v", p, err)
		}
	}
}
