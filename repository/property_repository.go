package repository

import (
	"context"
	"strings"

	"github.com/yeremiapane/realestate-app/models"
	"gorm.io/gorm"
)

const propertyNotFound = "Property not found"

type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

// PropertySearch backs the paginated listing endpoint.
type PropertySearch struct {
	Text     string
	MinPrice *float64
	MaxPrice *float64
	MinArea  *float64
	MaxArea  *float64
	Type     models.ListingType
	Page
}

// Range is an inclusive numeric range; nil bounds are open.
type Range struct {
	Min *float64
	Max *float64
}

func (r Range) IsZero() bool {
	return r.Min == nil && r.Max == nil
}

// PropertyFilter is a conjunction of exact matches and ranges. Zero fields
// are not part of the predicate.
type PropertyFilter struct {
	City         string
	Address      string
	PropertyType string
	Type         models.ListingType
	Bedrooms     *int
	Price        Range
	Area         Range
}

// BoundingBox selects listings whose point lies inside the box. A box with
// MinLng > MaxLng crosses the antimeridian.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

func (r *PropertyRepository) Create(ctx context.Context, p *models.Property) error {
	return translate(r.db.WithContext(ctx).Create(p).Error, "create property", propertyNotFound)
}

func (r *PropertyRepository) FindByID(ctx context.Context, id string) (*models.Property, error) {
	var p models.Property
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err, "find property", propertyNotFound)
	}
	return &p, nil
}

// SaveColumns writes only the named columns of p and updated_at; other
// columns of the row are left untouched.
func (r *PropertyRepository) SaveColumns(ctx context.Context, p *models.Property, columns ...string) error {
	res := r.db.WithContext(ctx).Model(p).Select(columns).Updates(p)
	if res.Error != nil {
		return translate(res.Error, "save property", propertyNotFound)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "save property", propertyNotFound)
	}
	return nil
}

func (r *PropertyRepository) Updates(ctx context.Context, id string, fields map[string]interface{}) (*models.Property, error) {
	if len(fields) > 0 {
		err := r.db.WithContext(ctx).Model(&models.Property{}).Where("id = ?", id).Updates(fields).Error
		if err != nil {
			return nil, translate(err, "update property", propertyNotFound)
		}
	}
	return r.FindByID(ctx, id)
}

func (r *PropertyRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Property{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "delete property", propertyNotFound)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "delete property", propertyNotFound)
	}
	return nil
}

func (r *PropertyRepository) Search(ctx context.Context, s PropertySearch) ([]models.Property, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Property{})
	if s.Text != "" {
		like := "%" + strings.ToLower(s.Text) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	query = applyRange(query, "price", Range{Min: s.MinPrice, Max: s.MaxPrice})
	query = applyRange(query, "area", Range{Min: s.MinArea, Max: s.MaxArea})
	if s.Type != "" {
		query = query.Where("type = ?", s.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count properties", propertyNotFound)
	}

	var properties []models.Property
	if err := s.Page.apply(query.Order("created_at DESC")).Find(&properties).Error; err != nil {
		return nil, 0, translate(err, "search properties", propertyNotFound)
	}
	return properties, total, nil
}

func (r *PropertyRepository) Filter(ctx context.Context, f PropertyFilter) ([]models.Property, error) {
	query := r.db.WithContext(ctx).Model(&models.Property{})
	if f.City != "" {
		query = query.Where("city = ?", f.City)
	}
	if f.Address != "" {
		query = query.Where("address = ?", f.Address)
	}
	if f.PropertyType != "" {
		query = query.Where("property_type = ?", f.PropertyType)
	}
	if f.Type != "" {
		query = query.Where("type = ?", f.Type)
	}
	if f.Bedrooms != nil {
		query = query.Where("bedrooms = ?", *f.Bedrooms)
	}
	query = applyRange(query, "price", f.Price)
	query = applyRange(query, "area", f.Area)

	var properties []models.Property
	if err := query.Order("created_at DESC").Find(&properties).Error; err != nil {
		return nil, translate(err, "filter properties", propertyNotFound)
	}
	return properties, nil
}

func (r *PropertyRepository) WithinBox(ctx context.Context, box BoundingBox) ([]models.Property, error) {
	query := r.db.WithContext(ctx).
		Where("location_type = ?", "Point").
		Where("location_latitude BETWEEN ? AND ?", box.MinLat, box.MaxLat)
	if box.MinLng <= box.MaxLng {
		query = query.Where("location_longitude BETWEEN ? AND ?", box.MinLng, box.MaxLng)
	} else {
		query = query.Where("(location_longitude >= ? OR location_longitude <= ?)", box.MinLng, box.MaxLng)
	}

	var properties []models.Property
	err := query.Find(&properties).Error
	if err != nil {
		return nil, translate(err, "find properties in box", propertyNotFound)
	}
	return properties, nil
}

func applyRange(q *gorm.DB, column string, r Range) *gorm.DB {
	if r.Min != nil {
		q = q.Where(column+" >= ?", *r.Min)
	}
	if r.Max != nil {
		q = q.Where(column+" <= ?", *r.Max)
	}
	return q
}
