package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/realestate-app/models"
	"github.com/yeremiapane/realestate-app/utils"
)

func TestCreatePropertyRequiresUserOrAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.newUser(t, "seller@example.com", models.RoleSeller)

	_, err := env.properties.Create(ctx, seller, CreatePropertyInput{Title: "x", Price: floatPtr(1), Type: models.ListingSale}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrUnauthorized))
	assert.Equal(t, "Only users or admins can create properties", err.Error())
}

func TestCreatePropertyNotifiesAndAudits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.newUser(t, "owner@example.com", models.RoleUser)

	p, err := env.properties.Create(ctx, owner, CreatePropertyInput{
		Title: "Loft", Price: floatPtr(90000), Type: models.ListingSale,
	}, fileHeaders(3))
	require.NoError(t, err)
	assert.Equal(t, models.PropertyPending, p.Status)
	assert.Equal(t, owner.UserID, p.OwnerID)
	assert.Len(t, p.Images, 3)
	assert.Empty(t, p.Agents)

	notifs, err := env.notifications.GetForUser(ctx, owner.UserID)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, models.PurposePropertyCreated, notifs[0].Purpose)
	assert.Equal(t, models.NewRoleSet(models.RoleAdmin, models.RoleSeller), notifs[0].AllowedRoles)

	entries, err := env.history.GetForUser(ctx, owner.UserID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActionPropertyCreated, entries[0].Action)
}

func TestCreatePropertyRejectsTooManyFiles(t *testing.T) {
	env := newTestEnv(t)
	owner := env.newUser(t, "owner@example.com", models.RoleUser)

	_, err := env.properties.Create(context.Background(), owner, CreatePropertyInput{
		Title: "Loft", Price: floatPtr(1), Type: models.ListingSale,
	}, fileHeaders(13))
	assert.True(t, errors.Is(err, utils.ErrBadRequest))
	assert.Zero(t, env.uploader.calls)
}

func TestRentListingAgentCap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.newUser(t, "owner@example.com", models.RoleUser)
	listing := env.newListing(t, owner, models.ListingRent)

	a1 := env.newUser(t, "a1@example.com", models.RoleAgent)
	a2 := env.newUser(t, "a2@example.com", models.RoleAgent)
	a3 := env.newUser(t, "a3@example.com", models.RoleAgent)

	_, err := env.properties.SendDealRequest(ctx, a1, listing.ID, DealProposal{CommissionRate: 3})
	require.NoError(t, err)
	_, err = env.properties.SendDealRequest(ctx, a2, listing.ID, DealProposal{CommissionRate: 2.5})
	require.NoError(t, err)

	_, err = env.properties.SendDealRequest(ctx, a3, listing.ID, DealProposal{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrBadRequest))
	assert.Equal(t, "Agent limit reached", err.Error())

	got, err := env.properties.FindOne(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a1.UserID, a2.UserID}, []string(got.Agents))
}

func TestSaleListingAgentCap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.newUser(t, "owner@example.com", models.RoleUser)
	listing := env.newListing(t, owner, models.ListingSale)

	for i, email := range []string{"a1@x.com", "a2@x.com", "a3@x.com", "a4@x.com"} {
		agent := env.newUser(t, email, models.RoleAgent)
		_, err := env.properties.SendDealRequest(ctx, agent, listing.ID, DealProposal{})
		require.NoError(t, err, "request %d", i+1)
	}

	fifth := env.newUser(t, "a5@x.com", models.RoleAgent)
	_, err := env.properties.SendDealRequest(ctx, fifth, listing.ID, DealProposal{})
	assert.EqualError(t, err, "Agent limit reached")

	got, err := env.properties.FindOne(ctx, listing.ID)
	require.NoError(t, err)
	assert.Len(t, got.Agents, 4)
}

func TestDealRequestGuards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.newUser(t, "owner@example.com", models.RoleUser)
	listing := env.newListing(t, owner, models.ListingSale)

	_, err := env.properties.SendDealRequest(ctx, owner, listing.ID, DealProposal{})
	assert.True(t, errors.Is(err, utils.ErrUnauthorized))

	agent := env.newUser(t, "agent@example.com", models.RoleAgent)
	_, err = env.properties.SendDealRequest(ctx, agent, "missing", DealProposal{})
	assert.True(t, errors.Is(err, utils.ErrNotFound))

	_, err = env.properties.SendDealRequest(ctx, agent, listing.ID, DealProposal{})
	require.NoError(t, err)
	_, err = env.properties.SendDealRequest(ctx, agent, listing.ID, DealProposal{})
	assert.EqualError(t, err, "Deal request already sent")

	notifs, err := env.notifications.GetForUserRolesAndModel(ctx, owner.UserID, 0, models.RelatedProperty)
	require.NoError(t, err)
	require.NotEmpty(t, notifs)
	assert.Equal(t, models.PurposeDealRequest, notifs[0].Purpose)
}

func TestAcceptDeal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.newUser(t, "owner@example.com", models.RoleUser)
	other := env.newUser(t, "other@example.com", models.RoleUser)
	listing := env.newListing(t, owner, models.ListingRent)
	agent := env.newUser(t, "agent@example.com", models.RoleAgent)

	_, err := env.properties.SendDealRequest(ctx, agent, listing.ID, DealProposal{})
	require.NoError(t, err)

	_, err = env.properties.AcceptDeal(ctx, other, listing.ID, agent.UserID)
	assert.True(t, errors.Is(err, utils.ErrUnauthorized))

	_, err = env.properties.AcceptDeal(ctx, owner, listing.ID, "nobody")
	assert.True(t, errors.Is(err, utils.ErrNotFound))

	got, err := env.properties.AcceptDeal(ctx, owner, listing.ID, agent.UserID)
	require.NoError(t, err)
	assert.Empty(t, got.Agents)
	assert.Equal(t, []string{agent.UserID}, []string(got.AcceptedAgents))

	// accepted agents still count toward the cap
	second := env.newUser(t, "second@example.com", models.RoleAgent)
	third := env.newUser(t, "third@example.com", models.RoleAgent)
	_, err = env.properties.SendDealRequest(ctx, second, listing.ID, DealProposal{})
	require.NoError(t, err)
	_, err = env.properties.SendDealRequest(ctx, third, listing.ID, DealProposal{})
	assert.EqualError(t, err, "Agent limit reached")

	notifs, err := env.notifications.GetForUser(ctx, agent.UserID)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, models.PurposeDealAccepted, notifs[0].Purpose)
}

func TestAddImagesCap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.newUser(t, "owner@example.com", models.RoleUser)
	stranger := env.newUser(t, "stranger@example.com", models.RoleUser)
	admin := env.newUser(t, "admin@example.com", models.RoleAdmin)

	price := 1.0
	listing, err := env.properties.Create(ctx, owner, CreatePropertyInput{Title: "x", Price: &price, Type: models.ListingSale}, fileHeaders(10))
	require.NoError(t, err)

	_, err = env.properties.AddImages(ctx, stranger, listing.ID, fileHeaders(1))
	assert.True(t, errors.Is(err, utils.ErrUnauthorized))

	_, err = env.properties.AddImages(ctx, owner, listing.ID, nil)
	assert.EqualError(t, err, "No files uploaded")

	calls := env.uploader.calls
	_, err = env.properties.AddImages(ctx, owner, listing.ID, fileHeaders(3))
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrBadRequest))
	assert.Contains(t, err.Error(), "Current: 10, Max: 12")
	assert.Equal(t, calls, env.uploader.calls)

	got, err := env.properties.FindOne(ctx, listing.ID)
	require.NoError(t, err)
	assert.Len(t, got.Images, 10)

	paths, err := env.properties.AddImages(ctx, admin, listing.ID, fileHeaders(2))
	require.NoError(t, err)
	assert.Len(t, paths, 2)
	got, err = env.properties.FindOne(ctx, listing.ID)
	require.NoError(t, err)
	assert.Len(t, got.Images, 12)
}

func TestAddImagesCleansUpFailedBatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.newUser(t, "owner@example.com", models.RoleUser)
	listing := env.newListing(t, owner, models.ListingSale)

	env.uploader.failOn = 3
	_, err := env.properties.AddImages(ctx, owner, listing.ID, fileHeaders(4))
	require.Error(t, err)
	assert.Len(t, env.uploader.removed, 2)
	assert.Empty(t, env.uploader.stored)

	got, err := env.properties.FindOne(ctx, listing.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Images)
}

func TestFilterPropertiesMalformedUpperBound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.newUser(t, "owner@example.com", models.RoleUser)
	for _, p := range []float64{50000, 100000, 900000} {
		price := p
		_, err := env.properties.Create(ctx, owner, CreatePropertyInput{Title: "x", Price: &price, Type: models.ListingSale, City: "Depok"}, nil)
		require.NoError(t, err)
	}

	got, err := env.properties.FilterProperties(ctx, FilterQuery{Price: "100000-"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	for _, p := range got {
		assert.GreaterOrEqual(t, p.Price, 100000.0)
	}

	got, err = env.properties.FilterProperties(ctx, FilterQuery{Price: "abc-xyz", City: "Depok"})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestUpdateAndRemoveProperty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.newUser(t, "owner@example.com", models.RoleUser)
	stranger := env.newUser(t, "stranger@example.com", models.RoleUser)
	listing := env.newListing(t, owner, models.ListingSale)

	title := "Renovated"
	_, err := env.properties.Update(ctx, stranger, listing.ID, UpdatePropertyInput{Title: &title})
	assert.True(t, errors.Is(err, utils.ErrUnauthorized))

	got, err := env.properties.Update(ctx, owner, listing.ID, UpdatePropertyInput{Title: &title, Price: floatPtr(1)})
	require.NoError(t, err)
	assert.Equal(t, "Renovated", got.Title)
	assert.Equal(t, 1.0, got.Price)
	assert.Equal(t, models.ListingSale, got.Type)

	require.NoError(t, env.properties.Remove(ctx, owner, listing.ID))
	_, err = env.properties.FindOne(ctx, listing.ID)
	assert.True(t, errors.Is(err, utils.ErrNotFound))
}

func TestNearby(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.newUser(t, "owner@example.com", models.RoleUser)

	create := func(title string, lng, lat float64) {
		loc := models.NewGeoPoint(lng, lat)
		_, err := env.properties.Create(ctx, owner, CreatePropertyInput{
			Title: title, Price: floatPtr(1), Type: models.ListingSale, Location: &loc,
		}, nil)
		require.NoError(t, err)
	}
	create("near", 106.8272, -6.1754)
	create("closest", 106.8230, -6.1750)
	create("far", 107.6191, -6.9175)
	env.newListing(t, owner, models.ListingSale)

	got, err := env.properties.Nearby(ctx, 106.8229, -6.1751, 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "closest", got[0].Title)
	assert.Equal(t, "near", got[1].Title)
	assert.Less(t, got[0].DistanceKm, got[1].DistanceKm)

	_, err = env.properties.Nearby(ctx, 200, 0, 5)
	assert.True(t, errors.Is(err, utils.ErrBadRequest))
}

func TestParseRange(t *testing.T) {
	r := ParseRange("100000-")
	require.NotNil(t, r.Min)
	assert.Equal(t, 100000.0, *r.Min)
	assert.Nil(t, r.Max)

	r = ParseRange("-500")
	assert.Nil(t, r.Min)
	require.NotNil(t, r.Max)
	assert.Equal(t, 500.0, *r.Max)

	assert.True(t, ParseRange("100").IsZero())
	assert.True(t, ParseRange("NaN-Inf").IsZero())
}

func TestRequestInquiry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.newUser(t, "owner@example.com", models.RoleUser)
	buyer := env.newUser(t, "buyer@example.com", models.RoleBuyer)
	listing := env.newListing(t, owner, models.ListingSale)

	err := env.properties.RequestInquiry(ctx, buyer, "missing", Inquiry{Name: "B", Email: "b@example.com", Message: "hi"})
	assert.True(t, errors.Is(err, utils.ErrNotFound))

	require.NoError(t, env.properties.RequestInquiry(ctx, buyer, listing.ID, Inquiry{Name: "B", Email: "b@example.com", Message: "Is it available?"}))

	notifs, err := env.notifications.GetForUser(ctx, owner.UserID)
	require.NoError(t, err)
	require.Len(t, notifs, 2)
	assert.Contains(t, notifs[0].Message, "Is it available?")

	entries, err := env.history.GetForUser(ctx, buyer.UserID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActionPropertyInquiry, entries[0].Action)
}
