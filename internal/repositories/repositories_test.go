package repositories_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"testing"

	"marketplace/internal/database"
	"marketplace/internal/models"
	"marketplace/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// setupDB opens a private in-memory SQLite database with the full schema.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createAccount(t *testing.T, repo *repositories.GORMAccountRepository, role models.Role, email string) *models.Account {
	t.Helper()
	a := &models.Account{Name: email, Email: email, Role: role, PasswordHash: "x"}
	require.NoError(t, repo.Create(context.Background(), a))
	return a
}

func createListing(t *testing.T, repo *repositories.GORMListingRepository, vendorID uint, name, price string, status models.ListingStatus) *models.Listing {
	t.Helper()
	l := &models.Listing{
		VendorID: vendorID,
		Name:     name,
		Category: "General",
		Price:    decimal.RequireFromString(price),
		Status:   status,
	}
	require.NoError(t, repo.Create(context.Background(), l))
	return l
}

func TestAccountRepository(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	repo := repositories.NewGORMAccountRepository(db)

	c := createAccount(t, repo, models.RoleCustomer, "same@example.com")
	// Same email under another role is a separate account
	v := createAccount(t, repo, models.RoleVendor, "same@example.com")
	assert.NotEqual(t, c.ID, v.ID)

	err := repo.Create(ctx, &models.Account{Name: "dup", Email: "same@example.com", Role: models.RoleCustomer, PasswordHash: "x"})
	assert.ErrorIs(t, err, repositories.ErrDuplicateKey)

	got, err := repo.GetByEmail(ctx, "same@example.com", models.RoleVendor)
	require.NoError(t, err)
	assert.Equal(t, v.ID, got.ID)

	_, err = repo.GetByEmail(ctx, "same@example.com", models.RoleAdmin)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	accounts, err := repo.ListByIDs(ctx, []uint{c.ID, v.ID})
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	accounts, err = repo.ListByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestListingRepository_OwnershipAndVisibility(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	accounts := repositories.NewGORMAccountRepository(db)
	repo := repositories.NewGORMListingRepository(db)

	owner := createAccount(t, accounts, models.RoleVendor, "owner@example.com")
	other := createAccount(t, accounts, models.RoleVendor, "other@example.com")

	pending := createListing(t, repo, owner.ID, "Pending thing", "1.00", models.ListingPending)
	approved := createListing(t, repo, owner.ID, "Approved thing", "2.50", models.ListingApproved)
	createListing(t, repo, other.ID, "Rejected thing", "3.00", models.ListingRejected)

	// Only approved listings are in the catalog view
	views, err := repo.List(ctx, repositories.ListingFilter{Status: models.ListingApproved})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, approved.ID, views[0].ID)
	assert.Equal(t, "owner@example.com", views[0].VendorName)
	assert.True(t, views[0].Price.Equal(decimal.RequireFromString("2.50")))

	views, err = repo.List(ctx, repositories.ListingFilter{})
	require.NoError(t, err)
	assert.Len(t, views, 3)

	views, err = repo.List(ctx, repositories.ListingFilter{Status: models.ListingApproved, Category: "Other"})
	require.NoError(t, err)
	assert.Empty(t, views)

	// A vendor cannot touch another vendor's listing
	name := "Hijacked"
	updated, err := repo.UpdateOwned(ctx, other.ID, pending.ID, models.ListingUpdate{Name: &name})
	require.NoError(t, err)
	assert.False(t, updated)
	deleted, err := repo.DeleteOwned(ctx, other.ID, pending.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	got, err := repo.GetByID(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pending thing", got.Name)

	// The owner can
	price := decimal.RequireFromString("9.99")
	updated, err = repo.UpdateOwned(ctx, owner.ID, pending.ID, models.ListingUpdate{Name: &name, Price: &price})
	require.NoError(t, err)
	assert.True(t, updated)
	got, err = repo.GetByID(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hijacked", got.Name)
	assert.True(t, got.Price.Equal(price))
	assert.Equal(t, models.ListingPending, got.Status)

	mine, err := repo.ListByVendor(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	ok, err := repo.SetStatus(ctx, pending.ID, models.ListingApproved)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.SetStatus(ctx, 9999, models.ListingApproved)
	require.NoError(t, err)
	assert.False(t, ok)

	deleted, err = repo.DeleteOwned(ctx, owner.ID, pending.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	_, err = repo.GetByID(ctx, pending.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestCartRepository_AddOrIncrement(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	accounts := repositories.NewGORMAccountRepository(db)
	listings := repositories.NewGORMListingRepository(db)
	carts := repositories.NewGORMCartRepository(db)

	shopper := createAccount(t, accounts, models.RoleCustomer, "shopper@example.com")
	seller := createAccount(t, accounts, models.RoleVendor, "seller@example.com")
	mug := createListing(t, listings, seller.ID, "Mug", "10.00", models.ListingApproved)
	pen := createListing(t, listings, seller.ID, "Pen", "1.25", models.ListingApproved)

	add := func(listingID uint, qty int) {
		require.NoError(t, carts.AddOrIncrement(ctx, &models.CartLine{
			CustomerID: shopper.ID, ListingID: listingID, VendorID: seller.ID, Quantity: qty,
		}))
	}
	add(mug.ID, 1)
	add(mug.ID, 2)
	add(pen.ID, 4)

	lines, err := carts.ListLines(ctx, shopper.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, mug.ID, lines[0].ListingID)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, "Mug", lines[0].Name)
	assert.Equal(t, "seller@example.com", lines[0].VendorName)
	assert.True(t, lines[0].UnitPrice.Equal(decimal.RequireFromString("10")))

	var count int64
	require.NoError(t, db.Model(&models.CartLine{}).Where("customer_id = ?", shopper.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	// Lines reflect the live price
	price := decimal.RequireFromString("12.00")
	_, err = listings.UpdateOwned(ctx, seller.ID, mug.ID, models.ListingUpdate{Price: &price})
	require.NoError(t, err)
	lines, err = carts.ListLines(ctx, shopper.ID)
	require.NoError(t, err)
	assert.True(t, lines[0].UnitPrice.Equal(price))
}

func TestCartRepository_DeleteAndClear(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	accounts := repositories.NewGORMAccountRepository(db)
	listings := repositories.NewGORMListingRepository(db)
	carts := repositories.NewGORMCartRepository(db)

	ann := createAccount(t, accounts, models.RoleCustomer, "ann@example.com")
	bob := createAccount(t, accounts, models.RoleCustomer, "bob@example.com")
	seller := createAccount(t, accounts, models.RoleVendor, "seller@example.com")
	mug := createListing(t, listings, seller.ID, "Mug", "10.00", models.ListingApproved)

	annLine := &models.CartLine{CustomerID: ann.ID, ListingID: mug.ID, VendorID: seller.ID, Quantity: 1}
	require.NoError(t, carts.AddOrIncrement(ctx, annLine))
	require.NoError(t, carts.AddOrIncrement(ctx, &models.CartLine{CustomerID: bob.ID, ListingID: mug.ID, VendorID: seller.ID, Quantity: 1}))

	annLines, err := carts.ListLines(ctx, ann.ID)
	require.NoError(t, err)
	require.Len(t, annLines, 1)

	// Bob cannot remove Ann's line
	removed, err := carts.DeleteLine(ctx, bob.ID, annLines[0].LineID)
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = carts.DeleteLine(ctx, ann.ID, annLines[0].LineID)
	require.NoError(t, err)
	assert.True(t, removed)

	n, err := carts.Clear(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	bobLines, err := carts.ListLines(ctx, bob.ID)
	require.NoError(t, err)
	assert.NotNil(t, bobLines)
	assert.Empty(t, bobLines)
}

func TestTransactor_CheckoutUnit(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	accounts := repositories.NewGORMAccountRepository(db)
	listings := repositories.NewGORMListingRepository(db)
	carts := repositories.NewGORMCartRepository(db)
	orders := repositories.NewGORMOrderRepository(db)
	tx := repositories.NewGORMTransactor(db)

	shopper := createAccount(t, accounts, models.RoleCustomer, "shopper@example.com")
	seller := createAccount(t, accounts, models.RoleVendor, "seller@example.com")
	mug := createListing(t, listings, seller.ID, "Mug", "10.00", models.ListingApproved)
	require.NoError(t, carts.AddOrIncrement(ctx, &models.CartLine{CustomerID: shopper.ID, ListingID: mug.ID, VendorID: seller.ID, Quantity: 2}))

	newOrder := func(ref string, lines []models.CartLineView) *models.Order {
		summary := models.Summarize(lines)
		o := &models.Order{
			Reference: ref, CustomerID: shopper.ID, Total: summary.GrandTotal,
			Status: models.OrderStatusReceived, PaymentMethod: "card",
		}
		for _, l := range summary.Lines {
			o.Items = append(o.Items, models.OrderLineItem{
				ListingID: l.ListingID, VendorID: l.VendorID, ListingName: l.Name, Quantity: l.Quantity, Price: l.UnitPrice,
			})
		}
		return o
	}

	// A failure after the order insert rolls everything back
	boom := errors.New("boom")
	err := tx.WithinTransaction(ctx, func(r repositories.Tx) error {
		lines, err := r.Carts.LockLines(ctx, shopper.ID)
		if err != nil {
			return err
		}
		if err := r.Orders.Create(ctx, newOrder("ref-1", lines)); err != nil {
			return err
		}
		if _, err := r.Carts.Clear(ctx, shopper.ID); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	all, err := orders.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	lines, err := carts.ListLines(ctx, shopper.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 1)

	// A committed unit leaves an order and an empty cart
	err = tx.WithinTransaction(ctx, func(r repositories.Tx) error {
		lines, err := r.Carts.LockLines(ctx, shopper.ID)
		if err != nil {
			return err
		}
		if err := r.Orders.Create(ctx, newOrder("ref-2", lines)); err != nil {
			return err
		}
		_, err = r.Carts.Clear(ctx, shopper.ID)
		return err
	})
	require.NoError(t, err)

	lines, err = carts.ListLines(ctx, shopper.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	mine, err := orders.ListByCustomer(ctx, shopper.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.True(t, mine[0].Total.Equal(decimal.RequireFromString("20")))
	require.Len(t, mine[0].Items, 1)

	// Later price changes do not touch the order
	price := decimal.RequireFromString("99.00")
	_, err = listings.UpdateOwned(ctx, seller.ID, mug.ID, models.ListingUpdate{Price: &price})
	require.NoError(t, err)
	got, err := orders.GetByID(ctx, mine[0].ID)
	require.NoError(t, err)
	assert.True(t, got.Items[0].Price.Equal(decimal.RequireFromString("10")))
	assert.True(t, got.Total.Equal(decimal.RequireFromString("20")))
}

func TestOrderRepository_VendorQueries(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	accounts := repositories.NewGORMAccountRepository(db)
	orders := repositories.NewGORMOrderRepository(db)

	shopper := createAccount(t, accounts, models.RoleCustomer, "shopper@example.com")
	v1 := createAccount(t, accounts, models.RoleVendor, "v1@example.com")
	v2 := createAccount(t, accounts, models.RoleVendor, "v2@example.com")

	order := &models.Order{
		Reference: "ref-a", CustomerID: shopper.ID, Total: decimal.RequireFromString("7"),
		Status: models.OrderStatusReceived, PaymentMethod: "cash",
		Shipping: models.ShippingDetails{Name: "Ann", City: "Springfield"},
		Items: []models.OrderLineItem{
			{ListingID: 1, VendorID: v1.ID, ListingName: "A", Quantity: 1, Price: decimal.RequireFromString("3")},
			{ListingID: 2, VendorID: v2.ID, ListingName: "B", Quantity: 2, Price: decimal.RequireFromString("2")},
		},
	}
	require.NoError(t, orders.Create(ctx, order))

	dup := &models.Order{Reference: "ref-a", CustomerID: shopper.ID, Status: models.OrderStatusReceived, PaymentMethod: "cash"}
	assert.ErrorIs(t, orders.Create(ctx, dup), repositories.ErrDuplicateKey)

	items, err := orders.ListItemsByVendor(ctx, v1.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].ListingName)

	has, err := orders.HasVendorItems(ctx, order.ID, v2.ID)
	require.NoError(t, err)
	assert.True(t, has)
	has, err = orders.HasVendorItems(ctx, order.ID, shopper.ID)
	require.NoError(t, err)
	assert.False(t, has)

	headers, err := orders.ListByIDs(ctx, []uint{order.ID})
	require.NoError(t, err)
	require.Len(t, headers, 1)
	assert.Equal(t, "Springfield", headers[0].Shipping.City)

	ok, err := orders.UpdateStatus(ctx, order.ID, "Shipped")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = orders.UpdateStatus(ctx, 9999, "Shipped")
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shipped", got.Status)
	assert.Len(t, got.Items, 2)

	_, err = orders.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestItemRequestRepository(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	accounts := repositories.NewGORMAccountRepository(db)
	repo := repositories.NewGORMItemRequestRepository(db)

	ann := createAccount(t, accounts, models.RoleCustomer, "ann@example.com")
	req := &models.ItemRequest{CustomerID: ann.ID, Description: "Telescope", Status: models.ItemRequestPending}
	require.NoError(t, repo.Create(ctx, req))

	mine, err := repo.ListByCustomer(ctx, ann.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "ann@example.com", all[0].CustomerName)
	assert.Equal(t, "Telescope", all[0].Description)

	ok, err := repo.UpdateStatus(ctx, req.ID, "Sourced")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCartRepository_OnlyApprovedListings(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	accounts := repositories.NewGORMAccountRepository(db)
	listings := repositories.NewGORMListingRepository(db)
	carts := repositories.NewGORMCartRepository(db)

	shopper := createAccount(t, accounts, models.RoleCustomer, "shopper@example.com")
	seller := createAccount(t, accounts, models.RoleVendor, "seller@example.com")
	mug := createListing(t, listings, seller.ID, "Mug", "10.00", models.ListingApproved)
	pen := createListing(t, listings, seller.ID, "Pen", "1.00", models.ListingApproved)
	for _, l := range []*models.Listing{mug, pen} {
		require.NoError(t, carts.AddOrIncrement(ctx, &models.CartLine{CustomerID: shopper.ID, ListingID: l.ID, VendorID: seller.ID, Quantity: 1}))
	}

	// Rejected after being added: gone from the cart and from the locked checkout read
	_, err := listings.SetStatus(ctx, mug.ID, models.ListingRejected)
	require.NoError(t, err)

	lines, err := carts.ListLines(ctx, shopper.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, pen.ID, lines[0].ListingID)

	err = repositories.NewGORMTransactor(db).WithinTransaction(ctx, func(tx repositories.Tx) error {
		locked, err := tx.Carts.LockLines(ctx, shopper.ID)
		require.NoError(t, err)
		require.Len(t, locked, 1)
		assert.Equal(t, pen.ID, locked[0].ListingID)
		return nil
	})
	require.NoError(t, err)

	_, err = listings.SetStatus(ctx, pen.ID, models.ListingPending)
	require.NoError(t, err)
	lines, err = carts.ListLines(ctx, shopper.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	// Re-approval brings the line back
	_, err = listings.SetStatus(ctx, mug.ID, models.ListingApproved)
	require.NoError(t, err)
	lines, err = carts.ListLines(ctx, shopper.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, mug.ID, lines[0].ListingID)
}

func TestListingRepository_DeleteOwnedRemovesCartLines(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	accounts := repositories.NewGORMAccountRepository(db)
	listings := repositories.NewGORMListingRepository(db)
	carts := repositories.NewGORMCartRepository(db)

	shopper := createAccount(t, accounts, models.RoleCustomer, "shopper@example.com")
	seller := createAccount(t, accounts, models.RoleVendor, "seller@example.com")
	other := createAccount(t, accounts, models.RoleVendor, "other@example.com")
	mug := createListing(t, listings, seller.ID, "Mug", "10.00", models.ListingApproved)
	require.NoError(t, carts.AddOrIncrement(ctx, &models.CartLine{CustomerID: shopper.ID, ListingID: mug.ID, VendorID: seller.ID, Quantity: 2}))

	countLines := func() int64 {
		var n int64
		require.NoError(t, db.Model(&models.CartLine{}).Where("listing_id = ?", mug.ID).Count(&n).Error)
		return n
	}

	// A non-owner's delete leaves both the listing and the cart line
	deleted, err := listings.DeleteOwned(ctx, other.ID, mug.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, int64(1), countLines())

	deleted, err = listings.DeleteOwned(ctx, seller.ID, mug.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, int64(0), countLines())
}
