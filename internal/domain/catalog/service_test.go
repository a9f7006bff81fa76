package catalog

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/media"
)

// fakeGate records media host calls without touching the network
type fakeGate struct {
	uploads   int
	destroyed []string
}

func (g *fakeGate) Upload(ctx context.Context, r io.Reader, filename, folder string) (*media.Asset, error) {
	g.uploads++
	return &media.Asset{URL: "https://media/" + filename, MediaID: folder + "/" + filename}, nil
}

func (g *fakeGate) Destroy(ctx context.Context, mediaID string) error {
	g.destroyed = append(g.destroyed, mediaID)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeGate) {
	t.Helper()
	db := newTestDB(t)
	gate := &fakeGate{}
	cfg := &config.Config{}
	return NewService(db, NewStore(db, newTestLogger()), gate, cfg, newTestLogger()), gate
}

func seedListProducts(t *testing.T, s *Service) {
	t.Helper()
	products := []Product{
		{Brand: "Acme", Name: "Cheap", Category: []string{"skincare"}, ProductType: []string{TypeRegular}, Price: 100},
		{Brand: "Zenith", Name: "Mid", Category: []string{"skincare", "serums"}, ProductType: []string{TypeNew}, Price: 500},
		{Brand: "Borealis", Name: "Costly", Category: []string{"makeup"}, ProductType: []string{TypeDiscount}, Price: 900, DiscountPercentage: 10},
	}
	for i := range products {
		if err := s.db.Create(&products[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestListSortPriceLowHigh(t *testing.T) {
	s, _ := newTestService(t)
	seedListProducts(t, s)

	resp, err := s.List(&ListRequest{Sort: SortPriceLowHigh, Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if resp.Total != 3 {
		t.Fatalf("expected total 3, got %d", resp.Total)
	}
	if resp.Products[0].Price != 100 || resp.Products[2].Price != 900 {
		t.Fatalf("expected ascending price order, got %d..%d", resp.Products[0].Price, resp.Products[2].Price)
	}
}

func TestListFilterByCategory(t *testing.T) {
	s, _ := newTestService(t)
	seedListProducts(t, s)

	resp, err := s.List(&ListRequest{Category: "serums", Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if resp.Total != 1 || resp.Products[0].Name != "Mid" {
		t.Fatalf("expected only the serums product, got total=%d", resp.Total)
	}
}

func TestListFilterByPriceRange(t *testing.T) {
	s, _ := newTestService(t)
	seedListProducts(t, s)

	resp, err := s.List(&ListRequest{MinPrice: 200, MaxPrice: 600, Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if resp.Total != 1 || resp.Products[0].Name != "Mid" {
		t.Fatalf("expected one product in [200,600], got total=%d", resp.Total)
	}
}

func TestListPagination(t *testing.T) {
	s, _ := newTestService(t)
	seedListProducts(t, s)

	resp, err := s.List(&ListRequest{Sort: SortPriceLowHigh, Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if resp.Total != 3 {
		t.Fatalf("total must count all matches, got %d", resp.Total)
	}
	if len(resp.Products) != 1 {
		t.Fatalf("expected 1 product on page 2, got %d", len(resp.Products))
	}
}

func TestListComputesDiscountPrice(t *testing.T) {
	s, _ := newTestService(t)
	seedListProducts(t, s)

	resp, err := s.List(&ListRequest{Category: "makeup", Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if resp.Products[0].DiscountPrice != 810 {
		t.Fatalf("expected discountPrice 810 for 900 at 10%%, got %d", resp.Products[0].DiscountPrice)
	}
}

func TestSearchCapsResults(t *testing.T) {
	s, _ := newTestService(t)
	for i := 0; i < 25; i++ {
		p := Product{Brand: "Acme", Name: "Vitamin Serum", Price: 100}
		if err := s.db.Create(&p).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	results, err := s.Search("vitamin")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(results) != 20 {
		t.Fatalf("expected search capped at 20, got %d", len(results))
	}
}

func TestCreateValidation(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.Create(&CreateRequest{Name: "No brand", Category: []string{"x"}, Price: 100, Images: []media.Asset{{URL: "u", MediaID: "m"}}})
	if !errors.Is(err, ErrInvalidProduct) {
		t.Fatalf("expected ErrInvalidProduct for missing brand, got %v", err)
	}

	_, err = s.Create(&CreateRequest{Brand: "A", Name: "No images", Category: []string{"x"}, Price: 100})
	if !errors.Is(err, ErrInvalidProduct) {
		t.Fatalf("expected ErrInvalidProduct for missing images, got %v", err)
	}

	_, err = s.Create(&CreateRequest{Brand: "A", Name: "Bad type", Category: []string{"x"}, Price: 100,
		ProductType: []string{"bogus"}, Images: []media.Asset{{URL: "u", MediaID: "m"}}})
	if !errors.Is(err, ErrInvalidProduct) {
		t.Fatalf("expected ErrInvalidProduct for unknown type, got %v", err)
	}
}

func TestCreateDefaultsToRegular(t *testing.T) {
	s, _ := newTestService(t)

	created, err := s.Create(&CreateRequest{
		Brand: "Acme", Name: "Plain", Category: []string{"skincare"}, Price: 100,
		Images: []media.Asset{{URL: "u", MediaID: "m"}},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if len(created.ProductType) != 1 || created.ProductType[0] != TypeRegular {
		t.Fatalf("expected default type [regular], got %v", created.ProductType)
	}
}

func TestUpdateDeleteImageShiftsThumbnail(t *testing.T) {
	s, _ := newTestService(t)

	created, err := s.Create(&CreateRequest{
		Brand: "Acme", Name: "Multi", Category: []string{"skincare"}, Price: 100,
		ThumbnailIndex: 2,
		Images: []media.Asset{
			{URL: "a", MediaID: "m0"},
			{URL: "b", MediaID: "m1"},
			{URL: "c", MediaID: "m2"},
		},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// Removing an image before the thumbnail shifts the index down
	updated, err := s.Update(context.Background(), created.ID, &UpdateRequest{DeleteImageMediaID: "m0"})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.ThumbnailIndex != 1 {
		t.Fatalf("expected thumbnail shifted to 1, got %d", updated.ThumbnailIndex)
	}
	if len(updated.Images) != 2 {
		t.Fatalf("expected 2 images after delete, got %d", len(updated.Images))
	}

	// Removing the thumbnail itself resets to 0
	updated, err = s.Update(context.Background(), created.ID, &UpdateRequest{DeleteImageMediaID: "m2"})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.ThumbnailIndex != 0 {
		t.Fatalf("expected thumbnail reset to 0, got %d", updated.ThumbnailIndex)
	}
}

func TestUpdateRefusesRemovingLastImage(t *testing.T) {
	s, _ := newTestService(t)

	created, err := s.Create(&CreateRequest{
		Brand: "Acme", Name: "Single", Category: []string{"skincare"}, Price: 100,
		Images: []media.Asset{{URL: "a", MediaID: "only"}},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	_, err = s.Update(context.Background(), created.ID, &UpdateRequest{DeleteImageMediaID: "only"})
	if !errors.Is(err, ErrInvalidProduct) {
		t.Fatalf("expected ErrInvalidProduct when deleting the last image, got %v", err)
	}
}

func TestDeleteDestroysAssets(t *testing.T) {
	s, gate := newTestService(t)

	created, err := s.Create(&CreateRequest{
		Brand: "Acme", Name: "Doomed", Category: []string{"skincare"}, Price: 100,
		Images: []media.Asset{{URL: "a", MediaID: "d0"}, {URL: "b", MediaID: "d1"}},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := s.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(gate.destroyed) != 2 {
		t.Fatalf("expected 2 destroyed assets, got %v", gate.destroyed)
	}

	_, err = s.Get(created.ID)
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound after delete, got %v", err)
	}
}

func TestUpdateNotFound(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.Update(context.Background(), 4242, &UpdateRequest{})
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}
