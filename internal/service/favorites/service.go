package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"storefront/internal/domain"
	"storefront/internal/storage"
)

type backendAPI interface {
	Favorites(ctx context.Context, token, userID string) ([]string, error)
	AddFavorite(ctx context.Context, token, userID, productID string) error
	RemoveFavorite(ctx context.Context, token, userID, productID string) error
	Product(ctx context.Context, id string) (*domain.Product, error)
}

// Service keeps a shopper's favorites in sync with the backend. The id
// set is mirrored into a storage slot so membership checks don't need a
// round trip; the backend remains the source of truth.
type Service struct {
	backend backendAPI
	store   storage.Store
	logger  *log.Logger
}

func New(api backendAPI, store storage.Store, logger *log.Logger) *Service {
	return &Service{backend: api, store: store, logger: logger}
}

// Load fetches the id list and hydrates each product individually (the
// backend has no batch endpoint). A product that fails to load is logged
// and skipped; the rest of the list still comes back.
func (s *Service) Load(ctx context.Context, token, userID string) ([]domain.Product, error) {
	ids, err := s.backend.Favorites(ctx, token, userID)
	if err != nil {
		return nil, err
	}
	s.persistIDs(ctx, userID, ids)

	products := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		product, err := s.backend.Product(ctx, id)
		if err != nil {
			s.logger.Printf("favorites hydrate %s: %v", id, err)
			continue
		}
		products = append(products, *product)
	}
	return products, nil
}

// Add registers the favorite remotely, then updates the local id set.
// The backend answering "already exists" is not an error; the caller gets
// already=true and shows a notice instead.
func (s *Service) Add(ctx context.Context, token, userID, productID string) (already bool, err error) {
	if err := s.backend.AddFavorite(ctx, token, userID, productID); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			already = true
		} else {
			return false, err
		}
	}
	ids := s.loadIDs(ctx, userID)
	if !contains(ids, productID) {
		s.persistIDs(ctx, userID, append(ids, productID))
	}
	return already, nil
}

// Remove deletes the favorite remotely, then locally.
func (s *Service) Remove(ctx context.Context, token, userID, productID string) error {
	if err := s.backend.RemoveFavorite(ctx, token, userID, productID); err != nil {
		return err
	}
	ids := s.loadIDs(ctx, userID)
	out := ids[:0]
	for _, id := range ids {
		if id != productID {
			out = append(out, id)
		}
	}
	s.persistIDs(ctx, userID, out)
	return nil
}

// IsFavorite checks membership against the mirrored id set.
func (s *Service) IsFavorite(ctx context.Context, userID, productID string) bool {
	return contains(s.loadIDs(ctx, userID), productID)
}

func (s *Service) loadIDs(ctx context.Context, userID string) []string {
	raw, err := s.store.Get(ctx, key(userID))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Printf("favorites load %s: %v", userID, err)
		}
		return nil
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		s.logger.Printf("favorites decode %s: %v", userID, err)
		return nil
	}
	return ids
}

func (s *Service) persistIDs(ctx context.Context, userID string, ids []string) {
	payload, err := json.Marshal(ids)
	if err != nil {
		s.logger.Printf("favorites encode %s: %v", userID, err)
		return
	}
	if err := s.store.Set(ctx, key(userID), payload); err != nil {
		s.logger.Printf("favorites persist %s: %v", userID, err)
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func key(userID string) string {
	return "favorites:" + userID
}
