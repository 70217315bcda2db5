package services

import (
	"context"

	"campus-connect/models"
	"campus-connect/repository"
)

const popularCategoryLimit = 5

// AnalyticsService computes the admin dashboard figures
type AnalyticsService struct {
	users        repository.UserRepository
	products     repository.ProductRepository
	transactions repository.TransactionRepository
}

// NewAnalyticsService creates an AnalyticsService
func NewAnalyticsService(users repository.UserRepository, products repository.ProductRepository,
	transactions repository.TransactionRepository) *AnalyticsService {
	return &AnalyticsService{users: users, products: products, transactions: transactions}
}

// Summary counts users, listings and transactions
func (s *AnalyticsService) Summary(ctx context.Context, actor *models.User) (*models.Analytics, error) {
	if err := requireAdmin(ctx, s.users, actor); err != nil {
		return nil, err
	}

	var (
		summary models.Analytics
		err     error
	)
	if summary.TotalUsers, err = s.users.Count(ctx, false); err != nil {
		return nil, internal("error counting users", err)
	}
	if summary.ActiveUsers, err = s.users.Count(ctx, true); err != nil {
		return nil, internal("error counting users", err)
	}
	if summary.TotalListings, err = s.products.Count(ctx); err != nil {
		return nil, internal("error counting products", err)
	}
	if summary.TotalTransactions, err = s.transactions.Count(ctx); err != nil {
		return nil, internal("error counting transactions", err)
	}
	return &summary, nil
}

// PopularCategories returns the categories with the most listings
func (s *AnalyticsService) PopularCategories(ctx context.Context, actor *models.User) ([]models.CategoryCount, error) {
	if err := requireAdmin(ctx, s.users, actor); err != nil {
		return nil, err
	}
	categories, err := s.products.PopularCategories(ctx, popularCategoryLimit)
	if err != nil {
		return nil, internal("error aggregating categories", err)
	}
	return categories, nil
}
