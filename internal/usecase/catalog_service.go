package usecase

import (
	"context"

	"github.com/Gunvolt24/techshop/internal/catalog"
	"github.com/Gunvolt24/techshop/internal/domain"
	"github.com/Gunvolt24/techshop/internal/ports"
	"github.com/Gunvolt24/techshop/pkg/metrics"
)

// CatalogService — просмотр каталога, карточка товара, категории и автодополнение.
type CatalogService struct {
	api      ports.CatalogAPI
	products *ProductResolver
	suggest  *catalog.Sequencers
	log      ports.Logger
}

var _ ports.CatalogService = (*CatalogService)(nil)

func NewCatalogService(
	api ports.CatalogAPI,
	products *ProductResolver,
	suggest *catalog.Sequencers,
	log ports.Logger,
) *CatalogService {
	return &CatalogService{api: api, products: products, suggest: suggest, log: log}
}

// Browse — страница каталога по состоянию запроса. Товары страницы попадают в кэш.
func (s *CatalogService) Browse(ctx context.Context, state catalog.QueryState) (*domain.CatalogPage, error) {
	page, err := s.api.Goods(ctx, state.Params())
	if err != nil {
		return nil, err
	}
	s.products.Remember(ctx, page.Goods)

	views := make([]domain.ProductView, 0, len(page.Goods))
	for _, p := range page.Goods {
		views = append(views, productView(p))
	}
	return &domain.CatalogPage{
		Goods:      views,
		Page:       state.Page(),
		PerPage:    state.PageSize(),
		HasMore:    page.HasMore(state.PageSize()),
		Pagination: page.Pagination,
	}, nil
}

func (s *CatalogService) Product(ctx context.Context, id int64) (*domain.ProductView, error) {
	p, err := s.products.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	v := productView(*p)
	return &v, nil
}

// Categories — уникальные категории одной большой страницы каталога.
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	page, err := s.api.Goods(ctx, catalog.NewQueryState(catalog.CategoriesPageSize).Params())
	if err != nil {
		return nil, err
	}
	return catalog.DistinctCategories(page.Goods), nil
}

// Suggest — подсказки для строки поиска. Если пока ждали ответ, профиль
// успел отправить более новый запрос, возвращается catalog.ErrStaleSuggestions.
func (s *CatalogService) Suggest(ctx context.Context, profile, query string) ([]string, error) {
	if !catalog.ShouldSuggest(query) {
		return []string{}, nil
	}

	seq := s.suggest.For(profile)
	n := seq.Next()

	out, err := s.api.Autocomplete(ctx, query)
	if err != nil {
		return nil, err
	}
	if !seq.IsLatest(n) {
		metrics.StaleSuggestions.Inc()
		return nil, catalog.ErrStaleSuggestions
	}
	return out, nil
}
