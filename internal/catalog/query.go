// Package catalog — состояние просмотра каталога и его перевод в параметры
// запроса к внешнему API. QueryState неизменяем: каждый переход возвращает
// новое значение.
package catalog

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultPageSize — размер страницы каталога по умолчанию.
const DefaultPageSize = 12

// CategoriesPageSize — сколько товаров запрашиваем, чтобы собрать список категорий.
const CategoriesPageSize = 100

const (
	ParamPage        = "page"
	ParamPerPage     = "per_page"
	ParamQuery       = "query"
	ParamSortOrder   = "sort_order"
	ParamCategory    = "main_category"
	ParamPriceMin    = "price_min"
	ParamPriceMax    = "price_max"
	ParamHasDiscount = "has_discount"
)

// Известные значения сортировки. Внешнее API может понимать и другие,
// поэтому значение передаётся как есть.
const (
	SortRatingAsc  = "rating_asc"
	SortRatingDesc = "rating_desc"
	SortPriceAsc   = "price_asc"
	SortPriceDesc  = "price_desc"
)

// ErrInvalidQuery — параметры каталога не удалось разобрать.
var ErrInvalidQuery = errors.New("invalid catalog query")

// Filters — фильтры каталога.
type Filters struct {
	Categories   []string
	PriceMin     *decimal.Decimal
	PriceMax     *decimal.Decimal
	DiscountOnly bool
}

// QueryState — состояние просмотра каталога.
type QueryState struct {
	page       int
	pageSize   int
	searchText string
	sortOrder  string
	filters    Filters
}

// NewQueryState — первая страница без поиска и фильтров.
func NewQueryState(pageSize int) QueryState {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return QueryState{page: 1, pageSize: pageSize}
}

func (s QueryState) Page() int            { return s.page }
func (s QueryState) PageSize() int        { return s.pageSize }
func (s QueryState) SearchText() string   { return s.searchText }
func (s QueryState) SortOrder() string    { return s.sortOrder }
func (s QueryState) Categories() []string { return append([]string(nil), s.filters.Categories...) }
func (s QueryState) DiscountOnly() bool   { return s.filters.DiscountOnly }

// Filters — копия текущих фильтров.
func (s QueryState) Filters() Filters {
	return s.filters.clone()
}

// WithSearch — новый текст поиска; пагинация сбрасывается.
func (s QueryState) WithSearch(text string) QueryState {
	next := s.clone()
	next.searchText = strings.TrimSpace(text)
	next.page = 1
	return next
}

// WithSort — новая сортировка; пагинация сбрасывается.
func (s QueryState) WithSort(order string) QueryState {
	next := s.clone()
	next.sortOrder = strings.TrimSpace(order)
	next.page = 1
	return next
}

// WithFilters — новые фильтры; пагинация сбрасывается.
// Категории очищаются от пустых значений и дублей, порядок сохраняется.
func (s QueryState) WithFilters(f Filters) QueryState {
	next := s.clone()
	next.filters = Filters{
		Categories:   uniqueCategories(f.Categories),
		PriceMin:     copyDecimal(f.PriceMin),
		PriceMax:     copyDecimal(f.PriceMax),
		DiscountOnly: f.DiscountOnly,
	}
	next.page = 1
	return next
}

// Reset — сбрасывает фильтры, оставляя поиск и сортировку.
func (s QueryState) Reset() QueryState {
	return s.WithFilters(Filters{})
}

// NextPage — «показать ещё»: page+1, остальное без изменений.
func (s QueryState) NextPage() QueryState {
	next := s.clone()
	next.page++
	return next
}

// Params — нормализованный набор параметров для запроса каталога.
// Незаданные значения не передаются вовсе.
func (s QueryState) Params() url.Values {
	v := url.Values{}
	v.Set(ParamPage, strconv.Itoa(s.page))
	v.Set(ParamPerPage, strconv.Itoa(s.pageSize))

	if s.searchText != "" {
		v.Set(ParamQuery, s.searchText)
	}
	if s.sortOrder != "" {
		v.Set(ParamSortOrder, s.sortOrder)
	}
	if len(s.filters.Categories) > 0 {
		v.Set(ParamCategory, strings.Join(s.filters.Categories, ","))
	}
	if s.filters.PriceMin != nil {
		v.Set(ParamPriceMin, s.filters.PriceMin.String())
	}
	if s.filters.PriceMax != nil {
		v.Set(ParamPriceMax, s.filters.PriceMax.String())
	}
	if s.filters.DiscountOnly {
		v.Set(ParamHasDiscount, "true")
	}
	return v
}

// ParseQueryState — состояние из строки запроса с теми же именами параметров.
// Отсутствующие page/per_page берутся по умолчанию.
func ParseQueryState(v url.Values, defaultPageSize int) (QueryState, error) {
	s := NewQueryState(defaultPageSize)

	if raw := strings.TrimSpace(v.Get(ParamPerPage)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return QueryState{}, fmt.Errorf("%w: per_page %q", ErrInvalidQuery, raw)
		}
		s.pageSize = n
	}

	var f Filters
	if raw := strings.TrimSpace(v.Get(ParamCategory)); raw != "" {
		f.Categories = strings.Split(raw, ",")
	}
	for _, bound := range []struct {
		name string
		dst  **decimal.Decimal
	}{{ParamPriceMin, &f.PriceMin}, {ParamPriceMax, &f.PriceMax}} {
		raw := strings.TrimSpace(v.Get(bound.name))
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil || d.IsNegative() {
			return QueryState{}, fmt.Errorf("%w: %s %q", ErrInvalidQuery, bound.name, raw)
		}
		*bound.dst = &d
	}
	if raw := strings.TrimSpace(v.Get(ParamHasDiscount)); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return QueryState{}, fmt.Errorf("%w: has_discount %q", ErrInvalidQuery, raw)
		}
		f.DiscountOnly = b
	}

	s = s.WithSearch(v.Get(ParamQuery)).WithSort(v.Get(ParamSortOrder)).WithFilters(f)

	if raw := strings.TrimSpace(v.Get(ParamPage)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return QueryState{}, fmt.Errorf("%w: page %q", ErrInvalidQuery, raw)
		}
		s.page = n
	}
	return s, nil
}

func (s QueryState) clone() QueryState {
	next := s
	next.filters = s.filters.clone()
	return next
}

func (f Filters) clone() Filters {
	return Filters{
		Categories:   append([]string(nil), f.Categories...),
		PriceMin:     copyDecimal(f.PriceMin),
		PriceMax:     copyDecimal(f.PriceMax),
		DiscountOnly: f.DiscountOnly,
	}
}

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

func uniqueCategories(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, c := range in {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
