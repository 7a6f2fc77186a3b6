package countries

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"
)

// Source is an external country data source. *Client implements it.
type Source interface {
	All(ctx context.Context) ([]Country, error)
	ByCode(ctx context.Context, code string) (*Country, error)
	Search(ctx context.Context, name string) ([]Country, error)
}

// Service answers country queries cache-first.
type Service struct {
	source  Source
	logger  *slog.Logger
	index   *Cache[string, []Country]
	byCode  *Cache[string, *Country]
	byQuery *Cache[string, []Country]
}

// NewService creates a service whose cached entries live for ttl.
func NewService(source Source, ttl time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		source:  source,
		logger:  logger,
		index:   NewCache[string, []Country](ttl),
		byCode:  NewCache[string, *Country](ttl),
		byQuery: NewCache[string, []Country](ttl),
	}
}

const indexKey = "all"

// Index returns every country sorted by name.
func (s *Service) Index(ctx context.Context) ([]Country, error) {
	if list, ok := s.index.Get(indexKey); ok {
		s.logger.Debug("cache hit", "cache", "index")
		return list, nil
	}
	s.logger.Debug("cache miss", "cache", "index")
	list, err := s.source.All(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(list, func(a, b Country) int { return strings.Compare(a.Name, b.Name) })
	s.index.Set(indexKey, list)
	return list, nil
}

// Lookup returns the country with the given code.
func (s *Service) Lookup(ctx context.Context, code string) (*Country, error) {
	key := strings.ToUpper(strings.TrimSpace(code))
	if c, ok := s.byCode.Get(key); ok {
		s.logger.Debug("cache hit", "cache", "code", "key", key)
		return c, nil
	}
	s.logger.Debug("cache miss", "cache", "code", "key", key)
	c, err := s.source.ByCode(ctx, key)
	if err != nil {
		return nil, err
	}
	s.byCode.Set(key, c)
	return c, nil
}

// Search returns the countries whose name contains name.
func (s *Service) Search(ctx context.Context, name string) ([]Country, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if list, ok := s.byQuery.Get(key); ok {
		s.logger.Debug("cache hit", "cache", "search", "key", key)
		return list, nil
	}
	s.logger.Debug("cache miss", "cache", "search", "key", key)
	list, err := s.source.Search(ctx, key)
	if err != nil {
		return nil, err
	}
	s.byQuery.Set(key, list)
	return list, nil
}

// Filter returns the countries whose name contains q, ignoring case.
func Filter(list []Country, q string) []Country {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return list
	}
	var out []Country
	for _, c := range list {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.EqualFold(c.Code, q) {
			out = append(out, c)
		}
	}
	return out
}
