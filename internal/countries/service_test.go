package countries

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	all    func(ctx context.Context) ([]Country, error)
	byCode func(ctx context.Context, code string) (*Country, error)
	search func(ctx context.Context, name string) ([]Country, error)
	calls  int
}

func (m *mockSource) All(ctx context.Context) ([]Country, error) {
	m.calls++
	return m.all(ctx)
}

func (m *mockSource) ByCode(ctx context.Context, code string) (*Country, error) {
	m.calls++
	return m.byCode(ctx, code)
}

func (m *mockSource) Search(ctx context.Context, name string) ([]Country, error) {
	m.calls++
	return m.search(ctx, name)
}

func TestService_LookupCacheFirst(t *testing.T) {
	src := &mockSource{
		byCode: func(ctx context.Context, code string) (*Country, error) {
			assert.Equal(t, "FR", code)
			return &Country{Name: "France", Code: "FR"}, nil
		},
	}
	svc := NewService(src, time.Hour, nil)

	c, err := svc.Lookup(context.Background(), "fr")
	require.NoError(t, err)
	assert.Equal(t, "France", c.Name)

	c, err = svc.Lookup(context.Background(), " FR ")
	require.NoError(t, err)
	assert.Equal(t, "France", c.Name)
	assert.Equal(t, 1, src.calls, "second lookup should be served from cache")
}

func TestService_LookupErrorNotCached(t *testing.T) {
	src := &mockSource{
		byCode: func(ctx context.Context, code string) (*Country, error) {
			return nil, ErrNotFound
		},
	}
	svc := NewService(src, time.Hour, nil)

	for range 2 {
		_, err := svc.Lookup(context.Background(), "ZZ")
		require.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, 2, src.calls)
}

func TestService_IndexSorted(t *testing.T) {
	src := &mockSource{
		all: func(ctx context.Context) ([]Country, error) {
			return []Country{{Name: "Peru", Code: "PE"}, {Name: "Chad", Code: "TD"}}, nil
		},
	}
	svc := NewService(src, time.Hour, nil)

	list, err := svc.Index(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Chad", "Peru"}, []string{list[0].Name, list[1].Name})

	_, err = svc.Index(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls)
}

func TestService_SearchNormalizesKey(t *testing.T) {
	src := &mockSource{
		search: func(ctx context.Context, name string) ([]Country, error) {
			if name != "japan" {
				return nil, errors.New("unexpected name " + name)
			}
			return []Country{{Name: "Japan", Code: "JP"}}, nil
		},
	}
	svc := NewService(src, time.Hour, nil)

	_, err := svc.Search(context.Background(), "Japan")
	require.NoError(t, err)
	_, err = svc.Search(context.Background(), "JAPAN ")
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls)
}

func TestFilter(t *testing.T) {
	list := []Country{
		{Name: "France", Code: "FR"},
		{Name: "French Guiana", Code: "GF"},
		{Name: "Japan", Code: "JP"},
	}
	assert.Len(t, Filter(list, ""), 3)
	assert.Len(t, Filter(list, "fr"), 2)
	assert.Equal(t, "Japan", Filter(list, "jp")[0].Name)
	assert.Empty(t, Filter(list, "atlantis"))
}
