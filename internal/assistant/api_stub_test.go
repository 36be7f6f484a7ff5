package assistant

import (
	"context"

	"pepuhub/internal/adapters/geckoterminal"
	"pepuhub/pkg/errors"
)

// apiStub is a programmable geckoterminal.API for tests. Unset
// functions report upstream unavailability.
type apiStub struct {
	searchPools func(query string) ([]geckoterminal.Pool, error)
	trending    func() ([]geckoterminal.Pool, error)
	newPools    func() ([]geckoterminal.Pool, error)
	topPools    func(page int) ([]geckoterminal.Pool, error)
	pool        func(address string) (*geckoterminal.Pool, error)
	token       func(address string) (*geckoterminal.Token, error)
	tokenPools  func(address string) ([]geckoterminal.Pool, error)
	ohlcv       func(poolAddress, timeframe string, aggregate, limit int) ([]geckoterminal.Candle, error)
}

var _ geckoterminal.API = (*apiStub)(nil)

func (s *apiStub) SearchPools(_ context.Context, query string) ([]geckoterminal.Pool, error) {
	if s.searchPools == nil {
		return nil, errors.ErrUnavailable
	}
	return s.searchPools(query)
}

func (s *apiStub) TrendingPools(_ context.Context) ([]geckoterminal.Pool, error) {
	if s.trending == nil {
		return nil, errors.ErrUnavailable
	}
	return s.trending()
}

func (s *apiStub) NewPools(_ context.Context) ([]geckoterminal.Pool, error) {
	if s.newPools == nil {
		return nil, errors.ErrUnavailable
	}
	return s.newPools()
}

func (s *apiStub) TopPools(_ context.Context, page int) ([]geckoterminal.Pool, error) {
	if s.topPools == nil {
		return nil, errors.ErrUnavailable
	}
	return s.topPools(page)
}

func (s *apiStub) Pool(_ context.Context, address string) (*geckoterminal.Pool, error) {
	if s.pool == nil {
		return nil, errors.ErrUnavailable
	}
	return s.pool(address)
}

func (s *apiStub) Token(_ context.Context, address string) (*geckoterminal.Token, error) {
	if s.token == nil {
		return nil, errors.ErrUnavailable
	}
	return s.token(address)
}

func (s *apiStub) TokenPools(_ context.Context, address string) ([]geckoterminal.Pool, error) {
	if s.tokenPools == nil {
		return nil, errors.ErrUnavailable
	}
	return s.tokenPools(address)
}

func (s *apiStub) OHLCV(_ context.Context, poolAddress, timeframe string, aggregate, limit int) ([]geckoterminal.Candle, error) {
	if s.ohlcv == nil {
		return nil, errors.ErrUnavailable
	}
	return s.ohlcv(poolAddress, timeframe, aggregate, limit)
}
