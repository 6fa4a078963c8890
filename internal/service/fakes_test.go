package service

import (
	"context"
	"sync"

	"cloess-chatbot-be/internal/entity"
	"cloess-chatbot-be/internal/repository/contract"
	"cloess-chatbot-be/internal/repository/specification"
	"cloess-chatbot-be/internal/repository/unitofwork"
)

// fakeStore backs every fake repository; it is shared by all units of work
// handed out by fakeFactory.
type fakeStore struct {
	mu           sync.Mutex
	products     []*entity.Product
	visitors     []*entity.VisitorSession
	interactions []*entity.ProductInteraction
	stats        *entity.CatalogStats
	categories   []string
	err          error
	commits      int
	rollbacks    int
}

type fakeFactory struct{ store *fakeStore }

func (f *fakeFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type fakeUow struct {
	store *fakeStore
	open  bool
}

func (u *fakeUow) Begin(context.Context) error { u.open = true; return nil }

func (u *fakeUow) Commit() error {
	u.open = false
	u.store.commits++
	return nil
}

func (u *fakeUow) Rollback() error {
	if u.open {
		u.store.rollbacks++
	}
	u.open = false
	return nil
}

func (u *fakeUow) ProductRepository() contract.ProductRepository {
	return &fakeProductRepo{store: u.store}
}

func (u *fakeUow) VisitorSessionRepository() contract.VisitorSessionRepository {
	return &fakeVisitorRepo{store: u.store}
}

func (u *fakeUow) ProductInteractionRepository() contract.ProductInteractionRepository {
	return &fakeInteractionRepo{store: u.store}
}

type fakeProductRepo struct{ store *fakeStore }

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.store.products = append(r.store.products, p)
	return nil
}

func (r *fakeProductRepo) Update(context.Context, *entity.Product) error { return nil }

func (r *fakeProductRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Product, error) {
	if r.store.err != nil {
		return nil, r.store.err
	}
	for _, s := range specs {
		if byID, ok := s.(specification.ByID); ok {
			for _, p := range r.store.products {
				if p.Id == byID.ID {
					return p, nil
				}
			}
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.Product, error) {
	if r.store.err != nil {
		return nil, r.store.err
	}
	return r.store.products, nil
}

func (r *fakeProductRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	return int64(len(r.store.products)), r.store.err
}

func (r *fakeProductRepo) FindByPriceRange(_ context.Context, min, max *float64, _ int) ([]*entity.Product, error) {
	if r.store.err != nil {
		return nil, r.store.err
	}
	var out []*entity.Product
	for _, p := range r.store.products {
		if (min == nil || p.Price >= *min) && (max == nil || p.Price <= *max) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Categories(context.Context) ([]string, error) {
	return r.store.categories, r.store.err
}

func (r *fakeProductRepo) Stats(context.Context) (*entity.CatalogStats, error) {
	return r.store.stats, r.store.err
}

type fakeVisitorRepo struct{ store *fakeStore }

func (r *fakeVisitorRepo) Create(_ context.Context, v *entity.VisitorSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	v.Id = len(r.store.visitors) + 1
	r.store.visitors = append(r.store.visitors, v)
	return nil
}

func (r *fakeVisitorRepo) Update(context.Context, *entity.VisitorSession) error { return nil }

func (r *fakeVisitorRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.VisitorSession, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.err != nil {
		return nil, r.store.err
	}
	for _, s := range specs {
		if byIP, ok := s.(specification.ByIPAddress); ok {
			for _, v := range r.store.visitors {
				if v.IPAddress == byIP.IP {
					return v, nil
				}
			}
		}
	}
	return nil, nil
}

func (r *fakeVisitorRepo) VisitorReport(context.Context, int) ([]entity.VisitorReport, error) {
	out := make([]entity.VisitorReport, 0, len(r.store.visitors))
	for _, v := range r.store.visitors {
		out = append(out, entity.VisitorReport{IPAddress: v.IPAddress, Country: v.Country, City: v.City})
	}
	return out, r.store.err
}

func (r *fakeVisitorRepo) CountryReport(context.Context) ([]entity.CountryReport, error) {
	return []entity.CountryReport{{Country: "Tunisia", UserCount: int64(len(r.store.visitors))}}, r.store.err
}

type fakeInteractionRepo struct{ store *fakeStore }

func (r *fakeInteractionRepo) Create(_ context.Context, p *entity.ProductInteraction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p.Id = len(r.store.interactions) + 1
	r.store.interactions = append(r.store.interactions, p)
	return nil
}

func (r *fakeInteractionRepo) Update(context.Context, *entity.ProductInteraction) error { return nil }

func (r *fakeInteractionRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.ProductInteraction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, s := range specs {
		if k, ok := s.(specification.ByVisitorAndProduct); ok {
			for _, p := range r.store.interactions {
				if p.VisitorSessionId == k.VisitorSessionId && p.ProductId == k.ProductId {
					return p, nil
				}
			}
		}
	}
	return nil, nil
}

func (r *fakeInteractionRepo) EngagementReport(_ context.Context, productId *int) ([]entity.ProductEngagementReport, error) {
	var out []entity.ProductEngagementReport
	for _, p := range r.store.interactions {
		if productId != nil && p.ProductId != *productId {
			continue
		}
		out = append(out, entity.ProductEngagementReport{
			ProductId:      p.ProductId,
			UniqueUsers:    1,
			TotalHoverTime: p.TotalHoverTimeMs,
			TotalViews:     int64(p.TotalViews),
			TotalClicks:    int64(p.TotalClicks),
		})
	}
	return out, nil
}
