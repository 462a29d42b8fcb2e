package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/planwise/timetable-companion/internal/models"
	"github.com/planwise/timetable-companion/internal/store"
	appErrors "github.com/planwise/timetable-companion/pkg/errors"
)

type electiveFetcher interface {
	Electives(ctx context.Context, combo models.Combo) (models.ElectiveCatalog, error)
}

// ElectiveService keeps the elective catalog and the user's per-category
// choices in sync for each (course, semester, phase) combination, and filters
// week data down to the visible electives.
type ElectiveService struct {
	mu     sync.Mutex
	cache  *store.Cache
	client electiveFetcher
	logger *zap.Logger
}

// NewElectiveService builds the elective overlay service.
func NewElectiveService(cache *store.Cache, client electiveFetcher, logger *zap.Logger) *ElectiveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ElectiveService{cache: cache, client: client, logger: logger}
}

// Normalize reshapes a stored selection against the current catalog. The
// result has exactly the catalog's category set: stale categories are
// dropped, and a choice that no longer names a known code collapses to the
// NONE sentinel.
func Normalize(sel models.ElectiveSelection, catalog models.ElectiveCatalog) models.ElectiveSelection {
	normalized := models.ElectiveSelection{}
	for category, codes := range catalog.Categories {
		chosen, ok := sel[category]
		if !ok || (chosen != models.ElectiveNone && !containsCode(codes, chosen)) {
			normalized[category] = models.ElectiveNone
			continue
		}
		normalized[category] = chosen
	}
	return normalized
}

// DefaultSelection hides every elective category.
func DefaultSelection(catalog models.ElectiveCatalog) models.ElectiveSelection {
	sel := models.ElectiveSelection{}
	for category := range catalog.Categories {
		sel[category] = models.ElectiveNone
	}
	return sel
}

// HasAnySelected reports whether at least one category names a real elective.
func HasAnySelected(sel models.ElectiveSelection) bool {
	for _, code := range sel {
		if code != models.ElectiveNone {
			return true
		}
	}
	return false
}

// Sync refetches the catalog for the combination and reconciles the stored
// selection against it. The catalog carries its own version token; the fetched
// token is compared against the cached catalog's token and the cache is only
// rewritten on a mismatch. The returned prompt flag is true exactly once per
// combination: the first time a non-empty catalog arrives with no stored
// selection. The all-NONE default is persisted at that moment so revisits
// never re-prompt.
func (s *ElectiveService) Sync(ctx context.Context, combo models.Combo) (models.ElectiveCatalog, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cached, hasCached := s.cache.ElectivesDef(combo)

	catalog := cached
	fetched, err := s.client.Electives(ctx, combo)
	if err != nil {
		if !hasCached {
			return models.ElectiveCatalog{}, false, err
		}
		s.logger.Warn("elective catalog refresh failed, serving cached copy",
			zap.String("course", combo.Course),
			zap.Error(err))
	} else if !hasCached || fetched.CacheVersion != cached.CacheVersion {
		catalog = fetched
		if err := s.cache.SetElectivesDef(combo, catalog); err != nil {
			s.logger.Warn("persist elective catalog", zap.Error(err))
		}
	}

	stored, hadSelection := s.cache.ElectivesSel(combo)
	if !hadSelection {
		if len(catalog.Categories) == 0 {
			return catalog, false, nil
		}
		if err := s.cache.SetElectivesSel(combo, DefaultSelection(catalog)); err != nil {
			s.logger.Warn("persist default elective selection", zap.Error(err))
		}
		return catalog, true, nil
	}

	normalized := Normalize(stored, catalog)
	if !normalized.Equal(stored) {
		if err := s.cache.SetElectivesSel(combo, normalized); err != nil {
			s.logger.Warn("persist normalized elective selection", zap.Error(err))
		}
	}
	return catalog, false, nil
}

// Catalog returns the cached catalog for the combination.
func (s *ElectiveService) Catalog(combo models.Combo) (models.ElectiveCatalog, bool) {
	return s.cache.ElectivesDef(combo)
}

// Selection returns the stored selection normalized against the cached
// catalog, or the all-NONE default when nothing is stored yet.
func (s *ElectiveService) Selection(combo models.Combo) models.ElectiveSelection {
	catalog, _ := s.cache.ElectivesDef(combo)
	stored, ok := s.cache.ElectivesSel(combo)
	if !ok {
		return DefaultSelection(catalog)
	}
	return Normalize(stored, catalog)
}

// Choose records the elective picked for one category and returns the full
// updated selection. The code must be the NONE sentinel or one of the
// catalog's codes for that category.
func (s *ElectiveService) Choose(combo models.Combo, category, code string) (models.ElectiveSelection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, ok := s.cache.ElectivesDef(combo)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no elective catalog loaded for this combination")
	}
	codes, ok := catalog.Categories[category]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown elective category")
	}
	if code != models.ElectiveNone && !containsCode(codes, code) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "elective code not offered in this category")
	}

	stored, _ := s.cache.ElectivesSel(combo)
	sel := Normalize(stored, catalog)
	sel[category] = code
	if err := s.cache.SetElectivesSel(combo, sel); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "persist elective selection")
	}
	return sel, nil
}

// HideAll resets every category back to the NONE sentinel.
func (s *ElectiveService) HideAll(combo models.Combo) (models.ElectiveSelection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, ok := s.cache.ElectivesDef(combo)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no elective catalog loaded for this combination")
	}
	sel := DefaultSelection(catalog)
	if err := s.cache.SetElectivesSel(combo, sel); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "persist elective selection")
	}
	return sel, nil
}

// Visible reports whether a class survives elective filtering. Non-elective
// classes always show. An elective with a known category shows only when it
// is the chosen code for that category; without a usable category it shows
// when any category chose its code.
func Visible(item models.ClassItem, sel models.ElectiveSelection) bool {
	if !item.IsElective {
		return true
	}
	code := item.Code()
	if item.Category != "" {
		if chosen, ok := sel[item.Category]; ok {
			return chosen == code
		}
	}
	for _, chosen := range sel {
		if chosen != models.ElectiveNone && chosen == code {
			return true
		}
	}
	return false
}

// FilterWeek returns a new week containing only the visible classes. The
// input week is left untouched.
func FilterWeek(week models.WeekData, sel models.ElectiveSelection) models.WeekData {
	filtered := models.WeekData{}
	for day, items := range week {
		kept := make([]models.ClassItem, 0, len(items))
		for _, item := range items {
			if Visible(item, sel) {
				kept = append(kept, item)
			}
		}
		filtered[day] = kept
	}
	return filtered
}

func containsCode(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
