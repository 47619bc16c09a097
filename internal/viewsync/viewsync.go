package viewsync

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/five82/schoolcal/internal/schoolapi"
	"github.com/five82/schoolcal/internal/searchtype"
	"github.com/five82/schoolcal/internal/state"
)

// ErrSuperseded is returned by a pipeline whose results were discarded
// because a newer pipeline started before it finished.
var ErrSuperseded = errors.New("superseded by a newer request")

// AddressSetter receives the school address chosen by the region fallback.
type AddressSetter interface {
	SetSchoolAddress(address string)
}

// Defaults are the selections used when the user has no saved school or
// region.
type Defaults struct {
	SchoolName string
	RegionName string
	RegionCode schoolapi.Code
	Address    string
}

// DefaultFallbacks returns the stock fallback selections.
func DefaultFallbacks() Defaults {
	return Defaults{
		SchoolName: "가락중학교",
		RegionName: "서울특별시 강남구",
		RegionCode: "1",
		Address:    "서울특별시 송파구 송이로 45",
	}
}

func (d Defaults) withFallbacks() Defaults {
	base := DefaultFallbacks()
	if d.SchoolName == "" {
		d.SchoolName = base.SchoolName
	}
	if d.RegionName == "" {
		d.RegionName = base.RegionName
	}
	if d.RegionCode.Empty() {
		d.RegionCode = base.RegionCode
	}
	if d.Address == "" {
		d.Address = base.Address
	}
	return d
}

// Synchronizer keeps the view state consistent with the search type, the
// signed-in user and the loaded school or region code.
//
// Every pipeline run takes a new generation and cancels the run before it.
// Results are only written when their generation is still current, so a
// slow response can never overwrite a newer one.
type Synchronizer struct {
	api      schoolapi.ScheduleFetcher
	store    *state.Store
	address  AddressSetter
	defaults Defaults
	logger   *zap.Logger

	mu         sync.Mutex
	userID     string
	latched    bool // initialized for the current kind
	generation uint64
	cancel     context.CancelFunc
}

// New builds a Synchronizer writing into store. address may be nil.
func New(api schoolapi.ScheduleFetcher, store *state.Store, address AddressSetter, defaults Defaults, logger *zap.Logger) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synchronizer{
		api:      api,
		store:    store,
		address:  address,
		defaults: defaults.withFallbacks(),
		logger:   logger,
	}
}

// Initialize runs the initialize-or-default pipeline for st.Kind unless it
// already completed in the current kind epoch.
func (s *Synchronizer) Initialize(ctx context.Context, st searchtype.SearchType) error {
	return s.initialize(ctx, st, false)
}

// UserResolved records the signed-in user (empty for anonymous) and runs
// initialization if the current epoch has not completed yet.
func (s *Synchronizer) UserResolved(ctx context.Context, userID string, st searchtype.SearchType) error {
	s.mu.Lock()
	s.userID = userID
	s.mu.Unlock()
	return s.initialize(ctx, st, false)
}

// TypeChanged starts a new kind epoch and initializes it.
func (s *Synchronizer) TypeChanged(ctx context.Context, st searchtype.SearchType) error {
	return s.initialize(ctx, st, true)
}

// Retry restarts initialization of the current kind.
func (s *Synchronizer) Retry(ctx context.Context, st searchtype.SearchType) error {
	return s.initialize(ctx, st, true)
}

// FilterChanged refetches schedules for a new year or grade. It does nothing
// until the current epoch is initialized and a code is known.
func (s *Synchronizer) FilterChanged(ctx context.Context, st searchtype.SearchType) error {
	s.mu.Lock()
	snap := s.store.Snapshot()
	latched := s.latched
	if !latched || snap.Current.Code.Empty() || snap.Current.Kind != st.Kind {
		s.mu.Unlock()
		s.logger.Debug("refetch skipped",
			zap.String("kind", string(st.Kind)),
			zap.Bool("initialized", latched),
		)
		return nil
	}
	gen, runCtx := s.beginLocked(ctx)
	s.mu.Unlock()
	defer s.end(gen)

	schedules, err := s.refetch(runCtx, st, snap)
	if err != nil {
		return s.recordRefetchError(gen, fmt.Errorf("refetch %s: %w", st.Kind, err))
	}
	return s.commitSchedules(gen, schedules)
}

func (s *Synchronizer) refetch(ctx context.Context, st searchtype.SearchType, snap state.Snapshot) ([]schoolapi.Schedule, error) {
	code := snap.Current.Code
	switch st.Kind {
	case schoolapi.KindSchool:
		// The education office code is looked up again rather than cached.
		school, err := s.api.SearchSchoolByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		return s.api.GetAllSchoolSchedule(ctx, schoolapi.ScheduleQuery{
			Code:     code,
			AtptCode: school.AtptCode,
			Year:     st.Year,
			Grade:    st.Grade,
		})
	case schoolapi.KindRegion:
		return s.api.SearchAverageScheduleByGrade(ctx, schoolapi.AverageQuery{
			RegionName: snap.RegionName,
			Grade:      st.Grade,
			Year:       st.Year,
		})
	}
	return nil, fmt.Errorf("unknown search type %q", st.Kind)
}

// selection is the outcome of one initialization pipeline.
type selection struct {
	code      state.CurrentCode
	name      string
	schedules []schoolapi.Schedule
	address   string
	source    string
}

func (s *Synchronizer) initialize(ctx context.Context, st searchtype.SearchType, newEpoch bool) error {
	s.mu.Lock()
	if newEpoch {
		s.latched = false
	}
	if s.latched {
		s.mu.Unlock()
		return nil
	}
	userID := s.userID
	gen, runCtx := s.beginLocked(ctx)
	s.store.MarkLoading()
	s.mu.Unlock()
	defer s.end(gen)

	sel, err := s.resolve(runCtx, userID, st)
	if err != nil {
		return s.fail(gen, fmt.Errorf("initialize %s: %w", st.Kind, err))
	}
	return s.commit(gen, st.Kind, sel)
}

func (s *Synchronizer) resolve(ctx context.Context, userID string, st searchtype.SearchType) (selection, error) {
	if userID != "" {
		sel, ok, err := s.resolvePersonal(ctx, st)
		if err == nil && ok {
			return sel, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return selection{}, ctxErr
		}
		if err != nil {
			s.logger.Warn("my school lookup failed, using defaults",
				zap.String("kind", string(st.Kind)),
				zap.String("user_id", userID),
				zap.Error(err),
			)
		} else {
			s.logger.Warn("no saved selection, using defaults",
				zap.String("kind", string(st.Kind)),
				zap.String("user_id", userID),
			)
		}
	}
	return s.resolveDefault(ctx, st)
}

// resolvePersonal loads the user's saved school or region. ok is false when
// the user has none saved.
func (s *Synchronizer) resolvePersonal(ctx context.Context, st searchtype.SearchType) (selection, bool, error) {
	code, err := s.api.GetMySchool(ctx, st.Kind)
	if err != nil {
		return selection{}, false, err
	}
	if code.Empty() {
		return selection{}, false, nil
	}

	sel := selection{
		code:   state.CurrentCode{Code: code, Kind: st.Kind},
		source: "personal",
	}
	switch st.Kind {
	case schoolapi.KindSchool:
		school, err := s.api.SearchSchoolByCode(ctx, code)
		if err != nil {
			return selection{}, false, err
		}
		schedules, err := s.api.GetAllSchoolSchedule(ctx, schoolapi.ScheduleQuery{
			Code:     code,
			AtptCode: school.AtptCode,
			Year:     st.Year,
			Grade:    st.Grade,
		})
		if err != nil {
			return selection{}, false, err
		}
		sel.name = school.Name
		sel.schedules = schedules
	case schoolapi.KindRegion:
		region, err := s.api.SearchRegionByID(ctx, code)
		if err != nil {
			return selection{}, false, err
		}
		schedules, err := s.api.SearchAverageScheduleByGrade(ctx, schoolapi.AverageQuery{
			RegionName: region.Name,
			Grade:      st.Grade,
		})
		if err != nil {
			return selection{}, false, err
		}
		sel.name = region.Name
		sel.schedules = schedules
	default:
		return selection{}, false, fmt.Errorf("unknown search type %q", st.Kind)
	}
	return sel, true, nil
}

func (s *Synchronizer) resolveDefault(ctx context.Context, st searchtype.SearchType) (selection, error) {
	switch st.Kind {
	case schoolapi.KindSchool:
		name := s.defaults.SchoolName
		hits, err := s.api.SearchSchoolsByName(ctx, name)
		if err != nil {
			return selection{}, fmt.Errorf("resolve default school: %w", err)
		}
		if len(hits) == 0 {
			return selection{}, fmt.Errorf("resolve default school %q: %w", name, schoolapi.ErrNotFound)
		}
		hit := hits[0]
		schedules, err := s.api.GetAllSchoolSchedule(ctx, schoolapi.ScheduleQuery{
			Code:     hit.SchoolCode,
			AtptCode: hit.AtptCode,
			Year:     st.Year,
			Grade:    st.Grade,
		})
		if err != nil {
			return selection{}, fmt.Errorf("fetch default school schedule: %w", err)
		}
		return selection{
			code:      state.CurrentCode{Code: hit.SchoolCode, Kind: st.Kind},
			name:      name,
			schedules: schedules,
			source:    "default",
		}, nil
	case schoolapi.KindRegion:
		name := s.defaults.RegionName
		schedules, err := s.api.SearchAverageScheduleByGrade(ctx, schoolapi.AverageQuery{
			RegionName: name,
			Grade:      st.Grade,
		})
		if err != nil {
			return selection{}, fmt.Errorf("fetch default region schedule: %w", err)
		}
		return selection{
			code:      state.CurrentCode{Code: s.defaults.RegionCode, Kind: st.Kind},
			name:      name,
			schedules: schedules,
			address:   s.defaults.Address,
			source:    "default",
		}, nil
	}
	return selection{}, fmt.Errorf("unknown search type %q", st.Kind)
}

func (s *Synchronizer) beginLocked(parent context.Context) (uint64, context.Context) {
	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	return s.generation, ctx
}

func (s *Synchronizer) end(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.generation && s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Synchronizer) commit(gen uint64, kind schoolapi.Kind, sel selection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return ErrSuperseded
	}
	if sel.address != "" && s.address != nil {
		s.address.SetSchoolAddress(sel.address)
	}
	s.store.SetCurrentCode(sel.code)
	s.store.SetSelectedValue(kind, sel.name)
	s.store.SetSchedules(sel.schedules)
	s.store.MarkReady()
	s.latched = true

	s.logger.Info("selection loaded",
		zap.String("kind", string(kind)),
		zap.String("code", sel.code.Code.String()),
		zap.String("name", sel.name),
		zap.String("source", sel.source),
		zap.Int("schedules", len(sel.schedules)),
	)
	return nil
}

func (s *Synchronizer) commitSchedules(gen uint64, schedules []schoolapi.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return ErrSuperseded
	}
	s.store.SetSchedules(schedules)
	s.store.ClearError()
	s.logger.Debug("schedules refetched", zap.Int("schedules", len(schedules)))
	return nil
}

func (s *Synchronizer) fail(gen uint64, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return ErrSuperseded
	}
	s.store.MarkFailed(err)
	s.logger.Error("initialization failed", zap.Error(err))
	return err
}

func (s *Synchronizer) recordRefetchError(gen uint64, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return ErrSuperseded
	}
	s.store.RecordError(err)
	s.logger.Error("refetch failed", zap.Error(err))
	return err
}
