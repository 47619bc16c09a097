package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/five82/schoolcal/internal/auth"
	"github.com/five82/schoolcal/internal/config"
	"github.com/five82/schoolcal/internal/logging"
	"github.com/five82/schoolcal/internal/prefs"
	"github.com/five82/schoolcal/internal/schoolapi"
	"github.com/five82/schoolcal/internal/searchtype"
	"github.com/five82/schoolcal/internal/state"
	"github.com/five82/schoolcal/internal/ui"
	"github.com/five82/schoolcal/internal/viewsync"
)

// Options configure the schoolcal application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/schoolcal/prefs.toml
	Type       string // "school" or "region"; empty keeps the saved type
	Year       int    // zero keeps the saved year, then the current year
	Grade      int    // negative keeps the saved grade; zero is all grades
}

// session holds everything wired from config, prefs and the access token.
type session struct {
	cfg      config.Config
	logger   *zap.Logger
	identity auth.Identity
	prefs    prefs.Prefs
	selector *searchtype.Selector
	store    *state.Store
	sync     *viewsync.Synchronizer
}

// Run boots the schoolcal TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	s, err := newSession(opts, time.Now())
	if err != nil {
		return err
	}
	defer func() { _ = s.logger.Sync() }()

	s.logger.Info("schoolcal starting",
		zap.String("api_base", s.cfg.APIBase),
		zap.Bool("anonymous", s.identity.Anonymous()),
		zap.Stringer("search_type", s.selector.Current()),
	)

	return ui.Run(ui.Options{
		Context:   ctx,
		Sync:      s.sync,
		Store:     s.store,
		Selector:  s.selector,
		UserID:    s.identity.UserID,
		LogPath:   s.cfg.LogFile,
		ThemeName: s.prefs.Theme,
		PrefsPath: opts.PrefsPath,
		Logger:    s.logger,
	})
}

// Show initializes the selected schedule once and prints it to w.
func Show(ctx context.Context, opts Options, w io.Writer) error {
	s, err := newSession(opts, time.Now())
	if err != nil {
		return err
	}
	defer func() { _ = s.logger.Sync() }()

	st := s.selector.Current()
	if err := s.sync.UserResolved(ctx, s.identity.UserID, st); err != nil {
		return err
	}
	snap := s.store.Snapshot()

	grade := "all grades"
	if st.HasGrade() {
		grade = fmt.Sprintf("grade %d", st.Grade)
	}
	header := []string{
		strings.ToUpper(string(st.Kind)),
		snap.SelectedValue(st.Kind),
		fmt.Sprintf("%d", st.Year),
		grade,
	}
	if address := s.selector.SchoolAddress(); st.Kind == schoolapi.KindRegion && address != "" {
		header = append(header, address)
	}
	if _, err := fmt.Fprintln(w, strings.Join(header, "  ")); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, ui.ScheduleTable(snap.Schedules, ui.GetTheme(s.prefs.Theme), 0))
	return err
}

func newSession(opts Options, now time.Time) (*session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	identity, err := auth.Load(cfg.TokenFile, now)
	switch {
	case errors.Is(err, auth.ErrNoToken):
		logger.Debug("no access token, browsing anonymously")
	case err != nil:
		logger.Warn("access token unusable, browsing anonymously", zap.Error(err))
		identity = auth.Identity{}
	}

	client, err := schoolapi.NewClient(cfg.APIBase, cfg.RequestTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("init schedule client: %w", err)
	}
	client.SetToken(identity.Token)

	userPrefs, _ := prefs.Load(opts.PrefsPath)
	st, err := initialSearchType(opts, userPrefs, now)
	if err != nil {
		return nil, err
	}

	selector := searchtype.New(st)
	store := state.NewStore(st.Kind, state.ParseView(userPrefs.View))
	defaults := viewsync.Defaults{
		SchoolName: cfg.DefaultSchool,
		RegionName: cfg.DefaultRegion,
		RegionCode: schoolapi.Code(cfg.DefaultRegionCode),
		Address:    cfg.DefaultAddress,
	}

	return &session{
		cfg:      cfg,
		logger:   logger,
		identity: identity,
		prefs:    userPrefs,
		selector: selector,
		store:    store,
		sync:     viewsync.New(client, store, selector, defaults, logger),
	}, nil
}

// initialSearchType layers flag overrides on the saved preferences.
func initialSearchType(opts Options, p prefs.Prefs, now time.Time) (searchtype.SearchType, error) {
	kindName := p.SearchType
	if strings.TrimSpace(opts.Type) != "" {
		kindName = opts.Type
	}
	kind, err := schoolapi.ParseKind(kindName)
	if err != nil {
		return searchtype.SearchType{}, err
	}

	st := searchtype.SearchType{Kind: kind, Year: p.Year, Grade: p.Grade}
	if opts.Year > 0 {
		st.Year = opts.Year
	}
	if st.Year <= 0 {
		st.Year = now.Year()
	}
	if opts.Grade >= 0 {
		if opts.Grade > searchtype.MaxGrade {
			return searchtype.SearchType{}, fmt.Errorf("grade %d out of range 0..%d", opts.Grade, searchtype.MaxGrade)
		}
		st.Grade = opts.Grade
	}
	return st, nil
}
