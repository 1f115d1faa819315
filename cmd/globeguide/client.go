package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/joefazee/globeguide/internal/backend"
	"github.com/joefazee/globeguide/internal/config"
	"github.com/joefazee/globeguide/internal/favorites"
	"github.com/joefazee/globeguide/internal/formatter"
	"github.com/joefazee/globeguide/internal/identity"
	"github.com/joefazee/globeguide/internal/logger"
	"github.com/joefazee/globeguide/internal/restcountries"
	"github.com/joefazee/globeguide/models"
)

// client holds the components one invocation works with.
type client struct {
	cfg       *config.Client
	log       logger.Logger
	logFile   *os.File
	api       *backend.Client
	countries *restcountries.Client
	identity  *identity.Provider
	favorites *favorites.Reconciler
	format    *formatter.Formatter
}

func openClient(ctx context.Context, cfg *config.Client) (*client, error) {
	logFile, err := openLogFile(cfg.LogFile)
	if err != nil {
		return nil, err
	}
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logger.LevelInfo
	}
	log := logger.NewZeroLogger(logFile, level, logger.Fields{"service": "globeguide"})

	api := backend.New(cfg.APIURL, backend.WithLogger(log))
	provider := identity.NewProvider(api, identity.NewFileStore(cfg.SessionFile), log)
	if err := provider.Start(ctx); err != nil {
		logFile.Close()
		return nil, err
	}

	return &client{
		cfg:       cfg,
		log:       log,
		logFile:   logFile,
		api:       api,
		countries: restcountries.New(cfg.CountriesURL, restcountries.WithLogger(log)),
		identity:  provider,
		favorites: favorites.New(backend.NewProfileStore(api, provider), log),
		format:    formatter.New(language.English),
	}, nil
}

func (c *client) Close() {
	c.favorites.Close()
	c.identity.Close()
	c.logFile.Close()
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// withClient loads the settings, opens a client for the duration of fn and
// turns domain errors into messages for the terminal.
func withClient(cmd *cobra.Command, fn func(ctx context.Context, c *client) error) error {
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	c, err := openClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := fn(ctx, c); err != nil {
		c.log.Error(err, map[string]interface{}{"command": cmd.Name()})
		return describe(err)
	}
	return nil
}

var errNotSignedIn = errors.New("not signed in; run `globeguide login` first")

func describe(err error) error {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		msgs := make([]string, 0, len(ve.Fields))
		for _, f := range slices.Sorted(maps.Keys(ve.Fields)) {
			msgs = append(msgs, f+" "+ve.Fields[f])
		}
		return fmt.Errorf("invalid input: %s", strings.Join(msgs, "; "))
	case errors.Is(err, models.ErrDuplicateEmail):
		return errors.New("an account with this email already exists")
	case errors.Is(err, favorites.ErrNoUser), errors.Is(err, models.ErrForbidden):
		return errNotSignedIn
	case errors.Is(err, models.ErrUnauthorized):
		return errors.New("invalid email or password, or the session has expired")
	default:
		return err
	}
}
