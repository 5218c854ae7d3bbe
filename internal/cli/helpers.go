package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/haulops/haulctl/internal/api"
	"github.com/haulops/haulctl/internal/config"
	"github.com/haulops/haulctl/internal/listview"
	"github.com/haulops/haulctl/internal/ui"
	"github.com/haulops/haulctl/internal/ui/styles"
	"github.com/haulops/haulctl/internal/util"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// tokenWarnWindow is how close to expiry a token must be before commands warn.
const tokenWarnWindow = 24 * time.Hour

// session returns the token from HAULCTL_TOKEN, or the stored one.
func (a *app) session() (api.Session, error) {
	s := api.Session{Token: config.EnvTokenValue()}
	if s.Token == "" {
		stored, err := api.LoadToken(util.TokenPath())
		if err != nil {
			return api.Session{}, util.NewError("Cannot read the stored token").
				WithContext(util.TokenPath()).
				WithSuggestion("haulctl auth set-token <token>").
				Wrap(err)
		}
		s = stored
	}
	if s.Token == "" {
		return api.Session{}, util.NoTokenError()
	}
	if s.Expired(a.now()) {
		return api.Session{}, util.TokenExpiredError(util.RelativeTime(s.ExpiresAt()))
	}
	return s, nil
}

// client builds an API client for the current session. A token about to
// expire is reported on stderr but still used.
func (a *app) client(cmd *cobra.Command) (*api.Client, error) {
	s, err := a.session()
	if err != nil {
		return nil, err
	}
	if exp := s.ExpiresAt(); !exp.IsZero() && exp.Sub(a.now()) < tokenWarnWindow {
		fmt.Fprintln(cmd.ErrOrStderr(), styles.WarningMsg("API token expires "+util.RelativeTime(exp)))
	}
	return api.NewClient(a.cfg.API.BaseURL, s,
		api.WithTimeout(time.Duration(a.cfg.API.TimeoutSeconds)*time.Second),
		api.WithLogger(a.log),
	), nil
}

// apiError turns a client error into a HaulError with something to try.
func apiError(err error, baseURL string) error {
	if err == nil {
		return nil
	}
	var haulErr *util.HaulError
	if errors.As(err, &haulErr) {
		return err
	}
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	switch {
	case apiErr.Kind == api.KindTransport && apiErr.Status == 0:
		return util.BackendUnreachableError(baseURL, err)
	case apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden:
		return util.NewError("The backend rejected the API token").
			WithMessage(api.DisplayMessage(err)).
			WithContext(apiErr.Op).
			WithSuggestions(
				"haulctl auth status              # Inspect the stored token",
				"haulctl auth set-token <token>   # Store a fresh token",
			).
			Wrap(err)
	case apiErr.Kind == api.KindValidation:
		return util.NewError("Missing required fields").
			WithMessage(api.DisplayMessage(err)).
			Wrap(err)
	}

	e := util.NewError(api.DisplayMessage(err)).WithContext(apiErr.Op)
	if apiErr.RequestID != "" {
		e.WithMessage(requestLine(apiErr.RequestID))
	}
	return e.Wrap(err)
}

// requestLine names the request so it can be found in backend logs.
func requestLine(id string) string {
	sent, err := util.RequestTime(id)
	if err != nil {
		return "request " + id
	}
	return fmt.Sprintf("request %s sent %s", id, sent.UTC().Format("2006-01-02 15:04:05 UTC"))
}

func (a *app) newView(c *api.Client, res api.Resource, rows int) *listview.View {
	opts := []listview.Option{listview.WithLogger(a.log), listview.WithClock(a.now)}
	if rows > 0 {
		opts = append(opts, listview.WithRowsPerPage(rows))
	}
	return listview.New(res, c, opts...)
}

// loadView fetches a resource's collection behind a spinner.
func (a *app) loadView(ctx context.Context, c *api.Client, res api.Resource, rows int) (*listview.View, error) {
	v := a.newView(c, res, rows)
	spinner := ui.NewSpinner(fmt.Sprintf("Loading %s", styles.Cyan(res.Section)))
	spinner.Start()
	err := v.Load(ctx)
	spinner.Stop()
	if err != nil {
		return nil, apiError(err, c.BaseURL())
	}
	return v, nil
}

// findRecord loads res and returns the record with the given id.
func (a *app) findRecord(ctx context.Context, c *api.Client, res api.Resource, id string) (*listview.View, api.Record, error) {
	v, err := a.loadView(ctx, c, res, 0)
	if err != nil {
		return nil, nil, err
	}
	rec, ok := v.Find(id)
	if !ok {
		return nil, nil, util.RecordNotFoundError(res.Name, id)
	}
	return v, rec, nil
}

// exportView writes the filtered collection to the export directory and
// returns the file path, the CSV bytes and the row count.
func (a *app) exportView(v *listview.View) (string, []byte, int, error) {
	var buf bytes.Buffer
	n, err := v.ExportCSV(&buf)
	if err != nil {
		return "", nil, 0, err
	}

	path := util.ExportPath(a.cfg.Export.Dir, v.ExportFilename(a.now()))
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", nil, 0, fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", nil, 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	a.log.Info("exported csv", zap.String("path", path), zap.Int("rows", n))
	return path, buf.Bytes(), n, nil
}

func (a *app) flashDuration() time.Duration {
	return time.Duration(a.cfg.View.FlashSeconds) * time.Second
}

// requireArg returns args[0] or a MissingArgumentError.
func requireArg(args []string, name, example string) (string, error) {
	if len(args) == 0 || args[0] == "" {
		return "", util.MissingArgumentError(name, example)
	}
	return args[0], nil
}
