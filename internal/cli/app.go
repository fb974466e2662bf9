package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/satzkarte/internal/cards"
	"github.com/mesh-intelligence/satzkarte/internal/export"
	"github.com/mesh-intelligence/satzkarte/internal/paths"
	"github.com/mesh-intelligence/satzkarte/internal/render"
	"github.com/mesh-intelligence/satzkarte/pkg/sqlite"
	"github.com/mesh-intelligence/satzkarte/pkg/types"
)

// session is an attached store plus the services built on it. The caller
// must Close it.
type session struct {
	backend  *sqlite.Backend
	service  *cards.Service
	exporter *export.Exporter
	dataDir  string
}

func (s *session) Close() error {
	return s.backend.Detach()
}

// dataDir resolves --data-dir > config data_dir > SATZKARTE_DATA_DIR >
// $(CWD)/.satzkarte-db.
func (a *app) dataDir() (string, error) {
	dir, err := paths.ResolveDataDir(a.flags.dataDir, a.config.DataDir)
	if err != nil {
		return "", fmt.Errorf("resolve data dir: %w", err)
	}
	return dir, nil
}

// location is the configured card time zone.
func (a *app) location() (*time.Location, error) {
	return types.Config{Timezone: a.config.Timezone}.Location()
}

// renderer builds the PDF renderer from config.
func (a *app) renderer() (*render.Renderer, error) {
	loc, err := a.location()
	if err != nil {
		return nil, err
	}
	assetDir, err := paths.ResolveAssetDir(a.config.AssetDir, a.configDir)
	if err != nil {
		return nil, fmt.Errorf("resolve asset dir: %w", err)
	}
	return render.New(render.Options{
		AssetDir:     assetDir,
		Organization: a.config.Organization,
		Now:          func() time.Time { return time.Now().In(loc) },
		Logger:       a.logger.Named("render"),
	}), nil
}

// open attaches the card database and wires the service and exporter.
func (a *app) open() (*session, error) {
	dataDir, err := a.dataDir()
	if err != nil {
		return nil, err
	}
	r, err := a.renderer()
	if err != nil {
		return nil, err
	}

	backend, err := sqlite.Open(types.Config{DataDir: dataDir, Timezone: a.config.Timezone})
	if err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}
	a.logger.Debug("backend attached", zap.String("path", backend.Path()))

	return &session{
		backend:  backend,
		service:  cards.NewService(backend, r, a.logger.Named("cards")),
		exporter: export.New(backend),
		dataDir:  dataDir,
	}, nil
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// writeOutput stores data at path, or on w when path is "-".
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "-" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
