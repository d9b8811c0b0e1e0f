package commands

import (
	"github.com/ghostcopy/ghostd/internal/adapters/repository/rest"
	repoSqlite "github.com/ghostcopy/ghostd/internal/adapters/repository/sqlite"
	"github.com/ghostcopy/ghostd/internal/application/ports"
	"github.com/ghostcopy/ghostd/internal/domain/clip"
	"github.com/ghostcopy/ghostd/internal/infrastructure/config"
)

// openRepository builds the configured store for read-only CLI commands.
// The cleanup func releases any held connection.
func openRepository(cfg *config.Config) (ports.Repository, func(), error) {
	deviceType := clip.DeviceType(cfg.Device.Type)

	if cfg.Store.Backend == "rest" {
		repo, err := rest.NewRepository(cfg.Store.URL, deviceType, cfg.Device.Name,
			rest.WithTimeout(cfg.Store.Timeout))
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	}

	conn, err := repoSqlite.NewConnection(cfg.Store.Path)
	if err != nil {
		return nil, nil, err
	}
	if err := conn.Open(); err != nil {
		return nil, nil, err
	}

	repo, err := repoSqlite.NewRepository(conn, deviceType, cfg.Device.Name, cfg.Store.RetainItems)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}

	return repo, func() { conn.Close() }, nil
}
