package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/geo"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/database/postgres"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/database/postgres/repositories"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/monitoring/logging"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/types/common"
)

// seedUnit is the JSON shape of one geo unit in a seed file.  Center and
// boundary vertices are [lon, lat] pairs.
type seedUnit struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Code     string       `json:"code"`
	Level    string       `json:"level"`
	ParentID string       `json:"parent_id"`
	CityID   string       `json:"city_id"`
	Center   [2]float64   `json:"center"`
	Boundary [][2]float64 `json:"boundary"`
	IsActive *bool        `json:"is_active"`
}

// newSeedCommand loads geographic hierarchy data into the database.
func newSeedCommand(opts *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load geo units from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			logger, err := buildLogger(cfg)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read seed file: %w", err)
			}
			var seeds []seedUnit
			if err := json.Unmarshal(data, &seeds); err != nil {
				return fmt.Errorf("failed to parse seed file: %w", err)
			}

			ctx := cmd.Context()
			pool, err := postgres.NewPool(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer pool.Close()
			repo := repositories.NewGeoUnitRepository(pool, logger)

			for _, s := range seeds {
				var ring []geo.Point
				for _, v := range s.Boundary {
					ring = append(ring, geo.Point{Lon: v[0], Lat: v[1]})
				}
				active := true
				if s.IsActive != nil {
					active = *s.IsActive
				}
				unit, err := geo.NewUnit(common.ID(s.ID), s.Name, s.Code, geo.Level(s.Level),
					common.ID(s.ParentID), common.ID(s.CityID),
					geo.Point{Lon: s.Center[0], Lat: s.Center[1]}, ring, active)
				if err != nil {
					return fmt.Errorf("seed unit %s: %w", s.ID, err)
				}
				if err := repo.UpsertUnit(ctx, unit); err != nil {
					return err
				}
			}

			logger.Info("seed completed", logging.Int("units", len(seeds)))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to the geo units JSON file")
	return cmd
}
