package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/application/triage"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/complaint"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/geo"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/similarity"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/database/postgres"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/database/postgres/repositories"
)

// newTriageCommand runs the pipeline stages on an ad-hoc draft and prints
// the result without persisting anything.  Useful for tuning thresholds
// against production data.
func newTriageCommand(opts *rootOptions) *cobra.Command {
	var (
		description string
		lon, lat    float64
		category    string
		urgency     string
	)

	cmd := &cobra.Command{
		Use:   "triage",
		Short: "Preview triage output for a draft complaint",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			logger, err := buildLogger(cfg)
			if err != nil {
				return err
			}

			draft, err := complaint.NewDraft("", description, geo.Point{Lon: lon, Lat: lat},
				category, urgency, time.Now().UTC())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			pool, err := postgres.NewPool(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer pool.Close()

			geoRepo := repositories.NewGeoUnitRepository(pool, logger)
			categoryRepo := repositories.NewCategoryRepository(pool, logger)
			complaintRepo := repositories.NewComplaintRepository(pool, logger)

			sim := similarity.NewEngine(
				cfg.Triage.Similarity.JaccardWeight,
				cfg.Triage.Similarity.CosineWeight,
				cfg.Triage.Similarity.EditWeight,
				cfg.Triage.Similarity.EditMaxLen,
			)
			resolver := triage.NewResolver(geoRepo, cfg.Triage.Assignment, cfg.Triage.Cache.GeoTTL, logger)
			detector := triage.NewDetector(complaintRepo, sim, nil, cfg.Triage.Duplicate, 0, logger)
			scorer := triage.NewScorer(complaintRepo, categoryRepo, cfg.Triage.Severity, logger)
			sla := triage.NewSLAManager(complaintRepo, nil, cfg.Triage.SLA, logger)

			result := complaint.TriageResult{}
			if result.Assignment, err = resolver.Assign(ctx, draft.Location, triage.ResolveOptions{}); err != nil {
				return err
			}
			if result.Duplicate, err = detector.CheckForDuplicates(ctx, draft, triage.CandidateOptions{Category: draft.Category}); err != nil {
				return err
			}
			if result.Severity, err = scorer.Score(ctx, draft, triage.ScoreOptions{}); err != nil {
				return err
			}
			result.SLA = sla.ComputeSLA(draft.Category, draft.CreatedAt)

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&description, "description", "", "complaint description")
	f.Float64Var(&lon, "lon", 0, "longitude")
	f.Float64Var(&lat, "lat", 0, "latitude")
	f.StringVar(&category, "category", "", "category hint (water, roads, garbage, electricity, others)")
	f.StringVar(&urgency, "urgency", "", "citizen urgency (low, medium, high, critical)")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}
