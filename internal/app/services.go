package app

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/itinerum-backend/internal/data/aggregates"
	"github.com/yungbote/itinerum-backend/internal/observability"
	"github.com/yungbote/itinerum-backend/internal/platform/logger"
	"github.com/yungbote/itinerum-backend/internal/schema"
	"github.com/yungbote/itinerum-backend/internal/services"
)

type Services struct {
	Schema       services.SchemaService
	Registration services.RegistrationService
	Sync         services.SyncService
}

func loadCatalog(log *logger.Logger, path string) (*schema.Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return schema.DefaultCatalog()
	}
	log.Info("Loading survey revision catalog", "path", path)
	return schema.LoadCatalogFile(path)
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	catalog, err := loadCatalog(log, cfg.SurveyRevisionsFile)
	if err != nil {
		return Services{}, fmt.Errorf("load survey catalog: %w", err)
	}

	base := aggregates.BaseDeps{
		DB:    db,
		Log:   log,
		Hooks: aggregates.NewObservabilityHooks(metrics),
	}
	participants := aggregates.NewParticipantAggregate(aggregates.ParticipantAggregateDeps{
		Base:         base,
		Participants: reposet.Participant,
	})
	ingestion := aggregates.NewIngestionAggregate(aggregates.IngestionAggregateDeps{
		Base:                base,
		SurveyResponses:     reposet.SurveyResponse,
		Coordinates:         reposet.Coordinate,
		Prompts:             reposet.PromptResponse,
		Cancelled:           reposet.CancelledPrompt,
		CoordinateBatchSize: cfg.CoordinateBatchSize,
	})

	schemaSvc := services.NewSchemaService(services.SchemaServiceDeps{
		Log:     log,
		Surveys: reposet.Survey,
		Catalog: catalog,
		Cache:   clients.SchemaCache,
		Metrics: metrics,
	})

	return Services{
		Schema: schemaSvc,
		Registration: services.NewRegistrationService(services.RegistrationServiceDeps{
			Log:                   log,
			Schema:                schemaSvc,
			Participants:          participants,
			Metrics:               metrics,
			AssetsRoute:           cfg.AssetsRoute,
			DefaultAvatarFilename: cfg.DefaultAvatarFilename,
		}),
		Sync: services.NewSyncService(services.SyncServiceDeps{
			Log:          log,
			Schema:       schemaSvc,
			Participants: reposet.Participant,
			Ingestion:    ingestion,
			Metrics:      metrics,
		}),
	}, nil
}
