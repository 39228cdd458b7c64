package main

import (
	"context"
	"os"
	"time"

	sflib "github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/crm"
	"github.com/sells-group/leadgen-cli/internal/discovery"
	"github.com/sells-group/leadgen-cli/internal/pipeline"
	"github.com/sells-group/leadgen-cli/internal/source"
	"github.com/sells-group/leadgen-cli/internal/store"
	"github.com/sells-group/leadgen-cli/pkg/clearbit"
	"github.com/sells-group/leadgen-cli/pkg/fdic"
	"github.com/sells-group/leadgen-cli/pkg/hunter"
	notionpkg "github.com/sells-group/leadgen-cli/pkg/notion"
	sfpkg "github.com/sells-group/leadgen-cli/pkg/salesforce"
	"github.com/sells-group/leadgen-cli/pkg/samgov"
	"github.com/sells-group/leadgen-cli/pkg/serper"
)

// pipelineEnv holds the initialized store, source adapters, and pipeline
// shared by the run and serve commands.
type pipelineEnv struct {
	Store    store.Store
	Pipeline *pipeline.Pipeline

	Search   *source.WebSearch
	FDIC     *source.FDIC
	SAMGov   *source.SAMGov
	Hunter   *source.Hunter
	Clearbit *source.Clearbit
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// Healths returns every source adapter's health snapshot.
func (pe *pipelineEnv) Healths() []source.Health {
	return []source.Health{
		pe.Search.Health(),
		pe.FDIC.Health(),
		pe.SAMGov.Health(),
		pe.Hunter.Health(),
		pe.Clearbit.Health(),
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		return store.NewSQLite(cfg.Store.Path)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initSalesforce authenticates against Salesforce with JWT credentials, or
// returns nil when Salesforce is not configured.
func initSalesforce() (sfpkg.Client, error) {
	if cfg.Salesforce.ClientID == "" {
		zap.L().Debug("salesforce not configured, CRM push disabled")
		return nil, nil
	}

	pemData, err := os.ReadFile(cfg.Salesforce.KeyPath)
	if err != nil {
		return nil, eris.Wrap(err, "read salesforce JWT private key")
	}

	sf, err := sflib.Init(sflib.Creds{
		Domain:         cfg.Salesforce.LoginURL,
		Username:       cfg.Salesforce.Username,
		ConsumerKey:    cfg.Salesforce.ClientID,
		ConsumerRSAPem: string(pemData),
	})
	if err != nil {
		return nil, eris.Wrap(err, "init salesforce")
	}

	return sfpkg.NewClient(sf), nil
}

// initPipeline sets up the store, source adapters, producers, and the
// pipeline. Callers should defer env.Close().
func initPipeline(ctx context.Context, mode string) (*pipelineEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	search := source.NewWebSearch(
		serper.NewClient(cfg.Serper.Key),
		cfg.Serper.RequestsPerMin,
		time.Duration(cfg.Serper.CacheTTLMinutes)*time.Minute,
		cfg.Serper.Key != "",
	)
	fdicSrc := source.NewFDIC(
		fdic.NewClient(),
		cfg.FDIC.RequestsPerMin,
		time.Duration(cfg.FDIC.CacheTTLHours)*time.Hour,
	)
	samSrc := source.NewSAMGov(
		samgov.NewClient(cfg.SAMGov.Key),
		cfg.SAMGov.RequestsPerMin,
		time.Duration(cfg.SAMGov.CacheTTLHours)*time.Hour,
		cfg.SAMGov.Key != "",
	)
	hunterSrc := source.NewHunter(
		hunter.NewClient(cfg.Hunter.Key),
		cfg.Hunter.RequestsPerMin,
		time.Duration(cfg.Hunter.CacheTTLHours)*time.Hour,
		cfg.Hunter.Key != "",
	)
	clearbitSrc := source.NewClearbit(
		clearbit.NewClient(cfg.Clearbit.Key),
		cfg.Clearbit.RequestsPerMin,
		time.Duration(cfg.Clearbit.CacheTTLHours)*time.Hour,
		cfg.Clearbit.Key != "",
	)

	sfClient, err := initSalesforce()
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	var notionClient notionpkg.Client
	if cfg.Notion.Token != "" {
		notionClient = notionpkg.NewClient(cfg.Notion.Token)
	} else {
		zap.L().Debug("notion not configured, review queue disabled")
	}
	syncer := crm.NewSyncer(sfClient, notionClient, cfg.Notion.ReviewDB, cfg.Validation.ReviewScore)

	d := cfg.Discovery
	producers := []discovery.Producer{
		discovery.NewBanking(fdicSrc, search, d.BankAssetMinimum, d.BankStates, d.MaxResultsPerProducer, d.EnableBanking),
		discovery.NewInsurance(search, d.MaxResultsPerProducer, d.EnableInsurance),
		discovery.NewEnergy(search, d.MaxResultsPerProducer, d.EnableEnergy),
		discovery.NewGovernment(samSrc, search, d.MaxResultsPerProducer, d.EnableGovernment),
	}

	p := pipeline.New(
		producers,
		pipeline.NewEnricher(hunterSrc, clearbitSrc, search),
		pipeline.NewValidator(search, cfg.Validation.MinEmployeeCount, nil),
		pipeline.NewTimingAnalyzer(search),
		pipeline.WithStore(st),
		pipeline.WithSyncer(syncer),
		pipeline.WithConcurrency(cfg.Pipeline.Concurrency),
	)

	return &pipelineEnv{
		Store:    st,
		Pipeline: p,
		Search:   search,
		FDIC:     fdicSrc,
		SAMGov:   samSrc,
		Hunter:   hunterSrc,
		Clearbit: clearbitSrc,
	}, nil
}
