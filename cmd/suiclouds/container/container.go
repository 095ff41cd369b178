package container

import (
	"net/http"

	"github.com/anhkhoavan24-art/SuiClouds/cmd/suiclouds/repository"
	"github.com/anhkhoavan24-art/SuiClouds/cmd/suiclouds/service"
	"github.com/anhkhoavan24-art/SuiClouds/common/bootstrap"
	"github.com/anhkhoavan24-art/SuiClouds/common/clients"
	"github.com/anhkhoavan24-art/SuiClouds/common/walrus"
)

// Container holds all initialized services and repositories (singleton pattern)
type Container struct {
	// Components
	Components *bootstrap.Components
	Walrus     *walrus.Client

	// Repositories
	FileRepo repository.FileRepository

	// Services
	PricingService *service.PricingService
	Bridge         *service.ConfirmationBridge
	UploadService  *service.UploadService
	FileService    *service.FileService
}

// NewContainer initializes all services and repositories once
func NewContainer(components *bootstrap.Components) (*Container, error) {
	cfg := components.Config

	// Blob store client: publisher, aggregator, relay, native writer
	walrusClient := walrus.NewClient(walrus.Options{
		PublisherURL:  cfg.Walrus.PublisherURL,
		AggregatorURL: cfg.Walrus.AggregatorURL,
		RelayURL:      cfg.Walrus.RelayURL,
		FullnodeURL:   cfg.Walrus.FullnodeURL,
		ExplorerURL:   cfg.Walrus.ExplorerURL,
		HTTPTimeout:   cfg.Walrus.HTTPTimeout,
	}, components.Logger)

	// Exchange rates share the bootstrap cache (memory or redis)
	rates := walrus.NewRateSource(
		cfg.Walrus.RateURL,
		cfg.Cache.RateTTL,
		components.Cache,
		clients.NewHTTPClient(&http.Client{Timeout: cfg.Walrus.HTTPTimeout}, components.Logger),
		components.Logger,
	)

	// Metadata store backend is selected by configuration
	var fileRepo repository.FileRepository
	if cfg.Store.Backend == "postgres" {
		fileRepo = repository.NewPostgresFileRepository(components.DB)
	} else {
		fileRepo = repository.NewMemoryFileRepository()
	}

	// Initialize services (bottom-up: dependencies first)
	pricingService := service.NewPricingService(walrusClient, rates, cfg.Pricing, components.Logger)
	bridge := service.NewConfirmationBridge()
	uploadService := service.NewUploadService(
		fileRepo,
		walrusClient,
		pricingService,
		bridge,
		cfg.Walrus.DefaultEpochs,
		components.Logger,
	)
	fileService := service.NewFileService(fileRepo, walrusClient, components.Logger)

	return &Container{
		Components:     components,
		Walrus:         walrusClient,
		FileRepo:       fileRepo,
		PricingService: pricingService,
		Bridge:         bridge,
		UploadService:  uploadService,
		FileService:    fileService,
	}, nil
}
