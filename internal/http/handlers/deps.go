package handlers

import (
	"menuboard/internal/config"
	"menuboard/internal/ids"
	"menuboard/internal/importer"
	"menuboard/internal/repos"
	"menuboard/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	Auth *services.AuthService

	AuthHandler     *AuthHandler
	MenuHandler     *MenuHandler
	SearchHandler   *SearchHandler
	CartHandler     *CartHandler
	CheckoutHandler *CheckoutHandler
	AdminHandler    *AdminHandler
	ImportHandler   *ImportHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, gen ids.Generator) *Deps {
	catRepo := repos.NewCatalogRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	configRepo := repos.NewConfigRepo(db)
	userRepo := repos.NewUserRepo(db)

	authSvc := &services.AuthService{Users: userRepo}
	catalogSvc := services.NewCatalogService(catRepo, gen)
	cartSvc := services.NewCartService(cartRepo, catRepo)
	settingsSvc := services.NewSettingsService(configRepo)
	checkoutSvc := services.NewCheckoutService(cartSvc, orderRepo, settingsSvc, gen)
	importSvc := services.NewImportService(catalogSvc, &importer.SheetsSource{
		APIKey: cfg.SheetsAPIKey,
		Range:  cfg.SheetsRange,
	})

	return &Deps{
		Auth:            authSvc,
		AuthHandler:     &AuthHandler{Auth: authSvc},
		MenuHandler:     &MenuHandler{Catalog: catalogSvc, Settings: settingsSvc, Cart: cartSvc},
		SearchHandler:   &SearchHandler{Catalog: catalogSvc},
		CartHandler:     &CartHandler{Cart: cartSvc},
		CheckoutHandler: &CheckoutHandler{Cart: cartSvc, Checkout: checkoutSvc, Settings: settingsSvc},
		AdminHandler:    &AdminHandler{Catalog: catalogSvc, Settings: settingsSvc, Checkout: checkoutSvc},
		ImportHandler:   &ImportHandler{Imports: importSvc},
	}
}
