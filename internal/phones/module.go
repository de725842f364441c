// Package phones provides the phone normalization bounded context module.
package phones

import (
	"fmt"

	apphttp "phonenorm_backend/internal/http"
	"phonenorm_backend/internal/phones/handler"
	"phonenorm_backend/internal/phones/service"
	"phonenorm_backend/platform/config"
	"phonenorm_backend/platform/logger"
	"phonenorm_backend/platform/phone"
	"phonenorm_backend/platform/validator"
)

// Module is the phones bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewNormalizer builds the normalizer from config, loading the optional
// table file over the compiled-in tables.
func NewNormalizer(cfg config.PhoneConfig, log *logger.Logger) (*phone.Normalizer, error) {
	tables := phone.DefaultTables()
	if path := cfg.GetPhoneTablesFile(); path != "" {
		loaded, err := phone.LoadTables(path)
		if err != nil {
			return nil, fmt.Errorf("phone tables %s: %w", path, err)
		}
		tables = loaded
		if log != nil {
			log.Info("phone tables loaded", "path", path, "legacy", len(tables.Legacy), "countries", len(tables.Countries))
		}
	}
	opts := phone.Options{NoiseTolerant: cfg.GetPhoneNoiseTolerant()}
	return phone.New(tables, phone.NewLibMetadata(), opts, log), nil
}

// NewModule creates and initializes the phones module.
func NewModule(normalizer *phone.Normalizer, val *validator.Validator, cfg config.PhoneConfig, log *logger.Logger) *Module {
	svc := service.New(normalizer, cfg.GetPhoneMaxBatch(), log)
	h := handler.New(svc, val, cfg.GetPhoneDefaultColumn())

	return &Module{
		handler: h,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "phones"
}

// RegisterRoutes mounts phone routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/phones/tables", m.handler.Tables)

	ctx.Limited.POST("/phones/normalize", m.handler.Normalize)
	ctx.Limited.POST("/phones/normalize/text", m.handler.NormalizeText)
	ctx.Limited.POST("/phones/normalize/csv", m.handler.NormalizeCSV)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
