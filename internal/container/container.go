package container

import (
	"github.com/rs/zerolog"

	app "pneumo-bot/internal/application"
	"pneumo-bot/internal/domain/port"
)

type Container struct {
	UserService      *app.UserService
	DiagnosisService *app.DiagnosisService
}

func New(userRepo port.UserRepository, normalizer port.ImageNormalizer, classifier port.Classifier, explainer port.Explainer, log zerolog.Logger) *Container {
	userService := app.NewUserService(userRepo)
	diagnosisService := app.NewDiagnosisService(normalizer, classifier, explainer, log)

	return &Container{
		UserService:      userService,
		DiagnosisService: diagnosisService,
	}
}
