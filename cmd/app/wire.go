//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/yanqian/growth-monitor/internal/bootstrap"
	"github.com/yanqian/growth-monitor/internal/domain/assessment"
	"github.com/yanqian/growth-monitor/internal/infra/config"
	httpiface "github.com/yanqian/growth-monitor/internal/interface/http"
	"github.com/yanqian/growth-monitor/pkg/logger"
)

var serviceSet = wire.NewSet(
	config.Load,
	logger.New,
	provideAssessmentConfig,
	provideReferenceStore,
	provideAssessmentCache,
	assessment.NewService,
)

func initializeApp(ctx context.Context) (*bootstrap.App, error) {
	wire.Build(
		serviceSet,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}

func initializeService(ctx context.Context) (assessment.Service, error) {
	wire.Build(serviceSet)
	return nil, nil
}
