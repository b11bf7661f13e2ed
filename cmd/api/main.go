package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-auditor-api/infrastructure/database/postgres"
	"github.com/vfg2006/ad-auditor-api/infrastructure/integrator/meta"
	"github.com/vfg2006/ad-auditor-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/ad-auditor-api/infrastructure/repository"
	"github.com/vfg2006/ad-auditor-api/internal/api"
	"github.com/vfg2006/ad-auditor-api/internal/config"
	"github.com/vfg2006/ad-auditor-api/internal/scheduler"
	"github.com/vfg2006/ad-auditor-api/internal/usecases/auditing"
	"github.com/vfg2006/ad-auditor-api/internal/usecases/authenticating"
	"github.com/vfg2006/ad-auditor-api/internal/usecases/clients"
	"github.com/vfg2006/ad-auditor-api/internal/usecases/navigating"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	userRepo := repository.NewUserRepository(pgConn)
	clientRepo := repository.NewClientRepository(pgConn)
	auditRepo := repository.NewAuditRepository(pgConn)

	authenticator := authenticating.NewService(userRepo, cfg)

	credentials := metaclient.NewCredentialProvider(cfg.Meta.AccessToken)
	metaClient := metaclient.NewClient(cfg, credentials)
	metaIntegrator := meta.New(cfg, metaClient)

	sessionStore := navigating.NewStore(time.Duration(cfg.Session.TTLMinutes) * time.Minute)

	auditor := auditing.NewService(cfg, metaIntegrator, sessionStore, auditRepo)
	clientManager := clients.NewService(clientRepo, auditRepo)

	auditSyncService := scheduler.NewAuditSyncService(clientRepo, auditRepo, auditor, cfg)

	if err := auditSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de sincronização de auditorias")
	} else {
		logrus.Info("Agendador de sincronização de auditorias iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		auditor,
		clientManager,
		authenticator,
		auditSyncService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
