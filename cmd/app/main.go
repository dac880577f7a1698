// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"resolve-ai-agent/internal/application"
	"resolve-ai-agent/internal/config"
	"resolve-ai-agent/internal/domain/ports/adapter"
	"resolve-ai-agent/internal/infra/adapters/vendor"
	"resolve-ai-agent/internal/infra/api"
	"resolve-ai-agent/internal/infra/db/sqlite"
	"resolve-ai-agent/internal/infra/host"
	"resolve-ai-agent/internal/infra/logging"
	"resolve-ai-agent/internal/infra/metrics"
	"resolve-ai-agent/internal/infra/transfer"
	"resolve-ai-agent/internal/usecase"
)

// newHost picks the editing-host transport. The noop host fakes renders
// with empty files, so it must never sit in front of real vendors.
// TODO: real Resolve scripting transport once exposed.
func newHost(dev bool) (adapter.Host, error) {
	if dev {
		return host.NewNoopHost(), nil
	}
	return nil, errors.New("no editing host transport available yet, run with -dev")
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop vendors and host)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Runtime.Dev {
		log.Printf("[DEV MODE] Enabled")
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- SQLite run store ----
	store, err := sqlite.Open(filepath.Join(cfg.Storage.DataDir, "agent.db"), logger)
	if err != nil {
		log.Fatalf("sqlite: %v", err)
	}
	defer store.Close()
	runRepo := sqlite.NewRunRepo(store)

	// ---- Transfer ----
	files := transfer.NewTmpFilesClient(cfg.Transfer.UploadURL)

	// ---- Vendor adapters (configured keys only) ----
	creds := config.LoadCredentials()
	generators := map[string]adapter.VideoGenerator{}
	var sound adapter.SoundGenerator

	if cfg.Runtime.Dev {
		generators["noop"] = vendor.NewNoopVideoGenerator()
		sound = vendor.NewNoopSoundGenerator()
		cfg.Vendors.Default = "noop"
	} else {
		if creds.GrokKey != "" {
			grok, err := vendor.NewGrokAdapter(creds.GrokKey, cfg.Vendors.Grok.BaseURL, cfg.Vendors.Grok.Model)
			if err != nil {
				log.Fatalf("grok adapter: %v", err)
			}
			generators["grok"] = grok
			logger.Info().Str("base", cfg.Vendors.Grok.BaseURL).Str("model", cfg.Vendors.Grok.Model).Msg("vendor: grok")
		}
		if creds.LumaKey != "" {
			luma, err := vendor.NewLumaAdapter(creds.LumaKey, cfg.Vendors.Luma.BaseURL)
			if err != nil {
				log.Fatalf("luma adapter: %v", err)
			}
			generators["luma"] = luma
			logger.Info().Str("base", cfg.Vendors.Luma.BaseURL).Msg("vendor: luma")
		}
		if creds.GeminiKey != "" {
			veo, err := vendor.NewVeoAdapter(ctx, creds.GeminiKey, cfg.Vendors.Veo.Model)
			if err != nil {
				log.Fatalf("veo adapter: %v", err)
			}
			generators["veo"] = veo
			logger.Info().Str("model", cfg.Vendors.Veo.Model).Msg("vendor: veo")
		}
		if creds.ElevenLabsKey != "" {
			el, err := vendor.NewElevenLabsAdapter(creds.ElevenLabsKey, cfg.Vendors.ElevenLabs.BaseURL,
				cfg.Vendors.ElevenLabs.OutputFormat, cfg.Vendors.ElevenLabs.Influence)
			if err != nil {
				log.Fatalf("elevenlabs adapter: %v", err)
			}
			sound = el
			logger.Info().Str("base", cfg.Vendors.ElevenLabs.BaseURL).Msg("vendor: elevenlabs")
		}
		if len(generators) == 0 {
			log.Fatalf("no video vendor configured: set GROK_API_KEY, LUMA_API_KEY or GEMINI_API_KEY")
		}
	}
	if _, ok := generators[cfg.Vendors.Default]; !ok {
		for name := range generators {
			cfg.Vendors.Default = name
			break
		}
		logger.Warn().Str("vendor", cfg.Vendors.Default).Msg("default vendor not configured, picked a fallback")
	}
	registry := vendor.NewRegistry(cfg.Vendors.Default, generators)

	// ---- Host bridge ----
	hostSession, err := newHost(cfg.Runtime.Dev)
	if err != nil {
		log.Fatalf("host: %v", err)
	}
	bridge := host.NewBridge(hostSession, logger, host.Options{
		Format:        cfg.Render.Format,
		Codec:         cfg.Render.Codec,
		RenderTimeout: cfg.Render.Timeout,
		PollInterval:  cfg.Poll.Interval,
		LogInterval:   cfg.Poll.LogInterval,
	})

	// ---- Use cases ----
	editUC := usecase.NewEditUseCase(bridge, files, registry, cfg.Poll, cfg.Storage.TempDir, logger, nil)
	transitionUC := usecase.NewTransitionUseCase(bridge, files, registry, cfg.Poll, cfg.Storage.TempDir, logger, nil)
	generateUC := usecase.NewGenerateUseCase(bridge, files, registry, cfg.Poll, cfg.Storage.TempDir, logger, nil)
	var soundUC usecase.SoundUseCase
	if sound != nil {
		soundUC = usecase.NewSoundUseCase(bridge, sound, cfg.Storage.TempDir, logger)
	}

	// ---- Session + API ----
	session := application.NewSession(editUC, transitionUC, soundUC, generateUC, runRepo, logger)
	server := api.NewServer(cfg.API.Port, api.RouterConfig{
		Session:   session,
		Runs:      runRepo,
		Logger:    logger,
		StartTime: time.Now(),
	})
	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	log.Println("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	session.Close()
	cancel()
}
