// internal/platform/di/infra.go
package di

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/go-redis/redis/v8"
	"google.golang.org/api/option"

	appcfg "agrimarket/internal/infra/config"
	"agrimarket/internal/infra/database"
	"agrimarket/internal/infra/external"
	firestoreinfra "agrimarket/internal/infra/firestore"
	"agrimarket/internal/infra/secrets"
)

// Infra is the shared runtime infrastructure.
// - owns external clients (Firestore/FirebaseAuth/GCS/Redis/Postgres)
// - owns the insight service clients
// - owns env-resolved runtime settings
//
// Infra must NOT depend on routers, handlers, or queries.
type Infra struct {
	Config    *appcfg.Config
	ProjectID string

	// Clients (owned; Close-managed)
	fsWrapper    *firestoreinfra.ClientWrapper
	Firestore    *firestore.Client
	GCS          *storage.Client
	Redis        *redis.Client
	Postgres     *database.DB
	FirebaseApp  *firebase.App
	FirebaseAuth *firebaseauth.Client
	Secrets      *secrets.APIKeyProviderSM

	// Insight services (nil when not configured)
	Weather    *external.WeatherClient
	News       *external.NewsClient
	Advisory   *external.AdvisoryClient
	PriceIndex *external.PriceIndexClient

	// Resolved once
	SendGridAPIKey string
	MailFrom       string
	ImageBucket    string
}

// NewInfra initializes shared infra.
// Firestore and Redis are strict (return error). GCS, Postgres, Firebase,
// Secret Manager and the insight clients are best-effort (warn + continue)
// so a missing collaborator degrades its feature instead of the service.
func NewInfra(ctx context.Context) (*Infra, error) {
	cfg := appcfg.Load()
	if cfg == nil {
		return nil, errors.New("di.infra: config is nil")
	}

	projectID := strings.TrimSpace(cfg.FirestoreProjectID)
	if projectID == "" {
		return nil, errors.New("di.infra: projectID is empty (set FIRESTORE_PROJECT_ID or GCP_PROJECT_ID)")
	}

	inf := &Infra{
		Config:    cfg,
		ProjectID: projectID,
		MailFrom:  cfg.MailFrom,
	}

	credFile := strings.TrimSpace(cfg.FirestoreCredentialsFile)
	if credFile == "" {
		credFile = strings.TrimSpace(cfg.GCPCreds)
	}
	var clientOpts []option.ClientOption
	if credFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credFile))
		log.Printf("[di.infra] using credentials file for GCP clients")
	} else {
		log.Printf("[di.infra] using Application Default Credentials")
	}

	// 1) Firestore (strict)
	{
		fsw, err := firestoreinfra.NewClient(ctx, projectID, credFile)
		if err != nil {
			return nil, fmt.Errorf("di.infra: firestore init failed (project=%s): %w", projectID, err)
		}
		inf.fsWrapper = fsw
		inf.Firestore = fsw.Client
	}

	// 2) Redis (strict; sessions and idempotency depend on it)
	{
		inf.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := inf.Redis.Ping(ctx).Err(); err != nil {
			_ = inf.fsWrapper.Close()
			return nil, fmt.Errorf("di.infra: redis ping failed (addr=%s): %w", cfg.RedisAddr, err)
		}
		log.Printf("[di.infra] Redis connected addr=%s", cfg.RedisAddr)
	}

	// 3) GCS (best-effort; crop images degrade)
	{
		var err error
		if len(clientOpts) > 0 {
			inf.GCS, err = storage.NewClient(ctx, clientOpts...)
		} else {
			inf.GCS, err = storage.NewClient(ctx)
		}
		if err != nil {
			log.Printf("[di.infra] WARN: storage.NewClient failed: %v (crop image uploads disabled)", err)
			inf.GCS = nil
		} else {
			inf.ImageBucket = strings.TrimSpace(cfg.GCSBucket)
			if inf.ImageBucket == "" {
				log.Printf("[di.infra] WARN: GCS_BUCKET is empty (crop image uploads disabled)")
			}
		}
	}

	// 4) Postgres order archive (best-effort)
	if strings.TrimSpace(cfg.PostgresDSN) != "" {
		pg, err := database.NewConnection(cfg.PostgresDSN)
		if err != nil {
			log.Printf("[di.infra] WARN: postgres connect failed: %v (order archive disabled)", err)
		} else {
			inf.Postgres = pg
		}
	} else {
		log.Printf("[di.infra] order archive not configured (POSTGRES_DSN empty)")
	}

	// 5) Firebase App/Auth (best-effort; session tokens still work)
	{
		fbCfg := &firebase.Config{ProjectID: cfg.FirebaseProjectID}
		var fbApp *firebase.App
		var err error
		if len(clientOpts) > 0 {
			fbApp, err = firebase.NewApp(ctx, fbCfg, clientOpts...)
		} else {
			fbApp, err = firebase.NewApp(ctx, fbCfg)
		}
		if err != nil {
			log.Printf("[di.infra] WARN: firebase app init failed: %v", err)
		} else {
			inf.FirebaseApp = fbApp
			authClient, err := fbApp.Auth(ctx)
			if err != nil {
				log.Printf("[di.infra] WARN: firebase auth init failed: %v", err)
			} else {
				inf.FirebaseAuth = authClient
				log.Printf("[di.infra] Firebase Auth initialized")
			}
		}
	}

	// 6) SendGrid API key: env wins, Secret Manager fallback
	{
		inf.SendGridAPIKey = strings.TrimSpace(cfg.SendGridAPIKey)
		if inf.SendGridAPIKey == "" {
			sm, err := secrets.NewAPIKeyProviderSM(ctx, projectID)
			if err != nil {
				log.Printf("[di.infra] WARN: secret manager init failed: %v (confirmation mail disabled)", err)
			} else {
				inf.Secrets = sm
				key, err := sm.Get(ctx, cfg.SendGridSecretID)
				if err != nil {
					log.Printf("[di.infra] WARN: sendgrid key fetch failed: %v (confirmation mail disabled)", err)
				} else {
					inf.SendGridAPIKey = key
				}
			}
		}
	}

	// 7) Insight clients (each optional)
	if cfg.WeatherBaseURL != "" {
		inf.Weather = external.NewWeatherClient(cfg.WeatherBaseURL, cfg.WeatherAPIKey)
	}
	if cfg.NewsBaseURL != "" {
		inf.News = external.NewNewsClient(cfg.NewsBaseURL, cfg.NewsAPIKey)
	}
	if cfg.AdvisoryBaseURL != "" {
		inf.Advisory = external.NewAdvisoryClient(cfg.AdvisoryBaseURL, cfg.AdvisoryAPIKey)
	}
	if cfg.PriceIndexBaseURL != "" {
		inf.PriceIndex = external.NewPriceIndexClient(cfg.PriceIndexBaseURL, cfg.PriceIndexAPIKey)
	}

	return inf, nil
}

// Close releases owned clients; safe on a partially-built Infra.
func (inf *Infra) Close() error {
	if inf == nil {
		return nil
	}
	var errs []string
	if inf.Secrets != nil {
		if err := inf.Secrets.Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if inf.Postgres != nil {
		if err := inf.Postgres.Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if inf.Redis != nil {
		if err := inf.Redis.Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if inf.GCS != nil {
		if err := inf.GCS.Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if inf.fsWrapper != nil {
		if err := inf.fsWrapper.Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return errors.New("di.infra: close: " + strings.Join(errs, "; "))
	}
	return nil
}
