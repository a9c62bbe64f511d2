// internal/platform/di/container.go
package di

import (
	"context"
	"errors"
	"log"
	"net/http"

	httpin "agrimarket/internal/adapters/in/http"
	"agrimarket/internal/adapters/in/http/handler"
	"agrimarket/internal/adapters/in/http/middleware"
	"agrimarket/internal/adapters/out/db"
	fsrepo "agrimarket/internal/adapters/out/firestore"
	"agrimarket/internal/adapters/out/gcs"
	"agrimarket/internal/adapters/out/mail"
	redisout "agrimarket/internal/adapters/out/redis"
	"agrimarket/internal/application/query"
	"agrimarket/internal/application/usecase"
)

// Container wires repositories, usecases and handlers on top of Infra.
type Container struct {
	infra *Infra

	AccountUC *usecase.AccountUsecase
	ListingUC *usecase.ListingUsecase
	CartUC    *usecase.CartUsecase
	OrderUC   *usecase.OrderUsecase
	CartQuery *query.CartQuery

	Router http.Handler
}

// NewContainer builds the full object graph. Optional collaborators
// (archive, mailer, images, firebase) wire in only when their client exists.
func NewContainer(ctx context.Context, infra *Infra) (*Container, error) {
	if infra == nil || infra.Firestore == nil || infra.Redis == nil {
		return nil, errors.New("di.container: infra is not initialized")
	}

	// out: repositories
	listings := fsrepo.NewListingRepositoryFS(infra.Firestore)
	carts := fsrepo.NewCartRepositoryFS(infra.Firestore)
	orders := fsrepo.NewOrderRepositoryFS(infra.Firestore)
	accounts := fsrepo.NewAccountRepositoryFS(infra.Firestore)

	sessions := redisout.NewSessionStoreRedis(infra.Redis)
	idem := redisout.NewIdempotencyRegistryRedis(infra.Redis)

	// application
	c := &Container{infra: infra}

	c.AccountUC = usecase.NewAccountUsecase(accounts, sessions)

	c.ListingUC = usecase.NewListingUsecase(listings)
	if infra.GCS != nil && infra.ImageBucket != "" {
		c.ListingUC.WithImages(gcs.NewCropImageStoreGCS(infra.GCS, infra.ImageBucket))
	}

	c.CartUC = usecase.NewCartUsecase(carts, listings)
	c.CartQuery = query.NewCartQuery(carts, listings)

	c.OrderUC = usecase.NewOrderUsecase(orders, listings, carts).WithIdempotency(idem)
	if infra.Postgres != nil {
		c.OrderUC.WithArchive(db.NewOrderArchivePG(infra.Postgres.Client))
	}
	if infra.SendGridAPIKey != "" && infra.MailFrom != "" {
		c.OrderUC.WithMailer(mail.NewSendGridMailer(infra.SendGridAPIKey, infra.MailFrom))
	} else {
		log.Printf("[di.container] confirmation mail disabled (no sendgrid key or from address)")
	}

	// in: middleware + handlers + router
	sessionAuth := &middleware.SessionAuth{
		Sessions:     sessions,
		FirebaseAuth: infra.FirebaseAuth,
	}

	c.Router = httpin.New(httpin.RouterDeps{
		Auth:        handler.NewAuthHandler(c.AccountUC),
		Listing:     handler.NewListingHandler(c.ListingUC, c.AccountUC),
		Cart:        handler.NewCartHandler(c.CartUC, c.CartQuery),
		Order:       handler.NewOrderHandler(c.OrderUC),
		Profile:     handler.NewProfileHandler(c.AccountUC),
		Insights:    handler.NewInsightsHandler(infra.Weather, infra.News, infra.Advisory, infra.PriceIndex),
		SessionAuth: sessionAuth,
	})

	return c, nil
}

// Close releases container-owned resources. Clients belong to Infra, so
// there is nothing to do today; the method exists for the boot sequence.
func (c *Container) Close() error {
	return nil
}
