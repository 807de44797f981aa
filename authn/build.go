package authn

import (
	"github.com/ridewise/carpool-auth/config"
	"github.com/ridewise/carpool-auth/identity"
	"github.com/ridewise/carpool-auth/jwks"
	"github.com/ridewise/carpool-auth/logger"
	"github.com/ridewise/carpool-auth/password"
	"github.com/ridewise/carpool-auth/redis"
	"github.com/ridewise/carpool-auth/revocation"
	"github.com/ridewise/carpool-auth/rotation"
	"github.com/ridewise/carpool-auth/token"
)

// Build wires a complete Service from configuration. The user store is the
// application's; everything else is constructed here. The returned close
// function releases the Redis connection when one was opened.
func Build(cfg *config.Config, users identity.UserStore, log *logger.Logger) (*Service, func() error, error) {
	if log == nil {
		log = logger.Nop()
	}
	closeFn := func() error { return nil }

	hasher := password.NewHasher(cfg.Password)
	policy := password.NewPolicyFromConfig(cfg.Password)

	issuer, err := token.NewIssuer(&cfg.Token)
	if err != nil {
		return nil, nil, err
	}

	var revokedStore revocation.Store
	var usedStore rotation.UsedTokenStore
	var usedResets rotation.UsedTokenStore
	if cfg.Redis.Enabled {
		client, err := redis.New(cfg.Redis, log)
		if err != nil {
			return nil, nil, err
		}
		closeFn = client.Close
		revokedStore = revocation.NewRedisStore(client.Unwrap(), cfg.Redis.RevokedKeyPrefix)
		usedStore = rotation.NewRedisStore(client.Unwrap(), cfg.Redis.UsedKeyPrefix)
		usedResets = usedStore
	} else {
		revokedStore = revocation.NewMemoryStore()
		usedStore = rotation.NewMemoryStore()
		usedResets = rotation.NewMemoryStore()
	}
	registry := revocation.NewRegistry(revokedStore)

	verifierOpts := []token.VerifierOption{token.WithRevocationChecker(registry)}
	if cfg.Token.FederatedIssuer != "" {
		resolver, err := jwks.NewResolver(&cfg.JWKS, log)
		if err != nil {
			return nil, nil, err
		}
		verifierOpts = append(verifierOpts, token.WithKeyResolver(resolver))
	}
	verifier, err := token.NewVerifier(&cfg.Token, verifierOpts...)
	if err != nil {
		return nil, nil, err
	}

	rotator := rotation.NewEngine(verifier, issuer, users, usedStore, log)

	metrics, err := NewMetrics(nil)
	if err != nil {
		return nil, nil, err
	}

	svc, err := NewService(Deps{
		Users:       users,
		Hasher:      hasher,
		Policy:      policy,
		Issuer:      issuer,
		Verifier:    verifier,
		Revocations: registry,
		Rotator:     rotator,
		UsedResets:  usedResets,
		Logger:      log,
		Metrics:     metrics,
	})
	if err != nil {
		return nil, nil, err
	}
	return svc, closeFn, nil
}
