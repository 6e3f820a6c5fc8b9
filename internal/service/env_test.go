package service

import (
	"time"

	"go.uber.org/zap"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type testEnv struct {
	clock    *fakeClock
	grants   *memGrants
	catalog  *memCatalog
	progress *memProgress
	users    *memUsers

	grantService    *GrantService
	resolver        *AccessResolver
	progressService *ProgressService
	catalogService  *CatalogService
	userService     *UserService
}

func newTestEnv(strictWindow bool) *testEnv {
	logger := zap.NewNop()
	clock := newFakeClock(t0)
	catalog := newMemCatalog()

	env := &testEnv{
		clock:    clock,
		grants:   newMemGrants(),
		catalog:  catalog,
		progress: newMemProgress(catalog),
		users:    newMemUsers(),
	}

	env.grantService = NewGrantService(env.grants, env.catalog, env.users, strictWindow, clock.Now, logger)
	env.resolver = NewAccessResolver(env.grants, env.catalog, clock.Now, logger)
	env.progressService = NewProgressService(env.progress, env.catalog, env.resolver, clock.Now, logger)
	env.catalogService = NewCatalogService(env.catalog, logger)
	env.userService = NewUserService(env.users, []int64{900}, logger)

	return env
}
